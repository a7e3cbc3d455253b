package models

import (
	"testing"
)

func TestSearchRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     *SearchRequest
		wantErr bool
	}{
		{"empty root", &SearchRequest{Root: ""}, true},
		{"whitespace root", &SearchRequest{Root: "   "}, true},
		{"valid request", &SearchRequest{Root: ".", Pattern: "*.go"}, false},
		{"sets default max results", &SearchRequest{Root: ".", MaxResults: 0}, false},
		{"unknown sort key", &SearchRequest{Root: ".", SortBy: "color"}, true},
		{"min size above max size", &SearchRequest{Root: ".", MinSize: 10, MaxSize: 5}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				if tt.req.MaxResults <= 0 {
					t.Error("expected default max results to be set")
				}
				if tt.req.SortBy == "" {
					t.Error("expected default sort key to be set")
				}
			}
		})
	}
}

func TestSearchRequest_Validate_normalizesExtensions(t *testing.T) {
	req := &SearchRequest{Root: ".", Extensions: []string{"py", ".JS", " md "}}
	if err := req.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	want := []string{".py", ".js", ".md"}
	for i, ext := range req.Extensions {
		if ext != want[i] {
			t.Errorf("extension %d = %q, want %q", i, ext, want[i])
		}
	}
}

func TestSearchRequest_HasContentPattern(t *testing.T) {
	if (&SearchRequest{Root: "."}).HasContentPattern() {
		t.Error("empty content pattern should report false")
	}
	if !(&SearchRequest{Root: ".", ContentPattern: "TODO"}).HasContentPattern() {
		t.Error("set content pattern should report true")
	}
}
