package search

import (
	"path/filepath"
	"sort"

	"github.com/hyperjump/mitsuke/internal/extract"
	"github.com/hyperjump/mitsuke/internal/models"
	"github.com/hyperjump/mitsuke/pkg/utils"
)

// previewCount bounds how many records get a content preview. Previews cost
// a read and an extraction each, so only the head of the sorted result list
// pays it.
const previewCount = 10

// previewUnavailable is shown for records whose content cannot be read or
// is not text; the record itself stays in the result set.
const previewUnavailable = "(preview unavailable)"

// aggregator finalizes the collected records of one search: total sort with
// deterministic tie-breaking, cap truncation, and preview attachment.
type aggregator struct {
	root        string
	sortBy      models.SortKey
	reverse     bool
	maxResults  int
	showPreview bool
	previewLen  int
	extractor   *extract.Extractor
	cache       *ContentCache
}

// finalize sorts records by the configured key (ties broken by path so equal
// inputs always produce equal output), truncates to the result cap, and
// attaches previews to the first previewCount file records.
func (a *aggregator) finalize(records []*models.ResultRecord) []*models.ResultRecord {
	sortRecords(records, a.sortBy, a.reverse)
	if len(records) > a.maxResults {
		records = records[:a.maxResults]
	}
	if a.showPreview {
		for i, r := range records {
			if i == previewCount {
				break
			}
			if r.Kind != models.KindFile {
				continue
			}
			r.Preview = a.preview(r.Path)
		}
	}
	return records
}

func (a *aggregator) preview(relPath string) string {
	abs := filepath.Join(a.root, filepath.FromSlash(relPath))
	content, ok := a.cache.Get(abs)
	if !ok {
		extracted, err := a.extractor.Extract(abs)
		if err != nil {
			return previewUnavailable
		}
		content = extracted
		a.cache.Put(abs, content)
	}
	return utils.Truncate(utils.CollapseSpace(content), a.previewLen)
}

// sortRecords orders records by key. The order is total: records with equal
// keys fall back to ascending path comparison regardless of direction.
func sortRecords(records []*models.ResultRecord, key models.SortKey, reverse bool) {
	sort.SliceStable(records, func(i, j int) bool {
		less, equal := recordLess(records[i], records[j], key)
		if equal {
			return records[i].Path < records[j].Path
		}
		if reverse {
			return !less
		}
		return less
	})
}

func recordLess(a, b *models.ResultRecord, key models.SortKey) (less, equal bool) {
	switch key {
	case models.SortBySize:
		if a.SizeBytes != b.SizeBytes {
			return a.SizeBytes < b.SizeBytes, false
		}
		return false, true
	case models.SortByModified:
		if !a.ModTime.Equal(b.ModTime) {
			return a.ModTime.Before(b.ModTime), false
		}
		return false, true
	case models.SortByMatches:
		if a.MatchCount != b.MatchCount {
			return a.MatchCount < b.MatchCount, false
		}
		return false, true
	default: // models.SortByPath
		if a.Path != b.Path {
			return a.Path < b.Path, false
		}
		return false, true
	}
}
