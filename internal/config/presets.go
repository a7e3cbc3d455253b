package config

// DefaultPresets returns the built-in search presets. A config file with a
// presets section replaces these entirely.
func DefaultPresets() map[string]Preset {
	return map[string]Preset{
		"google_keys": {
			Name:            "Google API Keys",
			Description:     "Find Google-related keys in env files",
			Extensions:      []string{".env", ".env.local", ".env.development", ".env.production"},
			ExcludeDirs:     []string{"node_modules", ".git", "dist", ".build"},
			MaxSize:         "1M",
			ContentPatterns: []string{"GOOGLE_"},
		},
		"secrets": {
			Name:            "Find Secret Files",
			Description:     "Search for configuration and secret files",
			Extensions:      []string{".env", ".env.local", ".env.development", ".env.production", ".pem", ".key"},
			ExcludeDirs:     []string{".build", "dist", "node_modules"},
			MaxSize:         "2M",
			ContentPatterns: []string{"API_KEY", "SECRET", "PASSWORD", "TOKEN", "PRIVATE_KEY"},
		},
		"configs": {
			Name:        "Configuration Files",
			Description: "Search for various config files",
			Extensions:  []string{".json", ".yaml", ".yml", ".toml", ".ini", ".conf"},
			ExcludeDirs: []string{"node_modules", "venv", ".git"},
			MaxSize:     "1M",
		},
		"media": {
			Name:        "Media Files",
			Description: "Search for media files",
			Extensions:  []string{".jpg", ".jpeg", ".png", ".gif", ".mp4", ".mp3", ".wav"},
			MinSize:     "10K",
			MaxSize:     "100M",
		},
		"code": {
			Name:        "Source Code",
			Description: "Search in source code files",
			Extensions:  []string{".py", ".js", ".ts", ".jsx", ".tsx", ".cpp", ".java"},
			ExcludeDirs: []string{"node_modules", "venv", "dist", ".build"},
			MaxSize:     "1M",
		},
	}
}
