package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Search.FuzzyThreshold == 0 {
		cfg.Search.FuzzyThreshold = 80
	}
	if cfg.Search.MaxResults == 0 {
		cfg.Search.MaxResults = 100
	}
	if cfg.Search.DefaultExcludes == nil {
		cfg.Search.DefaultExcludes = []string{
			"node_modules",
			".git",
			"__pycache__",
			".next",
			"dist",
			".build",
			"venv",
			"env",
		}
	}
	if cfg.Search.BinarySizeLimit == 0 {
		cfg.Search.BinarySizeLimit = 1 << 20 // 1M
	}
	if cfg.Search.CacheSizeLimit == 0 {
		cfg.Search.CacheSizeLimit = 100 << 10 // 100K
	}
	// Workers 0 means one per CPU; resolved by the engine, not persisted.

	if cfg.Display.DateFormat == "" {
		cfg.Display.DateFormat = "2006-01-02 15:04"
	}
	if cfg.Display.SortBy == "" {
		cfg.Display.SortBy = "path"
	}
	if cfg.Display.PreviewLength == 0 {
		cfg.Display.PreviewLength = 200
	}

	if cfg.History.DatabasePath == "" {
		cfg.History.DatabasePath = ".mitsuke/history.db"
	}
	if cfg.History.MaxEntries == 0 {
		cfg.History.MaxEntries = 1000
	}

	if cfg.Watch.DebounceMS == 0 {
		cfg.Watch.DebounceMS = 500
	}

	if cfg.Presets == nil {
		cfg.Presets = DefaultPresets()
	}
}
