package config

// SweepConfig represents the analysis profile
type SweepConfig struct {
	Analysis AnalysisConfig `yaml:"analysis"`
	Report   ReportConfig   `yaml:"report"`
}

// AnalysisConfig controls how measurements are compared
type AnalysisConfig struct {
	WindowWidth int  `yaml:"window_width"`
	Windowed    bool `yaml:"windowed"`
}

// ReportConfig controls the depth report layout
type ReportConfig struct {
	Format string `yaml:"format"`
	Color  bool   `yaml:"color"`
	// Labels overrides the text printed for a trend label, keyed by
	// no_previous, increased, decreased or unchanged.
	Labels map[string]string `yaml:"labels"`
}
