package config

// ScannerConfig holds the exclusion rules and limits used by scans
type ScannerConfig struct {
	IgnoredNames      []string `mapstructure:"ignored_names"       yaml:"ignored_names"`
	IgnoredExtensions []string `mapstructure:"ignored_extensions"  yaml:"ignored_extensions"`
	SkipFilePrefixes  []string `mapstructure:"skip_file_prefixes"  yaml:"skip_file_prefixes"`
	SkipDirPrefixes   []string `mapstructure:"skip_dir_prefixes"   yaml:"skip_dir_prefixes"`
	MaxFilenameLength int      `mapstructure:"max_filename_length" yaml:"max_filename_length"`
	PathLengthLimit   int      `mapstructure:"path_length_limit"   yaml:"path_length_limit"`
	BatchSize         int      `mapstructure:"batch_size"          yaml:"batch_size"`
}

type TagsConfig struct {
	// Normalize trims and lower-cases tags before they are stored
	Normalize bool `mapstructure:"normalize" yaml:"normalize"`
}
