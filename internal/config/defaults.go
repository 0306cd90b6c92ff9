package config

import "github.com/spf13/viper"

func GetDefault() BaseConfig {
	return BaseConfig{
		ShutdownTimeout: "10s",

		Log: LogConfig{
			Level:      "INFO",
			TimeFormat: "2006-01-02 15:04:05",
			File:       "",
			NoColor:    false,
			JSON:       false,
			NoTerminal: false,
			Rotation: LogRotationConfig{
				MaxSize:    128,
				MaxBackups: 5,
				MaxAge:     16,
				Compress:   false,
			},
		},

		Metadata: MetadataConfig{
			Type: "sqlite",
			SQLite: MetadataSQLiteConfig{
				Path: "./data/index.db",
			},
		},

		Scanner: ScannerConfig{
			IgnoredNames: []string{
				"desktop.ini", "thumbs.db", ".ds_store",
				"ntuser.dat", "ntuser.ini", "ntuser.pol",
			},
			IgnoredExtensions: []string{
				".ini", ".tmp", ".temp", ".lnk", ".sys",
				".dll", ".log", ".ds_store", ".thumbs", ".bak",
			},
			SkipFilePrefixes:  []string{".", "~"},
			SkipDirPrefixes:   []string{".", "$", "~"},
			MaxFilenameLength: 150,
			PathLengthLimit:   260,
			BatchSize:         500,
		},

		Tags: TagsConfig{
			Normalize: false,
		},
	}
}

func setDefaults() {
	defaults := GetDefault()

	viper.SetDefault("shutdown_timeout", defaults.ShutdownTimeout)

	viper.SetDefault("log.level", defaults.Log.Level)
	viper.SetDefault("log.time_format", defaults.Log.TimeFormat)
	viper.SetDefault("log.file", defaults.Log.File)
	viper.SetDefault("log.no_color", defaults.Log.NoColor)
	viper.SetDefault("log.json", defaults.Log.JSON)
	viper.SetDefault("log.no_terminal", defaults.Log.NoTerminal)
	viper.SetDefault("log.rotation.max_size", defaults.Log.Rotation.MaxSize)
	viper.SetDefault("log.rotation.max_backups", defaults.Log.Rotation.MaxBackups)
	viper.SetDefault("log.rotation.max_age", defaults.Log.Rotation.MaxAge)
	viper.SetDefault("log.rotation.compress", defaults.Log.Rotation.Compress)

	viper.SetDefault("metadata.type", defaults.Metadata.Type)
	viper.SetDefault("metadata.sqlite.path", defaults.Metadata.SQLite.Path)

	viper.SetDefault("scanner.ignored_names", defaults.Scanner.IgnoredNames)
	viper.SetDefault("scanner.ignored_extensions", defaults.Scanner.IgnoredExtensions)
	viper.SetDefault("scanner.skip_file_prefixes", defaults.Scanner.SkipFilePrefixes)
	viper.SetDefault("scanner.skip_dir_prefixes", defaults.Scanner.SkipDirPrefixes)
	viper.SetDefault("scanner.max_filename_length", defaults.Scanner.MaxFilenameLength)
	viper.SetDefault("scanner.path_length_limit", defaults.Scanner.PathLengthLimit)
	viper.SetDefault("scanner.batch_size", defaults.Scanner.BatchSize)

	viper.SetDefault("tags.normalize", defaults.Tags.Normalize)
}
