package config

// Config is the main application configuration struct.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Replay  ReplayConfig  `mapstructure:"replay"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"` // stdout, stderr or a file path
}

// MetricsConfig controls the Prometheus textfile written after a CLI run.
type MetricsConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	TextfilePath string `mapstructure:"textfile_path"`
	ServiceName  string `mapstructure:"service_name"`
}

// ReplayConfig holds settings for conversation script replay.
type ReplayConfig struct {
	StopOnFailure bool `mapstructure:"stop_on_failure"`
}
