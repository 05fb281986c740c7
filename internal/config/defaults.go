package config

const (
	defaultDataDir                = "~/.local/share/airdate"
	defaultLogDir                 = "~/.local/share/airdate/logs"
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
	defaultTickInterval           = 60
	defaultErrorRetryInterval     = 10
	defaultNotifyRequestTimeout   = 10
	defaultNotifyPassMinPublished = 1
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Publisher: Publisher{
			TickInterval:       defaultTickInterval,
			ErrorRetryInterval: defaultErrorRetryInterval,
		},
		Notifications: Notifications{
			RequestTimeout:   defaultNotifyRequestTimeout,
			Publishes:        true,
			PassSummaries:    true,
			Errors:           true,
			PassMinPublished: defaultNotifyPassMinPublished,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
