package config

const (
	defaultConfigPath         = "~/.config/bdnav/config.toml"
	defaultStateDir           = "~/.local/share/bdnav"
	defaultLogDir             = "~/.local/share/bdnav/logs"
	defaultSettingsFile       = "settings.db"
	defaultLockSubdir         = "locks"
	defaultAudioLanguage      = "eng"
	defaultSubtitleLanguage   = "eng"
	defaultMenuLanguage       = "eng"
	defaultCountryCode        = "us"
	defaultRegionCode         = "A"
	defaultParentalLevel      = 255
	defaultOutputPreference   = "2d"
	defaultEventQueueCapacity = 32
	defaultReadChunkBytes     = 6144 * 32
	defaultMinTitleSeconds    = 0
	defaultTitleFilter        = "all"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Player: Player{
			AudioLanguage:      defaultAudioLanguage,
			SubtitleLanguage:   defaultSubtitleLanguage,
			MenuLanguage:       defaultMenuLanguage,
			CountryCode:        defaultCountryCode,
			RegionCode:         defaultRegionCode,
			ParentalLevel:      defaultParentalLevel,
			OutputPreference:   defaultOutputPreference,
			EventQueueCapacity: defaultEventQueueCapacity,
			ReadChunkBytes:     defaultReadChunkBytes,
			MinTitleSeconds:    defaultMinTitleSeconds,
			TitleFilter:        defaultTitleFilter,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
