package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"bdnav/internal/language"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizePlayer()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.SettingsDB) == "" {
		c.Paths.SettingsDB = filepath.Join(c.Paths.StateDir, defaultSettingsFile)
	}
	if c.Paths.SettingsDB, err = expandPath(c.Paths.SettingsDB); err != nil {
		return fmt.Errorf("paths.settings_db: %w", err)
	}
	if strings.TrimSpace(c.Paths.LockDir) == "" {
		c.Paths.LockDir = filepath.Join(c.Paths.StateDir, defaultLockSubdir)
	}
	if c.Paths.LockDir, err = expandPath(c.Paths.LockDir); err != nil {
		return fmt.Errorf("paths.lock_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizePlayer() {
	c.Player.AudioLanguage = normalizeLanguage(c.Player.AudioLanguage, defaultAudioLanguage)
	c.Player.SubtitleLanguage = normalizeLanguage(c.Player.SubtitleLanguage, defaultSubtitleLanguage)
	c.Player.MenuLanguage = normalizeLanguage(c.Player.MenuLanguage, defaultMenuLanguage)

	c.Player.CountryCode = strings.ToLower(strings.TrimSpace(c.Player.CountryCode))
	if c.Player.CountryCode == "" {
		c.Player.CountryCode = defaultCountryCode
	}
	c.Player.RegionCode = strings.ToUpper(strings.TrimSpace(c.Player.RegionCode))
	if c.Player.RegionCode == "" {
		c.Player.RegionCode = defaultRegionCode
	}
	c.Player.OutputPreference = strings.ToLower(strings.TrimSpace(c.Player.OutputPreference))
	if c.Player.OutputPreference == "" {
		c.Player.OutputPreference = defaultOutputPreference
	}
	if c.Player.EventQueueCapacity == 0 {
		c.Player.EventQueueCapacity = defaultEventQueueCapacity
	}
	if c.Player.ReadChunkBytes == 0 {
		c.Player.ReadChunkBytes = defaultReadChunkBytes
	}
	c.Player.TitleFilter = strings.ToLower(strings.TrimSpace(c.Player.TitleFilter))
	if c.Player.TitleFilter == "" {
		c.Player.TitleFilter = defaultTitleFilter
	}
}

// normalizeLanguage keeps unresolvable input as typed so Validate can
// report it.
func normalizeLanguage(value, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	if code := language.ToDisc(trimmed); code != "" {
		return code
	}
	return trimmed
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	if value, ok := os.LookupEnv("BDNAV_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
