package config

import (
	"errors"
	"fmt"

	"bdnav/internal/bdmv"
	"bdnav/internal/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePlayer(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePlayer() error {
	for key, value := range map[string]string{
		"player.audio_language":    c.Player.AudioLanguage,
		"player.subtitle_language": c.Player.SubtitleLanguage,
		"player.menu_language":     c.Player.MenuLanguage,
	} {
		if language.ToDisc(value) == "" {
			return fmt.Errorf("%s: unrecognized language %q", key, value)
		}
	}
	if len(c.Player.CountryCode) != 2 {
		return fmt.Errorf("player.country_code must be a two-letter ISO 3166 code, got %q", c.Player.CountryCode)
	}
	switch c.Player.RegionCode {
	case "A", "B", "C":
	default:
		return fmt.Errorf("player.region_code must be one of A, B, C, got %q", c.Player.RegionCode)
	}
	if c.Player.ParentalLevel < 0 || c.Player.ParentalLevel > 255 {
		return errors.New("player.parental_level must be between 0 and 255")
	}
	switch c.Player.OutputPreference {
	case "2d", "3d":
	default:
		return fmt.Errorf("player.output_preference must be 2d or 3d, got %q", c.Player.OutputPreference)
	}
	if c.Player.EventQueueCapacity < 1 {
		return errors.New("player.event_queue_capacity must be positive")
	}
	if c.Player.ReadChunkBytes < bdmv.SourcePacketSize {
		return fmt.Errorf("player.read_chunk_bytes must be at least %d", bdmv.SourcePacketSize)
	}
	if c.Player.MinTitleSeconds < 0 {
		return errors.New("player.min_title_seconds must be non-negative")
	}
	switch c.Player.TitleFilter {
	case "all", "dup_title", "dup_clip", "relevant":
	default:
		return fmt.Errorf("player.title_filter must be one of all, dup_title, dup_clip, relevant, got %q", c.Player.TitleFilter)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
}
