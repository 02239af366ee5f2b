package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"bdnav/internal/config"
	"bdnav/internal/discsource"
	"bdnav/internal/logging"
	"bdnav/internal/playback"
	"bdnav/internal/settings"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// openSettings opens the settings database and seeds it from the config.
func (c *commandContext) openSettings(ctx context.Context) (*settings.SQLiteStore, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := settings.OpenSQLite(ctx, cfg.Paths.SettingsDB)
	if err != nil {
		return nil, err
	}
	defaults, err := settingsDefaults(cfg)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	if err := settings.SeedDefaults(ctx, store, defaults); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("seed settings: %w", err)
	}
	return store, nil
}

func settingsDefaults(cfg *config.Config) (map[settings.Setting]string, error) {
	output := "0"
	if cfg.Player.OutputPreference == "3d" {
		output = "1"
	}
	raw := map[settings.Setting]string{
		settings.AudioLang:    cfg.Player.AudioLanguage,
		settings.PGLang:       cfg.Player.SubtitleLanguage,
		settings.MenuLang:     cfg.Player.MenuLanguage,
		settings.CountryCode:  cfg.Player.CountryCode,
		settings.RegionCode:   strconv.Itoa(cfg.RegionMask()),
		settings.Parental:     strconv.Itoa(cfg.Player.ParentalLevel),
		settings.OutputPrefer: output,
	}
	out := make(map[settings.Setting]string, len(raw))
	for key, value := range raw {
		normalized, err := settings.Normalize(key, value)
		if err != nil {
			return nil, fmt.Errorf("config default for %s: %w", key, err)
		}
		out[key] = normalized
	}
	return out, nil
}

// discHandle is an open disc: its folder, session, settings and lock.
type discHandle struct {
	folder      *discsource.Folder
	session     *playback.Session
	store       *settings.SQLiteStore
	lock        *flock.Flock
	fingerprint string
}

// openDisc opens path as a disc folder, takes the per-disc lock and starts a
// playback session.
func (c *commandContext) openDisc(ctx context.Context, path string) (*discHandle, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return nil, fmt.Errorf("resolve disc path: %w", err)
	}

	folder, err := discsource.Open(expanded, logger)
	if err != nil {
		return nil, err
	}
	h := &discHandle{folder: folder}
	h.fingerprint, err = folder.Fingerprint(ctx)
	if err != nil {
		_ = folder.Close()
		return nil, fmt.Errorf("fingerprint disc: %w", err)
	}

	lockPath := filepath.Join(cfg.Paths.LockDir, h.fingerprint+".lock")
	h.lock = flock.New(lockPath)
	ok, err := h.lock.TryLock()
	if err != nil {
		_ = folder.Close()
		return nil, fmt.Errorf("acquire disc lock: %w", err)
	}
	if !ok {
		_ = folder.Close()
		return nil, errors.New("disc is already open in another bdnav session")
	}

	h.store, err = c.openSettings(ctx)
	if err != nil {
		h.release()
		return nil, err
	}

	disc, err := folder.Disc(ctx)
	if err != nil {
		h.release()
		return nil, err
	}
	h.session, err = playback.Open(ctx, disc, playback.Options{
		Logger:        logger,
		Settings:      h.store,
		ChainTitles:   cfg.Player.ChainTitles,
		QueueCapacity: cfg.Player.EventQueueCapacity,
	})
	if err != nil {
		h.release()
		return nil, err
	}
	return h, nil
}

func (h *discHandle) release() {
	if h.session != nil {
		_ = h.session.Close()
	} else if h.folder != nil {
		_ = h.folder.Close()
	}
	if h.store != nil {
		_ = h.store.Close()
	}
	if h.lock != nil {
		_ = h.lock.Unlock()
	}
}

// Close ends the session and releases the disc lock.
func (h *discHandle) Close() error {
	h.release()
	return nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
