package testsupport

import (
	"path/filepath"
	"testing"

	"bdnav/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.SettingsDB = filepath.Join(base, "state", "settings.db")
	cfgVal.Paths.LockDir = filepath.Join(base, "state", "locks")
	cfgVal.Logging.Level = "error"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithChainTitles toggles title chaining on the test config.
func WithChainTitles(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Player.ChainTitles = enabled
	}
}

// WithAudioLanguage overrides the preferred audio language.
func WithAudioLanguage(code string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Player.AudioLanguage = code
	}
}

// WithDirectories creates the configured state, log and lock directories.
func WithDirectories() ConfigOption {
	return func(b *configBuilder) {
		if err := b.cfg.EnsureDirectories(); err != nil {
			b.t.Fatalf("ensure directories: %v", err)
		}
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.LogDir)
}
