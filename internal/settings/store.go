package settings

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"bdnav/internal/language"
)

var (
	// ErrUnknownSetting reports a setting name or code outside the enumeration.
	ErrUnknownSetting = errors.New("unknown setting")
	// ErrInvalidValue reports a value the setting cannot hold.
	ErrInvalidValue = errors.New("invalid setting value")
)

// Store is an opaque key-value store for player preferences.
type Store interface {
	Get(ctx context.Context, key Setting) (string, bool, error)
	Set(ctx context.Context, key Setting, value string) error
}

// Entry is one stored setting.
type Entry struct {
	Key   Setting
	Value string
}

// Lister is implemented by stores that can enumerate their contents.
type Lister interface {
	List(ctx context.Context) ([]Entry, error)
}

// Normalize validates value for key and returns its canonical form.
// Language settings become ISO 639-2 disc codes; numeric settings must
// parse as unsigned integers.
func Normalize(key Setting, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	switch key {
	case AudioLang, PGLang, MenuLang:
		code := language.ToDisc(trimmed)
		if code == "" {
			return "", fmt.Errorf("%s=%q: %w", key, value, ErrInvalidValue)
		}
		return code, nil
	case CountryCode:
		if len(trimmed) != 2 {
			return "", fmt.Errorf("%s=%q: %w", key, value, ErrInvalidValue)
		}
		return strings.ToLower(trimmed), nil
	case Parental, AudioCap, RegionCode, OutputPrefer, DisplayCap, ThreeDCap,
		UHDCap, UHDDisplayCap, HDRPreference, SDRConvPrefer, VideoCap, TextCap,
		PlayerProfile, DecodePG, PersistentStorage:
		n, err := strconv.ParseUint(trimmed, 0, 32)
		if err != nil {
			return "", fmt.Errorf("%s=%q: %w", key, value, ErrInvalidValue)
		}
		return strconv.FormatUint(n, 10), nil
	case PersistentRoot, CacheRoot, JavaHome:
		return trimmed, nil
	default:
		return "", fmt.Errorf("%s: %w", key, ErrUnknownSetting)
	}
}

// MemoryStore keeps settings in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[Setting]string
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[Setting]string)}
}

// Get returns the value stored for key.
func (m *MemoryStore) Get(_ context.Context, key Setting) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// Set stores the normalized value for key.
func (m *MemoryStore) Set(_ context.Context, key Setting, value string) error {
	normalized, err := Normalize(key, value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = normalized
	return nil
}

// List returns every stored setting in code order.
func (m *MemoryStore) List(context.Context) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Entry, 0, len(m.values))
	for k, v := range m.values {
		out = append(out, Entry{Key: k, Value: v})
	}
	slices.SortFunc(out, func(a, b Entry) int { return int(a.Key) - int(b.Key) })
	return out, nil
}

// SeedDefaults stores each default whose key has no value yet.
func SeedDefaults(ctx context.Context, store Store, defaults map[Setting]string) error {
	keys := make([]Setting, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sortSettings(keys)
	for _, key := range keys {
		if _, ok, err := store.Get(ctx, key); err != nil {
			return err
		} else if ok {
			continue
		}
		if err := store.Set(ctx, key, defaults[key]); err != nil {
			return err
		}
	}
	return nil
}

func sortSettings(s []Setting) {
	slices.Sort(s)
}
