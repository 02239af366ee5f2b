package settings

import (
	"fmt"
	"strconv"
	"strings"
)

// Setting identifies a player setting. Values match the player setting codes.
type Setting uint32

const (
	Parental          Setting = 13
	AudioCap          Setting = 15
	AudioLang         Setting = 16
	PGLang            Setting = 17
	MenuLang          Setting = 18
	CountryCode       Setting = 19
	RegionCode        Setting = 20
	OutputPrefer      Setting = 21
	DisplayCap        Setting = 23
	ThreeDCap         Setting = 24
	UHDCap            Setting = 25
	UHDDisplayCap     Setting = 26
	HDRPreference     Setting = 27
	SDRConvPrefer     Setting = 28
	VideoCap          Setting = 29
	TextCap           Setting = 30
	PlayerProfile     Setting = 31
	DecodePG          Setting = 0x100
	PersistentStorage Setting = 0x101
	PersistentRoot    Setting = 0x200
	CacheRoot         Setting = 0x201
	JavaHome          Setting = 0x202
)

var settingNames = map[Setting]string{
	Parental:          "parental",
	AudioCap:          "audio_cap",
	AudioLang:         "audio_lang",
	PGLang:            "pg_lang",
	MenuLang:          "menu_lang",
	CountryCode:       "country_code",
	RegionCode:        "region_code",
	OutputPrefer:      "output_prefer",
	DisplayCap:        "display_cap",
	ThreeDCap:         "3d_cap",
	UHDCap:            "uhd_cap",
	UHDDisplayCap:     "uhd_display_cap",
	HDRPreference:     "hdr_preference",
	SDRConvPrefer:     "sdr_conv_prefer",
	VideoCap:          "video_cap",
	TextCap:           "text_cap",
	PlayerProfile:     "player_profile",
	DecodePG:          "decode_pg",
	PersistentStorage: "persistent_storage",
	PersistentRoot:    "persistent_root",
	CacheRoot:         "cache_root",
	JavaHome:          "java_home",
}

var settingsByName map[string]Setting

func init() {
	settingsByName = make(map[string]Setting, len(settingNames))
	for s, name := range settingNames {
		settingsByName[name] = s
	}
}

// Known reports whether s is part of the enumeration.
func (s Setting) Known() bool {
	_, ok := settingNames[s]
	return ok
}

// String returns the setting name, or unknown(code) for codes outside the
// enumeration.
func (s Setting) String() string {
	if name, ok := settingNames[s]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", uint32(s))
}

// Code returns the numeric setting code.
func (s Setting) Code() uint32 { return uint32(s) }

// FromCode decodes a raw setting code. ok is false for codes outside the
// enumeration; the returned Setting still carries the raw value.
func FromCode(code uint32) (Setting, bool) {
	s := Setting(code)
	return s, s.Known()
}

// Parse resolves a setting by name or numeric code (decimal or 0x hex).
func Parse(value string) (Setting, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if s, ok := settingsByName[trimmed]; ok {
		return s, nil
	}
	if code, err := strconv.ParseUint(trimmed, 0, 32); err == nil {
		if s, ok := FromCode(uint32(code)); ok {
			return s, nil
		}
		return 0, fmt.Errorf("setting code %s: %w", trimmed, ErrUnknownSetting)
	}
	return 0, fmt.Errorf("setting %q: %w", value, ErrUnknownSetting)
}

// All returns every known setting in code order.
func All() []Setting {
	out := make([]Setting, 0, len(settingNames))
	for s := range settingNames {
		out = append(out, s)
	}
	sortSettings(out)
	return out
}
