package playback

import (
	"context"

	"bdnav/internal/bdmv"
	"bdnav/internal/language"
	"bdnav/internal/logging"
	"bdnav/internal/settings"
)

// SetPlayerSetting normalizes and stores a player preference.
func (s *Session) SetPlayerSetting(ctx context.Context, key settings.Setting, value string) error {
	if s.closed {
		return ErrClosed
	}
	normalized, err := settings.Normalize(key, value)
	if err != nil {
		return err
	}
	if err := s.settings.Set(ctx, key, normalized); err != nil {
		return err
	}
	s.logger.Debug("player setting updated",
		logging.String("setting", key.String()),
		logging.String("value", normalized),
	)
	return nil
}

// PlayerSetting returns a stored player preference.
func (s *Session) PlayerSetting(ctx context.Context, key settings.Setting) (string, bool, error) {
	if s.closed {
		return "", false, ErrClosed
	}
	return s.settings.Get(ctx, key)
}

// DefaultAudioStream returns the 1-based audio stream number of the current
// title matching the preferred audio language, falling back to the first
// audio stream. 0 means the title has no audio.
func (s *Session) DefaultAudioStream(ctx context.Context) int {
	streams := s.titleStreams(bdmv.StreamAudio)
	if len(streams) == 0 {
		return 0
	}
	if n := s.preferredStream(ctx, settings.AudioLang, streams); n > 0 {
		return n
	}
	return 1
}

// DefaultSubtitleStream returns the 1-based subtitle stream number of the
// current title matching the preferred subtitle language, or 0 when none
// matches.
func (s *Session) DefaultSubtitleStream(ctx context.Context) int {
	return s.preferredStream(ctx, settings.PGLang, s.titleStreams(bdmv.StreamPG))
}

func (s *Session) titleStreams(kind bdmv.StreamKind) []bdmv.StreamInfo {
	detail, ok := s.nav.Title()
	if !ok || len(detail.Clips) == 0 {
		return nil
	}
	var out []bdmv.StreamInfo
	for _, stream := range detail.Clips[0].Streams {
		if stream.Kind == kind {
			out = append(out, stream)
		}
	}
	return out
}

func (s *Session) preferredStream(ctx context.Context, key settings.Setting, streams []bdmv.StreamInfo) int {
	if len(streams) == 0 {
		return 0
	}
	want, ok, err := s.settings.Get(ctx, key)
	if err != nil {
		logging.WarnWithContext(s.logger, "player setting lookup failed", "settings_unavailable",
			logging.String("setting", key.String()),
			logging.Error(err),
			logging.String(logging.FieldImpact, "default stream selection ignores language preference"),
		)
		return 0
	}
	if !ok || want == "" {
		return 0
	}
	for i, stream := range streams {
		if language.Match(stream.Language, want) {
			s.logger.Debug("default stream selected",
				logging.Args(logging.DecisionAttrs("stream_language", "matched", language.DisplayName(want))...)...,
			)
			return i + 1
		}
	}
	return 0
}
