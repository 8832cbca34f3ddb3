package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pratamaditya/ucap/pkg/adapters/tts"
	"github.com/pratamaditya/ucap/pkg/errorsx"
	"github.com/pratamaditya/ucap/pkg/resilience"
)

type Config struct {
	APIKey       string
	VoiceID      string
	ModelID      string
	OutputFormat string
	BaseURL      string
}

// Synthesizer renders text through the ElevenLabs HTTP endpoint and returns
// the full audio payload. Dialogue lines are short, so a single request per
// line is fine; no streaming connection is kept open.
type Synthesizer struct {
	cfg    Config
	client *http.Client
	retry  resilience.RetryPolicy
	logger *slog.Logger
}

func New(cfg Config) (*Synthesizer, error) {
	if strings.TrimSpace(cfg.APIKey) == "" || strings.TrimSpace(cfg.VoiceID) == "" {
		return nil, errors.New("missing elevenlabs config")
	}
	if cfg.ModelID == "" {
		cfg.ModelID = "eleven_multilingual_v2"
	}
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = "mp3_44100_128"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.elevenlabs.io"
	}
	return &Synthesizer{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
		retry:  resilience.NewRetryPolicy(2, 300*time.Millisecond),
		logger: slog.Default().With(slog.String("component", "elevenlabs_tts")),
	}, nil
}

func (s *Synthesizer) Name() string { return "elevenlabs_tts" }

func (s *Synthesizer) Synthesize(ctx context.Context, text string, cfg tts.Config) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errorsx.New(errorsx.ReasonTTSSynthesize, "text is required")
	}
	body, err := json.Marshal(map[string]any{
		"text":     text,
		"model_id": s.cfg.ModelID,
	})
	if err != nil {
		return nil, err
	}

	format := cfg.OutputFormat
	if format == "" {
		format = s.cfg.OutputFormat
	}
	endpoint := s.cfg.BaseURL + "/v1/text-to-speech/" + url.PathEscape(s.cfg.VoiceID) +
		"?output_format=" + url.QueryEscape(format)

	// Network errors and 5xx responses are retried; anything else is final.
	var audio []byte
	var permanent error
	err = s.retry.Do(func() error {
		a, err := s.request(ctx, endpoint, body)
		if err != nil {
			if isRetryable(err) {
				return err
			}
			permanent = err
			return nil
		}
		audio = a
		return nil
	})
	if permanent != nil {
		return nil, permanent
	}
	if err != nil {
		return nil, err
	}
	s.logger.Debug("synthesis complete",
		slog.String("voice_id", s.cfg.VoiceID),
		slog.Int("bytes", len(audio)),
	)
	return audio, nil
}

type transientError struct{ err error }

func (e transientError) Error() string { return e.err.Error() }
func (e transientError) Unwrap() error { return e.err }

func isRetryable(err error) bool {
	var t transientError
	return errors.As(err, &t)
}

func (s *Synthesizer) request(ctx context.Context, endpoint string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, transientError{errorsx.Wrap(err, errorsx.ReasonTTSSynthesize)}
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusTooManyRequests {
		msg, _ := io.ReadAll(resp.Body)
		return nil, resilience.RateLimitError{Provider: "elevenlabs", Message: string(msg)}
	}
	if resp.StatusCode >= 500 {
		msg, _ := io.ReadAll(resp.Body)
		return nil, transientError{errorsx.New(errorsx.ReasonTTSSynthesize, "elevenlabs status %d: %s", resp.StatusCode, string(msg))}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(resp.Body)
		return nil, errorsx.New(errorsx.ReasonTTSSynthesize, "elevenlabs status %d: %s", resp.StatusCode, string(msg))
	}
	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transientError{errorsx.Wrap(err, errorsx.ReasonTTSSynthesize)}
	}
	return audio, nil
}
