package deepgram

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	listenv1rest "github.com/deepgram/deepgram-go-sdk/v3/pkg/api/listen/v1/rest"
	interfaces "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/interfaces"
	client "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/listen"

	"github.com/pratamaditya/ucap/pkg/adapters/stt"
	"github.com/pratamaditya/ucap/pkg/errorsx"
)

// Config holds Deepgram prerecorded transcription settings.
type Config struct {
	APIKey   string
	Model    string
	Language string
	Timeout  time.Duration
}

// Transcriber sends recorded audio to Deepgram's prerecorded endpoint and
// returns the top alternative transcript.
type Transcriber struct {
	cfg    Config
	api    *listenv1rest.Client
	logger *slog.Logger
}

func New(cfg Config) (*Transcriber, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("missing deepgram api key")
	}
	if cfg.Model == "" {
		cfg.Model = "nova-2"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	rest := client.NewREST(cfg.APIKey, &interfaces.ClientOptions{})
	return &Transcriber{
		cfg:    cfg,
		api:    listenv1rest.New(rest),
		logger: slog.Default().With(slog.String("component", "deepgram_stt")),
	}, nil
}

func (t *Transcriber) Name() string { return "deepgram_stt" }

func (t *Transcriber) Transcribe(ctx context.Context, audio io.Reader, cfg stt.Config) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.cfg.Timeout)
	defer cancel()

	language := cfg.Language
	if language == "" {
		language = t.cfg.Language
	}
	options := &interfaces.PreRecordedTranscriptionOptions{
		Model:       t.cfg.Model,
		Language:    language,
		SmartFormat: true,
		Punctuate:   true,
	}

	res, err := t.api.FromStream(ctx, audio, options)
	if err != nil {
		return "", errorsx.Wrap(err, errorsx.ReasonSTTTranscribe)
	}
	if res == nil || len(res.Results.Channels) == 0 || len(res.Results.Channels[0].Alternatives) == 0 {
		return "", errorsx.New(errorsx.ReasonSTTTranscribe, "deepgram returned no alternatives")
	}
	transcript := strings.TrimSpace(res.Results.Channels[0].Alternatives[0].Transcript)
	t.logger.Debug("transcription complete",
		slog.String("model", t.cfg.Model),
		slog.String("language", language),
		slog.Int("chars", len(transcript)),
	)
	return transcript, nil
}
