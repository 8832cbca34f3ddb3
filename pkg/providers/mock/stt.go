package mock

import (
	"context"
	"io"

	"github.com/pratamaditya/ucap/pkg/adapters/stt"
)

// Transcriber returns a fixed transcript for any audio input.
type Transcriber struct {
	Text string
	Err  error
}

func NewTranscriber(text string) *Transcriber {
	return &Transcriber{Text: text}
}

func (t *Transcriber) Name() string { return "mock_stt" }

func (t *Transcriber) Transcribe(ctx context.Context, audio io.Reader, cfg stt.Config) (string, error) {
	if t.Err != nil {
		return "", t.Err
	}
	// Drain so callers can treat the reader as consumed.
	_, _ = io.Copy(io.Discard, audio)
	return t.Text, nil
}
