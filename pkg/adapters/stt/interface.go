package stt

import (
	"context"
	"io"
)

// Transcriber defines the contract for any STT vendor implementation.
// Scoring consumes only the finished transcript text, so the interface is
// request/response rather than streaming.
type Transcriber interface {
	// Name returns adapter name for logging/metrics.
	Name() string
	// Transcribe converts recorded audio into text.
	Transcribe(ctx context.Context, audio io.Reader, cfg Config) (string, error)
}

// Config contains vendor-agnostic STT configuration.
type Config struct {
	Language   string
	SampleRate int
	MimeType   string
}
