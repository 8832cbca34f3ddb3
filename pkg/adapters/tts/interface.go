package tts

import "context"

// Synthesizer defines the contract for any TTS vendor implementation.
// The dialogue layer speaks one scripted line at a time, so synthesis is a
// single request returning the full audio payload.
type Synthesizer interface {
	// Name returns adapter name for logging/metrics.
	Name() string
	// Synthesize renders text into audio bytes.
	Synthesize(ctx context.Context, text string, cfg Config) ([]byte, error)
}

// Config contains vendor-agnostic TTS configuration.
type Config struct {
	Language     string
	OutputFormat string
	SampleRate   int
}
