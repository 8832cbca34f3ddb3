package mock

import (
	"context"

	"github.com/pratamaditya/ucap/pkg/adapters/tts"
)

// Synthesizer returns canned audio bytes for any text.
type Synthesizer struct {
	Audio []byte
	Err   error
}

func NewSynthesizer(audio []byte) *Synthesizer {
	if len(audio) == 0 {
		audio = []byte("mock-audio")
	}
	return &Synthesizer{Audio: audio}
}

func (s *Synthesizer) Name() string { return "mock_tts" }

func (s *Synthesizer) Synthesize(ctx context.Context, text string, cfg tts.Config) ([]byte, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Audio, nil
}
