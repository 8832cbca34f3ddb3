package mock

import (
	"context"
	"sync/atomic"

	"github.com/pratamaditya/ucap/pkg/llm"
)

// LLMAdapter is a canned chat-completion adapter for tests.
type LLMAdapter struct {
	cfg   LLMConfig
	calls atomic.Int64
}

type LLMConfig struct {
	ResponseText string
	Err          error
	// Responses, when set, are returned in order; the last one repeats.
	Responses []string
}

func NewLLMAdapter(cfg LLMConfig) *LLMAdapter {
	if cfg.ResponseText == "" && len(cfg.Responses) == 0 {
		cfg.ResponseText = "mock response"
	}
	return &LLMAdapter{cfg: cfg}
}

func (a *LLMAdapter) Name() string { return "mock_llm" }

func (a *LLMAdapter) Generate(ctx context.Context, input llm.Context) (llm.Response, error) {
	n := a.calls.Add(1)
	if a.cfg.Err != nil {
		return llm.Response{}, a.cfg.Err
	}
	text := a.cfg.ResponseText
	if len(a.cfg.Responses) > 0 {
		idx := int(n) - 1
		if idx >= len(a.cfg.Responses) {
			idx = len(a.cfg.Responses) - 1
		}
		text = a.cfg.Responses[idx]
	}
	return llm.Response{Text: text, FinishReason: "stop"}, nil
}

// Calls reports how many times Generate ran.
func (a *LLMAdapter) Calls() int64 {
	return a.calls.Load()
}
