package score

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"time"

	"github.com/pratamaditya/ucap/pkg/errorsx"
	"github.com/pratamaditya/ucap/pkg/llm"
	"github.com/pratamaditya/ucap/pkg/metrics"
	"github.com/pratamaditya/ucap/pkg/redact"
	"github.com/pratamaditya/ucap/pkg/resilience"
)

const defaultScoreTimeout = 20 * time.Second

// ModelScorer asks a chat-completion model to assess pronunciation and
// parses its structured output into a Feedback.
//
// Failure semantics are asymmetric on purpose: a transport/auth/timeout
// failure of the model call surfaces as scoring_unavailable, while output
// that arrives but does not validate is silently replaced by the
// deterministic fallback. Callers therefore always get a well-formed
// Feedback once the model has answered at all.
type ModelScorer struct {
	adapter  llm.Adapter
	fallback *FallbackScorer
	breaker  *resilience.CircuitBreaker
	retry    llm.RetryConfig
	timeout  time.Duration
	observer metrics.Observer
	logger   *slog.Logger
}

type ModelScorerOption func(*ModelScorer)

// WithTimeout bounds a single scoring call, including retries.
func WithTimeout(d time.Duration) ModelScorerOption {
	return func(s *ModelScorer) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithRetry overrides the retry policy for the model call.
func WithRetry(cfg llm.RetryConfig) ModelScorerOption {
	return func(s *ModelScorer) { s.retry = cfg }
}

// WithObserver attaches a metrics observer.
func WithObserver(obs metrics.Observer) ModelScorerOption {
	return func(s *ModelScorer) {
		if obs != nil {
			s.observer = obs
		}
	}
}

// WithLogger attaches a component logger.
func WithLogger(logger *slog.Logger) ModelScorerOption {
	return func(s *ModelScorer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithBreaker shares a circuit breaker across scorer instances.
func WithBreaker(cb *resilience.CircuitBreaker) ModelScorerOption {
	return func(s *ModelScorer) {
		if cb != nil {
			s.breaker = cb
		}
	}
}

func NewModelScorer(adapter llm.Adapter, opts ...ModelScorerOption) *ModelScorer {
	s := &ModelScorer{
		adapter:  adapter,
		fallback: NewFallbackScorer(),
		breaker:  resilience.NewCircuitBreaker(0, 0),
		retry:    llm.RetryConfig{MaxAttempts: 2},
		timeout:  defaultScoreTimeout,
		observer: metrics.NoopObserver{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ModelScorer) Score(ctx context.Context, pair Pair) (Feedback, error) {
	if err := pair.Validate(); err != nil {
		return Feedback{}, err
	}
	if !s.breaker.Allow() {
		s.record("score_unavailable", pair, 0, 0)
		return Feedback{}, errorsx.New(errorsx.ReasonScoringUnavailable, "scorer circuit open")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	input := llm.Context{
		Messages: []llm.Message{
			{Role: "system", Content: scoringSystemPrompt},
			{Role: "user", Content: buildScoringPrompt(pair)},
		},
		ForceJSON: true,
	}

	started := time.Now()
	resp, err := llm.Retry(ctx, s.retry, func(ctx context.Context) (llm.Response, error) {
		return s.adapter.Generate(ctx, input)
	})
	elapsed := time.Since(started)
	if err != nil {
		s.breaker.OnError(err)
		s.record("score_unavailable", pair, elapsed, 0)
		reason := errorsx.ReasonScoringUnavailable
		if resilience.IsRateLimit(err) {
			reason = errorsx.ReasonLLMRateLimit
		}
		s.logger.Warn("model scoring failed",
			"provider", s.adapter.Name(),
			"reason", string(reason),
			"error", err,
		)
		return Feedback{}, errorsx.Wrap(err, reason)
	}
	s.breaker.OnSuccess()

	fb, perr := parseModelFeedback(resp.Text, pair)
	if perr != nil {
		s.logger.Info("model output unusable, using deterministic fallback",
			"provider", s.adapter.Name(),
			"error", perr,
			"transcript", redact.Transcript(pair.TranscribedText),
		)
		s.record("score_fallback", pair, elapsed, 0)
		return s.fallback.Score(ctx, pair)
	}

	s.record("score_ok", pair, elapsed, fb.OverallScore)
	return fb, nil
}

func (s *ModelScorer) record(name string, pair Pair, elapsed time.Duration, overall int) {
	s.observer.RecordEvent(metrics.Event{
		Name:  name,
		Time:  time.Now(),
		Value: float64(overall),
		Tags: map[string]string{
			"provider": s.adapter.Name(),
			"language": string(pair.Language),
		},
		Fields: map[string]any{
			"latency_ms": elapsed.Milliseconds(),
			"words":      len(Tokenize(pair.ExpectedText)),
		},
	})
}

type rawWordScore struct {
	Word       string   `json:"word"`
	Score      *float64 `json:"score"`
	Correct    *bool    `json:"correct"`
	Suggestion string   `json:"suggestion"`
}

type rawFeedback struct {
	OverallScore *float64       `json:"overallScore"`
	WordScores   []rawWordScore `json:"wordScores"`
	Feedback     string         `json:"feedback"`
	Strengths    []string       `json:"strengths"`
	Improvements []string       `json:"improvements"`
}

// parseModelFeedback validates the model's JSON against the contract: the
// required fields must be present and one word score per expected token.
// Out-of-range numbers are clamped, not rejected.
func parseModelFeedback(text string, pair Pair) (Feedback, error) {
	var raw rawFeedback
	if err := json.Unmarshal([]byte(cleanJSON(text)), &raw); err != nil {
		return Feedback{}, errorsx.Wrap(err, errorsx.ReasonScorerMalformed)
	}
	if raw.OverallScore == nil {
		return Feedback{}, errorsx.New(errorsx.ReasonScorerMalformed, "overallScore missing")
	}
	if len(raw.WordScores) == 0 {
		return Feedback{}, errorsx.New(errorsx.ReasonScorerMalformed, "wordScores missing")
	}
	if raw.Feedback == "" {
		return Feedback{}, errorsx.New(errorsx.ReasonScorerMalformed, "feedback missing")
	}
	expected := Tokenize(pair.ExpectedText)
	if len(raw.WordScores) != len(expected) {
		return Feedback{}, errorsx.New(errorsx.ReasonScorerMalformed,
			"wordScores length %d does not match %d expected tokens", len(raw.WordScores), len(expected))
	}

	words := make([]WordScore, len(raw.WordScores))
	for i, rw := range raw.WordScores {
		ws := WordScore{Word: rw.Word}
		if ws.Word == "" {
			ws.Word = expected[i]
		}
		if rw.Score != nil {
			ws.Score = clampScore(*rw.Score)
		}
		if rw.Correct != nil {
			ws.Correct = *rw.Correct
		} else {
			ws.Correct = ws.Score >= 90
		}
		if !ws.Correct {
			ws.Suggestion = rw.Suggestion
		}
		words[i] = ws
	}

	fb := Feedback{
		OverallScore: clampScore(*raw.OverallScore),
		WordScores:   words,
		Feedback:     raw.Feedback,
		Strengths:    raw.Strengths,
		Improvements: raw.Improvements,
	}
	if fb.Strengths == nil {
		fb.Strengths = []string{}
	}
	if fb.Improvements == nil {
		fb.Improvements = []string{}
	}
	return fb, nil
}

func clampScore(v float64) int {
	n := int(math.Round(v))
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
