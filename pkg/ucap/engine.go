package ucap

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/pratamaditya/ucap/pkg/adapters/stt"
	"github.com/pratamaditya/ucap/pkg/adapters/tts"
	"github.com/pratamaditya/ucap/pkg/dialogue"
	"github.com/pratamaditya/ucap/pkg/llm"
	"github.com/pratamaditya/ucap/pkg/logging"
	"github.com/pratamaditya/ucap/pkg/metrics"
	"github.com/pratamaditya/ucap/pkg/observers"
	"github.com/pratamaditya/ucap/pkg/redact"
	"github.com/pratamaditya/ucap/pkg/resilience"
	"github.com/pratamaditya/ucap/pkg/score"
	"github.com/pratamaditya/ucap/pkg/server"
	"github.com/pratamaditya/ucap/pkg/store"
)

// Engine owns the full application: persistence, the scoring pipeline, the
// dialogue scenarios and the HTTP server on top of them.
type Engine struct {
	cfg      Config
	logger   *slog.Logger
	store    *store.Store
	server   *server.Server
	stats    *observers.ScoringStats
	asyncObs *metrics.AsyncObserver
	metricsF io.Closer
}

func NewEngine(cfg Config, providers *ProviderRegistry) (*Engine, error) {
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)
	redact.SetEnabled(cfg.Privacy.RedactPII)

	logger.Info("ucap_init",
		"environment", cfg.Environment,
		"llm_provider", cfg.Vendors.LLM.Provider,
		"stt_provider", cfg.Vendors.STT.Provider,
		"tts_provider", cfg.Vendors.TTS.Provider,
	)

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	scenarios, err := dialogue.LoadScenarios(cfg.Dialogue.ScenariosDir)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("load scenarios: %w", err)
	}
	logger.Info("scenarios loaded", "count", len(scenarios), "dir", cfg.Dialogue.ScenariosDir)

	adapter, err := providers.BuildLLM(cfg.Vendors.LLM.Provider, cfg)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("build llm provider: %w", err)
	}

	e := &Engine{cfg: cfg, logger: logger, store: st}

	observer, err := e.buildObserver()
	if err != nil {
		st.Close()
		return nil, err
	}

	scorer := score.NewModelScorer(adapter,
		score.WithTimeout(time.Duration(cfg.Scoring.TimeoutMS)*time.Millisecond),
		score.WithRetry(llm.RetryConfig{
			MaxAttempts: cfg.Scoring.RetryMaxAttempts,
			BaseDelay:   time.Duration(cfg.Scoring.RetryBaseDelayMS) * time.Millisecond,
		}),
		score.WithBreaker(resilience.NewCircuitBreaker(
			cfg.Scoring.BreakerThreshold,
			time.Duration(cfg.Scoring.BreakerCooldownMS)*time.Millisecond,
		)),
		score.WithObserver(observer),
		score.WithLogger(logging.NewComponentLogger(logger, "scorer")),
	)

	var transcriber stt.Transcriber
	if cfg.Vendors.STT.Provider != "" {
		transcriber, err = providers.BuildSTT(cfg.Vendors.STT.Provider, cfg)
		if err != nil {
			e.Close()
			return nil, fmt.Errorf("build stt provider: %w", err)
		}
	}
	var synthesizer tts.Synthesizer
	if cfg.Vendors.TTS.Provider != "" {
		synthesizer, err = providers.BuildTTS(cfg.Vendors.TTS.Provider, cfg)
		if err != nil {
			e.Close()
			return nil, fmt.Errorf("build tts provider: %w", err)
		}
	}

	e.server = server.New(server.Options{
		Addr:          cfg.Server.Addr,
		Scorer:        scorer,
		Transcriber:   transcriber,
		Synthesizer:   synthesizer,
		Users:         st,
		Progress:      st,
		Access:        st,
		Scenarios:     scenarios,
		PassThreshold: cfg.Dialogue.PassThreshold,
		Logger:        logging.NewComponentLogger(logger, "server"),
	})
	return e, nil
}

// buildObserver assembles the metrics chain: in-process stats and a debug
// logger always, plus a sampled JSONL sink behind an async buffer when a
// metrics path is configured.
func (e *Engine) buildObserver() (metrics.Observer, error) {
	e.stats = observers.NewScoringStats()
	chain := []metrics.Observer{
		e.stats,
		observers.NewLoggerObserver(logging.NewComponentLogger(e.logger, "metrics")),
	}
	if e.cfg.Metrics.Path != "" {
		if err := os.MkdirAll(filepath.Dir(e.cfg.Metrics.Path), 0o755); err != nil {
			return nil, fmt.Errorf("metrics dir: %w", err)
		}
		f, err := os.OpenFile(e.cfg.Metrics.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open metrics file: %w", err)
		}
		e.metricsF = f

		var sink metrics.Observer = metrics.NewJSONLObserver(f)
		if e.cfg.Metrics.SampleRate < 1 {
			sink = metrics.NewSamplingObserver(sink, e.cfg.Metrics.SampleRate)
		}
		e.asyncObs = metrics.NewAsyncObserver(sink, e.cfg.Metrics.Buffer)
		chain = append(chain, e.asyncObs)
	}
	return observers.NewMultiObserver(chain...), nil
}

// Stats reports scorer outcome counters for the current process.
func (e *Engine) Stats() observers.StatsSnapshot {
	return e.stats.Snapshot()
}

// Start blocks serving HTTP until Stop is called.
func (e *Engine) Start() error {
	return e.server.Start()
}

// Stop drains the HTTP server and flushes observers before Close.
func (e *Engine) Stop() error {
	var err error
	if e.server != nil {
		err = e.server.Stop()
	}
	e.Close()
	return err
}

// Close releases resources without waiting on in-flight requests.
func (e *Engine) Close() {
	if e.asyncObs != nil {
		e.asyncObs.Close()
		e.asyncObs = nil
	}
	if e.metricsF != nil {
		_ = e.metricsF.Close()
		e.metricsF = nil
	}
	if e.store != nil {
		_ = e.store.Close()
		e.store = nil
	}
}

// Store exposes persistence for seeding and administration.
func (e *Engine) Store() *store.Store {
	return e.store
}
