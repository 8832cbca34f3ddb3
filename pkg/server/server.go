package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/pratamaditya/ucap/pkg/adapters/stt"
	"github.com/pratamaditya/ucap/pkg/adapters/tts"
	"github.com/pratamaditya/ucap/pkg/dialogue"
	"github.com/pratamaditya/ucap/pkg/logging"
	"github.com/pratamaditya/ucap/pkg/score"
	"github.com/pratamaditya/ucap/pkg/store"
)

// UserStore resolves bearer tokens to learner identities.
type UserStore interface {
	UserByToken(ctx context.Context, token string) (store.User, error)
}

// ProgressStore persists completed attempts. The scoring core never calls
// this; the HTTP layer does, after a full Feedback exists.
type ProgressStore interface {
	RecordAttempt(ctx context.Context, userID int64, scenarioID string, turnIndex int, fb score.Feedback) error
}

// EntitlementChecker gates features per user before the pipeline runs.
type EntitlementChecker interface {
	HasAccess(ctx context.Context, userID int64, feature string) (bool, error)
}

type Options struct {
	Addr          string
	Scorer        score.Scorer
	Transcriber   stt.Transcriber
	Synthesizer   tts.Synthesizer
	Users         UserStore
	Progress      ProgressStore
	Access        EntitlementChecker
	Scenarios     map[string]dialogue.Scenario
	PassThreshold int
	Logger        *slog.Logger
}

type Server struct {
	srv       *http.Server
	logger    *slog.Logger
	scorer    score.Scorer
	stt       stt.Transcriber
	tts       tts.Synthesizer
	users     UserStore
	progress  ProgressStore
	access    EntitlementChecker
	scenarios map[string]dialogue.Scenario
	sessions  *dialogue.Registry
	threshold int
}

func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewComponentLogger(slog.Default(), "server")
	}
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}
	if opts.PassThreshold <= 0 {
		opts.PassThreshold = dialogue.DefaultPassThreshold
	}

	mux := http.NewServeMux()
	s := &Server{
		srv: &http.Server{
			Addr:         opts.Addr,
			ReadTimeout:  60 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  120 * time.Second,
			Handler:      mux,
		},
		logger:    logger,
		scorer:    opts.Scorer,
		stt:       opts.Transcriber,
		tts:       opts.Synthesizer,
		users:     opts.Users,
		progress:  opts.Progress,
		access:    opts.Access,
		scenarios: opts.Scenarios,
		sessions:  dialogue.NewRegistry(),
		threshold: opts.PassThreshold,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("POST /v1/score", s.withUser(s.withFeature("score", s.handleScore)))
	mux.Handle("POST /v1/transcribe", s.withUser(s.withFeature("transcribe", s.handleTranscribe)))
	mux.Handle("POST /v1/speak", s.withUser(s.withFeature("speak", s.handleSpeak)))
	mux.Handle("POST /v1/dialogues", s.withUser(s.withFeature("dialogue", s.handleCreateDialogue)))
	mux.Handle("GET /v1/dialogues/{id}/turn", s.withUser(s.withFeature("dialogue", s.handleCurrentTurn)))
	mux.Handle("POST /v1/dialogues/{id}/attempts", s.withUser(s.withFeature("dialogue", s.handleAttempt)))
	mux.Handle("POST /v1/dialogues/{id}/advance", s.withUser(s.withFeature("dialogue", s.handleAdvance)))
	mux.Handle("POST /v1/dialogues/{id}/retry", s.withUser(s.withFeature("dialogue", s.handleRetry)))
	mux.Handle("POST /v1/dialogues/{id}/skip", s.withUser(s.withFeature("dialogue", s.handleSkip)))
	mux.Handle("DELETE /v1/dialogues/{id}", s.withUser(s.withFeature("dialogue", s.handleEndDialogue)))
	mux.Handle("GET /v1/live", s.withUser(s.withFeature("live", s.handleLive)))

	return s
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

func (s *Server) Start() error {
	s.logger.Info("http server listening", "addr", s.srv.Addr)
	err := s.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Stop() error {
	s.logger.Info("http server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
