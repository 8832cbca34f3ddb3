package server

import (
	"encoding/json"
	"net/http"

	"github.com/pratamaditya/ucap/pkg/adapters/stt"
	"github.com/pratamaditya/ucap/pkg/adapters/tts"
	"github.com/pratamaditya/ucap/pkg/errorsx"
	"github.com/pratamaditya/ucap/pkg/redact"
	"github.com/pratamaditya/ucap/pkg/score"
)

// handleScore runs the pronunciation pipeline for a single utterance pair.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var pair score.Pair
	if err := json.NewDecoder(r.Body).Decode(&pair); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if pair.Language == "" {
		pair.Language = score.Language(currentUser(r).LearningLanguage)
	}
	if err := pair.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	fb, err := s.scorer.Score(r.Context(), pair)
	if err != nil {
		s.writeScoringError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fb)
}

func (s *Server) writeScoringError(w http.ResponseWriter, r *http.Request, err error) {
	switch errorsx.Reason(err) {
	case errorsx.ReasonInputInvalid:
		writeError(w, http.StatusBadRequest, err.Error())
	case errorsx.ReasonScoringUnavailable, errorsx.ReasonLLMRateLimit:
		s.logger.Warn("scoring unavailable", "error", err)
		writeError(w, http.StatusServiceUnavailable, "pronunciation scoring is temporarily unavailable")
	default:
		s.logger.Error("scoring failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// handleTranscribe turns uploaded audio into text via the STT collaborator.
func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if s.stt == nil {
		writeError(w, http.StatusNotImplemented, "transcription is not configured")
		return
	}
	defer r.Body.Close()
	language := r.URL.Query().Get("language")
	if language == "" {
		language = currentUser(r).LearningLanguage
	}
	text, err := s.stt.Transcribe(r.Context(), r.Body, stt.Config{
		Language: language,
		MimeType: r.Header.Get("Content-Type"),
	})
	if err != nil {
		s.logger.Warn("transcription failed", "error", err)
		writeError(w, http.StatusBadGateway, "transcription failed")
		return
	}
	s.logger.Debug("transcription served", "text", redact.Transcript(text))
	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

type speakRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// handleSpeak synthesizes a line of text and streams the audio back.
func (s *Server) handleSpeak(w http.ResponseWriter, r *http.Request) {
	if s.tts == nil {
		writeError(w, http.StatusNotImplemented, "synthesis is not configured")
		return
	}
	var req speakRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	audio, err := s.tts.Synthesize(r.Context(), req.Text, tts.Config{Language: req.Language})
	if err != nil {
		s.logger.Warn("synthesis failed", "error", err)
		writeError(w, http.StatusBadGateway, "synthesis failed")
		return
	}
	w.Header().Set("Content-Type", "audio/mpeg")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(audio)
}
