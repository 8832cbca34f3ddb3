package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pratamaditya/ucap/pkg/dialogue"
	"github.com/pratamaditya/ucap/pkg/score"
)

type createDialogueRequest struct {
	ScenarioID string `json:"scenarioId"`
}

type turnView struct {
	Index   int    `json:"index"`
	Speaker string `json:"speaker"`
	Status  string `json:"status"`
	Text    string `json:"text"`
}

type dialogueView struct {
	SessionID   string     `json:"sessionId"`
	ScenarioID  string     `json:"scenarioId"`
	Index       int        `json:"index"`
	Completed   bool       `json:"completed"`
	CurrentTurn *turnView  `json:"currentTurn,omitempty"`
	Turns       []turnView `json:"turns"`
}

type attemptResponse struct {
	Feedback score.Feedback `json:"feedback"`
	Dialogue dialogueView   `json:"dialogue"`
}

func viewOf(sessionID string, state dialogue.State) dialogueView {
	v := dialogueView{
		SessionID:  sessionID,
		ScenarioID: state.Scenario.ID,
		Index:      state.Index,
		Completed:  state.Completed(),
		Turns:      make([]turnView, len(state.Turns)),
	}
	for i, t := range state.Turns {
		v.Turns[i] = turnView{Index: t.Index, Speaker: t.Speaker.String(), Status: t.Status.String(), Text: t.Text}
	}
	if turn, err := state.CurrentTurn(); err == nil {
		tv := v.Turns[turn.Index]
		v.CurrentTurn = &tv
	}
	return v
}

func (s *Server) handleCreateDialogue(w http.ResponseWriter, r *http.Request) {
	var req createDialogueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	scenario, ok := s.scenarios[req.ScenarioID]
	if !ok {
		writeError(w, http.StatusNotFound, "unknown scenario")
		return
	}
	sess := s.sessions.Create(currentUser(r).ID, dialogue.NewState(scenario, s.threshold))
	s.logger.Info("dialogue started", "session_id", sess.ID, "scenario_id", scenario.ID, "user_id", sess.UserID)
	writeJSON(w, http.StatusCreated, viewOf(sess.ID, sess.Snapshot()))
}

// session loads the addressed dialogue session and enforces ownership.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*dialogue.Session, bool) {
	sess, ok := s.sessions.Get(r.PathValue("id"))
	if !ok || sess.UserID != currentUser(r).ID {
		writeError(w, http.StatusNotFound, "unknown dialogue session")
		return nil, false
	}
	return sess, true
}

func (s *Server) handleCurrentTurn(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess.ID, sess.Snapshot()))
}

type attemptRequest struct {
	TranscribedText string `json:"transcribedText"`
}

func (s *Server) handleAttempt(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req attemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var fb score.Feedback
	var turnIndex int
	err := sess.Do(func(state dialogue.State) (dialogue.State, error) {
		turn, err := state.CurrentTurn()
		if err != nil {
			return state, err
		}
		turnIndex = turn.Index
		pair := score.Pair{
			ExpectedText:    turn.Text,
			TranscribedText: req.TranscribedText,
			Language:        state.Scenario.Language,
		}
		var next dialogue.State
		fb, next, err = dialogue.SubmitAttempt(r.Context(), state, s.scorer, pair)
		return next, err
	})
	if err != nil {
		s.writeDialogueError(w, r, err)
		return
	}

	// Persist only once a complete Feedback exists.
	if s.progress != nil {
		if perr := s.progress.RecordAttempt(r.Context(), sess.UserID, sess.Snapshot().Scenario.ID, turnIndex, fb); perr != nil {
			s.logger.Error("record attempt failed", "session_id", sess.ID, "error", perr)
		}
	}

	writeJSON(w, http.StatusOK, attemptResponse{Feedback: fb, Dialogue: viewOf(sess.ID, sess.Snapshot())})
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, dialogue.Advance)
}

func (s *Server) handleRetry(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, dialogue.Retry)
}

func (s *Server) handleSkip(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, dialogue.Skip)
}

func (s *Server) transition(w http.ResponseWriter, r *http.Request, op func(dialogue.State) (dialogue.State, error)) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	err := sess.Do(func(state dialogue.State) (dialogue.State, error) {
		return op(state)
	})
	if err != nil {
		s.writeDialogueError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess.ID, sess.Snapshot()))
}

func (s *Server) handleEndDialogue(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	s.sessions.Remove(sess.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeDialogueError(w http.ResponseWriter, r *http.Request, err error) {
	var invalid *dialogue.InvalidTransitionError
	switch {
	case errors.Is(err, dialogue.ErrOutOfRange):
		writeError(w, http.StatusConflict, "dialogue already completed")
	case errors.As(err, &invalid):
		writeError(w, http.StatusConflict, invalid.Error())
	default:
		s.writeScoringError(w, r, err)
	}
}
