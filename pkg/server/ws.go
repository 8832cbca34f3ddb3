package server

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/pratamaditya/ucap/pkg/dialogue"
	"github.com/pratamaditya/ucap/pkg/score"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type liveRequest struct {
	SessionID       string `json:"sessionId"`
	TranscribedText string `json:"transcribedText"`
}

type liveResponse struct {
	Feedback *score.Feedback `json:"feedback,omitempty"`
	Dialogue *dialogueView   `json:"dialogue,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// handleLive is the realtime practice channel: the client sends one attempt
// per message for an active dialogue session and gets the verdict back on
// the same connection. Messages for one session are applied in arrival
// order because the session itself serializes writers.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	user := currentUser(r)
	for {
		var req liveRequest
		if err := conn.ReadJSON(&req); err != nil {
			return
		}
		resp := s.liveAttempt(r, user.ID, req)
		if err := conn.WriteJSON(resp); err != nil {
			return
		}
	}
}

func (s *Server) liveAttempt(r *http.Request, userID int64, req liveRequest) liveResponse {
	sess, ok := s.sessions.Get(req.SessionID)
	if !ok || sess.UserID != userID {
		return liveResponse{Error: "unknown dialogue session"}
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
		return liveResponse{Error: err.Error()}
	}

	if s.progress != nil {
		if perr := s.progress.RecordAttempt(r.Context(), userID, sess.Snapshot().Scenario.ID, turnIndex, fb); perr != nil {
			s.logger.Error("record attempt failed", "session_id", sess.ID, "error", perr)
		}
	}

	view := viewOf(sess.ID, sess.Snapshot())
	return liveResponse{Feedback: &fb, Dialogue: &view}
}
