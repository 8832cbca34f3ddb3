package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pratamaditya/ucap/pkg/errorsx"
	"github.com/pratamaditya/ucap/pkg/score"
)

// Attempt is one persisted scoring result for a dialogue turn.
type Attempt struct {
	ID           int64     `db:"id"`
	UserID       int64     `db:"user_id"`
	ScenarioID   string    `db:"scenario_id"`
	TurnIndex    int       `db:"turn_index"`
	OverallScore int       `db:"overall_score"`
	FeedbackJSON string    `db:"feedback_json"`
	CreatedAt    time.Time `db:"created_at"`
}

// Feedback decodes the stored feedback payload.
func (a Attempt) Feedback() (score.Feedback, error) {
	var fb score.Feedback
	err := json.Unmarshal([]byte(a.FeedbackJSON), &fb)
	return fb, err
}

// RecordAttempt persists a completed scoring result. Called by the HTTP
// layer once a full Feedback exists; the scoring core never writes here.
func (s *Store) RecordAttempt(ctx context.Context, userID int64, scenarioID string, turnIndex int, fb score.Feedback) error {
	payload, err := json.Marshal(fb)
	if err != nil {
		return errorsx.Wrap(err, errorsx.ReasonStoreQuery)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO attempts (user_id, scenario_id, turn_index, overall_score, feedback_json)
		 VALUES ($1, $2, $3, $4, $5)`,
		userID, scenarioID, turnIndex, fb.OverallScore, string(payload),
	)
	if err != nil {
		return errorsx.Wrap(err, errorsx.ReasonStoreQuery)
	}
	return nil
}

// AttemptsForScenario returns a user's attempts for one scenario, oldest
// first.
func (s *Store) AttemptsForScenario(ctx context.Context, userID int64, scenarioID string) ([]Attempt, error) {
	var out []Attempt
	err := s.db.SelectContext(ctx, &out,
		`SELECT * FROM attempts WHERE user_id = $1 AND scenario_id = $2 ORDER BY id ASC`,
		userID, scenarioID,
	)
	if err != nil {
		return nil, errorsx.Wrap(err, errorsx.ReasonStoreQuery)
	}
	return out, nil
}
