package dialogue

import (
	"context"

	"github.com/pratamaditya/ucap/pkg/score"
)

// DefaultPassThreshold is the minimum overallScore required to advance a
// learner turn without retry or skip.
const DefaultPassThreshold = 70

// State is the full progress of one dialogue session. All transitions are
// pure: they return a new State and never mutate the receiver, so the owner
// decides when and how to persist. Serializing concurrent writers for one
// session is the owner's job as well.
type State struct {
	Scenario      Scenario
	Turns         []Turn
	Index         int
	PassThreshold int
}

// NewState builds the initial state for a scenario: every turn pending,
// index at zero.
func NewState(sc Scenario, passThreshold int) State {
	if passThreshold <= 0 {
		passThreshold = DefaultPassThreshold
	}
	turns := make([]Turn, len(sc.Lines))
	for i, line := range sc.Lines {
		turns[i] = Turn{Index: i, Speaker: line.Speaker, Status: StatusPending, Text: line.Text}
	}
	return State{Scenario: sc, Turns: turns, PassThreshold: passThreshold}
}

// CurrentTurn returns the turn at the current index, or ErrOutOfRange once
// the dialogue has run past its last turn.
func (s State) CurrentTurn() (Turn, error) {
	if s.Index >= len(s.Turns) {
		return Turn{}, ErrOutOfRange
	}
	return s.Turns[s.Index], nil
}

// Completed reports whether the dialogue reached its terminal state.
func (s State) Completed() bool {
	return s.Index >= len(s.Turns)
}

func (s State) clone() State {
	out := s
	out.Turns = make([]Turn, len(s.Turns))
	copy(out.Turns, s.Turns)
	return out
}

// SubmitAttempt scores a learner attempt for the current turn. A score at or
// above the pass threshold marks the turn correct and advances; anything
// lower marks it incorrect and stays put until Retry or Skip. Scoring
// failures leave the state untouched.
func SubmitAttempt(ctx context.Context, state State, scorer score.Scorer, pair score.Pair) (score.Feedback, State, error) {
	turn, err := state.CurrentTurn()
	if err != nil {
		return score.Feedback{}, state, err
	}
	if turn.Speaker != SpeakerLearner || turn.Status != StatusPending {
		return score.Feedback{}, state, &InvalidTransitionError{Op: "submit", Speaker: turn.Speaker, Status: turn.Status}
	}

	fb, err := scorer.Score(ctx, pair)
	if err != nil {
		return score.Feedback{}, state, err
	}

	next := state.clone()
	if fb.OverallScore >= state.PassThreshold {
		next.Turns[next.Index].Status = StatusCorrect
		next.Index++
	} else {
		next.Turns[next.Index].Status = StatusIncorrect
	}
	return fb, next, nil
}

// Advance delivers the current scriptedOther line and moves on. The HTTP
// layer calls this after handing the line (and its synthesized audio) to the
// client.
func Advance(state State) (State, error) {
	turn, err := state.CurrentTurn()
	if err != nil {
		return state, err
	}
	if turn.Speaker != SpeakerScriptedOther || turn.Status != StatusPending {
		return state, &InvalidTransitionError{Op: "advance", Speaker: turn.Speaker, Status: turn.Status}
	}
	next := state.clone()
	next.Turns[next.Index].Status = StatusCorrect
	next.Index++
	return next, nil
}

// Retry resets an incorrect learner turn to pending without moving the
// index.
func Retry(state State) (State, error) {
	turn, err := state.CurrentTurn()
	if err != nil {
		return state, err
	}
	if turn.Status != StatusIncorrect {
		return state, &InvalidTransitionError{Op: "retry", Speaker: turn.Speaker, Status: turn.Status}
	}
	next := state.clone()
	next.Turns[next.Index].Status = StatusPending
	return next, nil
}

// Skip abandons an incorrect learner turn and advances without success.
func Skip(state State) (State, error) {
	turn, err := state.CurrentTurn()
	if err != nil {
		return state, err
	}
	if turn.Status != StatusIncorrect {
		return state, &InvalidTransitionError{Op: "skip", Speaker: turn.Speaker, Status: turn.Status}
	}
	next := state.clone()
	next.Turns[next.Index].Status = StatusSkipped
	next.Index++
	return next, nil
}
