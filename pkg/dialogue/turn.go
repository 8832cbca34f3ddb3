package dialogue

import "errors"

// Speaker identifies who owns a turn.
type Speaker int

const (
	SpeakerScriptedOther Speaker = iota
	SpeakerLearner
)

func (s Speaker) String() string {
	switch s {
	case SpeakerScriptedOther:
		return "scripted_other"
	case SpeakerLearner:
		return "learner"
	default:
		return "unknown"
	}
}

// Status is the lifecycle of a single turn.
type Status int

const (
	StatusPending Status = iota
	StatusCorrect
	StatusIncorrect
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusCorrect:
		return "correct"
	case StatusIncorrect:
		return "incorrect"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Turn is one entry in a scripted conversation.
type Turn struct {
	Index   int     `json:"index"`
	Speaker Speaker `json:"speaker"`
	Status  Status  `json:"status"`
	Text    string  `json:"text"`
}

// ErrOutOfRange signals that the dialogue index has moved past the last
// turn, i.e. the dialogue is complete.
var ErrOutOfRange = errors.New("turn index out of range")

// InvalidTransitionError reports orchestrator misuse. These are programming
// errors on the caller's side, not runtime conditions to recover from.
type InvalidTransitionError struct {
	Op      string
	Speaker Speaker
	Status  Status
}

func (e *InvalidTransitionError) Error() string {
	return "invalid transition: " + e.Op + " on " + e.Speaker.String() + " turn in status " + e.Status.String()
}
