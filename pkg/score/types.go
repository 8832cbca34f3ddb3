package score

import (
	"context"
	"strings"

	"github.com/pratamaditya/ucap/pkg/errorsx"
)

// Language selects scoring locale and feedback phrasing.
type Language string

const (
	LanguageEnglish Language = "english"
	LanguageSpanish Language = "spanish"
	LanguageFrench  Language = "french"
	LanguageGerman  Language = "german"
)

// DisplayName returns a human-readable language name for prompts.
func (l Language) DisplayName() string {
	s := strings.TrimSpace(string(l))
	if s == "" {
		return "English"
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// Pair is the unit of work for scoring: what the learner was supposed to say
// and what speech recognition heard.
type Pair struct {
	ExpectedText    string   `json:"expectedText"`
	TranscribedText string   `json:"transcribedText"`
	Language        Language `json:"language"`
}

// Validate rejects empty submissions before any scoring work happens.
func (p Pair) Validate() error {
	if strings.TrimSpace(p.ExpectedText) == "" {
		return errorsx.New(errorsx.ReasonInputInvalid, "expectedText is required")
	}
	if strings.TrimSpace(p.TranscribedText) == "" {
		return errorsx.New(errorsx.ReasonInputInvalid, "transcribedText is required")
	}
	return nil
}

// WordScore is the per-token verdict.
type WordScore struct {
	Word       string `json:"word"`
	Score      int    `json:"score"`
	Correct    bool   `json:"correct"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Feedback is the result object, returned unconditionally by the pipeline
// for any valid Pair. WordScores has the same length and order as
// ExpectedText tokenized by whitespace.
type Feedback struct {
	OverallScore int         `json:"overallScore"`
	WordScores   []WordScore `json:"wordScores"`
	Feedback     string      `json:"feedback"`
	Strengths    []string    `json:"strengths"`
	Improvements []string    `json:"improvements"`
}

// Scorer produces pronunciation feedback for an utterance pair.
type Scorer interface {
	Score(ctx context.Context, pair Pair) (Feedback, error)
}
