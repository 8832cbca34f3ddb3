package score

import (
	"context"
	"fmt"
	"math"
)

const (
	fallbackMatchScore = 95
	fallbackMissScore  = 70
)

// FallbackScorer is the deterministic, network-free scorer. It guarantees a
// well-formed Feedback when the model path cannot produce one.
//
// The comparison is positional: expected token i is matched against
// transcribed token i. Insertions and deletions in the recognizer output are
// not realigned.
type FallbackScorer struct{}

func NewFallbackScorer() *FallbackScorer {
	return &FallbackScorer{}
}

func (s *FallbackScorer) Score(_ context.Context, pair Pair) (Feedback, error) {
	if err := pair.Validate(); err != nil {
		return Feedback{}, err
	}
	expected := Tokenize(pair.ExpectedText)
	transcribed := Tokenize(pair.TranscribedText)

	words := make([]WordScore, 0, len(expected))
	total := 0
	for i, token := range expected {
		correct := i < len(transcribed) && Normalize(transcribed[i]) == Normalize(token)
		ws := WordScore{Word: token, Score: fallbackMissScore}
		if correct {
			ws.Score = fallbackMatchScore
			ws.Correct = true
		} else {
			ws.Suggestion = fmt.Sprintf("Try pronouncing %q more clearly", token)
		}
		total += ws.Score
		words = append(words, ws)
	}

	return Feedback{
		OverallScore: int(math.Round(float64(total) / float64(len(words)))),
		WordScores:   words,
		Feedback:     "Good effort! Keep practicing to improve your pronunciation.",
		Strengths:    []string{"Clear speech attempt"},
		Improvements: []string{"Focus on word clarity", "Practice pronunciation"},
	}, nil
}
