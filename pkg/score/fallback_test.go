package score

import (
	"context"
	"testing"
)

func TestFallbackExactMatch(t *testing.T) {
	fb, err := NewFallbackScorer().Score(context.Background(), Pair{
		ExpectedText:    "Hello there friend",
		TranscribedText: "hello there friend",
		Language:        LanguageEnglish,
	})
	if err != nil {
		t.Fatalf("score error: %v", err)
	}
	if fb.OverallScore != 95 {
		t.Fatalf("expected overall 95, got %d", fb.OverallScore)
	}
	if len(fb.WordScores) != 3 {
		t.Fatalf("expected 3 word scores, got %d", len(fb.WordScores))
	}
	wantWords := []string{"Hello", "there", "friend"}
	for i, ws := range fb.WordScores {
		if ws.Word != wantWords[i] {
			t.Fatalf("word %d: expected %q, got %q", i, wantWords[i], ws.Word)
		}
		if ws.Score != 95 || !ws.Correct {
			t.Fatalf("word %d: expected score 95 correct, got %+v", i, ws)
		}
		if ws.Suggestion != "" {
			t.Fatalf("word %d: unexpected suggestion %q", i, ws.Suggestion)
		}
	}
}

func TestFallbackMissingWord(t *testing.T) {
	fb, err := NewFallbackScorer().Score(context.Background(), Pair{
		ExpectedText:    "Hello there friend",
		TranscribedText: "hello there",
		Language:        LanguageEnglish,
	})
	if err != nil {
		t.Fatalf("score error: %v", err)
	}
	// round((95+95+70)/3) == 87
	if fb.OverallScore != 87 {
		t.Fatalf("expected overall 87, got %d", fb.OverallScore)
	}
	third := fb.WordScores[2]
	if third.Word != "friend" || third.Score != 70 || third.Correct {
		t.Fatalf("unexpected third word score: %+v", third)
	}
	if third.Suggestion != `Try pronouncing "friend" more clearly` {
		t.Fatalf("unexpected suggestion: %q", third.Suggestion)
	}
}

func TestFallbackIgnoresCaseAndTrailingPunctuation(t *testing.T) {
	fb, err := NewFallbackScorer().Score(context.Background(), Pair{
		ExpectedText:    "Where is the library?",
		TranscribedText: "where is the library",
		Language:        LanguageEnglish,
	})
	if err != nil {
		t.Fatalf("score error: %v", err)
	}
	for i, ws := range fb.WordScores {
		if !ws.Correct {
			t.Fatalf("word %d should be correct: %+v", i, ws)
		}
	}
}

func TestFallbackFixedTexts(t *testing.T) {
	fb, err := NewFallbackScorer().Score(context.Background(), Pair{
		ExpectedText:    "bonjour",
		TranscribedText: "bonsoir",
		Language:        LanguageFrench,
	})
	if err != nil {
		t.Fatalf("score error: %v", err)
	}
	if fb.Feedback != "Good effort! Keep practicing to improve your pronunciation." {
		t.Fatalf("unexpected feedback: %q", fb.Feedback)
	}
	if len(fb.Strengths) != 1 || fb.Strengths[0] != "Clear speech attempt" {
		t.Fatalf("unexpected strengths: %v", fb.Strengths)
	}
	if len(fb.Improvements) != 2 {
		t.Fatalf("unexpected improvements: %v", fb.Improvements)
	}
}

func TestFallbackRejectsEmptyInput(t *testing.T) {
	_, err := NewFallbackScorer().Score(context.Background(), Pair{ExpectedText: "hi"})
	if err == nil {
		t.Fatalf("expected input error")
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	for _, tok := range []string{"Hello,", "WORLD!?", "déjà.", "plain", "..?!"} {
		once := Normalize(tok)
		if twice := Normalize(once); twice != once {
			t.Fatalf("normalize not idempotent for %q: %q != %q", tok, once, twice)
		}
	}
}
