package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pratamaditya/ucap/pkg/errorsx"
	"github.com/pratamaditya/ucap/pkg/score"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "ucap.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestUserByToken(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	u := &User{Name: "Sari", APIToken: "tok-1", LearningLanguage: "english", LanguageLevel: "beginner", Plan: "premium"}
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.ID == 0 {
		t.Fatalf("expected generated id")
	}

	got, err := s.UserByToken(ctx, "tok-1")
	if err != nil {
		t.Fatalf("user by token: %v", err)
	}
	if got.ID != u.ID || got.LearningLanguage != "english" {
		t.Fatalf("unexpected user: %+v", got)
	}

	_, err = s.UserByToken(ctx, "nope")
	if !errorsx.HasReason(err, errorsx.ReasonUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}

func TestHasAccessFollowsPlan(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	free := &User{Name: "A", APIToken: "free-tok", Plan: "free"}
	premium := &User{Name: "B", APIToken: "prem-tok", Plan: "premium"}
	for _, u := range []*User{free, premium} {
		if err := s.CreateUser(ctx, u); err != nil {
			t.Fatalf("create user: %v", err)
		}
	}

	cases := []struct {
		userID  int64
		feature string
		want    bool
	}{
		{free.ID, "score", true},
		{free.ID, "dialogue", false},
		{premium.ID, "dialogue", true},
		{premium.ID, "live", true},
	}
	for _, tc := range cases {
		got, err := s.HasAccess(ctx, tc.userID, tc.feature)
		if err != nil {
			t.Fatalf("has access: %v", err)
		}
		if got != tc.want {
			t.Fatalf("user %d feature %s: expected %v", tc.userID, tc.feature, tc.want)
		}
	}
}

func TestRecordAttemptRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	u := &User{Name: "C", APIToken: "tok-c", Plan: "premium"}
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}

	fb := score.Feedback{
		OverallScore: 87,
		WordScores: []score.WordScore{
			{Word: "Hello", Score: 95, Correct: true},
			{Word: "friend", Score: 70, Correct: false, Suggestion: `Try pronouncing "friend" more clearly`},
		},
		Feedback:     "Good effort! Keep practicing to improve your pronunciation.",
		Strengths:    []string{"Clear speech attempt"},
		Improvements: []string{"Focus on word clarity", "Practice pronunciation"},
	}
	if err := s.RecordAttempt(ctx, u.ID, "cafe-ordering", 2, fb); err != nil {
		t.Fatalf("record attempt: %v", err)
	}

	attempts, err := s.AttemptsForScenario(ctx, u.ID, "cafe-ordering")
	if err != nil {
		t.Fatalf("attempts: %v", err)
	}
	if len(attempts) != 1 {
		t.Fatalf("expected 1 attempt, got %d", len(attempts))
	}
	if attempts[0].OverallScore != 87 || attempts[0].TurnIndex != 2 {
		t.Fatalf("unexpected attempt: %+v", attempts[0])
	}
	stored, err := attempts[0].Feedback()
	if err != nil {
		t.Fatalf("decode feedback: %v", err)
	}
	if len(stored.WordScores) != 2 || stored.WordScores[1].Suggestion == "" {
		t.Fatalf("feedback did not round-trip: %+v", stored)
	}
}
