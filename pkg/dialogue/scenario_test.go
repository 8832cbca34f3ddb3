package dialogue

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pratamaditya/ucap/pkg/score"
)

const scenarioYAML = `id: cafe-ordering
title: Ordering at a cafe
language: english
lines:
  - speaker: other
    text: "Good morning! What can I get you?"
  - speaker: learner
    text: "I would like a coffee please"
  - speaker: other
    text: "Anything else?"
  - speaker: learner
    text: "No thank you"
`

func TestLoadScenarios(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "cafe.yaml"), []byte(scenarioYAML), 0o644); err != nil {
		t.Fatalf("write scenario: %v", err)
	}
	scenarios, err := LoadScenarios(dir)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	sc, ok := scenarios["cafe-ordering"]
	if !ok {
		t.Fatalf("scenario not found, got %v", scenarios)
	}
	if sc.Language != score.LanguageEnglish {
		t.Fatalf("unexpected language %q", sc.Language)
	}
	if len(sc.Lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(sc.Lines))
	}
	if sc.Lines[0].Speaker != SpeakerScriptedOther || sc.Lines[1].Speaker != SpeakerLearner {
		t.Fatalf("unexpected speakers: %+v", sc.Lines)
	}
}

func TestLoadScenariosRejectsUnknownSpeaker(t *testing.T) {
	dir := t.TempDir()
	bad := "id: x\nlines:\n  - speaker: narrator\n    text: hi\n"
	if err := os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte(bad), 0o644); err != nil {
		t.Fatalf("write scenario: %v", err)
	}
	if _, err := LoadScenarios(dir); err == nil {
		t.Fatalf("expected error for unknown speaker")
	}
}

func TestRegistrySerializesWrites(t *testing.T) {
	reg := NewRegistry()
	sess := reg.Create(7, NewState(practiceScenario(), 70))
	if sess.ID == "" {
		t.Fatalf("expected generated session id")
	}
	if got, ok := reg.Get(sess.ID); !ok || got != sess {
		t.Fatalf("expected to find session by id")
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			_ = sess.Do(func(s State) (State, error) { return s, nil })
		}
	}()
	for i := 0; i < 100; i++ {
		_ = sess.Do(func(s State) (State, error) { return s, nil })
	}
	<-done

	reg.Remove(sess.ID)
	if _, ok := reg.Get(sess.ID); ok {
		t.Fatalf("expected session removed")
	}
	if reg.Count() != 0 {
		t.Fatalf("expected count 0, got %d", reg.Count())
	}
}
