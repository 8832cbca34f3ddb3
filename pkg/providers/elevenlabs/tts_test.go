package elevenlabs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pratamaditya/ucap/pkg/adapters/tts"
	"github.com/pratamaditya/ucap/pkg/errorsx"
)

func TestSynthesizeReturnsAudio(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("xi-api-key") != "key" {
			t.Errorf("missing api key header")
		}
		if got := r.URL.Query().Get("output_format"); got != "mp3_44100_128" {
			t.Errorf("unexpected output_format %q", got)
		}
		_, _ = w.Write([]byte("audio-bytes"))
	}))
	defer srv.Close()

	s, err := New(Config{APIKey: "key", VoiceID: "voice", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new error: %v", err)
	}
	audio, err := s.Synthesize(context.Background(), "Good morning", tts.Config{})
	if err != nil {
		t.Fatalf("synthesize error: %v", err)
	}
	if string(audio) != "audio-bytes" {
		t.Fatalf("unexpected audio %q", audio)
	}
}

func TestSynthesizeRetriesServerErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("audio-bytes"))
	}))
	defer srv.Close()

	s, err := New(Config{APIKey: "key", VoiceID: "voice", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new error: %v", err)
	}
	audio, err := s.Synthesize(context.Background(), "Good morning", tts.Config{})
	if err != nil {
		t.Fatalf("synthesize error: %v", err)
	}
	if string(audio) != "audio-bytes" {
		t.Fatalf("unexpected audio %q", audio)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestSynthesizeDoesNotRetryClientErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	s, err := New(Config{APIKey: "key", VoiceID: "voice", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new error: %v", err)
	}
	if _, err := s.Synthesize(context.Background(), "Good morning", tts.Config{}); err == nil {
		t.Fatalf("expected error")
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestSynthesizeRejectsEmptyText(t *testing.T) {
	s, err := New(Config{APIKey: "key", VoiceID: "voice"})
	if err != nil {
		t.Fatalf("new error: %v", err)
	}
	_, err = s.Synthesize(context.Background(), "  ", tts.Config{})
	if !errorsx.HasReason(err, errorsx.ReasonTTSSynthesize) {
		t.Fatalf("expected tts_synthesize reason, got %v", err)
	}
}

func TestNewRequiresCredentials(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatalf("expected config error")
	}
}
