package alert

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func TestSendGenericPayload(t *testing.T) {
	var got Event
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("payload not JSON: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	event := Event{Type: "blocked", Path: "/work/report.txt", Action: "copy", Decision: "block"}
	if err := Send(Config{URL: srv.URL, Format: "generic"}, event); err != nil {
		t.Fatal(err)
	}
	if got.Type != "blocked" || got.Action != "copy" {
		t.Errorf("got %+v", got)
	}
}

func TestSendSlackPayload(t *testing.T) {
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	event := Event{Type: "duplicate_removed", Path: "/work/report copy.txt"}
	if err := Send(Config{URL: srv.URL, Format: "slack"}, event); err != nil {
		t.Fatal(err)
	}
	var payload map[string]string
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(payload["text"], "duplicate_removed") {
		t.Errorf("slack text missing event type: %q", payload["text"])
	}
}

func TestSendRetriesOn5xx(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	if err := Send(Config{URL: srv.URL}, Event{Type: "blocked"}); err != nil {
		t.Fatalf("expected retry to succeed: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestSendGivesUpOn4xx(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	if err := Send(Config{URL: srv.URL}, Event{Type: "blocked"}); err == nil {
		t.Fatal("expected error on 4xx")
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1 (no retry on 4xx)", calls.Load())
	}
}

func TestDispatcherMatching(t *testing.T) {
	if NewDispatcher(nil) != nil {
		t.Error("empty config must yield nil dispatcher")
	}
	cases := []struct {
		events []string
		typ    string
		want   bool
	}{
		{[]string{"blocked"}, "blocked", true},
		{[]string{"blocked"}, "warned", false},
		{[]string{"*"}, "anything", true},
		{nil, "blocked", false},
	}
	for _, c := range cases {
		if got := matches(c.events, c.typ); got != c.want {
			t.Errorf("matches(%v, %q) = %v, want %v", c.events, c.typ, got, c.want)
		}
	}
}
