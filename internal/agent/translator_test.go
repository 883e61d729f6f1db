package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"frontline-server/pkg/api"
)

func TestHTTPTranslatorRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Bad request body: %v", err)
		}
		if req.Text != "flank left" || req.Team != 1 {
			t.Errorf("Unexpected request: %+v", req)
		}

		resp := Response{Commands: []api.ClientCommand{
			{Action: "MOVE", Payload: json.RawMessage(`{"unitIds":["u-1"],"target":{"x":1,"y":2}}`)},
			{Action: "ATTACK", Payload: json.RawMessage(`{"unitIds":["u-1"],"targetId":"u-2"}`)},
		}}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	tr := NewHTTPTranslator(srv.URL, time.Second)
	cmds, err := tr.Translate(context.Background(), Request{Text: "flank left", Team: 1})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(cmds) != 2 || cmds[0].Action != "MOVE" || cmds[1].Action != "ATTACK" {
		t.Errorf("Commands must come back in order, got %+v", cmds)
	}
}

func TestHTTPTranslatorNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	tr := NewHTTPTranslator(srv.URL, time.Second)
	if _, err := tr.Translate(context.Background(), Request{Text: "x"}); err == nil {
		t.Error("Non-200 response must be an error")
	}
}

func TestHTTPTranslatorTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	tr := NewHTTPTranslator(srv.URL, time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := tr.Translate(ctx, Request{Text: "x"}); err == nil {
		t.Error("Context timeout must surface as an error")
	}
}

type stubTranslator struct {
	cmds []api.ClientCommand
	err  error
}

func (s *stubTranslator) Translate(ctx context.Context, req Request) ([]api.ClientCommand, error) {
	return s.cmds, s.err
}

func TestDispatcherInjectsInOrder(t *testing.T) {
	stub := &stubTranslator{cmds: []api.ClientCommand{
		{Action: "MOVE"},
		{Action: "STOP"},
	}}
	d := NewDispatcher(stub, time.Second)

	var mu sync.Mutex
	var got []string
	done := make(chan struct{})

	d.Submit("c-1", Request{Text: "go"}, func(cmd api.ClientCommand) {
		mu.Lock()
		got = append(got, cmd.Action)
		if len(got) == 2 {
			close(done)
		}
		mu.Unlock()
	}, func(code, msg string) {
		t.Errorf("Unexpected error callback: %s %s", code, msg)
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for injected commands")
	}

	mu.Lock()
	defer mu.Unlock()
	if got[0] != "MOVE" || got[1] != "STOP" {
		t.Errorf("Commands injected out of order: %v", got)
	}
}

func TestDispatcherReportsFailure(t *testing.T) {
	stub := &stubTranslator{err: context.DeadlineExceeded}
	d := NewDispatcher(stub, time.Second)

	errCh := make(chan string, 1)
	d.Submit("c-1", Request{Text: "go"}, func(cmd api.ClientCommand) {
		t.Error("Inject must not be called on failure")
	}, func(code, msg string) {
		errCh <- code
	})

	select {
	case code := <-errCh:
		if code != "TRANSLATOR_FAILED" {
			t.Errorf("Expected TRANSLATOR_FAILED, got %s", code)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for error callback")
	}
}
