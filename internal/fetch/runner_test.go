package fetch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testRunner(t *testing.T, handler http.HandlerFunc) (*Runner, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	r, err := NewRunner(srv.URL, "test-token", nil)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	return r, srv
}

func TestDo_Success(t *testing.T) {
	r, _ := testRunner(t, func(w http.ResponseWriter, req *http.Request) {
		if got := req.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("missing auth header; got %q", got)
		}
		if got := req.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("missing content type; got %q", got)
		}
		var body map[string]any
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok": true}`))
	})

	res := r.Do(context.Background(), http.MethodPost, "/tags/view", map[string]any{"tag_ids": []int{1}})
	if res.Failed() {
		t.Fatalf("unexpected failure: %+v", res)
	}
	if res.Status != http.StatusOK || string(res.Body) != `{"ok": true}` {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestDo_ClientErrorExtractsStructuredMessage(t *testing.T) {
	r, _ := testRunner(t, func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"_error": "tag name is already taken"}`))
	})

	res := r.Do(context.Background(), http.MethodPost, "/tags/add", map[string]any{})
	if !res.Failed() || res.Kind != KindClient {
		t.Fatalf("expected client failure; got %+v", res)
	}
	if res.Status != http.StatusBadRequest || res.Err != "tag name is already taken" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestDo_ServerErrorFallsBackToRawText(t *testing.T) {
	r, _ := testRunner(t, func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("something broke"))
	})

	res := r.Do(context.Background(), http.MethodGet, "/tags/view", nil)
	if !res.Failed() || res.Kind != KindServer {
		t.Fatalf("expected server failure; got %+v", res)
	}
	if res.Err != "something broke" {
		t.Fatalf("unexpected error message: %q", res.Err)
	}
}

func TestDo_TransportFailureHasNoStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close() // connection refused from here on

	r, err := NewRunner(url, "", nil)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	res := r.Do(context.Background(), http.MethodGet, "/tags/view", nil)
	if !res.Failed() || res.Kind != KindTransport {
		t.Fatalf("expected transport failure; got %+v", res)
	}
	if res.Status != 0 {
		t.Fatalf("transport failure must carry no status; got %d", res.Status)
	}
	if res.Err == "" {
		t.Fatalf("expected a generic error message")
	}
}

func TestNotRunIsIndistinguishableFromFailureForCallers(t *testing.T) {
	res := NotRun("tag name already exists")
	if !res.Failed() {
		t.Fatalf("NotRun must count as failed")
	}
	if res.Status != 0 || res.Err == "" || res.Kind != KindPrecondition {
		t.Fatalf("unexpected NotRun shape: %+v", res)
	}
}
