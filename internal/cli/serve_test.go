package cli

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/palladiosimulator/pcmuml/pkg/observability"
	"github.com/palladiosimulator/pcmuml/pkg/pipeline"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard)
	srv := httptest.NewServer(newServer(pipeline.NewRunner(logger), pipeline.Options{}, logger).routes())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url, contentType, body string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Post(url, contentType, strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, string(data)
}

func TestServeRender(t *testing.T) {
	srv := newTestServer(t)

	resp, body := post(t, srv.URL+"/render/system", "application/yaml", shopModel)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q, want text/plain", ct)
	}
	if !strings.HasPrefix(body, "@startuml\n") || !strings.Contains(body, "[Web] -(0- [Store] : Provided_IStore\n") {
		t.Errorf("body = %q", body)
	}
	if resp.Header.Get(requestIDHeader) == "" {
		t.Error("response has no request ID")
	}
}

func TestServeRenderOptions(t *testing.T) {
	srv := newTestServer(t)

	resp, body := post(t, srv.URL+"/render/system?raw=true&uri=platform:/resource/shop.yaml", "application/yaml; charset=utf-8", shopModel)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}
	if strings.HasPrefix(body, "@startuml") {
		t.Error("raw=true response is wrapped")
	}
	if !strings.Contains(body, "marker:/org.eclipse.emf.ecore.diagnostic/shop.yaml?uri=platform:/resource/shop.yaml%23repo") {
		t.Errorf("body lacks hyperlinks to the given uri:\n%s", body)
	}
	if got := resp.Header.Get(diagnosticsHeader); got != "0" {
		t.Errorf("%s = %q, want 0", diagnosticsHeader, got)
	}

	// The ghost component's role names no interface.
	resp, _ = post(t, srv.URL+"/render/component", "application/yaml", shopModel)
	if got := resp.Header.Get(diagnosticsHeader); got != "1" {
		t.Errorf("%s = %q, want 1", diagnosticsHeader, got)
	}
}

func TestServeRenderErrors(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name        string
		path        string
		contentType string
		body        string
		want        int
	}{
		{"unknown kind", "/render/sequence", "application/yaml", shopModel, http.StatusNotFound},
		{"missing content type", "/render/system", "", shopModel, http.StatusBadRequest},
		{"unsupported content type", "/render/system", "text/html", shopModel, http.StatusBadRequest},
		{"malformed body", "/render/system", "application/json", "{", http.StatusBadRequest},
		{"unknown reference", "/render/system", "application/yaml", "systems: [{id: s, instances: [{id: x, component: nope}]}]", http.StatusBadRequest},
		{"bad raw", "/render/system?raw=maybe", "application/yaml", shopModel, http.StatusBadRequest},
		{"no root of kind", "/render/allocation", "application/yaml", "systems: [{id: s, name: S}]", http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := post(t, srv.URL+tt.path, tt.contentType, tt.body)
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d (body %q)", resp.StatusCode, tt.want, body)
			}
		})
	}
}

func TestServeMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/render/system")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET /render/system status = %d, want 405", resp.StatusCode)
	}
}

func TestServeHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !strings.HasPrefix(string(body), "ok ") {
		t.Errorf("GET /healthz = %d %q", resp.StatusCode, body)
	}
}

func TestRequestIDPropagation(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set(requestIDHeader, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if got := resp.Header.Get(requestIDHeader); got != "abc-123" {
		t.Errorf("%s = %q, want abc-123", requestIDHeader, got)
	}

	if requestIDFrom(context.Background()) != "" {
		t.Error("requestIDFrom() without ID should be empty")
	}
}

func TestServeHTTPHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	srv := newTestServer(t)
	post(t, srv.URL+"/render/sequence", "application/yaml", "")

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if hooks.requests != 1 || hooks.lastStatus != http.StatusNotFound {
		t.Errorf("requests = %d, lastStatus = %d, want 1, 404", hooks.requests, hooks.lastStatus)
	}
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	c, out, _ := newTestCLI()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- c.listenAndServe(ctx, "127.0.0.1:0", http.NotFoundHandler()) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("listenAndServe() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("listenAndServe() did not stop")
	}
	if !strings.Contains(out.String(), "Serving on") {
		t.Errorf("status = %q", out.String())
	}
}

func TestListenAndServeBadAddr(t *testing.T) {
	c, _, _ := newTestCLI()
	if err := c.listenAndServe(context.Background(), "256.0.0.1:bad", http.NotFoundHandler()); err == nil {
		t.Error("listenAndServe() with a bad address should fail")
	}
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	mu         sync.Mutex
	requests   int
	lastStatus int
}

func (h *recordingHTTPHooks) OnRequest(context.Context, string, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests++
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastStatus = status
}
