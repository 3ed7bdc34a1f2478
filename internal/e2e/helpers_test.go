package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"autodevstack/internal/aiservice"
	"autodevstack/internal/httpapi"
	"autodevstack/internal/hub"
	"autodevstack/internal/registry"
)

// fakeRouter stands in for router.huggingface.co.
type fakeRouter struct {
	mu     sync.Mutex
	paths  []string
	status int
	reply  string
	image  []byte
}

func (f *fakeRouter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.paths = append(f.paths, r.URL.Path)
	status := f.status
	f.mu.Unlock()
	if status != 0 {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, `{"error":"upstream"}`)
		return
	}
	switch {
	case r.URL.Path == "/v1/chat/completions":
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": f.reply}}},
		})
	case f.image != nil:
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(f.image)
	default:
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]map[string]string{{"generated_text": f.reply}})
	}
}

func (f *fakeRouter) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.paths...)
}

// newStack wires the real AI service and HTTP API against router. The
// ranking cache lives at the returned path and does not exist yet.
func newStack(t *testing.T, router http.Handler, token string) (*httptest.Server, string) {
	t.Helper()
	up := httptest.NewServer(router)
	t.Cleanup(up.Close)
	cache := filepath.Join(t.TempDir(), "best_models.json")
	client := hub.New(hub.Options{HubURL: up.URL, RouterURL: up.URL, Token: token, RetryMax: 0, Logger: zerolog.Nop()})
	svc := aiservice.New(aiservice.Config{
		Token:    token,
		Client:   client,
		Selector: aiservice.Selector{CachePath: cache},
		Registry: registry.Default(),
		WorkDir:  t.TempDir(),
		Logger:   zerolog.Nop(),
	})
	srv := httptest.NewServer(httpapi.NewMux(svc))
	t.Cleanup(srv.Close)
	return srv, cache
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func httpPostJSON(t *testing.T, url string, payload string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewBufferString(payload))
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}
