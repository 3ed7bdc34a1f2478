package e2e

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"autodevstack/internal/ranking"
	"autodevstack/internal/registry"
	"autodevstack/pkg/types"
)

func TestE2E_ChatModelAnswersTextPrompt(t *testing.T) {
	router := &fakeRouter{reply: "Hello!"}
	srv, _ := newStack(t, router, "hf_test")

	resp, body := httpPostJSON(t, srv.URL+"/ai", `{"prompt":"hello"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", resp.StatusCode, body)
	}
	var out types.AIResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Content != "Hello!" || out.Role != "assistant" {
		t.Fatalf("unexpected reply: %+v", out)
	}
	if out.Task != types.TaskTextGeneration || out.Model != registry.DefaultTextModel || out.Provider != "auto" {
		t.Fatalf("unexpected selection: %+v", out)
	}
	if p := router.seen(); len(p) != 1 || p[0] != "/v1/chat/completions" {
		t.Fatalf("expected one chat completion call, got %v", p)
	}
}

func TestE2E_ImagePromptReturnsBase64(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G'}
	router := &fakeRouter{image: png}
	srv, _ := newStack(t, router, "hf_test")

	resp, body := httpPostJSON(t, srv.URL+"/ai", `{"prompt":"нарисуй кота"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", resp.StatusCode, body)
	}
	var out types.AIResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Task != types.TaskTextToImage || out.Model != "black-forest-labs/FLUX.1-dev" || out.Content != "[image]" {
		t.Fatalf("unexpected reply: %+v", out)
	}
	if out.Image != base64.StdEncoding.EncodeToString(png) {
		t.Fatalf("unexpected image payload: %q", out.Image)
	}
	if p := router.seen(); len(p) != 1 || p[0] != "/hf-inference/models/black-forest-labs/FLUX.1-dev" {
		t.Fatalf("unexpected router calls: %v", p)
	}
}

func TestE2E_RankingCacheDrivesSelection(t *testing.T) {
	router := &fakeRouter{reply: "generated"}
	srv, cache := newStack(t, router, "hf_test")

	resp, _ := httpGet(t, srv.URL+"/models/best")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 before update-models, got %d", resp.StatusCode)
	}

	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	doc := ranking.SelectBest([]types.HubModel{
		{ID: "org/writer", PipelineTag: "text-generation", Likes: 500, Downloads: 3, LastModified: now},
	}, ranking.DefaultCriteria(), now)
	if err := ranking.Save(cache, doc); err != nil {
		t.Fatalf("save cache: %v", err)
	}

	resp, body := httpPostJSON(t, srv.URL+"/select", `{"prompt":"write a poem"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("select status %d: %s", resp.StatusCode, body)
	}
	var sel types.SelectionResponse
	if err := json.Unmarshal(body, &sel); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sel.Model != "org/writer" || sel.Source != "cache" {
		t.Fatalf("expected cached model, got %+v", sel)
	}

	resp, body = httpPostJSON(t, srv.URL+"/ai", `{"prompt":"write a poem"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("ai status %d: %s", resp.StatusCode, body)
	}
	if p := router.seen(); len(p) != 1 || p[0] != "/hf-inference/models/org/writer" {
		t.Fatalf("expected a text-generation call for the cached model, got %v", p)
	}

	resp, body = httpGet(t, srv.URL+"/models/best")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("best status %d", resp.StatusCode)
	}
	var got types.BestModels
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m, ok := got.Lookup(types.TaskTextGeneration); !ok || m.ID != "org/writer" {
		t.Fatalf("unexpected cache document: %s", body)
	}
}

func TestE2E_DegradedResults(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		router := &fakeRouter{}
		srv, _ := newStack(t, router, "")
		resp, body := httpPostJSON(t, srv.URL+"/ai", `{"prompt":"hello"}`)
		if resp.StatusCode != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d: %s", resp.StatusCode, body)
		}
		var out types.AIResponse
		_ = json.Unmarshal(body, &out)
		if out.Role != "system" || out.Model != "" {
			t.Fatalf("unexpected degraded body: %+v", out)
		}
		if len(router.seen()) != 0 {
			t.Fatalf("router must not be called without a token")
		}
	})
	t.Run("rate limited upstream", func(t *testing.T) {
		srv, _ := newStack(t, &fakeRouter{status: http.StatusTooManyRequests}, "hf_test")
		resp, body := httpPostJSON(t, srv.URL+"/ai", `{"prompt":"hello"}`)
		if resp.StatusCode != http.StatusTooManyRequests {
			t.Fatalf("expected 429, got %d: %s", resp.StatusCode, body)
		}
	})
	t.Run("upstream failure", func(t *testing.T) {
		srv, _ := newStack(t, &fakeRouter{status: http.StatusInternalServerError}, "hf_test")
		resp, body := httpPostJSON(t, srv.URL+"/ai", `{"prompt":"hello"}`)
		if resp.StatusCode != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d: %s", resp.StatusCode, body)
		}
		var out types.AIResponse
		_ = json.Unmarshal(body, &out)
		if out.Role != "system" || out.Model != registry.DefaultTextModel {
			t.Fatalf("unexpected degraded body: %+v", out)
		}
	})
}
