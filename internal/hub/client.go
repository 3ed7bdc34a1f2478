// Package hub is a small client for the Hugging Face Hub listing API and the
// Inference router (chat completion, text generation, text-to-image).
package hub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"

	"autodevstack/pkg/types"
)

// AutoProvider lets the router pick an inference provider.
const AutoProvider = "auto"

// Options configures a Client.
type Options struct {
	HubURL    string
	RouterURL string
	Token     string
	RetryMax  int
	Timeout   time.Duration
	Logger    zerolog.Logger
	// HTTPClient overrides the retrying client, mainly for tests.
	HTTPClient *http.Client
}

// Client talks to huggingface.co and router.huggingface.co.
type Client struct {
	hubURL    string
	routerURL string
	token     string
	http      *http.Client
}

// New constructs a Client with a retrying transport.
func New(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		rc := retryablehttp.NewClient()
		rc.RetryMax = opts.RetryMax
		rc.RetryWaitMax = 5 * time.Second
		rc.Logger = leveledLogger{l: opts.Logger}
		// Hand the last response back so do can turn it into a StatusError.
		rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
		hc = rc.StandardClient()
		hc.Timeout = opts.Timeout
	}
	return &Client{
		hubURL:    strings.TrimRight(opts.HubURL, "/"),
		routerURL: strings.TrimRight(opts.RouterURL, "/"),
		token:     opts.Token,
		http:      hc,
	}
}

// HasToken reports whether the client carries credentials.
func (c *Client) HasToken() bool { return c.token != "" }

// ListModels returns the full Hub model listing.
func (c *Client) ListModels(ctx context.Context) ([]types.HubModel, error) {
	endpoint := c.hubURL + "/api/models?full=true"
	req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	body, _, err := c.do(req)
	if err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("unexpected Hub response: %s", preview(body))
	}
	var out []types.HubModel
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return nil, fmt.Errorf("unmarshal models: %w", err)
	}
	return out, nil
}

// ChatCompletion calls the OpenAI-compatible chat endpoint of the router.
func (c *Client) ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if req.Model == "" {
		return nil, fmt.Errorf("model is required")
	}
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("messages are required")
	}
	payload := req
	if req.Provider != "" && req.Provider != AutoProvider {
		payload.Model = req.Model + ":" + req.Provider
	}
	payload.Provider = ""
	httpReq, err := c.newRequest(ctx, http.MethodPost, c.routerURL+"/v1/chat/completions", payload)
	if err != nil {
		return nil, err
	}
	body, _, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}
	var out ChatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &out, nil
}

// TextGeneration runs a raw text-generation task.
func (c *Client) TextGeneration(ctx context.Context, model, provider, inputs string) (*TextGenerationResponse, error) {
	httpReq, err := c.newRequest(ctx, http.MethodPost, c.modelURL(model, provider), inferenceInput{Inputs: inputs})
	if err != nil {
		return nil, err
	}
	body, _, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(body)
	// The endpoint answers with either a list or a single object.
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []TextGenerationResponse
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("unmarshal response: %w", err)
		}
		if len(list) == 0 {
			return &TextGenerationResponse{}, nil
		}
		return &list[0], nil
	}
	var out TextGenerationResponse
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &out, nil
}

// TextToImage generates an image and returns its raw bytes.
func (c *Client) TextToImage(ctx context.Context, model, provider, inputs string) (*ImageResponse, error) {
	httpReq, err := c.newRequest(ctx, http.MethodPost, c.modelURL(model, provider), inferenceInput{Inputs: inputs})
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "image/png")
	body, ct, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}
	if strings.HasPrefix(ct, "application/json") {
		return nil, fmt.Errorf("expected image, got JSON: %s", preview(body))
	}
	return &ImageResponse{ContentType: ct, Data: body}, nil
}

func (c *Client) modelURL(model, provider string) string {
	if provider == "" || provider == AutoProvider {
		provider = "hf-inference"
	}
	return c.routerURL + "/" + provider + "/models/" + escapeModel(model)
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body any) (*http.Request, error) {
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *Client) do(req *http.Request) ([]byte, string, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", &StatusError{Code: resp.StatusCode, Status: resp.Status, Body: preview(body)}
	}
	return body, resp.Header.Get("Content-Type"), nil
}

// escapeModel keeps the org/name slash but escapes each segment.
func escapeModel(model string) string {
	parts := strings.Split(model, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

func preview(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 512 {
		s = s[:512] + "..."
	}
	return s
}
