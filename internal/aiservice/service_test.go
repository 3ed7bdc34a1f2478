package aiservice

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"autodevstack/internal/hub"
	"autodevstack/internal/registry"
	"autodevstack/pkg/types"
)

type fakeInference struct {
	chatReq   *hub.ChatRequest
	genModel  string
	genInputs string
	imgInputs string
	err       error
}

func (f *fakeInference) ChatCompletion(_ context.Context, req hub.ChatRequest) (*hub.ChatResponse, error) {
	f.chatReq = &req
	if f.err != nil {
		return nil, f.err
	}
	return &hub.ChatResponse{Choices: []hub.ChatChoice{{Message: types.Message{Role: "assistant", Content: "chat reply"}}}}, nil
}

func (f *fakeInference) TextGeneration(_ context.Context, model, _ string, inputs string) (*hub.TextGenerationResponse, error) {
	f.genModel, f.genInputs = model, inputs
	if f.err != nil {
		return nil, f.err
	}
	return &hub.TextGenerationResponse{GeneratedText: "generated"}, nil
}

func (f *fakeInference) TextToImage(_ context.Context, _ string, _ string, inputs string) (*hub.ImageResponse, error) {
	f.imgInputs = inputs
	if f.err != nil {
		return nil, f.err
	}
	return &hub.ImageResponse{ContentType: "image/png", Data: []byte("png")}, nil
}

func newService(t *testing.T, fi *fakeInference, token string) *Service {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("readme body"), 0o644))
	reg := registry.Default()
	reg.Add(registry.Entry{Model: "org/plain", Tasks: []string{"text-generation"}})
	return New(Config{
		Token:    token,
		Client:   fi,
		Selector: Selector{CachePath: filepath.Join(dir, "best_models.json")},
		Registry: reg,
		WorkDir:  dir,
		Logger:   zerolog.Nop(),
	})
}

func TestCall_MissingTokenDegrades(t *testing.T) {
	fi := &fakeInference{}
	before := testutil.ToFloat64(callsTotal.WithLabelValues("", outcomeNoToken))
	res := newService(t, fi, "").Call(context.Background(), "hello", Options{})
	require.True(t, res.Degraded())
	require.Contains(t, res.Content, "HF_TOKEN")
	require.True(t, IsMissingToken(res.Err))
	require.Nil(t, fi.chatReq)
	require.Equal(t, before+1, testutil.ToFloat64(callsTotal.WithLabelValues("", outcomeNoToken)))
}

func TestCall_ConversationalModelUsesChat(t *testing.T) {
	fi := &fakeInference{}
	res := newService(t, fi, "tok").Call(context.Background(), "write code", Options{Provider: "bogus"})
	require.False(t, res.Degraded())
	require.Equal(t, "chat reply", res.Content)
	require.Equal(t, types.TaskTextGeneration, res.Task)
	require.Equal(t, registry.DefaultTextModel, res.Model)
	require.Equal(t, "auto", res.Provider)
	require.NotNil(t, fi.chatReq)
	msgs := fi.chatReq.Messages
	require.Len(t, msgs, 3)
	require.Equal(t, "system", msgs[0].Role)
	require.Contains(t, msgs[0].Content, "readme body")
	require.Equal(t, "assistant", msgs[1].Role)
	require.Contains(t, msgs[1].Content, DefaultRole)
	require.Equal(t, types.Message{Role: "user", Content: "write code"}, msgs[2])
}

func TestCall_CallerMessagesPassThrough(t *testing.T) {
	fi := &fakeInference{}
	history := []types.Message{{Role: "system", Content: "ctx"}, {Role: "user", Content: "q"}}
	newService(t, fi, "tok").Call(context.Background(), "q", Options{Messages: history, Provider: "groq"})
	require.Equal(t, history, fi.chatReq.Messages)
	require.Equal(t, "groq", fi.chatReq.Provider)
}

func TestCall_TextGenerationPrefixesContext(t *testing.T) {
	fi := &fakeInference{}
	res := newService(t, fi, "tok").Call(context.Background(), "do it", Options{Model: "org/plain", ProjectContext: "CTX"})
	require.Equal(t, "generated", res.Content)
	require.Equal(t, "assistant", res.Role)
	require.Equal(t, "org/plain", fi.genModel)
	require.Equal(t, "CTX\n\ndo it", fi.genInputs)
}

func TestCall_TextToImage(t *testing.T) {
	fi := &fakeInference{}
	res := newService(t, fi, "tok").Call(context.Background(), "нарисуй кота", Options{})
	require.Equal(t, "[image]", res.Content)
	require.Equal(t, types.TaskTextToImage, res.Task)
	require.Equal(t, "нарисуй кота", fi.imgInputs)
	require.Equal(t, "cG5n", res.API().Image)
}

func TestCall_RemoteErrorDegrades(t *testing.T) {
	fi := &fakeInference{err: errors.New("boom")}
	before := testutil.ToFloat64(callsTotal.WithLabelValues(string(types.TaskTextGeneration), outcomeError))
	res := newService(t, fi, "tok").Call(context.Background(), "write", Options{Model: "org/plain"})
	require.True(t, res.Degraded())
	require.True(t, strings.HasPrefix(res.Content, "[AIService error]: "))
	require.Contains(t, res.Content, "boom")
	require.EqualError(t, res.Err, "boom")
	require.Equal(t, "org/plain", res.Model)
	require.Equal(t, before+1, testutil.ToFloat64(callsTotal.WithLabelValues(string(types.TaskTextGeneration), outcomeError)))
}
