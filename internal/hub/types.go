package hub

import "autodevstack/pkg/types"

// ChatRequest is an OpenAI-style chat completion request.
type ChatRequest struct {
	Model       string          `json:"model"`
	Messages    []types.Message `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature float64         `json:"temperature,omitempty"`
	// Provider is folded into the model id ("model:provider") on the wire.
	Provider string `json:"-"`
}

// ChatResponse is the subset of a chat completion response we read.
type ChatResponse struct {
	ID      string       `json:"id"`
	Model   string       `json:"model"`
	Choices []ChatChoice `json:"choices"`
	Usage   *Usage       `json:"usage,omitempty"`
}

type ChatChoice struct {
	Index        int           `json:"index"`
	Message      types.Message `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// FirstMessage returns the first choice's message, if any.
func (r *ChatResponse) FirstMessage() (types.Message, bool) {
	if r == nil || len(r.Choices) == 0 {
		return types.Message{}, false
	}
	return r.Choices[0].Message, true
}

type inferenceInput struct {
	Inputs string `json:"inputs"`
}

// TextGenerationResponse is the text-generation task output.
type TextGenerationResponse struct {
	GeneratedText string `json:"generated_text"`
}

// ImageResponse holds a generated image.
type ImageResponse struct {
	ContentType string
	Data        []byte
}
