package types

// AIRequest is the payload of POST /ai.
type AIRequest struct {
	// Free-text prompt.
	// example: нарисуй кота
	Prompt string `json:"prompt" example:"нарисуй кота"`
	// Optional explicit task: chat, text-generation or text-to-image.
	Task Task `json:"task,omitempty" example:"chat"`
	// Optional explicit model id.
	Model string `json:"model,omitempty" example:"deepseek-ai/DeepSeek-V3-0324"`
	// Optional inference provider (unknown values fall back to auto).
	Provider string `json:"provider,omitempty" example:"together"`
	// Optional full message history for chat.
	Messages []Message `json:"messages,omitempty"`
	// Optional image prompt; implies text-to-image when no task is set.
	ImagePrompt string `json:"image_prompt,omitempty"`
	// Optional assistant role name.
	Role string `json:"role,omitempty"`
	// Optional project context replacing the default one.
	ProjectContext string `json:"project_context,omitempty"`
}

// AIResponse is returned by POST /ai. Failures are reported with role "system".
type AIResponse struct {
	Content  string `json:"content"`
	Role     string `json:"role"`
	Model    string `json:"model"`
	Task     Task   `json:"task"`
	Provider string `json:"provider"`
	// Base64 image payload for text-to-image results.
	Image string `json:"image,omitempty"`
}

// SelectionResponse is returned by POST /select.
type SelectionResponse struct {
	Task    Task   `json:"task"`
	Model   string `json:"model"`
	Source  string `json:"source"`
	Explain string `json:"explain,omitempty"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}
