package llm

import "context"

// Prompt is a composed instruction payload: a system role establishing
// the engineering persona and constraints, and the user requirement.
type Prompt struct {
	System string `json:"system"`
	User   string `json:"user"`
}

type GenerationParams struct {
	Temperature *float32 `json:"temperature"`
	TopK        *int     `json:"top_k"`
	TopP        *float32 `json:"top_p"`
	MaxTokens   *int     `json:"max_tokens"`
	Stop        []string `json:"stop"`
}

// LLMClient defines the standard interface for any LLM backend
type LLMClient interface {
	Generate(ctx context.Context, prompt Prompt, params GenerationParams) (string, error)
}
