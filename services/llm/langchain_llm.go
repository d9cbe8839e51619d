package llm

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// LangChainClient adapts a langchaingo model to the LLMClient interface.
// It exists for deployments that want provider selection handled by
// langchaingo rather than by this package's native clients.
type LangChainClient struct {
	model    llms.Model
	provider string
}

// NewLangChainClient builds a client for the provider named in
// LANGCHAIN_PROVIDER ("openai" or "ollama"). Provider credentials come
// from the same environment variables the native clients use.
func NewLangChainClient() (*LangChainClient, error) {
	provider := os.Getenv("LANGCHAIN_PROVIDER")
	if provider == "" {
		provider = "openai"
	}

	var model llms.Model
	var err error
	switch provider {
	case "openai":
		opts := []openai.Option{}
		if m := os.Getenv("OPENAI_MODEL"); m != "" {
			opts = append(opts, openai.WithModel(m))
		}
		model, err = openai.New(opts...)
	case "ollama":
		opts := []ollama.Option{}
		if m := os.Getenv("OLLAMA_MODEL"); m != "" {
			opts = append(opts, ollama.WithModel(m))
		}
		if u := os.Getenv("OLLAMA_BASE_URL"); u != "" {
			opts = append(opts, ollama.WithServerURL(u))
		}
		model, err = ollama.New(opts...)
	default:
		return nil, fmt.Errorf("unsupported LANGCHAIN_PROVIDER: %s", provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create langchain model for %s: %w", provider, err)
	}

	slog.Info("Initializing LangChain client", "provider", provider)
	return &LangChainClient{model: model, provider: provider}, nil
}

// Generate implements the LLMClient interface
func (l *LangChainClient) Generate(ctx context.Context, prompt Prompt, params GenerationParams) (string, error) {
	slog.Debug("Generating code via LangChain", "provider", l.provider)

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, prompt.System),
		llms.TextParts(llms.ChatMessageTypeHuman, prompt.User),
	}

	var options []llms.CallOption
	if params.Temperature != nil {
		options = append(options, llms.WithTemperature(float64(*params.Temperature)))
	}
	if params.TopP != nil {
		options = append(options, llms.WithTopP(float64(*params.TopP)))
	}
	if params.TopK != nil {
		options = append(options, llms.WithTopK(*params.TopK))
	}
	if params.MaxTokens != nil {
		options = append(options, llms.WithMaxTokens(*params.MaxTokens))
	}

	resp, err := l.model.GenerateContent(ctx, messages, options...)
	if err != nil {
		slog.Error("LangChain GenerateContent failed", "provider", l.provider, "error", err)
		return "", fmt.Errorf("langchain GenerateContent failed: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from LLM")
	}
	return resp.Choices[0].Content, nil
}
