package factory

import (
	"context"
	"fmt"

	"morning-pulse-be/pkg/llm"
	"morning-pulse-be/pkg/llm/gemini"
	"morning-pulse-be/pkg/llm/ollama"
)

type Settings struct {
	Provider          string // "gemini" or "ollama"
	Model             string
	BaseURL           string
	APIKey            string
	RequestsPerMinute int
}

func NewLLMProvider(ctx context.Context, s Settings) (llm.LLMProvider, error) {
	switch s.Provider {
	case "ollama":
		baseURL := s.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, s.Model), nil
	case "gemini", "":
		model := s.Model
		if model == "" {
			model = "gemini-2.0-flash"
		}
		return gemini.NewGeminiProvider(ctx, s.APIKey, model, s.RequestsPerMinute)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", s.Provider)
	}
}
