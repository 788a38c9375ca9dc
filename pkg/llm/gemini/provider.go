package gemini

import (
	"context"
	"fmt"
	"strings"

	"morning-pulse-be/pkg/llm"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

type GeminiProvider struct {
	client    *genai.Client
	modelName string
	limiter   *rate.Limiter
}

var _ llm.LLMProvider = &GeminiProvider{}

// NewGeminiProvider creates a Gemini API backed provider. requestsPerMinute <= 0 disables throttling.
func NewGeminiProvider(ctx context.Context, apiKey, modelName string, requestsPerMinute int) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if requestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), 1)
	}

	return &GeminiProvider{
		client:    client,
		modelName: modelName,
		limiter:   limiter,
	}, nil
}

func (g *GeminiProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	model, contents, cfg := g.prepare(history, opts...)
	if err := g.limiter.Wait(ctx); err != nil {
		return "", err
	}

	resp, err := g.client.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return "", llm.ClassifyError(fmt.Errorf("gemini: generate: %w", err))
	}
	return resp.Text(), nil
}

func (g *GeminiProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return g.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}

func (g *GeminiProvider) Stream(ctx context.Context, history []llm.Message, onChunk llm.ChunkHandler, opts ...llm.Option) (string, error) {
	model, contents, cfg := g.prepare(history, opts...)
	if err := g.limiter.Wait(ctx); err != nil {
		return "", err
	}

	var full strings.Builder
	for resp, err := range g.client.Models.GenerateContentStream(ctx, model, contents, cfg) {
		if err != nil {
			return full.String(), llm.ClassifyError(fmt.Errorf("gemini: stream: %w", err))
		}
		text := resp.Text()
		if text == "" {
			continue
		}
		full.WriteString(text)
		if err := onChunk(text); err != nil {
			return full.String(), err
		}
	}
	return full.String(), nil
}

func (g *GeminiProvider) prepare(history []llm.Message, opts ...llm.Option) (string, []*genai.Content, *genai.GenerateContentConfig) {
	options := llm.NewOptions(opts...)

	model := g.modelName
	if options.Model != "" {
		model = options.Model
	}

	system, contents := toContents(history)
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(options.Temperature)),
	}
	if options.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(options.MaxTokens)
	}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	return model, contents, cfg
}

// toContents splits system messages out of history and maps the rest to Gemini roles.
func toContents(history []llm.Message) (string, []*genai.Content) {
	var system []string
	contents := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		switch msg.Role {
		case llm.RoleSystem:
			system = append(system, msg.Content)
		case llm.RoleAssistant, "model":
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}
	return strings.Join(system, "\n\n"), contents
}
