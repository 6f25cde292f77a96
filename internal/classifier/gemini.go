package classifier

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"contentprep/internal/services"
)

const defaultGeminiModel = "gemini-2.5-flash"

type generateFunc func(ctx context.Context, systemPrompt, userPrompt string) (string, error)

// Gemini orders filenames with the Google Gemini API.
type Gemini struct {
	model    string
	generate generateFunc
}

// NewGemini creates a Gemini-backed classifier.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, "gemini", "new client", "api key is required", nil)
	}
	if strings.TrimSpace(model) == "" {
		model = defaultGeminiModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	g := &Gemini{model: model}
	g.generate = func(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
		resp, err := client.Models.GenerateContent(ctx, g.model, genai.Text(userPrompt), &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
			ResponseMIMEType:  "application/json",
			Temperature:       genai.Ptr[float32](0),
		})
		if err != nil {
			return "", err
		}
		return resp.Text(), nil
	}
	return g, nil
}

// Model returns the configured model name.
func (g *Gemini) Model() string {
	return g.model
}

// SuggestOrder asks Gemini for an order of filenames.
func (g *Gemini) SuggestOrder(ctx context.Context, filenames []string, hints map[string]string) ([]string, error) {
	if g == nil || g.generate == nil {
		return nil, errors.New("gemini classifier is not configured")
	}
	if len(filenames) == 0 {
		return []string{}, nil
	}
	prompt, err := buildUserPrompt(filenames, hints)
	if err != nil {
		return nil, err
	}
	raw, err := g.generate(ctx, OrderingPrompt, prompt)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, services.Wrap(services.ErrTimeout, "gemini", "generate content", "", err)
		}
		return nil, services.Wrap(services.ErrExternal, "gemini", "generate content", "", err)
	}
	return parseOrder("gemini", raw)
}
