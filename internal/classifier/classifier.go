package classifier

import (
	"context"
	"fmt"

	"contentprep/internal/config"
	"contentprep/internal/ordering"
	"contentprep/internal/services"
	"contentprep/internal/services/llm"
)

// New builds the classifier selected by cfg.Classifier.Provider. The "none"
// provider yields a nil classifier so ambiguous sets fall back to filename
// order.
func New(ctx context.Context, cfg *config.Config) (ordering.Classifier, error) {
	if cfg == nil {
		return nil, nil
	}
	switch cfg.Classifier.Provider {
	case config.ProviderNone, "":
		return nil, nil
	case config.ProviderOpenRouter:
		settings := cfg.GetLLM()
		return NewLLM(llm.NewClient(llm.Config{
			APIKey:         settings.APIKey,
			BaseURL:        settings.BaseURL,
			Model:          settings.Model,
			Referer:        settings.Referer,
			Title:          settings.Title,
			TimeoutSeconds: settings.TimeoutSeconds,
		})), nil
	case config.ProviderGemini:
		g, err := NewGemini(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, "classifier", "new",
			fmt.Sprintf("unknown provider %q", cfg.Classifier.Provider), nil)
	}
}
