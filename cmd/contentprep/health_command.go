package main

import (
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"contentprep/internal/classifier"
	"contentprep/internal/config"
	"contentprep/internal/content"
	"contentprep/internal/services/llm"
	"contentprep/internal/store"
)

type healthReport struct {
	Database   store.DatabaseHealth `json:"database" yaml:"database"`
	Classifier classifierHealth     `json:"classifier" yaml:"classifier"`
}

type classifierHealth struct {
	Provider string `json:"provider" yaml:"provider"`
	Model    string `json:"model,omitempty" yaml:"model,omitempty"`
	Checked  bool   `json:"checked" yaml:"checked"`
	Healthy  bool   `json:"healthy" yaml:"healthy"`
	Detail   string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

func newHealthCommand(ctx *commandContext) *cobra.Command {
	var ping bool

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Report database and classifier health",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			return ctx.withStore(logger, func(st *store.Store) error {
				db, err := st.CheckHealth(cmd.Context())
				if err != nil {
					return fmt.Errorf("check database: %w", err)
				}
				report := healthReport{Database: db, Classifier: classifierStatus(cmd, cfg, ping)}
				return ctx.emit(cmd, report, func(out io.Writer, colorize bool) error {
					renderHealth(out, report, colorize)
					return nil
				})
			})
		},
	}

	cmd.Flags().BoolVar(&ping, "ping-classifier", false, "Send a test request to the classifier endpoint")
	return cmd
}

func classifierStatus(cmd *cobra.Command, cfg *config.Config, ping bool) classifierHealth {
	status := classifierHealth{Provider: cfg.Classifier.Provider}
	switch cfg.Classifier.Provider {
	case config.ProviderNone, "":
		status.Provider = config.ProviderNone
		status.Healthy = true
		status.Detail = "disabled; ambiguous sets use filename order"
	case config.ProviderGemini:
		status.Model = cfg.Gemini.Model
		if cfg.Gemini.APIKey == "" {
			status.Detail = "gemini.api_key is not set"
			return status
		}
		g, err := classifier.NewGemini(cmd.Context(), cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			status.Detail = err.Error()
			return status
		}
		status.Model = g.Model()
		status.Healthy = true
	case config.ProviderOpenRouter:
		settings := cfg.GetLLM()
		client := llm.NewClient(llm.Config{
			APIKey:         settings.APIKey,
			BaseURL:        settings.BaseURL,
			Model:          settings.Model,
			Referer:        settings.Referer,
			Title:          settings.Title,
			TimeoutSeconds: settings.TimeoutSeconds,
		}, llm.WithRetryMaxAttempts(1))
		status.Model = client.Model()
		if settings.APIKey == "" {
			status.Detail = "llm.api_key is not set"
			return status
		}
		status.Healthy = true
		if !ping {
			return status
		}
		status.Checked = true
		if err := client.HealthCheck(cmd.Context()); err != nil {
			status.Healthy = false
			status.Detail = err.Error()
		}
	default:
		status.Detail = "unknown provider"
	}
	return status
}

func renderHealth(out io.Writer, report healthReport, colorize bool) {
	db := report.Database
	rows := [][]string{
		{"Driver", db.Driver},
		{"Location", db.Location},
		{"Database exists", yesNo(db.DatabaseExists)},
		{"Schema version", strconv.Itoa(db.SchemaVersion)},
		{"Manifests", strconv.Itoa(db.Manifests)},
		{"Cached orders", strconv.Itoa(db.CachedOrders)},
	}
	for _, status := range content.AllStatuses() {
		rows = append(rows, []string{"Sets " + string(status), strconv.Itoa(db.Sets[status])})
	}
	var extra []string
	for status := range db.Sets {
		if !slices.Contains(content.AllStatuses(), status) {
			extra = append(extra, string(status))
		}
	}
	slices.Sort(extra)
	for _, status := range extra {
		rows = append(rows, []string{"Sets " + status, strconv.Itoa(db.Sets[content.Status(status)])})
	}

	cls := report.Classifier
	rows = append(rows,
		[]string{"Classifier", cls.Provider},
		[]string{"Classifier healthy", yesNo(cls.Healthy)},
	)
	if cls.Model != "" {
		rows = append(rows, []string{"Classifier model", cls.Model})
	}
	if cls.Checked {
		rows = append(rows, []string{"Classifier pinged", "yes"})
	}
	if cls.Detail != "" {
		rows = append(rows, []string{"Classifier detail", cls.Detail})
	}
	fmt.Fprint(out, keyValueTable(rows, colorize))
}
