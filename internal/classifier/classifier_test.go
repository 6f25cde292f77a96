package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"contentprep/internal/config"
	"contentprep/internal/services"
	"contentprep/internal/services/llm"
)

func TestLLMSuggestOrder(t *testing.T) {
	var gotUser string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) == 2 {
			gotUser = req.Messages[1].Content
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{
				"content": "```json\n{\"order\":[\"intro.pdf\",\" wrapup.pdf \"]}\n```",
			}}},
		})
	}))
	defer server.Close()

	c := NewLLM(llm.NewClient(llm.Config{APIKey: "k", BaseURL: server.URL, Model: "m"}))
	order, err := c.SuggestOrder(context.Background(), []string{"wrapup.pdf", "intro.pdf"}, map[string]string{"set_name": "Onboarding"})
	if err != nil {
		t.Fatalf("SuggestOrder: %v", err)
	}
	if diff := cmp.Diff([]string{"intro.pdf", "wrapup.pdf"}, order); diff != "" {
		t.Fatalf("order (-want +got):\n%s", diff)
	}
	var sent orderRequest
	if err := json.Unmarshal([]byte(gotUser), &sent); err != nil {
		t.Fatalf("user prompt is not JSON: %v", err)
	}
	if sent.SetName != "Onboarding" || len(sent.Files) != 2 {
		t.Fatalf("unexpected prompt %+v", sent)
	}
}

type stubCompleter struct {
	raw string
	err error
}

func (s stubCompleter) Complete(context.Context, llm.Request) (string, error) {
	return s.raw, s.err
}

func TestLLMSuggestOrderErrors(t *testing.T) {
	cases := map[string]stubCompleter{
		"transport":   {err: errors.New("boom")},
		"empty order": {raw: `{"order":[]}`},
		"not json":    {raw: "I cannot help"},
	}
	for name, stub := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := NewLLM(stub).SuggestOrder(context.Background(), []string{"a"}, nil); err == nil {
				t.Fatal("expected error")
			}
		})
	}
	if _, err := NewLLM(stubCompleter{raw: "{}"}).SuggestOrder(context.Background(), []string{"a"}, nil); !errors.Is(err, services.ErrExternal) {
		t.Fatalf("expected external marker, got %v", err)
	}
}

func TestGeminiSuggestOrder(t *testing.T) {
	var gotSystem string
	g := &Gemini{model: "test", generate: func(_ context.Context, system, user string) (string, error) {
		gotSystem = system
		if !strings.Contains(user, `"b.md"`) {
			t.Errorf("filenames missing from prompt: %s", user)
		}
		return `{"order":["b.md","a.md"]}`, nil
	}}
	order, err := g.SuggestOrder(context.Background(), []string{"a.md", "b.md"}, nil)
	if err != nil {
		t.Fatalf("SuggestOrder: %v", err)
	}
	if diff := cmp.Diff([]string{"b.md", "a.md"}, order); diff != "" {
		t.Fatalf("order (-want +got):\n%s", diff)
	}
	if gotSystem != OrderingPrompt {
		t.Fatal("expected the shared ordering prompt")
	}

	timeout := &Gemini{generate: func(context.Context, string, string) (string, error) {
		return "", context.DeadlineExceeded
	}}
	if _, err := timeout.SuggestOrder(context.Background(), []string{"a"}, nil); !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("expected timeout marker, got %v", err)
	}
}

func TestNewSelectsProvider(t *testing.T) {
	cfg := config.Default()
	c, err := New(context.Background(), &cfg)
	if err != nil || c != nil {
		t.Fatalf("provider none should yield no classifier, got %v %v", c, err)
	}

	cfg.Classifier.Provider = config.ProviderOpenRouter
	cfg.LLM.APIKey = "k"
	c, err = New(context.Background(), &cfg)
	if err != nil {
		t.Fatalf("New openrouter: %v", err)
	}
	if _, ok := c.(*LLM); !ok {
		t.Fatalf("expected *LLM, got %T", c)
	}

	cfg.Classifier.Provider = config.ProviderGemini
	cfg.Gemini.APIKey = ""
	if _, err := New(context.Background(), &cfg); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error without gemini key, got %v", err)
	}

	cfg.Classifier.Provider = "mystery"
	if _, err := New(context.Background(), &cfg); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
