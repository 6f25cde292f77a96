package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"contentprep/internal/services"
	"contentprep/internal/services/llm"
)

// OrderingPrompt is the system prompt shared by all providers.
const OrderingPrompt = `You order documents that belong to one course, manual or series so they can be ingested in reading order.

You receive a JSON object with the set name, the folder and the list of filenames.
Use the filenames only: topic progression (introduction, basics, advanced, summary, appendix), numbering hidden in words and common curriculum structure.

Respond with JSON only, exactly in this shape:
{"order": ["first filename", "second filename", ...]}

Rules:
- Return every filename exactly once, spelled exactly as given.
- Do not add, rename or drop filenames.
- Do not include explanations.`

type orderRequest struct {
	SetName string   `json:"set_name,omitempty"`
	Folder  string   `json:"folder,omitempty"`
	Method  string   `json:"detection_method,omitempty"`
	Files   []string `json:"files"`
}

func buildUserPrompt(filenames []string, hints map[string]string) (string, error) {
	req := orderRequest{
		SetName: hints["set_name"],
		Folder:  hints["folder"],
		Method:  hints["method"],
		Files:   filenames,
	}
	data, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encode ordering request: %w", err)
	}
	return string(data), nil
}

func parseOrder(provider, raw string) ([]string, error) {
	var resp struct {
		Order []string `json:"order"`
	}
	if err := llm.DecodeLLMJSON(raw, &resp); err != nil {
		return nil, services.Wrap(services.ErrExternal, provider, "parse order", "", err)
	}
	if len(resp.Order) == 0 {
		return nil, services.Wrap(services.ErrExternal, provider, "parse order", "", errors.New("response contained no order"))
	}
	out := make([]string, 0, len(resp.Order))
	for _, name := range resp.Order {
		out = append(out, strings.TrimSpace(name))
	}
	return out, nil
}
