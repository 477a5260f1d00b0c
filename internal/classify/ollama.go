package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/MrSnakeDoc/curator/internal/logger"
)

const (
	defaultOllamaModel   = "llama3.2"
	defaultOllamaTimeout = 20 * time.Second

	// promptTextMax bounds how much page text goes into the prompt.
	promptTextMax = 2000
)

// Ollama classifies bookmarks through a local Ollama instance. The
// model answers in JSON via the generate endpoint's format option.
type Ollama struct {
	baseURL string
	model   string
	client  *http.Client
	log     logger.Logger
}

func NewOllama(baseURL, model string, log logger.Logger) *Ollama {
	if model == "" {
		model = defaultOllamaModel
	}
	return &Ollama{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: defaultOllamaTimeout},
		log:     log,
	}
}

func (o *Ollama) Name() string { return "ollama" }

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
	Format string `json:"format"`
}

type ollamaResponse struct {
	Response string `json:"response"`
}

type ollamaVerdict struct {
	Category    string `json:"category"`
	Description string `json:"description"`
}

func (o *Ollama) Classify(ctx context.Context, in ProviderInput) (*ProviderResult, error) {
	payload, err := json.Marshal(ollamaRequest{
		Model:  o.model,
		Prompt: buildPrompt(in),
		Stream: false,
		Format: "json",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call ollama: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}

	var out ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	var verdict ollamaVerdict
	if err := json.Unmarshal([]byte(out.Response), &verdict); err != nil {
		return nil, fmt.Errorf("failed to parse verdict: %w", err)
	}

	category := strings.ToLower(strings.TrimSpace(verdict.Category))
	if category == "" || category == "unknown" || category == "none" {
		return nil, nil
	}

	o.log.Debug("ollama verdict",
		logger.String("url", in.URL),
		logger.String("category", category))
	return &ProviderResult{
		Category:    category,
		Description: strings.TrimSpace(verdict.Description),
	}, nil
}

func buildPrompt(in ProviderInput) string {
	var b strings.Builder
	b.WriteString("Classify this bookmark into exactly one category.\n")
	if len(in.Candidates) > 0 {
		b.WriteString("Prefer one of: ")
		b.WriteString(strings.Join(in.Candidates, ", "))
		b.WriteString(". Suggest a short lowercase category of your own only when none fits.\n")
	}
	b.WriteString("Answer as JSON with keys \"category\" and \"description\" (one sentence).\n\n")
	fmt.Fprintf(&b, "Title: %s\nURL: %s\n", in.Title, in.URL)
	if in.Text != "" {
		text := in.Text
		if len(text) > promptTextMax {
			cut := promptTextMax
			for cut > 0 && !utf8.RuneStart(text[cut]) {
				cut--
			}
			text = text[:cut]
		}
		b.WriteString("Page text: ")
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String()
}
