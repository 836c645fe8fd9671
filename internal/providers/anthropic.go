package providers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const anthropicVersion = "2023-06-01"

// AnthropicProvider calls the Anthropic Messages API directly. It is the only
// provider here that accepts document (PDF) input, which the extraction
// operations rely on. Document requests run under a separate, longer timeout
// than plain text requests; full-paper extraction takes tens of seconds.
type AnthropicProvider struct {
	keyName         string
	apiKey          string
	model           string
	textTimeout     time.Duration
	documentTimeout time.Duration
	client          *http.Client
}

func NewAnthropicProvider(keyName string, timeout, documentTimeout time.Duration) *AnthropicProvider {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if documentTimeout <= 0 {
		documentTimeout = timeout
	}
	model := os.Getenv("PAPERDESK_ANTHROPIC_MODEL")
	if model == "" {
		model = "claude-3-5-haiku-20241022"
	}
	return &AnthropicProvider{
		keyName:         keyName,
		apiKey:          resolveAnthropicKey(keyName),
		model:           model,
		textTimeout:     timeout,
		documentTimeout: documentTimeout,
		client:          &http.Client{},
	}
}

func (a *AnthropicProvider) requestTimeout(req GenerateRequest) time.Duration {
	if len(req.Document) > 0 {
		return a.documentTimeout
	}
	return a.textTimeout
}

func (a *AnthropicProvider) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error) {
	info := ProviderInfo{Name: "anthropic", Model: a.model, Key: a.keyName}
	if a.apiKey == "" {
		return GenerateResponse{}, info, fmt.Errorf("anthropic key missing for alias %q", a.keyName)
	}
	ctx, cancel := context.WithTimeout(ctx, a.requestTimeout(req))
	defer cancel()
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	var content any = req.Prompt
	if len(req.Document) > 0 {
		mediaType := req.DocumentType
		if mediaType == "" {
			mediaType = "application/pdf"
		}
		content = []map[string]any{
			{
				"type": "document",
				"source": map[string]any{
					"type":       "base64",
					"media_type": mediaType,
					"data":       base64.StdEncoding.EncodeToString(req.Document),
				},
			},
			{"type": "text", "text": req.Prompt},
		}
	}

	payload, _ := json.Marshal(map[string]any{
		"model":      a.model,
		"max_tokens": maxTokens,
		"messages": []map[string]any{
			{"role": "user", "content": content},
		},
	})
	httpReq, _ := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.anthropic.com/v1/messages", bytes.NewReader(payload))
	httpReq.Header.Set("x-api-key", a.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return GenerateResponse{}, info, fmt.Errorf("anthropic generate request failed: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return GenerateResponse{}, info, fmt.Errorf("anthropic generate error %d: %s", resp.StatusCode, string(body))
	}
	var parsed struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return GenerateResponse{}, info, fmt.Errorf("decode generate response: %w", err)
	}
	var sb strings.Builder
	for _, c := range parsed.Content {
		if c.Type == "text" {
			sb.WriteString(c.Text)
		}
	}
	if sb.Len() == 0 {
		return GenerateResponse{}, info, fmt.Errorf("anthropic returned no text content")
	}
	return GenerateResponse{Text: sb.String()}, info, nil
}

func resolveAnthropicKey(alias string) string {
	if alias != "" {
		k := os.Getenv("PAPERDESK_ANTHROPIC_KEY_" + strings.ToUpper(alias))
		if k != "" {
			return k
		}
	}
	return os.Getenv("ANTHROPIC_API_KEY")
}
