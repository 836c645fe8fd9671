package providers

import "context"

type ProviderInfo struct {
	Name  string `json:"name"`
	Model string `json:"model"`
	Key   string `json:"key"`
}

// GenerateRequest is one call against a generative capability. Document, when
// set, attaches the raw PDF bytes to the request; providers that cannot accept
// document input must return an error rather than silently dropping it.
type GenerateRequest struct {
	Operation    string `json:"operation"`
	Prompt       string `json:"prompt"`
	Document     []byte `json:"document,omitempty"`
	DocumentType string `json:"document_type,omitempty"`
	MaxTokens    int    `json:"max_tokens,omitempty"`
}

type GenerateResponse struct {
	Text string `json:"text"`
}

type LLMProvider interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error)
}
