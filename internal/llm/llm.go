// Package llm talks to the hosted Gemini models used for chat, tool
// selection and embeddings.
package llm

import (
	"context"
	"errors"
)

var (
	// ErrNoAPIKey is returned when no Gemini key is configured.
	ErrNoAPIKey = errors.New("llm: api key not configured")
	// ErrEmptyResponse means the model answered without any candidate.
	ErrEmptyResponse = errors.New("llm: empty response")
)

const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Embedder turns text into vectors.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
}

// ChatModel generates a reply, optionally choosing one of the declared tools.
type ChatModel interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
}

type Message struct {
	Role string
	Text string
}

// FunctionDeclaration describes a tool the model may call. Parameters is
// an OpenAPI style object schema.
type FunctionDeclaration struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters,omitempty"`
}

type FunctionCall struct {
	Name string                 `json:"name"`
	Args map[string]interface{} `json:"args"`
}

type GenerateRequest struct {
	System      string
	Messages    []Message
	Tools       []FunctionDeclaration
	Temperature float64
	MaxTokens   int
}

// GenerateResponse holds either text or a function call (never both used).
type GenerateResponse struct {
	Text string
	Call *FunctionCall
}
