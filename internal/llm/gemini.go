package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/samyuktha-jana/SAP-hackathon/internal/config"
)

const (
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
)

// Gemini is a small REST client for generateContent and the embedding
// endpoints. It implements both ChatModel and Embedder.
type Gemini struct {
	apiKey     string
	baseURL    string
	chatModel  string
	embedModel string
	client     *http.Client
}

func NewGemini(cfg config.GeminiConfig) *Gemini {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = "https://generativelanguage.googleapis.com"
	}
	return &Gemini{
		apiKey:     cfg.APIKey,
		baseURL:    base,
		chatModel:  cfg.ChatModel,
		embedModel: cfg.EmbeddingModel,
		client:     &http.Client{Timeout: timeout},
	}
}

// ---------- wire types ----------

type part struct {
	Text         string        `json:"text,omitempty"`
	FunctionCall *FunctionCall `json:"functionCall,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type tool struct {
	FunctionDeclarations []FunctionDeclaration `json:"functionDeclarations"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type generateRequest struct {
	SystemInstruction *content         `json:"systemInstruction,omitempty"`
	Contents          []content        `json:"contents"`
	Tools             []tool           `json:"tools,omitempty"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

type embedRequest struct {
	Model    string  `json:"model"`
	Content  content `json:"content"`
	TaskType string  `json:"taskType,omitempty"`
}

type embedResponse struct {
	Embedding struct {
		Values []float32 `json:"values"`
	} `json:"embedding"`
}

type batchEmbedRequest struct {
	Requests []embedRequest `json:"requests"`
}

type batchEmbedResponse struct {
	Embeddings []struct {
		Values []float32 `json:"values"`
	} `json:"embeddings"`
}

// ---------- ChatModel ----------

func (g *Gemini) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	payload := generateRequest{
		GenerationConfig: generationConfig{Temperature: req.Temperature, MaxOutputTokens: req.MaxTokens},
	}
	if req.System != "" {
		payload.SystemInstruction = &content{Parts: []part{{Text: req.System}}}
	}
	for _, m := range req.Messages {
		role := m.Role
		if role != RoleModel {
			role = RoleUser
		}
		payload.Contents = append(payload.Contents, content{Role: role, Parts: []part{{Text: m.Text}}})
	}
	if len(req.Tools) > 0 {
		payload.Tools = []tool{{FunctionDeclarations: req.Tools}}
	}

	var res generateResponse
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, g.chatModel)
	if err := g.post(ctx, url, payload, &res); err != nil {
		return nil, err
	}
	if len(res.Candidates) == 0 || len(res.Candidates[0].Content.Parts) == 0 {
		return nil, ErrEmptyResponse
	}

	out := &GenerateResponse{}
	var texts []string
	for _, p := range res.Candidates[0].Content.Parts {
		if p.FunctionCall != nil && out.Call == nil {
			out.Call = p.FunctionCall
		}
		if p.Text != "" {
			texts = append(texts, p.Text)
		}
	}
	out.Text = strings.TrimSpace(strings.Join(texts, ""))
	return out, nil
}

// ---------- Embedder ----------

func (g *Gemini) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	payload := embedRequest{
		Model:    "models/" + g.embedModel,
		Content:  content{Parts: []part{{Text: text}}},
		TaskType: TaskRetrievalQuery,
	}
	var res embedResponse
	url := fmt.Sprintf("%s/v1/models/%s:embedContent", g.baseURL, g.embedModel)
	if err := g.post(ctx, url, payload, &res); err != nil {
		return nil, err
	}
	return res.Embedding.Values, nil
}

func (g *Gemini) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	payload := batchEmbedRequest{Requests: make([]embedRequest, 0, len(texts))}
	for _, t := range texts {
		payload.Requests = append(payload.Requests, embedRequest{
			Model:    "models/" + g.embedModel,
			Content:  content{Parts: []part{{Text: t}}},
			TaskType: TaskRetrievalDocument,
		})
	}
	var res batchEmbedResponse
	url := fmt.Sprintf("%s/v1/models/%s:batchEmbedContents", g.baseURL, g.embedModel)
	if err := g.post(ctx, url, payload, &res); err != nil {
		return nil, err
	}
	if len(res.Embeddings) != len(texts) {
		return nil, fmt.Errorf("llm: got %d embeddings for %d texts", len(res.Embeddings), len(texts))
	}
	out := make([][]float32, len(res.Embeddings))
	for i, e := range res.Embeddings {
		out[i] = e.Values
	}
	return out, nil
}

func (g *Gemini) post(ctx context.Context, url string, payload, out interface{}) error {
	if g.apiKey == "" {
		return ErrNoAPIKey
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("x-goog-api-key", g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("gemini request: %w", err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("read gemini response: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("gemini status %d: %s", res.StatusCode, string(resBody))
	}
	if err := json.Unmarshal(resBody, out); err != nil {
		return fmt.Errorf("decode gemini response: %w", err)
	}
	return nil
}
