package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/acrispino/gemini-vision/internal/vision"
)

// Generation parameters sent with every call.
const (
	temperature float32 = 0.4
	topP        float32 = 1
	topK        float32 = 32
)

// Client implements vision.Describer against the Gemini API.
type Client struct {
	client *genai.Client
	model  string
}

// Option customizes the underlying genai client, used by tests to point the
// client at a fake server.
type Option func(*genai.ClientConfig)

// WithBaseURL overrides the Gemini API endpoint.
func WithBaseURL(baseURL string) Option {
	return func(cfg *genai.ClientConfig) {
		cfg.HTTPOptions.BaseURL = baseURL
	}
}

// NewClient creates a Gemini-backed describer using the given API key and
// model identifier.
func NewClient(ctx context.Context, apiKey, model string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Client{client: client, model: model}, nil
}

// Describe submits the prompt followed by the images and returns the model's
// text. An empty candidate list or text-free response yields an empty string
// and no error; the caller decides how to present absence of text.
func (c *Client) Describe(ctx context.Context, prompt string, images []vision.Image) (string, error) {
	parts := make([]*genai.Part, 0, len(images)+1)
	parts = append(parts, genai.NewPartFromText(prompt))
	for _, img := range images {
		parts = append(parts, genai.NewPartFromBytes(img.Data, img.MIMEType))
	}

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(temperature),
		TopP:        genai.Ptr(topP),
		TopK:        genai.Ptr(topK),
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("failed to call gemini: %w", err)
	}

	return resp.Text(), nil
}
