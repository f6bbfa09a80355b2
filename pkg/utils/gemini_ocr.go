package utils

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiOCRClient implements OCRClientInterface using Gemini vision models
type GeminiOCRClient struct {
	client *genai.Client
	model  string
}

func NewGeminiOCRClient(apiKey, model string) (OCRClientInterface, error) {
	if model == "" {
		model = "gemini-1.5-flash" // Free tier model
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiOCRClient{
		client: client,
		model:  model,
	}, nil
}

func (c *GeminiOCRClient) ExtractText(ctx context.Context, image []byte, mimeType string) (string, error) {
	m := c.client.GenerativeModel(c.model)
	m.SetTemperature(0)
	m.SetTopK(1)

	resp, err := m.GenerateContent(ctx, genai.Blob{MIMEType: mimeType, Data: image}, genai.Text(ocrPrompt))
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini: no content")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return cleanOCRText(sb.String()), nil
}

// Close closes the Gemini client
func (c *GeminiOCRClient) Close() error {
	return c.client.Close()
}
