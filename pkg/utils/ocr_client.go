package utils

import (
	"context"
	"fmt"
	"strings"
)

// OCRClientInterface extracts raw text from an image of a survey form.
type OCRClientInterface interface {
	ExtractText(ctx context.Context, image []byte, mimeType string) (string, error)
	Close() error
}

const ocrPrompt = `Transcribe all text in this image exactly as written, one line per line of the form.
Keep labels and values together (for example "Age: 42"). Do not summarize, translate, or add commentary.
Return plain text only, no markdown.`

// NewOCRClient builds a client for the named provider.
func NewOCRClient(provider, apiKey, model string) (OCRClientInterface, error) {
	switch strings.ToLower(provider) {
	case "openai":
		return NewOpenAIOCRClient(apiKey, model), nil
	case "gemini":
		return NewGeminiOCRClient(apiKey, model)
	default:
		return nil, fmt.Errorf("unsupported ocr provider: %s", provider)
	}
}

// cleanOCRText strips markdown fences some models wrap around plain text.
func cleanOCRText(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if i := strings.Index(s, "\n"); i >= 0 {
			s = s[i+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
