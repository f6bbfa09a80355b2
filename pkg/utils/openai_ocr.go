package utils

import (
	"context"
	"encoding/base64"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIOCRClient implements OCRClientInterface using a vision-capable chat model
type OpenAIOCRClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIOCRClient(apiKey, model string) OCRClientInterface {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIOCRClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (c *OpenAIOCRClient) ExtractText(ctx context.Context, image []byte, mimeType string) (string, error) {
	dataURL := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(image)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: ocrPrompt},
					{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{
						URL:    dataURL,
						Detail: openai.ImageURLDetailHigh,
					}},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices")
	}
	return cleanOCRText(resp.Choices[0].Message.Content), nil
}

func (c *OpenAIOCRClient) Close() error { return nil }
