package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"healthrisk/internal/config"
	"healthrisk/internal/models/request_models"
	"healthrisk/pkg/utils"
)

const (
	MaxImageBytes = 10 << 20
	ocrTimeout    = 30 * time.Second
)

// ImageAnalysis is the outcome of analyzing an uploaded survey image.
type ImageAnalysis struct {
	OCRText string
	Result  PipelineResult
}

type OCRServiceInterface interface {
	Enabled() bool
	Provider() string
	ExtractText(ctx context.Context, image []byte, mimeType string) (string, error)
	AnalyzeImage(ctx context.Context, image []byte, mimeType string, opts request_models.AnalyzeOptions) (*ImageAnalysis, error)
}

// OCRService runs text extraction ahead of the pipeline. A nil client
// means no provider is configured.
type OCRService struct {
	client   utils.OCRClientInterface
	provider string
	pipeline PipelineServiceInterface
	logger   *zap.Logger
}

func NewOCRService(cfg *config.AppConfig, client utils.OCRClientInterface, pipeline PipelineServiceInterface, logger *zap.Logger) OCRServiceInterface {
	provider := config.OCRProviderNone
	if client != nil {
		provider = cfg.OCR.Provider
	}
	return &OCRService{
		client:   client,
		provider: provider,
		pipeline: pipeline,
		logger:   logger.Named("ocr"),
	}
}

func (s *OCRService) Enabled() bool { return s.client != nil }

func (s *OCRService) Provider() string { return s.provider }

func (s *OCRService) ExtractText(ctx context.Context, image []byte, mimeType string) (string, error) {
	if s.client == nil {
		return "", utils.ErrOCRDisabled
	}
	if len(image) == 0 {
		return "", fmt.Errorf("%w: image is empty", utils.ErrInvalidRequest)
	}
	if len(image) > MaxImageBytes {
		return "", utils.ErrImageTooLarge
	}

	mimeType = strings.TrimSpace(strings.ToLower(mimeType))
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(image)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return "", fmt.Errorf("%w: unsupported content type %s", utils.ErrInvalidRequest, mimeType)
	}

	ctx, cancel := context.WithTimeout(ctx, ocrTimeout)
	defer cancel()

	start := time.Now()
	text, err := s.client.ExtractText(ctx, image, mimeType)
	if err != nil {
		s.logger.Error("ocr extraction failed", zap.String("provider", s.provider), zap.Error(err))
		return "", fmt.Errorf("%w: %v", utils.ErrOCRFailed, err)
	}
	s.logger.Debug("ocr extraction complete",
		zap.String("provider", s.provider),
		zap.Int("bytes", len(image)),
		zap.Int("chars", len(text)),
		zap.Duration("latency", time.Since(start)))

	if strings.TrimSpace(text) == "" {
		return "", utils.ErrEmptyOCRText
	}
	return text, nil
}

func (s *OCRService) AnalyzeImage(ctx context.Context, image []byte, mimeType string, opts request_models.AnalyzeOptions) (*ImageAnalysis, error) {
	text, err := s.ExtractText(ctx, image, mimeType)
	if err != nil {
		return nil, err
	}

	result := s.pipeline.Run(text, true, opts)
	if result.Success != nil {
		result.Success.OCRText = text
	}
	if result.Failure != nil {
		result.Failure.OCRText = text
	}
	return &ImageAnalysis{OCRText: text, Result: result}, nil
}
