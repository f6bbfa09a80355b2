package ocr_fx

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"healthrisk/internal/config"
	"healthrisk/internal/services"
	"healthrisk/pkg/utils"
)

var Module = fx.Provide(
	ProvideOCRClient,
	services.NewOCRService,
)

// ProvideOCRClient returns a nil client when no provider is configured;
// the image endpoint then answers 503.
func ProvideOCRClient(lc fx.Lifecycle, cfg *config.AppConfig, logger *zap.Logger) (utils.OCRClientInterface, error) {
	if !cfg.OCR.Enabled() {
		if cfg.OCR.Provider != config.OCRProviderNone {
			logger.Warn("ocr provider set without api key, image analysis disabled", zap.String("provider", cfg.OCR.Provider))
		}
		return nil, nil
	}

	logger.Info("initializing ocr client", zap.String("provider", cfg.OCR.Provider), zap.String("model", cfg.OCR.Model))
	client, err := utils.NewOCRClient(cfg.OCR.Provider, cfg.OCR.APIKey, cfg.OCR.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s ocr client: %w", cfg.OCR.Provider, err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	return client, nil
}
