package analysis_fx

import (
	"go.uber.org/fx"
	"healthrisk/internal/config"
	"healthrisk/internal/services"
)

var Module = fx.Provide(
	services.NewNormalizerService,
	ProvideGuardrailService,
	services.NewFactorService,
	services.NewRiskService,
	ProvideRecommendationService,
	services.NewSchemaService,
	services.NewPipelineService,
)

func ProvideGuardrailService(cfg *config.AppConfig) services.GuardrailServiceInterface {
	return services.NewGuardrailService(cfg.Thresholds)
}

func ProvideRecommendationService(cfg *config.AppConfig) services.RecommendationServiceInterface {
	return services.NewRecommendationService(cfg.Thresholds.MaxRecommendations)
}
