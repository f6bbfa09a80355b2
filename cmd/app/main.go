package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"healthrisk/cmd/fx/analysis_fx"
	"healthrisk/cmd/fx/config_fx"
	"healthrisk/cmd/fx/controllers_fx"
	"healthrisk/cmd/fx/logger_fx"
	"healthrisk/cmd/fx/ocr_fx"
	"healthrisk/internal/api/controllers"
	"healthrisk/internal/config"
	"healthrisk/pkg/middleware"
)

func main() {
	app := fx.New(
		config_fx.Module,
		logger_fx.Module,
		analysis_fx.Module,
		ocr_fx.Module,
		controllers_fx.Module,

		fx.Invoke(StartServer),
		fx.Provide(ProvideRouter),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, cfg *config.AppConfig, engine *gin.Engine, logger *zap.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info("Starting HTTP server", zap.String("addr", srv.Addr), zap.String("env", cfg.Environment))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal("Failed to start server", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}

func ProvideRouter(
	cfg *config.AppConfig,
	logger *zap.Logger,
	analysisController *controllers.AnalysisController,
	stageController *controllers.StageController,
	metaController *controllers.MetaController) *gin.Engine {

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.MaxMultipartMemory = 12 << 20
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger(logger.Named("http")))
	r.Use(middleware.Recovery(logger, !cfg.IsProduction()))
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	RegisterRoutes(r, analysisController, stageController, metaController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	analysisController *controllers.AnalysisController,
	stageController *controllers.StageController,
	metaController *controllers.MetaController) {

	api := r.Group("/api")

	analyzeGroup := api.Group("/analyze")
	analyzeGroup.POST("", analysisController.AnalyzeHandler)
	analyzeGroup.POST("/legacy", analysisController.LegacyAnalyzeHandler)
	analyzeGroup.POST("/image", analysisController.AnalyzeImageHandler)
	analyzeGroup.POST("/parse", stageController.ParseHandler)
	analyzeGroup.POST("/factors", stageController.FactorsHandler)
	analyzeGroup.POST("/risk", stageController.RiskHandler)
	analyzeGroup.POST("/recommendations", stageController.RecommendationsHandler)

	api.POST("/validate", metaController.ValidateHandler)
	api.GET("/schemas", metaController.SchemasHandler)
	api.GET("/fields", metaController.FieldsHandler)
	api.GET("/health", metaController.HealthHandler)
}
