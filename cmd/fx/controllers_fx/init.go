package controllers_fx

import (
	"go.uber.org/fx"
	"healthrisk/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewAnalysisController),
	fx.Provide(controllers.NewStageController),
	fx.Provide(controllers.NewMetaController))
