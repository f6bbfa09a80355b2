package config_fx

import (
	"go.uber.org/fx"
	"healthrisk/internal/config"
)

var Module = fx.Provide(config.Load)
