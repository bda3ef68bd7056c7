package bootstrap

import (
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
		func(cfg config.Config) config.BookingConfig { return cfg.Booking },
		func(cfg config.Config) config.AuthConfig { return cfg.Auth },
	),
)
