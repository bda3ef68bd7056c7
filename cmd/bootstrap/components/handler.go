package components

import (
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/handler"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/handler/api"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAvailabilityHandler,
		api.NewBookingHandler,
		api.NewGiftcardHandler,
		api.NewScheduleHandler,
		middleware.NewStaffAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
