package components

import (
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/pkg/clock"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/usecase/commands"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewBookingCommands,
		commands.NewGiftcardCommands,
		commands.NewExpirySweeper,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewAvailabilityQueries,
		queries.NewBookingQueries,
		queries.NewGiftcardQueries,
		queries.NewScheduleQueries,
	),
)
