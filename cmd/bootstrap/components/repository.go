package components

import (
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/infra/db"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/infra/readstore"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/infra/uow"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/usecase/queries"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewDBTX,
		uow.NewPostgresUoW,
		func(u shared.UnitOfWork) shared.CommandReads { return u.CommandReads() },
		// Read-side stores for queries
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(queries.BookingReadStore)),
		),
		fx.Annotate(
			readstore.NewScheduleReadStore,
			fx.As(new(queries.ScheduleReadStore)),
		),
		fx.Annotate(
			readstore.NewGiftcardReadStore,
			fx.As(new(queries.GiftcardReadStore)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
