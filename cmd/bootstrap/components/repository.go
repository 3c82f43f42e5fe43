package components

import (
	"menucost/internal/infra/db"
	"menucost/internal/infra/readstore"
	"menucost/internal/infra/writerepo"
	"menucost/internal/usecase"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewDBTX,
		fx.Annotate(
			readstore.NewCostingReadStore,
			fx.As(new(usecase.EntityStore)),
		),
		fx.Annotate(
			writerepo.NewCostingRepository,
			fx.As(new(usecase.CostWriter)),
		),
		fx.Annotate(
			writerepo.NewObservabilityRepository,
			fx.As(new(usecase.MetricsSink)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
