package components

import (
	"log/slog"

	"menucost/internal/domain/costing"
	"menucost/internal/infra/kv"
	"menucost/internal/pkg/clock"
	"menucost/internal/usecase"
	"menucost/internal/usecase/commands"
	"menucost/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	fx.Annotate(
		costing.NewStandardCalculator,
		fx.As(new(costing.Calculator)),
	),
	func() usecase.Seeder { return usecase.NoopSeeder{} },
	usecase.NewCascadeEngine,
	func(caches *Caches, alerts usecase.AlertNotifier, logger *slog.Logger) *usecase.Invalidator {
		return usecase.NewInvalidator(caches.Dashboard, caches.Menu, caches.Recipes, alerts, logger)
	},
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		asRecalcQueue,
		commands.NewRecalcCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		asJobStatusReader,
		queries.NewJobQueries,
		func(caches *Caches) queries.CacheAdmin {
			return queries.NewCacheAdmin([]*kv.Cache{caches.Dashboard, caches.Menu, caches.Recipes})
		},
	),
)
