package components

import (
	"context"
	"log/slog"

	"menucost/internal/pkg/clock"
	"menucost/internal/pkg/config"
	"menucost/internal/usecase"
	"menucost/internal/worker"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		asJobSource,
		fx.Annotate(
			func(e *usecase.CascadeEngine) *usecase.CascadeEngine { return e },
			fx.As(new(worker.Engine)),
		),
		fx.Annotate(
			func(i *usecase.Invalidator) *usecase.Invalidator { return i },
			fx.As(new(worker.Coordinator)),
		),
		NewWorkerPool,
	),
	fx.Invoke(startWorkerPool),
)

func NewWorkerPool(
	source worker.JobSource,
	engine worker.Engine,
	coordinator worker.Coordinator,
	sink usecase.MetricsSink,
	cfg config.Config,
	clk clock.Clock,
	logger *slog.Logger,
) *worker.Pool {
	return worker.NewPool(source, engine, coordinator, sink, cfg.Worker, cfg.Queue, clk, logger)
}

func startWorkerPool(lc fx.Lifecycle, pool *worker.Pool) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			pool.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return pool.Stop(ctx)
		},
	})
}
