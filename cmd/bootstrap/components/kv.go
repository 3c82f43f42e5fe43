package components

import (
	"log/slog"

	"menucost/internal/infra/kv"
	"menucost/internal/pkg/clock"
	"menucost/internal/pkg/config"
	"menucost/internal/usecase"
	"menucost/internal/usecase/commands"
	"menucost/internal/usecase/queries"
	"menucost/internal/worker"

	"go.uber.org/fx"
)

// Caches groups the per-namespace cache instances. Each namespace has its
// own invalidation granularity; they share one Redis connection.
type Caches struct {
	Dashboard *kv.Cache
	Menu      *kv.Cache
	Recipes   *kv.Cache
}

var KVModule = fx.Module("kv",
	fx.Provide(
		NewCaches,
		NewQueue,
		fx.Annotate(
			NewAlertPublisher,
			fx.As(new(usecase.AlertNotifier)),
		),
	),
)

func NewCaches(client kv.Client, cfg config.Config, logger *slog.Logger) *Caches {
	return &Caches{
		Dashboard: kv.NewCache(client, "dashboard", cfg.Cache, logger),
		Menu:      kv.NewCache(client, "menu", cfg.Cache, logger),
		Recipes:   kv.NewCache(client, "recipes", cfg.Cache, logger),
	}
}

func NewQueue(client kv.Client, cfg config.Config, clk clock.Clock, logger *slog.Logger) *kv.Queue {
	return kv.NewQueue(client, cfg.Queue, clk, logger)
}

func NewAlertPublisher(client kv.Client, cfg config.Config, logger *slog.Logger) *kv.AlertPublisher {
	return kv.NewAlertPublisher(client, cfg.Redis.AlertChannel, logger)
}

func asRecalcQueue(q *kv.Queue) commands.RecalcQueue { return q }

func asJobStatusReader(q *kv.Queue) queries.JobStatusReader { return q }

func asJobSource(q *kv.Queue) worker.JobSource { return q }
