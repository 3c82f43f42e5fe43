package bootstrap

import (
	"menucost/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	RedisModule,
	components.RepositoryModule,
	components.KVModule,
	components.UseCaseModule,
	components.WorkerModule,
	components.HandlerModule,
)
