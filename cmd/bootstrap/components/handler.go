package components

import (
	"menucost/internal/handler"
	"menucost/internal/handler/api"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewRecalcHandler,
		api.NewCacheAdminHandler,
	),
	fx.Invoke(handler.NewRouter),
)
