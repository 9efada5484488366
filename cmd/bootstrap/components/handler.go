package components

import (
	"diamond-topup/internal/handler"
	"diamond-topup/internal/handler/api"
	"diamond-topup/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewPaymentHandler,
		api.NewOrderHandler,
		api.NewReconcileHandler,
		handler.NewHandlers,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
