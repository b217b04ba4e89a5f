package payment

import (
	"go.uber.org/fx"

	"github.com/emberhill/storefront/internal/app/service/order"
	"github.com/emberhill/storefront/internal/app/service/product"
)

// Module exposes the webhook reconciler via Fx, binding its persistence and
// inventory dependencies to the concrete order and product services.
var Module = fx.Options(
	fx.Provide(func(s *order.Service) OrderStore { return s }),
	fx.Provide(func(s *product.Service) StockReturner { return s }),
	fx.Provide(NewReconciler),
)
