package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/emberhill/storefront/internal/app/api/server"
	"github.com/emberhill/storefront/internal/app/service/address"
	"github.com/emberhill/storefront/internal/app/service/cart"
	"github.com/emberhill/storefront/internal/app/service/category"
	"github.com/emberhill/storefront/internal/app/service/eventlog"
	"github.com/emberhill/storefront/internal/app/service/order"
	"github.com/emberhill/storefront/internal/app/service/payment"
	"github.com/emberhill/storefront/internal/app/service/product"
	"github.com/emberhill/storefront/internal/app/service/signature"
	"github.com/emberhill/storefront/internal/app/service/user"
	"github.com/emberhill/storefront/internal/app/service/webhooksub"
	"github.com/emberhill/storefront/internal/platform/db"
	"github.com/emberhill/storefront/internal/platform/mercadopago"
	"github.com/emberhill/storefront/pkg/config"
	"github.com/emberhill/storefront/pkg/logger"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	mercadopago.Module,
	eventlog.Module,
	user.Module,
	category.Module,
	webhooksub.Module,
	product.Module,
	cart.Module,
	address.Module,
	order.Module,
	signature.Module,
	payment.Module,
	server.Module,
)
