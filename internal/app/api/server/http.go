package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/emberhill/storefront/docs"
	"github.com/emberhill/storefront/internal/app/api/handlers"
	mw "github.com/emberhill/storefront/internal/app/api/middleware"
	"github.com/emberhill/storefront/internal/app/service/address"
	"github.com/emberhill/storefront/internal/app/service/cart"
	"github.com/emberhill/storefront/internal/app/service/category"
	"github.com/emberhill/storefront/internal/app/service/order"
	"github.com/emberhill/storefront/internal/app/service/payment"
	"github.com/emberhill/storefront/internal/app/service/product"
	"github.com/emberhill/storefront/internal/app/service/signature"
	"github.com/emberhill/storefront/internal/app/service/user"
	"github.com/emberhill/storefront/internal/app/service/webhooksub"
	cfgpkg "github.com/emberhill/storefront/pkg/config"
	metrics "github.com/emberhill/storefront/pkg/metrics"
)

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	// Tracing only; request logger & access log are attached per group in registerRoutes
	r.Use(mw.TraceMiddleware())
	return r
}

func newPrometheus(log *zap.SugaredLogger) *metrics.Prometheus {
	return metrics.NewPrometheus(metrics.NewPrometheusOptions{
		URLLabelMappingFn: func(c *gin.Context) string {
			if fp := c.FullPath(); fp != "" {
				return fp
			}
			return c.Request.URL.Path
		},
		Logger: log,
	})
}

type routeDeps struct {
	fx.In

	Engine    *gin.Engine
	Log       *zap.SugaredLogger
	Cfg       *cfgpkg.Config
	Metrics   *metrics.Prometheus
	Tokens    *user.TokenIssuer
	Users     *user.Service
	Products  *product.Service
	Cats      *category.Service
	Carts     *cart.Service
	Addrs     *address.Service
	Orders    *order.Service
	Subs      *webhooksub.Service
	Verifier  *signature.Verifier
	Reconcile *payment.Reconciler
}

func registerRoutes(d routeDeps) {
	r, log, cfg := d.Engine, d.Log, d.Cfg

	if cfg != nil && cfg.MetricsAddr != "" {
		d.Metrics.SetListenAddress(cfg.MetricsAddr)
		d.Metrics.Use(r)
		log.Infow("metrics started", "addr", cfg.MetricsAddr)
	}

	// Public group: request logger + access log
	pub := r.Group("/")
	pub.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())
	handlers.RegisterHealthRoutes(pub)
	handlers.RegisterAuthRoutes(pub.Group("/api/v1"), d.Users)
	handlers.RegisterProductRoutes(pub.Group("/api/v1"), d.Products)
	handlers.RegisterCategoryRoutes(pub.Group("/api/v1"), d.Cats)
	if cfg != nil && cfg.Uploads.Dir != "" {
		pub.Static("/uploads", cfg.Uploads.Dir)
	}

	// Swagger UI
	docs.SwaggerInfo.BasePath = "/"
	pub.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Provider webhook: raw body, no auth (signature is the auth)
	payments := r.Group("/api/payments")
	payments.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())
	handlers.RegisterPaymentWebhookRoutes(payments, d.Verifier, d.Reconcile, log)

	// Authenticated APIs
	apiV1 := r.Group("/api/v1")
	apiV1.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware(), mw.AuthRequired(d.Tokens))
	handlers.RegisterUserRoutes(apiV1, d.Users)
	handlers.RegisterCartRoutes(apiV1, d.Carts)
	handlers.RegisterAddressRoutes(apiV1, d.Addrs)
	handlers.RegisterOrderRoutes(apiV1, d.Orders)

	// Admin APIs
	admin := apiV1.Group("/admin")
	admin.Use(mw.AdminRequired())
	handlers.RegisterAdminUserRoutes(admin, d.Users)
	handlers.RegisterAdminProductRoutes(admin, d.Products, cfg)
	handlers.RegisterAdminCategoryRoutes(admin, d.Cats)
	handlers.RegisterAdminOrderRoutes(admin, d.Orders)
	handlers.RegisterAdminWebhookRoutes(admin, d.Subs)
}

func runServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, r *gin.Engine) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting HTTP server", "addr", addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Errorf("server error: %v", err)
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, 120*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(newEngine),
	fx.Provide(newPrometheus),
	fx.Invoke(registerRoutes),
	fx.Invoke(runServer),
)
