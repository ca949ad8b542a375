package main

import (
	"fmt"
	"net/http"

	"github.com/erp/dashboard/internal/application/auth"
	inventoryapp "github.com/erp/dashboard/internal/application/inventory"
	ledgerapp "github.com/erp/dashboard/internal/application/ledger"
	procurementapp "github.com/erp/dashboard/internal/application/procurement"
	"github.com/erp/dashboard/internal/domain/identity"
	"github.com/erp/dashboard/internal/infrastructure/backend"
	"github.com/erp/dashboard/internal/infrastructure/cache"
	"github.com/erp/dashboard/internal/infrastructure/config"
	"github.com/erp/dashboard/internal/infrastructure/logger"
	"github.com/erp/dashboard/internal/infrastructure/session"
	"github.com/erp/dashboard/internal/infrastructure/telemetry"
	"github.com/erp/dashboard/internal/interfaces/http/handler"
	"github.com/erp/dashboard/internal/interfaces/http/middleware"
	"github.com/erp/dashboard/internal/interfaces/http/router"
	"github.com/erp/dashboard/internal/interfaces/http/view"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// engineDeps are the long-lived resources the HTTP engine is built on
type engineDeps struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *telemetry.DashboardMetrics
	// Meter backs the HTTP server instruments; nil leaves requests unmetered
	Meter   metric.Meter
	Stores  *cache.Stores
	Version string
	// HTTPClient overrides the backend client's transport, used by tests
	HTTPClient *http.Client
}

// newEngine assembles services, handlers and routes. The returned stop
// function releases background workers owned by the engine.
func newEngine(deps engineDeps) (*gin.Engine, func(), error) {
	cfg := deps.Config
	log := deps.Logger

	clientOpts := []backend.Option{backend.WithMetrics(deps.Metrics), backend.WithLogger(log)}
	if deps.HTTPClient != nil {
		clientOpts = append(clientOpts, backend.WithHTTPClient(deps.HTTPClient))
	}
	gateway, err := backend.NewClient(backend.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
		MePath:  cfg.Backend.MePath,
	}, clientOpts...)
	if err != nil {
		return nil, nil, fmt.Errorf("creating backend client: %w", err)
	}

	var revocations session.Revocations
	if deps.Stores.Client != nil {
		revocations = session.NewRedisRevocations(deps.Stores.Client)
	} else {
		revocations = session.NewInMemoryRevocations()
	}
	sessions := session.NewManager(session.NewCodec(session.Config{
		CookieName: cfg.Session.CookieName,
		Secret:     cfg.Session.Secret,
		TTL:        cfg.Session.TTL,
		Domain:     cfg.Session.Domain,
		Path:       cfg.Session.Path,
		Secure:     cfg.Session.Secure,
		SameSite:   session.ParseSameSite(cfg.Session.SameSite),
	}), revocations, log)

	// Application services
	authService := auth.NewService(gateway, deps.Stores.Preferences, identity.NewGuard(cfg.Backend.Timeout), deps.Metrics, log)
	creditorService := ledgerapp.NewCreditorService(gateway, deps.Metrics, log)
	receivableService := ledgerapp.NewReceivableService(gateway, deps.Metrics, log)
	thresholdService := inventoryapp.NewThresholdService(gateway, deps.Metrics, log)
	procurementService := procurementapp.NewService(gateway, deps.Stores.Decisions, cfg.Dashboard.ApproverName, deps.Metrics, log)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, sessions)
	creditorHandler := handler.NewCreditorHandler(creditorService)
	receivableHandler := handler.NewReceivableHandler(receivableService)
	thresholdHandler := handler.NewThresholdHandler(thresholdService)
	procurementHandler := handler.NewProcurementHandler(procurementService)
	systemHandler := handler.NewSystemHandler(deps.Version)

	templates, err := view.Templates(view.NewFormatter(cfg.Dashboard.CurrencySymbol, cfg.Dashboard.Language))
	if err != nil {
		return nil, nil, fmt.Errorf("parsing page templates: %w", err)
	}

	engine := gin.New()
	// Supplier names may contain an escaped slash
	engine.UseRawPath = true
	engine.SetHTMLTemplate(templates)

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			return nil, nil, fmt.Errorf("setting trusted proxies: %w", err)
		}
	} else {
		_ = engine.SetTrustedProxies(nil)
	}

	// Middleware order:
	// 1. RequestID - tags every request and response
	// 2. Tracing - opens the server span the rest of the chain runs in
	// 3. Recovery - turns panics into 500s
	// 4. Logger - logs each request with its request ID
	// 5. Secure/CORS/BodyLimit - response headers and input bounds
	// 6. SpanErrorMarker - flags 4xx/5xx spans
	engine.Use(middleware.RequestID())
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log, "/health"))
	engine.Use(middleware.HTTPMetricsWithMeter(deps.Meter, cfg.Telemetry.Enabled, log))

	securityConfig := middleware.DefaultSecurityConfig()
	securityConfig.HSTSEnabled = cfg.IsProduction()
	engine.Use(middleware.SecureWithConfig(securityConfig))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.SpanErrorMarker())

	loginLimit := func(c *gin.Context) { c.Next() }
	stop := func() {}
	if cfg.HTTP.LoginRateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.LoginRateLimitRequests, cfg.HTTP.LoginRateLimitWindow)
		loginLimit = middleware.RateLimit(limiter)
		stop = limiter.Stop
		log.Info("Login rate limiting enabled",
			zap.Int("requests", cfg.HTTP.LoginRateLimitRequests),
			zap.Duration("window", cfg.HTTP.LoginRateLimitWindow),
		)
	}

	guard := func(onDenied gin.HandlerFunc) gin.HandlerFunc {
		return middleware.SessionGuard(middleware.SessionGuardConfig{
			Authorizer: authService,
			Sessions:   sessions,
			OnDenied:   onDenied,
			Logger:     log,
		})
	}
	pageGuard := guard(middleware.RedirectToLogin(handler.LoginPath))
	apiGuard := guard(middleware.RejectUnauthorized)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Pages
	public := router.NewDomainGroup("")
	public.GET("/", systemHandler.Home)
	public.GET("/health", systemHandler.Health)
	public.GET(handler.LoginPath, authHandler.LoginPage)
	public.POST(handler.LoginPath, loginLimit, authHandler.Login)
	public.POST("/logout", authHandler.Logout)

	dashboard := router.NewDomainGroup("/dashboard")
	dashboard.Use(pageGuard, middleware.TracingAttributeInjector())
	dashboard.GET("", func(c *gin.Context) {
		c.Redirect(http.StatusFound, handler.HomePath)
	})
	dashboard.GET("/creditors", creditorHandler.Page)
	dashboard.POST("/creditors", creditorHandler.AddForm)
	dashboard.POST("/creditors/settle", creditorHandler.SettleForm)
	dashboard.GET("/receivables", receivableHandler.Page)
	dashboard.POST("/receivables/payments", receivableHandler.PaymentForm)
	dashboard.GET("/thresholds", thresholdHandler.Page)
	dashboard.POST("/thresholds", thresholdHandler.SaveForm)
	dashboard.GET("/procurement", procurementHandler.Page)
	dashboard.POST("/procurement", procurementHandler.AddForm)
	dashboard.POST("/procurement/approve", procurementHandler.ApproveForm)
	dashboard.POST("/procurement/reject", procurementHandler.RejectForm)

	r.RegisterPages(public).RegisterPages(dashboard)

	// API
	authRoutes := router.NewDomainGroup("/auth")
	authRoutes.POST("/login", loginLimit, authHandler.APILogin)
	authRoutes.POST("/logout", authHandler.APILogout)
	authRoutes.GET("/me", authHandler.Me)

	systemRoutes := router.NewDomainGroup("/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)

	creditorRoutes := router.NewDomainGroup("/creditors")
	creditorRoutes.Use(apiGuard, middleware.TracingAttributeInjector())
	creditorRoutes.GET("", creditorHandler.List)
	creditorRoutes.POST("", creditorHandler.Create)
	creditorRoutes.POST("/:supplier/settlements", creditorHandler.Settle)

	receivableRoutes := router.NewDomainGroup("/receivables")
	receivableRoutes.Use(apiGuard, middleware.TracingAttributeInjector())
	receivableRoutes.GET("", receivableHandler.List)
	receivableRoutes.POST("/:id/payments", receivableHandler.RecordPayment)

	thresholdRoutes := router.NewDomainGroup("/thresholds")
	thresholdRoutes.Use(apiGuard, middleware.TracingAttributeInjector())
	thresholdRoutes.GET("", thresholdHandler.List)
	thresholdRoutes.GET("/summary", thresholdHandler.Summary)
	thresholdRoutes.PUT("/:id", thresholdHandler.Update)

	procurementRoutes := router.NewDomainGroup("/procurement")
	procurementRoutes.Use(apiGuard, middleware.TracingAttributeInjector())
	procurementRoutes.GET("", procurementHandler.List)
	procurementRoutes.POST("", procurementHandler.Create)
	procurementRoutes.POST("/:id/approve", procurementHandler.Approve)
	procurementRoutes.POST("/:id/reject", procurementHandler.Reject)

	r.Register(authRoutes).
		Register(systemRoutes).
		Register(creditorRoutes).
		Register(receivableRoutes).
		Register(thresholdRoutes).
		Register(procurementRoutes)

	r.Setup()
	engine.NoRoute(systemHandler.NotFound)

	return engine, stop, nil
}
