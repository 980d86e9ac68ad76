package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/samarth/admin-console/docs"
	"github.com/samarth/admin-console/internal/api/handler"
	"github.com/samarth/admin-console/internal/api/middleware"
	"github.com/samarth/admin-console/internal/core/ports"
)

const (
	loginBurst        = 10
	loginLimiterTTL   = 3 * time.Minute
	defaultLoginLimit = 5
)

// Options carries everything the console router is built from.
type Options struct {
	Session ports.SessionStore
	Backend ports.Backend
	Queue   ports.SyncQueue
	Log     zerolog.Logger

	// LoginRateLimit is login submissions per second per client address.
	LoginRateLimit float64
	// Registerer receives the HTTP request metrics; nil means the default
	// Prometheus registry.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(opts Options) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}
	e.Renderer = renderer
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:                 "console",
		Registerer:                opts.Registerer,
		DoNotUseRequestPathFor404: true,
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(opts.Session, opts.Log)
	pages := pageHandlers{
		dashboard: handler.NewDashboardHandler(opts.Session, opts.Backend, opts.Log),
		inventory: handler.NewInventoryHandler(opts.Session, opts.Backend, opts.Log),
		training:  handler.NewTrainingHandler(opts.Session, opts.Backend, opts.Queue, opts.Log),
		content:   handler.NewContentHandler(opts.Session, opts.Backend, opts.Queue, opts.Log),
		users:     handler.NewUserHandler(opts.Session, opts.Backend, opts.Log),
	}
	syncHandler := handler.NewSyncHandler(opts.Queue)

	// --- Public routes ---
	e.GET("/", authHandler.Home)
	e.GET("/login", authHandler.LoginPage)
	e.POST("/login", authHandler.Login, loginRateLimiter(opts.LoginRateLimit))
	e.POST("/logout", authHandler.Logout)

	// --- Guarded pages ---
	for _, r := range pageRoutes(pages) {
		e.Add(r.method, r.path, r.handle, middleware.Guard(opts.Session, opts.Log, r.allowed...))
	}

	// --- JSON API ---
	apiGroup := e.Group("/api")
	apiGroup.GET("/session", authHandler.GetSession)
	apiGroup.POST("/session", authHandler.CreateSession, loginRateLimiter(opts.LoginRateLimit))
	apiGroup.DELETE("/session", authHandler.DeleteSession)
	apiGroup.POST("/sync/:kind/:id", syncHandler.Enqueue, middleware.RBAC(opts.Session))

	// --- API docs ---
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e, nil
}

// loginRateLimiter throttles credential submissions per client address.
func loginRateLimiter(perSecond float64) echo.MiddlewareFunc {
	if perSecond <= 0 {
		perSecond = defaultLoginLimit
	}
	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perSecond),
		Burst:     loginBurst,
		ExpiresIn: loginLimiterTTL,
	})
	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many login attempts, slow down")
		},
	})
}
