// Package devbackend is an in-memory stand-in for the SAMARTH REST API. It
// serves the endpoints the console consumes, for local development and
// end-to-end tests.
package devbackend

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// Options configures a Server.
type Options struct {
	Secret       string
	TokenTTL     time.Duration
	SeedPassword string
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Server bundles the store, token issuer and routes.
type Server struct {
	store    *Store
	tokens   tokenIssuer
	validate *validator.Validate
	log      zerolog.Logger
}

func New(opts Options, log zerolog.Logger) (*Server, error) {
	if opts.Secret == "" {
		return nil, errors.New("devbackend: secret is required")
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 30 * time.Minute
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	store, err := NewStore(opts.SeedPassword)
	if err != nil {
		return nil, fmt.Errorf("devbackend: %w", err)
	}
	store.now = opts.Now

	return &Server{
		store:    store,
		tokens:   tokenIssuer{secret: []byte(opts.Secret), ttl: opts.TokenTTL, now: opts.Now},
		validate: newValidator(),
		log:      log,
	}, nil
}

// Store exposes the backing state, mainly for tests.
func (s *Server) Store() *Store {
	return s.store
}

// Router builds the Echo instance with every /api/v1 route registered.
func (s *Server) Router() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.errorHandler

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType},
	}))

	v1 := e.Group("/api/v1")
	v1.POST("/auth/token", s.issueToken)

	authed := v1.Group("", auth(s.tokens, s.store))

	// --- Users ---
	authed.GET("/auth/users/", s.listUsers, requireRole(RoleSuperAdmin, RoleAdmin))
	authed.POST("/auth/users/", s.createUser)
	authed.DELETE("/auth/users/:id", s.deleteUser, requireRole(RoleSuperAdmin))

	// --- Dashboard ---
	authed.GET("/dashboard/stats", s.stats)

	// --- Inventory ---
	authed.GET("/inventory/", s.listInventory)
	authed.POST("/inventory/", s.createInventory)
	authed.DELETE("/inventory/:id", s.deleteInventory)
	authed.POST("/inventory/audit-export", s.auditExport)
	authed.GET("/inventory/utilization", s.utilization)

	// --- Training ---
	authed.GET("/training/", s.listTrainings)
	authed.POST("/training/", s.createTraining, requireRole(RoleSuperAdmin, RoleAdmin))
	authed.DELETE("/training/:id", s.deleteTraining, requireRole(RoleSuperAdmin))

	// --- Content ---
	authed.GET("/content/", s.listContent)
	authed.POST("/content/", s.createContent, requireRole(RoleSuperAdmin, RoleAdmin))

	// --- Integration ---
	authed.POST("/integration/sync/:kind/:id", s.sync)

	return e
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// detailResponse is the backend's error envelope.
type detailResponse struct {
	Detail any `json:"detail"`
}

func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		_ = c.JSON(he.Code, detailResponse{Detail: he.Message})
		return
	}

	s.log.Error().Err(err).Str("path", c.Path()).Msg("dev backend error")
	_ = c.JSON(http.StatusInternalServerError, detailResponse{Detail: "Internal Server Error"})
}
