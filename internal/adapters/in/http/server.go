package http

import (
	"net/http"
	"time"

	"laundry/internal/core/domain/model/access"
	"laundry/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// Server wires the /api routes to their handlers.
type Server struct {
	orders      *OrderHandlers
	routes      *RouteHandlers
	invoices    *InvoiceHandlers
	verifier    *TokenVerifier
	corsOrigins []string
	logger      zerolog.Logger
}

func NewServer(
	orders *OrderHandlers,
	routes *RouteHandlers,
	invoices *InvoiceHandlers,
	verifier *TokenVerifier,
	corsOrigins []string,
	logger zerolog.Logger,
) *Server {
	return &Server{
		orders:      orders,
		routes:      routes,
		invoices:    invoices,
		verifier:    verifier,
		corsOrigins: corsOrigins,
		logger:      logger,
	}
}

// Echo builds the HTTP handler with middleware, validation and routes.
func (s *Server) Echo() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewRequestValidator()
	e.HTTPErrorHandler = ErrorHandler(s.logger)

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     s.corsOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
	}))
	e.Use(s.requestLogger())

	s.Register(e)
	return e
}

// Register mounts every route under /api.
func (s *Server) Register(e *echo.Echo) {
	api := e.Group("/api")
	auth := Authenticate(s.verifier)

	api.GET("/health", Health)
	api.GET("/health/admin", Health, auth, RequireRoles(access.Admin))

	orders := api.Group("/orders", auth)
	orders.POST("", s.orders.Create, RequireRoles(access.Admin, access.Staff, access.Client))
	orders.GET("", s.orders.List)
	orders.GET("/:id", s.orders.Get)
	orders.PUT("/:id", s.orders.Update, RequireRoles(access.Admin, access.Staff))
	orders.PATCH("/:id/status", s.orders.UpdateStatus, RequireRoles(access.Admin, access.Staff))
	orders.PATCH("/:id/pickup", s.orders.ConfirmPickup, RequireRoles(access.Driver, access.Admin))
	orders.PATCH("/:id/receive", s.orders.ReceiveAtFacility, RequireRoles(access.Staff, access.Admin))
	orders.PATCH("/:id/deliver", s.orders.ConfirmDelivery, RequireRoles(access.Driver, access.Admin))
	orders.DELETE("/:id", s.orders.Delete, RequireRoles(access.Admin))

	routes := api.Group("/routes", auth)
	routes.POST("", s.routes.Create, RequireRoles(access.Admin, access.Staff))
	routes.GET("", s.routes.List)
	routes.GET("/:id", s.routes.Get)
	routes.PUT("/:id", s.routes.Update, RequireRoles(access.Admin, access.Staff))
	routes.PATCH("/:id/status", s.routes.UpdateStatus, RequireRoles(access.Admin, access.Staff, access.Driver))
	routes.DELETE("/:id", s.routes.Delete, RequireRoles(access.Admin))

	invoices := api.Group("/invoices", auth)
	invoices.POST("", s.invoices.Create, RequireRoles(access.Admin, access.Staff))
	invoices.GET("", s.invoices.List)
	invoices.POST("/mark-overdue", s.invoices.MarkOverdue, RequireRoles(access.Admin))
	invoices.GET("/:id", s.invoices.Get)
	invoices.POST("/:id/payments", s.invoices.RecordPayment, RequireRoles(access.Admin, access.Staff))
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			event := s.logger.Info()
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				event = s.logger.Warn().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency.Round(time.Microsecond)).
				Msg("request")
			return nil
		},
	})
}

func requireActor(c echo.Context) (access.Actor, error) {
	actor, found := actorFrom(c)
	if !found {
		return access.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}
	return actor, nil
}

func actorAndID(c echo.Context) (access.Actor, kernel.UUID, error) {
	actor, err := requireActor(c)
	if err != nil {
		return access.Actor{}, kernel.UUID{}, err
	}
	id, err := pathID(c)
	if err != nil {
		return access.Actor{}, kernel.UUID{}, err
	}
	return actor, id, nil
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	return c.Validate(req)
}
