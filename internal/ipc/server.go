package ipc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/talhahasanzia/entrifi/internal/boundary"
	"github.com/talhahasanzia/entrifi/internal/logging"
	"github.com/talhahasanzia/entrifi/internal/metrics"
	"github.com/talhahasanzia/entrifi/internal/window"
)

// CorrelationHeader carries the caller's correlation ID. The server
// generates one when it is absent.
const CorrelationHeader = "X-Correlation-ID"

// maxPayloadBytes bounds a single request body.
const maxPayloadBytes = 4 << 20

// WindowState is the response data of the /window routes.
type WindowState struct {
	ID      string `json:"id,omitempty"`
	Title   string `json:"title,omitempty"`
	State   string `json:"state"`
	Created bool   `json:"created,omitempty"`
}

// ServerConfig wires a Server.
type ServerConfig struct {
	Dispatcher *boundary.Dispatcher
	Windows    *window.Manager

	// Registry is served on /metrics when set.
	Registry *prometheus.Registry
	Metrics  *metrics.Boundary
	Logger   *slog.Logger
}

// Server is the host's request surface.
type Server struct {
	echo       *echo.Echo
	dispatcher *boundary.Dispatcher
	windows    *window.Manager
	metrics    *metrics.Boundary
	logger     *slog.Logger
}

// NewServer creates a Server with its routes registered.
func NewServer(cfg ServerConfig) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.Handler = e

	s := &Server{
		echo:       e,
		dispatcher: cfg.Dispatcher,
		windows:    cfg.Windows,
		metrics:    cfg.Metrics,
		logger:     cfg.Logger,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	s.registerRoutes(cfg.Registry)
	return s
}

func (s *Server) registerRoutes(reg *prometheus.Registry) {
	s.echo.Use(correlationMiddleware)
	s.echo.Use(s.requestLogger())
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.BodyLimit(fmt.Sprintf("%dB", maxPayloadBytes)))

	s.echo.POST("/invoke/:channel", s.handleInvoke)

	s.echo.POST("/window/focus", s.handleFocus)
	s.echo.POST("/window/open", s.handleOpen)
	s.echo.POST("/window/close", s.handleClose)

	if reg != nil {
		s.echo.GET("/metrics", echo.WrapHandler(metrics.Handler(reg)))
	}
}

func correlationMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Request().Header.Get(CorrelationHeader)
		if id == "" {
			id = logging.NewCorrelationID()
		}
		ctx := logging.WithCorrelationID(c.Request().Context(), id)
		c.SetRequest(c.Request().WithContext(ctx))
		c.Response().Header().Set(CorrelationHeader, id)
		return next(c)
	}
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			s.logger.DebugContext(c.Request().Context(), "request", attrs...)
			return nil
		},
	})
}

func (s *Server) handleInvoke(c echo.Context) error {
	channel := c.Param("channel")

	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, boundary.Fail(fmt.Errorf("read payload: %w", err)))
	}

	env, found := s.dispatcher.Invoke(c.Request().Context(), channel, json.RawMessage(payload))
	if !found {
		return c.JSON(http.StatusNotFound, env)
	}
	return c.JSON(http.StatusOK, env)
}

func (s *Server) handleFocus(c echo.Context) error {
	s.metrics.ObserveFocusRequest()

	if !s.windows.FocusIfExists() {
		s.logger.InfoContext(c.Request().Context(), "focus requested with no active window")
		return c.JSON(http.StatusOK, boundary.Fail(window.ErrNoActiveSurface))
	}
	return c.JSON(http.StatusOK, boundary.OKData(s.windowState(false)))
}

func (s *Server) handleOpen(c echo.Context) error {
	_, created, err := s.windows.GetOrCreate(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusOK, boundary.Fail(err))
	}
	return c.JSON(http.StatusOK, boundary.OKData(s.windowState(created)))
}

func (s *Server) handleClose(c echo.Context) error {
	if err := s.windows.Close(); err != nil {
		return c.JSON(http.StatusOK, boundary.Fail(err))
	}
	return c.JSON(http.StatusOK, boundary.OKData(s.windowState(false)))
}

func (s *Server) windowState(created bool) WindowState {
	st := WindowState{State: s.windows.State().String(), Created: created}
	if w, ok := s.windows.Active(); ok {
		st.ID = w.ID()
		st.Title = w.Title()
	}
	return st
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Serve accepts connections on l until Shutdown. It returns nil after a
// clean shutdown.
func (s *Server) Serve(l net.Listener) error {
	s.logger.Info("serving boundary", "addr", l.Addr().String())
	if err := s.echo.Server.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
