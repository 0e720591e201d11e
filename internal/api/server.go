package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/chapterly/mentorhub/internal/service"
)

// Services bundles everything the route handlers call into.
type Services struct {
	Terms       *service.TermService
	Assignments *service.AssignmentService
	Sessions    *service.SessionService
	Reports     *service.ReportService
	Roster      *service.RosterService
	Reasons     service.CancelReasonStore
}

type Server struct {
	app    *echo.Echo
	addr   string
	logger *zap.Logger
}

func NewServer(addr string, svcs Services, logger *zap.Logger) *Server {
	s := &Server{
		app:    echo.New(),
		addr:   addr,
		logger: logger,
	}

	s.app.HideBanner = true
	s.app.Validator = newRequestValidator()
	s.app.HTTPErrorHandler = newHTTPErrorHandler(logger)
	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(middleware.Recover())

	h := &handlers{svcs: svcs}
	h.register(s.app)

	return s
}

// Handler exposes the underlying mux for tests.
func (s *Server) Handler() http.Handler {
	return s.app
}

func (s *Server) Start() error {
	s.logger.Info("starting http server", zap.String("addr", s.addr))
	if err := s.app.Start(s.addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}
