package server

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/samber/do"
	"github.com/shiftgate/shiftgate/internal/config"
	"github.com/shiftgate/shiftgate/internal/metrics"
	"github.com/shiftgate/shiftgate/internal/notify"
	"github.com/shiftgate/shiftgate/internal/provider"
	"github.com/shiftgate/shiftgate/internal/repository"
	"github.com/shiftgate/shiftgate/internal/rollout"
	"github.com/shiftgate/shiftgate/internal/router"
	"github.com/shiftgate/shiftgate/internal/sampler"
	"github.com/shiftgate/shiftgate/internal/server/routes"
	"github.com/shiftgate/shiftgate/internal/usecase"
	"gorm.io/gorm"
)

type Config struct {
	App    config.Config
	Logger zerolog.Logger
}

type Server struct {
	e      *echo.Echo
	config *Config
}

func New(cfg *Config) *Server {
	e := echo.New()
	e.HidePort = true
	e.HideBanner = true
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogRemoteIP:  true,
		LogHost:      true,
		LogMethod:    true,
		LogURI:       true,
		LogUserAgent: true,
		LogStatus:    true,
		LogLatency:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			cfg.Logger.Info().
				Str("remote_ip", v.RemoteIP).
				Str("host", v.Host).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("user_agent", v.UserAgent).
				Int("status", v.Status).
				Int64("latency_ms", v.Latency.Milliseconds()).
				Msg("handled request")
			return nil
		},
	}))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			cfg.Logger.Error().Err(err).Bytes("stack", stack).Send()
			return err
		},
	}))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ctx := cfg.Logger.WithContext(req.Context())
			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	})

	s := &Server{e: e, config: cfg}
	s.init()
	return s
}

func (s *Server) init() {
	injector := do.New()
	s.injectDependencies(injector)
	s.registerRoutes(injector)
}

func (s *Server) injectDependencies(injector *do.Injector) {
	app := s.config.App
	log := s.config.Logger

	do.ProvideValue(injector, app)
	do.Provide(injector, func(i *do.Injector) (*gorm.DB, error) {
		return repository.NewSQLiteDB(filepath.Join(app.DataDir, "shiftgate.db"))
	})
	do.Provide(injector, func(i *do.Injector) (repository.DeploymentRepository, error) {
		return repository.NewDeploymentRepository(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(injector, func(i *do.Injector) (repository.TransitionRepository, error) {
		return repository.NewTransitionRepository(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(injector, func(i *do.Injector) (*provider.DockerProvider, error) {
		return provider.NewDockerProvider(log)
	})
	do.Provide(injector, func(i *do.Injector) (*router.FileRouter, error) {
		return router.NewFileRouter(app.RouterDir, log)
	})
	do.Provide(injector, func(i *do.Injector) (*sampler.PromSource, error) {
		return sampler.NewPromSource(app.Prometheus.URL, app.Prometheus.Queries, log), nil
	})
	do.Provide(injector, func(i *do.Injector) (*notify.LogNotifier, error) {
		return notify.NewLogNotifier(log, app.NotifyBuffer), nil
	})
	do.Provide(injector, func(i *do.Injector) (*metrics.Collector, error) {
		return metrics.NewCollector(), nil
	})
	do.Provide(injector, func(i *do.Injector) (*rollout.Orchestrator, error) {
		return rollout.New(rollout.Config{
			Provider:     do.MustInvoke[*provider.DockerProvider](i),
			Router:       do.MustInvoke[*router.FileRouter](i),
			Metrics:      do.MustInvoke[*sampler.PromSource](i),
			Notifier:     do.MustInvoke[*notify.LogNotifier](i),
			Deployments:  do.MustInvoke[repository.DeploymentRepository](i),
			Transitions:  do.MustInvoke[repository.TransitionRepository](i),
			Strategies:   rollout.NewRegistry(),
			Collector:    do.MustInvoke[*metrics.Collector](i),
			PollInterval: app.PollInterval.Std(),
			Logger:       log,
		}), nil
	})
	do.Provide(injector, usecase.NewStartDeploymentUsecase)
	do.Provide(injector, usecase.NewGetDeploymentUsecase)
	do.Provide(injector, usecase.NewListDeploymentsUsecase)
	do.Provide(injector, usecase.NewGetTransitionsUsecase)
	do.Provide(injector, usecase.NewAbortDeploymentUsecase)
}

func (s *Server) registerRoutes(injector *do.Injector) {
	routes.RegisterRestAPI(injector, s.e)
	routes.RegisterMisc(injector, s.e)
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.App.Port)
	s.config.Logger.Info().Str("addr", addr).Msg("starting server")
	return s.e.Start(addr)
}

func (s *Server) Stop(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}
