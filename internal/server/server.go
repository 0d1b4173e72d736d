package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/arenax/arenax/internal/log"
	"github.com/arenax/arenax/internal/server/api"
	"github.com/arenax/arenax/internal/server/biz"
	"github.com/arenax/arenax/internal/server/dependencies"
	"github.com/arenax/arenax/internal/server/middleware"
	"github.com/arenax/arenax/internal/tracing"
)

func New(config Config) (*Server, error) {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(middleware.Recovery())

	// nil trusts no proxy, so ClientIP is the peer address.
	if err := engine.SetTrustedProxies(config.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid server.trusted_proxies: %w", err)
	}

	return &Server{
		Config: config,
		Engine: engine,
	}, nil
}

type Server struct {
	*gin.Engine

	Config Config
	server *http.Server
	addr   string
}

func (srv *Server) Run() error {
	log.Info(context.Background(), "run server",
		log.String("name", srv.Config.Name),
		log.String("host", srv.Config.Host),
		log.Int("port", srv.Config.Port),
	)
	addr := fmt.Sprintf("%s:%d", srv.Config.Host, srv.Config.Port)
	srv.server = &http.Server{
		Addr:        addr,
		Handler:     srv.Engine,
		ReadTimeout: srv.Config.ReadTimeout,
		// No write timeout: event streams stay open until the client leaves.
	}
	srv.addr = addr

	err := srv.server.ListenAndServe()
	if err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	}

	return nil
}

func (srv *Server) Shutdown(ctx context.Context) error {
	if srv.server == nil {
		return nil
	}

	return srv.server.Shutdown(ctx)
}

func Run(opts ...fx.Option) {
	app := fx.New(
		append([]fx.Option{
			fx.NopLogger,
			fx.Provide(New),
			dependencies.Module,
			biz.Module,
			api.Module,
			fx.Invoke(setupLogging),
			fx.Invoke(SetupRoutes),
		}, opts...)...,
	)
	app.Run()
}

// setupLogging installs the configured logger for package-level log calls
// and slog users such as the executors pool.
func setupLogging(cfg log.Config) {
	log.SetGlobalConfig(cfg)
	tracing.SetupLogger(log.GetGlobalLogger())
	slog.SetDefault(log.GetGlobalLogger().AsSlog())
}
