package main

import (
	"context"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/indigo-web/microserve/config"
	"github.com/indigo-web/microserve/internal/metrics"
	"github.com/indigo-web/microserve/internal/server"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

const envPrefix = "MICROSERVE_"

type environment struct {
	Addr                 string        `env:"ADDR" envDefault:"0.0.0.0:8080"`
	Debug                bool          `env:"DEBUG"`
	ReadTimeout          time.Duration `env:"READ_TIMEOUT" envDefault:"1s"`
	BodyTimeout          time.Duration `env:"BODY_TIMEOUT" envDefault:"5s"`
	GrowBody             bool          `env:"GROW_BODY"`
	MaxBodySize          int           `env:"MAX_BODY_SIZE" envDefault:"65536"`
	MaxLineSize          int           `env:"MAX_LINE_SIZE" envDefault:"8192"`
	UploadBufferSize     int           `env:"UPLOAD_BUFFER_SIZE" envDefault:"2048"`
	RejectUnknownMethods bool          `env:"REJECT_UNKNOWN_METHODS"`
	UploadDir            string        `env:"UPLOAD_DIR" envDefault:"uploads"`
	MetricsAddr          string        `env:"METRICS_ADDR" envDefault:"127.0.0.1:9090"`
}

// apply overrides the defaults with what was set in the environment.
func (e environment) apply(cfg *config.Config) *config.Config {
	cfg.Debug = e.Debug
	cfg.NET.ReadTimeout = e.ReadTimeout
	cfg.Body.ReadTimeout = e.BodyTimeout
	cfg.Body.MaxSize = e.MaxBodySize
	cfg.NET.MaxLineSize = e.MaxLineSize
	cfg.Form.UploadBufferSize = e.UploadBufferSize

	if e.GrowBody {
		cfg.Body.Strategy = config.Grow
	}

	if e.RejectUnknownMethods {
		cfg.Methods.UnknownPolicy = config.Reject
	}

	return cfg
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)

	logHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	logger := slog.New(logHandler)

	if err := godotenv.Load(); err != nil {
		logger.Warn("no .env file found, using environment variables")
	}

	var e environment
	if err := env.ParseWithOptions(&e, env.Options{Prefix: envPrefix}); err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cfg := e.apply(config.Default())
	storage, err := newUploads(e.UploadDir, logger)
	if err != nil {
		logger.Error("failed to prepare upload directory", slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv := server.New(cfg, newRouter(storage), slog.NewLogLogger(logHandler, slog.LevelDebug), "User-Agent").
		WithMetrics(metrics.New(prometheus.DefaultRegisterer, ""))
	if err = srv.Bind(e.Addr); err != nil {
		logger.Error("failed to bind", slog.String("error", err.Error()))
		os.Exit(1)
	}

	g.Go(func() error {
		defer cancel()
		logger.Info("listening", slog.String("addr", e.Addr))
		return srv.Listen()
	})

	if len(e.MetricsAddr) > 0 {
		startMetricsServer(ctx, g, e.MetricsAddr, logger)
	}

	g.Go(func() error {
		defer srv.Stop()
		return stopSignalHandler(ctx, cancel, logger)
	})

	err = g.Wait()
	srv.Wait()
	_ = srv.Close()

	if err != nil {
		logger.Error(fmt.Sprintf("microserve terminated with error: %s", err))
	} else {
		logger.Info("microserve stopped")
	}
}

// startMetricsServer exposes the Prometheus metrics until the context is done.
func startMetricsServer(ctx context.Context, g *errgroup.Group, addr string, logger *slog.Logger) {
	mux := nethttp.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &nethttp.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		logger.Info("starting metrics server", slog.String("address", addr))
		if err := srv.ListenAndServe(); err != nil && err != nethttp.ErrServerClosed {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		return srv.Close()
	})
}

func stopSignalHandler(ctx context.Context, cancel context.CancelFunc, logger *slog.Logger) error {
	c := make(chan os.Signal, 2)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-c:
		logger.Info("received shutdown signal")
		cancel()
		return nil
	case <-ctx.Done():
		return nil
	}
}
