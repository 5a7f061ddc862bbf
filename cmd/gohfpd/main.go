// gohfpd -- Bluetooth Hands-Free Profile core daemon.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/hfpstack/gohfp/internal/config"
	"github.com/hfpstack/gohfp/internal/hfp"
	hfpmetrics "github.com/hfpstack/gohfp/internal/metrics"
	"github.com/hfpstack/gohfp/internal/transport"
	appversion "github.com/hfpstack/gohfp/internal/version"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to configuration file (YAML)")
	adapterFlag := flag.String("adapter", "", "BlueZ adapter object path (e.g. /org/bluez/hci0); empty uses an in-memory loopback transport")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.New(slog.NewTextHandler(os.Stderr, nil)).Error("failed to load configuration",
			slog.String("error", err.Error()))
		return 1
	}

	logLevel := new(slog.LevelVar)
	logLevel.Set(config.ParseLogLevel(cfg.Log.Level))
	logger := newLoggerWithLevel(cfg.Log, logLevel)

	logger.Info("gohfpd starting",
		slog.String("version", appversion.Version),
		slog.String("metrics_addr", cfg.Metrics.Addr),
	)

	reg := prometheus.NewRegistry()
	collector := hfpmetrics.NewCollector(reg)

	rfcomm, sdp, closeTransport, err := newTransport(*adapterFlag)
	if err != nil {
		logger.Error("failed to initialize transport", slog.String("error", err.Error()))
		return 1
	}
	defer closeTransport()

	mgr := hfp.NewManager(rfcomm, sdp,
		hfp.WithStateCallback(func(change hfp.StateChange) {
			logger.Info("hfp state change",
				slog.String("peer", change.Addr.String()),
				slog.String("subtype", change.Subtype.String()),
				slog.Int("status", int(change.Status)),
			)
			collector.RecordEventEmitted(change.Addr.String(), change.Subtype.String())
		}),
	)

	if err := rfcomm.RegisterService(cfg.SDP.ChannelNr, 667); err != nil {
		logger.Error("failed to register RFCOMM service", slog.String("error", err.Error()))
		return 1
	}

	record := hfp.BuildServiceRecord(hfp.ServiceClassHandsfreeAudioGW, cfg.SDP.ChannelNr, cfg.SDP.ServiceName, cfg.SDP.SupportedFeatures)
	logger.Info("built SDP service record", slog.Int("bytes", len(record)))

	if err := runServers(cfg, mgr, reg, logger); err != nil {
		logger.Error("gohfpd exited with error", slog.String("error", err.Error()))
		return 1
	}

	logger.Info("gohfpd stopped")
	return 0
}

// newTransport selects the RFCOMM/SDP collaborator implementation: a real
// BlueZ adapter when -adapter is given, otherwise an in-memory Loopback
// suitable for demos and environments with no Bluetooth controller.
func newTransport(adapter string) (hfp.RFCOMM, hfp.SDP, func(), error) {
	if adapter == "" {
		lb := transport.NewLoopback()
		return lb, lb, func() {}, nil
	}
	bz, err := transport.NewBlueZ(dbus.ObjectPath(adapter))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to bluez adapter %s: %w", adapter, err)
	}
	return bz, bz, func() { _ = bz.Close() }, nil
}

// runServers runs the metrics HTTP server under an errgroup with a
// signal-aware context for graceful shutdown.
func runServers(cfg *config.Config, mgr *hfp.Manager, reg *prometheus.Registry, logger *slog.Logger) error {
	metricsSrv := newMetricsServer(cfg.Metrics, reg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)
	lc := net.ListenConfig{}

	g.Go(func() error {
		logger.Info("metrics server listening", slog.String("addr", cfg.Metrics.Addr), slog.String("path", cfg.Metrics.Path))
		return listenAndServe(gCtx, &lc, metricsSrv, cfg.Metrics.Addr)
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gCtx), 10*time.Second)
		defer cancel()
		return metricsSrv.Shutdown(shutdownCtx)
	})

	_ = mgr // no transport event loop in this process calls the manager's Handle* methods; the value is only kept alive for the lifetime of runServers.

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("run servers: %w", err)
	}
	return nil
}

func listenAndServe(ctx context.Context, lc *net.ListenConfig, srv *http.Server, addr string) error {
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve on %s: %w", addr, err)
	}
	return nil
}

func newMetricsServer(cfg config.MetricsConfig, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("load config from %s: %w", path, err)
		}
		return cfg, nil
	}
	return config.DefaultConfig(), nil
}

func newLoggerWithLevel(cfg config.LogConfig, level *slog.LevelVar) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch cfg.Format {
	case "text":
		handler = slog.NewTextHandler(os.Stdout, opts)
	default:
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
