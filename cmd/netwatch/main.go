package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"

	"gw-netwatch/cmd/app"
	"gw-netwatch/internal/api/v1/handler"
	"gw-netwatch/internal/common"
	"gw-netwatch/internal/features/connectivity"
	"gw-netwatch/internal/features/monitor"
	"gw-netwatch/internal/features/notify"
	probeservice "gw-netwatch/internal/features/probe/service"
	"gw-netwatch/internal/features/recovery/adapter/systemd"
	recoveryservice "gw-netwatch/internal/features/recovery/service"
	"gw-netwatch/internal/metrics"
	"gw-netwatch/internal/server"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Configuration failures are the only fatal errors; everything
	// after the loop starts is absorbed into logs and counters.
	cfg, err := app.Load()
	if err != nil {
		log.Fatalf("configuration load failed: %v", err)
	}

	logger := common.NewLogger(common.LoggerConfig{
		Level:     common.LogLevel(cfg.LogLevel),
		FilePath:  cfg.LogFile,
		MaxSizeMB: cfg.LogMaxSizeMB,
	})

	// Shutdown signals cancel the context; the loop finishes its
	// in-progress cycle before exiting.
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-signals
		logger.Info("shutdown signal received", "signal", sig.String())
		cancel()
	}()

	collector := metrics.NewCollector()
	collector.Register()

	probes := probeservice.NewService(
		probeservice.NewPinger(cfg.PingPrivileged),
		probeservice.NewResolver(),
		logger,
		time.Duration(cfg.PingTimeout)*time.Second,
		collector,
	)
	evaluator := connectivity.NewEvaluator(probes, cfg.Hosts(), cfg.DNSTestHost, logger)

	controller := systemd.NewController(logger)
	defer controller.Close()

	recoveryCfg := recoveryservice.DefaultConfig(cfg.NetworkService)
	recoveryCfg.BaseCooldown = time.Duration(cfg.RecoveryBaseCooldown) * time.Second
	recoveryCfg.MaxCooldown = time.Duration(cfg.RecoveryMaxCooldown) * time.Second
	recoverer := recoveryservice.NewManager(controller, clock.New(), logger, recoveryCfg, collector)

	notifier := notify.NewSoundNotifier(cfg.PlayerCommand, cfg.SoundDir, logger)

	mon := monitor.New(
		evaluator,
		recoverer,
		notifier,
		clock.New(),
		logger,
		time.Duration(cfg.CheckInterval)*time.Second,
		collector,
	)

	srv := server.New(cfg.ServerPort, logger,
		handler.NewHealthHandler(),
		handler.NewStatusHandler(mon, cfg.NodeID),
	)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Error("http server failed", "error", err)
			cancel()
		}
	}()

	logger.Info("netwatch starting",
		"node_id", cfg.NodeID,
		"ping_hosts", cfg.PingHosts,
		"network_service", cfg.NetworkService)

	mon.Run(ctx)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", "error", err)
	}

	logger.Info("shutdown complete")
}
