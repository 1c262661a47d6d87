// README: Entry point; loads config, wires route/fleet sources and the matching engine, serves HTTP.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"smartride/internal/config"
	httptransport "smartride/internal/http"
	"smartride/internal/infra"
	"smartride/internal/maps"
	"smartride/internal/modules/matching"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := infra.NewLogger(cfg.Env, "smartride")
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srcs, err := openSources(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("open sources", zap.Error(err))
	}
	defer srcs.Close()

	engine, err := newEngine(cfg, srcs.schedule, logger)
	if err != nil {
		logger.Fatal("build engine", zap.Error(err))
	}
	svc := matching.NewService(srcs.routes, srcs.fleet, engine, logger)

	deps := httptransport.RouterDeps{
		Matching:       svc,
		DefaultRadiusM: cfg.Matching.RadiusM,
		Logger:         logger,
	}
	if cfg.Maps.APIKey != "" {
		geocoder, err := maps.NewGeocodeService(cfg.Maps.APIKey, cfg.Maps.Region)
		if err != nil {
			logger.Fatal("geocoder init", zap.Error(err))
		}
		deps.Geocoder = geocoder
	} else {
		logger.Info("maps api key not set; destination_address disabled")
	}

	server := httptransport.NewServer(cfg.HTTP.Addr, httptransport.NewRouter(deps))
	if err := httptransport.Run(ctx, server, logger); err != nil {
		logger.Fatal("http server", zap.Error(err))
	}
}
