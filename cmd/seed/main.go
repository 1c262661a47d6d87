// README: Applies migrations and loads a YAML snapshot into Postgres (routes, fares) and Redis (fleet).
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"smartride/internal/config"
	"smartride/internal/infra"
	"smartride/internal/migrations"
	"smartride/internal/modules/fleet"
	"smartride/internal/modules/pricing"
	"smartride/internal/modules/routing"
	"smartride/internal/snapshot"
)

func main() {
	file := flag.String("file", "data/gaborone.yml", "snapshot to load")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger, err := infra.NewLogger(cfg.Env, "seed")
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	snap, err := snapshot.Load(*file)
	if err != nil {
		logger.Fatal("load snapshot", zap.Error(err))
	}

	db, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		logger.Fatal("db", zap.Error(err))
	}
	defer db.Close()

	rdb, err := infra.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer func() { _ = rdb.Close() }()

	if err := migrations.Apply(ctx, db); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	if err := seed(ctx, snap, routing.NewStore(db), pricing.NewStore(db), fleet.NewStore(rdb)); err != nil {
		logger.Fatal("seed", zap.Error(err))
	}
	logger.Info("seeded",
		zap.String("file", *file),
		zap.Int("routes", len(snap.Routes)),
		zap.Int("fares", len(snap.Fares)),
		zap.Int("vehicles", len(snap.Vehicles)),
	)
}
