package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"pos-engine/internal/config"
	"pos-engine/internal/connections/database"
	"pos-engine/internal/connections/rabbitmq"
	"pos-engine/internal/connections/redisconn"
	"pos-engine/internal/domain"
	"pos-engine/internal/events"
	"pos-engine/internal/handlers"
	"pos-engine/internal/logger"
	"pos-engine/internal/pricing"
	"pos-engine/internal/repository"
	"pos-engine/internal/server"
	"pos-engine/internal/service"
)

func main() {
	var (
		cfgPath string
		debug   bool
	)
	flag.StringVar(&cfgPath, "config", "config.yml", "path to YAML config")
	flag.BoolVar(&debug, "debug", false, "verbose console logging")
	flag.Parse()

	log, err := logger.New("pos-engine", debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal("config load error", zap.Error(err))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	db, err := database.ConnectDB(ctx, cfg.Database)
	if err != nil {
		log.Fatal("db connect error", zap.Error(err))
	}
	defer func() { _ = db.Close() }()
	if err := repository.EnsureSchema(ctx, db); err != nil {
		log.Fatal("schema error", zap.Error(err))
	}
	log.Info("postgres connected",
		zap.String("host", cfg.Database.Host), zap.Int("port", cfg.Database.Port),
		zap.String("database", cfg.Database.Database))

	rmq, err := rabbitmq.Dial(cfg.RabbitMQ)
	if err != nil {
		log.Fatal("rabbitmq connect error", zap.Error(err))
	}
	defer rmq.Close()
	if err := rmq.DeclareTopology(); err != nil {
		log.Fatal("rabbitmq topology error", zap.Error(err))
	}
	log.Info("rabbitmq connected",
		zap.String("host", cfg.RabbitMQ.Host), zap.Int("port", cfg.RabbitMQ.Port))

	rdb, err := redisconn.Dial(ctx, cfg.Redis)
	if err != nil {
		log.Fatal("redis connect error", zap.Error(err))
	}
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
		log.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
	}

	repo := repository.New(db, rdb, time.Duration(cfg.Redis.TTLSecond)*time.Second, log)
	pricer := pricing.NewEngine(repo.Pricing, discountRules(cfg.Pricing), log)
	pub := events.NewPublisher(rmq)
	svc := service.New(repo, pricer, pub, log)

	if err := svc.Orders.WarmupCatalogCache(ctx); err != nil {
		log.Warn("catalog warmup failed", zap.Error(err))
	}

	h := handlers.New(svc, repo.Catalog, log)
	srv := server.New(fmt.Sprintf(":%d", cfg.HTTP.Port), handlers.Router(h))
	log.Info("pos server listening", zap.Int("port", cfg.HTTP.Port))
	if err := srv.Run(ctx); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
	log.Info("shutdown complete")
}

func discountRules(cfg config.PricingConfig) pricing.Rules {
	rules := pricing.Rules{}
	for _, d := range cfg.Discounts {
		rules.Discounts = append(rules.Discounts, pricing.DiscountRule{
			OrderType:   domain.OrderType(d.OrderType),
			MinSubtotal: d.MinSubtotal,
			Flat:        d.Flat,
			Percent:     d.Percent,
		})
	}
	return rules
}
