package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"aerox/internal/audit"
	"aerox/internal/decision"
	decisionhandler "aerox/internal/decision/handler"
	decisionmetrics "aerox/internal/decision/metrics"
	"aerox/internal/decision/ports"
	"aerox/internal/narrator"
	"aerox/internal/negotiation"
	negotiationhandler "aerox/internal/negotiation/handler"
	negotiationmetrics "aerox/internal/negotiation/metrics"
	"aerox/internal/negotiation/store"
	"aerox/internal/platform/config"
	"aerox/internal/platform/httpserver"
	"aerox/internal/platform/logger"
	redisplatform "aerox/internal/platform/redis"
	"aerox/internal/scoring"
	httptransport "aerox/internal/transport/http"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal service packages.
func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Redis is optional: without it sessions live in process memory.
	redisClient, err := redisplatform.New(cfg.Redis)
	if err != nil {
		log.Error("connect redis", "error", err)
		os.Exit(1)
	}

	var sessions negotiation.SessionStore
	health := map[string]httptransport.HealthChecker{}
	if redisClient != nil {
		sessions = store.NewRedis(redisClient.Client, redisClient.SessionTTL)
		health["redis"] = redisClient
		defer redisClient.Close()
		log.Info("session store: redis")
	} else {
		sessions = store.NewMemory()
		log.Info("session store: in-memory")
	}

	// Kafka is optional: without brokers audit events land in the log.
	var auditPub ports.AuditPublisher
	kafkaPub, err := audit.NewKafkaPublisher(cfg.Kafka, log)
	if err != nil {
		log.Error("connect kafka", "error", err)
		os.Exit(1)
	}
	if kafkaPub != nil {
		auditPub = kafkaPub
		defer kafkaPub.Close()
		log.Info("audit sink: kafka", "topic", cfg.Kafka.Topic)
	} else {
		auditPub = audit.NewLogPublisher(log)
		log.Info("audit sink: log")
	}

	var scorer ports.Scorer
	if cfg.Scorer.BaseURL != "" {
		scorer = scoring.NewHTTPScorer(cfg.Scorer)
		log.Info("scorer: http", "url", cfg.Scorer.BaseURL)
	} else {
		scorer = scoring.NewStatic()
		log.Info("scorer: static scenarios")
	}

	var narr ports.Narrator
	if cfg.Narrator.BaseURL != "" {
		narr = narrator.NewLLM(cfg.Narrator)
		log.Info("narrator: gateway", "url", cfg.Narrator.BaseURL)
	} else {
		narr = narrator.Disabled{}
		log.Info("narrator: disabled, template fallbacks only")
	}

	decisionSvc := decision.NewService(scorer, narr, auditPub, cfg.Policy, log,
		decision.WithMetrics(decisionmetrics.New()))
	engine := negotiation.NewEngine(sessions, narr, auditPub, cfg.Policy.RiskConstraints,
		cfg.Narrator.Timeout, log,
		negotiation.WithMetrics(negotiationmetrics.New()))

	router := httptransport.NewRouter(httptransport.Deps{
		Decision:    decisionhandler.New(decisionSvc, cfg.Policy, log),
		Negotiation: negotiationhandler.New(engine, log),
		Logger:      log,
		Health:      health,
	})
	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting aerox", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
