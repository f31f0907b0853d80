// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal packages.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"eduvet/internal/audit"
	httpapi "eduvet/internal/http"
	"eduvet/internal/platform/config"
	"eduvet/internal/platform/httpserver"
	"eduvet/internal/platform/logger"
	platformredis "eduvet/internal/platform/redis"
	"eduvet/internal/verification/cache"
	"eduvet/internal/verification/checks"
	"eduvet/internal/verification/checks/companieshouse"
	"eduvet/internal/verification/checks/esfa"
	"eduvet/internal/verification/checks/jcq"
	"eduvet/internal/verification/checks/ofqual"
	"eduvet/internal/verification/checks/ofsted"
	"eduvet/internal/verification/checks/sanctions"
	"eduvet/internal/verification/checks/ukrlp"
	"eduvet/internal/verification/handler"
	"eduvet/internal/verification/metrics"
	"eduvet/internal/verification/orchestrator"
	"eduvet/internal/verification/risk"
	"eduvet/internal/verification/service"
	"eduvet/internal/verification/store"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var routerOpts []httpapi.Option

	// Registry cache: Redis when configured, in-process otherwise.
	var sourceCache cache.SourceCache = cache.NewMemory()
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		sourceCache = cache.NewRedis(redisClient.Client)
		routerOpts = append(routerOpts, httpapi.WithHealthCheck("redis", redisClient.Health))
		log.Info("registry cache backed by redis")
	}

	// Run store: Postgres when configured, in-memory otherwise.
	var runStore store.Store = store.NewMemory()
	if cfg.PostgresURL != "" {
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			log.Error("postgres connection failed", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		pg := store.NewPostgres(pool)
		if err := pg.Migrate(ctx); err != nil {
			log.Error("postgres migration failed", "error", err)
			os.Exit(1)
		}
		runStore = pg
		log.Info("run store backed by postgres")
	}

	// Audit trail: always persisted locally, mirrored to Kafka when brokers
	// are configured.
	auditStore := audit.NewMemoryStore()
	sinks := []audit.Sink{auditStore}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaSink, err := audit.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			log.Error("kafka connection failed", "error", err)
			os.Exit(1)
		}
		defer kafkaSink.Close()
		sinks = append(sinks, kafkaSink)
		log.Info("audit events mirrored to kafka", "topic", cfg.KafkaTopic)
	}

	inbox := make(chan audit.Event, 256)
	worker := audit.NewWorker(audit.NewPublisher(log, sinks...), inbox, log)
	go func() {
		if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("audit worker stopped", "error", err)
		}
	}()

	m := metrics.New()
	set := buildCheckSet(cfg, sourceCache, log)

	engine, err := orchestrator.New(set, risk.New(),
		orchestrator.WithLogger(log),
		orchestrator.WithMetrics(m),
	)
	if err != nil {
		log.Error("engine construction failed", "error", err)
		os.Exit(1)
	}

	svc := service.New(engine, runStore,
		service.WithAuditInbox(inbox),
		service.WithLogger(log),
	)

	router := httpapi.New(log, handler.New(svc, log), routerOpts...)
	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("starting eduvet", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}

// buildCheckSet binds one adapter per source. Live clients are used where
// credentials or endpoints are configured; simulated adapters cover the
// rest so a development instance always produces complete runs.
func buildCheckSet(cfg config.Config, sourceCache cache.SourceCache, log *slog.Logger) checks.Set {
	var companyCheck checks.Checker = companieshouse.Simulated{}
	if cfg.CompaniesHouseAPIKey != "" {
		companyCheck = companieshouse.New(cfg.CompaniesHouseAPIKey,
			companieshouse.WithBaseURL(cfg.CompaniesHouseURL),
			companieshouse.WithCache(sourceCache, cfg.CacheTTL),
			companieshouse.WithLogger(log),
		)
		log.Info("companies house adapter live")
	}

	var ukrlpCheck checks.Checker = ukrlp.Simulated{}
	if cfg.UKRLPBaseURL != "" {
		ukrlpCheck = ukrlp.New(
			ukrlp.WithBaseURL(cfg.UKRLPBaseURL),
			ukrlp.WithLogger(log),
		)
		log.Info("ukrlp adapter live")
	}

	var ofstedCheck checks.Checker = ofsted.Simulated{}
	if cfg.OfstedBaseURL != "" {
		ofstedCheck = ofsted.New(
			ofsted.WithBaseURL(cfg.OfstedBaseURL),
			ofsted.WithLogger(log),
		)
		log.Info("ofsted adapter live")
	}

	var esfaCheck checks.Checker = esfa.Simulated{}
	if cfg.ESFABaseURL != "" {
		esfaCheck = esfa.New(
			esfa.WithBaseURL(cfg.ESFABaseURL),
			esfa.WithLogger(log),
		)
		log.Info("esfa adapter live")
	}

	var ofqualCheck checks.Checker = ofqual.Simulated{}
	var qualChecker checks.QualificationChecker = ofqual.Simulated{}
	if cfg.OfqualAPIKey != "" {
		client := ofqual.New(cfg.OfqualAPIKey,
			ofqual.WithBaseURL(cfg.OfqualURL),
			ofqual.WithLogger(log),
		)
		ofqualCheck = client
		qualChecker = client
		log.Info("ofqual adapter live")
	}

	return checks.Set{
		Identity: []checks.Checker{
			companyCheck,
			ukrlpCheck,
			jcq.New(),
			sanctions.New(),
		},
		Regulatory: []checks.Checker{
			ofqualCheck,
			ofstedCheck,
			esfaCheck,
		},
		Qualifications: qualChecker,
	}
}
