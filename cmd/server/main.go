// Command server runs the ministry portal backend: admin session lifecycle,
// climate-actor registry review workflow, and their HTTP surface.
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

	"golang.org/x/sync/errgroup"

	"greenreg/internal/admin"
	"greenreg/internal/admin/adapters"
	adminstore "greenreg/internal/admin/store"
	"greenreg/internal/artifact"
	"greenreg/internal/audit"
	"greenreg/internal/platform/config"
	"greenreg/internal/platform/httpserver"
	"greenreg/internal/platform/logger"
	"greenreg/internal/platform/postgres"
	redisplatform "greenreg/internal/platform/redis"
	"greenreg/internal/registry"
	registryhandler "greenreg/internal/registry/handler"
	registrymetrics "greenreg/internal/registry/metrics"
	registrystore "greenreg/internal/registry/store"
	"greenreg/internal/session"
	sessionhandler "greenreg/internal/session/handler"
	sessionmetrics "greenreg/internal/session/metrics"
	sessionstore "greenreg/internal/session/store"
	"greenreg/internal/session/token"
	httptransport "greenreg/internal/transport/http"
)

func main() {
	log := logger.New()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	var checks []httptransport.HealthCheck

	// Directory storage: postgres when configured, memory otherwise.
	var admins adminstore.Store = adminstore.NewMemory()
	var submissions registrystore.Store = registrystore.NewMemory()
	if cfg.DatabaseDSN != "" {
		db, err := postgres.Open(ctx, cfg.DatabaseDSN)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := postgres.Migrate(ctx, db); err != nil {
			return err
		}
		admins = adminstore.NewPostgres(db)
		submissions = registrystore.NewPostgres(db)
		checks = append(checks, httptransport.HealthCheck{Name: "postgres", Probe: db.PingContext})
		log.Info("using postgres storage")
	} else {
		log.Warn("no DATABASE_DSN configured, using in-memory storage")
	}

	// Session record storage: redis when configured, memory otherwise.
	var records sessionstore.RecordStore = sessionstore.NewMemory()
	redisClient, err := redisplatform.New(cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		records = sessionstore.NewRedis(redisClient.Client)
		checks = append(checks, httptransport.HealthCheck{Name: "redis", Probe: redisClient.Health})
		log.Info("using redis session record store")
	}

	// Artifact storage: S3 when a bucket is configured, memory otherwise.
	var artifacts artifact.Store = artifact.NewMemory()
	if cfg.Artifact.Bucket != "" {
		s3Store, err := artifact.NewS3Store(ctx, artifact.S3Config{
			Bucket:       cfg.Artifact.Bucket,
			Region:       cfg.Artifact.Region,
			BaseEndpoint: cfg.Artifact.BaseEndpoint,
			AccessKey:    cfg.Artifact.AccessKey,
			SecretKey:    cfg.Artifact.SecretKey,
			PublicURL:    cfg.Artifact.PublicURL,
		})
		if err != nil {
			return err
		}
		artifacts = s3Store
		log.Info("using s3 artifact store", "bucket", cfg.Artifact.Bucket)
	}

	// Audit trail: kafka-backed when brokers are configured.
	var auditStore audit.Store = audit.NewInMemoryStore()
	if len(cfg.Audit.KafkaBrokers) > 0 {
		kafkaStore, err := audit.NewKafkaStore(cfg.Audit.KafkaBrokers, cfg.Audit.KafkaTopic)
		if err != nil {
			return err
		}
		defer kafkaStore.Close()
		auditStore = kafkaStore
		log.Info("publishing audit trail to kafka", "topic", cfg.Audit.KafkaTopic)
	}
	auditor := audit.NewPublisher(auditStore, audit.WithAsyncBuffer(256), audit.WithLogger(log))
	defer auditor.Close()

	adminSvc := admin.NewService(admins, log,
		admin.WithLoginRate(cfg.LoginRatePerMinute),
		admin.WithAudit(auditor),
	)
	if err := adminSvc.Seed(ctx, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword, cfg.Seed.AdminName); err != nil {
		return err
	}

	sessions := session.New(
		adapters.NewDirectory(adminSvc),
		records,
		token.NewCodec(cfg.SessionSigningKey),
		log,
		session.WithTTL(cfg.SessionTTL),
		session.WithMetrics(sessionmetrics.New()),
		session.WithAudit(auditor),
	)
	if identity, err := sessions.Restore(ctx); err == nil && identity != nil {
		log.Info("restored admin session", "admin_id", identity.ID.String())
	}

	reviews := registry.NewService(submissions, artifacts, log,
		registry.WithMetrics(registrymetrics.New()),
		registry.WithAudit(auditor),
	)

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:   log,
		Sessions: sessionhandler.New(sessions, adminSvc, log),
		Registry: registryhandler.New(reviews, log),
		Checks:   checks,
	})

	srv := httpserver.New(cfg.Addr, router)

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("starting greenreg portal", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return group.Wait()
}
