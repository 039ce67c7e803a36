// @title Eventhub API
// @version 1.0
// @description Events, speakers, venues and tickets with double-booking protection.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eventhub/config"
	_ "eventhub/docs"
	authadapter "eventhub/internal/adapters/auth"
	"eventhub/internal/adapters/email"
	redisadapter "eventhub/internal/adapters/redis"
	"eventhub/internal/clock"
	deliveryhttp "eventhub/internal/delivery/http"
	"eventhub/internal/delivery/http/controllers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"
	"eventhub/internal/metrics"
	"eventhub/internal/repository/postgres"
	"eventhub/internal/services"
	"eventhub/migrations"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := config.NewLogger(cfg)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startupCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := postgres.Open(startupCtx, cfg.DBUrl)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := migrations.Up(db); err != nil {
		return err
	}

	rdb, err := redisadapter.NewClient(cfg.RedisURL)
	if err != nil {
		return err
	}
	defer rdb.Close()
	if err := redisadapter.Ping(startupCtx, rdb); err != nil {
		return err
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Mail.Provider,
		FromAddress: cfg.Mail.FromAddress,
		FromName:    cfg.Mail.FromName,
		SES: email.SESConfig{
			Region:          cfg.Mail.AWSRegion,
			AccessKeyID:     cfg.Mail.AWSAccessKeyID,
			SecretAccessKey: cfg.Mail.AWSSecretAccessKey,
		},
	}, logger)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewWithRegistry(reg)

	limiter := middleware.NewRateLimiter(middleware.LimiterConfig{
		RPS:   cfg.RateLimitRPS,
		Burst: cfg.RateLimitBurst,
	})
	go limiter.Run(ctx)

	handler := newHandler(cfg, logger, db, rdb, mailer, reg, m, limiter)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		logger.Info("api listening", "port", cfg.Port, "env", cfg.Environment)
		srvErr <- server.ListenAndServe()
	}()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

// newHandler wires repositories, services and controllers into the routed,
// middleware-wrapped handler.
func newHandler(cfg *config.Config, logger *slog.Logger, db *sql.DB, rdb *redis.Client, mailer domain.Mailer,
	reg *prometheus.Registry, m *metrics.Metrics, limiter *middleware.RateLimiter,
) http.Handler {
	clk := clock.NewSystem()
	timeout := cfg.RequestTimeout

	tx := postgres.NewTransactor(db)
	userRepo := postgres.NewUserRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	relationRepo := postgres.NewEventRelationRepository(db)
	catalogRepo := postgres.NewCatalogRepository(db)
	prelegentRepo := postgres.NewPrelegentRepository(db)
	ticketRepo := postgres.NewTicketRepository(db)
	scheduleRepo := postgres.NewScheduleRepository(db)
	usageRepo := postgres.NewUsageRepository(db)

	jwt := authadapter.NewJWT(cfg.JWTSecret, cfg.JWTExpiry, clk)
	blacklist := redisadapter.NewTokenBlacklist(rdb, clk)
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)

	authSvc := services.NewAuthService(userRepo, authadapter.NewBcryptHasher(bcrypt.DefaultCost), jwt, blacklist,
		emailService, clk, logger, cfg.BootstrapAdminEmail, timeout)
	eventSvc := services.NewEventService(tx, eventRepo, relationRepo, catalogRepo, ticketRepo, scheduleRepo, usageRepo, clk, timeout)
	ticketSvc := services.NewTicketService(tx, eventRepo, ticketRepo, scheduleRepo, userRepo, emailService, clk, logger, timeout)
	catalogSvc := services.NewCatalogService(tx, catalogRepo, usageRepo, clk, timeout)
	prelegentSvc := services.NewPrelegentService(tx, prelegentRepo, userRepo, usageRepo, clk, timeout)
	userSvc := services.NewUserService(tx, userRepo, usageRepo, timeout)

	catalog := make([]*controllers.CatalogController, 0, len(domain.CatalogKinds))
	for _, kind := range domain.CatalogKinds {
		catalog = append(catalog, controllers.NewCatalogController(logger, catalogSvc, kind))
	}

	mux := deliveryhttp.NewRouter(deliveryhttp.RouterDeps{
		Logger:     logger,
		Verifier:   jwt,
		Blacklist:  blacklist,
		Auth:       controllers.NewAuthController(logger, authSvc),
		Events:     controllers.NewEventController(logger, eventSvc, m),
		Tickets:    controllers.NewTicketController(logger, ticketSvc, m),
		Catalog:    catalog,
		Prelegents: controllers.NewPrelegentController(logger, prelegentSvc),
		Users:      controllers.NewUserController(logger, userSvc),
		Health: controllers.NewHealthController(logger, clk, map[string]controllers.HealthCheck{
			"postgres": db.PingContext,
			"redis":    func(ctx context.Context) error { return redisadapter.Ping(ctx, rdb) },
		}),
		Metrics: middleware.BasicAuth(cfg.MetricsUser, cfg.MetricsPassword,
			promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})),
	})

	return deliveryhttp.Chain(mux, logger, cfg.CORSAllowedOrigins, limiter, m)
}
