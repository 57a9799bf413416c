package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adriaway/booking/internal/cache"
	"github.com/adriaway/booking/internal/config"
	"github.com/adriaway/booking/internal/notifier"
	"github.com/adriaway/booking/internal/postgres"
	redisx "github.com/adriaway/booking/internal/redis"
	postgresrepo "github.com/adriaway/booking/internal/repository/postgres"
	redisrepo "github.com/adriaway/booking/internal/repository/redis"
	"github.com/adriaway/booking/internal/service"
	"github.com/adriaway/booking/internal/slots"
	httpgin "github.com/adriaway/booking/internal/transport/http/gin"
	"github.com/adriaway/booking/internal/wizard"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	httpServer *http.Server

	slotCache cache.SlotCache
	pubsub    *redisx.BookingsPubSub
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.Name,
		cfg.Postgres.SSLMode,
	)

	pgxPool, err := postgres.New(context.Background(), postgres.Config{DSN: dsn})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	store := postgresrepo.NewStore(pgxPool).Bookings()

	// Redis backs the slot cache, rate limiter, idempotency store and
	// change feed when configured; the memory backend runs without it.
	var (
		slotCache cache.SlotCache
		limiter   *redisrepo.SlidingWindowLimiter
		idem      *redisrepo.IdempotencyStore
		pubsub    *redisx.BookingsPubSub
	)
	if cfg.Cache.Backend == "redis" {
		rdb, err := redisx.New(context.Background(), redisx.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		slotCache = cache.NewRedis(rdb, cfg.Cache.TTL, logger)
		limiter = redisrepo.NewSlidingWindowLimiter(rdb, "submit", 10, 1*time.Minute)
		idem = redisrepo.NewIdempotencyStore(rdb, 2*time.Hour)
		pubsub = redisx.NewBookingsPubSub(rdb)
	} else {
		slotCache = cache.NewMemory(cfg.Cache.TTL, nil)
	}

	filter := slots.NewFilter(store, logger)

	sendgridNotifier := notifier.NewSendGrid(
		cfg.Mail.SendGridAPIKey,
		cfg.Mail.FromEmail,
		cfg.Mail.FromName,
		logger,
	)

	services := service.NewServices(
		store,
		slotCache,
		slots.Generate,
		filter,
		sendgridNotifier,
		limiter,
		pubsub,
		cfg.Mail.AdminEmail,
		logger,
	)

	sessions := wizard.NewManager(services.Query, wizard.Hooks{
		DialogOpened: func(id uuid.UUID) {
			logger.Info("widget dialog opened", "session_id", id)
		},
		DialogClosed: func(id uuid.UUID) {
			logger.Info("widget dialog closed", "session_id", id)
		},
	}, logger)

	router := httpgin.NewRouter(services, sessions, idem, cfg, logger)

	return &App{
		cfg:    cfg,
		logger: logger,
		httpServer: &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler: router,
		},
		slotCache: slotCache,
		pubsub:    pubsub,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("HTTP server listening", "host", a.cfg.Server.Host, "port", a.cfg.Server.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	})

	// Booking changes published by any instance invalidate the local
	// slot view, so dashboards behind a load balancer stay consistent
	// inside the cache TTL.
	if a.pubsub != nil {
		g.Go(func() error {
			err := a.pubsub.Subscribe(gCtx, func(ctx context.Context, id uuid.UUID, status string) {
				a.logger.Info("booking changed, clearing slot cache", "booking_id", id, "status", status)
				a.slotCache.Clear(ctx)
			})
			if err != nil && gCtx.Err() == nil {
				return fmt.Errorf("bookings subscription failed: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.httpServer.Shutdown(ctx)
	})

	return g.Wait()
}
