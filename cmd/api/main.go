package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/agent"
	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	"github.com/BruksfildServices01/salon-scheduler/internal/bookingclient"
	"github.com/BruksfildServices01/salon-scheduler/internal/cache"
	"github.com/BruksfildServices01/salon-scheduler/internal/catalog"
	"github.com/BruksfildServices01/salon-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/salon-scheduler/internal/db"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/salon-scheduler/internal/flow"
	"github.com/BruksfildServices01/salon-scheduler/internal/handlers"
	"github.com/BruksfildServices01/salon-scheduler/internal/history"
	infraRepo "github.com/BruksfildServices01/salon-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/salon-scheduler/internal/logger"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
	"github.com/BruksfildServices01/salon-scheduler/internal/reminder"
	"github.com/BruksfildServices01/salon-scheduler/internal/routes"
	"github.com/BruksfildServices01/salon-scheduler/internal/session"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
	ucBooking "github.com/BruksfildServices01/salon-scheduler/internal/usecase/booking"
	"github.com/BruksfildServices01/salon-scheduler/internal/validators"
)

var _ flow.Scheduler = (*bookingclient.Client)(nil)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := validators.Register(); err != nil {
		return err
	}

	var err error
	loc := timezone.Location(cfg.SalonTimezone)
	health := map[string]handlers.Pinger{}

	// ======================================================
	// 📋 CATALOG + HOURS
	// ======================================================
	cat := catalog.Default()
	if cfg.CatalogPath != "" {
		if cat, err = catalog.Load(cfg.CatalogPath); err != nil {
			return err
		}
	}

	hours := domain.DefaultWeeklyHours()
	if cfg.HoursPath != "" {
		if hours, err = domain.LoadWeeklyHours(cfg.HoursPath); err != nil {
			return err
		}
	}

	// ======================================================
	// 🗄️ LEDGER + AUDIT
	// ======================================================
	var (
		ledger   domain.Ledger
		recorder audit.Recorder
		db       *gorm.DB
	)

	switch cfg.LedgerStore {
	case "postgres":
		if db, err = dbpkg.NewDB(cfg, log); err != nil {
			return err
		}
		ledger = infraRepo.NewBookingGormRepository(db)
		recorder = audit.NewGormRecorder(db)

		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		defer sqlDB.Close()
		health["postgres"] = sqlDB.PingContext
	default:
		ledger = infraRepo.NewBookingMemoryRepository()
		recorder = audit.NewZapRecorder(log)
	}

	auditDispatcher := audit.NewDispatcher(recorder, log)
	defer auditDispatcher.Close()

	// ======================================================
	// ⏱️ HOUSEKEEPING
	// ======================================================
	jobs := cron.New()
	defer jobs.Stop()

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMin, log)
	if _, err := jobs.AddFunc("@every 5m", func() { limiter.Prune(10 * time.Minute) }); err != nil {
		return err
	}

	// ======================================================
	// 🔁 SESSIONS
	// ======================================================
	var sessions session.Store

	switch cfg.SessionStore {
	case "redis":
		rdb, err := cache.NewRedisClient(ctx, cache.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisSessionDB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		sessions = session.NewRedisStore(rdb, cfg.SessionTTL)
		health["redis"] = redisPinger(rdb)
	default:
		mem := session.NewMemoryStore(cfg.SessionTTL)
		sweeper, err := session.StartSweeper(mem, "@every 1m", log)
		if err != nil {
			return err
		}
		defer sweeper.Stop()
		sessions = mem
	}

	// ======================================================
	// 🔔 REMINDERS
	// ======================================================
	var reminders ucBooking.ReminderScheduler

	if cfg.RemindersEnabled {
		redisOpt := asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisQueueDB,
		}

		queue := asynq.NewClient(redisOpt)
		defer queue.Close()
		reminders = reminder.NewScheduler(queue, loc, log)

		worker, mux := reminder.NewServer(redisOpt, reminder.NewLogNotifier(log), auditDispatcher, log)
		if err := worker.Start(mux); err != nil {
			return err
		}
		defer worker.Shutdown()
	}

	// ======================================================
	// 🧠 USE CASES
	// ======================================================
	availabilityUC := ucBooking.NewGetAvailability(ledger, hours, cat)
	createUC := ucBooking.NewCreateBooking(ledger, hours, cat, auditDispatcher, reminders, log.Named("bookings"))
	listByDateUC := ucBooking.NewListBookingsByDate(ledger)

	// ======================================================
	// 🤖 AGENT
	// ======================================================
	var conversations history.Store = history.NewMemoryStore()
	if cfg.LedgerStore == "postgres" {
		pool, err := pgxpool.New(ctx, cfg.DBUrl)
		if err != nil {
			return err
		}
		defer pool.Close()

		pg := history.NewPostgresStore(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			return err
		}
		conversations = pg
	}

	var runner agent.Runner = agent.NewCatalogRunner(cat, flow.HoursText(hours))
	if cfg.GeminiAPIKey != "" {
		gemini, err := agent.NewGeminiRunner(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cat)
		if err != nil {
			return err
		}
		defer gemini.Close()
		runner = gemini
	}
	assistant := agent.NewService(runner, conversations, log)

	// ======================================================
	// 💬 CHAT FLOW
	// ======================================================
	var scheduler flow.Scheduler = flow.NewLocalScheduler(availabilityUC, createUC)
	if cfg.BookingAPIURL != "" {
		scheduler = bookingclient.New(cfg.BookingAPIURL, log)
		log.Info("chat flow books through remote API", zap.String("url", cfg.BookingAPIURL))
	}

	machine := flow.NewMachine(flow.Deps{
		Catalog:   cat,
		Hours:     hours,
		Scheduler: scheduler,
		Store:     sessions,
		Assistant: assistant,
		Location:  loc,
		Log:       log,
	})

	// ======================================================
	// 🌐 HTTP
	// ======================================================
	r := gin.New()
	routes.RegisterRoutes(r, routes.Deps{
		Config:       cfg,
		Log:          log,
		DB:           db,
		Catalog:      cat,
		Hours:        hours,
		Availability: availabilityUC,
		Create:       createUC,
		ListByDate:   listByDateUC,
		Machine:      machine,
		Agent:        assistant,
		Audit:        auditDispatcher,
		Limiter:      limiter,
		Health:       health,
	})

	jobs.Start()

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server running",
			zap.String("addr", cfg.Addr()),
			zap.String("ledger", cfg.LedgerStore),
			zap.String("sessions", cfg.SessionStore),
			zap.Bool("reminders", cfg.RemindersEnabled),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func redisPinger(rdb *redis.Client) handlers.Pinger {
	return func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}
}
