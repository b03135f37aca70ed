package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/sudo-init-do/rentaskill/internal/alerts"
	"github.com/sudo-init-do/rentaskill/internal/cache"
	"github.com/sudo-init-do/rentaskill/internal/config"
	"github.com/sudo-init-do/rentaskill/internal/db"
	"github.com/sudo-init-do/rentaskill/internal/logger"
	"github.com/sudo-init-do/rentaskill/internal/models"
	"github.com/sudo-init-do/rentaskill/internal/payment"
	"github.com/sudo-init-do/rentaskill/internal/realtime"
	"github.com/sudo-init-do/rentaskill/internal/scheduler"
	"github.com/sudo-init-do/rentaskill/internal/server"
	"github.com/sudo-init-do/rentaskill/internal/store"
	"github.com/sudo-init-do/rentaskill/internal/store/postgres"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		boot := zerolog.New(os.Stderr).With().Timestamp().Logger()
		boot.Fatal().Err(err).Msg("invalid configuration")
	}
	log := logger.New(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("store init failed")
	}
	defer st.Close()

	deps := server.Deps{
		Config: cfg,
		Logger: log,
		Store:  st,
		Orders: payment.NewRazorpay(cfg.Razorpay),
		Hub:    realtime.NewHub(log),
	}
	if cfg.Razorpay.KeySecret == "" {
		log.Warn().Msg("RAZORPAY_KEY_SECRET not set; payment verification will fail")
	}

	var skillsCache *cache.Skills
	if cfg.RedisURL != "" {
		rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("redis init failed")
		}
		defer rdb.Close()
		skillsCache = cache.NewSkills(rdb, cfg.SkillsCacheTTL)
		deps.SkillCache = skillsCache

		worker, queue, err := startNotifications(cfg, rdb, st, log)
		if err != nil {
			log.Fatal().Err(err).Msg("notifications init failed")
		}
		defer worker.Shutdown()
		defer queue.Close()
		deps.Notifier = queue
	} else {
		log.Info().Msg("REDIS_URL not set; notifications and skills cache disabled")
	}

	var invalidator scheduler.Invalidator
	if skillsCache != nil {
		invalidator = skillsCache
	}
	jobs := scheduler.New(st, invalidator, cfg.SkillStatsCron, log)
	if err := jobs.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("scheduler init failed")
	}
	defer jobs.Stop()

	e := server.New(deps)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server error")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func openStore(ctx context.Context, cfg config.Config, log zerolog.Logger) (store.Store, error) {
	if cfg.DatabaseURL == "" {
		log.Warn().Msg("DATABASE_URL not set; using in-memory store")
		mem := store.NewMemory()
		mem.SeedSkills(defaultSkills...)
		return mem, nil
	}
	pool, err := db.Connect(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(ctx, pool, log); err != nil {
		pool.Close()
		return nil, err
	}
	return postgres.New(pool), nil
}

func startNotifications(cfg config.Config, rdb *redis.Client, users alerts.UserLookup, log zerolog.Logger) (*alerts.Worker, *alerts.Queue, error) {
	ro := rdb.Options()
	opt := asynq.RedisClientOpt{
		Addr:      ro.Addr,
		Username:  ro.Username,
		Password:  ro.Password,
		DB:        ro.DB,
		TLSConfig: ro.TLSConfig,
	}

	var sender alerts.Sender = alerts.LogSender{Logger: log}
	if cfg.Plunk.APIKey != "" {
		sender = alerts.NewPlunk(cfg.Plunk.APIKey, cfg.Plunk.From)
	}

	worker := alerts.NewWorker(opt, users, sender, log)
	if err := worker.Start(); err != nil {
		return nil, nil, err
	}
	return worker, alerts.NewQueue(opt), nil
}

var defaultSkills = []models.Skill{
	{Name: "Python Programming", Category: "Programming", AveragePrice: 500, Rating: 4.6, IsPopular: true},
	{Name: "Web Development", Category: "Programming", AveragePrice: 800, Rating: 4.5, IsPopular: true},
	{Name: "Graphic Design", Category: "Design", AveragePrice: 400, Rating: 4.4, IsPopular: true},
	{Name: "Content Writing", Category: "Writing", AveragePrice: 300, Rating: 4.3},
	{Name: "Mathematics Tutoring", Category: "Tutoring", AveragePrice: 350, Rating: 4.7},
	{Name: "Video Editing", Category: "Media", AveragePrice: 600, Rating: 4.2},
}
