package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"vn.io.arda/contos/internal/application"
	"vn.io.arda/contos/internal/config"
	"vn.io.arda/contos/internal/generator"
	"vn.io.arda/contos/internal/infrastructure/postgres"
	redisinfra "vn.io.arda/contos/internal/infrastructure/redis"
	kafkaconsumer "vn.io.arda/contos/internal/kafka"
	transporthttp "vn.io.arda/contos/internal/transport/http"
)

func main() {
	// ── Logging ──────────────────────────────────────────────────────────────
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// ── Config ───────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if cfg.Server.Env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if cfg.Auth.JWTSecret == "" {
		log.Fatal().Msg("auth.jwt_secret is required")
	}

	log.Info().Str("env", cfg.Server.Env).Str("port", cfg.Server.Port).Msg("starting contos")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ── Database ──────────────────────────────────────────────────────────────
	poolCfg, err := pgxpool.ParseConfig(cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("invalid database configuration")
	}
	if cfg.Database.MaxConns > 0 {
		poolCfg.MaxConns = cfg.Database.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("postgres ping failed")
	}
	log.Info().Msg("postgres connected")

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("database migration failed")
	}

	store := postgres.New(pool)

	// ── Redis (optional) ──────────────────────────────────────────────────────
	var limiter generator.Limiter = generator.NewWindowLimiter(cfg.Generator.MaxPerWindow, cfg.Generator.Window)
	hub := transporthttp.NewHub(cfg.Stream.Buffer)
	var emitter application.NotificationEmitter = hub

	if cfg.Redis.Enabled {
		rdb, err := redisinfra.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer rdb.Close()

		limiter = redisinfra.NewWindowLimiter(rdb, "contos:ratelimit:generate", cfg.Generator.MaxPerWindow, cfg.Generator.Window)

		broker := redisinfra.NewBroker(rdb, hub)
		emitter = broker
		go func() {
			if err := broker.Run(ctx); err != nil {
				log.Error().Err(err).Msg("notification broker stopped")
			}
		}()
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")
	}

	// ── Story Generator ───────────────────────────────────────────────────────
	gen := generator.New(generator.Config{
		APIKey:  cfg.Generator.APIKey,
		APIURL:  cfg.Generator.APIURL,
		Model:   cfg.Generator.Model,
		Referer: cfg.Server.AppURL,
		Timeout: cfg.Generator.Timeout,
	}, limiter)
	if cfg.Generator.APIKey == "" {
		log.Warn().Msg("OpenRouter API key missing; story generation is disabled")
	}

	// ── Application Services ──────────────────────────────────────────────────
	notifications := application.NewNotificationService(store.Notifications(), emitter)
	storyLikes := application.NewStoryLikesUpdater(store.Stories())
	likes := application.NewLikeService(store.Likes(), storyLikes, notifications, store)
	comments := application.NewCommentService(store.Comments(), store.Mentions(), store.Users(), storyLikes, notifications, store)
	stories := application.NewStoryService(store.Stories(), gen)

	// ── HTTP Server ───────────────────────────────────────────────────────────
	handler := transporthttp.NewHandler(stories, likes, comments, notifications, hub, cfg.Stream.Keepalive)
	router := transporthttp.NewRouter(handler, []byte(cfg.Auth.JWTSecret), cfg.Server.AllowOrigins)

	// ── Kafka Consumer (optional) ─────────────────────────────────────────────
	if cfg.Kafka.Enabled {
		consumer, err := kafkaconsumer.New(
			cfg.Kafka.Brokers,
			cfg.Kafka.ConsumerGroupID,
			cfg.Kafka.Topics,
			notifications,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create kafka consumer")
		}

		go consumer.Start(ctx)
		log.Info().Strs("topics", cfg.Kafka.Topics).Msg("kafka consumer started")
	}

	// ── TTL Purge Job (every 24h) ─────────────────────────────────────────────
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				notifications.PurgeTTL(context.Background(), cfg.TTL.RetentionDays)
			case <-ctx.Done():
				return
			}
		}
	}()

	// ── Start HTTP Server ─────────────────────────────────────────────────────
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("HTTP server listening")
		if err := router.Start(":" + cfg.Server.Port); err != nil {
			log.Info().Msg("HTTP server stopped")
		}
	}()

	// ── Graceful Shutdown ─────────────────────────────────────────────────────
	<-ctx.Done()
	log.Info().Msg("shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := router.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("contos stopped")
}
