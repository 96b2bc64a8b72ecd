package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	stdhttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/vncsmyrnk/chatpoll/internal/adapters/cache/memory"
	"github.com/vncsmyrnk/chatpoll/internal/adapters/cache/redis"
	"github.com/vncsmyrnk/chatpoll/internal/adapters/handler/http"
	"github.com/vncsmyrnk/chatpoll/internal/adapters/handler/interaction"
	"github.com/vncsmyrnk/chatpoll/internal/adapters/messaging/discord"
	"github.com/vncsmyrnk/chatpoll/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/chatpoll/internal/adapters/repository/sqlite"
	"github.com/vncsmyrnk/chatpoll/internal/config"
	"github.com/vncsmyrnk/chatpoll/internal/core/ports"
	"github.com/vncsmyrnk/chatpoll/internal/core/services"
	"github.com/vncsmyrnk/chatpoll/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal(err)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		logrus.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, results, err := openResultStore(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	pending, guard, closeCache, err := openPollCaches(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeCache()

	session, err := discordgo.New("Bot " + cfg.Discord.BotToken)
	if err != nil {
		log.Fatalf("failed to create discord session: %v", err)
	}
	publicKey, err := cfg.Discord.DiscordPublicKey()
	if err != nil {
		log.Fatal(err)
	}

	pollService := services.NewPollService(discord.NewMessenger(session), results, guard, log)
	resultService := services.NewResultService(results)
	dispatcher := interaction.NewDispatcher(pollService, pending, log)

	var auth *http.TokenAuth
	if cfg.API.JWTSecret != "" {
		if auth, err = http.NewTokenAuth(cfg.API.JWTSecret); err != nil {
			log.Fatal(err)
		}
	} else {
		log.Warn("API_JWT_SECRET is not set, the results API is disabled")
	}

	handler := http.NewHandler(
		http.NewInteractionHandler(dispatcher, publicKey, log),
		http.NewResultHandler(resultService),
		auth,
	)
	server := newServer(cfg.HTTPAddr, handler)

	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Info("Gracefully shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err)
	}
}

// newServer keeps WriteTimeout above the router's 30 second request timeout.
func newServer(addr string, handler stdhttp.Handler) *stdhttp.Server {
	return &stdhttp.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      35 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}

func openResultStore(ctx context.Context, cfg *config.Config) (*sql.DB, ports.PollResultRepository, error) {
	if cfg.Store.Driver == "sqlite" {
		db, err := sqlite.Open(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return db, sqlite.NewPollResultRepository(db), nil
	}

	db, err := sql.Open("postgres", cfg.Postgres.ConnString())
	if err != nil {
		return nil, nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to reach postgres: %w", err)
	}
	return db, postgres.NewPollResultRepository(db), nil
}

// openPollCaches falls back to in-process stores when no redis is configured,
// which only works with a single server instance.
func openPollCaches(cfg *config.Config) (ports.PendingPollStore, ports.CloseGuard, func(), error) {
	if cfg.Redis.Addr == "" {
		return memory.NewPendingPollStore(cfg.Store.PendingTTL), memory.NewCloseGuard(cfg.Store.PendingTTL), func() {}, nil
	}

	client, err := redis.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, nil, nil, err
	}
	closeClient := func() { client.Close() }
	return redis.NewPendingPollStore(client, cfg.Store.PendingTTL), redis.NewCloseGuard(client, cfg.Store.PendingTTL), closeClient, nil
}
