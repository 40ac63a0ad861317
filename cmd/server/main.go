package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/fancard/internal/db"
	"github.com/Nixie-Tech-LLC/fancard/internal/gateway"
	"github.com/Nixie-Tech-LLC/fancard/internal/id"
	"github.com/Nixie-Tech-LLC/fancard/internal/notify"
	"github.com/Nixie-Tech-LLC/fancard/internal/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := LoadEnvironment()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// initialize PostgreSQL
	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db init")
	}
	defer conn.Close()

	// run pending migrations
	if err := db.RunMigrations(ctx, conn, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}
	store := db.NewStore(conn)

	var opts []gateway.Option
	if cfg.RedisAddress != "" {
		rdb := redis.NewClient(cfg.RedisAddress, cfg.RedisUsername, cfg.RedisPassword)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("[redis] ping failed, published pages will not be cached")
		} else {
			opts = append(opts, gateway.WithCache(redis.NewPageCache(rdb, cfg.PreviewCacheTTL)))
		}
	}
	if cfg.MQTTBrokerURL != "" {
		clientID, err := id.Generate("fancard-server")
		if err == nil {
			var client mqtt.Client
			client, err = notify.Connect(cfg.MQTTBrokerURL, clientID)
			if err == nil {
				defer client.Disconnect(250)
				opts = append(opts, gateway.WithNotifier(notify.NewMQTTNotifier(client)))
			}
		}
		if err != nil {
			log.Warn().Err(err).Msg("[mqtt] publish events disabled")
		}
	}
	pages := gateway.New(store, opts...)

	if !cfg.Development() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	RegisterRoutes(r, cfg, store, pages, InitStorage(cfg))

	srv := &http.Server{Addr: cfg.ServerAddress, Handler: r}
	go func() {
		log.Info().Str("address", cfg.ServerAddress).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
