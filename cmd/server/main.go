package main

import (
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/lumacast/lumacast/internal/config"
	"github.com/lumacast/lumacast/internal/db"
	"github.com/lumacast/lumacast/internal/mqtt"
	"github.com/lumacast/lumacast/internal/redis"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	conn, err := db.Init(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db init")
	}

	if err := db.RunMigrations(conn, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}

	store := db.NewStore(conn)
	cache := redis.New(cfg.RedisAddress, cfg.RedisUsername, cfg.RedisPassword)

	broker, err := mqtt.New(cfg.MQTTBrokerURL, "lumacast-server")
	if err != nil {
		// pushes are a latency optimization; displays still poll
		log.Warn().Err(err).Msg("MQTT unavailable, continuing without push refresh")
		broker = nil
	}

	uploads := initStorage(cfg)

	r := gin.Default()
	registerRoutes(r, cfg, store, cache, broker, uploads)

	log.Info().Str("address", cfg.ServerAddress).Msg("listening")
	if err := r.Run(cfg.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
