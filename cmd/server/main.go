package main

import (
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/sushant-kumar17/yt-streamer/internal/auth"
	"github.com/sushant-kumar17/yt-streamer/internal/cache"
	"github.com/sushant-kumar17/yt-streamer/internal/config"
	"github.com/sushant-kumar17/yt-streamer/internal/db"
	"github.com/sushant-kumar17/yt-streamer/internal/notify"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	database, err := db.Init(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db init")
	}

	if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}

	store := db.NewStore(database, cfg.RebookCancelled)

	scheduleCache := cache.New(cfg.RedisAddress, cfg.RedisUsername, cfg.RedisPassword)
	events, err := notify.New(cfg.MQTTBroker, "yt-streamer-server")
	if err != nil {
		log.Fatal().Err(err).Msg("mqtt connect")
	}

	r := gin.Default()
	RegisterRoutes(r, store, buildVerifier(cfg), scheduleCache, events)

	log.Info().Str("address", cfg.ServerAddress).Msg("listening")
	if err := r.Run(cfg.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

// buildVerifier picks the token verification mode: local HS256 verification
// when the provider's JWT secret is available, otherwise a round trip to the
// provider for every request.
func buildVerifier(cfg *config.Config) auth.TokenVerifier {
	if cfg.AuthJWTSecret != "" {
		return auth.NewJWTVerifier(cfg.AuthJWTSecret)
	}
	return auth.NewRemoteVerifier(cfg.AuthURL, cfg.AuthAPIKey)
}
