package config

import (
	"fmt"
	"os"
)

// Config holds environment-based settings for the API server.
type Config struct {
	DatabaseURL    string
	MigrationsPath string
	ServerAddress  string

	// Auth: either the provider's JWT secret for local verification, or
	// the provider URL + api key for remote verification.
	AuthJWTSecret string
	AuthURL       string
	AuthAPIKey    string

	// RebookCancelled frees a cancelled slot for re-allocation. Off by
	// default: a cancelled booking keeps blocking its slot.
	RebookCancelled bool

	RedisAddress  string
	RedisUsername string
	RedisPassword string

	MQTTBroker string
}

// Load reads server configuration from environment variables.
func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	jwtSecret := os.Getenv("AUTH_JWT_SECRET")
	authURL := os.Getenv("AUTH_URL")
	if jwtSecret == "" && authURL == "" {
		return nil, fmt.Errorf("either AUTH_JWT_SECRET or AUTH_URL is required")
	}

	addr := os.Getenv("SERVER_ADDRESS")
	if addr == "" {
		addr = ":8080"
	}
	migrations := os.Getenv("MIGRATIONS_PATH")
	if migrations == "" {
		migrations = "./migrations"
	}

	return &Config{
		DatabaseURL:     dbURL,
		MigrationsPath:  migrations,
		ServerAddress:   addr,
		AuthJWTSecret:   jwtSecret,
		AuthURL:         authURL,
		AuthAPIKey:      os.Getenv("AUTH_API_KEY"),
		RebookCancelled: os.Getenv("REBOOK_CANCELLED") == "true",
		RedisAddress:    os.Getenv("REDIS_ADDRESS"),
		RedisUsername:   os.Getenv("REDIS_USERNAME"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		MQTTBroker:      os.Getenv("MQTT_BROKER"),
	}, nil
}

// StreamerConfig holds settings for the dispatch trigger binary.
type StreamerConfig struct {
	DatabaseURL string

	StreamKey string
	IngestURL string
	FFmpeg    string

	// Timezone decides what "today" means when resolving the due item.
	Timezone string

	// Cron specs for daemon mode.
	MorningCron string
	EveningCron string

	MQTTBroker string
}

// LoadStreamer reads dispatch configuration. The stream key is deliberately
// not validated here: a missing key is only fatal once something is due.
func LoadStreamer() (*StreamerConfig, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	ingest := os.Getenv("STREAM_INGEST_URL")
	if ingest == "" {
		ingest = "rtmp://a.rtmp.youtube.com/live2"
	}
	ffmpeg := os.Getenv("FFMPEG_PATH")
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}
	tz := os.Getenv("TIMEZONE")
	if tz == "" {
		tz = "UTC"
	}
	morning := os.Getenv("MORNING_CRON")
	if morning == "" {
		morning = "0 7 * * *"
	}
	evening := os.Getenv("EVENING_CRON")
	if evening == "" {
		evening = "0 19 * * *"
	}

	return &StreamerConfig{
		DatabaseURL: dbURL,
		StreamKey:   os.Getenv("STREAM_KEY"),
		IngestURL:   ingest,
		FFmpeg:      ffmpeg,
		Timezone:    tz,
		MorningCron: morning,
		EveningCron: evening,
		MQTTBroker:  os.Getenv("MQTT_BROKER"),
	}, nil
}
