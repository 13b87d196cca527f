// The streamer binary is the dispatch trigger: invoked once per slot per day
// (by cron or its own daemon mode), it resolves the due schedule and pipes
// the video into the ingest endpoint via ffmpeg.
//
// Usage:
//
//	streamer morning|evening   run one dispatch attempt and exit
//	streamer daemon            keep running, firing slots on cron schedules
//
// Exit code 0 means the attempt ran or nothing was due; 1 means a missing
// argument, bad configuration, or a dispatch fault.
package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/sushant-kumar17/yt-streamer/internal/config"
	"github.com/sushant-kumar17/yt-streamer/internal/db"
	"github.com/sushant-kumar17/yt-streamer/internal/model"
	"github.com/sushant-kumar17/yt-streamer/internal/notify"
	"github.com/sushant-kumar17/yt-streamer/internal/stream"
)

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		log.Error().Msg("missing slot argument: call with 'morning', 'evening' or 'daemon'")
		os.Exit(1)
	}
	mode := os.Args[1]

	cfg, err := config.LoadStreamer()
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
		os.Exit(1)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Error().Err(err).Str("timezone", cfg.Timezone).Msg("invalid timezone")
		os.Exit(1)
	}

	database, err := db.Init(cfg.DatabaseURL)
	if err != nil {
		log.Error().Err(err).Msg("db init")
		os.Exit(1)
	}
	store := db.NewStore(database, false)

	events, err := notify.New(cfg.MQTTBroker, "yt-streamer-dispatch")
	if err != nil {
		log.Error().Err(err).Msg("mqtt connect")
		os.Exit(1)
	}

	dispatcher := &stream.Dispatcher{
		Store:     store,
		StreamKey: cfg.StreamKey,
		IngestURL: cfg.IngestURL,
		FFmpeg:    cfg.FFmpeg,
		Events:    events,
	}

	if mode == "daemon" {
		runDaemon(cfg, dispatcher, loc)
		return
	}

	slot := model.Slot(mode)
	if !slot.Valid() {
		log.Error().Str("slot", mode).Msg("slot must be 'morning' or 'evening'")
		os.Exit(1)
	}

	if err := dispatcher.Run(context.Background(), slot, today(loc)); err != nil {
		log.Error().Err(err).Str("slot", mode).Msg("dispatch failed")
		os.Exit(1)
	}
}

// runDaemon keeps the process alive and fires each slot on its cron spec,
// for deployments without a system crontab.
func runDaemon(cfg *config.StreamerConfig, d *stream.Dispatcher, loc *time.Location) {
	c := cron.New(cron.WithLocation(loc))

	dispatch := func(slot model.Slot) func() {
		return func() {
			if err := d.Run(context.Background(), slot, today(loc)); err != nil {
				log.Error().Err(err).Str("slot", string(slot)).Msg("dispatch failed")
			}
		}
	}

	if _, err := c.AddFunc(cfg.MorningCron, dispatch(model.SlotMorning)); err != nil {
		log.Error().Err(err).Str("spec", cfg.MorningCron).Msg("invalid morning cron spec")
		os.Exit(1)
	}
	if _, err := c.AddFunc(cfg.EveningCron, dispatch(model.SlotEvening)); err != nil {
		log.Error().Err(err).Str("spec", cfg.EveningCron).Msg("invalid evening cron spec")
		os.Exit(1)
	}

	log.Info().Str("morning", cfg.MorningCron).Str("evening", cfg.EveningCron).
		Str("timezone", loc.String()).Msg("dispatch daemon started")
	c.Run()
}

func today(loc *time.Location) string {
	return time.Now().In(loc).Format("2006-01-02")
}
