// A headless display player: it drives one screen the way the display
// page does, resolving the active sequence on a schedule poll, cycling
// through items with fades, and announcing presence via heartbeat
// sessions. The render target is the log; a real appliance would swap
// that for an output surface.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/lumacast/lumacast/internal/config"
	"github.com/lumacast/lumacast/internal/db"
	"github.com/lumacast/lumacast/internal/feed"
	"github.com/lumacast/lumacast/internal/mqtt"
	"github.com/lumacast/lumacast/internal/playback"
	"github.com/lumacast/lumacast/internal/presence"
	"github.com/lumacast/lumacast/internal/schedule"
)

func main() {
	screenID := flag.Int("screen", 0, "id of the screen to play")
	flag.Parse()

	_ = godotenv.Load()

	if *screenID == 0 {
		log.Fatal().Msg("-screen is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	conn, err := db.Init(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db init")
	}
	store := db.NewStore(conn)

	displayFeed := feed.NewDisplayFeed(store, *screenID, feed.DefaultInterval)
	poller := schedule.NewPoller(displayFeed.Snapshots(), schedule.DefaultPollInterval)
	sequencer := playback.NewSequencer()

	hostname, _ := os.Hostname()
	tracker := presence.NewTracker(store, *screenID, "lumacast-player/"+hostname, presence.DefaultHeartbeatInterval)
	if err := tracker.Start(); err != nil {
		// presence is advisory; keep playing without it
		log.Error().Err(err).Msg("could not open display session")
	}

	// a broker push just means "re-read the feed now"
	broker, err := mqtt.New(cfg.MQTTBrokerURL, "lumacast-player")
	if err != nil {
		log.Warn().Err(err).Msg("MQTT unavailable, relying on polling alone")
	} else {
		defer broker.Close()
		if err := broker.SubscribeScreenRefresh(*screenID, displayFeed.Refresh); err != nil {
			log.Warn().Err(err).Msg("could not subscribe to refresh topic")
		}
	}

	displayFeed.Start()
	poller.Start()

	go func() {
		for res := range poller.Resolutions() {
			if !res.ScreenFound {
				log.Error().Int("screen_id", *screenID).Msg("screen not found")
				sequencer.SetSequence(nil)
				continue
			}
			if len(res.Sequence) == 0 {
				log.Info().Str("screen", res.Screen.Name).Msg("no content scheduled for this time")
			}
			sequencer.SetSequence(res.Sequence)
		}
	}()

	go func() {
		for frame := range sequencer.Frames() {
			log.Info().
				Int("index", frame.Index).
				Str("title", frame.Item.Title).
				Str("type", frame.Item.Type).
				Bool("fading", frame.Fading).
				Msg("now showing")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	tracker.Stop()
	poller.Stop()
	displayFeed.Cancel()
	sequencer.Stop()
}
