// Command eventlog consumes the domain event queues and appends one line
// per event to logs/events.log.  It runs next to the API, not inside it.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/iliyamo/cinema-showtimes/internal/config"
	"github.com/iliyamo/cinema-showtimes/internal/logging"
	"github.com/iliyamo/cinema-showtimes/internal/queue"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logging.Warn().Err(err).Msg("read .env")
	}
	logging.Init(logging.Config{Level: os.Getenv("LOG_LEVEL"), Format: os.Getenv("LOG_FORMAT")})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &queue.Consumer{URL: config.LoadQueueConfig().URL, LogPath: os.Getenv("EVENT_LOG_PATH")}
	logging.Info().Msg("event consumer started")
	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Fatal().Err(err).Msg("event consumer")
	}
}
