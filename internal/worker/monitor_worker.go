package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/quizdesk/quizdesk-backend/internal/config"
	"github.com/quizdesk/quizdesk-backend/internal/service"
)

const (
	MonitorPollTimeout = 1 * time.Second
)

// MonitorWorker drains attempt lifecycle events from the monitor queue and
// fans them out to the quiz's pub/sub channel, where live monitor
// connections pick them up.
type MonitorWorker struct {
	rdb *redis.Client
	log zerolog.Logger
}

func NewMonitorWorker(rdb *redis.Client, log zerolog.Logger) *MonitorWorker {
	return &MonitorWorker{
		rdb: rdb,
		log: log.With().Str("component", "monitor_worker").Logger(),
	}
}

// ----------------------------------------------------------------
// Worker loop
// ----------------------------------------------------------------

func (w *MonitorWorker) Start(ctx context.Context) {
	w.log.Info().Msg("MonitorWorker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. MonitorWorker stopping...")
			return

		default:
			item, err := w.rdb.BLPop(ctx, MonitorPollTimeout, config.WorkerKey.MonitorEventsQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var ev service.MonitorEvent
			if err := json.Unmarshal([]byte(item[1]), &ev); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			w.publish(ctx, item[1], ev)
		}
	}
}

// publish fans the raw event out to the quiz's channel. A failed publish is
// requeued once so a Redis hiccup does not drop the event.
func (w *MonitorWorker) publish(ctx context.Context, raw string, ev service.MonitorEvent) {
	channel := config.CacheKey.QuizMonitorChannel(ev.QuizID)

	if err := w.rdb.Publish(ctx, channel, raw).Err(); err != nil {
		w.log.Warn().
			Err(err).
			Str("quiz_id", ev.QuizID).
			Str("type", ev.Type).
			Msg("Publish failed — requeueing event")
		w.rdb.RPush(ctx, config.WorkerKey.MonitorEventsQueue, raw)
		return
	}

	w.log.Debug().
		Str("quiz_id", ev.QuizID).
		Str("type", ev.Type).
		Msg("Monitor event published")
}
