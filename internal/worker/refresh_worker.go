package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/acadsys/acadsys-backend/internal/config"
	"github.com/acadsys/acadsys-backend/internal/service"
)

// RefreshWorker keeps this instance's classroom cache in step with
// mutations performed elsewhere: it reloads the touched collection on
// change events from the Redis channel and runs a periodic full reload as
// a safety net. Mutations made through this instance already reload
// synchronously; the worker only covers the rest.
type RefreshWorker struct {
	classroom *service.ClassroomService
	rdb       *redis.Client
	interval  time.Duration
	log       zerolog.Logger
}

// NewRefreshWorker creates a RefreshWorker. A zero interval disables the
// periodic pass.
func NewRefreshWorker(classroom *service.ClassroomService, rdb *redis.Client, interval time.Duration, log zerolog.Logger) *RefreshWorker {
	return &RefreshWorker{
		classroom: classroom,
		rdb:       rdb,
		interval:  interval,
		log:       log.With().Str("component", "refresh_worker").Logger(),
	}
}

// Start begins the worker loop. Call in a goroutine; it returns when ctx
// is cancelled.
func (w *RefreshWorker) Start(ctx context.Context) {
	w.log.Info().Dur("interval", w.interval).Msg("Worker started")

	sub := w.rdb.Subscribe(ctx, config.CacheKey.ChangeChannel())
	defer sub.Close()
	events := sub.Channel()

	var ticker *time.Ticker
	var tick <-chan time.Time
	if w.interval > 0 {
		ticker = time.NewTicker(w.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopped")
			return
		case msg, ok := <-events:
			if !ok {
				w.log.Warn().Msg("Change channel closed")
				return
			}
			w.handleEvent(ctx, msg.Payload)
		case <-tick:
			if err := w.classroom.LoadAll(ctx); err != nil {
				w.log.Error().Err(err).Msg("Periodic reload failed")
			}
		}
	}
}

func (w *RefreshWorker) handleEvent(ctx context.Context, payload string) {
	var ev service.ChangeEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		w.log.Warn().Err(err).Msg("Bad change event payload")
		return
	}

	if err := w.classroom.Reload(ctx, ev.Collection); err != nil {
		w.log.Error().Err(err).Str("collection", ev.Collection).Msg("Reload on change event failed")
	}
}
