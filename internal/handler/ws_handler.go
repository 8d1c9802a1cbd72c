package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/acadsys/acadsys-backend/internal/config"
	"github.com/acadsys/acadsys-backend/internal/service"
	ws "github.com/acadsys/acadsys-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins; an empty slice
// permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams collection change events to connected clients so their
// cached views know when to reload.
type WSHandler struct {
	rdb      *redis.Client
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(rdb *redis.Client, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		rdb:      rdb,
		log:      log.With().Str("component", "ws_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// ChangeStream godoc
// WS /ws/v1/changes
// Upgrades to WebSocket and forwards every change event published on the
// Redis channel until the client disconnects.
func (h *WSHandler) ChangeStream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()
	sub := h.rdb.Subscribe(ctx, config.CacheKey.ChangeChannel())
	defer sub.Close()

	h.stream(ctx, conn, sub.Channel())
}

// stream forwards change events until the client disconnects. Every frame
// leaves through this loop: gorilla/websocket permits one concurrent
// writer per connection, so pings read by the reader goroutine are
// answered here, not where they arrive.
func (h *WSHandler) stream(ctx context.Context, conn *websocket.Conn, events <-chan *redis.Message) {
	pings := make(chan struct{}, 1)

	// Reader loop: consume client frames so close handling works and
	// hand ping requests to the write loop.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var env ws.RequestEnvelope
			if json.Unmarshal(msg, &env) == nil && env.Action == ws.ActionPing {
				select {
				case pings <- struct{}{}:
				default: // A pong is already pending.
				}
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-pings:
			if err := ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong}); err != nil {
				return
			}
		case msg, ok := <-events:
			if !ok {
				return
			}
			var ev service.ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				h.log.Warn().Err(err).Msg("Bad change event payload")
				continue
			}
			notification := ws.ChangeNotification{
				Event:      ws.EventChange,
				Collection: ev.Collection,
				Action:     ev.Action,
				ID:         ev.ID,
			}
			if err := ws.WriteTyped(conn, notification); err != nil {
				return
			}
		}
	}
}
