package websocket

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventChange Event = "change"
	EventError  Event = "error"
	EventPong   Event = "pong"
)

// ChangeNotification tells a connected client that a collection mutated
// and its local view should reload.
type ChangeNotification struct {
	Event      Event  `json:"event"`
	Collection string `json:"collection"`
	Action     string `json:"action"`
	ID         string `json:"id"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
