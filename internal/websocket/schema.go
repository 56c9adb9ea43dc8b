package websocket

import "github.com/quizdesk/quizdesk-backend/internal/model"

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
	EventError            Event = "error"
	EventPong             Event = "pong"
	EventSnapshot         Event = "snapshot"
	EventAttemptStarted   Event = "attempt_started"
	EventAttemptCompleted Event = "attempt_completed"
)

// SnapshotResponse delivers the quiz's current attempts when a monitor
// connection is established, before live events start streaming.
type SnapshotResponse struct {
	Event    Event           `json:"event"`
	Attempts []model.Attempt `json:"attempts"`
}

// AttemptEventResponse is pushed when a student starts or submits an attempt.
type AttemptEventResponse struct {
	Event       Event  `json:"event"`
	AttemptID   string `json:"attempt_id"`
	StudentID   int    `json:"student_id"`
	StudentName string `json:"student_name"`
	Score       *int   `json:"score,omitempty"`
	OccurredAt  string `json:"occurred_at"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
