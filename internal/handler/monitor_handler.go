package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/quizdesk/quizdesk-backend/internal/config"
	"github.com/quizdesk/quizdesk-backend/internal/middleware"
	"github.com/quizdesk/quizdesk-backend/internal/response"
	"github.com/quizdesk/quizdesk-backend/internal/service"
	ws "github.com/quizdesk/quizdesk-backend/internal/websocket"
)

const keepAliveInterval = 30 * time.Second

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins slice permits all origins (development mode).
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

// MonitorHandler streams live attempt activity to the quiz owner over
// WebSocket, fed by the monitor worker's pub/sub channel.
type MonitorHandler struct {
	rdb            *redis.Client
	quizService    *service.QuizService
	attemptService *service.AttemptService
	log            zerolog.Logger
	upgrader       websocket.Upgrader
}

// NewMonitorHandler creates a new MonitorHandler.
func NewMonitorHandler(
	rdb *redis.Client,
	quizService *service.QuizService,
	attemptService *service.AttemptService,
	log zerolog.Logger,
	allowedOrigins []string,
) *MonitorHandler {
	return &MonitorHandler{
		rdb:            rdb,
		quizService:    quizService,
		attemptService: attemptService,
		log:            log.With().Str("component", "monitor_handler").Logger(),
		upgrader:       buildUpgrader(allowedOrigins),
	}
}

// MonitorQuiz godoc
// WS /ws/v1/teacher/quizzes/:quiz_id/monitor
// Upgrades to WebSocket; sends a snapshot of current attempts, then
// streams attempt_started / attempt_completed events as they happen.
func (h *MonitorHandler) MonitorQuiz(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	quizID, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	// Only the quiz owner may watch its monitor.
	if _, err := h.quizService.GetForOwner(c.Request.Context(), quizID, claims.UserID); err != nil {
		failQuiz(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().
		Int("teacher_id", claims.UserID).
		Str("quiz_id", quizID.String()).
		Logger()

	wsLog.Info().Msg("Teacher attached to live monitor")

	reqCtx := c.Request.Context()

	// Snapshot first, so the client has state before live events arrive.
	attempts, err := h.attemptService.ListByQuiz(reqCtx, quizID)
	if err != nil {
		ws.WriteError(conn, "failed to load attempts")
		return
	}
	if err := ws.WriteTyped(conn, ws.SnapshotResponse{Event: ws.EventSnapshot, Attempts: attempts}); err != nil {
		return
	}

	pubsub := h.rdb.Subscribe(reqCtx, config.CacheKey.QuizMonitorChannel(quizID.String()))
	defer pubsub.Close()
	events := pubsub.Channel()

	// Reader goroutine: only pings are expected from the client. A read
	// error means the peer went away and the main loop should stop.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var msg ws.RequestEnvelope
			if err := ws.ReadJSON(conn, &msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					wsLog.Warn().Err(err).Msg("Unexpected close")
				}
				return
			}
			if msg.Action == ws.ActionPing {
				ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
			}
		}
	}()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-reqCtx.Done():
			wsLog.Info().Msg("Teacher disconnected from live monitor")
			return

		case <-done:
			wsLog.Debug().Msg("Monitor connection closed by peer")
			return

		case msg := <-events:
			if err := h.forwardEvent(conn, msg.Payload); err != nil {
				wsLog.Debug().Err(err).Msg("Monitor write failed")
				return
			}

		case <-keepAlive.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		}
	}
}

func (h *MonitorHandler) forwardEvent(conn *websocket.Conn, payload string) error {
	var ev service.MonitorEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		h.log.Warn().Err(err).Msg("Malformed monitor event")
		return nil
	}

	event := ws.EventAttemptStarted
	if ev.Type == service.MonitorEventCompleted {
		event = ws.EventAttemptCompleted
	}

	return ws.WriteTyped(conn, ws.AttemptEventResponse{
		Event:       event,
		AttemptID:   ev.AttemptID,
		StudentID:   ev.StudentID,
		StudentName: ev.StudentName,
		Score:       ev.Score,
		OccurredAt:  ev.At.Format(time.RFC3339),
	})
}
