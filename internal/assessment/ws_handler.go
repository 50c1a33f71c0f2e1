package assessment

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/lms-platform/internal/auth"
	"github.com/gokatarajesh/lms-platform/internal/metrics"
	httperrors "github.com/gokatarajesh/lms-platform/pkg/http/errors"
	ws "github.com/gokatarajesh/lms-platform/pkg/http/ws"
)

// WSHandler streams quiz_saved events for one quiz resource over a WebSocket.
type WSHandler struct {
	svc      *Service
	hub      *ws.Hub
	upgrader *websocket.Upgrader
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// NewWSHandler creates the quiz event feed handler.
func NewWSHandler(svc *Service, hub *ws.Hub, upgrader *websocket.Upgrader, m *metrics.Metrics, logger zerolog.Logger) *WSHandler {
	return &WSHandler{
		svc:      svc,
		hub:      hub,
		upgrader: upgrader,
		metrics:  m,
		logger:   logger.With().Str("component", "quiz_ws").Logger(),
	}
}

// Register mounts the WebSocket endpoint.
func (h *WSHandler) Register(mux *http.ServeMux) {
	mux.Handle("GET /ws/quizzes", auth.RequireAuth(http.HandlerFunc(h.HandleWebSocket)))
}

// HandleWebSocket handles GET /ws/quizzes?resource_id=..&token=..
func (h *WSHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	resourceID, err := strconv.ParseInt(r.URL.Query().Get("resource_id"), 10, 64)
	if err != nil || resourceID <= 0 {
		httperrors.RespondValidationError(w, httperrors.ErrCodeInvalidID, "resource_id must be a positive integer", "resource_id")
		return
	}
	if _, err := h.svc.Load(r.Context(), resourceID); err != nil {
		respondError(w, r, err)
		return
	}

	raw, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	p := auth.PrincipalFromContext(r.Context())
	connID := uuid.New()
	logger := h.logger.With().
		Str("conn_id", connID.String()).
		Int64("user_id", p.UserID).
		Int64("resource_id", resourceID).
		Logger()

	conn := ws.NewConnection(raw, logger)
	h.hub.Register(connID, conn)
	h.hub.Subscribe(ws.QuizTopic(resourceID), connID)
	h.metrics.ConnOpened()
	defer func() {
		h.hub.Unregister(connID)
		h.metrics.ConnClosed()
	}()

	go conn.WritePump()

	if msg, err := ws.NewMessage(ws.TypeSubscribed, ws.SubscribedPayload{ResourceID: resourceID}); err == nil {
		_ = conn.Send(msg)
	}

	conn.ReadPump(func(msg ws.Message) error {
		switch msg.Type {
		case ws.TypePing:
			return conn.Send(ws.Message{Type: ws.TypePong, RequestID: msg.RequestID})
		default:
			reply, err := ws.NewMessage(ws.TypeError, ws.ErrorPayload{
				Code:    "unknown_message",
				Message: "unsupported message type " + strconv.Quote(msg.Type),
			})
			if err != nil {
				return err
			}
			reply.RequestID = msg.RequestID
			return conn.Send(reply)
		}
	})
}
