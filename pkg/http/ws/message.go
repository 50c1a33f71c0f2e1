package ws

import (
	"encoding/json"
	"fmt"
)

// MessageType constants for the quiz events protocol.
const (
	// Client -> Server
	TypePing = "ping"

	// Server -> Client
	TypeSubscribed = "subscribed"
	TypeQuizSaved  = "quiz_saved"
	TypePong       = "pong"
	TypeError      = "error"
)

// Message wraps all WebSocket payloads with type and optional request ID.
type Message struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	RequestID string          `json:"request_id,omitempty"`
}

// NewMessage marshals payload into a typed message.
func NewMessage(msgType string, payload interface{}) (Message, error) {
	if payload == nil {
		return Message{Type: msgType}, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("marshal %s payload: %w", msgType, err)
	}
	return Message{Type: msgType, Payload: raw}, nil
}

// QuizTopic names the hub topic carrying events for one quiz resource.
func QuizTopic(resourceID int64) string {
	return fmt.Sprintf("quiz:%d", resourceID)
}

type SubscribedPayload struct {
	ResourceID int64 `json:"resource_id"`
}

// QuizSavedPayload is published on Redis Pub/Sub and forwarded as is to subscribers.
type QuizSavedPayload struct {
	ResourceID    int64  `json:"resource_id"`
	UpdatedBy     int64  `json:"updated_by"`
	QuestionCount int    `json:"question_count"`
	TotalPoints   int    `json:"total_points"`
	SavedAt       string `json:"saved_at"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
