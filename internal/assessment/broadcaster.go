package assessment

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	ws "github.com/gokatarajesh/lms-platform/pkg/http/ws"
)

const defaultEventsChannel = "quiz:events"

// Publisher writes quiz events to a Redis Pub/Sub channel.
type Publisher struct {
	redis   redis.UniversalClient
	channel string
}

var _ EventPublisher = (*Publisher)(nil)

// NewPublisher publishes quiz events on the given Redis channel.
func NewPublisher(client redis.UniversalClient, channel string) *Publisher {
	if channel == "" {
		channel = defaultEventsChannel
	}
	return &Publisher{redis: client, channel: channel}
}

// PublishSaved announces a saved quiz to every API instance.
func (p *Publisher) PublishSaved(ctx context.Context, evt ws.QuizSavedPayload) error {
	raw, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return p.redis.Publish(ctx, p.channel, raw).Err()
}

// Broadcaster listens for quiz events on Redis Pub/Sub and forwards them to the
// WebSocket clients following that quiz.
type Broadcaster struct {
	redis   redis.UniversalClient
	hub     *ws.Hub
	channel string
	logger  zerolog.Logger
	ready   chan struct{}
}

// NewBroadcaster creates a Pub/Sub powered quiz event broadcaster.
func NewBroadcaster(client redis.UniversalClient, hub *ws.Hub, channel string, logger zerolog.Logger) *Broadcaster {
	if channel == "" {
		channel = defaultEventsChannel
	}
	return &Broadcaster{
		redis:   client,
		hub:     hub,
		channel: channel,
		logger:  logger.With().Str("component", "quiz_broadcaster").Logger(),
		ready:   make(chan struct{}),
	}
}

// Ready is closed once the subscription is confirmed.
func (b *Broadcaster) Ready() <-chan struct{} {
	return b.ready
}

// Run subscribes to the events channel and blocks until the context is cancelled.
func (b *Broadcaster) Run(ctx context.Context) error {
	if b.redis == nil || b.hub == nil {
		return nil
	}

	sub := b.redis.Subscribe(ctx, b.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	close(b.ready)
	b.logger.Info().Str("channel", b.channel).Msg("subscribed to quiz events")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			b.forward(msg.Payload)
		}
	}
}

func (b *Broadcaster) forward(payload string) {
	var evt ws.QuizSavedPayload
	if err := json.Unmarshal([]byte(payload), &evt); err != nil {
		b.logger.Warn().Err(err).Msg("failed to decode quiz event payload")
		return
	}

	msg, err := ws.NewMessage(ws.TypeQuizSaved, evt)
	if err != nil {
		b.logger.Warn().Err(err).Msg("failed to build quiz_saved message")
		return
	}
	sent, err := b.hub.Broadcast(ws.QuizTopic(evt.ResourceID), msg)
	if err != nil {
		b.logger.Warn().Err(err).Int64("resource_id", evt.ResourceID).Msg("failed to broadcast quiz_saved")
	}
	b.logger.Debug().Int64("resource_id", evt.ResourceID).Int("recipients", sent).Msg("quiz_saved forwarded")
}
