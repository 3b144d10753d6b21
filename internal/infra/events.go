package infra

import (
	"context"
	"encoding/json"

	"ims/internal/dto"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// EventsChannel is the pub/sub channel inventory change events travel on.
const EventsChannel = "ims:inventory"

// EventSink receives decoded change events.
type EventSink interface {
	Notify(ctx context.Context, evt dto.ChangeEvent)
}

// RedisNotifier publishes change events so every server instance sees them.
type RedisNotifier struct {
	rdb     *redis.Client
	channel string
}

func NewRedisNotifier(rdb *redis.Client, channel string) *RedisNotifier {
	if channel == "" {
		channel = EventsChannel
	}
	return &RedisNotifier{rdb: rdb, channel: channel}
}

// Notify publishes evt. Failures are logged; the mutation already committed.
func (n *RedisNotifier) Notify(ctx context.Context, evt dto.ChangeEvent) {
	data, err := json.Marshal(evt)
	if err != nil {
		log.Error().Err(err).Str("kind", evt.Kind).Msg("events: marshal failed")
		return
	}
	if err := n.rdb.Publish(ctx, n.channel, data).Err(); err != nil {
		log.Error().Err(err).Str("channel", n.channel).Str("kind", evt.Kind).Msg("events: publish failed")
	}
}

// RelayEvents forwards every event published on channel to sink until ctx is
// done. It returns once the subscription is confirmed so callers can rely on
// not missing events published afterwards.
func RelayEvents(ctx context.Context, rdb *redis.Client, channel string, sink EventSink) error {
	if channel == "" {
		channel = EventsChannel
	}
	sub := rdb.Subscribe(ctx, channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return err
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		log.Info().Str("channel", channel).Msg("events: relay started")
		for {
			select {
			case <-ctx.Done():
				log.Info().Str("channel", channel).Msg("events: relay stopped")
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var evt dto.ChangeEvent
				if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
					log.Warn().Err(err).Msg("events: dropping malformed message")
					continue
				}
				sink.Notify(ctx, evt)
			}
		}
	}()
	return nil
}
