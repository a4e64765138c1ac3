package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/puviyarasu12/Stream-backend/internal/config"
	"github.com/puviyarasu12/Stream-backend/pkg/logger"
)

// Backbone mirrors room events between hub instances over a redis
// pub/sub channel, so clients connected to different processes see the
// same room traffic. Delivery stays best-effort like the hub itself.
type Backbone struct {
	client     *redis.Client
	channel    string
	instanceID string
	hub        *Hub
}

// envelope is the wire form of a mirrored room event. Origin lets
// subscribers drop their own publications.
type envelope struct {
	Origin  string     `json:"origin"`
	RoomID  string     `json:"roomId"`
	Exclude string     `json:"exclude,omitempty"`
	Message *WSMessage `json:"message"`
}

// NewBackbone connects to redis and verifies the connection.
func NewBackbone(cfg config.RedisConfig, channel, instanceID string) (*Backbone, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Backbone{
		client:     client,
		channel:    channel,
		instanceID: instanceID,
	}, nil
}

// Run subscribes to the channel and replays events from other instances
// into the hub. Blocks until ctx is cancelled.
func (b *Backbone) Run(ctx context.Context, hub *Hub) {
	b.hub = hub

	pubsub := b.client.Subscribe(ctx, b.channel)
	defer pubsub.Close()

	logger.WithFields(map[string]interface{}{
		"channel":     b.channel,
		"instance_id": b.instanceID,
	}).Info("Relay backbone subscribed")

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			b.replay(msg.Payload)
		}
	}
}

func (b *Backbone) replay(payload string) {
	var env envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		logger.WithError(err).Error("Failed to decode backbone envelope")
		return
	}

	// Our own publication coming back around.
	if env.Origin == b.instanceID {
		return
	}
	if env.Message == nil {
		return
	}

	b.hub.RoomBroadcast <- &RoomMessage{
		RoomID:       env.RoomID,
		Message:      env.Message,
		Exclude:      env.Exclude,
		fromBackbone: true,
	}
}

// Publish mirrors a locally delivered room event onto the channel.
func (b *Backbone) Publish(roomMsg *RoomMessage) {
	env := envelope{
		Origin:  b.instanceID,
		RoomID:  roomMsg.RoomID,
		Exclude: roomMsg.Exclude,
		Message: roomMsg.Message,
	}

	data, err := json.Marshal(env)
	if err != nil {
		logger.WithError(err).Error("Failed to encode backbone envelope")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		logger.WithError(err).Error("Failed to publish backbone envelope")
	}
}

// Close releases the redis connection.
func (b *Backbone) Close() error {
	return b.client.Close()
}
