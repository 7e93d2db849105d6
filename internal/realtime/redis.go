package realtime

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lancerhub/lancerhub_be/internal/logger"
)

const eventsChannel = "lancerhub:events"

// instanceID tags published envelopes so the bridge can skip events this
// process already delivered through its local hub.
var instanceID = uuid.NewString()

// NewRedis creates the Redis client shared by the session cache and the
// realtime bridge.
func NewRedis(addr, password string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
}

type envelope struct {
	Origin  string      `json:"origin"`
	UserIDs []string    `json:"user_ids"`
	Data    interface{} `json:"data"`
}

// PublishToPair pushes an event through Redis so every other API instance
// can deliver it to its local connections; the caller has already delivered
// it through the local hub.
func PublishToPair(ctx context.Context, rdb *redis.Client, a, b string, data interface{}) {
	payload, err := json.Marshal(envelope{Origin: instanceID, UserIDs: []string{a, b}, Data: data})
	if err != nil {
		logger.L().Error("realtime envelope marshal failed", zap.Error(err))
		return
	}
	if err := rdb.Publish(ctx, eventsChannel, payload).Err(); err != nil {
		logger.L().Warn("realtime publish failed", zap.Error(err))
	}
}

// Bridge subscribes to the events channel and forwards each envelope to the
// local hub. Runs until ctx is cancelled.
func Bridge(ctx context.Context, rdb *redis.Client, hub *Hub) {
	sub := rdb.Subscribe(ctx, eventsChannel)
	defer sub.Close()

	for msg := range sub.Channel() {
		deliverEnvelope(hub, []byte(msg.Payload))
	}
}

// deliverEnvelope forwards one envelope to the local hub. Envelopes this
// instance published are skipped; their recipients already got the event
// directly, and forwarding again would double-deliver.
func deliverEnvelope(hub *Hub, payload []byte) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		logger.L().Warn("realtime envelope decode failed", zap.Error(err))
		return
	}
	if env.Origin == instanceID {
		return
	}
	for _, id := range env.UserIDs {
		uid, err := uuid.Parse(id)
		if err != nil {
			continue
		}
		hub.SendToUser(uid, env.Data)
	}
}
