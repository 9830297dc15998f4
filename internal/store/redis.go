package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"autosync/serving/internal/config"
	"autosync/serving/internal/domain"
)

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(ctx context.Context, cfg *config.Config) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStore) Client() *redis.Client {
	return r.client
}

// MirrorState writes the latest emitted reading for a session into a short
// lived hash and publishes it on the live channel, so an external dashboard
// can follow the replay without holding the websocket.
func (r *RedisStore) MirrorState(ctx context.Context, sessionID string, reading domain.Reading) error {
	stateData := map[string]interface{}{
		"session_id": sessionID,
		"timestamp":  reading.Timestamp,
		"rpm":        reading.RPM,
		"speed":      reading.Speed,
		"temp":       reading.Temp,
		"dtc":        reading.FaultCode(),
		"alert":      reading.Alert,
	}

	pubPayload, err := json.Marshal(stateData)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	stateKey := fmt.Sprintf("session:%s:state", sessionID)

	pipe := r.client.Pipeline()
	pipe.HSet(ctx, stateKey, stateData)
	pipe.Expire(ctx, stateKey, 30*time.Second)
	pipe.Publish(ctx, "telemetry:live", pubPayload)

	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("redis pipeline failed: %w", err)
	}

	return nil
}

// PublishEscalation pushes a fired escalation onto the event channel.
func (r *RedisStore) PublishEscalation(ctx context.Context, ev domain.EscalationEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal escalation: %w", err)
	}
	return r.client.Publish(ctx, "telemetry:escalations", payload).Err()
}
