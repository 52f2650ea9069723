package notify

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// Channel is the pub/sub channel carrying wallet change events. UI layers
// subscribe to it explicitly instead of observing the stores; the ledger core
// only publishes.
const Channel = "wallets:changed"

const (
	// KindBalance indicates the wallet balance changed (deposit or withdraw).
	KindBalance = "balance"
	// KindContributors indicates the contributor set changed.
	KindContributors = "contributors"
)

// Event describes a single wallet change.
type Event struct {
	WalletID string `json:"wallet_id"`
	Kind     string `json:"kind"`
	Balance  string `json:"balance,omitempty"`
}

// Publisher delivers wallet change events to downstream subscribers.
type Publisher interface {
	WalletChanged(ctx context.Context, event Event) error
}

// RedisPublisher publishes change events on a Redis pub/sub channel.
type RedisPublisher struct {
	cache *redis.Client
}

// NewRedisPublisher constructs a Redis-backed publisher.
func NewRedisPublisher(cache *redis.Client) *RedisPublisher {
	return &RedisPublisher{cache: cache}
}

// WalletChanged publishes the event as JSON on Channel.
func (p *RedisPublisher) WalletChanged(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.cache.Publish(ctx, Channel, payload).Err()
}

// LoggerPublisher is a stub implementation that writes change events to the
// logger. Used when Redis is not configured.
type LoggerPublisher struct {
	logger *slog.Logger
}

// NewLoggerPublisher constructs a logging publisher stub.
func NewLoggerPublisher(logger *slog.Logger) *LoggerPublisher {
	return &LoggerPublisher{logger: logger}
}

// WalletChanged writes the event to the structured logger.
func (p *LoggerPublisher) WalletChanged(_ context.Context, event Event) error {
	if p == nil || p.logger == nil {
		return nil
	}
	p.logger.Info("wallet changed", "wallet_id", event.WalletID, "kind", event.Kind, "balance", event.Balance)
	return nil
}
