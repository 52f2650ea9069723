package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRedisPublisherDeliversEvents(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer cache.Close()

	ctx := context.Background()
	sub := cache.Subscribe(ctx, Channel)
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	pub := NewRedisPublisher(cache)
	want := Event{WalletID: "w1", Kind: KindBalance, Balance: "1500000000000000000"}
	if err := pub.WalletChanged(ctx, want); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case msg := <-sub.Channel():
		var got Event
		if err := json.Unmarshal([]byte(msg.Payload), &got); err != nil {
			t.Fatalf("decode event: %v", err)
		}
		if got != want {
			t.Fatalf("got event %+v, want %+v", got, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}
}

func TestLoggerPublisherIsSafeWithoutLogger(t *testing.T) {
	var p *LoggerPublisher
	if err := p.WalletChanged(context.Background(), Event{WalletID: "w1"}); err != nil {
		t.Fatalf("nil publisher should no-op, got %v", err)
	}
}
