package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/shopworks/auth-system/internal/core/ports"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []ports.EmailNotification
	done chan struct{}
	want int
}

func newRecordingSender(want int) *recordingSender {
	return &recordingSender{done: make(chan struct{}), want: want}
}

func (s *recordingSender) Send(_ context.Context, msg ports.EmailNotification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	if len(s.sent) == s.want {
		close(s.done)
	}
	return nil
}

func TestDispatcher_DeliversEnqueuedMessages(t *testing.T) {
	sender := newRecordingSender(3)
	d := NewDispatcher(2, sender, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Enqueue(ports.EmailNotification{To: "a@x.com", Subject: "s1"})
	d.Enqueue(ports.EmailNotification{To: "b@x.com", Subject: "s2"})
	d.Enqueue(ports.EmailNotification{To: "a@x.com", Subject: "s3"})

	select {
	case <-sender.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for deliveries")
	}

	sender.mu.Lock()
	defer sender.mu.Unlock()
	if len(sender.sent) != 3 {
		t.Fatalf("expected 3 deliveries, got %d", len(sender.sent))
	}
}

func TestDispatcher_ShardIsStablePerRecipient(t *testing.T) {
	d := NewDispatcher(8, newRecordingSender(0), zerolog.Nop())

	first := d.shardIndex("alice@example.com")
	for i := 0; i < 10; i++ {
		if d.shardIndex("alice@example.com") != first {
			t.Fatalf("shard index not deterministic")
		}
	}
}

func TestDispatcher_DefaultWorkerCount(t *testing.T) {
	d := NewDispatcher(0, newRecordingSender(0), zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
}
