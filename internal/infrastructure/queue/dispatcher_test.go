package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mbotrack/mbo-tracker/internal/core/ports"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []ports.Email
}

func (m *recordingMailer) Send(_ context.Context, msg ports.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func TestMailDispatcher_DeliversAll(t *testing.T) {
	mailer := &recordingMailer{}
	d := NewMailDispatcher(4, mailer, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	var batch []ports.Email
	for i := 0; i < 50; i++ {
		batch = append(batch, ports.Email{
			To:      []string{fmt.Sprintf("user%d@example.com", i)},
			Subject: "reminder",
		})
	}
	d.EnqueueBatch(batch)
	d.Wait()

	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	if len(mailer.sent) != 50 {
		t.Fatalf("delivered %d of 50 messages", len(mailer.sent))
	}
}

func TestMailDispatcher_PerRecipientOrdering(t *testing.T) {
	mailer := &recordingMailer{}
	d := NewMailDispatcher(4, mailer, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	for i := 0; i < 10; i++ {
		d.Enqueue(ports.Email{
			To:      []string{"same@example.com"},
			Subject: fmt.Sprintf("msg-%d", i),
		})
	}
	d.Wait()

	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	for i, msg := range mailer.sent {
		if want := fmt.Sprintf("msg-%d", i); msg.Subject != want {
			t.Fatalf("message %d out of order: got %q, want %q", i, msg.Subject, want)
		}
	}
}

func TestMailDispatcher_ShardIsStable(t *testing.T) {
	d := NewMailDispatcher(8, &recordingMailer{}, zerolog.Nop())
	first := d.shardIndex("alice@example.com")
	for i := 0; i < 100; i++ {
		if got := d.shardIndex("alice@example.com"); got != first {
			t.Fatalf("shard index changed: %d != %d", got, first)
		}
	}
}

func TestMailDispatcher_ShardStaysInRange(t *testing.T) {
	// Worker counts that do not divide 2^32 evenly still must map every
	// hash, including those above MaxInt32, into a valid index.
	for _, workers := range []int{1, 3, 7, 8} {
		d := NewMailDispatcher(workers, &recordingMailer{}, zerolog.Nop())
		for i := 0; i < 1000; i++ {
			idx := d.shardIndex(fmt.Sprintf("user%d@example.com", i))
			if idx < 0 || idx >= workers {
				t.Fatalf("shard index %d out of range for %d workers", idx, workers)
			}
		}
	}
}
