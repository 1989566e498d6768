// Package queue fans bulk email out across a fixed set of workers. Used
// by the quarter-end reminder, which mails every user in one run.
package queue

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mbotrack/mbo-tracker/internal/core/ports"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// MailDispatcher routes outbound messages to a fixed set of workers using
// consistent hashing on the first recipient, so all mail for one address
// leaves in submission order.
type MailDispatcher struct {
	workers []chan ports.Email
	pending sync.WaitGroup
	mailer  ports.Mailer
	log     zerolog.Logger
}

// NewMailDispatcher creates a dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewMailDispatcher(numWorkers int, mailer ports.Mailer, log zerolog.Logger) *MailDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &MailDispatcher{
		workers: make([]chan ports.Email, numWorkers),
		mailer:  mailer,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.Email, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *MailDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands one message to the worker responsible for its recipient.
// Blocks only when that worker's buffer is full.
func (d *MailDispatcher) Enqueue(msg ports.Email) {
	d.pending.Add(1)
	d.workers[d.shardIndex(recipientKey(msg))] <- msg
}

// EnqueueBatch enqueues multiple messages preserving per-recipient order.
func (d *MailDispatcher) EnqueueBatch(msgs []ports.Email) {
	for _, m := range msgs {
		d.Enqueue(m)
	}
}

// Wait blocks until every enqueued message has been processed. Intended
// for tests and for draining before shutdown.
func (d *MailDispatcher) Wait() {
	d.pending.Wait()
}

func recipientKey(msg ports.Email) string {
	if len(msg.To) > 0 {
		return msg.To[0]
	}
	return ""
}

// shardIndex maps a recipient deterministically to a worker index. The
// modulo runs on uint32 so the result stays in range on 32-bit ints.
func (d *MailDispatcher) shardIndex(recipient string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(recipient))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *MailDispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.Email) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := d.mailer.Send(ctx, msg); err != nil {
				d.log.Error().Err(err).
					Strs("to", msg.To).
					Int("worker_id", id).
					Msg("bulk mail delivery failed")
			}
			d.pending.Done()
		}
	}
}
