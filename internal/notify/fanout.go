// Package notify bridges recorded pipeline events to the delivery
// channels: the WebSocket hub for connected observers and the webhook
// outbox for registered receivers.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
	"github.com/saturnino-fabrica-de-software/facegate/internal/service"
	"github.com/saturnino-fabrica-de-software/facegate/internal/webhook"
	"github.com/saturnino-fabrica-de-software/facegate/internal/ws"
)

const enqueueTimeout = 5 * time.Second

// Streamer pushes an event to connected live observers.
type Streamer interface {
	Broadcast(eventType ws.EventType, data interface{})
}

// Outbox persists an event for webhook delivery.
type Outbox interface {
	Enqueue(ctx context.Context, eventType string, data interface{}) error
}

// Fanout delivers each notification to every channel. Delivery runs off
// the request path and failures are logged, never returned; the caller
// has already committed its own write by the time fan-out happens.
type Fanout struct {
	stream Streamer
	outbox Outbox
	logger *slog.Logger
	wg     sync.WaitGroup
}

var _ service.Notifier = (*Fanout)(nil)

func NewFanout(stream Streamer, outbox Outbox, logger *slog.Logger) *Fanout {
	return &Fanout{
		stream: stream,
		outbox: outbox,
		logger: logger,
	}
}

func (f *Fanout) VerificationRecorded(event *domain.VerificationEvent) {
	f.stream.Broadcast(ws.EventVerificationRecorded, event)
	f.enqueue(webhook.EventVerificationRecorded, event)
}

func (f *Fanout) IdentityEnrolled(identity *domain.Identity) {
	f.stream.Broadcast(ws.EventIdentityEnrolled, identity)
	f.enqueue(webhook.EventIdentityEnrolled, identity)
}

func (f *Fanout) IdentityDeleted(identity *domain.Identity) {
	f.stream.Broadcast(ws.EventIdentityDeleted, identity)
	f.enqueue(webhook.EventIdentityDeleted, identity)
}

// Wait blocks until in-flight outbox writes finish. Called during
// shutdown so enqueued notifications are not lost with the process.
func (f *Fanout) Wait() {
	f.wg.Wait()
}

func (f *Fanout) enqueue(eventType string, data interface{}) {
	f.wg.Add(1)
	go func() {
		defer f.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), enqueueTimeout)
		defer cancel()

		if err := f.outbox.Enqueue(ctx, eventType, data); err != nil {
			f.logger.Error("failed to enqueue webhook deliveries",
				"event_type", eventType,
				"error", err,
			)
		}
	}()
}
