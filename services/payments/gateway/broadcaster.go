package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/zeduno/paygate/internal/pkg/constants"
	"github.com/zeduno/paygate/internal/pkg/logger"
	"github.com/zeduno/paygate/internal/pkg/models"
	"go.uber.org/multierr"
)

// ErrBroadcastBufferFull is returned when an event is dropped because the worker is behind
var ErrBroadcastBufferFull = errors.New("broadcast buffer full, event dropped")

// ErrBroadcasterClosed is returned for events published after Close
var ErrBroadcasterClosed = errors.New("broadcaster closed")

// NATSPublisher publishes raw messages to NATS subjects
type NATSPublisher interface {
	Publish(subject string, data []byte) error
}

// NSQPublisher publishes JSON messages to an NSQ topic
type NSQPublisher interface {
	PublishJSON(topic string, message interface{}) error
}

// PaymentBroadcaster fans payment status events out to order and tenant subscribers.
// Publishing happens on a single worker fed by a bounded queue so the ledger never waits on it.
type PaymentBroadcaster struct {
	nats     NATSPublisher
	nsq      NSQPublisher
	nsqTopic string

	queue chan *models.PaymentStatusEvent
	done  chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewPaymentBroadcaster starts the publishing worker. nsq may be nil.
func NewPaymentBroadcaster(natsPub NATSPublisher, nsqPub NSQPublisher, nsqTopic string, buffer int) *PaymentBroadcaster {
	if buffer <= 0 {
		buffer = 256
	}
	b := &PaymentBroadcaster{
		nats:     natsPub,
		nsq:      nsqPub,
		nsqTopic: nsqTopic,
		queue:    make(chan *models.PaymentStatusEvent, buffer),
		done:     make(chan struct{}),
	}
	go b.run()
	return b
}

// PublishPaymentStatus enqueues the event, dropping it with a warning when the queue is full
func (b *PaymentBroadcaster) PublishPaymentStatus(ctx context.Context, event *models.PaymentStatusEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrBroadcasterClosed
	}

	select {
	case b.queue <- event:
		return nil
	default:
		logger.WarnCtx(ctx, "Dropping payment status event, broadcast buffer full",
			logger.TransactionID(event.TransactionID.String()),
			logger.String("order_id", event.OrderID),
			logger.String("status", string(event.Status)))
		return ErrBroadcastBufferFull
	}
}

// Close stops accepting events and waits for queued ones to be published
func (b *PaymentBroadcaster) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	close(b.queue)
	b.mu.Unlock()

	<-b.done
}

func (b *PaymentBroadcaster) run() {
	defer close(b.done)
	for event := range b.queue {
		if err := b.publish(event); err != nil {
			logger.Error("Failed to broadcast payment status",
				logger.TransactionID(event.TransactionID.String()),
				logger.String("order_id", event.OrderID),
				logger.Err(err))
		}
	}
}

func (b *PaymentBroadcaster) publish(event *models.PaymentStatusEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal payment status event: %w", err)
	}

	var errs error
	if event.OrderID != "" {
		errs = multierr.Append(errs, b.nats.Publish(fmt.Sprintf(constants.SubjectPaymentStatusOrder, event.OrderID), data))
	}
	if event.TenantID != "" {
		errs = multierr.Append(errs, b.nats.Publish(fmt.Sprintf(constants.SubjectPaymentStatusTenant, event.TenantID), data))
	}
	if b.nsq != nil && b.nsqTopic != "" {
		errs = multierr.Append(errs, b.nsq.PublishJSON(b.nsqTopic, event))
	}
	return errs
}
