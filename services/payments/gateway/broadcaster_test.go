package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	natsserver "github.com/nats-io/nats-server/v2/test"
	"github.com/nats-io/nats.go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeduno/paygate/internal/pkg/models"
	natspkg "github.com/zeduno/paygate/internal/pkg/nats"
)

var testNatsURL = "nats://127.0.0.1:8371"

func TestMain(m *testing.M) {
	opts := natsserver.DefaultTestOptions
	opts.Port = 8371
	testNatsServer := natsserver.RunServer(&opts)
	code := m.Run()
	testNatsServer.Shutdown()
	os.Exit(code)
}

type recordingNSQ struct {
	mu     sync.Mutex
	topics []string
}

func (r *recordingNSQ) PublishJSON(topic string, message interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.topics = append(r.topics, topic)
	return nil
}

type blockingPublisher struct {
	release chan struct{}
}

func (b *blockingPublisher) Publish(subject string, data []byte) error {
	<-b.release
	return nil
}

func newStatusEvent(orderID, tenantID string) *models.PaymentStatusEvent {
	amount := decimal.NewFromInt(1500)
	return &models.PaymentStatusEvent{
		TransactionID:        uuid.New(),
		TenantID:             tenantID,
		OrderID:              orderID,
		OrderNumber:          "1001",
		Status:               models.TransactionStatusCompleted,
		CheckoutRequestID:    "CHK-1",
		TransactionReference: "QK12AB",
		Amount:               &amount,
		Currency:             "KES",
		Message:              "Payment completed successfully",
		Timestamp:            time.Now(),
	}
}

func TestPaymentBroadcaster_PublishesToOrderAndTenant(t *testing.T) {
	nc, err := natspkg.NewClient(testNatsURL)
	require.NoError(t, err, "Failed to connect to NATS server")
	defer nc.Close()

	orderCh := make(chan *nats.Msg, 1)
	orderSub, err := nc.Subscribe("payments.status.order.order-1", func(msg *nats.Msg) {
		orderCh <- msg
	})
	require.NoError(t, err)
	defer orderSub.Unsubscribe()

	tenantCh := make(chan *nats.Msg, 1)
	tenantSub, err := nc.Subscribe("payments.status.tenant.tenant-1", func(msg *nats.Msg) {
		tenantCh <- msg
	})
	require.NoError(t, err)
	defer tenantSub.Unsubscribe()

	nsq := &recordingNSQ{}
	broadcaster := NewPaymentBroadcaster(nc, nsq, "payment_status", 16)

	event := newStatusEvent("order-1", "tenant-1")
	require.NoError(t, broadcaster.PublishPaymentStatus(context.Background(), event))

	for _, ch := range []chan *nats.Msg{orderCh, tenantCh} {
		select {
		case msg := <-ch:
			var received models.PaymentStatusEvent
			require.NoError(t, json.Unmarshal(msg.Data, &received))
			assert.Equal(t, event.TransactionID, received.TransactionID)
			assert.Equal(t, models.TransactionStatusCompleted, received.Status)
			assert.Equal(t, "QK12AB", received.TransactionReference)
			require.NotNil(t, received.Amount)
			assert.True(t, event.Amount.Equal(*received.Amount))
		case <-time.After(2 * time.Second):
			t.Fatal("Timeout waiting for payment status event")
		}
	}

	broadcaster.Close()
	nsq.mu.Lock()
	assert.Equal(t, []string{"payment_status"}, nsq.topics)
	nsq.mu.Unlock()
}

func TestPaymentBroadcaster_DropsWhenFull(t *testing.T) {
	pub := &blockingPublisher{release: make(chan struct{})}
	broadcaster := NewPaymentBroadcaster(pub, nil, "", 1)

	// The worker takes the first event and blocks on it, the second fills the buffer
	require.NoError(t, broadcaster.PublishPaymentStatus(context.Background(), newStatusEvent("o", "")))
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, broadcaster.PublishPaymentStatus(context.Background(), newStatusEvent("o", "")))

	err := broadcaster.PublishPaymentStatus(context.Background(), newStatusEvent("o", ""))
	assert.True(t, errors.Is(err, ErrBroadcastBufferFull))

	close(pub.release)
	broadcaster.Close()

	err = broadcaster.PublishPaymentStatus(context.Background(), newStatusEvent("o", ""))
	assert.True(t, errors.Is(err, ErrBroadcasterClosed))
}
