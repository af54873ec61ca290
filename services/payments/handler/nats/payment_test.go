package handler

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	natsserver "github.com/nats-io/nats-server/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeduno/paygate/internal/pkg/constants"
	"github.com/zeduno/paygate/internal/pkg/models"
	natspkg "github.com/zeduno/paygate/internal/pkg/nats"
	"github.com/zeduno/paygate/services/payments/mocks"
)

const testPort = 8373

func TestMain(m *testing.M) {
	opts := natsserver.DefaultTestOptions
	opts.Port = testPort
	s := natsserver.RunServer(&opts)
	code := m.Run()
	s.Shutdown()
	os.Exit(code)
}

func newTestClient(t *testing.T) *natspkg.Client {
	client, err := natspkg.NewClient("nats://127.0.0.1:8373")
	require.NoError(t, err)
	t.Cleanup(client.Close)
	return client
}

func TestPaymentHandler_handleOrderCancelled(t *testing.T) {
	tests := []struct {
		name        string
		data        []byte
		setupMock   func(*mocks.MockPaymentUC)
		wantErr     bool
		errContains string
	}{
		{
			name: "cancels open attempts",
			data: []byte(`{"orderId":"order-1","tenantId":"tenant-1","reason":"guest left"}`),
			setupMock: func(uc *mocks.MockPaymentUC) {
				uc.EXPECT().
					CancelOrderPayments(gomock.Any(), &models.OrderCancelledEvent{
						OrderID:  "order-1",
						TenantID: "tenant-1",
						Reason:   "guest left",
					}).
					Return(2, nil)
			},
		},
		{
			name:        "invalid JSON",
			data:        []byte(`{"orderId":`),
			setupMock:   func(uc *mocks.MockPaymentUC) {},
			wantErr:     true,
			errContains: "failed to unmarshal order cancelled event",
		},
		{
			name:        "missing order ID",
			data:        []byte(`{"tenantId":"tenant-1"}`),
			setupMock:   func(uc *mocks.MockPaymentUC) {},
			wantErr:     true,
			errContains: "without orderId",
		},
		{
			name: "usecase failure",
			data: []byte(`{"orderId":"order-2"}`),
			setupMock: func(uc *mocks.MockPaymentUC) {
				uc.EXPECT().CancelOrderPayments(gomock.Any(), gomock.Any()).
					Return(1, errors.New("ledger unavailable"))
			},
			wantErr:     true,
			errContains: "failed to cancel payments for order order-2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockUC := mocks.NewMockPaymentUC(ctrl)
			tt.setupMock(mockUC)

			h := NewPaymentHandler(mockUC, nil, &models.Config{}, nil)
			err := h.handleOrderCancelled(context.Background(), tt.data)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestPaymentHandler_InitNATSConsumers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := newTestClient(t)
	mockUC := mocks.NewMockPaymentUC(ctrl)

	handled := make(chan *models.OrderCancelledEvent, 1)
	mockUC.EXPECT().
		CancelOrderPayments(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, event *models.OrderCancelledEvent) (int, error) {
			handled <- event
			return 1, nil
		}).
		Times(1)

	h := NewPaymentHandler(mockUC, client, &models.Config{}, nil)
	require.NoError(t, h.InitNATSConsumers())
	defer h.Close()
	require.NoError(t, client.GetConn().Flush())

	require.NoError(t, client.PublishJSON(constants.SubjectOrderCancelled, models.OrderCancelledEvent{
		OrderID:  "order-9",
		TenantID: "tenant-1",
		Reason:   "kitchen closed",
	}))

	select {
	case event := <-handled:
		assert.Equal(t, "order-9", event.OrderID)
		assert.Equal(t, "kitchen closed", event.Reason)
	case <-time.After(2 * time.Second):
		t.Fatal("order cancelled event was not handled")
	}
}

func TestPaymentHandler_Close(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := newTestClient(t)
	h := NewPaymentHandler(mocks.NewMockPaymentUC(ctrl), client, &models.Config{}, nil)
	require.NoError(t, h.InitNATSConsumers())
	require.Len(t, h.subs, 1)
	sub := h.subs[0]

	h.Close()

	assert.Nil(t, h.subs)
	assert.False(t, sub.IsValid())
}
