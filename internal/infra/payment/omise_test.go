//go:build unit

package payment

import (
	"context"
	"errors"
	"testing"

	"parkpass/internal/pkg/config"

	"github.com/google/uuid"
	"github.com/omise/omise-go"
	"github.com/omise/omise-go/operations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOmise struct {
	sourceReq *operations.CreateSource
	chargeReq *operations.CreateCharge
	sourceErr error
	chargeErr error
}

func (f *fakeOmise) CreateSource(req *operations.CreateSource) (*omise.Source, error) {
	f.sourceReq = req
	if f.sourceErr != nil {
		return nil, f.sourceErr
	}
	src := &omise.Source{}
	src.ID = "src_test_1"
	return src, nil
}

func (f *fakeOmise) CreateCharge(req *operations.CreateCharge) (*omise.Charge, error) {
	f.chargeReq = req
	if f.chargeErr != nil {
		return nil, f.chargeErr
	}
	ch := &omise.Charge{AuthorizeURI: "https://pay.omise.co/authorize/1"}
	ch.ID = "chrg_test_1"
	return ch, nil
}

var testPayment = config.PaymentConfig{Currency: "thb", SourceType: "promptpay"}

func TestOmiseGateway_CreateCharge(t *testing.T) {
	api := &fakeOmise{}
	gw := newOmiseGateway(api, testPayment)
	bookingID := uuid.New()

	handle, err := gw.CreateCharge(context.Background(), bookingID, 2000, "driver@example.com")
	require.NoError(t, err)

	assert.Equal(t, "chrg_test_1", handle.Reference)
	assert.Equal(t, "https://pay.omise.co/authorize/1", handle.AuthorizeURL)

	require.NotNil(t, api.sourceReq)
	assert.Equal(t, "promptpay", api.sourceReq.Type)
	assert.Equal(t, int64(2000), api.sourceReq.Amount)
	assert.Equal(t, "thb", api.sourceReq.Currency)

	require.NotNil(t, api.chargeReq)
	assert.Equal(t, "src_test_1", api.chargeReq.Source)
	assert.Equal(t, int64(2000), api.chargeReq.Amount)
	assert.Equal(t, bookingID.String(), api.chargeReq.Metadata["booking_id"])
	assert.Equal(t, "driver@example.com", api.chargeReq.Metadata["email"])
}

func TestOmiseGateway_Failures(t *testing.T) {
	t.Run("zero amount never reaches omise", func(t *testing.T) {
		api := &fakeOmise{}
		_, err := newOmiseGateway(api, testPayment).CreateCharge(context.Background(), uuid.New(), 0, "a@example.com")
		require.Error(t, err)
		assert.Nil(t, api.sourceReq)
	})

	t.Run("source error", func(t *testing.T) {
		api := &fakeOmise{sourceErr: errors.New("invalid source type")}
		_, err := newOmiseGateway(api, testPayment).CreateCharge(context.Background(), uuid.New(), 100, "a@example.com")
		require.Error(t, err)
		assert.Nil(t, api.chargeReq)
	})

	t.Run("charge error", func(t *testing.T) {
		api := &fakeOmise{chargeErr: errors.New("authentication failure")}
		_, err := newOmiseGateway(api, testPayment).CreateCharge(context.Background(), uuid.New(), 100, "a@example.com")
		assert.ErrorContains(t, err, "authentication failure")
	})

	t.Run("cancelled request", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		api := &fakeOmise{}
		_, err := newOmiseGateway(api, testPayment).CreateCharge(ctx, uuid.New(), 100, "a@example.com")
		assert.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, api.sourceReq)
	})
}

func TestNewOmiseGateway_RequiresKeys(t *testing.T) {
	_, err := NewOmiseGateway(testPayment)
	assert.ErrorIs(t, err, ErrGatewayNotConfigured)
}
