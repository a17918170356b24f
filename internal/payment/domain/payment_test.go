package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayment_HappyPath(t *testing.T) {
	now := time.Now().UTC()
	p := &Payment{Status: StatusInitiated, Method: MethodCard}

	require.NoError(t, p.Authorize("txn-123"))
	assert.Equal(t, StatusAuthorized, p.Status)
	assert.Equal(t, "txn-123", p.TransactionID)

	require.NoError(t, p.Capture(now))
	assert.Equal(t, StatusCaptured, p.Status)
	require.NotNil(t, p.CompletedAt)

	require.NoError(t, p.MarkRefunded())
	assert.Equal(t, StatusRefunded, p.Status)
}

func TestPayment_CashOnDeliveryCaptureCollapse(t *testing.T) {
	// cash on delivery has no gateway authorization step
	now := time.Now().UTC()
	p := &Payment{Status: StatusInitiated, Method: MethodCashOnDelivery}

	require.NoError(t, p.Capture(now))
	assert.Equal(t, StatusCaptured, p.Status)
}

func TestPayment_CaptureRequiresAuthorization(t *testing.T) {
	now := time.Now().UTC()
	p := &Payment{Status: StatusInitiated, Method: MethodCard}

	assert.ErrorIs(t, p.Capture(now), ErrInvalidTransition)
	assert.Equal(t, StatusInitiated, p.Status)
}

func TestPayment_FailedIsTerminal(t *testing.T) {
	now := time.Now().UTC()
	p := &Payment{Status: StatusInitiated, Method: MethodMobileMoney}

	require.NoError(t, p.Fail())
	assert.Equal(t, StatusFailed, p.Status)

	assert.ErrorIs(t, p.Authorize("txn"), ErrInvalidTransition)
	assert.ErrorIs(t, p.Capture(now), ErrInvalidTransition)
	assert.ErrorIs(t, p.MarkRefunded(), ErrInvalidTransition)
}

func TestPayment_IllegalTransitions(t *testing.T) {
	now := time.Now().UTC()

	p := &Payment{Status: StatusAuthorized}
	assert.ErrorIs(t, p.Fail(), ErrInvalidTransition)
	assert.ErrorIs(t, p.Authorize("txn"), ErrInvalidTransition)

	p = &Payment{Status: StatusCaptured}
	assert.ErrorIs(t, p.Capture(now), ErrInvalidTransition)

	p = &Payment{Status: StatusRefunded}
	assert.ErrorIs(t, p.MarkRefunded(), ErrInvalidTransition)
}

func TestRefund_Workflow(t *testing.T) {
	now := time.Now().UTC()
	r := &Refund{Status: RefundPending}

	require.NoError(t, r.StartProcessing("dan", now))
	assert.Equal(t, RefundProcessing, r.Status)
	assert.Equal(t, "dan", r.ProcessedBy)
	require.NotNil(t, r.ProcessedAt)

	require.NoError(t, r.Complete(now))
	assert.Equal(t, RefundCompleted, r.Status)
	require.NotNil(t, r.CompletedAt)
}

func TestRefund_FailFromEitherSide(t *testing.T) {
	now := time.Now().UTC()

	pending := &Refund{Status: RefundPending}
	require.NoError(t, pending.Fail())
	assert.Equal(t, RefundFailed, pending.Status)

	processing := &Refund{Status: RefundPending}
	require.NoError(t, processing.StartProcessing("dan", now))
	require.NoError(t, processing.Fail())
	assert.Equal(t, RefundFailed, processing.Status)
}

func TestRefund_IllegalTransitions(t *testing.T) {
	now := time.Now().UTC()

	r := &Refund{Status: RefundPending}
	assert.ErrorIs(t, r.Complete(now), ErrInvalidTransition)

	r = &Refund{Status: RefundCompleted}
	assert.ErrorIs(t, r.Fail(), ErrInvalidTransition)
	assert.ErrorIs(t, r.StartProcessing("dan", now), ErrInvalidTransition)

	r = &Refund{Status: RefundFailed}
	assert.ErrorIs(t, r.StartProcessing("dan", now), ErrInvalidTransition)
}

func TestValidRefundReason(t *testing.T) {
	for _, reason := range []string{
		ReasonCustomerRequest, ReasonDefectiveProduct, ReasonWrongItem,
		ReasonLateDelivery, ReasonOrderCancelled, ReasonOther,
	} {
		assert.True(t, ValidRefundReason(reason), reason)
	}
	assert.False(t, ValidRefundReason("buyer_remorse"))
	assert.False(t, ValidRefundReason(""))
}
