package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	invdomain "github.com/boutiquegn/backoffice/internal/inventory/domain"
	invcommand "github.com/boutiquegn/backoffice/internal/inventory/usecase/command"
	orderdomain "github.com/boutiquegn/backoffice/internal/order/domain"
	ordercommand "github.com/boutiquegn/backoffice/internal/order/usecase/command"
	"github.com/boutiquegn/backoffice/internal/payment/domain"
	"github.com/boutiquegn/backoffice/kafka"
)

// seedCapturedOrder runs the real capture path so the ledger, order and
// payment are in the exact state a refund finds them in.
func seedCapturedOrder(t *testing.T, f *fixture) (*orderdomain.Order, *domain.Payment) {
	t.Helper()
	ctx := context.Background()
	f.seedStock(t, 1, 10)
	order := f.seedPendingOrder(t, orderdomain.OrderItem{ProductID: 1, Quantity: 3, Price: 150000})
	payment := f.seedPayment(t, order, domain.MethodCard, domain.StatusAuthorized)
	capture := NewCapturePaymentHandler(f.txm, f.orderEvents, f.audits)
	require.NoError(t, capture.Handle(ctx, CapturePaymentCommand{PaymentID: payment.ID, Actor: "ops"}))
	f.audits.records = nil
	f.orderEvents.events = nil
	return order, payment
}

func TestRequestRefund(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	order, payment := seedCapturedOrder(t, f)
	handler := NewRequestRefundHandler(f.payments, f.refunds, f.refundEvents, f.audits)

	refund, err := handler.Handle(ctx, RequestRefundCommand{
		OrderID:     order.ID,
		Reason:      domain.ReasonDefectiveProduct,
		RequestedBy: "fatou",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.RefundPending, refund.Status)
	assert.Equal(t, payment.Amount, refund.Amount, "zero amount defaults to the full payment")
	assert.Equal(t, payment.ID, refund.PaymentID)
	assert.False(t, refund.StockRestored)

	require.Len(t, f.refundEvents.events, 1)
	assert.Equal(t, kafka.EventTypeRefundRequested, f.refundEvents.events[0].EventType)
	assert.Equal(t, []string{"refund.request"}, f.audits.actions())
}

func TestRequestRefund_PartialAmount(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	order, payment := seedCapturedOrder(t, f)
	handler := NewRequestRefundHandler(f.payments, f.refunds, f.refundEvents, f.audits)

	refund, err := handler.Handle(ctx, RequestRefundCommand{
		OrderID:     order.ID,
		Amount:      payment.Amount / 2,
		Reason:      domain.ReasonLateDelivery,
		RequestedBy: "fatou",
	})
	require.NoError(t, err)
	assert.Equal(t, payment.Amount/2, refund.Amount)
}

func TestRequestRefund_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	order, payment := seedCapturedOrder(t, f)
	handler := NewRequestRefundHandler(f.payments, f.refunds, f.refundEvents, f.audits)

	_, err := handler.Handle(ctx, RequestRefundCommand{Reason: domain.ReasonOther})
	assert.Error(t, err, "missing order")

	_, err = handler.Handle(ctx, RequestRefundCommand{OrderID: order.ID, Reason: "changed_mind"})
	assert.Error(t, err, "unknown reason code")

	_, err = handler.Handle(ctx, RequestRefundCommand{
		OrderID: order.ID,
		Amount:  payment.Amount + 1,
		Reason:  domain.ReasonOther,
	})
	assert.Error(t, err, "never more than was taken")

	_, err = handler.Handle(ctx, RequestRefundCommand{OrderID: 999, Reason: domain.ReasonOther})
	assert.Error(t, err, "no captured payment")
	assert.Empty(t, f.refundEvents.events)
}

func TestProcessRefund(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	order, _ := seedCapturedOrder(t, f)
	request := NewRequestRefundHandler(f.payments, f.refunds, f.refundEvents, f.audits)
	refund, err := request.Handle(ctx, RequestRefundCommand{OrderID: order.ID, Reason: domain.ReasonWrongItem, RequestedBy: "fatou"})
	require.NoError(t, err)

	handler := NewProcessRefundHandler(f.refunds, f.audits)
	require.NoError(t, handler.Handle(ctx, ProcessRefundCommand{RefundID: refund.ID, Processor: "moussa"}))

	stored, err := f.refunds.FindByID(ctx, refund.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RefundProcessing, stored.Status)
	assert.Equal(t, "moussa", stored.ProcessedBy)
	require.NotNil(t, stored.ProcessedAt)

	err = handler.Handle(ctx, ProcessRefundCommand{RefundID: refund.ID})
	assert.Error(t, err, "processor is required")
}

func TestCompleteRefund(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	order, payment := seedCapturedOrder(t, f)
	refund := seedProcessingRefund(t, f, order)

	handler := NewCompleteRefundHandler(f.txm, f.refundEvents, f.audits)
	require.NoError(t, handler.Handle(ctx, CompleteRefundCommand{RefundID: refund.ID, Actor: "moussa"}))

	storedRefund, err := f.refunds.FindByID(ctx, refund.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RefundCompleted, storedRefund.Status)
	assert.True(t, storedRefund.StockRestored)
	require.NotNil(t, storedRefund.CompletedAt)

	storedPayment, _ := f.payments.FindByID(ctx, payment.ID)
	assert.Equal(t, domain.StatusRefunded, storedPayment.Status)

	// the capture's deduction came back through a return movement
	stock, err := f.ledger.FindStock(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 10, stock.CurrentQuantity)

	movements, _ := f.ledger.ListMovements(ctx, invdomain.MovementFilter{ProductID: 1})
	require.Len(t, movements, 2)
	assert.Equal(t, invdomain.MovementOutbound, movements[0].Type)
	assert.Equal(t, invdomain.MovementReturn, movements[1].Type)
	assert.Contains(t, movements[1].Reason, storedRefund.UID.String())

	require.Len(t, f.refundEvents.events, 2)
	assert.Equal(t, kafka.EventTypeRefundProcessed, f.refundEvents.events[1].EventType)
	assert.Equal(t, []string{"refund.request", "refund.process", "refund.complete"}, f.audits.actions())
}

func TestCompleteRefund_StockRestoredGuard(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	order, _ := seedCapturedOrder(t, f)
	refund := seedProcessingRefund(t, f, order)

	// stock already came back through another path
	stored, err := f.refunds.FindByID(ctx, refund.ID)
	require.NoError(t, err)
	stored.StockRestored = true
	require.NoError(t, f.refunds.Save(ctx, stored))

	handler := NewCompleteRefundHandler(f.txm, f.refundEvents, f.audits)
	require.NoError(t, handler.Handle(ctx, CompleteRefundCommand{RefundID: refund.ID, Actor: "moussa"}))

	stock, _ := f.ledger.FindStock(ctx, 1)
	assert.Equal(t, 7, stock.CurrentQuantity, "no second restoration")
	movements, _ := f.ledger.ListMovements(ctx, invdomain.MovementFilter{ProductID: 1})
	assert.Len(t, movements, 1)
}

func TestCompleteRefund_AfterPaidOrderCancelled(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	order, payment := seedCapturedOrder(t, f)
	refund := seedProcessingRefund(t, f, order)

	// ops cancels the paid order before the refund settles; the cancel
	// already compensates the deduction
	cancel := ordercommand.NewCancelOrderHandler(
		f.orders,
		invcommand.NewReleaseReservationHandler(f.ledger, nil),
		invcommand.NewReturnStockHandler(f.ledger, nil, nil),
		nil,
	)
	require.NoError(t, cancel.Handle(ctx, ordercommand.CancelOrderCommand{OrderID: order.ID, Actor: "ops"}))
	stock, err := f.ledger.FindStock(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 10, stock.CurrentQuantity)

	handler := NewCompleteRefundHandler(f.txm, f.refundEvents, f.audits)
	require.NoError(t, handler.Handle(ctx, CompleteRefundCommand{RefundID: refund.ID, Actor: "moussa"}))

	stock, err = f.ledger.FindStock(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 10, stock.CurrentQuantity, "one sale is compensated exactly once")

	movements, _ := f.ledger.ListMovements(ctx, invdomain.MovementFilter{ProductID: 1})
	require.Len(t, movements, 2)
	assert.Equal(t, invdomain.MovementOutbound, movements[0].Type)
	assert.Equal(t, invdomain.MovementReturn, movements[1].Type)

	storedRefund, _ := f.refunds.FindByID(ctx, refund.ID)
	assert.Equal(t, domain.RefundCompleted, storedRefund.Status)
	assert.False(t, storedRefund.StockRestored)
	storedPayment, _ := f.payments.FindByID(ctx, payment.ID)
	assert.Equal(t, domain.StatusRefunded, storedPayment.Status)
}

func TestCompleteRefund_RollsBackWhenPaymentCannotMove(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	order, payment := seedCapturedOrder(t, f)
	refund := seedProcessingRefund(t, f, order)

	// the payment was already refunded by a concurrent completion
	stored, err := f.payments.FindByID(ctx, payment.ID)
	require.NoError(t, err)
	stored.Status = domain.StatusRefunded
	require.NoError(t, f.payments.Save(ctx, stored))

	handler := NewCompleteRefundHandler(f.txm, f.refundEvents, f.audits)
	err = handler.Handle(ctx, CompleteRefundCommand{RefundID: refund.ID, Actor: "moussa"})
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	storedRefund, _ := f.refunds.FindByID(ctx, refund.ID)
	assert.Equal(t, domain.RefundProcessing, storedRefund.Status, "refund rolled back with the payment")
	assert.False(t, storedRefund.StockRestored)
	stock, _ := f.ledger.FindStock(ctx, 1)
	assert.Equal(t, 7, stock.CurrentQuantity)
}

func TestCompleteRefund_RequiresProcessing(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	order, _ := seedCapturedOrder(t, f)
	request := NewRequestRefundHandler(f.payments, f.refunds, f.refundEvents, f.audits)
	refund, err := request.Handle(ctx, RequestRefundCommand{OrderID: order.ID, Reason: domain.ReasonOther, RequestedBy: "fatou"})
	require.NoError(t, err)

	handler := NewCompleteRefundHandler(f.txm, f.refundEvents, f.audits)
	err = handler.Handle(ctx, CompleteRefundCommand{RefundID: refund.ID, Actor: "moussa"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "pending refunds cannot complete directly")
}

func TestFailRefund(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	order, payment := seedCapturedOrder(t, f)
	refund := seedProcessingRefund(t, f, order)

	handler := NewFailRefundHandler(f.refunds, f.audits)
	require.NoError(t, handler.Handle(ctx, FailRefundCommand{RefundID: refund.ID, Actor: "moussa"}))

	stored, _ := f.refunds.FindByID(ctx, refund.ID)
	assert.Equal(t, domain.RefundFailed, stored.Status)

	// the payment stays captured and the stock stays deducted
	storedPayment, _ := f.payments.FindByID(ctx, payment.ID)
	assert.Equal(t, domain.StatusCaptured, storedPayment.Status)
	stock, _ := f.ledger.FindStock(ctx, 1)
	assert.Equal(t, 7, stock.CurrentQuantity)

	err := handler.Handle(ctx, FailRefundCommand{RefundID: refund.ID, Actor: "moussa"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "failed is terminal")
}

func seedProcessingRefund(t *testing.T, f *fixture, order *orderdomain.Order) *domain.Refund {
	t.Helper()
	ctx := context.Background()
	request := NewRequestRefundHandler(f.payments, f.refunds, f.refundEvents, f.audits)
	refund, err := request.Handle(ctx, RequestRefundCommand{
		OrderID:     order.ID,
		Reason:      domain.ReasonDefectiveProduct,
		RequestedBy: "fatou",
	})
	require.NoError(t, err)
	process := NewProcessRefundHandler(f.refunds, f.audits)
	require.NoError(t, process.Handle(ctx, ProcessRefundCommand{RefundID: refund.ID, Processor: "moussa"}))
	return refund
}
