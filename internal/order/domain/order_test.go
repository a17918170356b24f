package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{StatusPending, StatusPaid, true},
		{StatusPending, StatusCancelled, true},
		{StatusPaid, StatusShipped, true},
		{StatusPaid, StatusCancelled, true},
		{StatusShipped, StatusDelivered, true},
		{StatusDelivered, StatusReturned, true},

		{StatusPending, StatusShipped, false},
		{StatusPending, StatusDelivered, false},
		{StatusPaid, StatusDelivered, false},
		{StatusShipped, StatusCancelled, false},
		{StatusShipped, StatusReturned, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusPaid, false},
		{StatusReturned, StatusPending, false},
		{StatusPaid, StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestOrder_Lifecycle(t *testing.T) {
	now := time.Now().UTC()
	o := &Order{Status: StatusPending, OrderNumber: "CMD-2026-01-0001"}

	require.NoError(t, o.MarkPaid(now))
	assert.Equal(t, StatusPaid, o.Status)
	require.NotNil(t, o.PaidAt)

	require.NoError(t, o.MarkShipped(now))
	assert.Equal(t, StatusShipped, o.Status)
	require.NotNil(t, o.ShippedAt)

	require.NoError(t, o.MarkDelivered(now))
	assert.Equal(t, StatusDelivered, o.Status)
	require.NotNil(t, o.DeliveredAt)

	require.NoError(t, o.MarkReturned())
	assert.Equal(t, StatusReturned, o.Status)
}

func TestOrder_IllegalTransitions(t *testing.T) {
	now := time.Now().UTC()

	o := &Order{Status: StatusPending}
	err := o.MarkShipped(now)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StatusPending, o.Status, "status unchanged on rejected transition")
	assert.Nil(t, o.ShippedAt)

	o = &Order{Status: StatusShipped}
	assert.ErrorIs(t, o.Cancel(now), ErrInvalidTransition)

	o = &Order{Status: StatusDelivered}
	assert.ErrorIs(t, o.MarkPaid(now), ErrInvalidTransition)

	o = &Order{Status: StatusCancelled}
	assert.ErrorIs(t, o.MarkPaid(now), ErrInvalidTransition)
	assert.ErrorIs(t, o.Cancel(now), ErrInvalidTransition)
}

func TestOrder_Cancel(t *testing.T) {
	now := time.Now().UTC()

	pending := &Order{Status: StatusPending}
	assert.True(t, pending.CanBeCancelled())
	require.NoError(t, pending.Cancel(now))
	assert.Equal(t, StatusCancelled, pending.Status)
	require.NotNil(t, pending.CancelledAt)

	paid := &Order{Status: StatusPaid}
	assert.True(t, paid.CanBeCancelled())
	require.NoError(t, paid.Cancel(now))

	shipped := &Order{Status: StatusShipped}
	assert.False(t, shipped.CanBeCancelled())
}

func TestOrder_Ref(t *testing.T) {
	o := &Order{OrderNumber: "CMD-2026-08-0042"}
	assert.Equal(t, "CMD-2026-08-0042", o.Ref())

	o = &Order{}
	assert.Equal(t, o.UID.String(), o.Ref())
}
