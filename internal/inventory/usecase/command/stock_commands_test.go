package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditdomain "github.com/boutiquegn/backoffice/internal/audit/domain"
	"github.com/boutiquegn/backoffice/internal/inventory/domain"
)

func seedStock(current, reserved, min int) *domain.Stock {
	return &domain.Stock{
		ID:               1,
		ProductID:        1,
		CurrentQuantity:  current,
		ReservedQuantity: reserved,
		MinQuantity:      min,
		MaxQuantity:      1000,
		ReorderQuantity:  10,
		Status:           domain.EvaluateStatus(current, reserved, min, false),
	}
}

func TestAddStock(t *testing.T) {
	ctx := auditdomain.WithOrigin(context.Background(), "41.223.8.20:51734")
	store := newMemoryLedgerStore(seedStock(0, 0, 5))
	alerts := &capturingAlertPublisher{}
	audits := &capturingAuditRecorder{}
	handler := NewAddStockHandler(store, alerts, audits)

	err := handler.Handle(ctx, AddStockCommand{
		ProductID: 1,
		Quantity:  20,
		Reason:    "supplier delivery",
		Actor:     "alice",
	})
	require.NoError(t, err)

	stock, err := store.FindStock(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 20, stock.CurrentQuantity)
	assert.Equal(t, domain.StatusAvailable, stock.Status)

	movements, err := store.ListMovements(ctx, domain.MovementFilter{ProductID: 1})
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, domain.MovementInbound, movements[0].Type)
	assert.Equal(t, 0, movements[0].QuantityBefore)
	assert.Equal(t, 20, movements[0].QuantityAfter)
	assert.Equal(t, "alice", movements[0].Actor)

	require.Len(t, audits.records, 1)
	assert.Equal(t, "stock.add", audits.records[0].Action)
	assert.Equal(t, "41.223.8.20:51734", audits.records[0].RequestOrigin)
	assert.True(t, audits.records[0].Success)
	assert.Empty(t, alerts.events)
}

func TestAddStock_Validation(t *testing.T) {
	ctx := context.Background()
	store := newMemoryLedgerStore(seedStock(10, 0, 5))
	handler := NewAddStockHandler(store, nil, nil)

	assert.Error(t, handler.Handle(ctx, AddStockCommand{Quantity: 5, Reason: "x"}))
	assert.Error(t, handler.Handle(ctx, AddStockCommand{ProductID: 1, Quantity: 5}))

	err := handler.Handle(ctx, AddStockCommand{ProductID: 1, Quantity: -5, Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	err = handler.Handle(ctx, AddStockCommand{ProductID: 99, Quantity: 5, Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrStockNotFound)

	// nothing landed in the ledger
	movements, _ := store.ListMovements(ctx, domain.MovementFilter{})
	assert.Empty(t, movements)
}

func TestRemoveStock_ThresholdAlerts(t *testing.T) {
	ctx := context.Background()
	store := newMemoryLedgerStore(seedStock(10, 0, 5))
	alerts := &capturingAlertPublisher{}
	handler := NewRemoveStockHandler(store, alerts, nil)

	// 10 -> 4 crosses the minimum threshold
	err := handler.Handle(ctx, RemoveStockCommand{
		ProductID: 1, Quantity: 6, Reason: "damaged", Actor: "bob",
	})
	require.NoError(t, err)

	stock, _ := store.FindStock(ctx, 1)
	assert.Equal(t, 4, stock.CurrentQuantity)
	assert.Equal(t, domain.StatusLowStock, stock.Status)
	assert.Equal(t, []string{"low_stock"}, alerts.alertTypes())

	// 4 -> 0 goes out of stock
	err = handler.Handle(ctx, RemoveStockCommand{
		ProductID: 1, Quantity: 4, Reason: "damaged", Actor: "bob",
	})
	require.NoError(t, err)

	stock, _ = store.FindStock(ctx, 1)
	assert.Equal(t, 0, stock.CurrentQuantity)
	assert.Equal(t, domain.StatusOutOfStock, stock.Status)
	assert.Equal(t, []string{"low_stock", "out_of_stock"}, alerts.alertTypes())
}

func TestRemoveStock_InsufficientRollsBack(t *testing.T) {
	ctx := context.Background()
	store := newMemoryLedgerStore(seedStock(10, 4, 5))
	audits := &capturingAuditRecorder{}
	handler := NewRemoveStockHandler(store, nil, audits)

	err := handler.Handle(ctx, RemoveStockCommand{
		ProductID: 1, Quantity: 7, Reason: "damaged", Actor: "bob",
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	stock, _ := store.FindStock(ctx, 1)
	assert.Equal(t, 10, stock.CurrentQuantity)
	movements, _ := store.ListMovements(ctx, domain.MovementFilter{})
	assert.Empty(t, movements)

	// the failed attempt still leaves an audit entry
	require.Len(t, audits.records, 1)
	assert.False(t, audits.records[0].Success)
	assert.NotEmpty(t, audits.records[0].ErrorMessage)
}

func TestAdjustStock(t *testing.T) {
	ctx := context.Background()
	store := newMemoryLedgerStore(seedStock(10, 0, 5))
	handler := NewAdjustStockHandler(store, nil, nil)

	err := handler.Handle(ctx, AdjustStockCommand{
		ProductID:   1,
		NewQuantity: 25,
		Category:    domain.AdjustStocktake,
		Reason:      "annual count",
		Actor:       "carol",
	})
	require.NoError(t, err)

	stock, _ := store.FindStock(ctx, 1)
	assert.Equal(t, 25, stock.CurrentQuantity)

	movements, _ := store.ListMovements(ctx, domain.MovementFilter{})
	require.Len(t, movements, 1)
	assert.Equal(t, domain.MovementAdjustment, movements[0].Type)
	assert.Equal(t, 15, movements[0].Quantity)
}

func TestAdjustStock_NoOpLeavesLedgerUntouched(t *testing.T) {
	ctx := context.Background()
	store := newMemoryLedgerStore(seedStock(10, 0, 5))
	alerts := &capturingAlertPublisher{}
	handler := NewAdjustStockHandler(store, alerts, nil)

	err := handler.Handle(ctx, AdjustStockCommand{
		ProductID:   1,
		NewQuantity: 10,
		Category:    domain.AdjustManualCorrection,
		Reason:      "same value",
		Actor:       "carol",
	})
	require.NoError(t, err)

	movements, _ := store.ListMovements(ctx, domain.MovementFilter{})
	assert.Empty(t, movements)
	assert.Empty(t, alerts.events)
}

func TestAdjustStock_UnknownCategory(t *testing.T) {
	ctx := context.Background()
	store := newMemoryLedgerStore(seedStock(10, 0, 5))
	handler := NewAdjustStockHandler(store, nil, nil)

	err := handler.Handle(ctx, AdjustStockCommand{
		ProductID:   1,
		NewQuantity: 5,
		Category:    "guess",
		Reason:      "x",
		Actor:       "carol",
	})
	assert.Error(t, err)
}

func TestReturnStock(t *testing.T) {
	ctx := context.Background()
	store := newMemoryLedgerStore(seedStock(3, 0, 5))
	handler := NewReturnStockHandler(store, nil, nil)

	err := handler.Handle(ctx, ReturnStockCommand{
		ProductID: 1,
		Quantity:  2,
		Reason:    "order cancelled (CMD-2026-01-0001)",
		Actor:     "system",
	})
	require.NoError(t, err)

	stock, _ := store.FindStock(ctx, 1)
	assert.Equal(t, 5, stock.CurrentQuantity)

	movements, _ := store.ListMovements(ctx, domain.MovementFilter{})
	require.Len(t, movements, 1)
	assert.Equal(t, domain.MovementReturn, movements[0].Type)
}

func TestSetThresholds(t *testing.T) {
	ctx := context.Background()
	store := newMemoryLedgerStore(seedStock(8, 0, 5))
	handler := NewSetThresholdsHandler(store, nil)

	err := handler.Handle(ctx, SetThresholdsCommand{
		ProductID:       1,
		MinQuantity:     10,
		MaxQuantity:     200,
		ReorderQuantity: 20,
		AutoReorder:     true,
		Actor:           "carol",
	})
	require.NoError(t, err)

	stock, _ := store.FindStock(ctx, 1)
	assert.Equal(t, 10, stock.MinQuantity)
	assert.Equal(t, 200, stock.MaxQuantity)
	assert.Equal(t, 20, stock.ReorderQuantity)
	assert.True(t, stock.AutoReorder)
	// 8 on hand is now below the new minimum
	assert.Equal(t, domain.StatusLowStock, stock.Status)
}

func TestSetDiscontinued(t *testing.T) {
	ctx := context.Background()
	store := newMemoryLedgerStore(seedStock(100, 0, 5))
	handler := NewSetDiscontinuedHandler(store, nil)

	err := handler.Handle(ctx, SetDiscontinuedCommand{ProductID: 1, Discontinued: true, Actor: "carol"})
	require.NoError(t, err)

	stock, _ := store.FindStock(ctx, 1)
	assert.Equal(t, domain.StatusDiscontinued, stock.Status)

	err = handler.Handle(ctx, SetDiscontinuedCommand{ProductID: 1, Discontinued: false, Actor: "carol"})
	require.NoError(t, err)

	stock, _ = store.FindStock(ctx, 1)
	assert.Equal(t, domain.StatusAvailable, stock.Status)
}
