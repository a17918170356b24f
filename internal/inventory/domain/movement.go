package domain

import (
	"fmt"
	"time"
)

// MovementType classifies a ledger entry.
type MovementType string

const (
	MovementInbound    MovementType = "inbound"
	MovementOutbound   MovementType = "outbound"
	MovementAdjustment MovementType = "adjustment"
	MovementTransfer   MovementType = "transfer"
	MovementReturn     MovementType = "return"
)

// AdjustmentCategory qualifies a manual adjustment for the audit trail.
type AdjustmentCategory string

const (
	AdjustManualCorrection AdjustmentCategory = "manual_correction"
	AdjustStocktake        AdjustmentCategory = "stocktake"
)

// Valid reports whether the category is one of the known values.
func (c AdjustmentCategory) Valid() bool {
	switch c {
	case AdjustManualCorrection, AdjustStocktake:
		return true
	}
	return false
}

// StockMovement is an append-only ledger entry. Rows are immutable once
// written; the ledger is the durable source of truth for reconstructing
// current quantity from genesis.
type StockMovement struct {
	ID             uint         `json:"id" gorm:"primaryKey"`
	ProductID      uint         `json:"product_id" gorm:"not null;index:idx_movements_product_time,priority:1"`
	Type           MovementType `json:"type" gorm:"not null;size:20"`
	Quantity       int          `json:"quantity" gorm:"not null"` // signed effect on current quantity
	QuantityBefore int          `json:"quantity_before" gorm:"not null"`
	QuantityAfter  int          `json:"quantity_after" gorm:"not null"`
	Reason         string       `json:"reason" gorm:"size:200"`
	Actor          string       `json:"actor" gorm:"size:100;index"`
	CreatedAt      time.Time    `json:"created_at" gorm:"index:idx_movements_product_time,priority:2"`
}

// TableName specifies the table name
func (StockMovement) TableName() string {
	return "stock_movements"
}

// Validate checks the before/after arithmetic of the entry. A failure here
// means the write must be aborted, never persisted.
func (m *StockMovement) Validate() error {
	if m.QuantityBefore < 0 || m.QuantityAfter < 0 {
		return fmt.Errorf("%w: negative ledger quantity (before=%d after=%d)",
			ErrConsistencyViolation, m.QuantityBefore, m.QuantityAfter)
	}
	if m.QuantityAfter-m.QuantityBefore != m.Quantity {
		return fmt.Errorf("%w: movement delta %d does not match before=%d after=%d",
			ErrConsistencyViolation, m.Quantity, m.QuantityBefore, m.QuantityAfter)
	}
	return nil
}

// MovementFilter narrows ledger queries. Zero values mean "no constraint".
type MovementFilter struct {
	ProductID uint
	Actor     string
	From      time.Time
	To        time.Time
	Limit     int
	Offset    int
}
