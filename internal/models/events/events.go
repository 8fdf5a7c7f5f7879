package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferCompleted is emitted for transfer and transfer_from.
type TransferCompleted struct {
	OperationID string          `json:"operation_id"`
	From        string          `json:"from"`
	To          string          `json:"to"`
	Spender     string          `json:"spender,omitempty"`
	RawAmount   string          `json:"raw_amount"`
	Amount      decimal.Decimal `json:"amount"`
	Epoch       uint64          `json:"epoch"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

type ApprovalSet struct {
	OperationID string          `json:"operation_id"`
	Owner       string          `json:"owner"`
	Spender     string          `json:"spender"`
	RawAmount   string          `json:"raw_amount"`
	Amount      decimal.Decimal `json:"amount"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

// SupplyChanged is emitted for mint (positive delta) and burn (negative delta).
type SupplyChanged struct {
	OperationID    string          `json:"operation_id"`
	Account        string          `json:"account"`
	Delta          decimal.Decimal `json:"delta"`
	RawTotalSupply string          `json:"raw_total_supply"`
	Epoch          uint64          `json:"epoch"`
	OccurredAt     time.Time       `json:"occurred_at"`
}

type SnapshotTaken struct {
	OperationID string    `json:"operation_id"`
	SnapshotID  uint64    `json:"snapshot_id"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// RoleUpdated covers admin, minter and rewards contract changes.
type RoleUpdated struct {
	OperationID string    `json:"operation_id"`
	Role        string    `json:"role"`
	Previous    string    `json:"previous"`
	Current     string    `json:"current"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type MetadataUpdated struct {
	OperationID string    `json:"operation_id"`
	Name        string    `json:"name"`
	Symbol      string    `json:"symbol"`
	OccurredAt  time.Time `json:"occurred_at"`
}
