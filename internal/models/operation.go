package models

import (
	"time"

	"github.com/holiman/uint256"
)

// OperationKind names a state transition of the ledger.
type OperationKind string

const (
	OpTransfer           OperationKind = "transfer"
	OpApprove            OperationKind = "approve"
	OpTransferFrom       OperationKind = "transfer_from"
	OpMint               OperationKind = "mint"
	OpBurn               OperationKind = "burn"
	OpSnapshot           OperationKind = "snapshot"
	OpSetAdmin           OperationKind = "set_admin"
	OpSetMinter          OperationKind = "set_minter"
	OpSetName            OperationKind = "set_name"
	OpSetRewardsContract OperationKind = "set_rewards_contract"
)

// Operation is the journaled intent of a caller to mutate the ledger.
// Only the fields relevant to Kind are populated.
type Operation struct {
	ID             string        `json:"id"`
	IdempotencyKey string        `json:"idempotency_key,omitempty"`
	Kind           OperationKind `json:"kind"`
	Caller         Address       `json:"caller"`
	From           Address       `json:"from,omitempty"`   // owner for transfer_from
	To             Address       `json:"to,omitempty"`     // recipient, or new role holder
	Spender        Address       `json:"spender,omitempty"`
	Amount         *uint256.Int  `json:"amount,omitempty"`
	Name           string        `json:"name,omitempty"`
	Symbol         string        `json:"symbol,omitempty"`
	Epoch          uint64        `json:"epoch"` // snapshot id current when the operation ran
	CreatedAt      time.Time     `json:"created_at"`
}
