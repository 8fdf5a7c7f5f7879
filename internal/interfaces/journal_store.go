package interfaces

import (
	"context"

	"github.com/sheikh-saqib/snapshot-token-ledger/internal/models"
)

// JournalStore persists accepted operations in execution order so the ledger
// can be rebuilt by replaying them.
type JournalStore interface {
	Append(ctx context.Context, op models.Operation) error
	Operations(ctx context.Context) ([]models.Operation, error)
	// OperationByKey returns the operation journaled under idempotencyKey.
	OperationByKey(ctx context.Context, idempotencyKey string) (models.Operation, bool, error)
}
