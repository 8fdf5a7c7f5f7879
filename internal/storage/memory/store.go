package memory

import (
	"context" // standard Go package for request-scoped context (timeouts, cancellation)
	"sync"    // standard Go package for concurrency primitives like Mutex

	interfaces "github.com/sheikh-saqib/snapshot-token-ledger/internal/interfaces" // interface JournalStore
	"github.com/sheikh-saqib/snapshot-token-ledger/internal/models"                // domain models: Operation
)

// MemoryJournalStore is an in-memory implementation of interfaces.JournalStore.
// It keeps operations in memory (slice) and is thread-safe for concurrent writes.
type MemoryJournalStore struct {
	mu         sync.Mutex                  // mutex to protect the slice and map from concurrent access
	operations []models.Operation          // slice that holds all operations, in append order
	byKey      map[string]models.Operation // operations indexed by idempotency key
}

// NewMemoryJournalStore creates and returns a new MemoryJournalStore instance
func NewMemoryJournalStore() *MemoryJournalStore {
	return &MemoryJournalStore{
		operations: make([]models.Operation, 0),
		byKey:      make(map[string]models.Operation),
	}
}

// Append saves an Operation to the in-memory slice.
func (m *MemoryJournalStore) Append(ctx context.Context, op models.Operation) error {

	m.mu.Lock()         // lock the mutex to prevent concurrent writes
	defer m.mu.Unlock() // unlock automatically when function exits (even if error occurs)

	if op.Amount != nil {
		op.Amount = op.Amount.Clone() // keep our own copy, callers may reuse theirs
	}
	m.operations = append(m.operations, op)
	if op.IdempotencyKey != "" {
		m.byKey[op.IdempotencyKey] = op
	}
	return nil // always succeeds in memory, so returns nil
}

// Operations returns a copy of all journaled operations in append order.
func (m *MemoryJournalStore) Operations(ctx context.Context) ([]models.Operation, error) {

	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make([]models.Operation, len(m.operations))
	copy(copied, m.operations)
	return copied, nil // return the copy so external code can't modify internal state
}

// OperationByKey looks up the operation recorded under an idempotency key.
func (m *MemoryJournalStore) OperationByKey(ctx context.Context, idempotencyKey string) (models.Operation, bool, error) {

	m.mu.Lock()
	defer m.mu.Unlock()

	op, exists := m.byKey[idempotencyKey] // zero Operation when missing
	if exists && op.Amount != nil {
		op.Amount = op.Amount.Clone()
	}
	return op, exists, nil
}

// Compile-time check: ensure MemoryJournalStore implements JournalStore interface
var _ interfaces.JournalStore = (*MemoryJournalStore)(nil)
