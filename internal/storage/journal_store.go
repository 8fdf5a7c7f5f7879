package storage

import (
	"context"

	"go.uber.org/zap"

	interfaces "github.com/sheikh-saqib/snapshot-token-ledger/internal/interfaces"
	"github.com/sheikh-saqib/snapshot-token-ledger/internal/storage/memory"
	"github.com/sheikh-saqib/snapshot-token-ledger/internal/storage/postgres"
)

// OpenJournal returns the postgres journal when dsn is set and an in-memory
// journal otherwise. The returned close func is always non-nil.
func OpenJournal(ctx context.Context, dsn string, log *zap.Logger) (interfaces.JournalStore, func() error, error) {
	if dsn == "" {
		log.Warn("no database configured, journal is in memory and lost on exit")
		return memory.NewMemoryJournalStore(), func() error { return nil }, nil
	}
	store, err := postgres.Open(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}
	log.Info("journal opened", zap.String("backend", "postgres"))
	return store, store.Close, nil
}
