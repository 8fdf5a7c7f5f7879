package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/holiman/uint256"
	"github.com/lib/pq"

	interfaces "github.com/sheikh-saqib/snapshot-token-ledger/internal/interfaces" // interface JournalStore
	"github.com/sheikh-saqib/snapshot-token-ledger/internal/models"
)

// ErrDuplicateOperation is returned when an operation id or idempotency key
// has already been journaled.
var ErrDuplicateOperation = errors.New("operation already journaled")

const uniqueViolation = "23505"

const schema = `CREATE TABLE IF NOT EXISTS ledger_operations (
	seq             BIGSERIAL PRIMARY KEY,
	id              UUID NOT NULL UNIQUE,
	idempotency_key TEXT UNIQUE,
	kind            TEXT NOT NULL,
	caller          TEXT NOT NULL,
	from_account    TEXT NOT NULL DEFAULT '',
	to_account      TEXT NOT NULL DEFAULT '',
	spender         TEXT NOT NULL DEFAULT '',
	amount          NUMERIC(78, 0),
	name            TEXT NOT NULL DEFAULT '',
	symbol          TEXT NOT NULL DEFAULT '',
	epoch           BIGINT NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL
)`

type PostgresJournalStore struct {
	db *sql.DB
}

func NewPostgresJournalStore(db *sql.DB) *PostgresJournalStore {
	return &PostgresJournalStore{
		db: db,
	}
}

// Open connects to dsn, verifies the connection and creates the schema.
func Open(ctx context.Context, dsn string) (*PostgresJournalStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	store := NewPostgresJournalStore(db)
	if err := store.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (p *PostgresJournalStore) Migrate(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate ledger_operations: %w", err)
	}
	return nil
}

func (p *PostgresJournalStore) Close() error {
	return p.db.Close()
}

const selectOperation = `SELECT id, idempotency_key, kind, caller, from_account, to_account, spender,
	amount, name, symbol, epoch, created_at FROM ledger_operations`

func (p *PostgresJournalStore) OperationByKey(ctx context.Context, idempotencyKey string) (models.Operation, bool, error) {
	row := p.db.QueryRowContext(ctx, selectOperation+` WHERE idempotency_key = $1`, idempotencyKey)

	op, err := scanOperation(row)
	if err == sql.ErrNoRows {
		return models.Operation{}, false, nil
	}
	if err != nil {
		return models.Operation{}, false, err
	}

	return op, true, nil
}

func (p *PostgresJournalStore) Append(ctx context.Context, op models.Operation) error {
	const query = `INSERT INTO ledger_operations
	(id, idempotency_key, kind, caller, from_account, to_account, spender, amount, name, symbol, epoch, created_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`

	_, err := p.db.ExecContext(ctx, query,
		op.ID,
		sql.NullString{String: op.IdempotencyKey, Valid: op.IdempotencyKey != ""},
		string(op.Kind),
		string(op.Caller),
		string(op.From),
		string(op.To),
		string(op.Spender),
		amountValue(op.Amount),
		op.Name,
		op.Symbol,
		int64(op.Epoch),
		op.CreatedAt,
	)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", ErrDuplicateOperation, pqErr.Constraint)
	}
	return err
}

func (p *PostgresJournalStore) Operations(ctx context.Context) ([]models.Operation, error) {
	rows, err := p.db.QueryContext(ctx, selectOperation+` ORDER BY seq`)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var ops []models.Operation

	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ops, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOperation(row rowScanner) (models.Operation, error) {
	var (
		op             models.Operation
		idempotencyKey sql.NullString
		kind           string
		caller         string
		from, to       string
		spender        string
		amount         sql.NullString
		epoch          int64
		createdAt      time.Time
	)
	err := row.Scan(
		&op.ID,
		&idempotencyKey,
		&kind,
		&caller,
		&from,
		&to,
		&spender,
		&amount,
		&op.Name,
		&op.Symbol,
		&epoch,
		&createdAt,
	)
	if err != nil {
		return models.Operation{}, err
	}
	op.IdempotencyKey = idempotencyKey.String
	op.Kind = models.OperationKind(kind)
	op.Caller = models.Address(caller)
	op.From = models.Address(from)
	op.To = models.Address(to)
	op.Spender = models.Address(spender)
	op.Epoch = uint64(epoch)
	op.CreatedAt = createdAt
	if amount.Valid {
		if op.Amount, err = uint256.FromDecimal(amount.String); err != nil {
			return models.Operation{}, fmt.Errorf("operation %s amount %q: %w", op.ID, amount.String, err)
		}
	}
	return op, nil
}

// amountValue maps a nil amount to SQL NULL.
func amountValue(v *uint256.Int) any {
	if v == nil {
		return nil
	}
	return v.Dec()
}

var _ interfaces.JournalStore = (*PostgresJournalStore)(nil)
