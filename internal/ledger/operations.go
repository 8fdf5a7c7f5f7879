package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/sheikh-saqib/snapshot-token-ledger/internal/models"
)

// Receipt describes the outcome of an accepted operation.
type Receipt struct {
	OperationID string
	// Snapshot is the epoch the operation ran in. For a snapshot operation
	// that is the id it closed.
	Snapshot uint64
	// Replayed is set when the same request had already been journaled under
	// its idempotency key. OperationID and Snapshot then describe that original.
	Replayed bool
}

// transition applies a validated operation and returns the event describing
// it. It runs with l.mu held and must not fail.
type transition func() pending

type pending struct {
	topic string
	key   string
	event any
}

func (l *Ledger) Transfer(ctx context.Context, from, to models.Address, value *uint256.Int) error {
	_, err := l.Submit(ctx, models.Operation{Kind: models.OpTransfer, Caller: from, To: to, Amount: value})
	return err
}

// Approve sets the amount spender may move out of owner's balance.
func (l *Ledger) Approve(ctx context.Context, owner, spender models.Address, value *uint256.Int) error {
	_, err := l.Submit(ctx, models.Operation{Kind: models.OpApprove, Caller: owner, Spender: spender, Amount: value})
	return err
}

// TransferFrom moves value from owner to to, spending spender's allowance.
func (l *Ledger) TransferFrom(ctx context.Context, spender, owner, to models.Address, value *uint256.Int) error {
	_, err := l.Submit(ctx, models.Operation{Kind: models.OpTransferFrom, Caller: spender, From: owner, To: to, Amount: value})
	return err
}

func (l *Ledger) Mint(ctx context.Context, caller, to models.Address, value *uint256.Int) error {
	_, err := l.Submit(ctx, models.Operation{Kind: models.OpMint, Caller: caller, To: to, Amount: value})
	return err
}

// Burn destroys value from the caller's own balance.
func (l *Ledger) Burn(ctx context.Context, caller models.Address, value *uint256.Int) error {
	_, err := l.Submit(ctx, models.Operation{Kind: models.OpBurn, Caller: caller, Amount: value})
	return err
}

// Snapshot closes the current epoch and returns its id, which BalanceOfAt and
// TotalSupplyAt accept from then on.
func (l *Ledger) Snapshot(ctx context.Context, caller models.Address) (uint64, error) {
	r, err := l.Submit(ctx, models.Operation{Kind: models.OpSnapshot, Caller: caller})
	return r.Snapshot, err
}

func (l *Ledger) SetAdmin(ctx context.Context, caller, admin models.Address) error {
	_, err := l.Submit(ctx, models.Operation{Kind: models.OpSetAdmin, Caller: caller, To: admin})
	return err
}

// SetMinter assigns the minter. It succeeds at most once for the life of the ledger.
func (l *Ledger) SetMinter(ctx context.Context, caller, minter models.Address) error {
	_, err := l.Submit(ctx, models.Operation{Kind: models.OpSetMinter, Caller: caller, To: minter})
	return err
}

func (l *Ledger) SetName(ctx context.Context, caller models.Address, name, symbol string) error {
	_, err := l.Submit(ctx, models.Operation{Kind: models.OpSetName, Caller: caller, Name: name, Symbol: symbol})
	return err
}

// SetRewardsContract points the ledger at the rewards contract. Unlike the
// minter it may be changed any number of times, including back to zero.
func (l *Ledger) SetRewardsContract(ctx context.Context, caller, target models.Address) error {
	_, err := l.Submit(ctx, models.Operation{Kind: models.OpSetRewardsContract, Caller: caller, To: target})
	return err
}

// Submit authorizes, validates, journals and applies op as one atomic step.
// ID, Epoch and CreatedAt are assigned here. Either every effect of op is
// visible afterwards or none is.
func (l *Ledger) Submit(ctx context.Context, op models.Operation) (Receipt, error) {
	l.mu.Lock()

	if op.IdempotencyKey != "" && l.journal != nil {
		prior, found, err := l.journal.OperationByKey(ctx, op.IdempotencyKey)
		if err != nil {
			l.mu.Unlock()
			return Receipt{}, fmt.Errorf("check idempotency key: %w", err)
		}
		if found {
			r, err := l.resubmitted(op, prior)
			l.mu.Unlock()
			return r, err
		}
	}

	op.ID = uuid.NewString()
	op.Epoch = l.epoch
	op.CreatedAt = l.now().UTC()

	apply, err := l.prepare(op)
	if err != nil {
		l.mu.Unlock()
		l.log.Debug("operation rejected",
			zap.String("kind", string(op.Kind)),
			zap.Stringer("caller", op.Caller),
			zap.Error(err),
		)
		return Receipt{}, err
	}

	if l.journal != nil {
		if err := l.journal.Append(ctx, op); err != nil {
			l.mu.Unlock()
			return Receipt{}, fmt.Errorf("journal %s: %w", op.Kind, err)
		}
	}

	evt := apply()
	r := Receipt{OperationID: op.ID, Snapshot: op.Epoch}

	// pubMu is taken before mu is released so events leave in apply order.
	l.pubMu.Lock()
	l.mu.Unlock()
	defer l.pubMu.Unlock()

	l.log.Debug("operation applied",
		zap.String("id", op.ID),
		zap.String("kind", string(op.Kind)),
		zap.Uint64("epoch", op.Epoch),
	)
	l.publish(ctx, evt)
	return r, nil
}

// resubmitted answers an operation whose idempotency key is already in the
// journal. Only the same caller repeating the same request gets the original
// receipt back; anything else is rejected. l.mu must be held.
func (l *Ledger) resubmitted(op, prior models.Operation) (Receipt, error) {
	if sameRequest(op, prior) {
		return Receipt{OperationID: prior.ID, Snapshot: prior.Epoch, Replayed: true}, nil
	}
	if err := l.authorize(op); err != nil {
		return Receipt{}, err
	}
	return Receipt{}, fmt.Errorf("%w: %q", ErrIdempotencyKeyReused, op.IdempotencyKey)
}

func sameRequest(a, b models.Operation) bool {
	if a.Kind != b.Kind || a.Caller != b.Caller || a.From != b.From || a.To != b.To ||
		a.Spender != b.Spender || a.Name != b.Name || a.Symbol != b.Symbol {
		return false
	}
	if a.Amount == nil || b.Amount == nil {
		return a.Amount == nil && b.Amount == nil
	}
	return a.Amount.Eq(b.Amount)
}

// Replay re-applies journaled operations to a freshly constructed ledger
// without journaling or publishing them again.
func (l *Ledger) Replay(ctx context.Context, ops []models.Operation) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, op := range ops {
		if err := ctx.Err(); err != nil {
			return err
		}
		if op.Epoch != l.epoch {
			return fmt.Errorf("%w: operation %d (%s) recorded at epoch %d, ledger at %d",
				ErrReplayDiverged, i, op.ID, op.Epoch, l.epoch)
		}
		apply, err := l.prepare(op)
		if err != nil {
			return fmt.Errorf("%w: operation %d (%s): %v", ErrReplayDiverged, i, op.ID, err)
		}
		apply()
	}
	l.log.Info("journal replayed", zap.Int("operations", len(ops)), zap.Uint64("epoch", l.epoch))
	return nil
}

// prepare checks op against the current state and returns the transition
// that applies it. It never mutates state. l.mu must be held.
func (l *Ledger) prepare(op models.Operation) (transition, error) {
	if err := l.authorize(op); err != nil {
		return nil, err
	}

	switch op.Kind {
	case models.OpTransfer:
		return l.prepareTransfer(op, op.Caller)
	case models.OpTransferFrom:
		return l.prepareTransferFrom(op)
	case models.OpApprove:
		return l.prepareApprove(op)
	case models.OpMint:
		return l.prepareMint(op)
	case models.OpBurn:
		return l.prepareBurn(op)
	case models.OpSnapshot:
		return l.prepareSnapshot(op), nil
	case models.OpSetAdmin, models.OpSetMinter, models.OpSetRewardsContract:
		return l.prepareRole(op)
	case models.OpSetName:
		return l.prepareSetName(op), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, op.Kind)
}

func (l *Ledger) prepareTransfer(op models.Operation, from models.Address) (transition, error) {
	if op.To.IsZero() {
		return nil, ErrInvalidRecipient
	}
	if op.Amount == nil {
		return nil, ErrInvalidAmount
	}
	if op.Amount.Gt(l.balance(from)) {
		return nil, ErrInsufficientBalance
	}
	return func() pending {
		l.move(from, op.To, op.Amount)
		return l.transferEvent(op, from)
	}, nil
}

func (l *Ledger) prepareTransferFrom(op models.Operation) (transition, error) {
	owner, spender := op.From, op.Caller
	if op.To.IsZero() {
		return nil, ErrInvalidRecipient
	}
	if op.Amount == nil {
		return nil, ErrInvalidAmount
	}
	allowed := l.allowance(owner, spender)
	if op.Amount.Gt(allowed) {
		return nil, ErrInsufficientAllowance
	}
	if op.Amount.Gt(l.balance(owner)) {
		return nil, ErrInsufficientBalance
	}
	return func() pending {
		l.setAllowance(owner, spender, new(uint256.Int).Sub(allowed, op.Amount))
		l.move(owner, op.To, op.Amount)
		return l.transferEvent(op, owner)
	}, nil
}

func (l *Ledger) prepareApprove(op models.Operation) (transition, error) {
	if op.Spender.IsZero() {
		return nil, ErrInvalidRecipient
	}
	if op.Amount == nil {
		return nil, ErrInvalidAmount
	}
	if !op.Amount.IsZero() && !l.allowance(op.Caller, op.Spender).IsZero() {
		return nil, ErrAllowanceNotReset
	}
	return func() pending {
		l.setAllowance(op.Caller, op.Spender, op.Amount.Clone())
		return l.approvalEvent(op)
	}, nil
}

func (l *Ledger) prepareMint(op models.Operation) (transition, error) {
	if op.To.IsZero() {
		return nil, ErrInvalidRecipient
	}
	if op.Amount == nil {
		return nil, ErrInvalidAmount
	}
	supply, overflow := new(uint256.Int).AddOverflow(l.totalSupply, op.Amount)
	if overflow {
		return nil, ErrSupplyOverflow
	}
	return func() pending {
		l.setBalance(op.To, new(uint256.Int).Add(l.balance(op.To), op.Amount))
		l.setSupply(supply)
		return l.supplyEvent(op, op.To, true)
	}, nil
}

func (l *Ledger) prepareBurn(op models.Operation) (transition, error) {
	if op.Amount == nil {
		return nil, ErrInvalidAmount
	}
	bal := l.balance(op.Caller)
	if op.Amount.Gt(bal) {
		return nil, ErrInsufficientBalance
	}
	return func() pending {
		l.setBalance(op.Caller, new(uint256.Int).Sub(bal, op.Amount))
		l.setSupply(new(uint256.Int).Sub(l.totalSupply, op.Amount))
		return l.supplyEvent(op, op.Caller, false)
	}, nil
}

func (l *Ledger) prepareSnapshot(op models.Operation) transition {
	return func() pending {
		closed := l.epoch
		l.epoch++
		return l.snapshotEvent(op, closed)
	}
}

func (l *Ledger) prepareRole(op models.Operation) (transition, error) {
	var (
		slot *models.Address
		role string
	)
	switch op.Kind {
	case models.OpSetAdmin:
		slot, role = &l.admin, "admin"
		if op.To.IsZero() {
			return nil, ErrInvalidRecipient
		}
	case models.OpSetMinter:
		slot, role = &l.minter, "minter"
		if !l.minter.IsZero() {
			return nil, fmt.Errorf("%w: minter", ErrAlreadySet)
		}
		if op.To.IsZero() {
			return nil, ErrInvalidRecipient
		}
	default:
		slot, role = &l.rewardsContract, "rewards_contract"
	}
	return func() pending {
		previous := *slot
		*slot = op.To
		if op.To.IsZero() {
			*slot = models.ZeroAddress
		}
		return l.roleEvent(op, role, previous, *slot)
	}, nil
}

func (l *Ledger) prepareSetName(op models.Operation) transition {
	return func() pending {
		l.name, l.symbol = op.Name, op.Symbol
		return l.metadataEvent(op)
	}
}

// move transfers value between balances; from and to may be equal.
func (l *Ledger) move(from, to models.Address, value *uint256.Int) {
	l.setBalance(from, new(uint256.Int).Sub(l.balance(from), value))
	l.setBalance(to, new(uint256.Int).Add(l.balance(to), value))
}
