// Package ledger implements a fungible token ledger whose balances and total
// supply can be read as of any closed snapshot.
//
// All state lives in one Ledger value guarded by a single lock, which is the
// only serialization point: mutations never observe each other half applied.
// Snapshot only advances the epoch counter. History is written lazily, when a
// balance or the supply next changes, tagged with the epoch current at that
// time.
package ledger

import (
	"slices"
	"sync"
	"time"

	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/sheikh-saqib/snapshot-token-ledger/internal/amount"
	"github.com/sheikh-saqib/snapshot-token-ledger/internal/checkpoint"
	interfaces "github.com/sheikh-saqib/snapshot-token-ledger/internal/interfaces"
	"github.com/sheikh-saqib/snapshot-token-ledger/internal/models"
)

// InitialSupplyTokens is the number of whole tokens minted to the creator.
const InitialSupplyTokens = 450_000_000

const defaultTopicPrefix = "ledger"

// Ledger is the main struct holding token state and its checkpoint history.
type Ledger struct {
	mu sync.RWMutex
	// pubMu orders event publication. It is acquired while mu is held.
	pubMu sync.Mutex

	name     string
	symbol   string
	decimals uint8

	totalSupply *uint256.Int
	balances    map[models.Address]*uint256.Int
	allowances  map[models.Address]map[models.Address]*uint256.Int

	admin           models.Address
	minter          models.Address
	rewardsContract models.Address

	// epoch is the id of the snapshot currently open; ids below it are closed
	// and queryable.
	epoch          uint64
	balanceHistory *checkpoint.Store[models.Address]
	supplyHistory  checkpoint.Series

	journal        interfaces.JournalStore
	publisher      interfaces.EventPublisher
	topicPrefix    string
	snapshotPolicy SnapshotPolicy
	log            *zap.Logger
	now            func() time.Time
}

// New creates a ledger named name/symbol and credits the whole initial supply
// (InitialSupplyTokens * 10^decimals) to creator, who becomes admin.
func New(name, symbol string, decimals uint8, creator models.Address, opts ...Option) (*Ledger, error) {
	if creator.IsZero() {
		return nil, ErrInvalidRecipient
	}
	units, err := amount.Units(decimals)
	if err != nil {
		return nil, ErrInvalidDecimals
	}
	supply, overflow := new(uint256.Int).MulOverflow(units, uint256.NewInt(InitialSupplyTokens))
	if overflow {
		return nil, ErrInvalidDecimals
	}

	l := &Ledger{
		name:            name,
		symbol:          symbol,
		decimals:        decimals,
		totalSupply:     new(uint256.Int),
		balances:        make(map[models.Address]*uint256.Int),
		allowances:      make(map[models.Address]map[models.Address]*uint256.Int),
		admin:           creator,
		minter:          models.ZeroAddress,
		rewardsContract: models.ZeroAddress,
		balanceHistory:  checkpoint.NewStore[models.Address](),
		topicPrefix:     defaultTopicPrefix,
		log:             zap.NewNop(),
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}

	l.setBalance(creator, supply)
	l.setSupply(supply)

	l.log.Info("ledger created",
		zap.String("name", name),
		zap.String("symbol", symbol),
		zap.Uint8("decimals", decimals),
		zap.Stringer("admin", creator),
		zap.String("totalSupply", supply.Dec()),
	)
	return l, nil
}

func (l *Ledger) Name() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.name
}

func (l *Ledger) Symbol() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.symbol
}

// Decimals is fixed at construction and needs no lock.
func (l *Ledger) Decimals() uint8 {
	return l.decimals
}

func (l *Ledger) TotalSupply() *uint256.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.totalSupply.Clone()
}

func (l *Ledger) BalanceOf(account models.Address) *uint256.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balance(account).Clone()
}

func (l *Ledger) Allowance(owner, spender models.Address) *uint256.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.allowance(owner, spender).Clone()
}

func (l *Ledger) Admin() models.Address {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.admin
}

// Minter returns ZeroAddress until SetMinter succeeds.
func (l *Ledger) Minter() models.Address {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.minter
}

func (l *Ledger) RewardsContract() models.Address {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.rewardsContract
}

// CurrentEpoch is the number of snapshots taken so far, and the id the next
// snapshot will close.
func (l *Ledger) CurrentEpoch() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.epoch
}

// BalanceOfAt returns the balance of account when snapshot id was closed.
func (l *Ledger) BalanceOfAt(account models.Address, id uint64) (*uint256.Int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if err := l.checkSnapshotID(id); err != nil {
		return nil, err
	}
	return l.balanceHistory.At(account, id), nil
}

// TotalSupplyAt returns the total supply when snapshot id was closed.
func (l *Ledger) TotalSupplyAt(id uint64) (*uint256.Int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if err := l.checkSnapshotID(id); err != nil {
		return nil, err
	}
	return l.supplyHistory.At(id), nil
}

// Checkpoints returns the balance history of account, oldest first.
func (l *Ledger) Checkpoints(account models.Address) []models.Checkpoint {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balanceHistory.Checkpoints(account)
}

func (l *Ledger) SupplyCheckpoints() []models.Checkpoint {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.supplyHistory.Checkpoints()
}

// Holders returns every account that has ever held a balance, sorted.
func (l *Ledger) Holders() []models.Address {
	l.mu.RLock()
	defer l.mu.RUnlock()
	holders := l.balanceHistory.Keys()
	slices.Sort(holders)
	return holders
}

func (l *Ledger) checkSnapshotID(id uint64) error {
	if id >= l.epoch {
		return ErrInvalidSnapshotID
	}
	return nil
}

func (l *Ledger) balance(a models.Address) *uint256.Int {
	if b, ok := l.balances[a]; ok {
		return b
	}
	return new(uint256.Int)
}

func (l *Ledger) allowance(owner, spender models.Address) *uint256.Int {
	if v, ok := l.allowances[owner][spender]; ok {
		return v
	}
	return new(uint256.Int)
}

// setBalance stores v and writes it through to the history at the current epoch.
func (l *Ledger) setBalance(a models.Address, v *uint256.Int) {
	l.balances[a] = v
	l.balanceHistory.Write(a, l.epoch, v)
}

func (l *Ledger) setSupply(v *uint256.Int) {
	l.totalSupply = v
	l.supplyHistory.Write(l.epoch, v)
}

func (l *Ledger) setAllowance(owner, spender models.Address, v *uint256.Int) {
	if v.IsZero() {
		delete(l.allowances[owner], spender)
		return
	}
	m, ok := l.allowances[owner]
	if !ok {
		m = make(map[models.Address]*uint256.Int)
		l.allowances[owner] = m
	}
	m[spender] = v
}
