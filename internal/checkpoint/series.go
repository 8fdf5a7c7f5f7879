// Package checkpoint keeps sparse value histories keyed by snapshot epoch.
//
// A Series only grows when a key changes in an epoch it has not changed in
// before, so its length is bounded by the number of distinct epochs that
// touched the key rather than by the number of mutations.
package checkpoint

import (
	"fmt"
	"sort"

	"github.com/holiman/uint256"

	"github.com/sheikh-saqib/snapshot-token-ledger/internal/models"
)

// Series is an append-only history of (epoch, value) pairs with strictly
// increasing epochs. The zero value is an empty series ready for use.
type Series struct {
	entries []models.Checkpoint
}

// Write records value as the latest value at epoch. A second write in the
// same epoch overwrites the first.
func (s *Series) Write(epoch uint64, value *uint256.Int) {
	v := clone(value)
	if n := len(s.entries); n > 0 {
		last := &s.entries[n-1]
		switch {
		case last.Epoch == epoch:
			last.Value = v
			return
		case last.Epoch > epoch:
			panic(fmt.Sprintf("checkpoint: write at epoch %d after epoch %d", epoch, last.Epoch))
		}
	}
	s.entries = append(s.entries, models.Checkpoint{Epoch: epoch, Value: v})
}

// At returns the value as of the end of epoch: the rightmost entry whose
// epoch is <= epoch, or zero when the key had not changed by then.
func (s *Series) At(epoch uint64) *uint256.Int {
	// first index with Epoch > epoch
	i := sort.Search(len(s.entries), func(i int) bool {
		return s.entries[i].Epoch > epoch
	})
	if i == 0 {
		return new(uint256.Int)
	}
	return clone(s.entries[i-1].Value)
}

func (s *Series) Len() int {
	return len(s.entries)
}

// Checkpoints returns a copy of the history, oldest first.
func (s *Series) Checkpoints() []models.Checkpoint {
	out := make([]models.Checkpoint, len(s.entries))
	for i, e := range s.entries {
		out[i] = models.Checkpoint{Epoch: e.Epoch, Value: clone(e.Value)}
	}
	return out
}

func clone(v *uint256.Int) *uint256.Int {
	if v == nil {
		return new(uint256.Int)
	}
	return v.Clone()
}
