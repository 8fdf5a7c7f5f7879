package checkpoint

import (
	"github.com/holiman/uint256"

	"github.com/sheikh-saqib/snapshot-token-ledger/internal/models"
)

// Store holds one Series per key. It is not safe for concurrent use; the
// owner serializes access.
type Store[K comparable] struct {
	series map[K]*Series
}

func NewStore[K comparable]() *Store[K] {
	return &Store[K]{series: make(map[K]*Series)}
}

// Write records value for key at epoch, creating the series on first use.
func (s *Store[K]) Write(key K, epoch uint64, value *uint256.Int) {
	ser, ok := s.series[key]
	if !ok {
		ser = &Series{}
		s.series[key] = ser
	}
	ser.Write(epoch, value)
}

// At returns the value of key as of epoch. Keys never written read as zero.
func (s *Store[K]) At(key K, epoch uint64) *uint256.Int {
	ser, ok := s.series[key]
	if !ok {
		return new(uint256.Int)
	}
	return ser.At(epoch)
}

func (s *Store[K]) Len(key K) int {
	if ser, ok := s.series[key]; ok {
		return ser.Len()
	}
	return 0
}

// Checkpoints returns a copy of the history of key.
func (s *Store[K]) Checkpoints(key K) []models.Checkpoint {
	if ser, ok := s.series[key]; ok {
		return ser.Checkpoints()
	}
	return []models.Checkpoint{}
}

// Keys returns every key that has at least one checkpoint, in no particular order.
func (s *Store[K]) Keys() []K {
	keys := make([]K, 0, len(s.series))
	for k := range s.series {
		keys = append(keys, k)
	}
	return keys
}
