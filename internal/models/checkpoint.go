package models

import "github.com/holiman/uint256"

// Checkpoint records the value of a key after its last change within an epoch.
type Checkpoint struct {
	Epoch uint64       `json:"epoch"`
	Value *uint256.Int `json:"value"`
}
