package ledger

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized          = errors.New("unauthorized")
	ErrAlreadySet            = errors.New("already set")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrInvalidRecipient      = errors.New("invalid recipient")
	ErrInvalidSnapshotID     = errors.New("invalid snapshot id")
	ErrAllowanceNotReset     = errors.New("allowance must be reset to zero before it can be changed")
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrSupplyOverflow        = errors.New("total supply overflow")
	ErrInvalidDecimals       = errors.New("initial supply does not fit for decimals")
	ErrUnknownOperation      = errors.New("unknown operation")
	ErrReplayDiverged        = errors.New("journal replay diverged")
	ErrIdempotencyKeyReused  = errors.New("idempotency key already used for a different request")

	ErrMinterNotSet = fmt.Errorf("%w: minter not set", ErrUnauthorized)
)
