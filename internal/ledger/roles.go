package ledger

import (
	"fmt"

	"github.com/sheikh-saqib/snapshot-token-ledger/internal/models"
)

// Role is the capability an operation requires of its caller.
type Role int

const (
	RolePublic Role = iota
	RoleAdmin
	RoleMinter
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleMinter:
		return "minter"
	default:
		return "public"
	}
}

// SnapshotPolicy decides who may close a snapshot.
type SnapshotPolicy int

const (
	SnapshotPublic SnapshotPolicy = iota
	SnapshotAdminOnly
)

// ParseSnapshotPolicy accepts "public" and "admin".
func ParseSnapshotPolicy(s string) (SnapshotPolicy, error) {
	switch s {
	case "", "public":
		return SnapshotPublic, nil
	case "admin":
		return SnapshotAdminOnly, nil
	}
	return SnapshotPublic, fmt.Errorf("unknown snapshot policy %q", s)
}

func (l *Ledger) requiredRole(kind models.OperationKind) Role {
	switch kind {
	case models.OpMint:
		return RoleMinter
	case models.OpSetAdmin, models.OpSetMinter, models.OpSetName, models.OpSetRewardsContract:
		return RoleAdmin
	case models.OpSnapshot:
		if l.snapshotPolicy == SnapshotAdminOnly {
			return RoleAdmin
		}
	}
	return RolePublic
}

// authorize must be called with l.mu held.
func (l *Ledger) authorize(op models.Operation) error {
	if op.Caller.IsZero() {
		return fmt.Errorf("%w: missing caller identity", ErrUnauthorized)
	}
	switch l.requiredRole(op.Kind) {
	case RoleAdmin:
		if op.Caller != l.admin {
			if op.Kind == models.OpSetName {
				return fmt.Errorf("%w: only admin is allowed to change name", ErrUnauthorized)
			}
			return fmt.Errorf("%w: admin only", ErrUnauthorized)
		}
	case RoleMinter:
		if l.minter.IsZero() {
			return ErrMinterNotSet
		}
		if op.Caller != l.minter {
			return fmt.Errorf("%w: minter only", ErrUnauthorized)
		}
	}
	return nil
}
