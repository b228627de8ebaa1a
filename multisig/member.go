// (c) 2025-2026, Soteria Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package multisig

import (
	"github.com/ava-labs/avalanchego/ids"
)

// Role determines what a member may do.
//
// Admin holds full control and belongs only to the wallet creator. Proposer
// can create and approve proposals. Executor can approve and execute them.
type Role uint8

const (
	RoleAdmin Role = iota
	RoleProposer
	RoleExecutor
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleProposer:
		return "proposer"
	case RoleExecutor:
		return "executor"
	default:
		return "unknown"
	}
}

// ParseRole converts the wire representation of a role. Admin is not
// assignable; only the creator holds it.
func ParseRole(s string) (Role, error) {
	switch s {
	case "proposer":
		return RoleProposer, nil
	case "executor":
		return RoleExecutor, nil
	default:
		return 0, ErrInvalidRole
	}
}

// Member pairs an identity with its role. Only the first MemberCount slots of
// a wallet's member array hold live members; the rest are zero.
type Member struct {
	Address ids.ShortID `serialize:"true" json:"address"`
	Role    Role        `serialize:"true" json:"role"`
}
