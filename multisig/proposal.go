// (c) 2025-2026, Soteria Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package multisig

import (
	"github.com/ava-labs/avalanchego/ids"
)

// Status is a proposal's lifecycle state. Executed and Cancelled are
// terminal: no instruction may mutate a proposal once it leaves Active.
type Status uint8

const (
	StatusActive Status = iota
	StatusExecuted
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusExecuted:
		return "executed"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Ballot carries the approval and lifecycle machinery shared by governance
// and transfer proposals.
//
// Approvals are keyed by member identity rather than by member slot, so
// compacting the membership array after a removal can never re-attribute an
// approval on another open proposal. The list is bounded by MaxMembers.
type Ballot struct {
	// Wallet is the owning wallet's address. Every access path verifies it
	// against the wallet supplied in the same call.
	Wallet ids.ShortID `serialize:"true" json:"wallet"`

	// ProposalID is the wallet's sequence number at creation time.
	ProposalID uint64 `serialize:"true" json:"proposalID"`

	// Proposer created the ballot and receives the storage deposit back when
	// it closes.
	Proposer ids.ShortID `serialize:"true" json:"proposer"`

	Status Status `serialize:"true" json:"status"`

	// Approvals holds the identity of every member that has approved,
	// including the proposer's automatic approval.
	Approvals []ids.ShortID `serialize:"true" json:"approvals"`

	// ApprovalCount mirrors len(Approvals).
	ApprovalCount uint8 `serialize:"true" json:"approvalCount"`

	CreatedAt int64 `serialize:"true" json:"createdAt"`

	// ExpiresAt = CreatedAt + timelock + ExpiryGracePeriod.
	ExpiresAt int64 `serialize:"true" json:"expiresAt"`

	// ExecutedAt is 0 until the ballot is executed.
	ExecutedAt int64 `serialize:"true" json:"executedAt"`
}

// HasApproved reports whether addr has already approved.
func (b *Ballot) HasApproved(addr ids.ShortID) bool {
	for _, a := range b.Approvals {
		if a == addr {
			return true
		}
	}
	return false
}

// IsActive reports whether the ballot can still be approved, executed, or
// cancelled.
func (b *Ballot) IsActive() bool { return b.Status == StatusActive }

// Expired reports whether now is past the execution window.
func (b *Ballot) Expired(now int64) bool { return now > b.ExpiresAt }

// TimelockPassed reports whether the mandatory delay has elapsed. The
// boundary is inclusive: execution is allowed at exactly CreatedAt+timelock.
func (b *Ballot) TimelockPassed(now int64, timelockSeconds uint64) bool {
	return now >= b.CreatedAt+int64(timelockSeconds)
}

// Proposal is a pending governance action awaiting approvals.
type Proposal struct {
	Ballot `serialize:"true"`

	Action Action `serialize:"true" json:"action"`
}

// TransferProposal is a pending value movement out of the wallet's vault.
// It is a separate record kind so amount and recipient are always present.
type TransferProposal struct {
	Ballot `serialize:"true"`

	// Amount of value to move from the vault. Always > 0.
	Amount uint64 `serialize:"true" json:"amount"`

	// Recipient of the transfer. Never the zero address.
	Recipient ids.ShortID `serialize:"true" json:"recipient"`
}
