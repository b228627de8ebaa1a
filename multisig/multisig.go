// (c) 2025-2026, Soteria Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package multisig

import (
	"github.com/ava-labs/avalanchego/ids"
)

// Multisig is the membership and configuration record for one wallet.
//
// The member list is a fixed-capacity array; only the first MemberCount slots
// are meaningful and slot 0 is always the creator with the admin role. The
// list is kept contiguous: removing a member shifts every later slot left.
type Multisig struct {
	// Address is this wallet's own derived address, stored so records can
	// carry an exact back-reference to their owner.
	Address ids.ShortID `serialize:"true" json:"address"`

	// ID is the caller-chosen identifier mixed into the address derivation.
	ID uint64 `serialize:"true" json:"id"`

	// Creator instantiated the wallet. Permanently a member and the only
	// admin; pause and unpause are restricted to it.
	Creator ids.ShortID `serialize:"true" json:"creator"`

	// Threshold is the number of approvals required to execute a proposal.
	// Invariant: 1 <= Threshold <= MemberCount.
	Threshold uint8 `serialize:"true" json:"threshold"`

	MemberCount uint8              `serialize:"true" json:"memberCount"`
	Members     [MaxMembers]Member `serialize:"true" json:"members"`

	// ProposalCount is the total number of proposals ever created. It is the
	// next proposal's sequence number and feeds its address derivation.
	ProposalCount uint64 `serialize:"true" json:"proposalCount"`

	// LastExecuted is an audit pointer, not used for access control.
	LastExecuted uint64 `serialize:"true" json:"lastExecutedProposal"`

	// Paused blocks every mutating operation except unpause.
	Paused bool `serialize:"true" json:"paused"`

	// TimelockSeconds is the minimum delay between proposal creation and
	// eligibility for execution.
	TimelockSeconds uint64 `serialize:"true" json:"timelockSeconds"`

	// Vault is the wallet's derived value-holding address, computed once at
	// creation and stored for reuse.
	Vault ids.ShortID `serialize:"true" json:"vault"`
}

// New initializes a wallet with the creator as its sole member. The threshold
// must be exactly 1 since only one member exists yet.
func New(
	address ids.ShortID,
	vault ids.ShortID,
	walletID uint64,
	creator ids.ShortID,
	threshold uint8,
	timelockSeconds uint64,
) (*Multisig, error) {
	if threshold < 1 {
		return nil, ErrInvalidThreshold
	}
	if threshold > 1 {
		return nil, ErrThresholdExceedsMembers
	}
	if timelockSeconds > MaxTimelock {
		return nil, ErrTimelockTooLong
	}

	var members [MaxMembers]Member
	members[0] = Member{
		Address: creator,
		Role:    RoleAdmin,
	}

	return &Multisig{
		Address:         address,
		ID:              walletID,
		Creator:         creator,
		Threshold:       threshold,
		MemberCount:     1,
		Members:         members,
		Paused:          false,
		TimelockSeconds: timelockSeconds,
		Vault:           vault,
	}, nil
}

// IsMember reports whether addr occupies a live member slot.
func (m *Multisig) IsMember(addr ids.ShortID) bool {
	_, ok := m.MemberIndex(addr)
	return ok
}

// Member returns the live member record for addr.
func (m *Multisig) Member(addr ids.ShortID) (Member, bool) {
	if i, ok := m.MemberIndex(addr); ok {
		return m.Members[i], true
	}
	return Member{}, false
}

// MemberIndex returns the slot of addr within the live portion of the list.
func (m *Multisig) MemberIndex(addr ids.ShortID) (int, bool) {
	for i := 0; i < int(m.MemberCount); i++ {
		if m.Members[i].Address == addr {
			return i, true
		}
	}
	return 0, false
}

// IsAdmin reports whether addr is the wallet's admin. Only the creator ever
// holds the admin role.
func (m *Multisig) IsAdmin(addr ids.ShortID) bool {
	return addr == m.Creator
}

// CanPropose reports whether addr may create proposals (admin or proposer).
func (m *Multisig) CanPropose(addr ids.ShortID) bool {
	member, ok := m.Member(addr)
	return ok && (member.Role == RoleAdmin || member.Role == RoleProposer)
}

// CanExecute reports whether addr may execute proposals (admin or executor).
func (m *Multisig) CanExecute(addr ids.ShortID) bool {
	member, ok := m.Member(addr)
	return ok && (member.Role == RoleAdmin || member.Role == RoleExecutor)
}

// ValidThreshold reports whether the threshold invariant holds.
func (m *Multisig) ValidThreshold() bool {
	return m.Threshold >= 1 && m.Threshold <= m.MemberCount
}

// TogglePause flips the pause flag. Restricted to the creator; this is the
// only mutating operation permitted while the wallet is paused, since it is
// also the unpause path.
func (m *Multisig) TogglePause(caller ids.ShortID) error {
	if !m.IsAdmin(caller) {
		return ErrOnlyAdmin
	}
	m.Paused = !m.Paused
	return nil
}
