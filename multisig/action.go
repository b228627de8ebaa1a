// (c) 2025-2026, Soteria Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package multisig

import (
	"github.com/ava-labs/avalanchego/ids"
)

// Action is one of the governance effects a proposal can apply to its wallet.
//
// Each variant validates itself at two points: verify runs when the proposal
// is created, apply runs when it executes. apply re-checks every condition
// that depends on wallet state, since membership, threshold, and capacity can
// all drift between creation and execution.
type Action interface {
	verify(m *Multisig, proposer ids.ShortID) error
	apply(m *Multisig) error
}

// AddMember adds a new member with the given role.
type AddMember struct {
	Member ids.ShortID `serialize:"true" json:"member"`
	Role   Role        `serialize:"true" json:"role"`
}

func (a *AddMember) verify(m *Multisig, proposer ids.ShortID) error {
	if !m.IsAdmin(proposer) {
		return ErrOnlyAdmin
	}
	if a.Member == proposer {
		return ErrCannotAddSelf
	}
	return a.checkState(m)
}

func (a *AddMember) apply(m *Multisig) error {
	if err := a.checkState(m); err != nil {
		return err
	}

	// Write into the first free slot.
	m.Members[m.MemberCount] = Member{
		Address: a.Member,
		Role:    a.Role,
	}
	m.MemberCount++
	return nil
}

// checkState holds the conditions shared by creation and execution.
func (a *AddMember) checkState(m *Multisig) error {
	if a.Member == ids.ShortEmpty {
		return ErrZeroMember
	}
	if a.Role != RoleProposer && a.Role != RoleExecutor {
		return ErrInvalidRole
	}
	if m.IsMember(a.Member) {
		return ErrAlreadyMember
	}
	if m.MemberCount >= MaxMembers {
		return ErrMaxMembersReached
	}
	return nil
}

// RemoveMember removes an existing member and compacts the member list.
type RemoveMember struct {
	Member ids.ShortID `serialize:"true" json:"member"`
}

func (a *RemoveMember) verify(m *Multisig, proposer ids.ShortID) error {
	if !m.IsAdmin(proposer) {
		return ErrOnlyAdmin
	}
	return a.checkState(m)
}

func (a *RemoveMember) apply(m *Multisig) error {
	if err := a.checkState(m); err != nil {
		return err
	}

	index, ok := m.MemberIndex(a.Member)
	if !ok {
		return ErrMemberNotFound
	}

	// Shift every later slot left so the list stays contiguous, then clear
	// the vacated last slot.
	count := int(m.MemberCount)
	for i := index; i < count-1; i++ {
		m.Members[i] = m.Members[i+1]
	}
	m.Members[count-1] = Member{}
	m.MemberCount--

	if !m.ValidThreshold() {
		return ErrInvalidThreshold
	}
	return nil
}

func (a *RemoveMember) checkState(m *Multisig) error {
	if !m.IsMember(a.Member) {
		return ErrMemberNotFound
	}
	if a.Member == m.Creator {
		return ErrCannotRemoveCreator
	}
	if m.MemberCount <= 1 {
		return ErrMinimumOneMember
	}
	// The wallet must remain executable after the removal.
	if m.Threshold > m.MemberCount-1 {
		return ErrThresholdExceedsMembers
	}
	return nil
}

// ChangeThreshold updates the approval threshold.
type ChangeThreshold struct {
	NewThreshold uint8 `serialize:"true" json:"newThreshold"`
}

func (a *ChangeThreshold) verify(m *Multisig, _ ids.ShortID) error {
	return a.checkState(m)
}

func (a *ChangeThreshold) apply(m *Multisig) error {
	if err := a.checkState(m); err != nil {
		return err
	}
	m.Threshold = a.NewThreshold
	return nil
}

func (a *ChangeThreshold) checkState(m *Multisig) error {
	if a.NewThreshold < 1 {
		return ErrInvalidThreshold
	}
	if a.NewThreshold > m.MemberCount {
		return ErrThresholdExceedsMembers
	}
	return nil
}

// ChangeTimelock updates the timelock duration.
type ChangeTimelock struct {
	NewTimelock uint64 `serialize:"true" json:"newTimelock"`
}

func (a *ChangeTimelock) verify(m *Multisig, proposer ids.ShortID) error {
	if !m.IsAdmin(proposer) {
		return ErrOnlyAdmin
	}
	return a.checkState(m)
}

func (a *ChangeTimelock) apply(m *Multisig) error {
	if err := a.checkState(m); err != nil {
		return err
	}
	m.TimelockSeconds = a.NewTimelock
	return nil
}

func (a *ChangeTimelock) checkState(_ *Multisig) error {
	if a.NewTimelock > MaxTimelock {
		return ErrTimelockTooLong
	}
	return nil
}
