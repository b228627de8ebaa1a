// (c) 2025-2026, Soteria Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package multisig

import (
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/assert"
)

func TestAddMember(t *testing.T) {
	assert := assert.New(t)

	wallet := newWallet(t, 0)
	mustAddMember(t, wallet, bob, RoleProposer, testNow)

	assert.Equal(uint8(2), wallet.MemberCount)
	member, ok := wallet.Member(bob)
	assert.True(ok)
	assert.Equal(RoleProposer, member.Role)
}

func TestAddMemberValidation(t *testing.T) {
	assert := assert.New(t)

	wallet := newWallet(t, 0)
	mustAddMember(t, wallet, bob, RoleProposer, testNow)

	tests := []struct {
		name   string
		action *AddMember
		want   error
	}{
		{"zero member", &AddMember{Member: ids.ShortEmpty, Role: RoleProposer}, ErrZeroMember},
		{"admin role not grantable", &AddMember{Member: carol, Role: RoleAdmin}, ErrInvalidRole},
		{"already a member", &AddMember{Member: bob, Role: RoleExecutor}, ErrAlreadyMember},
		{"creator adds itself", &AddMember{Member: creator, Role: RoleProposer}, ErrCannotAddSelf},
	}
	for _, tt := range tests {
		_, err := wallet.CreateProposal(creator, tt.action, testNow)
		assert.ErrorIs(err, tt.want, tt.name)
	}
}

func TestAddMemberCapacity(t *testing.T) {
	assert := assert.New(t)

	wallet := newWallet(t, 0)
	for i := 1; i < MaxMembers; i++ {
		mustAddMember(t, wallet, ids.ShortID{0x20, byte(i)}, RoleProposer, testNow)
	}
	assert.Equal(uint8(MaxMembers), wallet.MemberCount)

	_, err := wallet.CreateProposal(creator, &AddMember{Member: bob, Role: RoleProposer}, testNow)
	assert.ErrorIs(err, ErrMaxMembersReached)
}

func TestRemoveMemberCompaction(t *testing.T) {
	assert := assert.New(t)

	wallet := newWallet(t, 0)
	mustAddMember(t, wallet, bob, RoleProposer, testNow)
	mustAddMember(t, wallet, carol, RoleExecutor, testNow)

	p, err := wallet.CreateProposal(creator, &RemoveMember{Member: bob}, testNow)
	assert.NoError(err)
	assert.NoError(wallet.ExecuteProposal(p, creator, testNow))

	// Carol shifted left into bob's slot; the vacated last slot is zeroed.
	assert.Equal(uint8(2), wallet.MemberCount)
	assert.Equal(creator, wallet.Members[0].Address)
	assert.Equal(carol, wallet.Members[1].Address)
	assert.Equal(Member{}, wallet.Members[2])
	assert.False(wallet.IsMember(bob))
}

func TestRemoveMemberValidation(t *testing.T) {
	assert := assert.New(t)

	wallet := newWallet(t, 0)
	mustAddMember(t, wallet, bob, RoleProposer, testNow)

	_, err := wallet.CreateProposal(creator, &RemoveMember{Member: creator}, testNow)
	assert.ErrorIs(err, ErrCannotRemoveCreator)

	_, err = wallet.CreateProposal(creator, &RemoveMember{Member: mallory}, testNow)
	assert.ErrorIs(err, ErrMemberNotFound)

	// Raise the threshold to the full membership; removing anyone would
	// leave it unreachable.
	p, err := wallet.CreateProposal(creator, &ChangeThreshold{NewThreshold: 2}, testNow)
	assert.NoError(err)
	assert.NoError(wallet.Approve(&p.Ballot, bob))
	assert.NoError(wallet.ExecuteProposal(p, creator, testNow))

	_, err = wallet.CreateProposal(creator, &RemoveMember{Member: bob}, testNow)
	assert.ErrorIs(err, ErrThresholdExceedsMembers)
}

func TestChangeThreshold(t *testing.T) {
	assert := assert.New(t)

	wallet := newWallet(t, 0)
	mustAddMember(t, wallet, bob, RoleProposer, testNow)

	_, err := wallet.CreateProposal(creator, &ChangeThreshold{NewThreshold: 0}, testNow)
	assert.ErrorIs(err, ErrInvalidThreshold)

	_, err = wallet.CreateProposal(creator, &ChangeThreshold{NewThreshold: 3}, testNow)
	assert.ErrorIs(err, ErrThresholdExceedsMembers)

	p, err := wallet.CreateProposal(creator, &ChangeThreshold{NewThreshold: 2}, testNow)
	assert.NoError(err)
	assert.NoError(wallet.ExecuteProposal(p, creator, testNow))
	assert.Equal(uint8(2), wallet.Threshold)
}

func TestChangeTimelock(t *testing.T) {
	assert := assert.New(t)

	wallet := newWallet(t, 0)

	_, err := wallet.CreateProposal(creator, &ChangeTimelock{NewTimelock: MaxTimelock + 1}, testNow)
	assert.ErrorIs(err, ErrTimelockTooLong)

	p, err := wallet.CreateProposal(creator, &ChangeTimelock{NewTimelock: 3600}, testNow)
	assert.NoError(err)
	assert.NoError(wallet.ExecuteProposal(p, creator, testNow))
	assert.Equal(uint64(3600), wallet.TimelockSeconds)
}

// An action's conditions are re-checked at execution, so an effect that was
// valid at creation fails cleanly if the wallet drifted underneath it.
func TestExecuteRevalidates(t *testing.T) {
	assert := assert.New(t)

	wallet := newWallet(t, 0)

	first, err := wallet.CreateProposal(creator, &AddMember{Member: bob, Role: RoleProposer}, testNow)
	assert.NoError(err)
	second, err := wallet.CreateProposal(creator, &AddMember{Member: bob, Role: RoleExecutor}, testNow)
	assert.NoError(err)

	assert.NoError(wallet.ExecuteProposal(first, creator, testNow))

	err = wallet.ExecuteProposal(second, creator, testNow)
	assert.ErrorIs(err, ErrAlreadyMember)
	assert.True(second.IsActive())
	member, ok := wallet.Member(bob)
	assert.True(ok)
	assert.Equal(RoleProposer, member.Role)
}
