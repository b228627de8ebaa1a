// (c) 2025-2026, Soteria Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package multisig

import (
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/assert"
)

var (
	walletAddr = ids.ShortID{1}
	vaultAddr  = ids.ShortID{2}
	creator    = ids.ShortID{10}
	bob        = ids.ShortID{11}
	carol      = ids.ShortID{12}
	mallory    = ids.ShortID{13}
)

const testNow = int64(1_700_000_000)

func newWallet(t *testing.T, timelockSeconds uint64) *Multisig {
	t.Helper()
	wallet, err := New(walletAddr, vaultAddr, 7, creator, 1, timelockSeconds)
	assert.NoError(t, err)
	return wallet
}

// mustAddMember runs a full add-member proposal cycle as the creator.
func mustAddMember(t *testing.T, m *Multisig, addr ids.ShortID, role Role, now int64) {
	t.Helper()
	p, err := m.CreateProposal(creator, &AddMember{Member: addr, Role: role}, now)
	assert.NoError(t, err)
	assert.NoError(t, m.ExecuteProposal(p, creator, now+int64(m.TimelockSeconds)))
}

func TestNew(t *testing.T) {
	assert := assert.New(t)

	wallet := newWallet(t, 3600)
	assert.Equal(walletAddr, wallet.Address)
	assert.Equal(vaultAddr, wallet.Vault)
	assert.Equal(uint64(7), wallet.ID)
	assert.Equal(creator, wallet.Creator)
	assert.Equal(uint8(1), wallet.Threshold)
	assert.Equal(uint8(1), wallet.MemberCount)
	assert.Equal(Member{Address: creator, Role: RoleAdmin}, wallet.Members[0])
	assert.Equal(uint64(3600), wallet.TimelockSeconds)
	assert.False(wallet.Paused)
	assert.True(wallet.ValidThreshold())
}

func TestNewValidation(t *testing.T) {
	assert := assert.New(t)

	_, err := New(walletAddr, vaultAddr, 7, creator, 0, 0)
	assert.ErrorIs(err, ErrInvalidThreshold)

	// A fresh wallet has exactly one member, so any higher threshold could
	// never be met.
	_, err = New(walletAddr, vaultAddr, 7, creator, 2, 0)
	assert.ErrorIs(err, ErrThresholdExceedsMembers)

	_, err = New(walletAddr, vaultAddr, 7, creator, 1, MaxTimelock+1)
	assert.ErrorIs(err, ErrTimelockTooLong)

	_, err = New(walletAddr, vaultAddr, 7, creator, 1, MaxTimelock)
	assert.NoError(err)
}

func TestRoles(t *testing.T) {
	assert := assert.New(t)

	wallet := newWallet(t, 0)
	mustAddMember(t, wallet, bob, RoleProposer, testNow)
	mustAddMember(t, wallet, carol, RoleExecutor, testNow)

	// Creator holds every permission.
	assert.True(wallet.IsAdmin(creator))
	assert.True(wallet.CanPropose(creator))
	assert.True(wallet.CanExecute(creator))

	assert.False(wallet.IsAdmin(bob))
	assert.True(wallet.CanPropose(bob))
	assert.False(wallet.CanExecute(bob))

	assert.False(wallet.IsAdmin(carol))
	assert.False(wallet.CanPropose(carol))
	assert.True(wallet.CanExecute(carol))

	assert.False(wallet.IsMember(mallory))
	assert.False(wallet.CanPropose(mallory))
	assert.False(wallet.CanExecute(mallory))
}

func TestParseRole(t *testing.T) {
	assert := assert.New(t)

	role, err := ParseRole("proposer")
	assert.NoError(err)
	assert.Equal(RoleProposer, role)

	role, err = ParseRole("executor")
	assert.NoError(err)
	assert.Equal(RoleExecutor, role)

	// The admin role is never grantable.
	_, err = ParseRole("admin")
	assert.ErrorIs(err, ErrInvalidRole)

	_, err = ParseRole("")
	assert.ErrorIs(err, ErrInvalidRole)
}

func TestTogglePause(t *testing.T) {
	assert := assert.New(t)

	wallet := newWallet(t, 0)
	mustAddMember(t, wallet, bob, RoleProposer, testNow)

	assert.ErrorIs(wallet.TogglePause(bob), ErrOnlyAdmin)
	assert.False(wallet.Paused)

	assert.NoError(wallet.TogglePause(creator))
	assert.True(wallet.Paused)

	// Unpause is the one mutating operation allowed while paused.
	assert.NoError(wallet.TogglePause(creator))
	assert.False(wallet.Paused)
}
