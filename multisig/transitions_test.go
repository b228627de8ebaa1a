// (c) 2025-2026, Soteria Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package multisig

import (
	stdmath "math"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/assert"
)

func TestCreateProposal(t *testing.T) {
	assert := assert.New(t)

	wallet := newWallet(t, 3600)
	p, err := wallet.CreateProposal(creator, &ChangeThreshold{NewThreshold: 1}, testNow)
	assert.NoError(err)

	assert.Equal(walletAddr, p.Wallet)
	assert.Equal(uint64(0), p.ProposalID)
	assert.Equal(creator, p.Proposer)
	assert.Equal(StatusActive, p.Status)
	// The proposer approves automatically.
	assert.True(p.HasApproved(creator))
	assert.Equal(uint8(1), p.ApprovalCount)
	assert.Equal(testNow, p.CreatedAt)
	assert.Equal(testNow+3600+int64(ExpiryGracePeriod), p.ExpiresAt)

	// The counter advances per proposal, failed or not yet executed alike.
	assert.Equal(uint64(1), wallet.ProposalCount)
	p2, err := wallet.CreateProposal(creator, &ChangeThreshold{NewThreshold: 1}, testNow)
	assert.NoError(err)
	assert.Equal(uint64(1), p2.ProposalID)
}

func TestCreateProposalAuthorization(t *testing.T) {
	assert := assert.New(t)

	wallet := newWallet(t, 0)
	mustAddMember(t, wallet, carol, RoleExecutor, testNow)

	_, err := wallet.CreateProposal(mallory, &ChangeThreshold{NewThreshold: 1}, testNow)
	assert.ErrorIs(err, ErrNotAMember)

	// Executors approve and execute but may not propose.
	_, err = wallet.CreateProposal(carol, &ChangeThreshold{NewThreshold: 1}, testNow)
	assert.ErrorIs(err, ErrCannotPropose)

	_, err = wallet.CreateTransferProposal(carol, bob, 5, testNow)
	assert.ErrorIs(err, ErrCannotPropose)
}

func TestCreateTransferProposal(t *testing.T) {
	assert := assert.New(t)

	wallet := newWallet(t, 0)

	_, err := wallet.CreateTransferProposal(creator, ids.ShortEmpty, 5, testNow)
	assert.ErrorIs(err, ErrInvalidRecipient)

	_, err = wallet.CreateTransferProposal(creator, bob, 0, testNow)
	assert.ErrorIs(err, ErrZeroAmount)

	p, err := wallet.CreateTransferProposal(creator, bob, 5, testNow)
	assert.NoError(err)
	assert.Equal(uint64(5), p.Amount)
	assert.Equal(bob, p.Recipient)
	assert.True(p.HasApproved(creator))
}

func TestApprove(t *testing.T) {
	assert := assert.New(t)

	wallet := newWallet(t, 0)
	mustAddMember(t, wallet, bob, RoleProposer, testNow)

	p, err := wallet.CreateProposal(creator, &ChangeThreshold{NewThreshold: 2}, testNow)
	assert.NoError(err)

	assert.ErrorIs(wallet.Approve(&p.Ballot, mallory), ErrNotAMember)
	assert.Equal(uint8(1), p.ApprovalCount)

	assert.NoError(wallet.Approve(&p.Ballot, bob))
	assert.Equal(uint8(2), p.ApprovalCount)

	// Approving twice is an error, not a no-op.
	assert.ErrorIs(wallet.Approve(&p.Ballot, bob), ErrAlreadyApproved)
	assert.Equal(uint8(2), p.ApprovalCount)

	other := newWallet(t, 0)
	other.Address = ids.ShortID{9}
	assert.ErrorIs(other.Approve(&p.Ballot, creator), ErrWrongWallet)
}

func TestThreshold(t *testing.T) {
	assert := assert.New(t)

	wallet := newWallet(t, 0)
	mustAddMember(t, wallet, bob, RoleProposer, testNow)
	mustAddMember(t, wallet, carol, RoleExecutor, testNow)

	raise, err := wallet.CreateProposal(creator, &ChangeThreshold{NewThreshold: 2}, testNow)
	assert.NoError(err)
	assert.NoError(wallet.ExecuteProposal(raise, creator, testNow))

	p, err := wallet.CreateTransferProposal(bob, mallory, 5, testNow)
	assert.NoError(err)

	// One of two required approvals.
	err = wallet.ExecuteTransfer(p, carol, testNow, 100)
	assert.ErrorIs(err, ErrInsufficientApprovals)
	assert.True(p.IsActive())

	assert.NoError(wallet.Approve(&p.Ballot, carol))
	assert.NoError(wallet.ExecuteTransfer(p, carol, testNow, 100))
	assert.Equal(StatusExecuted, p.Status)
	assert.Equal(testNow, p.ExecutedAt)
	assert.Equal(p.ProposalID, wallet.LastExecuted)
}

// Approvals from since-removed members stop counting toward the threshold.
func TestStaleApprovals(t *testing.T) {
	assert := assert.New(t)

	wallet := newWallet(t, 0)
	mustAddMember(t, wallet, bob, RoleProposer, testNow)
	mustAddMember(t, wallet, carol, RoleExecutor, testNow)

	raise, err := wallet.CreateProposal(creator, &ChangeThreshold{NewThreshold: 2}, testNow)
	assert.NoError(err)
	assert.NoError(wallet.ExecuteProposal(raise, creator, testNow))

	p, err := wallet.CreateTransferProposal(creator, mallory, 5, testNow)
	assert.NoError(err)
	assert.NoError(wallet.Approve(&p.Ballot, bob))

	// Drop the threshold back so the removal is permitted, then remove bob.
	lower, err := wallet.CreateProposal(creator, &ChangeThreshold{NewThreshold: 1}, testNow)
	assert.NoError(err)
	assert.NoError(wallet.Approve(&lower.Ballot, bob))
	assert.NoError(wallet.ExecuteProposal(lower, creator, testNow))

	remove, err := wallet.CreateProposal(creator, &RemoveMember{Member: bob}, testNow)
	assert.NoError(err)
	assert.NoError(wallet.ExecuteProposal(remove, creator, testNow))

	// Restore threshold 2: the transfer still records two approvals, but
	// bob's no longer counts.
	raise2, err := wallet.CreateProposal(creator, &ChangeThreshold{NewThreshold: 2}, testNow)
	assert.NoError(err)
	assert.NoError(wallet.Approve(&raise2.Ballot, carol))
	assert.NoError(wallet.ExecuteProposal(raise2, creator, testNow))

	assert.Equal(uint8(2), p.ApprovalCount)
	err = wallet.ExecuteTransfer(p, creator, testNow, 100)
	assert.ErrorIs(err, ErrInsufficientApprovals)

	assert.NoError(wallet.Approve(&p.Ballot, carol))
	assert.NoError(wallet.ExecuteTransfer(p, creator, testNow, 100))
}

// Members cycling through add, approve, remove must not grow the approval
// list past the membership capacity or wrap the approval counter.
func TestApprovalListBounded(t *testing.T) {
	assert := assert.New(t)

	wallet := newWallet(t, 0)
	p, err := wallet.CreateTransferProposal(creator, mallory, 5, testNow)
	assert.NoError(err)

	for i := 0; i < 3*MaxMembers; i++ {
		addr := ids.ShortID{0x40, byte(i)}
		mustAddMember(t, wallet, addr, RoleProposer, testNow)
		assert.NoError(wallet.Approve(&p.Ballot, addr))

		remove, err := wallet.CreateProposal(creator, &RemoveMember{Member: addr}, testNow)
		assert.NoError(err)
		assert.NoError(wallet.ExecuteProposal(remove, creator, testNow))

		assert.LessOrEqual(len(p.Approvals), MaxMembers)
		assert.LessOrEqual(p.ApprovalCount, uint8(wallet.MemberCount)+1)
		assert.Equal(uint8(len(p.Approvals)), p.ApprovalCount)
	}

	assert.NoError(wallet.ExecuteTransfer(p, creator, testNow, 100))
}

func TestOpenBallotOverflow(t *testing.T) {
	assert := assert.New(t)

	// The expiry computation must not run past the end of time.
	wallet := newWallet(t, 0)
	_, err := wallet.CreateProposal(creator, &ChangeThreshold{NewThreshold: 1}, stdmath.MaxInt64)
	assert.ErrorIs(err, ErrOverflow)
	// A failed open leaves the counter untouched.
	assert.Equal(uint64(0), wallet.ProposalCount)

	// Nor may the proposal counter wrap.
	wallet2 := newWallet(t, 0)
	wallet2.ProposalCount = stdmath.MaxUint64
	_, err = wallet2.CreateTransferProposal(creator, bob, 5, testNow)
	assert.ErrorIs(err, ErrOverflow)
	assert.Equal(uint64(stdmath.MaxUint64), wallet2.ProposalCount)
}

func TestTimelockBoundary(t *testing.T) {
	assert := assert.New(t)

	wallet := newWallet(t, 3600)
	p, err := wallet.CreateProposal(creator, &ChangeThreshold{NewThreshold: 1}, testNow)
	assert.NoError(err)

	err = wallet.ExecuteProposal(p, creator, testNow+3599)
	assert.ErrorIs(err, ErrTimelockNotPassed)
	assert.True(p.IsActive())

	// The boundary is inclusive.
	assert.NoError(wallet.ExecuteProposal(p, creator, testNow+3600))
}

func TestExpiryBoundary(t *testing.T) {
	assert := assert.New(t)

	wallet := newWallet(t, 0)
	p, err := wallet.CreateProposal(creator, &ChangeThreshold{NewThreshold: 1}, testNow)
	assert.NoError(err)

	expired, err := wallet.CreateProposal(creator, &ChangeThreshold{NewThreshold: 1}, testNow)
	assert.NoError(err)
	err = wallet.ExecuteProposal(expired, creator, expired.ExpiresAt+1)
	assert.ErrorIs(err, ErrProposalExpired)

	// Executable at exactly the expiry instant.
	assert.NoError(wallet.ExecuteProposal(p, creator, p.ExpiresAt))
}

func TestExecuteAuthorization(t *testing.T) {
	assert := assert.New(t)

	wallet := newWallet(t, 0)
	mustAddMember(t, wallet, bob, RoleProposer, testNow)

	p, err := wallet.CreateTransferProposal(bob, mallory, 5, testNow)
	assert.NoError(err)

	// Proposers may not execute.
	err = wallet.ExecuteTransfer(p, bob, testNow, 100)
	assert.ErrorIs(err, ErrCannotExecute)
	err = wallet.ExecuteTransfer(p, mallory, testNow, 100)
	assert.ErrorIs(err, ErrCannotExecute)

	// The vault must cover the amount at execution time.
	err = wallet.ExecuteTransfer(p, creator, testNow, 4)
	assert.ErrorIs(err, ErrInsufficientFunds)
	assert.True(p.IsActive())

	assert.NoError(wallet.ExecuteTransfer(p, creator, testNow, 5))
}

func TestCancel(t *testing.T) {
	assert := assert.New(t)

	wallet := newWallet(t, 0)
	mustAddMember(t, wallet, bob, RoleProposer, testNow)
	mustAddMember(t, wallet, carol, RoleExecutor, testNow)

	p, err := wallet.CreateTransferProposal(bob, mallory, 5, testNow)
	assert.NoError(err)

	// Only the proposer or the creator may cancel.
	assert.ErrorIs(wallet.Cancel(&p.Ballot, carol), ErrNotProposer)
	assert.NoError(wallet.Cancel(&p.Ballot, bob))
	assert.Equal(StatusCancelled, p.Status)

	// A terminal ballot accepts no further transitions.
	assert.ErrorIs(wallet.Approve(&p.Ballot, carol), ErrProposalNotActive)
	assert.ErrorIs(wallet.ExecuteTransfer(p, creator, testNow, 100), ErrProposalNotActive)
	assert.ErrorIs(wallet.Cancel(&p.Ballot, bob), ErrProposalNotActive)

	p2, err := wallet.CreateTransferProposal(bob, mallory, 5, testNow)
	assert.NoError(err)
	assert.NoError(wallet.Cancel(&p2.Ballot, creator))
}

func TestPausedBlocksEverything(t *testing.T) {
	assert := assert.New(t)

	wallet := newWallet(t, 0)
	mustAddMember(t, wallet, bob, RoleProposer, testNow)

	p, err := wallet.CreateTransferProposal(bob, mallory, 5, testNow)
	assert.NoError(err)

	assert.NoError(wallet.TogglePause(creator))

	_, err = wallet.CreateProposal(creator, &ChangeThreshold{NewThreshold: 1}, testNow)
	assert.ErrorIs(err, ErrWalletPaused)
	_, err = wallet.CreateTransferProposal(creator, mallory, 5, testNow)
	assert.ErrorIs(err, ErrWalletPaused)
	assert.ErrorIs(wallet.Approve(&p.Ballot, creator), ErrWalletPaused)
	assert.ErrorIs(wallet.ExecuteTransfer(p, creator, testNow, 100), ErrWalletPaused)
	assert.ErrorIs(wallet.Cancel(&p.Ballot, bob), ErrWalletPaused)

	assert.NoError(wallet.TogglePause(creator))
	assert.NoError(wallet.ExecuteTransfer(p, creator, testNow, 100))
}
