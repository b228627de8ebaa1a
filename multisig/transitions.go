// (c) 2025-2026, Soteria Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package multisig

import (
	stdmath "math"

	"github.com/ava-labs/avalanchego/ids"

	safemath "github.com/ava-labs/avalanchego/utils/math"
)

// CreateProposal validates and opens a governance proposal. The proposer
// automatically approves. The wallet's proposal counter is only advanced
// once every precondition, including the action's own validation, has passed.
func (m *Multisig) CreateProposal(proposer ids.ShortID, action Action, now int64) (*Proposal, error) {
	if err := m.canOpen(proposer); err != nil {
		return nil, err
	}
	if err := action.verify(m, proposer); err != nil {
		return nil, err
	}

	ballot, err := m.openBallot(proposer, now)
	if err != nil {
		return nil, err
	}
	return &Proposal{
		Ballot: ballot,
		Action: action,
	}, nil
}

// CreateTransferProposal validates and opens a transfer proposal. The vault
// balance is deliberately not checked here; it can change before execution,
// so the check is deferred to ExecuteTransfer.
func (m *Multisig) CreateTransferProposal(
	proposer ids.ShortID,
	recipient ids.ShortID,
	amount uint64,
	now int64,
) (*TransferProposal, error) {
	if err := m.canOpen(proposer); err != nil {
		return nil, err
	}
	if recipient == ids.ShortEmpty {
		return nil, ErrInvalidRecipient
	}
	if amount == 0 {
		return nil, ErrZeroAmount
	}

	ballot, err := m.openBallot(proposer, now)
	if err != nil {
		return nil, err
	}
	return &TransferProposal{
		Ballot:    ballot,
		Amount:    amount,
		Recipient: recipient,
	}, nil
}

// Approve records a member's approval on a ballot. A second approval attempt
// from the same member is rejected, not silently ignored.
func (m *Multisig) Approve(b *Ballot, member ids.ShortID) error {
	if m.Paused {
		return ErrWalletPaused
	}
	if b.Wallet != m.Address {
		return ErrWrongWallet
	}
	if !m.IsMember(member) {
		return ErrNotAMember
	}
	if !b.IsActive() {
		return ErrProposalNotActive
	}
	if b.HasApproved(member) {
		return ErrAlreadyApproved
	}

	// Approvals from since-removed identities never count again; dropping
	// them here keeps the list bounded by the membership capacity no matter
	// how members churn.
	pruned := b.Approvals[:0]
	for _, a := range b.Approvals {
		if m.IsMember(a) {
			pruned = append(pruned, a)
		}
	}
	b.Approvals = append(pruned, member)

	// Every retained entry is a distinct current member.
	if len(b.Approvals) > int(m.MemberCount) {
		return ErrOverflow
	}
	b.ApprovalCount = uint8(len(b.Approvals))
	return nil
}

// ExecuteProposal applies a governance proposal's effect to the wallet once
// every execution gate holds. The action re-validates its own state-dependent
// conditions before mutating anything.
func (m *Multisig) ExecuteProposal(p *Proposal, executor ids.ShortID, now int64) error {
	if err := m.readyToExecute(&p.Ballot, executor, now); err != nil {
		return err
	}
	if err := p.Action.apply(m); err != nil {
		return err
	}

	p.Status = StatusExecuted
	p.ExecutedAt = now
	m.LastExecuted = p.ProposalID
	return nil
}

// ExecuteTransfer validates a transfer proposal for execution against the
// current vault balance and marks it executed. The caller performs the actual
// value movement; this function only decides whether it may happen.
func (m *Multisig) ExecuteTransfer(
	p *TransferProposal,
	executor ids.ShortID,
	now int64,
	vaultBalance uint64,
) error {
	if err := m.readyToExecute(&p.Ballot, executor, now); err != nil {
		return err
	}
	if p.Recipient == ids.ShortEmpty {
		return ErrInvalidRecipient
	}
	if vaultBalance < p.Amount {
		return ErrInsufficientFunds
	}

	p.Status = StatusExecuted
	p.ExecutedAt = now
	m.LastExecuted = p.ProposalID
	return nil
}

// Cancel retires an active ballot. Cancellation is a narrower right than
// approval: only the original proposer or the wallet creator may cancel.
func (m *Multisig) Cancel(b *Ballot, caller ids.ShortID) error {
	if m.Paused {
		return ErrWalletPaused
	}
	if b.Wallet != m.Address {
		return ErrWrongWallet
	}
	if !b.IsActive() {
		return ErrProposalNotActive
	}
	if caller != b.Proposer && caller != m.Creator {
		return ErrNotProposer
	}

	b.Status = StatusCancelled
	return nil
}

// canOpen holds the preconditions shared by both proposal kinds.
func (m *Multisig) canOpen(proposer ids.ShortID) error {
	if m.Paused {
		return ErrWalletPaused
	}
	if !m.IsMember(proposer) {
		return ErrNotAMember
	}
	if !m.CanPropose(proposer) {
		return ErrCannotPropose
	}
	return nil
}

// openBallot advances the proposal counter and builds the ballot with the
// proposer's automatic approval. All arithmetic is checked; overflow aborts
// the call rather than wrapping.
func (m *Multisig) openBallot(proposer ids.ShortID, now int64) (Ballot, error) {
	newCount, err := safemath.Add64(m.ProposalCount, 1)
	if err != nil {
		return Ballot{}, ErrOverflow
	}

	expiresAt, err := safemath.Add64(uint64(now), m.TimelockSeconds)
	if err == nil {
		expiresAt, err = safemath.Add64(expiresAt, ExpiryGracePeriod)
	}
	if err != nil || expiresAt > stdmath.MaxInt64 {
		return Ballot{}, ErrOverflow
	}

	proposalID := m.ProposalCount
	m.ProposalCount = newCount

	return Ballot{
		Wallet:        m.Address,
		ProposalID:    proposalID,
		Proposer:      proposer,
		Status:        StatusActive,
		Approvals:     []ids.ShortID{proposer},
		ApprovalCount: 1,
		CreatedAt:     now,
		ExpiresAt:     int64(expiresAt),
		ExecutedAt:    0,
	}, nil
}

// readyToExecute holds the execution gates shared by both proposal kinds.
// The threshold is measured against approvals from current members only, so
// an approval from a since-removed member no longer counts.
func (m *Multisig) readyToExecute(b *Ballot, executor ids.ShortID, now int64) error {
	if m.Paused {
		return ErrWalletPaused
	}
	if !m.CanExecute(executor) {
		return ErrCannotExecute
	}
	if b.Wallet != m.Address {
		return ErrWrongWallet
	}
	if !b.IsActive() {
		return ErrProposalNotActive
	}

	live := m.liveApprovals(b)
	if live < m.Threshold {
		return ErrInsufficientApprovals
	}
	if live > m.MemberCount {
		return ErrOverflow
	}
	if !b.TimelockPassed(now, m.TimelockSeconds) {
		return ErrTimelockNotPassed
	}
	if b.Expired(now) {
		return ErrProposalExpired
	}
	return nil
}

// liveApprovals counts approvals that belong to current members.
func (m *Multisig) liveApprovals(b *Ballot) uint8 {
	var n uint8
	for _, a := range b.Approvals {
		if m.IsMember(a) {
			n++
		}
	}
	return n
}
