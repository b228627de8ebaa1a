// (c) 2025-2026, Soteria Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package multisig

// Kind classifies a precondition failure so that callers can tell "fix your
// input" from "try again later" from "you are not allowed".
type Kind uint8

const (
	Authorization Kind = iota
	State
	Bounds
	Timing
	Arithmetic
	Resource
)

func (k Kind) String() string {
	switch k {
	case Authorization:
		return "authorization"
	case State:
		return "state"
	case Bounds:
		return "bounds"
	case Timing:
		return "timing"
	case Arithmetic:
		return "arithmetic"
	case Resource:
		return "resource"
	default:
		return "unknown"
	}
}

// Error is a precondition failure. Every instruction aborts with no partial
// state change when one is returned. Sentinels below are matched by identity,
// so errors.Is works on them directly.
type Error struct {
	Kind Kind
	msg  string
}

func (e *Error) Error() string { return e.Kind.String() + ": " + e.msg }

// NewError builds a sentinel with the given kind. Exposed so the VM layer can
// declare ledger-level sentinels in the same taxonomy.
func NewError(kind Kind, msg string) *Error { return &Error{Kind: kind, msg: msg} }

var (
	ErrNotAMember    = NewError(Authorization, "caller is not a member of this wallet")
	ErrCannotPropose = NewError(Authorization, "member role cannot create proposals")
	ErrCannotExecute = NewError(Authorization, "member role cannot execute proposals")
	ErrOnlyAdmin     = NewError(Authorization, "only the wallet admin can perform this action")
	ErrNotProposer   = NewError(Authorization, "only the proposer or wallet creator can cancel")

	ErrWalletPaused          = NewError(State, "wallet is paused")
	ErrProposalNotActive     = NewError(State, "proposal is not active")
	ErrAlreadyApproved       = NewError(State, "member has already approved this proposal")
	ErrAlreadyMember         = NewError(State, "identity is already a member")
	ErrMemberNotFound        = NewError(State, "identity is not a member of this wallet")
	ErrCannotAddSelf         = NewError(State, "proposer cannot add themselves")
	ErrCannotRemoveCreator   = NewError(State, "the wallet creator cannot be removed")
	ErrMinimumOneMember      = NewError(State, "wallet must retain at least one member")
	ErrInsufficientApprovals = NewError(State, "proposal has not reached the approval threshold")
	ErrWrongWallet           = NewError(State, "proposal does not belong to this wallet")

	ErrInvalidThreshold        = NewError(Bounds, "threshold must be at least 1")
	ErrThresholdExceedsMembers = NewError(Bounds, "threshold cannot exceed the member count")
	ErrMaxMembersReached       = NewError(Bounds, "membership list is at capacity")
	ErrZeroMember              = NewError(Bounds, "member identity must not be the zero address")
	ErrInvalidRole             = NewError(Bounds, "added members must hold the proposer or executor role")
	ErrTimelockTooLong         = NewError(Bounds, "timelock exceeds the maximum allowed duration")
	ErrZeroAmount              = NewError(Bounds, "transfer amount must be greater than zero")

	ErrTimelockNotPassed = NewError(Timing, "timelock period has not elapsed")
	ErrProposalExpired   = NewError(Timing, "proposal has expired")

	ErrOverflow = NewError(Arithmetic, "arithmetic overflow")

	ErrInsufficientFunds = NewError(Resource, "insufficient vault balance")
	ErrInvalidRecipient  = NewError(Resource, "invalid transfer recipient")
)
