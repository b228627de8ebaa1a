// (c) 2025-2026, Soteria Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package multisig

const (
	// MaxMembers is the fixed capacity of a wallet's membership list.
	// A fixed array keeps record sizes constant and mutation cost bounded.
	MaxMembers = 10

	// MaxTimelock bounds the timelock duration (2 days) whenever it is set,
	// at wallet creation or through a ChangeTimelock proposal.
	MaxTimelock uint64 = 2 * 24 * 60 * 60

	// ExpiryGracePeriod is how long a proposal remains executable after its
	// timelock elapses. A proposal expires at createdAt + timelock + grace.
	ExpiryGracePeriod uint64 = 7 * 24 * 60 * 60
)
