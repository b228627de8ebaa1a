// (c) 2025-2026, Soteria Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package custodyvm

import (
	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/prefixdb"
	"github.com/ava-labs/avalanchego/database/versiondb"
	"github.com/ava-labs/avalanchego/ids"
)

var (
	// These are prefixes for db keys.
	// It's important to set different prefixes for each separate database objects.
	singletonStatePrefix = []byte("singleton")
	walletStatePrefix    = []byte("wallet")
	proposalStatePrefix  = []byte("proposal")
	transferStatePrefix  = []byte("transfer")
	balanceStatePrefix   = []byte("balance")
	ownedStatePrefix     = []byte("owned")

	isInitializedKey = []byte{0x00}

	_ State = (*state)(nil)
)

// State wraps every record space the VM persists, plus the methods needed to
// manage database commits and close. All writes within one instruction land
// in the same versioned batch: Commit publishes them atomically, Abort
// discards them.
type State interface {
	WalletState
	ProposalState
	LedgerState

	IsInitialized() (bool, error)
	SetInitialized() error

	Commit() error
	Abort()
	Close() error
}

type state struct {
	WalletState
	ProposalState
	LedgerState

	singletonDB database.Database
	baseDB      *versiondb.Database
}

func NewState(db database.Database) State {
	baseDB := versiondb.New(db)

	return &state{
		WalletState: NewWalletState(prefixdb.New(walletStatePrefix, baseDB)),
		ProposalState: NewProposalState(
			prefixdb.New(proposalStatePrefix, baseDB),
			prefixdb.New(transferStatePrefix, baseDB),
		),
		LedgerState: NewLedgerState(
			prefixdb.New(balanceStatePrefix, baseDB),
			prefixdb.New(ownedStatePrefix, baseDB),
		),
		singletonDB: prefixdb.New(singletonStatePrefix, baseDB),
		baseDB:      baseDB,
	}
}

func (s *state) IsInitialized() (bool, error) {
	return s.singletonDB.Has(isInitializedKey)
}

func (s *state) SetInitialized() error {
	return s.singletonDB.Put(isInitializedKey, nil)
}

// Commit publishes pending writes to the base database.
func (s *state) Commit() error {
	return s.baseDB.Commit()
}

// Abort discards pending writes and any cached records that may reflect them.
func (s *state) Abort() {
	s.baseDB.Abort()
	s.ClearWalletCache()
	s.ClearProposalCache()
}

func (s *state) Close() error {
	return s.baseDB.Close()
}

// cacheKey widens a 20-byte address into the 32-byte key type the caches use.
func cacheKey(addr ids.ShortID) ids.ID {
	var key ids.ID
	copy(key[:], addr[:])
	return key
}
