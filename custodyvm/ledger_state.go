// (c) 2025-2026, Soteria Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package custodyvm

import (
	"encoding/binary"
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/wrappers"

	safemath "github.com/ava-labs/avalanchego/utils/math"

	"github.com/soteria-labs/custodyvm/multisig"
)

var (
	errInvalidBalance = errors.New("invalid balance encoding")

	_ LedgerState = (*ledgerState)(nil)
)

// LedgerState is the plain value ledger: balances per address, plus a marker
// recording which addresses are program-owned records (wallets, vaults,
// proposals). Program-owned addresses can receive value but funds only leave
// them through the wallet program itself.
type LedgerState interface {
	Balance(addr ids.ShortID) (uint64, error)
	Credit(addr ids.ShortID, amount uint64) error
	Debit(addr ids.ShortID, amount uint64) error

	MarkOwned(addr ids.ShortID) error
	RemoveOwned(addr ids.ShortID) error
	IsOwned(addr ids.ShortID) (bool, error)
}

type ledgerState struct {
	balanceDB database.Database
	ownedDB   database.Database
}

func NewLedgerState(balanceDB database.Database, ownedDB database.Database) LedgerState {
	return &ledgerState{
		balanceDB: balanceDB,
		ownedDB:   ownedDB,
	}
}

// Balance returns the value held at addr. An address with no record holds 0.
func (s *ledgerState) Balance(addr ids.ShortID) (uint64, error) {
	balanceBytes, err := s.balanceDB.Get(addr[:])
	switch {
	case err == database.ErrNotFound:
		return 0, nil
	case err != nil:
		return 0, err
	}
	if len(balanceBytes) != wrappers.LongLen {
		return 0, errInvalidBalance
	}
	return binary.BigEndian.Uint64(balanceBytes), nil
}

func (s *ledgerState) Credit(addr ids.ShortID, amount uint64) error {
	balance, err := s.Balance(addr)
	if err != nil {
		return err
	}
	newBalance, err := safemath.Add64(balance, amount)
	if err != nil {
		return multisig.ErrOverflow
	}
	return s.putBalance(addr, newBalance)
}

func (s *ledgerState) Debit(addr ids.ShortID, amount uint64) error {
	balance, err := s.Balance(addr)
	if err != nil {
		return err
	}
	if balance < amount {
		return errInsufficientBalance
	}
	return s.putBalance(addr, balance-amount)
}

func (s *ledgerState) putBalance(addr ids.ShortID, balance uint64) error {
	if balance == 0 {
		return s.balanceDB.Delete(addr[:])
	}
	balanceBytes := make([]byte, wrappers.LongLen)
	binary.BigEndian.PutUint64(balanceBytes, balance)
	return s.balanceDB.Put(addr[:], balanceBytes)
}

func (s *ledgerState) MarkOwned(addr ids.ShortID) error {
	return s.ownedDB.Put(addr[:], nil)
}

func (s *ledgerState) RemoveOwned(addr ids.ShortID) error {
	return s.ownedDB.Delete(addr[:])
}

func (s *ledgerState) IsOwned(addr ids.ShortID) (bool, error) {
	return s.ownedDB.Has(addr[:])
}
