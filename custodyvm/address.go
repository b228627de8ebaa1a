// (c) 2025-2026, Soteria Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package custodyvm

import (
	"encoding/binary"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"
	"github.com/ava-labs/avalanchego/utils/wrappers"
)

// Record addresses are derived deterministically from seed tuples, so any
// observer can recompute where a given record lives without an index.
var (
	walletSeed   = []byte("multisig")
	vaultSeed    = []byte("vault")
	proposalSeed = []byte("proposal")
	transferSeed = []byte("transfer")
)

// WalletAddress derives the address of the wallet record created by
// [creator] under [walletID].
func WalletAddress(creator ids.ShortID, walletID uint64) ids.ShortID {
	return deriveAddress(walletSeed, creator[:], packUint64(walletID))
}

// VaultAddress derives the address of a wallet's value-holding account.
func VaultAddress(wallet ids.ShortID) ids.ShortID {
	return deriveAddress(vaultSeed, wallet[:])
}

// ProposalAddress derives where a wallet's governance proposal with the
// given sequence number lives.
func ProposalAddress(wallet ids.ShortID, proposalID uint64) ids.ShortID {
	return deriveAddress(proposalSeed, wallet[:], packUint64(proposalID))
}

// TransferProposalAddress derives where a wallet's transfer proposal with
// the given sequence number lives.
func TransferProposalAddress(wallet ids.ShortID, proposalID uint64) ids.ShortID {
	return deriveAddress(transferSeed, wallet[:], packUint64(proposalID))
}

func deriveAddress(seeds ...[]byte) ids.ShortID {
	preimage := make([]byte, 0, 64)
	for _, seed := range seeds {
		preimage = append(preimage, seed...)
	}
	return ids.ShortID(hashing.ComputeHash160Array(preimage))
}

func packUint64(v uint64) []byte {
	packed := make([]byte, wrappers.LongLen)
	binary.BigEndian.PutUint64(packed, v)
	return packed
}
