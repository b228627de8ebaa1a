// (c) 2025-2026, Soteria Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package custodyvm

import (
	"errors"

	"github.com/ava-labs/avalanchego/cache"
	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"

	"github.com/soteria-labs/custodyvm/multisig"
)

const walletCacheSize = 512

var (
	errWrongCodecVersion = errors.New("wrong codec version")

	_ WalletState = (*walletState)(nil)
)

// WalletState persists Multisig records keyed by their derived address.
type WalletState interface {
	GetWallet(addr ids.ShortID) (*multisig.Multisig, error)
	PutWallet(wallet *multisig.Multisig) error

	ClearWalletCache()
}

type walletState struct {
	walletCache cache.Cacher[ids.ID, *multisig.Multisig]
	walletDB    database.Database
}

func NewWalletState(db database.Database) WalletState {
	return &walletState{
		walletCache: &cache.LRU[ids.ID, *multisig.Multisig]{Size: walletCacheSize},
		walletDB:    db,
	}
}

func (s *walletState) GetWallet(addr ids.ShortID) (*multisig.Multisig, error) {
	key := cacheKey(addr)
	if wallet, cached := s.walletCache.Get(key); cached {
		if wallet == nil {
			return nil, database.ErrNotFound
		}
		return wallet, nil
	}

	walletBytes, err := s.walletDB.Get(addr[:])
	if err != nil {
		return nil, err
	}

	wallet := &multisig.Multisig{}
	parsedVersion, err := Codec.Unmarshal(walletBytes, wallet)
	if err != nil {
		return nil, err
	}
	if parsedVersion != CodecVersion {
		return nil, errWrongCodecVersion
	}

	s.walletCache.Put(key, wallet)
	return wallet, nil
}

func (s *walletState) PutWallet(wallet *multisig.Multisig) error {
	walletBytes, err := Codec.Marshal(CodecVersion, wallet)
	if err != nil {
		return err
	}

	s.walletCache.Put(cacheKey(wallet.Address), wallet)
	return s.walletDB.Put(wallet.Address[:], walletBytes)
}

// ClearWalletCache drops cached records. Called when an instruction aborts,
// since cached pointers may reflect discarded writes.
func (s *walletState) ClearWalletCache() {
	s.walletCache.Flush()
}
