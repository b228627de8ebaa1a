// (c) 2025-2026, Soteria Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package custodyvm

import (
	"github.com/ava-labs/avalanchego/ids"
)

// Allocation pre-funds one address at genesis.
type Allocation struct {
	Address ids.ShortID `serialize:"true" json:"address"`
	Balance uint64      `serialize:"true" json:"balance"`
}

// Genesis is the initial ledger content. The VM applies it exactly once,
// guarded by the initialized marker.
type Genesis struct {
	Allocations []Allocation `serialize:"true" json:"allocations"`
}

// BuildGenesis serializes a genesis for use as the VM's genesis bytes.
func BuildGenesis(genesis *Genesis) ([]byte, error) {
	return Codec.Marshal(CodecVersion, genesis)
}

// ParseGenesis deserializes genesis bytes. Empty bytes mean an empty ledger.
func ParseGenesis(genesisBytes []byte) (*Genesis, error) {
	genesis := &Genesis{}
	if len(genesisBytes) == 0 {
		return genesis, nil
	}
	parsedVersion, err := Codec.Unmarshal(genesisBytes, genesis)
	if err != nil {
		return nil, err
	}
	if parsedVersion != CodecVersion {
		return nil, errWrongCodecVersion
	}
	return genesis, nil
}
