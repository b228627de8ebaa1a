// (c) 2025-2026, Soteria Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package custodyvm

import (
	"fmt"
	"net/http"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/formatting"

	cjson "github.com/ava-labs/avalanchego/utils/json"
)

// StaticService defines the static API for the custody vm
type StaticService struct{}

// CreateStaticService ...
func CreateStaticService() *StaticService {
	return &StaticService{}
}

// APIAllocation is a genesis balance for one account
type APIAllocation struct {
	Address ids.ShortID  `json:"address"`
	Balance cjson.Uint64 `json:"balance"`
}

// BuildGenesisArgs are arguments for BuildGenesis
type BuildGenesisArgs struct {
	Allocations []APIAllocation     `json:"allocations"`
	Encoding    formatting.Encoding `json:"encoding"`
}

// BuildGenesisReply is the reply from BuildGenesis
type BuildGenesisReply struct {
	Bytes    string              `json:"bytes"`
	Encoding formatting.Encoding `json:"encoding"`
}

// BuildGenesis returns the encoded genesis for the given allocations
func (ss *StaticService) BuildGenesis(_ *http.Request, args *BuildGenesisArgs, reply *BuildGenesisReply) error {
	genesis := &Genesis{
		Allocations: make([]Allocation, 0, len(args.Allocations)),
	}
	for _, alloc := range args.Allocations {
		genesis.Allocations = append(genesis.Allocations, Allocation{
			Address: alloc.Address,
			Balance: uint64(alloc.Balance),
		})
	}

	genesisBytes, err := BuildGenesis(genesis)
	if err != nil {
		return fmt.Errorf("couldn't serialize genesis: %w", err)
	}
	bytes, err := formatting.Encode(args.Encoding, genesisBytes)
	if err != nil {
		return fmt.Errorf("couldn't encode genesis as string: %w", err)
	}
	reply.Bytes = bytes
	reply.Encoding = args.Encoding
	return nil
}

// DecodeGenesisArgs are arguments for DecodeGenesis
type DecodeGenesisArgs struct {
	Bytes    string              `json:"bytes"`
	Encoding formatting.Encoding `json:"encoding"`
}

// DecodeGenesisReply is the reply from DecodeGenesis
type DecodeGenesisReply struct {
	Allocations []APIAllocation `json:"allocations"`
}

// DecodeGenesis returns the allocations of an encoded genesis
func (ss *StaticService) DecodeGenesis(_ *http.Request, args *DecodeGenesisArgs, reply *DecodeGenesisReply) error {
	genesisBytes, err := formatting.Decode(args.Encoding, args.Bytes)
	if err != nil {
		return fmt.Errorf("couldn't decode genesis string: %w", err)
	}
	genesis, err := ParseGenesis(genesisBytes)
	if err != nil {
		return fmt.Errorf("couldn't parse genesis: %w", err)
	}

	reply.Allocations = make([]APIAllocation, 0, len(genesis.Allocations))
	for _, alloc := range genesis.Allocations {
		reply.Allocations = append(reply.Allocations, APIAllocation{
			Address: alloc.Address,
			Balance: cjson.Uint64(alloc.Balance),
		})
	}
	return nil
}
