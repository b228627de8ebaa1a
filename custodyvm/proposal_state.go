// (c) 2025-2026, Soteria Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package custodyvm

import (
	"github.com/ava-labs/avalanchego/cache"
	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"

	"github.com/soteria-labs/custodyvm/multisig"
)

const proposalCacheSize = 2048

var _ ProposalState = (*proposalState)(nil)

// ProposalState persists the two proposal record kinds, keyed by their
// derived addresses. Deleting a record reclaims its storage; the deposit
// refund is the VM's job.
type ProposalState interface {
	GetProposal(addr ids.ShortID) (*multisig.Proposal, error)
	PutProposal(addr ids.ShortID, proposal *multisig.Proposal) error
	DeleteProposal(addr ids.ShortID) error

	GetTransferProposal(addr ids.ShortID) (*multisig.TransferProposal, error)
	PutTransferProposal(addr ids.ShortID, proposal *multisig.TransferProposal) error
	DeleteTransferProposal(addr ids.ShortID) error

	ClearProposalCache()
}

type proposalState struct {
	proposalCache cache.Cacher[ids.ID, *multisig.Proposal]
	proposalDB    database.Database

	transferCache cache.Cacher[ids.ID, *multisig.TransferProposal]
	transferDB    database.Database
}

func NewProposalState(proposalDB database.Database, transferDB database.Database) ProposalState {
	return &proposalState{
		proposalCache: &cache.LRU[ids.ID, *multisig.Proposal]{Size: proposalCacheSize},
		proposalDB:    proposalDB,
		transferCache: &cache.LRU[ids.ID, *multisig.TransferProposal]{Size: proposalCacheSize},
		transferDB:    transferDB,
	}
}

func (s *proposalState) GetProposal(addr ids.ShortID) (*multisig.Proposal, error) {
	key := cacheKey(addr)
	if proposal, cached := s.proposalCache.Get(key); cached {
		if proposal == nil {
			return nil, database.ErrNotFound
		}
		return proposal, nil
	}

	proposalBytes, err := s.proposalDB.Get(addr[:])
	if err != nil {
		return nil, err
	}

	proposal := &multisig.Proposal{}
	parsedVersion, err := Codec.Unmarshal(proposalBytes, proposal)
	if err != nil {
		return nil, err
	}
	if parsedVersion != CodecVersion {
		return nil, errWrongCodecVersion
	}

	s.proposalCache.Put(key, proposal)
	return proposal, nil
}

func (s *proposalState) PutProposal(addr ids.ShortID, proposal *multisig.Proposal) error {
	proposalBytes, err := Codec.Marshal(CodecVersion, proposal)
	if err != nil {
		return err
	}

	s.proposalCache.Put(cacheKey(addr), proposal)
	return s.proposalDB.Put(addr[:], proposalBytes)
}

func (s *proposalState) DeleteProposal(addr ids.ShortID) error {
	s.proposalCache.Put(cacheKey(addr), nil)
	return s.proposalDB.Delete(addr[:])
}

func (s *proposalState) GetTransferProposal(addr ids.ShortID) (*multisig.TransferProposal, error) {
	key := cacheKey(addr)
	if proposal, cached := s.transferCache.Get(key); cached {
		if proposal == nil {
			return nil, database.ErrNotFound
		}
		return proposal, nil
	}

	proposalBytes, err := s.transferDB.Get(addr[:])
	if err != nil {
		return nil, err
	}

	proposal := &multisig.TransferProposal{}
	parsedVersion, err := Codec.Unmarshal(proposalBytes, proposal)
	if err != nil {
		return nil, err
	}
	if parsedVersion != CodecVersion {
		return nil, errWrongCodecVersion
	}

	s.transferCache.Put(key, proposal)
	return proposal, nil
}

func (s *proposalState) PutTransferProposal(addr ids.ShortID, proposal *multisig.TransferProposal) error {
	proposalBytes, err := Codec.Marshal(CodecVersion, proposal)
	if err != nil {
		return err
	}

	s.transferCache.Put(cacheKey(addr), proposal)
	return s.transferDB.Put(addr[:], proposalBytes)
}

func (s *proposalState) DeleteTransferProposal(addr ids.ShortID) error {
	s.transferCache.Put(cacheKey(addr), nil)
	return s.transferDB.Delete(addr[:])
}

func (s *proposalState) ClearProposalCache() {
	s.proposalCache.Flush()
	s.transferCache.Flush()
}
