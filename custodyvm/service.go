// (c) 2025-2026, Soteria Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package custodyvm

import (
	"net/http"

	"github.com/ava-labs/avalanchego/api"
	"github.com/ava-labs/avalanchego/ids"

	cjson "github.com/ava-labs/avalanchego/utils/json"

	"github.com/soteria-labs/custodyvm/multisig"
)

// Service is the API service for the custody VM.
type Service struct {
	vm *VM
}

// CreateWalletArgs are the arguments to CreateWallet.
type CreateWalletArgs struct {
	// Caller is the verified identity issuing the instruction. It becomes
	// the wallet's creator.
	Caller          ids.ShortID  `json:"caller"`
	WalletID        cjson.Uint64 `json:"walletID"`
	Threshold       cjson.Uint8  `json:"threshold"`
	TimelockSeconds cjson.Uint64 `json:"timelockSeconds"`
}

// CreateWalletReply is the reply from CreateWallet.
type CreateWalletReply struct {
	Wallet ids.ShortID `json:"wallet"`
	Vault  ids.ShortID `json:"vault"`
}

// CreateWallet instantiates a new wallet owned and administered by the
// caller.
func (s *Service) CreateWallet(_ *http.Request, args *CreateWalletArgs, reply *CreateWalletReply) error {
	wallet, err := s.vm.CreateWallet(
		args.Caller,
		uint64(args.WalletID),
		uint8(args.Threshold),
		uint64(args.TimelockSeconds),
	)
	if err != nil {
		return err
	}
	reply.Wallet = wallet.Address
	reply.Vault = wallet.Vault
	return nil
}

// ActionArgs names a wallet change for a governance proposal to carry.
type ActionArgs struct {
	// ActionType is one of "addMember", "removeMember", "changeThreshold",
	// "changeTimelock".
	ActionType string `json:"actionType"`

	// Member and Role apply to addMember; Member alone to removeMember.
	Member ids.ShortID `json:"member"`
	Role   string      `json:"role"`

	// NewThreshold applies to changeThreshold.
	NewThreshold cjson.Uint8 `json:"newThreshold"`

	// NewTimelock applies to changeTimelock.
	NewTimelock cjson.Uint64 `json:"newTimelock"`
}

// CreateProposalArgs are the arguments to CreateProposal.
type CreateProposalArgs struct {
	Caller ids.ShortID `json:"caller"`
	Wallet ids.ShortID `json:"wallet"`
	Action ActionArgs  `json:"action"`
}

// CreateProposalReply is the reply from CreateProposal and
// CreateTransferProposal.
type CreateProposalReply struct {
	ProposalID cjson.Uint64 `json:"proposalID"`
	Proposal   ids.ShortID  `json:"proposal"`
	ExpiresAt  cjson.Uint64 `json:"expiresAt"`
}

// CreateProposal opens a governance proposal carrying the named action.
func (s *Service) CreateProposal(_ *http.Request, args *CreateProposalArgs, reply *CreateProposalReply) error {
	action, err := buildAction(&args.Action)
	if err != nil {
		return err
	}
	proposal, err := s.vm.CreateProposal(args.Caller, args.Wallet, action)
	if err != nil {
		return err
	}
	reply.ProposalID = cjson.Uint64(proposal.ProposalID)
	reply.Proposal = ProposalAddress(args.Wallet, proposal.ProposalID)
	reply.ExpiresAt = cjson.Uint64(proposal.ExpiresAt)
	return nil
}

// CreateTransferProposalArgs are the arguments to CreateTransferProposal.
type CreateTransferProposalArgs struct {
	Caller    ids.ShortID  `json:"caller"`
	Wallet    ids.ShortID  `json:"wallet"`
	Recipient ids.ShortID  `json:"recipient"`
	Amount    cjson.Uint64 `json:"amount"`
}

// CreateTransferProposal opens a transfer proposal with the recipient and
// amount bound at creation.
func (s *Service) CreateTransferProposal(_ *http.Request, args *CreateTransferProposalArgs, reply *CreateProposalReply) error {
	proposal, err := s.vm.CreateTransferProposal(
		args.Caller,
		args.Wallet,
		args.Recipient,
		uint64(args.Amount),
	)
	if err != nil {
		return err
	}
	reply.ProposalID = cjson.Uint64(proposal.ProposalID)
	reply.Proposal = TransferProposalAddress(args.Wallet, proposal.ProposalID)
	reply.ExpiresAt = cjson.Uint64(proposal.ExpiresAt)
	return nil
}

// ProposalArgs name an existing proposal of a wallet.
type ProposalArgs struct {
	Caller     ids.ShortID  `json:"caller"`
	Wallet     ids.ShortID  `json:"wallet"`
	ProposalID cjson.Uint64 `json:"proposalID"`
}

// ApproveProposal records the caller's approval on a governance proposal.
func (s *Service) ApproveProposal(_ *http.Request, args *ProposalArgs, reply *api.EmptyReply) error {
	return s.vm.ApproveProposal(args.Caller, args.Wallet, uint64(args.ProposalID))
}

// ApproveTransferProposal records the caller's approval on a transfer
// proposal.
func (s *Service) ApproveTransferProposal(_ *http.Request, args *ProposalArgs, reply *api.EmptyReply) error {
	return s.vm.ApproveTransferProposal(args.Caller, args.Wallet, uint64(args.ProposalID))
}

// ExecuteProposal applies an approved governance proposal.
func (s *Service) ExecuteProposal(_ *http.Request, args *ProposalArgs, reply *api.EmptyReply) error {
	return s.vm.ExecuteProposal(args.Caller, args.Wallet, uint64(args.ProposalID))
}

// ExecuteTransferProposal pays out an approved transfer proposal from the
// wallet's vault.
func (s *Service) ExecuteTransferProposal(_ *http.Request, args *ProposalArgs, reply *api.EmptyReply) error {
	return s.vm.ExecuteTransferProposal(args.Caller, args.Wallet, uint64(args.ProposalID))
}

// CancelProposal retires an active governance proposal.
func (s *Service) CancelProposal(_ *http.Request, args *ProposalArgs, reply *api.EmptyReply) error {
	return s.vm.CancelProposal(args.Caller, args.Wallet, uint64(args.ProposalID))
}

// CancelTransferProposal retires an active transfer proposal.
func (s *Service) CancelTransferProposal(_ *http.Request, args *ProposalArgs, reply *api.EmptyReply) error {
	return s.vm.CancelTransferProposal(args.Caller, args.Wallet, uint64(args.ProposalID))
}

// TogglePauseArgs are the arguments to TogglePause.
type TogglePauseArgs struct {
	Caller ids.ShortID `json:"caller"`
	Wallet ids.ShortID `json:"wallet"`
}

// TogglePauseReply is the reply from TogglePause.
type TogglePauseReply struct {
	Paused bool `json:"paused"`
}

// TogglePause flips the wallet's pause flag.
func (s *Service) TogglePause(_ *http.Request, args *TogglePauseArgs, reply *TogglePauseReply) error {
	if err := s.vm.TogglePause(args.Caller, args.Wallet); err != nil {
		return err
	}
	wallet, err := s.vm.GetWallet(args.Wallet)
	if err != nil {
		return err
	}
	reply.Paused = wallet.Paused
	return nil
}

// TransferArgs are the arguments to Transfer.
type TransferArgs struct {
	Caller ids.ShortID  `json:"caller"`
	To     ids.ShortID  `json:"to"`
	Amount cjson.Uint64 `json:"amount"`
}

// Transfer moves value from the caller's account, typically to fund a vault.
func (s *Service) Transfer(_ *http.Request, args *TransferArgs, reply *api.EmptyReply) error {
	return s.vm.Transfer(args.Caller, args.To, uint64(args.Amount))
}

// GetWalletArgs are the arguments to GetWallet.
type GetWalletArgs struct {
	Wallet ids.ShortID `json:"wallet"`
}

// APIMember is a wallet member as rendered by the API.
type APIMember struct {
	Address ids.ShortID `json:"address"`
	Role    string      `json:"role"`
}

// GetWalletReply is the reply from GetWallet.
type GetWalletReply struct {
	Creator         ids.ShortID  `json:"creator"`
	Vault           ids.ShortID  `json:"vault"`
	WalletID        cjson.Uint64 `json:"walletID"`
	Threshold       cjson.Uint8  `json:"threshold"`
	Members         []APIMember  `json:"members"`
	ProposalCount   cjson.Uint64 `json:"proposalCount"`
	LastExecuted    cjson.Uint64 `json:"lastExecuted"`
	Paused          bool         `json:"paused"`
	TimelockSeconds cjson.Uint64 `json:"timelockSeconds"`
	VaultBalance    cjson.Uint64 `json:"vaultBalance"`
}

// GetWallet returns the wallet record at the given address.
func (s *Service) GetWallet(_ *http.Request, args *GetWalletArgs, reply *GetWalletReply) error {
	wallet, err := s.vm.GetWallet(args.Wallet)
	if err != nil {
		return err
	}
	vaultBalance, err := s.vm.Balance(wallet.Vault)
	if err != nil {
		return err
	}

	reply.Creator = wallet.Creator
	reply.Vault = wallet.Vault
	reply.WalletID = cjson.Uint64(wallet.ID)
	reply.Threshold = cjson.Uint8(wallet.Threshold)
	reply.Members = make([]APIMember, 0, wallet.MemberCount)
	for _, member := range wallet.Members[:wallet.MemberCount] {
		reply.Members = append(reply.Members, APIMember{
			Address: member.Address,
			Role:    member.Role.String(),
		})
	}
	reply.ProposalCount = cjson.Uint64(wallet.ProposalCount)
	reply.LastExecuted = cjson.Uint64(uint64(wallet.LastExecuted))
	reply.Paused = wallet.Paused
	reply.TimelockSeconds = cjson.Uint64(wallet.TimelockSeconds)
	reply.VaultBalance = cjson.Uint64(vaultBalance)
	return nil
}

// GetProposalArgs are the arguments to GetProposal and GetTransferProposal.
type GetProposalArgs struct {
	Wallet     ids.ShortID  `json:"wallet"`
	ProposalID cjson.Uint64 `json:"proposalID"`
}

// GetProposalReply is the reply from GetProposal.
type GetProposalReply struct {
	Proposer      ids.ShortID   `json:"proposer"`
	Status        string        `json:"status"`
	Approvals     []ids.ShortID `json:"approvals"`
	ApprovalCount cjson.Uint8   `json:"approvalCount"`
	CreatedAt     cjson.Uint64  `json:"createdAt"`
	ExpiresAt     cjson.Uint64  `json:"expiresAt"`
}

// GetProposal returns an open governance proposal of a wallet.
func (s *Service) GetProposal(_ *http.Request, args *GetProposalArgs, reply *GetProposalReply) error {
	proposal, err := s.vm.GetProposal(args.Wallet, uint64(args.ProposalID))
	if err != nil {
		return err
	}
	fillBallot(&proposal.Ballot, reply)
	return nil
}

// GetTransferProposalReply is the reply from GetTransferProposal.
type GetTransferProposalReply struct {
	GetProposalReply
	Amount    cjson.Uint64 `json:"amount"`
	Recipient ids.ShortID  `json:"recipient"`
}

// GetTransferProposal returns an open transfer proposal of a wallet.
func (s *Service) GetTransferProposal(_ *http.Request, args *GetProposalArgs, reply *GetTransferProposalReply) error {
	proposal, err := s.vm.GetTransferProposal(args.Wallet, uint64(args.ProposalID))
	if err != nil {
		return err
	}
	fillBallot(&proposal.Ballot, &reply.GetProposalReply)
	reply.Amount = cjson.Uint64(proposal.Amount)
	reply.Recipient = proposal.Recipient
	return nil
}

// GetBalanceArgs are the arguments to GetBalance.
type GetBalanceArgs struct {
	Address ids.ShortID `json:"address"`
}

// GetBalanceReply is the reply from GetBalance.
type GetBalanceReply struct {
	Balance cjson.Uint64 `json:"balance"`
}

// GetBalance returns the value held at an account.
func (s *Service) GetBalance(_ *http.Request, args *GetBalanceArgs, reply *GetBalanceReply) error {
	balance, err := s.vm.Balance(args.Address)
	if err != nil {
		return err
	}
	reply.Balance = cjson.Uint64(balance)
	return nil
}

func fillBallot(ballot *multisig.Ballot, reply *GetProposalReply) {
	reply.Proposer = ballot.Proposer
	reply.Status = ballot.Status.String()
	reply.Approvals = append([]ids.ShortID(nil), ballot.Approvals...)
	reply.ApprovalCount = cjson.Uint8(ballot.ApprovalCount)
	reply.CreatedAt = cjson.Uint64(uint64(ballot.CreatedAt))
	reply.ExpiresAt = cjson.Uint64(uint64(ballot.ExpiresAt))
}

func buildAction(args *ActionArgs) (multisig.Action, error) {
	switch args.ActionType {
	case "addMember":
		role, err := multisig.ParseRole(args.Role)
		if err != nil {
			return nil, err
		}
		return &multisig.AddMember{Member: args.Member, Role: role}, nil
	case "removeMember":
		return &multisig.RemoveMember{Member: args.Member}, nil
	case "changeThreshold":
		return &multisig.ChangeThreshold{NewThreshold: uint8(args.NewThreshold)}, nil
	case "changeTimelock":
		return &multisig.ChangeTimelock{NewTimelock: uint64(args.NewTimelock)}, nil
	default:
		return nil, multisig.NewError(multisig.Bounds, "unknown action type")
	}
}
