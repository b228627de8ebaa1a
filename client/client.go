// (c) 2025-2026, Soteria Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package client

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/rpc"
	"github.com/soteria-labs/custodyvm/custodyvm"

	cjson "github.com/ava-labs/avalanchego/utils/json"
)

// Client defines custodyvm client operations.
type Client interface {
	// CreateWallet instantiates a wallet; returns its address and vault.
	CreateWallet(ctx context.Context, caller ids.ShortID, walletID uint64, threshold uint8, timelockSeconds uint64) (ids.ShortID, ids.ShortID, error)

	// CreateProposal opens a governance proposal carrying [action].
	CreateProposal(ctx context.Context, caller ids.ShortID, wallet ids.ShortID, action custodyvm.ActionArgs) (uint64, error)

	// CreateTransferProposal opens a transfer proposal.
	CreateTransferProposal(ctx context.Context, caller ids.ShortID, wallet ids.ShortID, recipient ids.ShortID, amount uint64) (uint64, error)

	// ApproveProposal records an approval on a governance proposal.
	ApproveProposal(ctx context.Context, caller ids.ShortID, wallet ids.ShortID, proposalID uint64) error

	// ApproveTransferProposal records an approval on a transfer proposal.
	ApproveTransferProposal(ctx context.Context, caller ids.ShortID, wallet ids.ShortID, proposalID uint64) error

	// ExecuteProposal applies an approved governance proposal.
	ExecuteProposal(ctx context.Context, caller ids.ShortID, wallet ids.ShortID, proposalID uint64) error

	// ExecuteTransferProposal pays out an approved transfer proposal.
	ExecuteTransferProposal(ctx context.Context, caller ids.ShortID, wallet ids.ShortID, proposalID uint64) error

	// CancelProposal retires an active governance proposal.
	CancelProposal(ctx context.Context, caller ids.ShortID, wallet ids.ShortID, proposalID uint64) error

	// CancelTransferProposal retires an active transfer proposal.
	CancelTransferProposal(ctx context.Context, caller ids.ShortID, wallet ids.ShortID, proposalID uint64) error

	// TogglePause flips a wallet's pause flag; returns the new value.
	TogglePause(ctx context.Context, caller ids.ShortID, wallet ids.ShortID) (bool, error)

	// Transfer moves value out of the caller's account.
	Transfer(ctx context.Context, caller ids.ShortID, to ids.ShortID, amount uint64) error

	// GetWallet fetches a wallet record.
	GetWallet(ctx context.Context, wallet ids.ShortID) (*custodyvm.GetWalletReply, error)

	// GetProposal fetches a governance proposal.
	GetProposal(ctx context.Context, wallet ids.ShortID, proposalID uint64) (*custodyvm.GetProposalReply, error)

	// GetTransferProposal fetches a transfer proposal.
	GetTransferProposal(ctx context.Context, wallet ids.ShortID, proposalID uint64) (*custodyvm.GetTransferProposalReply, error)

	// GetBalance fetches the value held at an account.
	GetBalance(ctx context.Context, address ids.ShortID) (uint64, error)
}

// New creates a new client object.
func New(uri string) Client {
	req := rpc.NewEndpointRequester(uri)
	return &client{req: req}
}

type client struct {
	req rpc.EndpointRequester
}

func (cli *client) CreateWallet(
	ctx context.Context,
	caller ids.ShortID,
	walletID uint64,
	threshold uint8,
	timelockSeconds uint64,
) (ids.ShortID, ids.ShortID, error) {
	resp := new(custodyvm.CreateWalletReply)
	err := cli.req.SendRequest(ctx,
		"custody.createWallet",
		&custodyvm.CreateWalletArgs{
			Caller:          caller,
			WalletID:        cjson.Uint64(walletID),
			Threshold:       cjson.Uint8(threshold),
			TimelockSeconds: cjson.Uint64(timelockSeconds),
		},
		resp,
	)
	if err != nil {
		return ids.ShortEmpty, ids.ShortEmpty, err
	}
	return resp.Wallet, resp.Vault, nil
}

func (cli *client) CreateProposal(
	ctx context.Context,
	caller ids.ShortID,
	wallet ids.ShortID,
	action custodyvm.ActionArgs,
) (uint64, error) {
	resp := new(custodyvm.CreateProposalReply)
	err := cli.req.SendRequest(ctx,
		"custody.createProposal",
		&custodyvm.CreateProposalArgs{
			Caller: caller,
			Wallet: wallet,
			Action: action,
		},
		resp,
	)
	if err != nil {
		return 0, err
	}
	return uint64(resp.ProposalID), nil
}

func (cli *client) CreateTransferProposal(
	ctx context.Context,
	caller ids.ShortID,
	wallet ids.ShortID,
	recipient ids.ShortID,
	amount uint64,
) (uint64, error) {
	resp := new(custodyvm.CreateProposalReply)
	err := cli.req.SendRequest(ctx,
		"custody.createTransferProposal",
		&custodyvm.CreateTransferProposalArgs{
			Caller:    caller,
			Wallet:    wallet,
			Recipient: recipient,
			Amount:    cjson.Uint64(amount),
		},
		resp,
	)
	if err != nil {
		return 0, err
	}
	return uint64(resp.ProposalID), nil
}

func (cli *client) ApproveProposal(ctx context.Context, caller ids.ShortID, wallet ids.ShortID, proposalID uint64) error {
	return cli.proposalOp(ctx, "custody.approveProposal", caller, wallet, proposalID)
}

func (cli *client) ApproveTransferProposal(ctx context.Context, caller ids.ShortID, wallet ids.ShortID, proposalID uint64) error {
	return cli.proposalOp(ctx, "custody.approveTransferProposal", caller, wallet, proposalID)
}

func (cli *client) ExecuteProposal(ctx context.Context, caller ids.ShortID, wallet ids.ShortID, proposalID uint64) error {
	return cli.proposalOp(ctx, "custody.executeProposal", caller, wallet, proposalID)
}

func (cli *client) ExecuteTransferProposal(ctx context.Context, caller ids.ShortID, wallet ids.ShortID, proposalID uint64) error {
	return cli.proposalOp(ctx, "custody.executeTransferProposal", caller, wallet, proposalID)
}

func (cli *client) CancelProposal(ctx context.Context, caller ids.ShortID, wallet ids.ShortID, proposalID uint64) error {
	return cli.proposalOp(ctx, "custody.cancelProposal", caller, wallet, proposalID)
}

func (cli *client) CancelTransferProposal(ctx context.Context, caller ids.ShortID, wallet ids.ShortID, proposalID uint64) error {
	return cli.proposalOp(ctx, "custody.cancelTransferProposal", caller, wallet, proposalID)
}

func (cli *client) proposalOp(ctx context.Context, method string, caller ids.ShortID, wallet ids.ShortID, proposalID uint64) error {
	return cli.req.SendRequest(ctx,
		method,
		&custodyvm.ProposalArgs{
			Caller:     caller,
			Wallet:     wallet,
			ProposalID: cjson.Uint64(proposalID),
		},
		&struct{}{},
	)
}

func (cli *client) TogglePause(ctx context.Context, caller ids.ShortID, wallet ids.ShortID) (bool, error) {
	resp := new(custodyvm.TogglePauseReply)
	err := cli.req.SendRequest(ctx,
		"custody.togglePause",
		&custodyvm.TogglePauseArgs{Caller: caller, Wallet: wallet},
		resp,
	)
	if err != nil {
		return false, err
	}
	return resp.Paused, nil
}

func (cli *client) Transfer(ctx context.Context, caller ids.ShortID, to ids.ShortID, amount uint64) error {
	return cli.req.SendRequest(ctx,
		"custody.transfer",
		&custodyvm.TransferArgs{
			Caller: caller,
			To:     to,
			Amount: cjson.Uint64(amount),
		},
		&struct{}{},
	)
}

func (cli *client) GetWallet(ctx context.Context, wallet ids.ShortID) (*custodyvm.GetWalletReply, error) {
	resp := new(custodyvm.GetWalletReply)
	err := cli.req.SendRequest(ctx,
		"custody.getWallet",
		&custodyvm.GetWalletArgs{Wallet: wallet},
		resp,
	)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (cli *client) GetProposal(ctx context.Context, wallet ids.ShortID, proposalID uint64) (*custodyvm.GetProposalReply, error) {
	resp := new(custodyvm.GetProposalReply)
	err := cli.req.SendRequest(ctx,
		"custody.getProposal",
		&custodyvm.GetProposalArgs{Wallet: wallet, ProposalID: cjson.Uint64(proposalID)},
		resp,
	)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (cli *client) GetTransferProposal(ctx context.Context, wallet ids.ShortID, proposalID uint64) (*custodyvm.GetTransferProposalReply, error) {
	resp := new(custodyvm.GetTransferProposalReply)
	err := cli.req.SendRequest(ctx,
		"custody.getTransferProposal",
		&custodyvm.GetProposalArgs{Wallet: wallet, ProposalID: cjson.Uint64(proposalID)},
		resp,
	)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (cli *client) GetBalance(ctx context.Context, address ids.ShortID) (uint64, error) {
	resp := new(custodyvm.GetBalanceReply)
	err := cli.req.SendRequest(ctx,
		"custody.getBalance",
		&custodyvm.GetBalanceArgs{Address: address},
		resp,
	)
	if err != nil {
		return 0, err
	}
	return uint64(resp.Balance), nil
}
