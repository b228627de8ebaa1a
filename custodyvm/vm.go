// (c) 2025-2026, Soteria Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package custodyvm

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/rpc/v2"

	log "github.com/inconshreveable/log15"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/timer/mockable"

	cjson "github.com/ava-labs/avalanchego/utils/json"

	"github.com/soteria-labs/custodyvm/multisig"
)

const (
	Name = "custodyvm"

	// WalletDeposit is escrowed at the wallet's address when it is created
	// and held for the wallet's lifetime.
	WalletDeposit uint64 = 1_000

	// ProposalDeposit is escrowed at a proposal's address when it is created
	// and refunded to the original proposer when the proposal closes.
	ProposalDeposit uint64 = 250
)

// Version of the custody VM.
var Version = "v1.0.0"

var (
	errWalletExists        = multisig.NewError(multisig.State, "wallet already exists at this address")
	errWalletNotFound      = multisig.NewError(multisig.State, "no wallet at this address")
	errProposalNotFound    = multisig.NewError(multisig.State, "no proposal with this sequence number")
	errInsufficientBalance = multisig.NewError(multisig.Resource, "insufficient account balance")
	errOwnedAccount        = multisig.NewError(multisig.Authorization, "funds cannot leave a program-owned account directly")
)

// VM is the deterministic execution environment for the custody wallet
// program. Every instruction runs to completion under the VM lock against a
// snapshot of its records: on any precondition failure the pending writes
// are discarded, so no partial state change is ever observable.
//
// The host's signature check is consumed as a fact: the caller identity in
// each instruction has already been verified as an authorizer of the
// enclosing transaction.
type VM struct {
	lock sync.RWMutex

	// Clock used for timelock and expiry decisions; settable in tests.
	clock mockable.Clock

	state State
}

// Initialize sets up the VM's state over [db]. The genesis allocations are
// applied exactly once for a fresh database.
func (vm *VM) Initialize(db database.Database, genesisBytes []byte) error {
	log.Info("initializing custody VM", "version", Version)
	vm.state = NewState(db)

	initialized, err := vm.state.IsInitialized()
	if err != nil {
		return fmt.Errorf("failed to read initialized state: %w", err)
	}
	if initialized {
		return nil
	}

	// A genesis that fails partway must not leave pending credits behind for
	// a later commit to publish.
	if err := vm.applyGenesis(genesisBytes); err != nil {
		vm.state.Abort()
		return err
	}
	return nil
}

func (vm *VM) applyGenesis(genesisBytes []byte) error {
	genesis, err := ParseGenesis(genesisBytes)
	if err != nil {
		return fmt.Errorf("failed to parse genesis: %w", err)
	}
	for _, alloc := range genesis.Allocations {
		if err := vm.state.Credit(alloc.Address, alloc.Balance); err != nil {
			return fmt.Errorf("failed to fund genesis allocation %s: %w", alloc.Address, err)
		}
	}
	if err := vm.state.SetInitialized(); err != nil {
		return fmt.Errorf("failed to set initialized state: %w", err)
	}
	if err := vm.state.Commit(); err != nil {
		return fmt.Errorf("failed to commit genesis: %w", err)
	}
	log.Info("applied genesis", "allocations", len(genesis.Allocations))
	return nil
}

// Shutdown releases the VM's database.
func (vm *VM) Shutdown() error {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	if vm.state == nil {
		return nil
	}
	return vm.state.Close()
}

// CreateHandler returns the JSON-RPC handler exposing the instruction
// surface under the "custody" namespace.
func (vm *VM) CreateHandler() (http.Handler, error) {
	server := rpc.NewServer()
	server.RegisterCodec(cjson.NewCodec(), "application/json")
	server.RegisterCodec(cjson.NewCodec(), "application/json;charset=UTF-8")
	return server, server.RegisterService(&Service{vm: vm}, "custody")
}

// StaticHandler returns the handler for the static API (genesis tooling).
func StaticHandler() (http.Handler, error) {
	server := rpc.NewServer()
	server.RegisterCodec(cjson.NewCodec(), "application/json")
	server.RegisterCodec(cjson.NewCodec(), "application/json;charset=UTF-8")
	return server, server.RegisterService(CreateStaticService(), "custody")
}

// commit publishes the instruction's writes if err is nil, and otherwise
// discards them. Either way the returned error is what the caller reports.
func (vm *VM) commit(err error) error {
	if err != nil {
		vm.state.Abort()
		return err
	}
	if err := vm.state.Commit(); err != nil {
		vm.state.Abort()
		return err
	}
	return nil
}

// CreateWallet instantiates a wallet and its empty vault. The creation
// deposit is escrowed at the wallet's own address.
func (vm *VM) CreateWallet(
	caller ids.ShortID,
	walletID uint64,
	threshold uint8,
	timelockSeconds uint64,
) (*multisig.Multisig, error) {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	wallet, err := vm.createWallet(caller, walletID, threshold, timelockSeconds)
	if err := vm.commit(err); err != nil {
		return nil, err
	}
	return wallet, nil
}

func (vm *VM) createWallet(
	caller ids.ShortID,
	walletID uint64,
	threshold uint8,
	timelockSeconds uint64,
) (*multisig.Multisig, error) {
	addr := WalletAddress(caller, walletID)
	switch _, err := vm.state.GetWallet(addr); err {
	case nil:
		return nil, errWalletExists
	case database.ErrNotFound:
	default:
		return nil, err
	}

	vault := VaultAddress(addr)
	wallet, err := multisig.New(addr, vault, walletID, caller, threshold, timelockSeconds)
	if err != nil {
		return nil, err
	}

	if err := vm.moveValue(caller, addr, WalletDeposit); err != nil {
		return nil, err
	}
	if err := vm.state.MarkOwned(addr); err != nil {
		return nil, err
	}
	if err := vm.state.MarkOwned(vault); err != nil {
		return nil, err
	}
	if err := vm.state.PutWallet(wallet); err != nil {
		return nil, err
	}

	log.Info("created wallet", "wallet", addr, "creator", caller, "vault", vault)
	return wallet, nil
}

// CreateProposal opens a governance proposal on [walletAddr].
func (vm *VM) CreateProposal(
	caller ids.ShortID,
	walletAddr ids.ShortID,
	action multisig.Action,
) (*multisig.Proposal, error) {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	proposal, err := vm.createProposal(caller, walletAddr, action)
	if err := vm.commit(err); err != nil {
		return nil, err
	}
	return proposal, nil
}

func (vm *VM) createProposal(
	caller ids.ShortID,
	walletAddr ids.ShortID,
	action multisig.Action,
) (*multisig.Proposal, error) {
	wallet, err := vm.wallet(walletAddr)
	if err != nil {
		return nil, err
	}

	proposal, err := wallet.CreateProposal(caller, action, vm.clock.Time().Unix())
	if err != nil {
		return nil, err
	}

	addr := ProposalAddress(walletAddr, proposal.ProposalID)
	if err := vm.moveValue(caller, addr, ProposalDeposit); err != nil {
		return nil, err
	}
	if err := vm.state.MarkOwned(addr); err != nil {
		return nil, err
	}
	if err := vm.state.PutProposal(addr, proposal); err != nil {
		return nil, err
	}
	if err := vm.state.PutWallet(wallet); err != nil {
		return nil, err
	}

	log.Info("created proposal",
		"wallet", walletAddr,
		"proposalID", proposal.ProposalID,
		"proposer", caller,
	)
	return proposal, nil
}

// CreateTransferProposal opens a transfer proposal on [walletAddr].
func (vm *VM) CreateTransferProposal(
	caller ids.ShortID,
	walletAddr ids.ShortID,
	recipient ids.ShortID,
	amount uint64,
) (*multisig.TransferProposal, error) {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	proposal, err := vm.createTransferProposal(caller, walletAddr, recipient, amount)
	if err := vm.commit(err); err != nil {
		return nil, err
	}
	return proposal, nil
}

func (vm *VM) createTransferProposal(
	caller ids.ShortID,
	walletAddr ids.ShortID,
	recipient ids.ShortID,
	amount uint64,
) (*multisig.TransferProposal, error) {
	wallet, err := vm.wallet(walletAddr)
	if err != nil {
		return nil, err
	}

	proposal, err := wallet.CreateTransferProposal(caller, recipient, amount, vm.clock.Time().Unix())
	if err != nil {
		return nil, err
	}

	addr := TransferProposalAddress(walletAddr, proposal.ProposalID)
	if err := vm.moveValue(caller, addr, ProposalDeposit); err != nil {
		return nil, err
	}
	if err := vm.state.MarkOwned(addr); err != nil {
		return nil, err
	}
	if err := vm.state.PutTransferProposal(addr, proposal); err != nil {
		return nil, err
	}
	if err := vm.state.PutWallet(wallet); err != nil {
		return nil, err
	}

	log.Info("created transfer proposal",
		"wallet", walletAddr,
		"proposalID", proposal.ProposalID,
		"amount", amount,
		"recipient", recipient,
	)
	return proposal, nil
}

// ApproveProposal records [caller]'s approval on a governance proposal.
func (vm *VM) ApproveProposal(caller ids.ShortID, walletAddr ids.ShortID, proposalID uint64) error {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	return vm.commit(vm.approveProposal(caller, walletAddr, proposalID))
}

func (vm *VM) approveProposal(caller ids.ShortID, walletAddr ids.ShortID, proposalID uint64) error {
	wallet, err := vm.wallet(walletAddr)
	if err != nil {
		return err
	}
	addr := ProposalAddress(walletAddr, proposalID)
	proposal, err := vm.proposal(addr)
	if err != nil {
		return err
	}

	if err := wallet.Approve(&proposal.Ballot, caller); err != nil {
		return err
	}
	return vm.state.PutProposal(addr, proposal)
}

// ApproveTransferProposal records [caller]'s approval on a transfer proposal.
func (vm *VM) ApproveTransferProposal(caller ids.ShortID, walletAddr ids.ShortID, proposalID uint64) error {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	return vm.commit(vm.approveTransferProposal(caller, walletAddr, proposalID))
}

func (vm *VM) approveTransferProposal(caller ids.ShortID, walletAddr ids.ShortID, proposalID uint64) error {
	wallet, err := vm.wallet(walletAddr)
	if err != nil {
		return err
	}
	addr := TransferProposalAddress(walletAddr, proposalID)
	proposal, err := vm.transferProposal(addr)
	if err != nil {
		return err
	}

	if err := wallet.Approve(&proposal.Ballot, caller); err != nil {
		return err
	}
	return vm.state.PutTransferProposal(addr, proposal)
}

// ExecuteProposal applies an approved governance proposal to its wallet,
// closes the proposal record, and refunds the deposit to the proposer.
func (vm *VM) ExecuteProposal(caller ids.ShortID, walletAddr ids.ShortID, proposalID uint64) error {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	return vm.commit(vm.executeProposal(caller, walletAddr, proposalID))
}

func (vm *VM) executeProposal(caller ids.ShortID, walletAddr ids.ShortID, proposalID uint64) error {
	wallet, err := vm.wallet(walletAddr)
	if err != nil {
		return err
	}
	addr := ProposalAddress(walletAddr, proposalID)
	proposal, err := vm.proposal(addr)
	if err != nil {
		return err
	}

	if err := wallet.ExecuteProposal(proposal, caller, vm.clock.Time().Unix()); err != nil {
		return err
	}

	if err := vm.closeRecord(addr, proposal.Proposer); err != nil {
		return err
	}
	if err := vm.state.DeleteProposal(addr); err != nil {
		return err
	}
	if err := vm.state.PutWallet(wallet); err != nil {
		return err
	}

	log.Info("executed proposal", "wallet", walletAddr, "proposalID", proposalID, "executor", caller)
	return nil
}

// ExecuteTransferProposal moves value out of the vault to the proposal's
// stored recipient, closes the record, and refunds the deposit.
func (vm *VM) ExecuteTransferProposal(caller ids.ShortID, walletAddr ids.ShortID, proposalID uint64) error {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	return vm.commit(vm.executeTransferProposal(caller, walletAddr, proposalID))
}

func (vm *VM) executeTransferProposal(caller ids.ShortID, walletAddr ids.ShortID, proposalID uint64) error {
	wallet, err := vm.wallet(walletAddr)
	if err != nil {
		return err
	}
	addr := TransferProposalAddress(walletAddr, proposalID)
	proposal, err := vm.transferProposal(addr)
	if err != nil {
		return err
	}

	// The recipient must be a plain value-holding account; sending vault
	// funds into another program-owned record would strand them.
	recipientOwned, err := vm.state.IsOwned(proposal.Recipient)
	if err != nil {
		return err
	}
	if recipientOwned {
		return multisig.ErrInvalidRecipient
	}

	vaultBalance, err := vm.state.Balance(wallet.Vault)
	if err != nil {
		return err
	}
	if err := wallet.ExecuteTransfer(proposal, caller, vm.clock.Time().Unix(), vaultBalance); err != nil {
		return err
	}

	// Only this path may debit the vault.
	if err := vm.moveValue(wallet.Vault, proposal.Recipient, proposal.Amount); err != nil {
		return err
	}

	if err := vm.closeRecord(addr, proposal.Proposer); err != nil {
		return err
	}
	if err := vm.state.DeleteTransferProposal(addr); err != nil {
		return err
	}
	if err := vm.state.PutWallet(wallet); err != nil {
		return err
	}

	log.Info("executed transfer proposal",
		"wallet", walletAddr,
		"proposalID", proposalID,
		"amount", proposal.Amount,
		"recipient", proposal.Recipient,
	)
	return nil
}

// CancelProposal retires an active governance proposal and refunds its
// deposit to the original proposer.
func (vm *VM) CancelProposal(caller ids.ShortID, walletAddr ids.ShortID, proposalID uint64) error {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	return vm.commit(vm.cancelProposal(caller, walletAddr, proposalID))
}

func (vm *VM) cancelProposal(caller ids.ShortID, walletAddr ids.ShortID, proposalID uint64) error {
	wallet, err := vm.wallet(walletAddr)
	if err != nil {
		return err
	}
	addr := ProposalAddress(walletAddr, proposalID)
	proposal, err := vm.proposal(addr)
	if err != nil {
		return err
	}

	if err := wallet.Cancel(&proposal.Ballot, caller); err != nil {
		return err
	}
	if err := vm.closeRecord(addr, proposal.Proposer); err != nil {
		return err
	}
	return vm.state.DeleteProposal(addr)
}

// CancelTransferProposal retires an active transfer proposal and refunds its
// deposit to the original proposer.
func (vm *VM) CancelTransferProposal(caller ids.ShortID, walletAddr ids.ShortID, proposalID uint64) error {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	return vm.commit(vm.cancelTransferProposal(caller, walletAddr, proposalID))
}

func (vm *VM) cancelTransferProposal(caller ids.ShortID, walletAddr ids.ShortID, proposalID uint64) error {
	wallet, err := vm.wallet(walletAddr)
	if err != nil {
		return err
	}
	addr := TransferProposalAddress(walletAddr, proposalID)
	proposal, err := vm.transferProposal(addr)
	if err != nil {
		return err
	}

	if err := wallet.Cancel(&proposal.Ballot, caller); err != nil {
		return err
	}
	if err := vm.closeRecord(addr, proposal.Proposer); err != nil {
		return err
	}
	return vm.state.DeleteTransferProposal(addr)
}

// TogglePause flips the wallet's pause flag. Restricted to the creator.
func (vm *VM) TogglePause(caller ids.ShortID, walletAddr ids.ShortID) error {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	return vm.commit(vm.togglePause(caller, walletAddr))
}

func (vm *VM) togglePause(caller ids.ShortID, walletAddr ids.ShortID) error {
	wallet, err := vm.wallet(walletAddr)
	if err != nil {
		return err
	}
	if err := wallet.TogglePause(caller); err != nil {
		return err
	}
	if err := vm.state.PutWallet(wallet); err != nil {
		return err
	}
	log.Info("toggled pause", "wallet", walletAddr, "paused", wallet.Paused)
	return nil
}

// Transfer is the plain value-movement primitive between ledger accounts.
// Funds can enter a program-owned address (funding a vault) but never leave
// one through this path.
func (vm *VM) Transfer(from ids.ShortID, to ids.ShortID, amount uint64) error {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	return vm.commit(vm.transfer(from, to, amount))
}

func (vm *VM) transfer(from ids.ShortID, to ids.ShortID, amount uint64) error {
	if amount == 0 {
		return multisig.ErrZeroAmount
	}
	fromOwned, err := vm.state.IsOwned(from)
	if err != nil {
		return err
	}
	if fromOwned {
		return errOwnedAccount
	}
	return vm.moveValue(from, to, amount)
}

// GetWallet returns the wallet record at [walletAddr].
func (vm *VM) GetWallet(walletAddr ids.ShortID) (*multisig.Multisig, error) {
	vm.lock.RLock()
	defer vm.lock.RUnlock()

	return vm.wallet(walletAddr)
}

// GetProposal returns the governance proposal [proposalID] of [walletAddr].
func (vm *VM) GetProposal(walletAddr ids.ShortID, proposalID uint64) (*multisig.Proposal, error) {
	vm.lock.RLock()
	defer vm.lock.RUnlock()

	return vm.proposal(ProposalAddress(walletAddr, proposalID))
}

// GetTransferProposal returns the transfer proposal [proposalID] of
// [walletAddr].
func (vm *VM) GetTransferProposal(walletAddr ids.ShortID, proposalID uint64) (*multisig.TransferProposal, error) {
	vm.lock.RLock()
	defer vm.lock.RUnlock()

	return vm.transferProposal(TransferProposalAddress(walletAddr, proposalID))
}

// Balance returns the value held at [addr].
func (vm *VM) Balance(addr ids.ShortID) (uint64, error) {
	vm.lock.RLock()
	defer vm.lock.RUnlock()

	return vm.state.Balance(addr)
}

func (vm *VM) wallet(addr ids.ShortID) (*multisig.Multisig, error) {
	wallet, err := vm.state.GetWallet(addr)
	if err == database.ErrNotFound {
		return nil, errWalletNotFound
	}
	return wallet, err
}

func (vm *VM) proposal(addr ids.ShortID) (*multisig.Proposal, error) {
	proposal, err := vm.state.GetProposal(addr)
	if err == database.ErrNotFound {
		return nil, errProposalNotFound
	}
	return proposal, err
}

func (vm *VM) transferProposal(addr ids.ShortID) (*multisig.TransferProposal, error) {
	proposal, err := vm.state.GetTransferProposal(addr)
	if err == database.ErrNotFound {
		return nil, errProposalNotFound
	}
	return proposal, err
}

func (vm *VM) moveValue(from ids.ShortID, to ids.ShortID, amount uint64) error {
	if err := vm.state.Debit(from, amount); err != nil {
		return err
	}
	return vm.state.Credit(to, amount)
}

// closeRecord returns everything held at a retired record's address to
// [refundTo] and clears the program-owned marker. The refund always goes to
// the original proposer, never to whoever triggered the close.
func (vm *VM) closeRecord(addr ids.ShortID, refundTo ids.ShortID) error {
	balance, err := vm.state.Balance(addr)
	if err != nil {
		return err
	}
	if balance > 0 {
		if err := vm.moveValue(addr, refundTo, balance); err != nil {
			return err
		}
	}
	return vm.state.RemoveOwned(addr)
}
