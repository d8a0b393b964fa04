package deploy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"go.uber.org/zap"
)

// Blockchain groups services provided by particular Neo blockchain network
// that are required for the Splitter contract deployment.
type Blockchain interface {
	// RPCActor groups functions needed to compose and send transactions to
	// the blockchain.
	actor.RPCActor

	// GetContractStateByHash returns network state of the smart contract by its
	// address. GetContractStateByHash returns error with 'Unknown contract'
	// substring if requested contract is missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)
}

// Prm groups all parameters of the Splitter contract deployment procedure.
type Prm struct {
	// Writes progress into the log. Nop logger is used if not set.
	Logger *zap.Logger

	// Particular Neo blockchain instance to deploy the contract to.
	Blockchain Blockchain

	// Local process account used for transaction signing (must be unlocked).
	// It pays for the deployment and becomes the contract owner.
	LocalAccount *wallet.Account

	// Compiled contract.
	NEF      nef.File
	Manifest manifest.Manifest

	// Makes the contract start in the paused state.
	InitiallyPaused bool
}

// errMissingAccount is returned by Deploy when Prm.LocalAccount is not set.
var errMissingAccount = errors.New("missing local account")

// Deploy deploys the Splitter contract into the given Prm.Blockchain on
// behalf of the Prm.LocalAccount and returns the contract address.
//
// The address depends on the deployer account, NEF checksum and manifest name
// only, so Deploy is idempotent: if the contract is already on the chain, its
// address is returned without sending any transaction.
func Deploy(prm Prm) (util.Uint160, error) {
	if prm.LocalAccount == nil {
		return util.Uint160{}, errMissingAccount
	}

	l := prm.Logger
	if l == nil {
		l = zap.NewNop()
	}

	addr := ContractAddress(prm.LocalAccount.ScriptHash(), prm.NEF, prm.Manifest)
	l = l.With(zap.String("contract", prm.Manifest.Name), zap.Stringer("address", addr))

	exists, err := contractExists(prm.Blockchain, addr)
	if err != nil {
		return util.Uint160{}, err
	}
	if exists {
		l.Info("contract is already deployed, skip")
		return addr, nil
	}

	act, err := actor.NewSimple(prm.Blockchain, prm.LocalAccount)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("init transaction sender from single local account: %w", err)
	}

	l.Info("contract is missing on the chain, deploying...")

	txHash, vub, err := management.New(act).Deploy(&prm.NEF, &prm.Manifest, []any{prm.InitiallyPaused})
	if err != nil {
		return util.Uint160{}, fmt.Errorf("send deployment transaction: %w", err)
	}

	l.Debug("deployment transaction sent, waiting for acceptance...",
		zap.Stringer("tx", txHash), zap.Uint32("vub", vub))

	res, err := act.Wait(txHash, vub, nil)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("wait for deployment transaction %s: %w", txHash.StringLE(), err)
	}

	err = checkHalt(res)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("deployment transaction %s: %w", txHash.StringLE(), err)
	}

	l.Info("contract successfully deployed",
		zap.Stringer("tx", txHash), zap.Bool("paused", prm.InitiallyPaused))

	return addr, nil
}

// ContractAddress returns address of the contract deployed by the given
// sender.
func ContractAddress(sender util.Uint160, nefFile nef.File, m manifest.Manifest) util.Uint160 {
	return state.CreateContractHash(sender, nefFile.Checksum, m.Name)
}

func contractExists(b Blockchain, addr util.Uint160) (bool, error) {
	_, err := b.GetContractStateByHash(addr)
	if err == nil {
		return true, nil
	}
	if isErrContractNotFound(err) {
		return false, nil
	}
	return false, fmt.Errorf("get contract state %s: %w", addr.StringLE(), err)
}

func isErrContractNotFound(err error) bool {
	return strings.Contains(err.Error(), "Unknown contract")
}

func checkHalt(res *state.AppExecResult) error {
	if res.VMState != vmstate.Halt {
		return fmt.Errorf("unexpected VM state %s, exception: %s", res.VMState, res.FaultException)
	}
	return nil
}
