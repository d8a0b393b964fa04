package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/nspcc-dev/splitter-contract/rpc/splitter"
	"go.uber.org/zap"
)

// remoteBlockchain wraps Neo RPC connection and provides Splitter contract
// clients based on it.
type remoteBlockchain struct {
	log *zap.Logger
	rpc *rpcclient.Client

	// decrypted accounts, closed together with the connection
	accounts []*wallet.Account
}

// newRemoteBlockchain dials Neo RPC server. Connection and all requests are
// done within configured timeout.
func newRemoteBlockchain(ctx context.Context, log *zap.Logger, cfg Config) (*remoteBlockchain, error) {
	err := cfg.checkEndpoint()
	if err != nil {
		return nil, err
	}

	c, err := rpcclient.New(ctx, cfg.RPCEndpoint, rpcclient.Options{
		DialTimeout:    cfg.DialTimeout,
		RequestTimeout: cfg.DialTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("RPC client dial: %w", err)
	}

	err = c.Init()
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("RPC client init: %w", err)
	}

	log.Debug("connected to Neo RPC server", zap.String("endpoint", cfg.RPCEndpoint))

	return &remoteBlockchain{log: log, rpc: c}, nil
}

func (x *remoteBlockchain) close() {
	for _, acc := range x.accounts {
		acc.Close()
	}
	x.accounts = nil

	if x.rpc != nil {
		x.rpc.Close()
	}
}

// account opens the signing account. Its private key stays available until
// the blockchain is closed.
func (x *remoteBlockchain) account(cfg Config) (*wallet.Account, error) {
	acc, err := openAccount(cfg)
	if err != nil {
		return nil, err
	}

	x.accounts = append(x.accounts, acc)

	return acc, nil
}

func (x *remoteBlockchain) reader(cfg Config) (*splitter.ContractReader, error) {
	h, err := contractAddress(cfg)
	if err != nil {
		return nil, err
	}
	return splitter.NewReader(invoker.New(x.rpc, nil), h), nil
}

// contract returns Splitter client sending transactions signed by the
// configured wallet account.
func (x *remoteBlockchain) contract(cfg Config) (*splitter.Contract, txWaiter, error) {
	h, err := contractAddress(cfg)
	if err != nil {
		return nil, txWaiter{}, err
	}

	acc, err := x.account(cfg)
	if err != nil {
		return nil, txWaiter{}, err
	}

	act, err := actor.NewSimple(x.rpc, acc)
	if err != nil {
		return nil, txWaiter{}, fmt.Errorf("init actor: %w", err)
	}

	return splitter.New(act, h), txWaiter{log: x.log, act: act}, nil
}

// txWaiter awaits transactions sent by the actor.
type txWaiter struct {
	log *zap.Logger
	act *actor.Actor
}

// wait awaits the transaction and returns its application log if it has
// been successfully executed.
func (w txWaiter) wait(h util.Uint256, vub uint32, err error) (*result.ApplicationLog, error) {
	if err != nil {
		return nil, fmt.Errorf("send transaction: %w", err)
	}

	w.log.Debug("transaction sent, waiting...", zap.Stringer("tx", h), zap.Uint32("vub", vub))

	res, err := w.act.Wait(h, vub, nil)
	if err != nil {
		return nil, fmt.Errorf("wait for transaction %s: %w", h.StringLE(), err)
	}

	if res.VMState != vmstate.Halt {
		return nil, fmt.Errorf("transaction %s failed: %s", h.StringLE(), res.FaultException)
	}

	w.log.Info("transaction accepted", zap.Stringer("tx", h), zap.Int64("gas", res.GasConsumed))

	return &result.ApplicationLog{
		Container:     res.Container,
		IsTransaction: true,
		Executions:    []state.Execution{res.Execution},
	}, nil
}

func contractAddress(cfg Config) (util.Uint160, error) {
	err := cfg.checkContract()
	if err != nil {
		return util.Uint160{}, err
	}
	return parseAccount(cfg.Contract)
}

// openAccount reads the wallet and decrypts the account to sign with. The
// configured address is used if set, otherwise the default wallet account.
// The caller must close the returned account.
func openAccount(cfg Config) (*wallet.Account, error) {
	err := cfg.checkWallet()
	if err != nil {
		return nil, err
	}

	w, err := wallet.NewWalletFromFile(cfg.Wallet)
	if err != nil {
		return nil, fmt.Errorf("read wallet: %w", err)
	}

	var h util.Uint160
	if cfg.Address != "" {
		h, err = parseAccount(cfg.Address)
		if err != nil {
			return nil, err
		}
	} else {
		h = w.GetChangeAddress()
	}

	acc := w.GetAccount(h)
	if acc == nil {
		w.Close()
		return nil, errors.New("account is missing in the wallet")
	}

	for _, other := range w.Accounts {
		if other != acc {
			other.Close()
		}
	}

	err = acc.Decrypt(os.Getenv(walletPasswordEnv), w.Scrypt)
	if err != nil {
		acc.Close()
		return nil, fmt.Errorf("decrypt account: %w", err)
	}

	return acc, nil
}

// defaultAccount returns the script hash of the account to sign with
// without decrypting the wallet.
func defaultAccount(cfg Config) (util.Uint160, error) {
	if cfg.Address != "" {
		return parseAccount(cfg.Address)
	}

	err := cfg.checkWallet()
	if err != nil {
		return util.Uint160{}, err
	}

	w, err := wallet.NewWalletFromFile(cfg.Wallet)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("read wallet: %w", err)
	}
	defer w.Close()

	h := w.GetChangeAddress()
	if h.Equals(util.Uint160{}) {
		return h, errors.New("wallet has no accounts")
	}

	return h, nil
}
