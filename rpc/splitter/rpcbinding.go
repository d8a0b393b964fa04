// Package splitter contains RPC wrappers for the Splitter contract.
package splitter

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/gas"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/nep17"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/splitter-contract/contracts/splitter/splitterconst"
)

// BalanceEntry is a single account record returned by `listBalances`.
type BalanceEntry struct {
	Account util.Uint160
	Amount  *big.Int
}

// SplitterCreatedEvent represents "SplitterCreated" event emitted by the contract.
type SplitterCreatedEvent struct {
	Owner util.Uint160
}

// SplitPerformedEvent represents "SplitPerformed" event emitted by the contract.
type SplitPerformedEvent struct {
	From         util.Uint160
	Beneficiary1 util.Uint160
	Beneficiary2 util.Uint160
	Half         *big.Int
	Remainder    *big.Int
}

// AmountReceivedEvent represents "AmountReceived" event emitted by the contract.
type AmountReceivedEvent struct {
	From   util.Uint160
	Amount *big.Int
}

// WithdrawalEvent represents "Withdrawal" event emitted by the contract.
type WithdrawalEvent struct {
	Account util.Uint160
	Amount  *big.Int
}

// PausedEvent represents "Paused" event emitted by the contract.
type PausedEvent struct {
	Owner util.Uint160
}

// ResumedEvent represents "Resumed" event emitted by the contract.
type ResumedEvent struct {
	Owner util.Uint160
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
	CallAndExpandIterator(contract util.Uint160, method string, maxItems int, params ...any) (*result.Invoke, error)
	TerminateSession(sessionID uuid.UUID) error
	TraverseIterator(sessionID uuid.UUID, iterator *result.Iterator, num int) ([]stackitem.Item, error)
}

// Actor is used by Contract to call state-changing methods. Deposits are
// made with GAS transfers, so it must be usable as a NEP-17 actor too.
type Actor interface {
	Invoker

	nep17.Actor

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	Sender() util.Uint160
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash    util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash  util.Uint160
	gas   *nep17.Token
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash, gas.New(actor)}
}

// BalanceOf invokes `balanceOf` method of contract.
func (c *ContractReader) BalanceOf(account util.Uint160) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "balanceOf", account))
}

// Funds invokes `funds` method of contract.
func (c *ContractReader) Funds() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "funds"))
}

// ListBalances invokes `listBalances` method of contract.
func (c *ContractReader) ListBalances() (uuid.UUID, result.Iterator, error) {
	return unwrap.SessionIterator(c.invoker.Call(c.hash, "listBalances"))
}

// ListBalancesExpanded is similar to ListBalances (uses the same contract
// method), but can be useful if the server used doesn't support sessions and
// doesn't expand iterators. It creates a script that will get the specified
// number of result items from the iterator right in the VM and return them to
// you. It's only limited by VM stack and GAS available for RPC invocations.
func (c *ContractReader) ListBalancesExpanded(_numOfIteratorItems int) ([]stackitem.Item, error) {
	return unwrap.Array(c.invoker.CallAndExpandIterator(c.hash, "listBalances", _numOfIteratorItems))
}

// Owner invokes `owner` method of contract.
func (c *ContractReader) Owner() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "owner"))
}

// Paused invokes `paused` method of contract.
func (c *ContractReader) Paused() (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "paused"))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// Pause creates a transaction invoking `pause` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Pause() (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "pause")
}

// PauseTransaction creates a transaction invoking `pause` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) PauseTransaction() (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "pause")
}

// PauseUnsigned creates a transaction invoking `pause` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) PauseUnsigned() (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "pause", nil)
}

// Resume creates a transaction invoking `resume` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Resume() (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "resume")
}

// ResumeTransaction creates a transaction invoking `resume` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) ResumeTransaction() (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "resume")
}

// ResumeUnsigned creates a transaction invoking `resume` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) ResumeUnsigned() (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "resume", nil)
}

// Withdraw creates a transaction invoking `withdraw` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Withdraw(account util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "withdraw", account)
}

// WithdrawTransaction creates a transaction invoking `withdraw` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) WithdrawTransaction(account util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "withdraw", account)
}

// WithdrawUnsigned creates a transaction invoking `withdraw` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) WithdrawUnsigned(account util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "withdraw", nil, account)
}

// MakeSplit transfers amount of GAS from the actor's sender to the contract
// asking it to split the payment between b1 and b2. This transaction is
// signed and immediately sent to the network.
func (c *Contract) MakeSplit(b1, b2 util.Uint160, amount *big.Int) (util.Uint256, uint32, error) {
	return c.gas.Transfer(c.actor.Sender(), c.hash, amount, splitData(b1, b2))
}

// MakeSplitTransaction is similar to MakeSplit, but the signed transaction
// is returned to the caller instead of being sent.
func (c *Contract) MakeSplitTransaction(b1, b2 util.Uint160, amount *big.Int) (*transaction.Transaction, error) {
	return c.gas.TransferTransaction(c.actor.Sender(), c.hash, amount, splitData(b1, b2))
}

// MakeSplitUnsigned is similar to MakeSplit, but the transaction is neither
// signed nor sent.
func (c *Contract) MakeSplitUnsigned(b1, b2 util.Uint160, amount *big.Int) (*transaction.Transaction, error) {
	return c.gas.TransferUnsigned(c.actor.Sender(), c.hash, amount, splitData(b1, b2))
}

// Deposit transfers amount of GAS from the actor's sender to the contract
// crediting it to the sender as is. This transaction is signed and
// immediately sent to the network.
func (c *Contract) Deposit(amount *big.Int) (util.Uint256, uint32, error) {
	return c.gas.Transfer(c.actor.Sender(), c.hash, amount, nil)
}

// DepositTransaction is similar to Deposit, but the signed transaction is
// returned to the caller instead of being sent.
func (c *Contract) DepositTransaction(amount *big.Int) (*transaction.Transaction, error) {
	return c.gas.TransferTransaction(c.actor.Sender(), c.hash, amount, nil)
}

// DepositUnsigned is similar to Deposit, but the transaction is neither
// signed nor sent.
func (c *Contract) DepositUnsigned(amount *big.Int) (*transaction.Transaction, error) {
	return c.gas.TransferUnsigned(c.actor.Sender(), c.hash, amount, nil)
}

func splitData(b1, b2 util.Uint160) []any {
	return []any{b1, b2}
}

// FromStackItem retrieves fields of BalanceEntry from the given key-value
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *BalanceEntry) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var err error
	res.Account, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Account: %w", err)
	}

	res.Amount, err = arr[1].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	return nil
}

// SplitterCreatedEventsFromApplicationLog retrieves a set of all emitted events
// with "SplitterCreated" name from the provided [result.ApplicationLog].
func SplitterCreatedEventsFromApplicationLog(log *result.ApplicationLog) ([]*SplitterCreatedEvent, error) {
	var res []*SplitterCreatedEvent
	err := eventsFromApplicationLog(log, splitterconst.SplitterCreatedEvent, func(item *stackitem.Array) error {
		e := new(SplitterCreatedEvent)
		if err := e.FromStackItem(item); err != nil {
			return err
		}
		res = append(res, e)
		return nil
	})
	return res, err
}

// FromStackItem converts provided [stackitem.Array] to SplitterCreatedEvent or
// returns an error if it's not possible to do to so.
func (e *SplitterCreatedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventArray(item, 1)
	if err != nil {
		return err
	}

	e.Owner, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Owner: %w", err)
	}

	return nil
}

// SplitPerformedEventsFromApplicationLog retrieves a set of all emitted events
// with "SplitPerformed" name from the provided [result.ApplicationLog].
func SplitPerformedEventsFromApplicationLog(log *result.ApplicationLog) ([]*SplitPerformedEvent, error) {
	var res []*SplitPerformedEvent
	err := eventsFromApplicationLog(log, splitterconst.SplitPerformedEvent, func(item *stackitem.Array) error {
		e := new(SplitPerformedEvent)
		if err := e.FromStackItem(item); err != nil {
			return err
		}
		res = append(res, e)
		return nil
	})
	return res, err
}

// FromStackItem converts provided [stackitem.Array] to SplitPerformedEvent or
// returns an error if it's not possible to do to so.
func (e *SplitPerformedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventArray(item, 5)
	if err != nil {
		return err
	}

	e.From, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field From: %w", err)
	}

	e.Beneficiary1, err = itemToUint160(arr[1])
	if err != nil {
		return fmt.Errorf("field Beneficiary1: %w", err)
	}

	e.Beneficiary2, err = itemToUint160(arr[2])
	if err != nil {
		return fmt.Errorf("field Beneficiary2: %w", err)
	}

	e.Half, err = arr[3].TryInteger()
	if err != nil {
		return fmt.Errorf("field Half: %w", err)
	}

	e.Remainder, err = arr[4].TryInteger()
	if err != nil {
		return fmt.Errorf("field Remainder: %w", err)
	}

	return nil
}

// AmountReceivedEventsFromApplicationLog retrieves a set of all emitted events
// with "AmountReceived" name from the provided [result.ApplicationLog].
func AmountReceivedEventsFromApplicationLog(log *result.ApplicationLog) ([]*AmountReceivedEvent, error) {
	var res []*AmountReceivedEvent
	err := eventsFromApplicationLog(log, splitterconst.AmountReceivedEvent, func(item *stackitem.Array) error {
		e := new(AmountReceivedEvent)
		if err := e.FromStackItem(item); err != nil {
			return err
		}
		res = append(res, e)
		return nil
	})
	return res, err
}

// FromStackItem converts provided [stackitem.Array] to AmountReceivedEvent or
// returns an error if it's not possible to do to so.
func (e *AmountReceivedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventArray(item, 2)
	if err != nil {
		return err
	}

	e.From, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field From: %w", err)
	}

	e.Amount, err = arr[1].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	return nil
}

// WithdrawalEventsFromApplicationLog retrieves a set of all emitted events
// with "Withdrawal" name from the provided [result.ApplicationLog].
func WithdrawalEventsFromApplicationLog(log *result.ApplicationLog) ([]*WithdrawalEvent, error) {
	var res []*WithdrawalEvent
	err := eventsFromApplicationLog(log, splitterconst.WithdrawalEvent, func(item *stackitem.Array) error {
		e := new(WithdrawalEvent)
		if err := e.FromStackItem(item); err != nil {
			return err
		}
		res = append(res, e)
		return nil
	})
	return res, err
}

// FromStackItem converts provided [stackitem.Array] to WithdrawalEvent or
// returns an error if it's not possible to do to so.
func (e *WithdrawalEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventArray(item, 2)
	if err != nil {
		return err
	}

	e.Account, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Account: %w", err)
	}

	e.Amount, err = arr[1].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	return nil
}

// PausedEventsFromApplicationLog retrieves a set of all emitted events
// with "Paused" name from the provided [result.ApplicationLog].
func PausedEventsFromApplicationLog(log *result.ApplicationLog) ([]*PausedEvent, error) {
	var res []*PausedEvent
	err := eventsFromApplicationLog(log, splitterconst.PausedEvent, func(item *stackitem.Array) error {
		e := new(PausedEvent)
		if err := e.FromStackItem(item); err != nil {
			return err
		}
		res = append(res, e)
		return nil
	})
	return res, err
}

// FromStackItem converts provided [stackitem.Array] to PausedEvent or
// returns an error if it's not possible to do to so.
func (e *PausedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventArray(item, 1)
	if err != nil {
		return err
	}

	e.Owner, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Owner: %w", err)
	}

	return nil
}

// ResumedEventsFromApplicationLog retrieves a set of all emitted events
// with "Resumed" name from the provided [result.ApplicationLog].
func ResumedEventsFromApplicationLog(log *result.ApplicationLog) ([]*ResumedEvent, error) {
	var res []*ResumedEvent
	err := eventsFromApplicationLog(log, splitterconst.ResumedEvent, func(item *stackitem.Array) error {
		e := new(ResumedEvent)
		if err := e.FromStackItem(item); err != nil {
			return err
		}
		res = append(res, e)
		return nil
	})
	return res, err
}

// FromStackItem converts provided [stackitem.Array] to ResumedEvent or
// returns an error if it's not possible to do to so.
func (e *ResumedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventArray(item, 1)
	if err != nil {
		return err
	}

	e.Owner, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Owner: %w", err)
	}

	return nil
}

func eventsFromApplicationLog(log *result.ApplicationLog, name string, f func(*stackitem.Array) error) error {
	if log == nil {
		return errors.New("nil application log")
	}

	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != name {
				continue
			}
			err := f(e.Item)
			if err != nil {
				return fmt.Errorf("failed to deserialize %s event from stackitem (execution #%d, event #%d): %w", name, i, j, err)
			}
		}
	}

	return nil
}

func eventArray(item *stackitem.Array, n int) ([]stackitem.Item, error) {
	if item == nil {
		return nil, errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return nil, errors.New("not an array")
	}
	if len(arr) != n {
		return nil, errors.New("wrong number of structure elements")
	}
	return arr, nil
}

func itemToUint160(item stackitem.Item) (util.Uint160, error) {
	b, err := item.TryBytes()
	if err != nil {
		return util.Uint160{}, err
	}
	return util.Uint160DecodeBytesBE(b)
}
