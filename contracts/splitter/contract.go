package splitter

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/splitter-contract/common"
	"github.com/nspcc-dev/splitter-contract/contracts/splitter/splitterconst"
)

const (
	ownerKey      = 'o'
	pausedKey     = 'p'
	balancePrefix = 'b'

	nullHash = "\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00"
)

// _deploy remembers the sender of the deploying transaction as the contract
// owner. Optional data is an array with a single boolean: true to start
// the contract paused.
// nolint:deadcode,unused
func _deploy(data interface{}, isUpdate bool) {
	if isUpdate {
		return
	}

	ctx := storage.GetContext()

	var paused bool
	if data != nil {
		args := data.([]interface{})
		if len(args) > 0 {
			paused = args[0].(bool)
		}
	}

	owner := runtime.GetScriptContainer().Sender
	storage.Put(ctx, ownerKey, owner)

	if paused {
		storage.Put(ctx, pausedKey, []byte{1})
	}

	runtime.Notify(splitterconst.SplitterCreatedEvent, owner)
	runtime.Log("splitter contract initialized")
}

// OnNEP17Payment is a callback for the native GAS contract. It is the only
// way for funds to enter the contract.
//
// If data is an array of two beneficiary accounts, the amount is split:
// each beneficiary is credited with amount/2 and the odd unit, if any, is
// credited back to the payer. SplitPerformed notification is produced.
// The amount must be at least 2.
//
// If data is null, the whole amount is credited to the payer and
// AmountReceived notification is produced.
//
// Any failure aborts the transfer itself.
func OnNEP17Payment(from interop.Hash160, amount int, data interface{}) {
	caller := runtime.GetCallingScriptHash()
	if !caller.Equals(gas.Hash) {
		panic(splitterconst.ErrInvalidArgument + ": only GAS can be accepted")
	}

	ctx := storage.GetContext()
	checkNotPaused(ctx)

	if isNull(from) {
		panic(splitterconst.ErrInvalidArgument + ": payment from null account")
	}

	if data == nil {
		if amount <= 0 {
			panic(splitterconst.ErrInvalidArgument + ": amount must be positive")
		}

		credit(ctx, from, amount)
		runtime.Notify(splitterconst.AmountReceivedEvent, from, amount)
		return
	}

	args := data.([]interface{})
	if len(args) != 2 {
		panic(splitterconst.ErrInvalidArgument + ": expected two beneficiaries")
	}

	split(ctx, from, args[0].(interop.Hash160), args[1].(interop.Hash160), amount)
}

// Withdraw transfers the whole balance of the account to it. It can be
// invoked only by the account itself and only when the contract is not
// paused. The balance must be positive.
//
// The balance is cleared before GAS is transferred, so a receiving
// contract calling back sees nothing to withdraw. If the transfer fails the
// transaction faults and the balance is kept.
//
// Withdrawal notification is produced.
func Withdraw(account interop.Hash160) {
	ctx := storage.GetContext()
	checkNotPaused(ctx)

	if isNull(account) {
		panic(splitterconst.ErrInvalidArgument + ": null account")
	}

	common.CheckWitness(account, splitterconst.ErrAccessDenied+": account witness check failed")

	key := balanceKey(account)
	amount := common.GetInt(ctx, key)
	if amount <= 0 {
		panic(splitterconst.ErrInvalidState + ": nothing to withdraw")
	}

	common.SetInt(ctx, key, 0)

	if !gas.Transfer(runtime.GetExecutingScriptHash(), account, amount, nil) {
		panic(splitterconst.ErrTransferFailure + ": GAS transfer failed")
	}

	runtime.Notify(splitterconst.WithdrawalEvent, account, amount)
}

// Pause stops deposits and withdrawals. It can be invoked only by the
// owner and only when the contract is active.
//
// Paused notification is produced.
func Pause() {
	ctx := storage.GetContext()
	owner := checkOwner(ctx)

	if isPaused(ctx) {
		panic(splitterconst.ErrInvalidState + ": already paused")
	}

	storage.Put(ctx, pausedKey, []byte{1})
	runtime.Notify(splitterconst.PausedEvent, owner)
	runtime.Log("splitter contract paused")
}

// Resume allows deposits and withdrawals again. It can be invoked only by
// the owner and only when the contract is paused.
//
// Resumed notification is produced.
func Resume() {
	ctx := storage.GetContext()
	owner := checkOwner(ctx)

	if !isPaused(ctx) {
		panic(splitterconst.ErrInvalidState + ": not paused")
	}

	storage.Delete(ctx, pausedKey)
	runtime.Notify(splitterconst.ResumedEvent, owner)
	runtime.Log("splitter contract resumed")
}

// BalanceOf returns the amount the account can withdraw. It is 0 for
// unknown accounts.
func BalanceOf(account interop.Hash160) int {
	if len(account) != interop.Hash160Len {
		return 0
	}

	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, balanceKey(account))
}

// ListBalances returns an iterator over all non-zero balances. Keys are
// accounts, values are balances.
func ListBalances() iterator.Iterator {
	ctx := storage.GetReadOnlyContext()
	return storage.Find(ctx, []byte{balancePrefix}, storage.RemovePrefix)
}

// Funds returns the amount of GAS held by the contract.
func Funds() int {
	return gas.BalanceOf(runtime.GetExecutingScriptHash())
}

// Owner returns the account allowed to pause and resume the contract.
func Owner() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return getOwner(ctx)
}

// Paused returns true if deposits and withdrawals are stopped.
func Paused() bool {
	ctx := storage.GetReadOnlyContext()
	return isPaused(ctx)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func split(ctx storage.Context, from, beneficiary1, beneficiary2 interop.Hash160, amount int) {
	if isNull(beneficiary1) || isNull(beneficiary2) {
		panic(splitterconst.ErrInvalidArgument + ": null beneficiary")
	}

	if amount < splitterconst.MinSplitAmount {
		panic(splitterconst.ErrInvalidArgument + ": amount is too small to split")
	}

	half := amount / 2
	remainder := amount % 2

	credit(ctx, beneficiary1, half)
	credit(ctx, beneficiary2, half)
	if remainder != 0 {
		credit(ctx, from, remainder)
	}

	runtime.Notify(splitterconst.SplitPerformedEvent, from, beneficiary1, beneficiary2, half, remainder)
}

func credit(ctx storage.Context, account interop.Hash160, amount int) {
	key := balanceKey(account)
	common.SetInt(ctx, key, common.GetInt(ctx, key)+amount)
}

func balanceKey(account interop.Hash160) []byte {
	return append([]byte{balancePrefix}, account...)
}

func checkNotPaused(ctx storage.Context) {
	if isPaused(ctx) {
		panic(splitterconst.ErrSystemPaused + ": operation is not allowed")
	}
}

// checkOwner panics if the owner has not witnessed the invocation.
func checkOwner(ctx storage.Context) interop.Hash160 {
	owner := getOwner(ctx)
	common.CheckWitness(owner, splitterconst.ErrAccessDenied+": only owner can do this")

	return owner
}

func isPaused(ctx storage.Context) bool {
	return storage.Get(ctx, pausedKey) != nil
}

func getOwner(ctx storage.Context) interop.Hash160 {
	return storage.Get(ctx, ownerKey).(interop.Hash160)
}

func isNull(account interop.Hash160) bool {
	return len(account) != interop.Hash160Len || account.Equals(nullHash)
}
