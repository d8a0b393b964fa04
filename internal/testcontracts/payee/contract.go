package payee

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// Payment handling modes.
const (
	ModeAccept = iota
	ModeReject
	ModeReenter
)

const (
	modeKey = "mode"
	seenKey = "seen"
)

// SetMode selects how the next GAS payments are handled.
func SetMode(mode int) {
	storage.Put(storage.GetContext(), modeKey, mode)
}

// Withdraw asks the Splitter contract to pay out the balance of this contract.
func Withdraw(splitter interop.Hash160) {
	contract.Call(splitter, "withdraw", contract.All, runtime.GetExecutingScriptHash())
}

// OnNEP17Payment records the balance the paying Splitter reports for this
// contract while the payment is in progress.
func OnNEP17Payment(from interop.Hash160, amount int, data interface{}) {
	ctx := storage.GetContext()

	var mode int
	if m := storage.Get(ctx, modeKey); m != nil {
		mode = m.(int)
	}

	if mode == ModeReject {
		panic("payment rejected")
	}

	if !runtime.GetCallingScriptHash().Equals(gas.Hash) || len(from) != interop.Hash160Len {
		return
	}

	self := runtime.GetExecutingScriptHash()
	seen := contract.Call(from, "balanceOf", contract.ReadOnly, self).(int)
	storage.Put(ctx, seenKey, seen)

	if mode == ModeReenter {
		contract.Call(from, "withdraw", contract.All, self)
	}
}

// Seen returns the balance observed during the last payment or -1.
func Seen() int {
	val := storage.Get(storage.GetReadOnlyContext(), seenKey)
	if val == nil {
		return -1
	}

	return val.(int)
}
