package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
)

// CheckWitness checks witness of the passed account and panics with msg if
// the account has not signed the invocation. Contracts are considered to
// witness their own calls.
func CheckWitness(account interop.Hash160, msg string) {
	if !runtime.CheckWitness(account) {
		panic(msg)
	}
}
