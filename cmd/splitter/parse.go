package main

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go/cli/flags"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/encoding/fixedn"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// gasDecimals is the precision of the native GAS token.
const gasDecimals = 8

var errNonPositiveAmount = errors.New("amount must be positive")

// parseAmount converts decimal GAS string (e.g. "1.5") into fractional
// units.
func parseAmount(s string) (*big.Int, error) {
	if s == "" {
		return nil, errors.New("missing amount")
	}

	v, err := fixedn.FromString(s, gasDecimals)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", s, err)
	}

	if v.Sign() <= 0 {
		return nil, errNonPositiveAmount
	}

	return v, nil
}

func formatAmount(v *big.Int) string {
	return fixedn.ToString(v, gasDecimals)
}

// parseAccount accepts Neo address or LE hex script hash.
func parseAccount(s string) (util.Uint160, error) {
	if s == "" {
		return util.Uint160{}, errors.New("missing account")
	}

	h, err := flags.ParseAddress(s)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("invalid account %q: %w", s, err)
	}

	return h, nil
}

func formatAccount(h util.Uint160) string {
	return fmt.Sprintf("%s (0x%s)", address.Uint160ToString(h), h.StringLE())
}
