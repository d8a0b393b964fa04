package main

import (
	"math/big"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	for _, tc := range []struct {
		in  string
		out int64
	}{
		{in: "1", out: 1_0000_0000},
		{in: "0.00000002", out: 2},
		{in: "1.5", out: 1_5000_0000},
		{in: "10.00000101", out: 10_0000_0101},
	} {
		v, err := parseAmount(tc.in)
		require.NoError(t, err, tc.in)
		require.Equal(t, big.NewInt(tc.out), v, tc.in)
		require.Equal(t, tc.in, formatAmount(v))
	}

	for _, in := range []string{"", "abc", "0.000000001", "1.2.3"} {
		_, err := parseAmount(in)
		require.Error(t, err, in)
	}

	for _, in := range []string{"0", "-1"} {
		_, err := parseAmount(in)
		require.ErrorIs(t, err, errNonPositiveAmount, in)
	}
}

func TestParseAccount(t *testing.T) {
	h := util.Uint160{1, 2, 3, 4, 5}

	for _, in := range []string{
		address.Uint160ToString(h),
		h.StringLE(),
		"0x" + h.StringLE(),
	} {
		res, err := parseAccount(in)
		require.NoError(t, err, in)
		require.Equal(t, h, res, in)
	}

	for _, in := range []string{"", "NotAnAddress", "0x0102"} {
		_, err := parseAccount(in)
		require.Error(t, err, in)
	}

	require.Contains(t, formatAccount(h), h.StringLE())
	require.Contains(t, formatAccount(h), address.Uint160ToString(h))
}
