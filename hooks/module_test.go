// Copyright (C) 2025, HookSwap Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package hooks

import (
	"encoding/binary"
	"testing"

	"github.com/luxfi/database/memdb"
	"github.com/stretchr/testify/require"

	"github.com/hookswap/hookswap/contract"
)

func packInput(selector uint32, args ...[]byte) []byte {
	input := make([]byte, 4)
	binary.BigEndian.PutUint32(input, selector)
	for _, a := range args {
		input = append(input, a...)
	}
	return input
}

func TestKYCContractDispatch(t *testing.T) {
	s := contract.NewStoredState(memdb.New())
	s.SetBlockTime(1_700_000_000)
	c := KYCPrecompile

	_, _, err := c.Run(s, kycAuthority, c.Address(), packInput(SelectorInitialize, kycAuthority.Bytes()), 1_000_000, false)
	require.NoError(t, err)

	_, _, err = c.Run(s, kycAuthority, c.Address(), packInput(SelectorAddRecord, alice.Bytes(), []byte{0x01}), 1_000_000, false)
	require.NoError(t, err)

	ret, _, err := c.Run(s, alice, c.Address(), packInput(SelectorCheck, alice.Bytes()), 1_000_000, true)
	require.NoError(t, err)
	require.Equal(t, byte(1), ret[31])

	_, _, err = c.Run(s, kycAuthority, c.Address(), packInput(SelectorUpdate, alice.Bytes(), []byte{0x00}), 1_000_000, false)
	require.NoError(t, err)

	ret, _, err = c.Run(s, alice, c.Address(), packInput(SelectorCheck, alice.Bytes()), 1_000_000, true)
	require.NoError(t, err)
	require.Equal(t, byte(0), ret[31])
}

func TestKYCContractGuards(t *testing.T) {
	s := contract.NewStoredState(memdb.New())
	c := KYCPrecompile

	_, _, err := c.Run(s, kycAuthority, c.Address(), packInput(SelectorInitialize, kycAuthority.Bytes()), 1, false)
	require.ErrorIs(t, err, contract.ErrOutOfGas)

	_, _, err = c.Run(s, kycAuthority, c.Address(), packInput(SelectorInitialize, kycAuthority.Bytes()), 1_000_000, true)
	require.ErrorIs(t, err, contract.ErrWriteProtection)

	_, _, err = c.Run(s, kycAuthority, c.Address(), packInput(SelectorAddRecord, []byte{0x01}), 1_000_000, false)
	require.ErrorIs(t, err, contract.ErrInputTooShort)

	_, _, err = c.Run(s, kycAuthority, c.Address(), packInput(0xdead0000), 1_000_000, false)
	require.ErrorIs(t, err, contract.ErrUnknownSelector)
}

func TestWhitelistContractDispatch(t *testing.T) {
	s := contract.NewStoredState(memdb.New())
	s.SetBlockTime(1_700_000_000)
	c := WhitelistPrecompile

	initArgs := append(kycAuthority.Bytes(), 0x00, 0x10)
	_, _, err := c.Run(s, kycAuthority, c.Address(), packInput(SelectorInitialize, initArgs), 1_000_000, false)
	require.NoError(t, err)

	_, _, err = c.Run(s, kycAuthority, c.Address(), packInput(SelectorAddRecord, alice.Bytes(), []byte{PermitAll}), 1_000_000, false)
	require.NoError(t, err)

	ret, _, err := c.Run(s, alice, c.Address(), packInput(SelectorCheck, alice.Bytes()), 1_000_000, true)
	require.NoError(t, err)
	require.Equal(t, byte(1), ret[31])

	_, _, err = c.Run(s, kycAuthority, c.Address(), packInput(SelectorUpdate, alice.Bytes()), 1_000_000, false)
	require.NoError(t, err)

	ret, _, err = c.Run(s, alice, c.Address(), packInput(SelectorCheck, alice.Bytes()), 1_000_000, true)
	require.NoError(t, err)
	require.Equal(t, byte(0), ret[31])
}
