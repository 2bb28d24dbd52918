// Copyright (C) 2025, HookSwap Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package amm

import (
	"encoding/binary"
	"testing"

	"github.com/luxfi/database/memdb"
	"github.com/luxfi/geth/common"
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

func uint64Arg(v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return b[:]
}

// runContract drives the precompile the way the hosting VM would, with
// plenty of gas.
func runContract(t *testing.T, s contract.StateDB, caller common.Address, input []byte) ([]byte, error) {
	t.Helper()
	ret, _, err := PoolEnginePrecompile.Run(s, caller, PoolEnginePrecompile.Address(), input, 1_000_000, false)
	return ret, err
}

func TestPoolContractDispatch(t *testing.T) {
	s := contract.NewStoredState(memdb.New())
	s.SetBlockTime(1_700_000_000)

	_, err := runContract(t, s, admin, packInput(SelectorInitializeAMM, uint64Arg(30)))
	require.NoError(t, err)

	ret, err := runContract(t, s, admin, packInput(SelectorCreatePool, mintA.Bytes(), mintB.Bytes(), uint64Arg(1)))
	require.NoError(t, err)
	id := common.BytesToHash(ret)
	require.Equal(t, PoolID(mintA, mintB), id)

	_, err = runContract(t, s, admin, packInput(SelectorAddLiquidity, id.Bytes(), uint64Arg(1_000_000), uint64Arg(1_000_000)))
	require.NoError(t, err)

	ret, err = runContract(t, s, trader, packInput(SelectorSwap, id.Bytes(), uint64Arg(1000), uint64Arg(900), []byte{0x01}))
	require.NoError(t, err)
	require.Len(t, ret, 32)
	require.Equal(t, uint64(996), binary.BigEndian.Uint64(ret[24:32]))

	ret, err = runContract(t, s, trader, packInput(SelectorGetPool, id.Bytes()))
	require.NoError(t, err)
	pool, err := PoolFromBytes(ret)
	require.NoError(t, err)
	require.Equal(t, uint64(1_001_000), pool.ReserveA)
	require.Equal(t, uint64(999_004), pool.ReserveB)
}

func TestPoolContractGas(t *testing.T) {
	s := contract.NewStoredState(memdb.New())
	input := packInput(SelectorInitializeAMM, uint64Arg(30))

	require.Equal(t, GasInitialize, PoolEnginePrecompile.RequiredGas(input))

	_, _, err := PoolEnginePrecompile.Run(s, admin, PoolEnginePrecompile.Address(), input, GasInitialize-1, false)
	require.ErrorIs(t, err, contract.ErrOutOfGas)

	_, remaining, err := PoolEnginePrecompile.Run(s, admin, PoolEnginePrecompile.Address(), input, GasInitialize+5, false)
	require.NoError(t, err)
	require.Equal(t, uint64(5), remaining)
}

func TestPoolContractReadOnly(t *testing.T) {
	s := contract.NewStoredState(memdb.New())

	_, _, err := PoolEnginePrecompile.Run(s, admin, PoolEnginePrecompile.Address(),
		packInput(SelectorInitializeAMM, uint64Arg(30)), 1_000_000, true)
	require.ErrorIs(t, err, contract.ErrWriteProtection)

	// Lookups are allowed in a static call.
	_, _, err = PoolEnginePrecompile.Run(s, admin, PoolEnginePrecompile.Address(),
		packInput(SelectorGetPool, make([]byte, 32)), 1_000_000, true)
	require.ErrorIs(t, err, ErrPoolNotFound)
}

func TestPoolContractBadInput(t *testing.T) {
	s := contract.NewStoredState(memdb.New())

	_, err := runContract(t, s, admin, packInput(0xff000000))
	require.ErrorIs(t, err, contract.ErrUnknownSelector)

	_, err = runContract(t, s, admin, packInput(SelectorSwap, []byte{0x01}))
	require.ErrorIs(t, err, contract.ErrInputTooShort)

	_, _, err = PoolEnginePrecompile.Run(s, admin, PoolEnginePrecompile.Address(), []byte{0x01}, 1_000_000, false)
	require.ErrorIs(t, err, contract.ErrInputTooShort)
}
