// Copyright (C) 2025, HookSwap Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

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

func packApproveArgs(hook common.Address, hookType HookType, risk RiskLevel, name, desc string) []byte {
	args := append([]byte{}, hook.Bytes()...)
	args = append(args, byte(hookType), byte(risk))
	args = append(args, byte(len(name)))
	args = append(args, name...)
	args = append(args, byte(len(desc)))
	args = append(args, desc...)
	return args
}

func run(t *testing.T, s contract.StateDB, caller common.Address, input []byte) ([]byte, error) {
	t.Helper()
	ret, _, err := RegistryPrecompile.Run(s, caller, RegistryPrecompile.Address(), input, 1_000_000, false)
	return ret, err
}

func TestRegistryContractDispatch(t *testing.T) {
	s := contract.NewStoredState(memdb.New())
	s.SetBlockTime(1_700_000_000)

	initArgs := append(authority.Bytes(), 0x00, 0x10)
	_, err := run(t, s, authority, packInput(SelectorInitialize, initArgs))
	require.NoError(t, err)

	_, err = run(t, s, authority, packInput(SelectorApproveHook,
		packApproveArgs(hookA, HookTypeKYC, RiskMedium, "kyc-gate", "identity checks")))
	require.NoError(t, err)

	ret, err := run(t, s, authority, packInput(SelectorIsApproved, hookA.Bytes()))
	require.NoError(t, err)
	require.Len(t, ret, 32)
	require.Equal(t, byte(1), ret[31])

	ret, err = run(t, s, authority, packInput(SelectorHookInfo, hookA.Bytes()))
	require.NoError(t, err)
	entry, err := ApprovedHookFromBytes(ret)
	require.NoError(t, err)
	require.Equal(t, "kyc-gate", entry.Name)
	require.Equal(t, HookTypeKYC, entry.Type)

	_, err = run(t, s, authority, packInput(SelectorRevokeHook, hookA.Bytes()))
	require.NoError(t, err)
	ret, err = run(t, s, authority, packInput(SelectorIsApproved, hookA.Bytes()))
	require.NoError(t, err)
	require.Equal(t, byte(0), ret[31])
}

func TestRegistryContractReadOnly(t *testing.T) {
	s := contract.NewStoredState(memdb.New())

	_, _, err := RegistryPrecompile.Run(s, authority, RegistryPrecompile.Address(),
		packInput(SelectorRevokeHook, hookA.Bytes()), 1_000_000, true)
	require.ErrorIs(t, err, contract.ErrWriteProtection)

	ret, _, err := RegistryPrecompile.Run(s, authority, RegistryPrecompile.Address(),
		packInput(SelectorIsApproved, hookA.Bytes()), 1_000_000, true)
	require.NoError(t, err)
	require.Equal(t, byte(0), ret[31])
}

func TestRegistryContractGas(t *testing.T) {
	s := contract.NewStoredState(memdb.New())
	input := packInput(SelectorInitialize, append(authority.Bytes(), 0x00, 0x10))

	require.Equal(t, GasInitialize, RegistryPrecompile.RequiredGas(input))
	_, _, err := RegistryPrecompile.Run(s, authority, RegistryPrecompile.Address(), input, GasInitialize-1, false)
	require.ErrorIs(t, err, contract.ErrOutOfGas)
}

func TestUnpackApprove(t *testing.T) {
	hook, hookType, risk, name, desc, err := unpackApprove(
		packApproveArgs(hookA, HookTypeCustom, RiskHigh, "screen", "external screening"))
	require.NoError(t, err)
	require.Equal(t, hookA, hook)
	require.Equal(t, HookTypeCustom, hookType)
	require.Equal(t, RiskHigh, risk)
	require.Equal(t, "screen", name)
	require.Equal(t, "external screening", desc)

	_, _, _, _, _, err = unpackApprove([]byte{0x01, 0x02})
	require.ErrorIs(t, err, contract.ErrInputTooShort)

	// Declared name length running past the buffer is rejected.
	truncated := packApproveArgs(hookA, HookTypeKYC, RiskLow, "abc", "")
	truncated[22] = 200
	_, _, _, _, _, err = unpackApprove(truncated)
	require.ErrorIs(t, err, contract.ErrInputTooShort)
}
