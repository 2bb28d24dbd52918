// Copyright (C) 2025, HookSwap Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package modules

import (
	"bytes"
	"testing"

	"github.com/luxfi/geth/common"
	"github.com/stretchr/testify/require"
)

func TestReservedAddress(t *testing.T) {
	tests := []struct {
		addr     string
		reserved bool
	}{
		{addr: "0x0000000000000000000000000000000000007000", reserved: true},
		{addr: "0x0000000000000000000000000000000000007010", reserved: true},
		{addr: "0x00000000000000000000000000000000000070ff", reserved: true},
		{addr: "0x0000000000000000000000000000000000006fff", reserved: false},
		{addr: "0x0000000000000000000000000000000000007100", reserved: false},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			require.Equal(t, tt.reserved, ReservedAddress(common.HexToAddress(tt.addr)))
		})
	}
}

func TestRegisterModule(t *testing.T) {
	m := Module{
		ConfigKey: "testModule",
		Address:   common.HexToAddress("0x00000000000000000000000000000000000070f0"),
	}
	require.NoError(t, RegisterModule(m))

	got, ok := GetModule("testModule")
	require.True(t, ok)
	require.Equal(t, m, got)

	got, ok = GetModuleByAddress(m.Address)
	require.True(t, ok)
	require.Equal(t, m, got)

	_, ok = GetModule("missing")
	require.False(t, ok)
}

func TestRegisterModuleConflicts(t *testing.T) {
	m := Module{
		ConfigKey: "conflictModule",
		Address:   common.HexToAddress("0x00000000000000000000000000000000000070f1"),
	}
	require.NoError(t, RegisterModule(m))

	require.Error(t, RegisterModule(Module{
		ConfigKey: "conflictModule",
		Address:   common.HexToAddress("0x00000000000000000000000000000000000070f2"),
	}))
	require.Error(t, RegisterModule(Module{
		ConfigKey: "otherKey",
		Address:   m.Address,
	}))
}

func TestRegisterModuleAddressChecks(t *testing.T) {
	require.Error(t, RegisterModule(Module{
		ConfigKey: "blackhole",
		Address:   BlackholeAddr,
	}))
	require.Error(t, RegisterModule(Module{
		ConfigKey: "unreserved",
		Address:   common.HexToAddress("0x0000000000000000000000000000000000001234"),
	}))
}

func TestRegisteredModulesSorted(t *testing.T) {
	require.NoError(t, RegisterModule(Module{
		ConfigKey: "sortHigh",
		Address:   common.HexToAddress("0x00000000000000000000000000000000000070fe"),
	}))
	require.NoError(t, RegisterModule(Module{
		ConfigKey: "sortLow",
		Address:   common.HexToAddress("0x00000000000000000000000000000000000070fd"),
	}))

	mods := RegisteredModules()
	for i := 1; i < len(mods); i++ {
		require.Negative(t, bytes.Compare(mods[i-1].Address[:], mods[i].Address[:]))
	}
}
