// Copyright (C) 2025, HookSwap Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package hooks

import (
	"testing"

	"github.com/luxfi/database/memdb"
	"github.com/luxfi/geth/common"
	"github.com/stretchr/testify/require"

	"github.com/hookswap/hookswap/contract"
)

func newTestWhitelist(t *testing.T, maxAddresses uint16) (*WhitelistStore, *contract.StoredState) {
	t.Helper()
	s := contract.NewStoredState(memdb.New())
	s.SetBlockTime(1_700_000_000)
	w := NewWhitelistStore()
	require.NoError(t, w.Initialize(s, kycAuthority, kycAuthority, maxAddresses))
	return w, s
}

func TestWhitelistInitializeOnce(t *testing.T) {
	w, s := newTestWhitelist(t, 8)
	require.ErrorIs(t, w.Initialize(s, kycAuthority, kycAuthority, 8), ErrAlreadyInitialized)
}

func TestWhitelistAdd(t *testing.T) {
	w, s := newTestWhitelist(t, 8)

	require.NoError(t, w.Add(s, kycAuthority, alice, PermitAll))
	require.True(t, w.IsWhitelisted(s, alice))

	level, ok := w.LevelOf(s, alice)
	require.True(t, ok)
	require.Equal(t, PermitAll, level)

	require.ErrorIs(t, w.Add(s, kycAuthority, alice, PermitDeposit), ErrAlreadyWhitelisted)
	require.ErrorIs(t, w.Add(s, kycStranger, bob, PermitAll), ErrUnauthorized)
	require.ErrorIs(t, w.Add(s, kycAuthority, bob, 0), ErrInvalidLevel)
	require.ErrorIs(t, w.Add(s, kycAuthority, bob, 0x08), ErrInvalidLevel)
}

func TestWhitelistCapacity(t *testing.T) {
	w, s := newTestWhitelist(t, 1)

	require.NoError(t, w.Add(s, kycAuthority, alice, PermitAll))
	require.ErrorIs(t, w.Add(s, kycAuthority, bob, PermitAll), ErrWhitelistFull)

	// Removal frees the slot. Unlike registry revocation this is a hard
	// delete.
	require.NoError(t, w.Remove(s, kycAuthority, alice))
	require.False(t, w.IsWhitelisted(s, alice))
	require.NoError(t, w.Add(s, kycAuthority, bob, PermitDeposit))
}

func TestWhitelistRemoveErrors(t *testing.T) {
	w, s := newTestWhitelist(t, 8)
	require.NoError(t, w.Add(s, kycAuthority, alice, PermitAll))

	require.ErrorIs(t, w.Remove(s, kycStranger, alice), ErrUnauthorized)
	require.ErrorIs(t, w.Remove(s, kycAuthority, bob), ErrRecordNotFound)
}

func TestWhitelistVerifyDirections(t *testing.T) {
	w, s := newTestWhitelist(t, 8)
	depositOnly := common.HexToAddress("0x4000000000000000000000000000000000000011")
	withdrawOnly := common.HexToAddress("0x4000000000000000000000000000000000000012")

	require.NoError(t, w.Add(s, kycAuthority, alice, PermitAll))
	require.NoError(t, w.Add(s, kycAuthority, depositOnly, PermitDeposit))
	require.NoError(t, w.Add(s, kycAuthority, withdrawOnly, PermitWithdraw))

	tests := []struct {
		name      string
		subject   common.Address
		direction Direction
		err       error
	}{
		{name: "all permits deposit", subject: alice, direction: DirectionDeposit},
		{name: "all permits withdraw", subject: alice, direction: DirectionWithdraw},
		{name: "deposit-only permits deposit", subject: depositOnly, direction: DirectionDeposit},
		{name: "deposit-only rejects withdraw", subject: depositOnly, direction: DirectionWithdraw, err: ErrNotWhitelisted},
		{name: "withdraw-only rejects deposit", subject: withdrawOnly, direction: DirectionDeposit, err: ErrNotWhitelisted},
		{name: "withdraw-only permits withdraw", subject: withdrawOnly, direction: DirectionWithdraw},
		{name: "unlisted rejects", subject: bob, direction: DirectionDeposit, err: ErrNotWhitelisted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := w.Verify(s, tt.subject, tt.direction)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
