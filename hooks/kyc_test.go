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

var (
	kycAuthority = common.HexToAddress("0x3000000000000000000000000000000000000001")
	kycStranger  = common.HexToAddress("0x3000000000000000000000000000000000000002")
	alice        = common.HexToAddress("0x4000000000000000000000000000000000000001")
	bob          = common.HexToAddress("0x4000000000000000000000000000000000000002")
)

func newTestKYC(t *testing.T) (*KYCStore, *contract.StoredState) {
	t.Helper()
	s := contract.NewStoredState(memdb.New())
	s.SetBlockTime(1_700_000_000)
	k := NewKYCStore()
	require.NoError(t, k.Initialize(s, kycAuthority, kycAuthority))
	return k, s
}

func TestKYCInitializeOnce(t *testing.T) {
	k, s := newTestKYC(t)
	require.ErrorIs(t, k.Initialize(s, kycAuthority, kycAuthority), ErrAlreadyInitialized)
}

func TestKYCRecordLifecycle(t *testing.T) {
	k, s := newTestKYC(t)

	require.NoError(t, k.CreateRecord(s, kycAuthority, alice, true))
	require.True(t, k.IsVerified(s, alice))

	require.ErrorIs(t, k.CreateRecord(s, kycAuthority, alice, true), ErrRecordExists)
	require.ErrorIs(t, k.CreateRecord(s, kycStranger, bob, true), ErrUnauthorized)

	require.NoError(t, k.UpdateStatus(s, kycAuthority, alice, false))
	require.False(t, k.IsVerified(s, alice))

	require.ErrorIs(t, k.UpdateStatus(s, kycAuthority, bob, true), ErrRecordNotFound)
	require.ErrorIs(t, k.UpdateStatus(s, kycStranger, alice, true), ErrUnauthorized)
}

// A subject with no record is rejected, same as one with an unverified
// record. Verification is opt-in, never assumed.
func TestKYCVerifyDefaultDeny(t *testing.T) {
	k, s := newTestKYC(t)

	require.ErrorIs(t, k.Verify(s, alice, DirectionDeposit), ErrKycNotVerified)

	require.NoError(t, k.CreateRecord(s, kycAuthority, alice, false))
	require.ErrorIs(t, k.Verify(s, alice, DirectionWithdraw), ErrKycNotVerified)

	require.NoError(t, k.UpdateStatus(s, kycAuthority, alice, true))
	require.NoError(t, k.Verify(s, alice, DirectionDeposit))
	require.NoError(t, k.Verify(s, alice, DirectionWithdraw))
}

func TestKYCUserCount(t *testing.T) {
	k, s := newTestKYC(t)

	require.NoError(t, k.CreateRecord(s, kycAuthority, alice, true))
	require.NoError(t, k.CreateRecord(s, kycAuthority, bob, false))

	sys, err := k.system(s)
	require.NoError(t, err)
	require.Equal(t, uint64(2), sys.TotalUsers)
}
