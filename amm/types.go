// Copyright (C) 2025, HookSwap Labs. All rights reserved.
// See the file LICENSE for licensing terms.

// Package amm implements the constant-product pool engine. Transfers that
// touch a hook-gated mint pass through the validation pipeline before any
// reserve mutation is made durable; a reject aborts the whole operation with
// no partial effect.
package amm

import (
	"bytes"
	"encoding/binary"
	"errors"

	"github.com/luxfi/geth/common"

	"github.com/hookswap/hookswap/contract"
)

// AMMPoolAddress is the engine address of the pool engine contract.
const AMMPoolAddress = "0x0000000000000000000000000000000000007010"

// FeeRateMax is the highest accepted fee, in basis points.
const FeeRateMax uint64 = 10000

// Pool engine errors
var (
	ErrUnauthorized          = errors.New("unauthorized")
	ErrAlreadyInitialized    = errors.New("amm already initialized")
	ErrNotInitialized        = errors.New("amm not initialized")
	ErrAMMDisabled           = errors.New("amm is disabled")
	ErrInvalidFeeRate        = errors.New("invalid fee rate")
	ErrInvalidTokenPair      = errors.New("invalid token pair")
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrPoolAlreadyExists     = errors.New("pool already exists")
	ErrPoolNotFound          = errors.New("pool not found")
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
	ErrRatioMismatch         = errors.New("deposit ratio mismatch")
	ErrSlippageExceeded      = errors.New("slippage exceeded")
	ErrArithmeticOverflow    = errors.New("arithmetic overflow")
)

// Storage namespaces
const (
	nsPoolConfig = "amm_config"
	nsPool       = "pool"
)

// SortMints returns the pair in canonical order (byte order over the mint
// addresses), so (A,B) and (B,A) requests resolve to the same pool.
func SortMints(a, b common.Address) (common.Address, common.Address) {
	if bytes.Compare(a[:], b[:]) > 0 {
		return b, a
	}
	return a, b
}

// PoolID computes the derived pool address for an unordered mint pair.
func PoolID(mintA, mintB common.Address) common.Hash {
	a, b := SortMints(mintA, mintB)
	return contract.Derive(nsPool, a.Bytes(), b.Bytes())
}

// Config is the global pool engine configuration record.
type Config struct {
	Authority  common.Address
	FeeRateBps uint64
	Enabled    bool
	TotalPools uint32
	CreatedAt  uint64
}

// ToBytes serializes the config for storage
func (c *Config) ToBytes() []byte {
	data := make([]byte, 41)
	copy(data[0:20], c.Authority.Bytes())
	binary.BigEndian.PutUint64(data[20:28], c.FeeRateBps)
	if c.Enabled {
		data[28] = 1
	}
	binary.BigEndian.PutUint32(data[29:33], c.TotalPools)
	binary.BigEndian.PutUint64(data[33:41], c.CreatedAt)
	return data
}

// ConfigFromBytes deserializes a config from storage
func ConfigFromBytes(data []byte) (*Config, error) {
	if len(data) < 41 {
		return nil, errors.New("invalid amm config data length")
	}
	return &Config{
		Authority:  common.BytesToAddress(data[0:20]),
		FeeRateBps: binary.BigEndian.Uint64(data[20:28]),
		Enabled:    data[28] == 1,
		TotalPools: binary.BigEndian.Uint32(data[29:33]),
		CreatedAt:  binary.BigEndian.Uint64(data[33:41]),
	}, nil
}

// Pool is the durable state of one liquidity pool. MintA and MintB are in
// canonical order. LifecycleSeq bumps on every mutating operation; a reader
// can detect a concurrent write by comparing sequences.
type Pool struct {
	MintA        common.Address
	MintB        common.Address
	Creator      common.Address
	ReserveA     uint64
	ReserveB     uint64
	FeeRateBps   uint64
	InitialPrice uint64
	HookEnabled  bool
	LifecycleSeq uint64
	CreatedAt    uint64
}

// ToBytes serializes the pool for storage
func (p *Pool) ToBytes() []byte {
	data := make([]byte, 109)
	copy(data[0:20], p.MintA.Bytes())
	copy(data[20:40], p.MintB.Bytes())
	copy(data[40:60], p.Creator.Bytes())
	binary.BigEndian.PutUint64(data[60:68], p.ReserveA)
	binary.BigEndian.PutUint64(data[68:76], p.ReserveB)
	binary.BigEndian.PutUint64(data[76:84], p.FeeRateBps)
	binary.BigEndian.PutUint64(data[84:92], p.InitialPrice)
	if p.HookEnabled {
		data[92] = 1
	}
	binary.BigEndian.PutUint64(data[93:101], p.LifecycleSeq)
	binary.BigEndian.PutUint64(data[101:109], p.CreatedAt)
	return data
}

// PoolFromBytes deserializes a pool from storage
func PoolFromBytes(data []byte) (*Pool, error) {
	if len(data) < 109 {
		return nil, errors.New("invalid pool data length")
	}
	return &Pool{
		MintA:        common.BytesToAddress(data[0:20]),
		MintB:        common.BytesToAddress(data[20:40]),
		Creator:      common.BytesToAddress(data[40:60]),
		ReserveA:     binary.BigEndian.Uint64(data[60:68]),
		ReserveB:     binary.BigEndian.Uint64(data[68:76]),
		FeeRateBps:   binary.BigEndian.Uint64(data[76:84]),
		InitialPrice: binary.BigEndian.Uint64(data[84:92]),
		HookEnabled:  data[92] == 1,
		LifecycleSeq: binary.BigEndian.Uint64(data[93:101]),
		CreatedAt:    binary.BigEndian.Uint64(data[101:109]),
	}, nil
}

// Seeded reports whether the pool holds liquidity. A created pool with zero
// reserves is addressable but rejects swaps.
func (p *Pool) Seeded() bool {
	return p.ReserveA > 0 && p.ReserveB > 0
}
