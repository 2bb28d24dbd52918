// Copyright (C) 2025, HookSwap Labs. All rights reserved.
// See the file LICENSE for licensing terms.

// Package token implements the token layer: per-mint metadata records,
// including the optional transfer-hook binding that makes a mint hook-gated.
// The AMM derives a pool's hook_enabled flag from these records, and the
// validation pipeline resolves a mint's hook identity through them.
package token

import (
	"encoding/binary"
	"errors"

	"github.com/luxfi/geth/common"
	log "github.com/luxfi/log"

	"github.com/hookswap/hookswap/contract"
)

// TokenLayerAddress is the engine address of the token layer contract.
const TokenLayerAddress = "0x0000000000000000000000000000000000007001"

var tokenLayerAddr = common.HexToAddress(TokenLayerAddress)

// Storage namespaces
const (
	nsTokenInfo = "token_info"
)

// Metadata bounds, enforced at creation
const (
	MaxNameLen   = 50
	MaxSymbolLen = 10
)

var (
	ErrTokenExists   = errors.New("token already exists for mint")
	ErrTokenNotFound = errors.New("token not found")
	ErrNameTooLong   = errors.New("token name too long")
	ErrSymbolTooLong = errors.New("token symbol too long")
)

// TokenInfo is the durable per-mint metadata record.
type TokenInfo struct {
	Mint      common.Address
	Creator   common.Address
	Decimals  uint8
	Supply    uint64
	HasHook   bool
	Hook      common.Address
	CreatedAt uint64
	Name      string
	Symbol    string
}

// ToBytes serializes the record for storage
func (ti *TokenInfo) ToBytes() []byte {
	data := make([]byte, 0, 78+len(ti.Name)+len(ti.Symbol))
	data = append(data, ti.Mint.Bytes()...)
	data = append(data, ti.Creator.Bytes()...)
	data = append(data, ti.Decimals)

	var u64 [8]byte
	binary.BigEndian.PutUint64(u64[:], ti.Supply)
	data = append(data, u64[:]...)

	if ti.HasHook {
		data = append(data, 1)
	} else {
		data = append(data, 0)
	}
	data = append(data, ti.Hook.Bytes()...)

	binary.BigEndian.PutUint64(u64[:], ti.CreatedAt)
	data = append(data, u64[:]...)

	data = append(data, byte(len(ti.Name)))
	data = append(data, ti.Name...)
	data = append(data, byte(len(ti.Symbol)))
	data = append(data, ti.Symbol...)
	return data
}

// TokenInfoFromBytes deserializes a record from storage
func TokenInfoFromBytes(data []byte) (*TokenInfo, error) {
	if len(data) < 80 {
		return nil, errors.New("invalid token info data length")
	}
	ti := &TokenInfo{}
	ti.Mint = common.BytesToAddress(data[0:20])
	ti.Creator = common.BytesToAddress(data[20:40])
	ti.Decimals = data[40]
	ti.Supply = binary.BigEndian.Uint64(data[41:49])
	ti.HasHook = data[49] == 1
	ti.Hook = common.BytesToAddress(data[50:70])
	ti.CreatedAt = binary.BigEndian.Uint64(data[70:78])

	rest := data[78:]
	nameLen := int(rest[0])
	if len(rest) < 1+nameLen+1 {
		return nil, errors.New("invalid token info data length")
	}
	ti.Name = string(rest[1 : 1+nameLen])
	rest = rest[1+nameLen:]
	symLen := int(rest[0])
	if len(rest) < 1+symLen {
		return nil, errors.New("invalid token info data length")
	}
	ti.Symbol = string(rest[1 : 1+symLen])
	return ti, nil
}

// Layer is the token layer service.
type Layer struct {
	log log.Logger
}

// NewLayer creates a new token layer
func NewLayer() *Layer {
	return &Layer{
		log: log.NewTestLogger(log.InfoLevel),
	}
}

func tokenKey(mint common.Address) common.Hash {
	return contract.Derive(nsTokenInfo, mint.Bytes())
}

// CreateToken records metadata for a plain mint with no transfer hook.
func (l *Layer) CreateToken(
	s contract.StateDB,
	caller common.Address,
	mint common.Address,
	name string,
	symbol string,
	decimals uint8,
	supply uint64,
) error {
	return l.create(s, caller, mint, name, symbol, decimals, supply, false, common.Address{})
}

// CreateTokenWithHook records metadata for a hook-gated mint. Every transfer
// touching the mint must pass through the bound hook before it can complete.
func (l *Layer) CreateTokenWithHook(
	s contract.StateDB,
	caller common.Address,
	mint common.Address,
	name string,
	symbol string,
	decimals uint8,
	supply uint64,
	hook common.Address,
) error {
	return l.create(s, caller, mint, name, symbol, decimals, supply, true, hook)
}

func (l *Layer) create(
	s contract.StateDB,
	caller common.Address,
	mint common.Address,
	name string,
	symbol string,
	decimals uint8,
	supply uint64,
	hasHook bool,
	hook common.Address,
) error {
	if len(name) > MaxNameLen {
		return ErrNameTooLong
	}
	if len(symbol) > MaxSymbolLen {
		return ErrSymbolTooLong
	}
	if _, ok := contract.LoadBytes(s, tokenLayerAddr, tokenKey(mint)); ok {
		return ErrTokenExists
	}

	ti := &TokenInfo{
		Mint:      mint,
		Creator:   caller,
		Decimals:  decimals,
		Supply:    supply,
		HasHook:   hasHook,
		Hook:      hook,
		CreatedAt: s.GetBlockTime(),
		Name:      name,
		Symbol:    symbol,
	}
	contract.StoreBytes(s, tokenLayerAddr, tokenKey(mint), ti.ToBytes())

	l.log.Info("token created: " + name + " (" + symbol + ") mint=" + mint.Hex())
	return nil
}

// TokenInfo returns the metadata record for a mint.
func (l *Layer) TokenInfo(s contract.StateDB, mint common.Address) (*TokenInfo, error) {
	data, ok := contract.LoadBytes(s, tokenLayerAddr, tokenKey(mint))
	if !ok {
		return nil, ErrTokenNotFound
	}
	return TokenInfoFromBytes(data)
}

// HookFor resolves the transfer hook bound to a mint. The second return is
// false for unknown mints and for mints created without a hook; such mints
// pass transfer validation unconditionally.
func (l *Layer) HookFor(s contract.StateDB, mint common.Address) (common.Address, bool) {
	ti, err := l.TokenInfo(s, mint)
	if err != nil || !ti.HasHook {
		return common.Address{}, false
	}
	return ti.Hook, true
}
