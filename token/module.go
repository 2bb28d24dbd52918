// Copyright (C) 2025, HookSwap Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import (
	"encoding/binary"
	"fmt"

	"github.com/luxfi/geth/common"

	"github.com/hookswap/hookswap/contract"
	"github.com/hookswap/hookswap/modules"
)

var _ contract.StatefulContract = (*LayerContract)(nil)

// ConfigKey is the key used in json config files to specify this engine config.
const ConfigKey = "tokenLayerConfig"

// Method selectors for the token layer
const (
	SelectorCreateToken         uint32 = 0x01000000 // createToken(address,uint8,uint64,string,string)
	SelectorCreateTokenWithHook uint32 = 0x02000000 // createTokenWithHook(address,uint8,uint64,address,string,string)
	SelectorGetToken            uint32 = 0x03000000 // getToken(address)
)

// Gas costs
const (
	GasCreateToken uint64 = 30_000
	GasQuery       uint64 = 100
)

// DefaultLayer is the singleton token layer.
var DefaultLayer = NewLayer()

// LayerPrecompile is the singleton contract instance
var LayerPrecompile = &LayerContract{layer: DefaultLayer}

// Module is the engine module (token layer at 0x...7001)
var Module = modules.Module{
	ConfigKey: ConfigKey,
	Address:   tokenLayerAddr,
	Contract:  LayerPrecompile,
}

func init() {
	if err := modules.RegisterModule(Module); err != nil {
		panic(err)
	}
}

// LayerContract exposes the token layer through the selector calling
// convention.
type LayerContract struct {
	layer *Layer
}

// Layer returns the underlying token layer.
func (c *LayerContract) Layer() *Layer {
	return c.layer
}

func (c *LayerContract) Address() common.Address {
	return tokenLayerAddr
}

func (c *LayerContract) RequiredGas(input []byte) uint64 {
	sel, _, err := contract.Selector(input)
	if err != nil {
		return GasQuery
	}
	switch sel {
	case SelectorCreateToken, SelectorCreateTokenWithHook:
		return GasCreateToken
	default:
		return GasQuery
	}
}

func (c *LayerContract) Run(
	state contract.StateDB,
	caller common.Address,
	addr common.Address,
	input []byte,
	suppliedGas uint64,
	readOnly bool,
) ([]byte, uint64, error) {
	gasCost := c.RequiredGas(input)
	if suppliedGas < gasCost {
		return nil, 0, contract.ErrOutOfGas
	}
	remainingGas := suppliedGas - gasCost

	sel, args, err := contract.Selector(input)
	if err != nil {
		return nil, remainingGas, err
	}
	if readOnly && sel != SelectorGetToken {
		return nil, remainingGas, contract.ErrWriteProtection
	}

	switch sel {
	case SelectorCreateToken:
		mint, decimals, supply, name, symbol, _, err := unpackCreate(args)
		if err != nil {
			return nil, remainingGas, err
		}
		return nil, remainingGas, c.layer.CreateToken(state, caller, mint, name, symbol, decimals, supply)

	case SelectorCreateTokenWithHook:
		mint, decimals, supply, name, symbol, rest, err := unpackCreate(args)
		if err != nil {
			return nil, remainingGas, err
		}
		if len(rest) < 20 {
			return nil, remainingGas, contract.ErrInputTooShort
		}
		hook := common.BytesToAddress(rest[0:20])
		return nil, remainingGas, c.layer.CreateTokenWithHook(state, caller, mint, name, symbol, decimals, supply, hook)

	case SelectorGetToken:
		if len(args) < 20 {
			return nil, remainingGas, contract.ErrInputTooShort
		}
		ti, err := c.layer.TokenInfo(state, common.BytesToAddress(args[0:20]))
		if err != nil {
			return nil, remainingGas, err
		}
		return ti.ToBytes(), remainingGas, nil

	default:
		return nil, remainingGas, fmt.Errorf("%w: 0x%08x", contract.ErrUnknownSelector, sel)
	}
}

// unpackCreate decodes the common createToken prefix:
// mint(20) decimals(1) supply(8) nameLen(1) name symLen(1) symbol [trailing]
func unpackCreate(args []byte) (common.Address, uint8, uint64, string, string, []byte, error) {
	if len(args) < 31 {
		return common.Address{}, 0, 0, "", "", nil, contract.ErrInputTooShort
	}
	mint := common.BytesToAddress(args[0:20])
	decimals := args[20]
	supply := binary.BigEndian.Uint64(args[21:29])

	rest := args[29:]
	nameLen := int(rest[0])
	if len(rest) < 1+nameLen+1 {
		return common.Address{}, 0, 0, "", "", nil, contract.ErrInputTooShort
	}
	name := string(rest[1 : 1+nameLen])
	rest = rest[1+nameLen:]
	symLen := int(rest[0])
	if len(rest) < 1+symLen {
		return common.Address{}, 0, 0, "", "", nil, contract.ErrInputTooShort
	}
	symbol := string(rest[1 : 1+symLen])
	rest = rest[1+symLen:]
	return mint, decimals, supply, name, symbol, rest, nil
}
