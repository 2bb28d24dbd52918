// Copyright (C) 2025, HookSwap Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package amm

import (
	"encoding/binary"
	"fmt"

	"github.com/luxfi/geth/common"

	"github.com/hookswap/hookswap/contract"
	"github.com/hookswap/hookswap/hooks"
	"github.com/hookswap/hookswap/modules"
	"github.com/hookswap/hookswap/registry"
	"github.com/hookswap/hookswap/token"
)

var _ contract.StatefulContract = (*PoolContract)(nil)

// ConfigKey is the key used in json config files to specify this engine config.
const ConfigKey = "ammConfig"

// Method selectors for the pool engine
const (
	SelectorInitializeAMM uint32 = 0x01000000 // initializeAMM(uint64)
	SelectorCreatePool    uint32 = 0x02000000 // createPool(address,address,uint64)
	SelectorAddLiquidity  uint32 = 0x03000000 // addLiquidity(bytes32,uint64,uint64)
	SelectorSwap          uint32 = 0x04000000 // swap(bytes32,uint64,uint64,bool)
	SelectorGetPool       uint32 = 0x05000000 // getPool(bytes32)
	SelectorSetEnabled    uint32 = 0x06000000 // setEnabled(bool)
)

// Gas costs
const (
	GasInitialize   uint64 = 20_000
	GasPoolCreate   uint64 = 50_000
	GasAddLiquidity uint64 = 20_000
	GasSwap         uint64 = 10_000
	GasPoolLookup   uint64 = 100
	GasSetEnabled   uint64 = 5_000
)

// DefaultPipeline wires the pipeline over the package singletons.
var DefaultPipeline = hooks.NewPipeline(
	token.DefaultLayer,
	registry.DefaultService,
	hooks.DefaultKYC,
	hooks.DefaultWhitelist,
)

// PoolEnginePrecompile is the singleton instance
var PoolEnginePrecompile = &PoolContract{
	engine: NewEngine(token.DefaultLayer, DefaultPipeline),
}

// Module is the engine module (pool engine at 0x...7010)
var Module = modules.Module{
	ConfigKey: ConfigKey,
	Address:   common.HexToAddress(AMMPoolAddress),
	Contract:  PoolEnginePrecompile,
}

func init() {
	if err := modules.RegisterModule(Module); err != nil {
		panic(err)
	}
}

// PoolContract exposes the pool engine through the selector calling
// convention.
type PoolContract struct {
	engine *Engine
}

// Engine returns the underlying pool engine.
func (c *PoolContract) Engine() *Engine {
	return c.engine
}

func (c *PoolContract) Address() common.Address {
	return common.HexToAddress(AMMPoolAddress)
}

func (c *PoolContract) RequiredGas(input []byte) uint64 {
	sel, _, err := contract.Selector(input)
	if err != nil {
		return GasPoolLookup
	}
	switch sel {
	case SelectorInitializeAMM:
		return GasInitialize
	case SelectorCreatePool:
		return GasPoolCreate
	case SelectorAddLiquidity:
		return GasAddLiquidity
	case SelectorSwap:
		return GasSwap
	case SelectorSetEnabled:
		return GasSetEnabled
	default:
		return GasPoolLookup
	}
}

func (c *PoolContract) Run(
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
	if readOnly && sel != SelectorGetPool {
		return nil, remainingGas, contract.ErrWriteProtection
	}

	switch sel {
	case SelectorInitializeAMM:
		if len(args) < 8 {
			return nil, remainingGas, contract.ErrInputTooShort
		}
		feeRate := binary.BigEndian.Uint64(args[0:8])
		return nil, remainingGas, c.engine.InitializeAMM(state, caller, feeRate)

	case SelectorCreatePool:
		if len(args) < 48 {
			return nil, remainingGas, contract.ErrInputTooShort
		}
		mintA := common.BytesToAddress(args[0:20])
		mintB := common.BytesToAddress(args[20:40])
		price := binary.BigEndian.Uint64(args[40:48])
		id, err := c.engine.CreatePool(state, caller, mintA, mintB, price)
		if err != nil {
			return nil, remainingGas, err
		}
		return id.Bytes(), remainingGas, nil

	case SelectorAddLiquidity:
		if len(args) < 48 {
			return nil, remainingGas, contract.ErrInputTooShort
		}
		id := common.BytesToHash(args[0:32])
		amountA := binary.BigEndian.Uint64(args[32:40])
		amountB := binary.BigEndian.Uint64(args[40:48])
		return nil, remainingGas, c.engine.AddLiquidity(state, caller, id, amountA, amountB)

	case SelectorSwap:
		if len(args) < 49 {
			return nil, remainingGas, contract.ErrInputTooShort
		}
		id := common.BytesToHash(args[0:32])
		amountIn := binary.BigEndian.Uint64(args[32:40])
		minOut := binary.BigEndian.Uint64(args[40:48])
		aToB := args[48] == 1
		out, err := c.engine.Swap(state, caller, id, amountIn, minOut, aToB)
		if err != nil {
			return nil, remainingGas, err
		}
		result := make([]byte, 32)
		binary.BigEndian.PutUint64(result[24:32], out)
		return result, remainingGas, nil

	case SelectorGetPool:
		if len(args) < 32 {
			return nil, remainingGas, contract.ErrInputTooShort
		}
		pool, err := c.engine.PoolInfo(state, common.BytesToHash(args[0:32]))
		if err != nil {
			return nil, remainingGas, err
		}
		return pool.ToBytes(), remainingGas, nil

	case SelectorSetEnabled:
		if len(args) < 1 {
			return nil, remainingGas, contract.ErrInputTooShort
		}
		return nil, remainingGas, c.engine.SetEnabled(state, caller, args[0] == 1)

	default:
		return nil, remainingGas, fmt.Errorf("%w: 0x%08x", contract.ErrUnknownSelector, sel)
	}
}
