// Copyright (C) 2025, HookSwap Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package hooks

import (
	"encoding/binary"
	"fmt"

	"github.com/luxfi/geth/common"

	"github.com/hookswap/hookswap/contract"
	"github.com/hookswap/hookswap/modules"
)

var (
	_ contract.StatefulContract = (*KYCContract)(nil)
	_ contract.StatefulContract = (*WhitelistContract)(nil)
)

// Config keys for the compliance store contracts.
const (
	KYCConfigKey       = "kycHookConfig"
	WhitelistConfigKey = "whitelistHookConfig"
)

// Method selectors shared by both compliance stores
const (
	SelectorInitialize uint32 = 0x01000000 // initialize(address[,uint16])
	SelectorAddRecord  uint32 = 0x02000000 // createRecord / addToWhitelist
	SelectorUpdate     uint32 = 0x03000000 // updateStatus / removeFromWhitelist
	SelectorCheck      uint32 = 0x04000000 // isVerified / isWhitelisted
)

// Gas costs
const (
	GasInitialize uint64 = 20_000
	GasMutate     uint64 = 10_000
	GasCheck      uint64 = 100
)

// Package singletons
var (
	DefaultKYC       = NewKYCStore()
	DefaultWhitelist = NewWhitelistStore()

	KYCPrecompile       = &KYCContract{store: DefaultKYC}
	WhitelistPrecompile = &WhitelistContract{store: DefaultWhitelist}
)

// KYCModule is the engine module for the KYC store (0x...7003)
var KYCModule = modules.Module{
	ConfigKey: KYCConfigKey,
	Address:   kycAddr,
	Contract:  KYCPrecompile,
}

// WhitelistModule is the engine module for the whitelist store (0x...7004)
var WhitelistModule = modules.Module{
	ConfigKey: WhitelistConfigKey,
	Address:   whitelistAddr,
	Contract:  WhitelistPrecompile,
}

func init() {
	if err := modules.RegisterModule(KYCModule); err != nil {
		panic(err)
	}
	if err := modules.RegisterModule(WhitelistModule); err != nil {
		panic(err)
	}
}

// KYCContract exposes the KYC store through the selector calling convention.
type KYCContract struct {
	store *KYCStore
}

// Store returns the underlying KYC store.
func (c *KYCContract) Store() *KYCStore {
	return c.store
}

func (c *KYCContract) Address() common.Address {
	return kycAddr
}

func (c *KYCContract) RequiredGas(input []byte) uint64 {
	sel, _, err := contract.Selector(input)
	if err != nil {
		return GasCheck
	}
	switch sel {
	case SelectorInitialize:
		return GasInitialize
	case SelectorAddRecord, SelectorUpdate:
		return GasMutate
	default:
		return GasCheck
	}
}

func (c *KYCContract) Run(
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
	if readOnly && sel != SelectorCheck {
		return nil, remainingGas, contract.ErrWriteProtection
	}

	switch sel {
	case SelectorInitialize:
		if len(args) < 20 {
			return nil, remainingGas, contract.ErrInputTooShort
		}
		return nil, remainingGas, c.store.Initialize(state, caller, common.BytesToAddress(args[0:20]))

	case SelectorAddRecord:
		if len(args) < 21 {
			return nil, remainingGas, contract.ErrInputTooShort
		}
		user := common.BytesToAddress(args[0:20])
		return nil, remainingGas, c.store.CreateRecord(state, caller, user, args[20] == 1)

	case SelectorUpdate:
		if len(args) < 21 {
			return nil, remainingGas, contract.ErrInputTooShort
		}
		user := common.BytesToAddress(args[0:20])
		return nil, remainingGas, c.store.UpdateStatus(state, caller, user, args[20] == 1)

	case SelectorCheck:
		if len(args) < 20 {
			return nil, remainingGas, contract.ErrInputTooShort
		}
		result := make([]byte, 32)
		if c.store.IsVerified(state, common.BytesToAddress(args[0:20])) {
			result[31] = 1
		}
		return result, remainingGas, nil

	default:
		return nil, remainingGas, fmt.Errorf("%w: 0x%08x", contract.ErrUnknownSelector, sel)
	}
}

// WhitelistContract exposes the whitelist store through the selector calling
// convention.
type WhitelistContract struct {
	store *WhitelistStore
}

// Store returns the underlying whitelist store.
func (c *WhitelistContract) Store() *WhitelistStore {
	return c.store
}

func (c *WhitelistContract) Address() common.Address {
	return whitelistAddr
}

func (c *WhitelistContract) RequiredGas(input []byte) uint64 {
	sel, _, err := contract.Selector(input)
	if err != nil {
		return GasCheck
	}
	switch sel {
	case SelectorInitialize:
		return GasInitialize
	case SelectorAddRecord, SelectorUpdate:
		return GasMutate
	default:
		return GasCheck
	}
}

func (c *WhitelistContract) Run(
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
	if readOnly && sel != SelectorCheck {
		return nil, remainingGas, contract.ErrWriteProtection
	}

	switch sel {
	case SelectorInitialize:
		if len(args) < 22 {
			return nil, remainingGas, contract.ErrInputTooShort
		}
		authority := common.BytesToAddress(args[0:20])
		maxAddresses := binary.BigEndian.Uint16(args[20:22])
		return nil, remainingGas, c.store.Initialize(state, caller, authority, maxAddresses)

	case SelectorAddRecord:
		if len(args) < 21 {
			return nil, remainingGas, contract.ErrInputTooShort
		}
		target := common.BytesToAddress(args[0:20])
		return nil, remainingGas, c.store.Add(state, caller, target, args[20])

	case SelectorUpdate:
		if len(args) < 20 {
			return nil, remainingGas, contract.ErrInputTooShort
		}
		return nil, remainingGas, c.store.Remove(state, caller, common.BytesToAddress(args[0:20]))

	case SelectorCheck:
		if len(args) < 20 {
			return nil, remainingGas, contract.ErrInputTooShort
		}
		result := make([]byte, 32)
		if c.store.IsWhitelisted(state, common.BytesToAddress(args[0:20])) {
			result[31] = 1
		}
		return result, remainingGas, nil

	default:
		return nil, remainingGas, fmt.Errorf("%w: 0x%08x", contract.ErrUnknownSelector, sel)
	}
}
