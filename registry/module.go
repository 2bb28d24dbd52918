// Copyright (C) 2025, HookSwap Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"encoding/binary"
	"fmt"

	"github.com/luxfi/geth/common"

	"github.com/hookswap/hookswap/contract"
	"github.com/hookswap/hookswap/modules"
)

var _ contract.StatefulContract = (*RegistryContract)(nil)

// ConfigKey is the key used in json config files to specify this engine config.
const ConfigKey = "hookRegistryConfig"

// Method selectors for the hook registry
const (
	SelectorInitialize  uint32 = 0x01000000 // initialize(address,uint16)
	SelectorApproveHook uint32 = 0x02000000 // approveHook(address,uint8,uint8,string,string)
	SelectorRevokeHook  uint32 = 0x03000000 // revokeHook(address)
	SelectorIsApproved  uint32 = 0x04000000 // isApproved(address)
	SelectorSetEnabled  uint32 = 0x05000000 // setEnabled(bool)
	SelectorHookInfo    uint32 = 0x06000000 // hookInfo(address)
)

// Gas costs
const (
	GasInitialize uint64 = 20_000
	GasApprove    uint64 = 15_000
	GasRevoke     uint64 = 10_000
	GasQuery      uint64 = 100
	GasSetEnabled uint64 = 5_000
)

// DefaultService is the singleton registry service.
var DefaultService = NewService()

// RegistryPrecompile is the singleton contract instance
var RegistryPrecompile = &RegistryContract{service: DefaultService}

// Module is the engine module (hook registry at 0x...7002)
var Module = modules.Module{
	ConfigKey: ConfigKey,
	Address:   common.HexToAddress(HookRegistryAddress),
	Contract:  RegistryPrecompile,
}

func init() {
	if err := modules.RegisterModule(Module); err != nil {
		panic(err)
	}
}

// RegistryContract exposes the registry service through the selector calling
// convention.
type RegistryContract struct {
	service *Service
}

// Service returns the underlying registry service.
func (c *RegistryContract) Service() *Service {
	return c.service
}

func (c *RegistryContract) Address() common.Address {
	return common.HexToAddress(HookRegistryAddress)
}

func (c *RegistryContract) RequiredGas(input []byte) uint64 {
	sel, _, err := contract.Selector(input)
	if err != nil {
		return GasQuery
	}
	switch sel {
	case SelectorInitialize:
		return GasInitialize
	case SelectorApproveHook:
		return GasApprove
	case SelectorRevokeHook:
		return GasRevoke
	case SelectorSetEnabled:
		return GasSetEnabled
	default:
		return GasQuery
	}
}

func (c *RegistryContract) Run(
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
	if readOnly && sel != SelectorIsApproved && sel != SelectorHookInfo {
		return nil, remainingGas, contract.ErrWriteProtection
	}

	switch sel {
	case SelectorInitialize:
		if len(args) < 22 {
			return nil, remainingGas, contract.ErrInputTooShort
		}
		authority := common.BytesToAddress(args[0:20])
		maxHooks := binary.BigEndian.Uint16(args[20:22])
		return nil, remainingGas, c.service.Initialize(state, caller, authority, maxHooks)

	case SelectorApproveHook:
		hook, hookType, risk, name, desc, err := unpackApprove(args)
		if err != nil {
			return nil, remainingGas, err
		}
		return nil, remainingGas, c.service.ApproveHook(state, caller, hook, hookType, name, desc, risk)

	case SelectorRevokeHook:
		if len(args) < 20 {
			return nil, remainingGas, contract.ErrInputTooShort
		}
		return nil, remainingGas, c.service.RevokeHook(state, caller, common.BytesToAddress(args[0:20]))

	case SelectorIsApproved:
		if len(args) < 20 {
			return nil, remainingGas, contract.ErrInputTooShort
		}
		result := make([]byte, 32)
		if c.service.IsApproved(state, common.BytesToAddress(args[0:20])) {
			result[31] = 1
		}
		return result, remainingGas, nil

	case SelectorSetEnabled:
		if len(args) < 1 {
			return nil, remainingGas, contract.ErrInputTooShort
		}
		return nil, remainingGas, c.service.SetEnabled(state, caller, args[0] == 1)

	case SelectorHookInfo:
		if len(args) < 20 {
			return nil, remainingGas, contract.ErrInputTooShort
		}
		entry, err := c.service.HookInfo(state, common.BytesToAddress(args[0:20]))
		if err != nil {
			return nil, remainingGas, err
		}
		return entry.ToBytes(), remainingGas, nil

	default:
		return nil, remainingGas, fmt.Errorf("%w: 0x%08x", contract.ErrUnknownSelector, sel)
	}
}

// unpackApprove decodes approveHook arguments:
// hook(20) type(1) risk(1) nameLen(1) name descLen(1) desc
func unpackApprove(args []byte) (common.Address, HookType, RiskLevel, string, string, error) {
	if len(args) < 23 {
		return common.Address{}, 0, 0, "", "", contract.ErrInputTooShort
	}
	hook := common.BytesToAddress(args[0:20])
	hookType := HookType(args[20])
	risk := RiskLevel(args[21])

	rest := args[22:]
	nameLen := int(rest[0])
	if len(rest) < 1+nameLen+1 {
		return common.Address{}, 0, 0, "", "", contract.ErrInputTooShort
	}
	name := string(rest[1 : 1+nameLen])
	rest = rest[1+nameLen:]
	descLen := int(rest[0])
	if len(rest) < 1+descLen {
		return common.Address{}, 0, 0, "", "", contract.ErrInputTooShort
	}
	desc := string(rest[1 : 1+descLen])
	return hook, hookType, risk, name, desc, nil
}
