// Copyright (C) 2025, HookSwap Labs. All rights reserved.
// See the file LICENSE for licensing terms.

// Package modules tracks the registered HookSwap engine contracts and the
// address ranges reserved for them.
package modules

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/luxfi/geth/common"

	"github.com/hookswap/hookswap/contract"
)

// AddressRange represents a continuous range of addresses
type AddressRange struct {
	Start common.Address
	End   common.Address
}

// Contains returns true iff [addr] is contained within the (inclusive)
// range of addresses defined by [a].
func (a *AddressRange) Contains(addr common.Address) bool {
	addrBytes := addr.Bytes()
	return bytes.Compare(addrBytes, a.Start[:]) >= 0 && bytes.Compare(addrBytes, a.End[:]) <= 0
}

// Module pairs an engine contract with its fixed address and config key.
type Module struct {
	ConfigKey string
	Address   common.Address
	Contract  contract.StatefulContract
}

// BlackholeAddr is the address where assets are burned
var BlackholeAddr = common.Address{
	1, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

var (
	// registeredModules is a list of Module to preserve order
	// for deterministic iteration
	registeredModules = make([]Module, 0)

	// Reserved address ranges for engine contracts
	//
	// 0x0000...70XX: HookSwap core engines
	//   0x...7001 token layer
	//   0x...7002 hook registry
	//   0x...7003 KYC hook
	//   0x...7004 whitelist hook
	//   0x...7010 AMM pool engine
	reservedRanges = []AddressRange{
		{
			Start: common.HexToAddress("0x0000000000000000000000000000000000007000"),
			End:   common.HexToAddress("0x00000000000000000000000000000000000070ff"),
		},
	}
)

// ReservedAddress returns true if [addr] is in a range reserved for engine contracts
func ReservedAddress(addr common.Address) bool {
	for _, reservedRange := range reservedRanges {
		if reservedRange.Contains(addr) {
			return true
		}
	}

	return false
}

// RegisterModule registers an engine contract module
func RegisterModule(stm Module) error {
	address := stm.Address
	key := stm.ConfigKey

	if address == BlackholeAddr {
		return fmt.Errorf("address %s overlaps with blackhole address", address)
	}
	if !ReservedAddress(address) {
		return fmt.Errorf("address %s not in a reserved range", address)
	}

	for _, registeredModule := range registeredModules {
		if registeredModule.ConfigKey == key {
			return fmt.Errorf("name %s already used by an engine contract", key)
		}
		if registeredModule.Address == address {
			return fmt.Errorf("address %s already used by an engine contract", address)
		}
	}
	// sort by address to ensure deterministic iteration
	registeredModules = insertSortedByAddress(registeredModules, stm)
	return nil
}

func GetModuleByAddress(address common.Address) (Module, bool) {
	for _, stm := range registeredModules {
		if stm.Address == address {
			return stm, true
		}
	}
	return Module{}, false
}

func GetModule(key string) (Module, bool) {
	for _, stm := range registeredModules {
		if stm.ConfigKey == key {
			return stm, true
		}
	}
	return Module{}, false
}

func RegisteredModules() []Module {
	return registeredModules
}

func insertSortedByAddress(data []Module, stm Module) []Module {
	data = append(data, stm)
	sort.Slice(data, func(i, j int) bool {
		return bytes.Compare(data[i].Address[:], data[j].Address[:]) < 0
	})
	return data
}
