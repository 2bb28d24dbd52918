// Copyright (C) 2025, HookSwap Labs. All rights reserved.
// See the file LICENSE for licensing terms.

// Package contract defines the surface between the HookSwap engines and the
// hosting execution runtime: the StateDB every engine persists through, the
// stateful contract calling convention, and derived record addressing.
package contract

import (
	"errors"

	"github.com/luxfi/geth/common"
)

// StateDB is the durable state interface supplied by the hosting runtime.
// The runtime sequences concurrent calls so that at most one writer touches a
// record at a time; the unit of durability is one committed call.
type StateDB interface {
	GetState(addr common.Address, key common.Hash) common.Hash
	SetState(addr common.Address, key common.Hash, value common.Hash)
	Exist(addr common.Address) bool
	CreateAccount(addr common.Address)

	// GetBlockTime returns the runtime's current unix timestamp.
	// Record created_at/updated_at fields are stamped with it.
	GetBlockTime() uint64
}

// StatefulContract is a registered engine contract with a fixed address and a
// selector-dispatched entrypoint.
type StatefulContract interface {
	Address() common.Address

	// RequiredGas returns the gas cost for the given input.
	RequiredGas(input []byte) uint64

	// Run executes the call. Mutating selectors must fail when readOnly is
	// set. Returns the output, the remaining gas, and an error that aborts
	// the call with no state change.
	Run(
		state StateDB,
		caller common.Address,
		addr common.Address,
		input []byte,
		suppliedGas uint64,
		readOnly bool,
	) ([]byte, uint64, error)
}

// Calling convention errors
var (
	ErrOutOfGas        = errors.New("out of gas")
	ErrWriteProtection = errors.New("write protection: state mutation in read-only call")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnknownSelector = errors.New("unknown selector")
	ErrInputTooShort   = errors.New("input too short")
)

// Selector reads the 4-byte method selector from call input.
func Selector(input []byte) (uint32, []byte, error) {
	if len(input) < 4 {
		return 0, nil, ErrInputTooShort
	}
	sel := uint32(input[0])<<24 | uint32(input[1])<<16 | uint32(input[2])<<8 | uint32(input[3])
	return sel, input[4:], nil
}
