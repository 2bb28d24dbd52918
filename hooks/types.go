// Copyright (C) 2025, HookSwap Labs. All rights reserved.
// See the file LICENSE for licensing terms.

// Package hooks implements the transfer hook validation pipeline and the
// compliance stores it dispatches to. For every state-mutating operation that
// touches a hook-gated mint the pipeline produces an allow/reject verdict
// before any balance mutation is made durable. Every ambiguous path is a
// reject: missing record, unapproved hook, erroring validator. Never
// default-allow.
package hooks

import (
	"errors"

	"github.com/luxfi/geth/common"

	"github.com/hookswap/hookswap/contract"
)

// Engine addresses of the compliance store contracts.
const (
	KYCHookAddress       = "0x0000000000000000000000000000000000007003"
	WhitelistHookAddress = "0x0000000000000000000000000000000000007004"
)

// Direction is the transfer leg being validated, as seen from the subject's
// account: a deposit moves tokens out of it, a withdrawal moves tokens into
// it.
type Direction uint8

const (
	DirectionDeposit Direction = iota
	DirectionWithdraw
)

func (d Direction) String() string {
	switch d {
	case DirectionDeposit:
		return "deposit"
	case DirectionWithdraw:
		return "withdraw"
	default:
		return "unknown"
	}
}

// Reject verdicts. Each one aborts the enclosing operation with no partial
// effect; callers can distinguish a compliance rejection from any other
// failure by the specific kind.
var (
	ErrHookNotApproved   = errors.New("transfer hook not approved by registry")
	ErrKycNotVerified    = errors.New("subject is not KYC verified")
	ErrNotWhitelisted    = errors.New("subject is not whitelisted")
	ErrValidatorRejected = errors.New("custom validator rejected transfer")
)

// Store management errors
var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrAlreadyInitialized = errors.New("compliance store already initialized")
	ErrNotInitialized     = errors.New("compliance store not initialized")
	ErrRecordExists       = errors.New("compliance record already exists")
	ErrRecordNotFound     = errors.New("compliance record not found")
	ErrWhitelistFull      = errors.New("whitelist is at maximum capacity")
	ErrAlreadyWhitelisted = errors.New("address is already whitelisted")
	ErrInvalidLevel       = errors.New("invalid permission level")
)

// ComplianceStore is the verification contract a compliance store exposes to
// the pipeline: bounded, side-effect-free, nil result means allow.
type ComplianceStore interface {
	Verify(s contract.StateDB, subject common.Address, direction Direction) error
}

// Validator is the contract a custom hook program implements. A validator
// that errors (or panics) is treated as a reject.
type Validator interface {
	Verify(s contract.StateDB, subject common.Address, direction Direction) error
}
