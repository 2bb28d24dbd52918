// Copyright (C) 2025, HookSwap Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package hooks

import (
	"fmt"
	"sync"

	"github.com/luxfi/geth/common"
	log "github.com/luxfi/log"

	"github.com/hookswap/hookswap/contract"
	"github.com/hookswap/hookswap/registry"
)

// MintResolver resolves a mint's configured transfer hook. The token layer
// implements it.
type MintResolver interface {
	HookFor(s contract.StateDB, mint common.Address) (common.Address, bool)
}

// HookRegistry is the registry surface the pipeline consults.
type HookRegistry interface {
	IsApproved(s contract.StateDB, hook common.Address) bool
	HookInfo(s contract.StateDB, hook common.Address) (*registry.ApprovedHook, error)
	RecordValidation(s contract.StateDB, hook common.Address)
}

// Pipeline produces the per-transfer allow/reject verdict for a
// (mint, subject, direction) triple. It has no side effects on the caller's
// durable state beyond the registry's audit increment.
type Pipeline struct {
	tokens    MintResolver
	registry  HookRegistry
	kyc       ComplianceStore
	whitelist ComplianceStore

	mu     sync.RWMutex
	custom map[common.Address]Validator

	log log.Logger
}

// NewPipeline creates a validation pipeline over the given collaborators.
func NewPipeline(tokens MintResolver, reg HookRegistry, kyc, whitelist ComplianceStore) *Pipeline {
	return &Pipeline{
		tokens:    tokens,
		registry:  reg,
		kyc:       kyc,
		whitelist: whitelist,
		custom:    make(map[common.Address]Validator),
		log:       log.NewTestLogger(log.InfoLevel),
	}
}

// RegisterValidator binds a custom validator implementation to a hook
// identity. The registry still decides whether the hook may gate transfers;
// this only supplies the verification logic dispatched to for
// HookTypeCustom entries.
func (p *Pipeline) RegisterValidator(hook common.Address, v Validator) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.custom[hook] = v
}

func (p *Pipeline) validator(hook common.Address) (Validator, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.custom[hook]
	return v, ok
}

// Validate returns nil iff the transfer leg may proceed.
//
// The order is load-bearing: a mint with no hook passes unconditionally
// (there is no validator to ask), and an unapproved hook rejects
// unconditionally, before any compliance store is consulted. Consultations
// that actually happened are recorded on the registry's audit counter whether
// the verdict is allow or reject; the counter rides on registry state, not on
// the caller's records, so an aborted operation still leaves its trace.
func (p *Pipeline) Validate(s contract.StateDB, mint common.Address, subject common.Address, direction Direction) error {
	hook, gated := p.tokens.HookFor(s, mint)
	if !gated {
		return nil
	}

	if !p.registry.IsApproved(s, hook) {
		return ErrHookNotApproved
	}

	info, err := p.registry.HookInfo(s, hook)
	if err != nil {
		// Approved a moment ago but unreadable now: ambiguous, deny.
		return ErrHookNotApproved
	}

	var verdict error
	switch info.Type {
	case registry.HookTypeKYC:
		verdict = p.kyc.Verify(s, subject, direction)
	case registry.HookTypeWhitelist:
		verdict = p.whitelist.Verify(s, subject, direction)
	case registry.HookTypeCustom:
		verdict = p.runCustom(s, hook, subject, direction)
	default:
		verdict = ErrValidatorRejected
	}

	p.registry.RecordValidation(s, hook)

	if verdict != nil {
		p.log.Info("transfer rejected: mint=" + mint.Hex() + " subject=" + subject.Hex() +
			" direction=" + direction.String() + " reason=" + verdict.Error())
	}
	return verdict
}

// runCustom dispatches to the registered validator for hook. A missing,
// erroring, or panicking validator is a reject.
func (p *Pipeline) runCustom(s contract.StateDB, hook common.Address, subject common.Address, direction Direction) (verdict error) {
	defer func() {
		if r := recover(); r != nil {
			verdict = fmt.Errorf("%w: validator panic: %v", ErrValidatorRejected, r)
		}
	}()

	v, ok := p.validator(hook)
	if !ok {
		return fmt.Errorf("%w: no validator registered for %s", ErrValidatorRejected, hook.Hex())
	}
	return v.Verify(s, subject, direction)
}
