// Copyright (C) 2025, HookSwap Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"github.com/luxfi/geth/common"
	log "github.com/luxfi/log"

	"github.com/hookswap/hookswap/contract"
)

var registryAddr = common.HexToAddress(HookRegistryAddress)

// Storage namespaces
const (
	nsConfig   = "registry_config"
	nsHookSlot = "registry_hook_slot"
)

// Service is the hook registry service: the mutation and query surface over
// the durable registry store.
type Service struct {
	log log.Logger
}

// NewService creates a new registry service
func NewService() *Service {
	return &Service{
		log: log.NewTestLogger(log.InfoLevel),
	}
}

func configKey() common.Hash {
	return contract.Derive(nsConfig)
}

func slotKey(i uint16) common.Hash {
	return contract.DeriveIndexed(nsHookSlot, i)
}

func (r *Service) config(s contract.StateDB) (*Config, error) {
	data, ok := contract.LoadBytes(s, registryAddr, configKey())
	if !ok {
		return nil, ErrNotInitialized
	}
	return ConfigFromBytes(data)
}

func (r *Service) writeConfig(s contract.StateDB, cfg *Config) {
	contract.StoreBytes(s, registryAddr, configKey(), cfg.ToBytes())
}

func (r *Service) slot(s contract.StateDB, i uint16) (*ApprovedHook, error) {
	data, ok := contract.LoadBytes(s, registryAddr, slotKey(i))
	if !ok {
		return nil, ErrUnknownHook
	}
	return ApprovedHookFromBytes(data)
}

func (r *Service) writeSlot(s contract.StateDB, i uint16, h *ApprovedHook) {
	contract.StoreBytes(s, registryAddr, slotKey(i), h.ToBytes())
}

// find returns the slot index of the entry for hook, enabled or not.
func (r *Service) find(s contract.StateDB, cfg *Config, hook common.Address) (uint16, *ApprovedHook, bool) {
	for i := uint16(0); i < cfg.HookCount; i++ {
		entry, err := r.slot(s, i)
		if err != nil {
			continue
		}
		if entry.Hook == hook {
			return i, entry, true
		}
	}
	return 0, nil, false
}

// Initialize creates the registry config. Fails if called twice.
func (r *Service) Initialize(s contract.StateDB, caller common.Address, authority common.Address, maxHooks uint16) error {
	if _, ok := contract.LoadBytes(s, registryAddr, configKey()); ok {
		return ErrAlreadyInitialized
	}
	if !s.Exist(registryAddr) {
		s.CreateAccount(registryAddr)
	}
	cfg := &Config{
		Authority: authority,
		MaxHooks:  maxHooks,
		Enabled:   true,
		CreatedAt: s.GetBlockTime(),
	}
	r.writeConfig(s, cfg)
	r.log.Info("hook registry initialized, authority=" + authority.Hex())
	return nil
}

// ApproveHook appends a hook to the allow-list. Capacity counts every slot
// ever used: revoking a hook does not free its slot.
func (r *Service) ApproveHook(
	s contract.StateDB,
	caller common.Address,
	hook common.Address,
	hookType HookType,
	name string,
	description string,
	risk RiskLevel,
) error {
	cfg, err := r.config(s)
	if err != nil {
		return err
	}
	if caller != cfg.Authority {
		return ErrUnauthorized
	}
	if len(name) > MaxNameLen {
		return ErrNameTooLong
	}
	if len(description) > MaxDescriptionLen {
		return ErrDescriptionTooLong
	}
	if _, _, ok := r.find(s, cfg, hook); ok {
		return ErrDuplicateHook
	}
	if cfg.HookCount >= cfg.MaxHooks {
		return ErrRegistryFull
	}

	entry := &ApprovedHook{
		Hook:        hook,
		Type:        hookType,
		Risk:        risk,
		Enabled:     true,
		ApprovedAt:  s.GetBlockTime(),
		Name:        name,
		Description: description,
	}
	r.writeSlot(s, cfg.HookCount, entry)
	cfg.HookCount++
	r.writeConfig(s, cfg)

	r.log.Info("hook approved: " + name + " (" + hook.Hex() + ")")
	return nil
}

// RevokeHook soft-deletes a hook: the entry stays in its slot with Enabled
// off. Idempotent for already-revoked hooks.
func (r *Service) RevokeHook(s contract.StateDB, caller common.Address, hook common.Address) error {
	cfg, err := r.config(s)
	if err != nil {
		return err
	}
	if caller != cfg.Authority {
		return ErrUnauthorized
	}
	i, entry, ok := r.find(s, cfg, hook)
	if !ok {
		return ErrUnknownHook
	}
	if entry.Enabled {
		entry.Enabled = false
		r.writeSlot(s, i, entry)
	}
	r.log.Info("hook revoked: " + hook.Hex())
	return nil
}

// SetEnabled flips the registry kill switch. While the registry is disabled
// IsApproved reports false for every hook, so all hook-gated transfers
// reject.
func (r *Service) SetEnabled(s contract.StateDB, caller common.Address, enabled bool) error {
	cfg, err := r.config(s)
	if err != nil {
		return err
	}
	if caller != cfg.Authority {
		return ErrUnauthorized
	}
	cfg.Enabled = enabled
	r.writeConfig(s, cfg)
	return nil
}

// IsApproved reports whether hook may gate transfers: the entry must exist,
// be enabled, and the registry kill switch must be on. Pure read.
func (r *Service) IsApproved(s contract.StateDB, hook common.Address) bool {
	cfg, err := r.config(s)
	if err != nil || !cfg.Enabled {
		return false
	}
	_, entry, ok := r.find(s, cfg, hook)
	return ok && entry.Enabled
}

// HookInfo returns the registry entry for a hook, enabled or revoked.
func (r *Service) HookInfo(s contract.StateDB, hook common.Address) (*ApprovedHook, error) {
	cfg, err := r.config(s)
	if err != nil {
		return nil, err
	}
	_, entry, ok := r.find(s, cfg, hook)
	if !ok {
		return nil, ErrUnknownHook
	}
	return entry, nil
}

// RecordValidation bumps the consultation counter for a hook. Best effort:
// the pipeline calls this on its audit path and a failure here must never
// fail the caller's operation, so problems are logged and swallowed.
func (r *Service) RecordValidation(s contract.StateDB, hook common.Address) {
	cfg, err := r.config(s)
	if err != nil {
		r.log.Warn("record validation skipped: " + err.Error())
		return
	}
	i, entry, ok := r.find(s, cfg, hook)
	if !ok {
		r.log.Warn("record validation skipped: unknown hook " + hook.Hex())
		return
	}
	entry.ValidationCount++
	r.writeSlot(s, i, entry)
}
