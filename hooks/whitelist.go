// Copyright (C) 2025, HookSwap Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package hooks

import (
	"encoding/binary"
	"errors"

	"github.com/luxfi/geth/common"
	log "github.com/luxfi/log"

	"github.com/hookswap/hookswap/contract"
)

var whitelistAddr = common.HexToAddress(WhitelistHookAddress)

const (
	nsWhitelistConfig = "whitelist_config"
	nsWhitelistEntry  = "whitelist_entry"
)

// Permission levels. A level is a bitmask over transfer directions; an entry
// allows a transfer only when the bit for the requested direction is set.
const (
	PermitDeposit  uint8 = 1 << 0
	PermitWithdraw uint8 = 1 << 1
	PermitAll            = PermitDeposit | PermitWithdraw
)

// WhitelistConfig is the durable config record of the whitelist store.
type WhitelistConfig struct {
	Authority    common.Address
	MaxAddresses uint16
	Count        uint16
	CreatedAt    uint64
}

func (w *WhitelistConfig) toBytes() []byte {
	data := make([]byte, 32)
	copy(data[0:20], w.Authority.Bytes())
	binary.BigEndian.PutUint16(data[20:22], w.MaxAddresses)
	binary.BigEndian.PutUint16(data[22:24], w.Count)
	binary.BigEndian.PutUint64(data[24:32], w.CreatedAt)
	return data
}

func whitelistConfigFromBytes(data []byte) (*WhitelistConfig, error) {
	if len(data) < 32 {
		return nil, errors.New("invalid whitelist config data length")
	}
	return &WhitelistConfig{
		Authority:    common.BytesToAddress(data[0:20]),
		MaxAddresses: binary.BigEndian.Uint16(data[20:22]),
		Count:        binary.BigEndian.Uint16(data[22:24]),
		CreatedAt:    binary.BigEndian.Uint64(data[24:32]),
	}, nil
}

// WhitelistEntry is one approved address with its permission level.
type WhitelistEntry struct {
	Level   uint8
	AddedAt uint64
}

func (e *WhitelistEntry) toBytes() []byte {
	data := make([]byte, 9)
	data[0] = e.Level
	binary.BigEndian.PutUint64(data[1:9], e.AddedAt)
	return data
}

func whitelistEntryFromBytes(data []byte) (*WhitelistEntry, error) {
	if len(data) < 9 {
		return nil, errors.New("invalid whitelist entry data length")
	}
	return &WhitelistEntry{
		Level:   data[0],
		AddedAt: binary.BigEndian.Uint64(data[1:9]),
	}, nil
}

// WhitelistStore owns the approved-address list and exposes the verify
// contract the pipeline consults for whitelist-type hooks. Unlike the
// registry's hook list, removal here is a hard delete: the store is owned by
// its validator and nothing caches its entries.
type WhitelistStore struct {
	log log.Logger
}

// NewWhitelistStore creates a new whitelist store
func NewWhitelistStore() *WhitelistStore {
	return &WhitelistStore{
		log: log.NewTestLogger(log.InfoLevel),
	}
}

func whitelistConfigKey() common.Hash {
	return contract.Derive(nsWhitelistConfig)
}

func whitelistEntryKey(addr common.Address) common.Hash {
	return contract.Derive(nsWhitelistEntry, addr.Bytes())
}

func (w *WhitelistStore) config(s contract.StateDB) (*WhitelistConfig, error) {
	data, ok := contract.LoadBytes(s, whitelistAddr, whitelistConfigKey())
	if !ok {
		return nil, ErrNotInitialized
	}
	return whitelistConfigFromBytes(data)
}

// Initialize creates the whitelist config. Fails if called twice.
func (w *WhitelistStore) Initialize(s contract.StateDB, caller common.Address, authority common.Address, maxAddresses uint16) error {
	if _, ok := contract.LoadBytes(s, whitelistAddr, whitelistConfigKey()); ok {
		return ErrAlreadyInitialized
	}
	cfg := &WhitelistConfig{
		Authority:    authority,
		MaxAddresses: maxAddresses,
		CreatedAt:    s.GetBlockTime(),
	}
	contract.StoreBytes(s, whitelistAddr, whitelistConfigKey(), cfg.toBytes())
	w.log.Info("whitelist initialized, authority=" + authority.Hex())
	return nil
}

// Add whitelists an address with the given permission level.
func (w *WhitelistStore) Add(s contract.StateDB, caller common.Address, addr common.Address, level uint8) error {
	cfg, err := w.config(s)
	if err != nil {
		return err
	}
	if caller != cfg.Authority {
		return ErrUnauthorized
	}
	if level == 0 || level&^PermitAll != 0 {
		return ErrInvalidLevel
	}
	if _, ok := contract.LoadBytes(s, whitelistAddr, whitelistEntryKey(addr)); ok {
		return ErrAlreadyWhitelisted
	}
	if cfg.Count >= cfg.MaxAddresses {
		return ErrWhitelistFull
	}

	entry := &WhitelistEntry{Level: level, AddedAt: s.GetBlockTime()}
	contract.StoreBytes(s, whitelistAddr, whitelistEntryKey(addr), entry.toBytes())

	cfg.Count++
	contract.StoreBytes(s, whitelistAddr, whitelistConfigKey(), cfg.toBytes())
	return nil
}

// Remove deletes an address from the whitelist.
func (w *WhitelistStore) Remove(s contract.StateDB, caller common.Address, addr common.Address) error {
	cfg, err := w.config(s)
	if err != nil {
		return err
	}
	if caller != cfg.Authority {
		return ErrUnauthorized
	}
	if _, ok := contract.LoadBytes(s, whitelistAddr, whitelistEntryKey(addr)); !ok {
		return ErrRecordNotFound
	}
	contract.DeleteBytes(s, whitelistAddr, whitelistEntryKey(addr))

	cfg.Count--
	contract.StoreBytes(s, whitelistAddr, whitelistConfigKey(), cfg.toBytes())
	return nil
}

// IsWhitelisted reports whether addr holds any whitelist entry. Pure read.
func (w *WhitelistStore) IsWhitelisted(s contract.StateDB, addr common.Address) bool {
	_, ok := contract.LoadBytes(s, whitelistAddr, whitelistEntryKey(addr))
	return ok
}

// LevelOf returns the permission level of a whitelisted address.
func (w *WhitelistStore) LevelOf(s contract.StateDB, addr common.Address) (uint8, bool) {
	data, ok := contract.LoadBytes(s, whitelistAddr, whitelistEntryKey(addr))
	if !ok {
		return 0, false
	}
	entry, err := whitelistEntryFromBytes(data)
	if err != nil {
		return 0, false
	}
	return entry.Level, true
}

// Verify implements the pipeline's verification contract: allow iff the
// subject is whitelisted with a level covering the requested direction.
func (w *WhitelistStore) Verify(s contract.StateDB, subject common.Address, direction Direction) error {
	level, ok := w.LevelOf(s, subject)
	if !ok {
		return ErrNotWhitelisted
	}
	var need uint8
	switch direction {
	case DirectionDeposit:
		need = PermitDeposit
	case DirectionWithdraw:
		need = PermitWithdraw
	default:
		return ErrNotWhitelisted
	}
	if level&need == 0 {
		return ErrNotWhitelisted
	}
	return nil
}
