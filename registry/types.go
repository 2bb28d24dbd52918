// Copyright (C) 2025, HookSwap Labs. All rights reserved.
// See the file LICENSE for licensing terms.

// Package registry implements the hook registry: the authoritative allow-list
// of transfer-hook validator identities. A hook that is not approved here can
// never gate a successful transfer, and revoking a hook immediately rejects
// all future transfers on mints still bound to it.
package registry

import (
	"encoding/binary"
	"errors"

	"github.com/luxfi/geth/common"
)

// HookRegistryAddress is the engine address of the registry contract.
const HookRegistryAddress = "0x0000000000000000000000000000000000007002"

// HookType identifies which compliance contract a hook dispatches to.
type HookType uint8

const (
	HookTypeKYC HookType = iota
	HookTypeWhitelist
	HookTypeCustom
)

func (ht HookType) String() string {
	switch ht {
	case HookTypeKYC:
		return "kyc"
	case HookTypeWhitelist:
		return "whitelist"
	case HookTypeCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// RiskLevel is audit metadata carried on an approved hook.
type RiskLevel uint8

const (
	RiskLow RiskLevel = iota
	RiskMedium
	RiskHigh
)

// Metadata bounds, enforced at approval
const (
	MaxNameLen        = 50
	MaxDescriptionLen = 200
)

// Registry errors
var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrAlreadyInitialized = errors.New("registry already initialized")
	ErrNotInitialized     = errors.New("registry not initialized")
	ErrRegistryFull       = errors.New("registry at maximum capacity")
	ErrDuplicateHook      = errors.New("hook already approved")
	ErrUnknownHook        = errors.New("hook not found")
	ErrNameTooLong        = errors.New("hook name too long")
	ErrDescriptionTooLong = errors.New("hook description too long")
)

// Config is the durable registry configuration record. There is exactly one
// per registry; the authority holds exclusive write rights over the hook list.
type Config struct {
	Authority common.Address
	MaxHooks  uint16
	Enabled   bool
	HookCount uint16
	CreatedAt uint64
}

// ToBytes serializes the config for storage
func (c *Config) ToBytes() []byte {
	data := make([]byte, 33)
	copy(data[0:20], c.Authority.Bytes())
	binary.BigEndian.PutUint16(data[20:22], c.MaxHooks)
	if c.Enabled {
		data[22] = 1
	}
	binary.BigEndian.PutUint16(data[23:25], c.HookCount)
	binary.BigEndian.PutUint64(data[25:33], c.CreatedAt)
	return data
}

// ConfigFromBytes deserializes a config from storage
func ConfigFromBytes(data []byte) (*Config, error) {
	if len(data) < 33 {
		return nil, errors.New("invalid registry config data length")
	}
	return &Config{
		Authority: common.BytesToAddress(data[0:20]),
		MaxHooks:  binary.BigEndian.Uint16(data[20:22]),
		Enabled:   data[22] == 1,
		HookCount: binary.BigEndian.Uint16(data[23:25]),
		CreatedAt: binary.BigEndian.Uint64(data[25:33]),
	}, nil
}

// ApprovedHook is one entry in the bounded hook list. Entries are
// index-aligned and never physically removed: revocation flips Enabled off so
// audit trails and in-flight verdict caches keep stable slots.
type ApprovedHook struct {
	Hook            common.Address
	Type            HookType
	Risk            RiskLevel
	Enabled         bool
	ValidationCount uint64
	ApprovedAt      uint64
	Name            string
	Description     string
}

// ToBytes serializes the entry for storage
func (h *ApprovedHook) ToBytes() []byte {
	data := make([]byte, 0, 41+len(h.Name)+len(h.Description))
	data = append(data, h.Hook.Bytes()...)
	data = append(data, byte(h.Type), byte(h.Risk))
	if h.Enabled {
		data = append(data, 1)
	} else {
		data = append(data, 0)
	}

	var u64 [8]byte
	binary.BigEndian.PutUint64(u64[:], h.ValidationCount)
	data = append(data, u64[:]...)
	binary.BigEndian.PutUint64(u64[:], h.ApprovedAt)
	data = append(data, u64[:]...)

	data = append(data, byte(len(h.Name)))
	data = append(data, h.Name...)
	data = append(data, byte(len(h.Description)))
	data = append(data, h.Description...)
	return data
}

// ApprovedHookFromBytes deserializes an entry from storage
func ApprovedHookFromBytes(data []byte) (*ApprovedHook, error) {
	if len(data) < 41 {
		return nil, errors.New("invalid approved hook data length")
	}
	h := &ApprovedHook{}
	h.Hook = common.BytesToAddress(data[0:20])
	h.Type = HookType(data[20])
	h.Risk = RiskLevel(data[21])
	h.Enabled = data[22] == 1
	h.ValidationCount = binary.BigEndian.Uint64(data[23:31])
	h.ApprovedAt = binary.BigEndian.Uint64(data[31:39])

	rest := data[39:]
	nameLen := int(rest[0])
	if len(rest) < 1+nameLen+1 {
		return nil, errors.New("invalid approved hook data length")
	}
	h.Name = string(rest[1 : 1+nameLen])
	rest = rest[1+nameLen:]
	descLen := int(rest[0])
	if len(rest) < 1+descLen {
		return nil, errors.New("invalid approved hook data length")
	}
	h.Description = string(rest[1 : 1+descLen])
	return h, nil
}
