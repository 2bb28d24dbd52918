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

var kycAddr = common.HexToAddress(KYCHookAddress)

const (
	nsKYCSystem = "kyc_system"
	nsKYCRecord = "kyc_record"
)

// KYCSystem is the durable config record of the KYC store.
type KYCSystem struct {
	Authority  common.Address
	TotalUsers uint64
	CreatedAt  uint64
}

func (k *KYCSystem) toBytes() []byte {
	data := make([]byte, 36)
	copy(data[0:20], k.Authority.Bytes())
	binary.BigEndian.PutUint64(data[20:28], k.TotalUsers)
	binary.BigEndian.PutUint64(data[28:36], k.CreatedAt)
	return data
}

func kycSystemFromBytes(data []byte) (*KYCSystem, error) {
	if len(data) < 36 {
		return nil, errors.New("invalid kyc system data length")
	}
	return &KYCSystem{
		Authority:  common.BytesToAddress(data[0:20]),
		TotalUsers: binary.BigEndian.Uint64(data[20:28]),
		CreatedAt:  binary.BigEndian.Uint64(data[28:36]),
	}, nil
}

// KYCRecord is one subject's verification record. Owned and mutated
// exclusively by the KYC store's authority; the pipeline only reads it.
type KYCRecord struct {
	User      common.Address
	Verified  bool
	UpdatedAt uint64
}

func (r *KYCRecord) toBytes() []byte {
	data := make([]byte, 29)
	copy(data[0:20], r.User.Bytes())
	if r.Verified {
		data[20] = 1
	}
	binary.BigEndian.PutUint64(data[21:29], r.UpdatedAt)
	return data
}

func kycRecordFromBytes(data []byte) (*KYCRecord, error) {
	if len(data) < 29 {
		return nil, errors.New("invalid kyc record data length")
	}
	return &KYCRecord{
		User:      common.BytesToAddress(data[0:20]),
		Verified:  data[20] == 1,
		UpdatedAt: binary.BigEndian.Uint64(data[21:29]),
	}, nil
}

// KYCStore owns KYC verification records and exposes the verify contract the
// pipeline consults for KYC-type hooks.
type KYCStore struct {
	log log.Logger
}

// NewKYCStore creates a new KYC store
func NewKYCStore() *KYCStore {
	return &KYCStore{
		log: log.NewTestLogger(log.InfoLevel),
	}
}

func kycSystemKey() common.Hash {
	return contract.Derive(nsKYCSystem)
}

func kycRecordKey(user common.Address) common.Hash {
	return contract.Derive(nsKYCRecord, user.Bytes())
}

func (k *KYCStore) system(s contract.StateDB) (*KYCSystem, error) {
	data, ok := contract.LoadBytes(s, kycAddr, kycSystemKey())
	if !ok {
		return nil, ErrNotInitialized
	}
	return kycSystemFromBytes(data)
}

// Initialize creates the KYC system config. Fails if called twice.
func (k *KYCStore) Initialize(s contract.StateDB, caller common.Address, authority common.Address) error {
	if _, ok := contract.LoadBytes(s, kycAddr, kycSystemKey()); ok {
		return ErrAlreadyInitialized
	}
	sys := &KYCSystem{
		Authority: authority,
		CreatedAt: s.GetBlockTime(),
	}
	contract.StoreBytes(s, kycAddr, kycSystemKey(), sys.toBytes())
	k.log.Info("kyc system initialized, authority=" + authority.Hex())
	return nil
}

// CreateRecord creates a verification record for user.
func (k *KYCStore) CreateRecord(s contract.StateDB, caller common.Address, user common.Address, verified bool) error {
	sys, err := k.system(s)
	if err != nil {
		return err
	}
	if caller != sys.Authority {
		return ErrUnauthorized
	}
	if _, ok := contract.LoadBytes(s, kycAddr, kycRecordKey(user)); ok {
		return ErrRecordExists
	}

	rec := &KYCRecord{User: user, Verified: verified, UpdatedAt: s.GetBlockTime()}
	contract.StoreBytes(s, kycAddr, kycRecordKey(user), rec.toBytes())

	sys.TotalUsers++
	contract.StoreBytes(s, kycAddr, kycSystemKey(), sys.toBytes())
	return nil
}

// UpdateStatus flips the verification flag on an existing record.
func (k *KYCStore) UpdateStatus(s contract.StateDB, caller common.Address, user common.Address, verified bool) error {
	sys, err := k.system(s)
	if err != nil {
		return err
	}
	if caller != sys.Authority {
		return ErrUnauthorized
	}
	data, ok := contract.LoadBytes(s, kycAddr, kycRecordKey(user))
	if !ok {
		return ErrRecordNotFound
	}
	rec, err := kycRecordFromBytes(data)
	if err != nil {
		return err
	}
	rec.Verified = verified
	rec.UpdatedAt = s.GetBlockTime()
	contract.StoreBytes(s, kycAddr, kycRecordKey(user), rec.toBytes())
	return nil
}

// IsVerified reports whether user holds a verified record. Pure read.
func (k *KYCStore) IsVerified(s contract.StateDB, user common.Address) bool {
	data, ok := contract.LoadBytes(s, kycAddr, kycRecordKey(user))
	if !ok {
		return false
	}
	rec, err := kycRecordFromBytes(data)
	return err == nil && rec.Verified
}

// Verify implements the pipeline's verification contract: allow iff a record
// exists and is verified. A missing record is a reject.
func (k *KYCStore) Verify(s contract.StateDB, subject common.Address, direction Direction) error {
	if !k.IsVerified(s, subject) {
		return ErrKycNotVerified
	}
	return nil
}
