// Copyright (C) 2025, HookSwap Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package contract

import (
	"github.com/luxfi/database"
	"github.com/luxfi/geth/common"
)

type storedKey struct {
	addr common.Address
	key  common.Hash
}

// StoredState is a StateDB over a database.Database. Writes accumulate in
// memory and hit the database only on Commit, so a host can run one engine
// call and make it durable atomically, or drop the pending writes with
// Revert.
type StoredState struct {
	db        database.Database
	pending   map[storedKey]common.Hash
	created   map[common.Address]bool
	blockTime uint64
}

var accountMarker = []byte("acct")

// NewStoredState wraps db. The database holds the authoritative state; every
// call re-reads it through here rather than assuming anything survived from a
// previous call.
func NewStoredState(db database.Database) *StoredState {
	return &StoredState{
		db:      db,
		pending: make(map[storedKey]common.Hash),
		created: make(map[common.Address]bool),
	}
}

func dbKey(addr common.Address, key common.Hash) []byte {
	out := make([]byte, 0, len(addr)+len(key))
	out = append(out, addr[:]...)
	out = append(out, key[:]...)
	return out
}

func (s *StoredState) GetState(addr common.Address, key common.Hash) common.Hash {
	if v, ok := s.pending[storedKey{addr, key}]; ok {
		return v
	}
	raw, err := s.db.Get(dbKey(addr, key))
	if err != nil {
		return common.Hash{}
	}
	return common.BytesToHash(raw)
}

func (s *StoredState) SetState(addr common.Address, key common.Hash, value common.Hash) {
	s.pending[storedKey{addr, key}] = value
}

func (s *StoredState) Exist(addr common.Address) bool {
	if s.created[addr] {
		return true
	}
	ok, err := s.db.Has(append(addr.Bytes(), accountMarker...))
	return err == nil && ok
}

func (s *StoredState) CreateAccount(addr common.Address) {
	s.created[addr] = true
}

func (s *StoredState) GetBlockTime() uint64 {
	return s.blockTime
}

// SetBlockTime sets the timestamp the runtime stamps on this call.
func (s *StoredState) SetBlockTime(t uint64) {
	s.blockTime = t
}

// Commit flushes pending writes to the database in one batch.
func (s *StoredState) Commit() error {
	batch := s.db.NewBatch()
	for k, v := range s.pending {
		if err := batch.Put(dbKey(k.addr, k.key), v.Bytes()); err != nil {
			return err
		}
	}
	for addr := range s.created {
		if err := batch.Put(append(addr.Bytes(), accountMarker...), []byte{1}); err != nil {
			return err
		}
	}
	if err := batch.Write(); err != nil {
		return err
	}
	s.pending = make(map[storedKey]common.Hash)
	s.created = make(map[common.Address]bool)
	return nil
}

// Revert drops all pending writes.
func (s *StoredState) Revert() {
	s.pending = make(map[storedKey]common.Hash)
	s.created = make(map[common.Address]bool)
}
