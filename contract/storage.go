// Copyright (C) 2025, HookSwap Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package contract

import (
	"encoding/binary"

	"github.com/luxfi/geth/common"
	"github.com/zeebo/blake3"
)

// Variable-length records are chunked across consecutive derived 32-byte
// slots. The head slot holds a presence flag and the byte length; chunk i
// lives at a key derived from the head key and i.

const maxStoredBytes = 4096

func chunkKey(head common.Hash, i uint32) common.Hash {
	h := blake3.New()
	h.Write(head[:])
	var idx [4]byte
	binary.BigEndian.PutUint32(idx[:], i)
	h.Write(idx[:])
	var key common.Hash
	h.Digest().Read(key[:])
	return key
}

// StoreBytes writes data under head. The previous value is overwritten; stale
// trailing chunks from a longer prior value are left in place and ignored by
// LoadBytes, which trusts the head length.
func StoreBytes(s StateDB, addr common.Address, head common.Hash, data []byte) {
	var meta common.Hash
	meta[0] = 1
	binary.BigEndian.PutUint64(meta[24:32], uint64(len(data)))
	s.SetState(addr, head, meta)

	for i := 0; i*32 < len(data); i++ {
		var chunk common.Hash
		copy(chunk[:], data[i*32:])
		s.SetState(addr, chunkKey(head, uint32(i)), chunk)
	}
}

// LoadBytes reads the value stored under head. The second return is false
// when nothing has been stored there.
func LoadBytes(s StateDB, addr common.Address, head common.Hash) ([]byte, bool) {
	meta := s.GetState(addr, head)
	if meta[0] == 0 {
		return nil, false
	}
	n := binary.BigEndian.Uint64(meta[24:32])
	if n > maxStoredBytes {
		return nil, false
	}
	data := make([]byte, n)
	for i := 0; uint64(i)*32 < n; i++ {
		chunk := s.GetState(addr, chunkKey(head, uint32(i)))
		copy(data[uint64(i)*32:], chunk[:])
	}
	return data, true
}

// DeleteBytes clears the presence flag so LoadBytes reports nothing stored.
// Chunk slots are left behind; they are unreachable without the head.
func DeleteBytes(s StateDB, addr common.Address, head common.Hash) {
	s.SetState(addr, head, common.Hash{})
}

// StoreUint64 writes v into the last 8 bytes of the slot at key.
func StoreUint64(s StateDB, addr common.Address, key common.Hash, v uint64) {
	var slot common.Hash
	binary.BigEndian.PutUint64(slot[24:32], v)
	s.SetState(addr, key, slot)
}

// LoadUint64 reads the value written by StoreUint64; a never-written slot
// reads as zero.
func LoadUint64(s StateDB, addr common.Address, key common.Hash) uint64 {
	slot := s.GetState(addr, key)
	return binary.BigEndian.Uint64(slot[24:32])
}
