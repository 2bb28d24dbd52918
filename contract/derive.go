// Copyright (C) 2025, HookSwap Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package contract

import (
	"encoding/binary"

	"github.com/luxfi/geth/common"
	"github.com/zeebo/blake3"
)

// Derive computes the storage address for a record from a fixed namespace
// string and its identifying fields. Any caller can recompute it without a
// lookup service; the same (namespace, fields) always yields the same key.
func Derive(namespace string, fields ...[]byte) common.Hash {
	h := blake3.New()
	h.Write([]byte(namespace))
	for _, f := range fields {
		h.Write(f)
	}
	var key common.Hash
	h.Digest().Read(key[:])
	return key
}

// DeriveIndexed derives the storage address for the i-th slot of a bounded,
// index-aligned list.
func DeriveIndexed(namespace string, index uint16, fields ...[]byte) common.Hash {
	var idx [2]byte
	binary.BigEndian.PutUint16(idx[:], index)
	all := make([][]byte, 0, len(fields)+1)
	all = append(all, idx[:])
	all = append(all, fields...)
	return Derive(namespace, all...)
}
