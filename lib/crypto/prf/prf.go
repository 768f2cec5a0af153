// Package prf implements the keyed pseudorandom function used for mask,
// coefficient and index streams. An instance maps a 32-bit position to a
// field element below its limit; values are derived lazily, never stored.
package prf

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"math/big"

	"github.com/F483/heartbeat/lib/crypto/field"
	"github.com/F483/heartbeat/lib/utils"
)

// overshoot widens the pre-reduction integer beyond the limit width so
// the modular bias is negligible.
const overshoot = 8

type PRF struct {
	key   []byte
	limit *big.Int
}

func New(key []byte, limit *big.Int) *PRF {
	k := make([]byte, len(key))
	copy(k, key)
	return &PRF{key: k, limit: limit}
}

func (f *PRF) Key() []byte {
	return f.key
}

func (f *PRF) Limit() *big.Int {
	return f.limit
}

// SetLimit rebinds the output range. The limit does not travel with the
// key on every wire form, so receivers bind it before evaluation.
func (f *PRF) SetLimit(limit *big.Int) {
	f.limit = limit
}

// Eval returns the element at position i, in [0, limit).
//
// The stream is HMAC-SHA256(key, be32(i) || be32(block)) for block =
// 0, 1, ..., concatenated until the output covers the encoded width of
// the limit plus overshoot, then reduced modulo the limit.
func (f *PRF) Eval(i uint32) *big.Int {
	need := field.MinEncodedSize(f.limit) + overshoot

	var msg [8]byte
	binary.BigEndian.PutUint32(msg[:4], i)

	out := make([]byte, 0, ((need+sha256.Size-1)/sha256.Size)*sha256.Size)
	for block := uint32(0); len(out) < need; block++ {
		binary.BigEndian.PutUint32(msg[4:], block)
		mac := hmac.New(sha256.New, f.key)
		mac.Write(msg[:])
		out = mac.Sum(out)
	}

	x := field.Decode(out[:need])
	return x.Mod(x, f.limit)
}

// Wipe clears the key material.
func (f *PRF) Wipe() {
	utils.Wipe(f.key)
}
