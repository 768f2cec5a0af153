// Package field provides arithmetic over a prime field together with the
// minimum-byte big-endian integer encoding shared by every wire artifact.
package field

import (
	"crypto/rand"
	"crypto/subtle"
	"io"
	"math/big"

	"golang.org/x/xerrors"

	"github.com/F483/heartbeat/lib/utils"
)

// AddMod sets z = (x + y) mod m.
func AddMod(z, x, y, m *big.Int) {
	z.Add(x, y)
	z.Mod(z, m)
}

// MulMod sets z = (x * y) mod m.
func MulMod(z, x, y, m *big.Int) {
	z.Mul(x, y)
	z.Mod(z, m)
}

// MinEncodedSize returns the fewest big-endian bytes that represent x
// without a leading zero. Zero encodes to zero bytes.
func MinEncodedSize(x *big.Int) int {
	return (x.BitLen() + 7) / 8
}

// Encode emits exactly n big-endian bytes of x, left padded with zeros.
// Callers pass n >= MinEncodedSize(x); high bytes beyond n are dropped
// the way a fixed-width register write would drop them.
func Encode(x *big.Int, n int) []byte {
	b := x.Bytes()
	if len(b) > n {
		return b[len(b)-n:]
	}
	return utils.LeftPadBytes(b, n)
}

// Decode interprets b as an unsigned big-endian integer.
func Decode(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}

// Equal compares two field elements in constant time relative to the
// encoded width of m.
func Equal(x, y, m *big.Int) bool {
	n := MinEncodedSize(m)
	return subtle.ConstantTimeCompare(Encode(x, n), Encode(y, n)) == 1
}

// RandPrime draws a random prime of exactly bits bits from r.
func RandPrime(r io.Reader, bits int) (*big.Int, error) {
	if bits < 2 {
		return nil, xerrors.Errorf("prime size %d bits is too small", bits)
	}
	p, err := rand.Prime(r, bits)
	if err != nil {
		return nil, xerrors.Errorf("drawing prime: %w", err)
	}
	return p, nil
}
