package field

import (
	"bytes"
	"crypto/rand"
	"math/big"
	"testing"
)

func TestMinEncodedSize(t *testing.T) {
	if MinEncodedSize(big.NewInt(0)) != 0 {
		t.Fatal("zero must encode to zero bytes")
	}
	if MinEncodedSize(big.NewInt(0xff)) != 1 {
		t.Fatal("0xff is one byte")
	}
	if MinEncodedSize(big.NewInt(0x100)) != 2 {
		t.Fatal("0x100 is two bytes")
	}
}

func TestEncodeDecode(t *testing.T) {
	x := big.NewInt(0x1234)

	enc := Encode(x, 4)
	if !bytes.Equal(enc, []byte{0, 0, 0x12, 0x34}) {
		t.Fatalf("encoding wrong: %x", enc)
	}
	if Decode(enc).Cmp(x) != 0 {
		t.Fatal("decode did not round trip")
	}

	// zero element round trips through an empty encoding
	zero := Encode(big.NewInt(0), 0)
	if len(zero) != 0 {
		t.Fatalf("zero encoding should be empty, got %x", zero)
	}
	if Decode(zero).Sign() != 0 {
		t.Fatal("empty bytes should decode to zero")
	}
}

func TestModularOps(t *testing.T) {
	p := big.NewInt(97)
	z := new(big.Int)

	AddMod(z, big.NewInt(90), big.NewInt(10), p)
	if z.Int64() != 3 {
		t.Fatalf("90+10 mod 97 = %d", z.Int64())
	}

	MulMod(z, big.NewInt(12), big.NewInt(9), p)
	if z.Int64() != 11 {
		t.Fatalf("12*9 mod 97 = %d", z.Int64())
	}
}

func TestEqual(t *testing.T) {
	p := big.NewInt(101)
	if !Equal(big.NewInt(13), big.NewInt(13), p) {
		t.Fatal("equal elements reported unequal")
	}
	if Equal(big.NewInt(13), big.NewInt(14), p) {
		t.Fatal("unequal elements reported equal")
	}
}

func TestRandPrime(t *testing.T) {
	p, err := RandPrime(rand.Reader, 128)
	if err != nil {
		t.Fatal(err)
	}
	if p.BitLen() != 128 {
		t.Fatalf("prime has %d bits, want 128", p.BitLen())
	}
	if !p.ProbablyPrime(20) {
		t.Fatal("not prime")
	}

	if _, err := RandPrime(rand.Reader, 1); err == nil {
		t.Fatal("expected error for tiny prime size")
	}
}
