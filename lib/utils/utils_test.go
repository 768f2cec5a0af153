package utils

import (
	"bytes"
	"testing"
)

func TestLeftPadBytes(t *testing.T) {
	got := LeftPadBytes([]byte{0x12, 0x34}, 4)
	if !bytes.Equal(got, []byte{0, 0, 0x12, 0x34}) {
		t.Fatalf("pad wrong: %x", got)
	}

	src := []byte{1, 2, 3}
	if !bytes.Equal(LeftPadBytes(src, 2), src) {
		t.Fatal("short pad should return input")
	}
}

func TestUintToBytes(t *testing.T) {
	if !bytes.Equal(UintToBytes(uint32(0x01020304)), []byte{1, 2, 3, 4}) {
		t.Fatal("uint32 encoding wrong")
	}
	if UintToBytes(int(5)) != nil {
		t.Fatal("unsupported type should yield nil")
	}
}

func TestWipe(t *testing.T) {
	b := []byte{1, 2, 3}
	Wipe(b)
	if !bytes.Equal(b, []byte{0, 0, 0}) {
		t.Fatal("wipe left residue")
	}
}
