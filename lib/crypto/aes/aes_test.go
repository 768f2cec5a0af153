package aes

import (
	"bytes"
	"crypto/rand"
	"testing"
)

func TestCfbRoundTrip(t *testing.T) {
	key := make([]byte, KeySize)
	rand.Read(key)

	iv, err := NewIV(nil)
	if err != nil {
		t.Fatal(err)
	}

	// stream mode: arbitrary lengths, including short and empty
	for _, n := range []int{0, 1, 15, 16, 17, 100} {
		msg := make([]byte, n)
		rand.Read(msg)

		ct, err := CfbEncrypt(msg, key, iv)
		if err != nil {
			t.Fatal(err)
		}
		if n > 0 && bytes.Equal(ct, msg) {
			t.Fatal("ciphertext equals plaintext")
		}

		pt, err := CfbDecrypt(ct, key, iv)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(pt, msg) {
			t.Fatalf("round trip failed for length %d", n)
		}
	}
}

func TestCfbKeySize(t *testing.T) {
	iv, _ := NewIV(nil)
	if _, err := CfbEncrypt([]byte("data"), make([]byte, 16), iv); err == nil {
		t.Fatal("short key accepted")
	}
	if _, err := CfbDecrypt([]byte("data"), make([]byte, 33), iv); err == nil {
		t.Fatal("long key accepted")
	}
	if _, err := CfbEncrypt([]byte("data"), make([]byte, KeySize), []byte{1}); err == nil {
		t.Fatal("short iv accepted")
	}
}

func TestCfbWrongKey(t *testing.T) {
	key := make([]byte, KeySize)
	rand.Read(key)
	iv, _ := NewIV(nil)

	msg := []byte("sector coefficients travel encrypted")
	ct, err := CfbEncrypt(msg, key, iv)
	if err != nil {
		t.Fatal(err)
	}

	other := make([]byte, KeySize)
	rand.Read(other)
	pt, err := CfbDecrypt(ct, other, iv)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(pt, msg) {
		t.Fatal("wrong key produced original plaintext")
	}
}
