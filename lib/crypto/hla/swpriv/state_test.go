package swpriv

import (
	"bytes"
	"crypto/rand"
	"testing"

	"golang.org/x/xerrors"

	hlacommon "github.com/F483/heartbeat/lib/crypto/hla/common"
)

func randKey(t *testing.T) []byte {
	t.Helper()
	k := make([]byte, hlacommon.KeySize)
	if _, err := rand.Read(k); err != nil {
		t.Fatal(err)
	}
	return k
}

func TestSealOpen(t *testing.T) {
	kEnc := randKey(t)
	kMac := randKey(t)
	kf := randKey(t)
	ka := randKey(t)

	s := NewState(7, kf, ka)
	if s.IsSealed() {
		t.Fatal("fresh state reports sealed")
	}
	if err := s.Encrypt(kEnc, kMac, false); err != nil {
		t.Fatal(err)
	}
	if !s.IsSealed() {
		t.Fatal("encrypt left state open")
	}

	if err := s.Decrypt(kEnc, kMac); err != nil {
		t.Fatal(err)
	}
	if s.IsSealed() {
		t.Fatal("decrypt left state sealed")
	}
	if s.N() != 7 {
		t.Fatalf("n = %d after open, want 7", s.N())
	}
	if !bytes.Equal(s.f.Key(), kf) || !bytes.Equal(s.alpha.Key(), ka) {
		t.Fatal("PRF keys did not survive the envelope")
	}
}

func TestSealNondeterministic(t *testing.T) {
	kEnc := randKey(t)
	kMac := randKey(t)
	kf := randKey(t)
	ka := randKey(t)

	a := NewState(3, kf, ka)
	b := NewState(3, kf, ka)
	if err := a.Encrypt(kEnc, kMac, false); err != nil {
		t.Fatal(err)
	}
	if err := b.Encrypt(kEnc, kMac, false); err != nil {
		t.Fatal(err)
	}

	ab, _ := a.Serialize()
	bb, _ := b.Serialize()
	if bytes.Equal(ab, bb) {
		t.Fatal("two seals of the same state share an IV")
	}
}

func TestOpenWrongKeys(t *testing.T) {
	kEnc := randKey(t)
	kMac := randKey(t)

	s := NewState(1, randKey(t), randKey(t))
	if err := s.Encrypt(kEnc, kMac, false); err != nil {
		t.Fatal(err)
	}

	wrongMac := make([]byte, hlacommon.KeySize)
	copy(wrongMac, kMac)
	wrongMac[0] ^= 1
	if err := s.Decrypt(kEnc, wrongMac); !xerrors.Is(err, hlacommon.ErrSealedStateAuth) {
		t.Fatalf("wrong mac key: %v", err)
	}
	if !s.IsSealed() {
		t.Fatal("failed open mutated the state")
	}

	// a wrong encryption key passes the MAC (it covers ciphertext)
	// but decrypts the key framing to garbage, which fails closed
	wrongEnc := make([]byte, hlacommon.KeySize)
	copy(wrongEnc, kEnc)
	wrongEnc[0] ^= 1
	if err := s.Decrypt(wrongEnc, kMac); !xerrors.Is(err, hlacommon.ErrSealedStateAuth) {
		t.Fatalf("wrong enc key: %v", err)
	}
	if !s.IsSealed() {
		t.Fatal("failed open mutated the state")
	}
}

func TestInvalidKeyLength(t *testing.T) {
	s := NewState(1, randKey(t), randKey(t))

	if err := s.Encrypt(make([]byte, 16), randKey(t), false); !xerrors.Is(err, hlacommon.ErrInvalidKeyLength) {
		t.Fatalf("short enc key: %v", err)
	}
	if err := s.Encrypt(randKey(t), make([]byte, 33), false); !xerrors.Is(err, hlacommon.ErrInvalidKeyLength) {
		t.Fatalf("long mac key: %v", err)
	}

	if err := s.Encrypt(randKey(t), randKey(t), false); err != nil {
		t.Fatal(err)
	}
	if err := s.Decrypt(make([]byte, 1), randKey(t)); !xerrors.Is(err, hlacommon.ErrInvalidKeyLength) {
		t.Fatalf("short decrypt key: %v", err)
	}
}

func TestSerializeRequiresSealed(t *testing.T) {
	s := NewState(1, randKey(t), randKey(t))
	if _, err := s.Serialize(); !xerrors.Is(err, hlacommon.ErrStateNotSealed) {
		t.Fatalf("got %v", err)
	}
	if _, err := s.GetState(); !xerrors.Is(err, hlacommon.ErrStateNotSealed) {
		t.Fatalf("got %v", err)
	}
}

func TestKeySize(t *testing.T) {
	s := new(State)
	if s.KeySize() != 32 {
		t.Fatalf("key size %d, want 32", s.KeySize())
	}
}

func TestPublicHeaderPeek(t *testing.T) {
	s := NewState(1234, randKey(t), randKey(t))
	if err := s.Encrypt(randKey(t), randKey(t), false); err != nil {
		t.Fatal(err)
	}

	n, err := s.PublicHeader()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1234 {
		t.Fatalf("peeked n = %d, want 1234", n)
	}

	// peeking never needs keys, and never authenticates
	raw, _ := s.Serialize()
	raw[len(raw)-1] ^= 0xff
	sDes := new(State)
	if err := sDes.Deserialize(raw); err != nil {
		t.Fatal(err)
	}
	n, err = sDes.PublicHeader()
	if err != nil || n != 1234 {
		t.Fatalf("peek after mac tamper: n=%d err=%v", n, err)
	}
}

func TestConvergentFlagReserved(t *testing.T) {
	kEnc := randKey(t)
	kMac := randKey(t)

	s := NewState(2, randKey(t), randKey(t))
	if err := s.Encrypt(kEnc, kMac, true); err != nil {
		t.Fatal(err)
	}
	if err := s.Decrypt(kEnc, kMac); err != nil {
		t.Fatal(err)
	}
}

func TestStateBase64Mode(t *testing.T) {
	s := NewState(5, randKey(t), randKey(t))
	if err := s.Encrypt(randKey(t), randKey(t), false); err != nil {
		t.Fatal(err)
	}

	raw, err := s.Serialize()
	if err != nil {
		t.Fatal(err)
	}

	s.SetEncoding(hlacommon.Base64)
	wrapped, err := s.GetState()
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(wrapped, raw) {
		t.Fatal("base64 state equals binary state")
	}

	sDes := new(State)
	sDes.SetEncoding(hlacommon.Base64)
	if err := sDes.SetState(wrapped); err != nil {
		t.Fatal(err)
	}
	back, err := sDes.Serialize()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(back, raw) {
		t.Fatal("base64 wrapper altered the underlying bytes")
	}
}
