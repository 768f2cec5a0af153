package swpriv

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"io"
	"math/big"

	hlacommon "github.com/F483/heartbeat/lib/crypto/hla/common"
	"github.com/F483/heartbeat/lib/crypto/aes"
	"github.com/F483/heartbeat/lib/crypto/prf"
	"github.com/F483/heartbeat/lib/utils"
)

// State is the verifier's per-file secret: the chunk count and the two
// PRFs supplying chunk masks and sector coefficients. It is either open
// (PRFs populated, never serialized) or sealed (an opaque
// encrypt-then-MAC buffer that the server stores without being able to
// read or forge it).
type State struct {
	codec
	n      uint32
	f      *prf.PRF
	alpha  *prf.PRF
	sealed []byte
}

var _ hlacommon.Artifact = (*State)(nil)

// NewState builds an open state from raw PRF keys. Encode produces
// states internally; this constructor serves boundaries that drive
// sealing themselves.
func NewState(n uint32, maskKey, coeffKey []byte) *State {
	return &State{
		n:     n,
		f:     prf.New(maskKey, nil),
		alpha: prf.New(coeffKey, nil),
	}
}

func (s *State) IsSealed() bool {
	return s.sealed != nil
}

// N returns the chunk count. Valid on open states and on sealed states
// that were produced locally or peeked.
func (s *State) N() uint32 {
	return s.n
}

// KeySize returns the width the sealing keys must have.
func (s *State) KeySize() int {
	return hlacommon.KeySize
}

// Serialize emits the sealed buffer. Open states hold live key material
// and refuse.
func (s *State) Serialize() ([]byte, error) {
	if !s.IsSealed() {
		return nil, hlacommon.ErrStateNotSealed
	}
	out := make([]byte, len(s.sealed))
	copy(out, s.sealed)
	return out, nil
}

// Deserialize accepts a sealed buffer. The framing is checked for
// shape; authenticity is only established later when the holder of the
// MAC key opens it.
func (s *State) Deserialize(data []byte) error {
	r := newFrameReader(data)

	sig, err := r.bytesField()
	if err != nil {
		return err
	}
	if _, err := r.bytesField(); err != nil { // mac
		return err
	}
	if r.remaining() != 0 {
		return hlacommon.ErrTruncated
	}

	// surface n the way public_header peeking does
	sr := newFrameReader(sig)
	n, err := sr.u32()
	if err != nil {
		return err
	}

	s.n = n
	s.f = nil
	s.alpha = nil
	s.sealed = make([]byte, len(data))
	copy(s.sealed, data)
	return nil
}

func (s *State) GetState() ([]byte, error) {
	return hlacommon.MarshalState(s)
}

func (s *State) SetState(state []byte) error {
	return hlacommon.UnmarshalState(s, state)
}

// Encrypt seals the state under the engine's encryption and MAC keys.
// The convergent flag is reserved; it is accepted and has no effect.
func (s *State) Encrypt(kEnc, kMac []byte, convergent bool) error {
	_ = convergent
	return s.sealWith(rand.Reader, kEnc, kMac)
}

func (s *State) sealWith(rnd io.Reader, kEnc, kMac []byte) error {
	if len(kEnc) != hlacommon.KeySize || len(kMac) != hlacommon.KeySize {
		return hlacommon.ErrInvalidKeyLength
	}
	if s.IsSealed() {
		return nil
	}
	if s.f == nil || s.alpha == nil {
		return hlacommon.ErrInvalidSettings
	}

	iv, err := aes.NewIV(rnd)
	if err != nil {
		return err
	}

	// enc_body = AES-CFB(kf frame || ka frame)
	pw := new(frameWriter)
	pw.putBytes(s.f.Key())
	pw.putBytes(s.alpha.Key())
	encBody, err := aes.CfbEncrypt(pw.bytes(), kEnc, iv)
	if err != nil {
		return err
	}
	utils.Wipe(pw.bytes())

	// sig_body = n || iv frame || enc frame, authenticated as one unit
	sw := new(frameWriter)
	sw.putU32(s.n)
	sw.putBytes(iv)
	sw.putBytes(encBody)
	sigBody := sw.bytes()

	mac := hmac.New(sha256.New, kMac)
	mac.Write(sigBody)

	w := new(frameWriter)
	w.putBytes(sigBody)
	w.putBytes(mac.Sum(nil))

	s.f.Wipe()
	s.alpha.Wipe()
	s.f = nil
	s.alpha = nil
	s.sealed = w.bytes()
	return nil
}

// Decrypt verifies the seal and opens the state in place. On any
// failure the state is left untouched. Keys that are not 32 bytes give
// ErrInvalidKeyLength, an open state gives ErrStateNotSealed, and a
// seal that fails to parse, authenticate or decrypt gives
// ErrSealedStateAuth. PRF limits are not part of the envelope; the
// engine binds them before use.
func (s *State) Decrypt(kEnc, kMac []byte) error {
	open, err := s.open(kEnc, kMac)
	if err != nil {
		return err
	}
	*s = *open
	return nil
}

// open produces a fresh open state from a sealed one, leaving s as is.
func (s *State) open(kEnc, kMac []byte) (*State, error) {
	if len(kEnc) != hlacommon.KeySize || len(kMac) != hlacommon.KeySize {
		return nil, hlacommon.ErrInvalidKeyLength
	}
	if !s.IsSealed() {
		return nil, hlacommon.ErrStateNotSealed
	}

	r := newFrameReader(s.sealed)
	sigBody, err := r.bytesField()
	if err != nil {
		return nil, hlacommon.ErrSealedStateAuth
	}
	macGot, err := r.bytesField()
	if err != nil {
		return nil, hlacommon.ErrSealedStateAuth
	}

	mac := hmac.New(sha256.New, kMac)
	mac.Write(sigBody)
	if len(macGot) != mac.Size() || !hmac.Equal(mac.Sum(nil), macGot) {
		return nil, hlacommon.ErrSealedStateAuth
	}

	sr := newFrameReader(sigBody)
	n, err := sr.u32()
	if err != nil {
		return nil, hlacommon.ErrSealedStateAuth
	}
	iv, err := sr.bytesField()
	if err != nil || len(iv) != aes.BlockSize {
		return nil, hlacommon.ErrSealedStateAuth
	}
	encBody, err := sr.bytesField()
	if err != nil {
		return nil, hlacommon.ErrSealedStateAuth
	}

	plain, err := aes.CfbDecrypt(encBody, kEnc, iv)
	if err != nil {
		return nil, hlacommon.ErrSealedStateAuth
	}

	pr := newFrameReader(plain)
	kf, err := pr.bytesField()
	if err != nil {
		return nil, hlacommon.ErrSealedStateAuth
	}
	ka, err := pr.bytesField()
	if err != nil {
		return nil, hlacommon.ErrSealedStateAuth
	}

	open := &State{
		codec: s.codec,
		n:     n,
		f:     prf.New(kf, nil),
		alpha: prf.New(ka, nil),
	}
	utils.Wipe(plain)
	return open, nil
}

// PublicHeader reads the chunk count straight out of a sealed buffer
// without checking the MAC. The value is unauthenticated; it must never
// feed a security decision.
func (s *State) PublicHeader() (uint32, error) {
	if !s.IsSealed() {
		return 0, hlacommon.ErrStateNotSealed
	}

	r := newFrameReader(s.sealed)
	if _, err := r.u32(); err != nil { // sig_len
		return 0, err
	}
	return r.u32()
}

// bindLimits points the PRFs at the engine's field.
func (s *State) bindLimits(p *big.Int) {
	s.f.SetLimit(p)
	s.alpha.SetLimit(p)
}

// wipe clears the open key material.
func (s *State) wipe() {
	if s.f != nil {
		s.f.Wipe()
	}
	if s.alpha != nil {
		s.alpha.Wipe()
	}
}
