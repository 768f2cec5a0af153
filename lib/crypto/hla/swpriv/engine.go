// Package swpriv implements the Shacham–Waters private-verifier proof
// of storage scheme. The client tags a file with per-chunk homomorphic
// linear authenticators, keeps a short sealed state, and later verifies
// compact proofs that the server still holds every sector.
package swpriv

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/mr-tron/base58/base58"
	"github.com/zeebo/blake3"
	"golang.org/x/xerrors"

	hlacommon "github.com/F483/heartbeat/lib/crypto/hla/common"
	"github.com/F483/heartbeat/lib/crypto/field"
	"github.com/F483/heartbeat/lib/crypto/prf"
	"github.com/F483/heartbeat/lib/log"
	"github.com/F483/heartbeat/lib/segment"
)

var logger = log.Logger("swpriv")

const (
	// DefaultPrimeBytes gives a 128-bit field.
	DefaultPrimeBytes = 16
	// DefaultSectors trades tag size against proof size.
	DefaultSectors = 10
)

// Engine carries the scheme parameters and, on the client side, the
// state sealing keys. The public view drops the keys; it can prove but
// neither challenge nor verify.
type Engine struct {
	codec
	kEnc       []byte
	kMac       []byte
	p          *big.Int
	sectors    uint32
	sectorSize uint32
	rnd        io.Reader
}

var _ hlacommon.Artifact = (*Engine)(nil)

// NewEngine generates a secret engine: fresh sealing keys and a random
// prime of the requested byte width.
func NewEngine(primeBytes, sectorsPerChunk int) (*Engine, error) {
	return NewEngineRand(rand.Reader, primeBytes, sectorsPerChunk)
}

// NewEngineRand is NewEngine drawing all randomness from rnd. A fixed
// rnd yields a reproducible engine and reproducible tags.
func NewEngineRand(rnd io.Reader, primeBytes, sectorsPerChunk int) (*Engine, error) {
	// the sector width is primeBytes/8; below 8 bytes of prime there is
	// no room for even a single sector byte
	if primeBytes < 8 || sectorsPerChunk < 1 {
		return nil, hlacommon.ErrInvalidSettings
	}

	kEnc := make([]byte, hlacommon.KeySize)
	if _, err := io.ReadFull(rnd, kEnc); err != nil {
		return nil, xerrors.Errorf("drawing encryption key: %w", err)
	}
	kMac := make([]byte, hlacommon.KeySize)
	if _, err := io.ReadFull(rnd, kMac); err != nil {
		return nil, xerrors.Errorf("drawing mac key: %w", err)
	}

	p, err := field.RandPrime(rnd, primeBytes*8)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		kEnc:    kEnc,
		kMac:    kMac,
		p:       p,
		sectors: uint32(sectorsPerChunk),
		// a sector stays strictly below the prime, otherwise a
		// malicious server could store reduced sectors
		sectorSize: uint32(field.MinEncodedSize(p) / 8),
		rnd:        rnd,
	}

	logger.Debugw("engine generated", "prime_bits", p.BitLen(), "sectors", e.sectors, "sector_size", e.sectorSize)
	return e, nil
}

// Public returns the engine with the sealing keys stripped. Safe to
// hand to the server; Prove works, GenChallenge and Verify do not.
func (e *Engine) Public() *Engine {
	return &Engine{
		codec:      e.codec,
		p:          new(big.Int).Set(e.p),
		sectors:    e.sectors,
		sectorSize: e.sectorSize,
		rnd:        e.rnd,
	}
}

func (e *Engine) secret() bool {
	return e.kEnc != nil && e.kMac != nil
}

func (e *Engine) Prime() *big.Int {
	return e.p
}

func (e *Engine) Sectors() uint32 {
	return e.sectors
}

func (e *Engine) SectorSize() uint32 {
	return e.sectorSize
}

func (e *Engine) randomness() io.Reader {
	if e.rnd != nil {
		return e.rnd
	}
	return rand.Reader
}

// Encode tags every chunk of the file and seals the verifier state:
//
//	sigma_i = f(i) + sum_j alpha(j) * sector(i,j)  (mod p)
func (e *Engine) Encode(file io.ReadSeeker) (*Tag, *State, error) {
	if !e.secret() {
		return nil, nil, hlacommon.ErrMissingSecrets
	}

	view, err := segment.NewSectorView(file, e.sectorSize, e.sectors)
	if err != nil {
		return nil, nil, err
	}
	n := view.ChunkCount()

	kf := make([]byte, hlacommon.KeySize)
	if _, err := io.ReadFull(e.randomness(), kf); err != nil {
		return nil, nil, xerrors.Errorf("drawing mask key: %w", err)
	}
	ka := make([]byte, hlacommon.KeySize)
	if _, err := io.ReadFull(e.randomness(), ka); err != nil {
		return nil, nil, xerrors.Errorf("drawing coefficient key: %w", err)
	}

	state := &State{
		n:     n,
		f:     prf.New(kf, e.p),
		alpha: prf.New(ka, e.p),
	}

	logger.Debugw("encoding file", "length", view.Length(), "chunks", n)

	tag := &Tag{Sigma: make([]*big.Int, n)}
	tmp := new(big.Int)
	for i := uint32(0); i < n; i++ {
		sigma := state.f.Eval(i)
		for j := uint32(0); j < e.sectors; j++ {
			sector, err := view.Sector(i, j)
			if err != nil {
				return nil, nil, err
			}
			field.MulMod(tmp, state.alpha.Eval(j), sector, e.p)
			field.AddMod(sigma, sigma, tmp, e.p)
		}
		tag.Sigma[i] = sigma
	}

	if err := state.sealWith(e.randomness(), e.kEnc, e.kMac); err != nil {
		return nil, nil, err
	}

	return tag, state, nil
}

// GenChallenge opens the sealed state and derives a fresh challenge
// covering every chunk with coefficients below p.
func (e *Engine) GenChallenge(state *State) (*Challenge, error) {
	if !e.secret() {
		return nil, hlacommon.ErrMissingSecrets
	}

	open, err := state.open(e.kEnc, e.kMac)
	if err != nil {
		return nil, err
	}
	defer open.wipe()

	return e.genChallenge(open.n, e.p)
}

// GenChallengeParams is GenChallenge with an explicit sample count and
// coefficient limit.
func (e *Engine) GenChallengeParams(state *State, l uint32, b *big.Int) (*Challenge, error) {
	if !e.secret() {
		return nil, hlacommon.ErrMissingSecrets
	}

	open, err := state.open(e.kEnc, e.kMac)
	if err != nil {
		return nil, err
	}
	open.wipe()

	return e.genChallenge(l, b)
}

func (e *Engine) genChallenge(l uint32, b *big.Int) (*Challenge, error) {
	key := make([]byte, hlacommon.KeySize)
	if _, err := io.ReadFull(e.randomness(), key); err != nil {
		return nil, xerrors.Errorf("drawing challenge key: %w", err)
	}

	logger.Debugw("challenge generated", "chunks", l)

	return &Challenge{
		l:   l,
		key: key,
		b:   new(big.Int).Set(b),
	}, nil
}

// Prove aggregates the challenged sectors and tag entries. It needs
// only the public engine.
func (e *Engine) Prove(file io.ReadSeeker, chal *Challenge, tag *Tag) (*Proof, error) {
	view, err := segment.NewSectorView(file, e.sectorSize, e.sectors)
	if err != nil {
		return nil, err
	}

	if view.ChunkCount() == 0 && chal.L() > 0 {
		return nil, xerrors.New("challenged an empty file")
	}
	if chal.b == nil || chal.b.Sign() <= 0 {
		return nil, hlacommon.ErrInvalidSettings
	}

	// the index limit is bound from the prover's copy of the file; a
	// short copy shifts every index and the proof will not verify
	v := chal.V()
	indexer := chal.Indexer(new(big.Int).SetUint64(uint64(view.ChunkCount())))

	logger.Debugw("proving", "chunks", view.ChunkCount(), "sampled", chal.L())

	proof := &Proof{
		Mu:    make([]*big.Int, e.sectors),
		Sigma: new(big.Int),
	}

	tmp := new(big.Int)
	for j := uint32(0); j < e.sectors; j++ {
		mu := new(big.Int)
		for i := uint32(0); i < chal.L(); i++ {
			sector, err := view.Sector(uint32(indexer.Eval(i).Uint64()), j)
			if err != nil {
				return nil, err
			}
			field.MulMod(tmp, v.Eval(i), sector, e.p)
			field.AddMod(mu, mu, tmp, e.p)
		}
		proof.Mu[j] = mu
	}

	for i := uint32(0); i < chal.L(); i++ {
		idx := indexer.Eval(i).Uint64()
		if idx >= uint64(len(tag.Sigma)) {
			return nil, xerrors.Errorf("challenged chunk %d beyond tag of %d entries", idx, len(tag.Sigma))
		}
		field.MulMod(tmp, v.Eval(i), tag.Sigma[idx], e.p)
		field.AddMod(proof.Sigma, proof.Sigma, tmp, e.p)
	}

	return proof, nil
}

// Verify opens the sealed state and checks
//
//	sigma == sum_i v(i)*f(idx(i)) + sum_j alpha(j)*mu_j  (mod p)
//
// Any failure to open or any malformed proof verifies false; errors are
// not surfaced here so a tampering server learns nothing beyond the
// rejection.
func (e *Engine) Verify(proof *Proof, chal *Challenge, state *State) bool {
	if !e.secret() {
		return false
	}

	open, err := state.open(e.kEnc, e.kMac)
	if err != nil {
		logger.Debugw("state rejected", "err", err)
		return false
	}
	defer open.wipe()
	open.bindLimits(e.p)

	if uint32(len(proof.Mu)) != e.sectors || proof.Sigma == nil {
		return false
	}
	if open.n == 0 && chal.L() > 0 {
		return false
	}
	if chal.b == nil || chal.b.Sign() <= 0 {
		return false
	}

	v := chal.V()
	indexer := chal.Indexer(new(big.Int).SetUint64(uint64(open.n)))

	rhs := new(big.Int)
	tmp := new(big.Int)
	for i := uint32(0); i < chal.L(); i++ {
		field.MulMod(tmp, v.Eval(i), open.f.Eval(uint32(indexer.Eval(i).Uint64())), e.p)
		field.AddMod(rhs, rhs, tmp, e.p)
	}
	for j := uint32(0); j < e.sectors; j++ {
		if proof.Mu[j] == nil {
			return false
		}
		field.MulMod(tmp, open.alpha.Eval(j), proof.Mu[j], e.p)
		field.AddMod(rhs, rhs, tmp, e.p)
	}

	ok := field.Equal(proof.Sigma, rhs, e.p)
	logger.Debugw("proof verified", "ok", ok)
	return ok
}

// Serialize emits the secret wire form, or the public form when the
// engine carries no keys.
func (e *Engine) Serialize() ([]byte, error) {
	w := new(frameWriter)
	if e.secret() {
		w.putBytes(e.kEnc)
		w.putBytes(e.kMac)
	}
	w.putU32(e.sectors)
	w.putU32(e.sectorSize)
	w.putInt(e.p)
	return w.bytes(), nil
}

// Deserialize reads the secret wire form.
func (e *Engine) Deserialize(data []byte) error {
	r := newFrameReader(data)

	kEnc, err := r.bytesField()
	if err != nil {
		return err
	}
	if len(kEnc) != hlacommon.KeySize {
		return hlacommon.ErrIncompatibleKey
	}
	kMac, err := r.bytesField()
	if err != nil {
		return err
	}
	if len(kMac) != hlacommon.KeySize {
		return hlacommon.ErrIncompatibleKey
	}

	if err := e.deserializeParams(r); err != nil {
		return err
	}
	e.kEnc = kEnc
	e.kMac = kMac
	return nil
}

// DeserializePublic reads the public wire form, which omits both key
// blocks.
func (e *Engine) DeserializePublic(data []byte) error {
	if err := e.deserializeParams(newFrameReader(data)); err != nil {
		return err
	}
	e.kEnc = nil
	e.kMac = nil
	return nil
}

func (e *Engine) deserializeParams(r *frameReader) error {
	sectors, err := r.u32()
	if err != nil {
		return err
	}
	sectorSize, err := r.u32()
	if err != nil {
		return err
	}
	p, err := r.intField()
	if err != nil {
		return err
	}
	if r.remaining() != 0 {
		return hlacommon.ErrTruncated
	}
	if sectors == 0 || sectorSize == 0 || int(8*sectorSize) >= p.BitLen() {
		return hlacommon.ErrInvalidSettings
	}

	e.sectors = sectors
	e.sectorSize = sectorSize
	e.p = p
	e.rnd = nil
	return nil
}

func (e *Engine) GetState() ([]byte, error) {
	return hlacommon.MarshalState(e)
}

func (e *Engine) SetState(state []byte) error {
	return hlacommon.UnmarshalState(e, state)
}

// Fingerprint identifies the engine by its public parameters.
func (e *Engine) Fingerprint() []byte {
	raw, _ := e.Public().Serialize()
	sum := blake3.Sum256(raw)
	return sum[:20]
}

func (e *Engine) String() string {
	return base58.Encode(e.Fingerprint())
}
