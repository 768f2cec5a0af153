// Package hla is the entry point for homomorphic linear authenticator
// proof-of-storage schemes. The one scheme implemented today is the
// private-verifier Shacham–Waters construction in swpriv.
package hla

import (
	"io"

	hlacommon "github.com/F483/heartbeat/lib/crypto/hla/common"
	"github.com/F483/heartbeat/lib/crypto/hla/swpriv"
)

// NewEngine generates a secret engine with the default parameters: a
// 128-bit prime field and ten sectors per chunk.
func NewEngine() (*swpriv.Engine, error) {
	return swpriv.NewEngine(swpriv.DefaultPrimeBytes, swpriv.DefaultSectors)
}

// NewEngineParams generates a secret engine with an explicit prime
// width and chunk geometry.
func NewEngineParams(primeBytes, sectorsPerChunk int) (*swpriv.Engine, error) {
	return swpriv.NewEngine(primeBytes, sectorsPerChunk)
}

// NewEngineRand is NewEngineParams drawing all randomness from rnd.
func NewEngineRand(rnd io.Reader, primeBytes, sectorsPerChunk int) (*swpriv.Engine, error) {
	return swpriv.NewEngineRand(rnd, primeBytes, sectorsPerChunk)
}

// DeserializeEngine reads a secret engine.
func DeserializeEngine(data []byte) (*swpriv.Engine, error) {
	e := new(swpriv.Engine)
	if err := e.Deserialize(data); err != nil {
		return nil, err
	}
	return e, nil
}

// DeserializePublicEngine reads a public engine (no sealing keys).
func DeserializePublicEngine(data []byte) (*swpriv.Engine, error) {
	e := new(swpriv.Engine)
	if err := e.DeserializePublic(data); err != nil {
		return nil, err
	}
	return e, nil
}

func DeserializeTag(data []byte) (*swpriv.Tag, error) {
	t := new(swpriv.Tag)
	if err := t.Deserialize(data); err != nil {
		return nil, err
	}
	return t, nil
}

func DeserializeState(data []byte) (*swpriv.State, error) {
	s := new(swpriv.State)
	if err := s.Deserialize(data); err != nil {
		return nil, err
	}
	return s, nil
}

func DeserializeChallenge(data []byte) (*swpriv.Challenge, error) {
	c := new(swpriv.Challenge)
	if err := c.Deserialize(data); err != nil {
		return nil, err
	}
	return c, nil
}

func DeserializeProof(data []byte) (*swpriv.Proof, error) {
	p := new(swpriv.Proof)
	if err := p.Deserialize(data); err != nil {
		return nil, err
	}
	return p, nil
}

// PeekChunkCount reads the unauthenticated chunk count out of a sealed
// state buffer.
func PeekChunkCount(sealed []byte) (uint32, error) {
	s, err := DeserializeState(sealed)
	if err != nil {
		return 0, err
	}
	return s.PublicHeader()
}

// KeySize returns the symmetric key width shared by every scheme
// artifact.
func KeySize() int {
	return hlacommon.KeySize
}
