package swpriv

import (
	"math/big"

	hlacommon "github.com/F483/heartbeat/lib/crypto/hla/common"
)

// Proof is the server's answer: one aggregate per sector position plus
// the aggregate authenticator.
type Proof struct {
	codec
	Mu    []*big.Int
	Sigma *big.Int
}

var _ hlacommon.Artifact = (*Proof)(nil)

func (p *Proof) Serialize() ([]byte, error) {
	w := new(frameWriter)
	w.putU32(uint32(len(p.Mu)))
	for _, mu := range p.Mu {
		w.putInt(mu)
	}
	w.putInt(p.Sigma)
	return w.bytes(), nil
}

func (p *Proof) Deserialize(data []byte) error {
	r := newFrameReader(data)

	n, err := r.u32()
	if err != nil {
		return err
	}
	if int64(n)*4 > int64(r.remaining()) {
		return hlacommon.ErrTruncated
	}

	mu := make([]*big.Int, 0, n)
	for i := uint32(0); i < n; i++ {
		m, err := r.intField()
		if err != nil {
			return err
		}
		mu = append(mu, m)
	}

	sigma, err := r.intField()
	if err != nil {
		return err
	}
	if r.remaining() != 0 {
		return hlacommon.ErrTruncated
	}

	p.Mu = mu
	p.Sigma = sigma
	return nil
}

func (p *Proof) GetState() ([]byte, error) {
	return hlacommon.MarshalState(p)
}

func (p *Proof) SetState(state []byte) error {
	return hlacommon.UnmarshalState(p, state)
}
