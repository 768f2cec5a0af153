package swpriv

import (
	"math/big"

	hlacommon "github.com/F483/heartbeat/lib/crypto/hla/common"
	"github.com/F483/heartbeat/lib/crypto/prf"
)

// Challenge asks the server to aggregate l pseudo-randomly chosen
// chunks. The single challenge key drives two streams: the coefficient
// stream v below B, and the index stream below the chunk count. Only
// the key and B travel; each side binds the index limit from its own
// view of the data, so a server holding a truncated file draws indices
// under the wrong limit and fails verification.
type Challenge struct {
	codec
	l   uint32
	key []byte
	b   *big.Int
}

var _ hlacommon.Artifact = (*Challenge)(nil)

// L returns the number of sampled chunks.
func (c *Challenge) L() uint32 {
	return c.l
}

// Key returns the challenge key material.
func (c *Challenge) Key() []byte {
	return c.key
}

// B returns the coefficient limit.
func (c *Challenge) B() *big.Int {
	return c.b
}

// V returns the coefficient stream.
func (c *Challenge) V() *prf.PRF {
	return prf.New(c.key, c.b)
}

// Indexer returns the index stream bound to the given chunk-count
// limit.
func (c *Challenge) Indexer(limit *big.Int) *prf.PRF {
	return prf.New(c.key, limit)
}

func (c *Challenge) Serialize() ([]byte, error) {
	w := new(frameWriter)
	w.putU32(c.l)
	w.putBytes(c.key)
	w.putInt(c.b)
	return w.bytes(), nil
}

func (c *Challenge) Deserialize(data []byte) error {
	r := newFrameReader(data)

	l, err := r.u32()
	if err != nil {
		return err
	}
	key, err := r.bytesField()
	if err != nil {
		return err
	}
	b, err := r.intField()
	if err != nil {
		return err
	}
	if r.remaining() != 0 {
		return hlacommon.ErrTruncated
	}

	c.l = l
	c.key = key
	c.b = b
	return nil
}

func (c *Challenge) GetState() ([]byte, error) {
	return hlacommon.MarshalState(c)
}

func (c *Challenge) SetState(state []byte) error {
	return hlacommon.UnmarshalState(c, state)
}
