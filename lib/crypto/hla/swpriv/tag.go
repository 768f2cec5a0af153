package swpriv

import (
	"math/big"

	"github.com/mr-tron/base58/base58"
	"github.com/zeebo/blake3"

	hlacommon "github.com/F483/heartbeat/lib/crypto/hla/common"
)

// codec carries the per-artifact outer encoding mode.
type codec struct {
	enc hlacommon.Encoding
}

func (c *codec) Encoding() hlacommon.Encoding {
	return c.enc
}

func (c *codec) SetEncoding(enc hlacommon.Encoding) {
	c.enc = enc
}

// Tag holds one authenticator per chunk of the encoded file. It is
// public data and lives at the server next to the file.
type Tag struct {
	codec
	Sigma []*big.Int
}

var _ hlacommon.Artifact = (*Tag)(nil)

func (t *Tag) Serialize() ([]byte, error) {
	w := new(frameWriter)
	w.putU32(uint32(len(t.Sigma)))
	for _, sigma := range t.Sigma {
		w.putInt(sigma)
	}
	return w.bytes(), nil
}

func (t *Tag) Deserialize(data []byte) error {
	r := newFrameReader(data)

	n, err := r.u32()
	if err != nil {
		return err
	}

	// each element needs at least its length prefix, which bounds a
	// hostile count before any allocation
	if int64(n)*4 > int64(r.remaining()) {
		return hlacommon.ErrTruncated
	}

	sigma := make([]*big.Int, 0, n)
	for i := uint32(0); i < n; i++ {
		s, err := r.intField()
		if err != nil {
			return err
		}
		sigma = append(sigma, s)
	}
	if r.remaining() != 0 {
		return hlacommon.ErrTruncated
	}

	t.Sigma = sigma
	return nil
}

func (t *Tag) GetState() ([]byte, error) {
	return hlacommon.MarshalState(t)
}

func (t *Tag) SetState(state []byte) error {
	return hlacommon.UnmarshalState(t, state)
}

// Fingerprint identifies the tag by its serialized form.
func (t *Tag) Fingerprint() []byte {
	raw, _ := t.Serialize()
	sum := blake3.Sum256(raw)
	return sum[:20]
}

func (t *Tag) String() string {
	return base58.Encode(t.Fingerprint())
}
