package hlacommon

import "encoding/base64"

// Artifact is anything that crosses the wire between client and server:
// tag, state, challenge, proof and the engine itself.
type Artifact interface {
	Serialize() ([]byte, error)
	Deserialize([]byte) error

	Encoding() Encoding
	SetEncoding(Encoding)
}

// Encoding selects the outer representation of an artifact's state.
// Base64 wraps the identical binary form; it never alters the bytes
// underneath.
type Encoding uint8

const (
	Binary Encoding = iota
	Base64
)

// MarshalState renders a's serialized form under its encoding mode.
func MarshalState(a Artifact) ([]byte, error) {
	raw, err := a.Serialize()
	if err != nil {
		return nil, err
	}
	if a.Encoding() == Base64 {
		out := make([]byte, base64.StdEncoding.EncodedLen(len(raw)))
		base64.StdEncoding.Encode(out, raw)
		return out, nil
	}
	return raw, nil
}

// UnmarshalState loads state produced by MarshalState under the same
// encoding mode.
func UnmarshalState(a Artifact, state []byte) error {
	if a.Encoding() == Base64 {
		raw := make([]byte, base64.StdEncoding.DecodedLen(len(state)))
		n, err := base64.StdEncoding.Decode(raw, state)
		if err != nil {
			return err
		}
		state = raw[:n]
	}
	return a.Deserialize(state)
}
