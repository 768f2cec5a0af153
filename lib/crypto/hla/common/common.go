package hlacommon

import "golang.org/x/xerrors"

var (
	// ErrSealedStateAuth covers MAC mismatch, length mismatch and
	// decryption failure while opening a sealed state.
	ErrSealedStateAuth = xerrors.New("sealed state authentication failed")
	// ErrStateNotSealed rejects serialization of an open state.
	ErrStateNotSealed = xerrors.New("state must be sealed prior to serialization")
	// ErrIncompatibleKey rejects engine key blocks that are not 32 bytes.
	ErrIncompatibleKey = xerrors.New("incompatible key sizes")
	// ErrInvalidKeyLength rejects encrypt/decrypt keys that are not 32 bytes.
	ErrInvalidKeyLength = xerrors.New("key must be 32 bytes in length")
	// ErrTruncated marks a parse that ran off the end of its input.
	ErrTruncated = xerrors.New("unexpected end of input")
	// ErrInvalidSettings rejects unusable scheme parameters.
	ErrInvalidSettings = xerrors.New("setting is invalid")
	// ErrMissingSecrets marks an operation that needs the secret engine
	// but got a public view.
	ErrMissingSecrets = xerrors.New("operation requires the secret engine")
)

// KeySize is the width of every symmetric key in the scheme: the state
// encryption and MAC keys and all PRF keys.
const KeySize = 32
