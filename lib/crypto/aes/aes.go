package aes

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"io"

	"golang.org/x/xerrors"
)

const (
	KeySize   = 32 // 256bit，32B
	BlockSize = 16 // 128bit，16B
)

var ErrKeySize = xerrors.New("keysize must be 32")

// NewIV draws a fresh CFB initialization vector from r.
func NewIV(r io.Reader) ([]byte, error) {
	if r == nil {
		r = rand.Reader
	}
	iv := make([]byte, BlockSize)
	if _, err := io.ReadFull(r, iv); err != nil {
		return nil, xerrors.Errorf("drawing iv: %w", err)
	}
	return iv, nil
}

// CfbEncrypt encrypts origData with AES-CFB under key and iv. CFB is a
// stream mode, so the input needs no padding.
func CfbEncrypt(origData, key, iv []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, ErrKeySize
	}
	if len(iv) != BlockSize {
		return nil, xerrors.New("iv must be one block")
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	crypted := make([]byte, len(origData))
	cipher.NewCFBEncrypter(block, iv).XORKeyStream(crypted, origData)
	return crypted, nil
}

// CfbDecrypt reverses CfbEncrypt.
func CfbDecrypt(crypted, key, iv []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, ErrKeySize
	}
	if len(iv) != BlockSize {
		return nil, xerrors.New("iv must be one block")
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	origData := make([]byte, len(crypted))
	cipher.NewCFBDecrypter(block, iv).XORKeyStream(origData, crypted)
	return origData, nil
}
