package keystore

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"io"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/scrypt"
	"golang.org/x/xerrors"
)

const (
	// StandardScryptN/P cost roughly 256MB and a second of CPU on a
	// modern processor.
	StandardScryptN = 1 << 18
	StandardScryptP = 1

	// LightScryptN/P suit tests and low-value engines.
	LightScryptN = 1 << 12
	LightScryptP = 6

	scryptR     = 8
	scryptDKLen = 32
	fileVersion = 1
)

// engineFile is the on-disk keyfile: the serialized secret engine,
// encrypted under a passphrase-derived key and MACed so a wrong
// passphrase or a corrupted ciphertext is rejected rather than
// decrypted to garbage. Both cases give the same error.
type engineFile struct {
	Name    string     `json:"name"`
	Crypto  cryptoJSON `json:"crypto"`
	Version int        `json:"version"`
}

type cryptoJSON struct {
	Cipher       string           `json:"cipher"`
	CipherText   string           `json:"ciphertext"`
	CipherParams cipherparamsJSON `json:"cipherparams"`
	KDF          string           `json:"kdf"`
	KDFParams    kdfparamsJSON    `json:"kdfparams"`
	MAC          string           `json:"mac"`
}

type cipherparamsJSON struct {
	IV string `json:"iv"`
}

type kdfparamsJSON struct {
	N     int    `json:"n"`
	R     int    `json:"r"`
	P     int    `json:"p"`
	DKLen int    `json:"dklen"`
	Salt  string `json:"salt"`
}

// encryptEngine seals the engine bytes into a keyfile blob. The derived
// key splits in two: the first half feeds AES-128-CTR, the second half
// keys the blake3 MAC over the ciphertext.
func encryptEngine(name string, engine []byte, password string, scryptN, scryptP int) ([]byte, error) {
	salt := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, xerrors.Errorf("drawing kdf salt: %w", err)
	}
	derivedKey, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, scryptDKLen)
	if err != nil {
		return nil, err
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, xerrors.Errorf("drawing cipher iv: %w", err)
	}
	block, err := aes.NewCipher(derivedKey[:16])
	if err != nil {
		return nil, err
	}
	cipherText := make([]byte, len(engine))
	cipher.NewCTR(block, iv).XORKeyStream(cipherText, engine)

	d := blake3.New()
	d.Write(derivedKey[16:32])
	d.Write(cipherText)
	mac := d.Sum(nil)

	return json.Marshal(engineFile{
		Name: name,
		Crypto: cryptoJSON{
			Cipher:     "aes-128-ctr",
			CipherText: hex.EncodeToString(cipherText),
			CipherParams: cipherparamsJSON{
				IV: hex.EncodeToString(iv),
			},
			KDF: "scrypt",
			KDFParams: kdfparamsJSON{
				N:     scryptN,
				R:     scryptR,
				P:     scryptP,
				DKLen: scryptDKLen,
				Salt:  hex.EncodeToString(salt),
			},
			MAC: hex.EncodeToString(mac),
		},
		Version: fileVersion,
	})
}

// decryptEngine recovers engine bytes from a keyfile blob.
func decryptEngine(keyjson []byte, password string) (string, []byte, error) {
	ef := new(engineFile)
	if err := json.Unmarshal(keyjson, ef); err != nil {
		return "", nil, err
	}

	if ef.Version != fileVersion {
		return "", nil, xerrors.Errorf("keyfile version not supported: %v", ef.Version)
	}
	if ef.Crypto.Cipher != "aes-128-ctr" {
		return "", nil, xerrors.Errorf("cipher not supported: %v", ef.Crypto.Cipher)
	}
	if ef.Crypto.KDF != "scrypt" {
		return "", nil, xerrors.Errorf("kdf not supported: %v", ef.Crypto.KDF)
	}

	mac, err := hex.DecodeString(ef.Crypto.MAC)
	if err != nil {
		return "", nil, err
	}
	iv, err := hex.DecodeString(ef.Crypto.CipherParams.IV)
	if err != nil {
		return "", nil, err
	}
	cipherText, err := hex.DecodeString(ef.Crypto.CipherText)
	if err != nil {
		return "", nil, err
	}
	salt, err := hex.DecodeString(ef.Crypto.KDFParams.Salt)
	if err != nil {
		return "", nil, err
	}

	if len(iv) != aes.BlockSize {
		return "", nil, xerrors.Errorf("iv must be %d bytes", aes.BlockSize)
	}

	kp := ef.Crypto.KDFParams
	derivedKey, err := scrypt.Key([]byte(password), salt, kp.N, kp.R, kp.P, kp.DKLen)
	if err != nil {
		return "", nil, err
	}
	if len(derivedKey) < 32 {
		return "", nil, xerrors.New("derived key too short for mac split")
	}

	d := blake3.New()
	d.Write(derivedKey[16:32])
	d.Write(cipherText)
	if !bytes.Equal(d.Sum(nil), mac) {
		return "", nil, xerrors.New("could not decrypt engine with given passphrase")
	}

	block, err := aes.NewCipher(derivedKey[:16])
	if err != nil {
		return "", nil, err
	}
	engine := make([]byte, len(cipherText))
	cipher.NewCTR(block, iv).XORKeyStream(engine, cipherText)

	return ef.Name, engine, nil
}
