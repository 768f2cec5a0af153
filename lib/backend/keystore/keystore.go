// Package keystore persists secret engines as passphrase-protected
// keyfiles. A verifier that loses its engine loses the ability to
// challenge every file encoded with it, so engines are stored with the
// same care as wallet keys.
package keystore

import (
	"os"
	"path/filepath"

	"golang.org/x/xerrors"

	"github.com/F483/heartbeat/lib/crypto/hla"
	"github.com/F483/heartbeat/lib/crypto/hla/swpriv"
)

type EngineStore struct {
	path    string
	scryptN int
	scryptP int
}

// NewEngineStore opens (creating if needed) a keyfile directory with
// standard scrypt parameters.
func NewEngineStore(path string) (*EngineStore, error) {
	return newEngineStore(path, StandardScryptN, StandardScryptP)
}

// NewLightEngineStore uses cheap scrypt parameters; for tests.
func NewLightEngineStore(path string) (*EngineStore, error) {
	return newEngineStore(path, LightScryptN, LightScryptP)
}

func newEngineStore(path string, scryptN, scryptP int) (*EngineStore, error) {
	if err := os.MkdirAll(path, 0700); err != nil {
		return nil, err
	}
	return &EngineStore{path: path, scryptN: scryptN, scryptP: scryptP}, nil
}

// Put stores the engine's secret form under name. An existing keyfile
// of the same name is left untouched. The keyfile lands via a rename
// from a temp file in the same directory, so a crash mid-write cannot
// leave a half-written engine behind the final name.
func (ks *EngineStore) Put(name, password string, engine *swpriv.Engine) error {
	raw, err := engine.Serialize()
	if err != nil {
		return err
	}

	keyjson, err := encryptEngine(name, raw, password, ks.scryptN, ks.scryptP)
	if err != nil {
		return err
	}

	path := filepath.Join(ks.path, name)
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	tmp, err := os.CreateTemp(ks.path, name+"-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) // no-op once renamed

	if _, err := tmp.Write(keyjson); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Get loads and decrypts the engine stored under name.
func (ks *EngineStore) Get(name, password string) (*swpriv.Engine, error) {
	keyjson, err := os.ReadFile(filepath.Join(ks.path, name))
	if err != nil {
		return nil, err
	}

	storedName, raw, err := decryptEngine(keyjson, password)
	if err != nil {
		return nil, err
	}
	// guard against a keyfile renamed over another
	if storedName != name {
		return nil, xerrors.Errorf("keyfile content mismatch: have %s, want %s", storedName, name)
	}

	return hla.DeserializeEngine(raw)
}

// List names every stored engine.
func (ks *EngineStore) List() ([]string, error) {
	entries, err := os.ReadDir(ks.path)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Delete removes the keyfile under name after checking the passphrase.
func (ks *EngineStore) Delete(name, password string) error {
	if _, err := ks.Get(name, password); err != nil {
		return err
	}
	return os.Remove(filepath.Join(ks.path, name))
}
