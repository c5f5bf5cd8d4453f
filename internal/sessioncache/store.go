// Package sessioncache persists the current backend session on disk so the
// CLI can resume without a fresh login. The cache is sealed with a key
// derived from the account password; without the password the file is
// opaque.
package sessioncache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/aoralabs/aora/internal/common"
	"github.com/aoralabs/aora/internal/cryptox"
)

const fileName = "session.aora"

// Session is the cached state needed to resume: who is logged in and the
// opaque session secret the backend expects on authenticated requests.
type Session struct {
	Email  string `json:"email"`
	UserID string `json:"userId"`
	Secret string `json:"secret"`
}

type envelope struct {
	Salt  []byte `json:"salt"`
	Nonce []byte `json:"nonce"`
	Data  []byte `json:"data"`
}

// Store reads and writes the sealed session file inside a data directory.
type Store struct {
	path string
}

func New(dataDir string) *Store {
	return &Store{path: filepath.Join(dataDir, fileName)}
}

// Save seals the session with a key derived from password and writes it to
// disk, replacing any previous cache.
func (s *Store) Save(sess Session, password []byte) error {
	plaintext, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	salt := common.GenerateRandByteArray(32)
	key := cryptox.DeriveKey(password, salt)
	defer common.WipeByteArray(key)

	ciphertext, nonce, err := cryptox.Seal(plaintext, key)
	if err != nil {
		return fmt.Errorf("seal session: %w", err)
	}

	data, err := json.Marshal(envelope{Salt: salt, Nonce: nonce, Data: ciphertext})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Load opens the cached session using a key derived from password.
// Returns common.ErrNoSavedSession when no cache exists and
// common.ErrUnauthorized when the password does not unlock it.
func (s *Store) Load(password []byte) (*Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, common.ErrNoSavedSession
		}
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("corrupt session cache: %w", err)
	}

	key := cryptox.DeriveKey(password, env.Salt)
	defer common.WipeByteArray(key)

	plaintext, err := cryptox.Open(env.Data, env.Nonce, key)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot unlock session cache", common.ErrUnauthorized)
	}

	var sess Session
	if err := json.Unmarshal(plaintext, &sess); err != nil {
		return nil, fmt.Errorf("corrupt session cache: %w", err)
	}
	return &sess, nil
}

// Clear removes the cached session. Missing cache is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
