// Package secret manages twinspect's master key material and sealing of
// sensitive payloads.
package secret

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/pbkdf2"
)

// Key material sizes in bytes.
const (
	KeySize  = 32
	SaltSize = 32
)

// pbkdf2Iters is the PBKDF2 iteration count for subkey derivation.
const pbkdf2Iters = 4096

// Material holds the master key and salt loaded from the keys directory.
type Material struct {
	Key  []byte
	Salt []byte
}

// Init generates and persists the master key and salt unless the key file
// already exists. Keys are written once and never rewritten: overwriting
// would orphan everything sealed under the old key. Returns true when new
// material was generated.
func Init(keyPath, saltPath string) (bool, error) {
	if _, err := os.Stat(keyPath); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat master key: %w", err)
	}

	key := make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return false, fmt.Errorf("generate master key: %w", err)
	}
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return false, fmt.Errorf("generate salt: %w", err)
	}

	if err := writeAtomic(keyPath, key); err != nil {
		return false, fmt.Errorf("write master key: %w", err)
	}
	if err := writeAtomic(saltPath, salt); err != nil {
		return false, fmt.Errorf("write salt: %w", err)
	}
	return true, nil
}

// Load reads previously initialized key material from disk.
func Load(keyPath, saltPath string) (*Material, error) {
	key, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("read master key: %w", err)
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("master key is %d bytes, want %d", len(key), KeySize)
	}
	salt, err := os.ReadFile(saltPath)
	if err != nil {
		return nil, fmt.Errorf("read salt: %w", err)
	}
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("salt is %d bytes, want %d", len(salt), SaltSize)
	}
	return &Material{Key: key, Salt: salt}, nil
}

// DeriveKey derives a purpose-bound subkey from the master key and salt so
// different subsystems never share a raw key.
func (m *Material) DeriveKey(purpose string, length int) []byte {
	salted := make([]byte, 0, len(m.Salt)+len(purpose))
	salted = append(salted, m.Salt...)
	salted = append(salted, purpose...)
	return pbkdf2.Key(m.Key, salted, pbkdf2Iters, length, sha256.New)
}

// writeAtomic writes data to path via a same-directory temp file and rename.
// The temp file is created 0600 so key bytes are never world-readable, even
// transiently.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("finalize %s: %w", path, err)
	}
	return nil
}
