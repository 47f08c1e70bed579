package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/AlexZinkM/escrow-ledger/internal/model"

	"golang.org/x/crypto/scrypt"
)

const (
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 32
	saltLen      = 32
	nonceLen     = 12

	// SnapshotExt is the required snapshot file extension
	SnapshotExt = ".snapshot"
	network     = "escrow"
)

// scrypt cost: N=2^18 (~256MB RAM, 0.5-2s). The key is derived once per process.
// A variable so tests can lower it.
var scryptN = 1 << 18

// ErrInvalidPassword is returned when the snapshot cannot be authenticated
var ErrInvalidPassword = errors.New("invalid password")

// Key is an AES-256-GCM key derived from a password and salt
type Key struct {
	aead cipher.AEAD
	salt []byte
}

// NewKey derives a key from password with a fresh random salt
func NewKey(password []byte) (*Key, error) {
	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return DeriveKey(password, salt)
}

// DeriveKey derives a key from password and an existing salt
// password must be []byte for security (caller should zero it after use)
func DeriveKey(password, salt []byte) (*Key, error) {
	if len(password) == 0 {
		return nil, errors.New("password cannot be empty")
	}

	key, err := scrypt.Key(password, salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	defer clear(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &Key{aead: aesGCM, salt: append([]byte(nil), salt...)}, nil
}

// Seal encrypts plaintext under a fresh nonce
func (k *Key) Seal(plaintext []byte) (nonce, ciphertext []byte, err error) {
	nonce = make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return nonce, k.aead.Seal(nil, nonce, plaintext, nil), nil
}

// Open decrypts ciphertext, failing with ErrInvalidPassword on authentication failure
func (k *Key) Open(nonce, ciphertext []byte) ([]byte, error) {
	if len(nonce) != k.aead.NonceSize() {
		return nil, fmt.Errorf("invalid nonce length %d", len(nonce))
	}
	plaintext, err := k.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrInvalidPassword
	}
	return plaintext, nil
}

// WriteSnapshot encrypts plaintext and atomically replaces the snapshot file
func WriteSnapshot(filePath, programID string, k *Key, plaintext []byte) error {
	// Check file extension
	if !strings.HasSuffix(filePath, SnapshotExt) {
		return fmt.Errorf("file must have %s extension", SnapshotExt)
	}

	nonce, ciphertext, err := k.Seal(plaintext)
	if err != nil {
		return err
	}

	snapshot := model.SnapshotFile{
		Network:    network,
		ProgramID:  programID,
		Salt:       base64.StdEncoding.EncodeToString(k.salt),
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		CipherText: base64.StdEncoding.EncodeToString(ciphertext),
		UpdatedAt:  time.Now().UTC().Format(time.RFC3339),
	}

	fileData, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot file: %w", err)
	}

	// Add UTF-8 BOM for proper display in Windows
	utf8BOM := []byte{0xEF, 0xBB, 0xBF}
	fileDataWithBOM := append(utf8BOM, fileData...)

	// Write next to the target, then rename over it
	tmp, err := os.CreateTemp(filepath.Dir(filePath), filepath.Base(filePath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(fileDataWithBOM); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmpName, filePath); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}

	return nil
}
