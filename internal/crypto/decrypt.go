package crypto

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/AlexZinkM/escrow-ledger/internal/model"
)

// ReadSnapshot reads and decrypts a snapshot file.
// Returns the file header, the key (for subsequent writes) and the plaintext.
// password must be []byte for security (caller should zero it after use)
func ReadSnapshot(filePath string, password []byte) (*model.SnapshotFile, *Key, []byte, error) {
	// Check if file exists
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil, fmt.Errorf("file does not exist: %w", os.ErrNotExist)
		}
		return nil, nil, nil, fmt.Errorf("failed to read file: %w", err)
	}

	// Check that file is not empty
	if fileInfo.Size() == 0 {
		return nil, nil, nil, errors.New("file is empty")
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to read file: %w", err)
	}

	// Skip UTF-8 BOM if present
	if len(fileData) >= 3 && fileData[0] == 0xEF && fileData[1] == 0xBB && fileData[2] == 0xBF {
		fileData = fileData[3:]
	}

	var snapshot model.SnapshotFile
	if err := json.Unmarshal(fileData, &snapshot); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to unmarshal snapshot file: %w", err)
	}

	salt, err := base64.StdEncoding.DecodeString(snapshot.Salt)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to decode salt: %w", err)
	}

	nonce, err := base64.StdEncoding.DecodeString(snapshot.Nonce)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to decode nonce: %w", err)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(snapshot.CipherText)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	key, err := DeriveKey(password, salt)
	if err != nil {
		return nil, nil, nil, err
	}

	plaintext, err := key.Open(nonce, ciphertext)
	if err != nil {
		return nil, nil, nil, err
	}

	return &snapshot, key, plaintext, nil
}
