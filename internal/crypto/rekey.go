package crypto

import "fmt"

// Rekey re-encrypts the snapshot at filePath under newPassword with a fresh salt and nonce.
// The program id in the header is preserved.
func Rekey(filePath string, oldPassword, newPassword []byte) error {
	header, _, plaintext, err := ReadSnapshot(filePath, oldPassword)
	if err != nil {
		return err
	}
	defer clear(plaintext)

	key, err := NewKey(newPassword)
	if err != nil {
		return err
	}
	if err := WriteSnapshot(filePath, header.ProgramID, key, plaintext); err != nil {
		return fmt.Errorf("failed to write rekeyed snapshot: %w", err)
	}
	return nil
}
