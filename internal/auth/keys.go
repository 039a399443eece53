package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

const keyFileName = "session.key"

// LoadOrGenerateKey loads the PASETO session key from the data directory,
// generating and persisting a new one on first run. The key file holds the
// key as a 64-character hex string and is created with 0600 permissions.
// Regenerating the key invalidates every outstanding session.
func LoadOrGenerateKey(dataPath string) (string, error) {
	keyPath := filepath.Join(dataPath, keyFileName)

	data, err := os.ReadFile(keyPath) //#nosec G304 -- Path is derived from validated config
	if err == nil {
		keyHex := string(data)
		if len(keyHex) != keyHexSize {
			return "", fmt.Errorf("corrupt key file %s: expected %d hex characters, got %d", keyPath, keyHexSize, len(keyHex))
		}
		if _, err := hex.DecodeString(keyHex); err != nil {
			return "", fmt.Errorf("corrupt key file %s: %w", keyPath, err)
		}
		return keyHex, nil
	}
	if !os.IsNotExist(err) {
		return "", fmt.Errorf("read key file: %w", err)
	}

	keyBytes := make([]byte, keyBytesSize)
	if _, err := rand.Read(keyBytes); err != nil {
		return "", fmt.Errorf("generate session key: %w", err)
	}
	keyHex := hex.EncodeToString(keyBytes)

	if err := os.MkdirAll(dataPath, 0o750); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	if err := os.WriteFile(keyPath, []byte(keyHex), 0o600); err != nil {
		return "", fmt.Errorf("write key file: %w", err)
	}

	return keyHex, nil
}
