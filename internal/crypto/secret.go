package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// LoadOrCreateSecret returns the master secret used for key derivation.
// A server deployment sets the secret explicitly; when none is configured,
// a random secret is generated once and persisted at keyFile so the same
// process installation keeps decrypting its own data across restarts.
func LoadOrCreateSecret(configured, keyFile string) (string, error) {
	if configured != "" {
		return configured, nil
	}

	if data, err := os.ReadFile(keyFile); err == nil {
		secret := strings.TrimSpace(string(data))
		if secret != "" {
			return secret, nil
		}
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate master secret: %w", err)
	}
	secret := hex.EncodeToString(raw)

	if err := os.MkdirAll(filepath.Dir(keyFile), 0o700); err != nil {
		return "", fmt.Errorf("failed to create key directory: %w", err)
	}
	if err := os.WriteFile(keyFile, []byte(secret+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("failed to persist master secret: %w", err)
	}

	log.Printf("generated new master secret at %s", keyFile)
	return secret, nil
}
