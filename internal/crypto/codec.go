package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"GoConvo/internal/model"
)

// CipherTag prefixes every ciphertext so plaintext and ciphertext are
// distinguishable. It is part of the persisted format and never changes.
const CipherTag = "ENCv1:"

// Codec encrypts and decrypts message bodies with per-conversation keys.
// legacySecret, when non-empty, is tried exactly once if the primary key
// fails to recover plaintext; it exists for data written under an older
// derivation secret and adds no new rotation policy.
type Codec struct {
	masterSecret string
	legacySecret string
}

func NewCodec(masterSecret, legacySecret string) *Codec {
	return &Codec{masterSecret: masterSecret, legacySecret: legacySecret}
}

// IsEncrypted reports whether text carries the ciphertext tag.
func (c *Codec) IsEncrypted(text string) bool {
	return strings.HasPrefix(text, CipherTag)
}

// Encrypt seals text under the conversation's derived key. Already-tagged
// input is returned unchanged so double encryption cannot happen.
func (c *Codec) Encrypt(text string, ref model.ConversationRef) (string, error) {
	if text == "" || c.IsEncrypted(text) {
		return text, nil
	}

	key := DeriveKey(ref, c.masterSecret)
	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := gcm.Seal(nonce, nonce, []byte(text), nil)
	return CipherTag + base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt recovers the plaintext of a tagged message body. Untagged input
// is returned unchanged. On primary-key failure the legacy secret is tried
// once; if that also fails the original ciphertext is returned as-is and
// the failure is logged. Decrypt never returns an error for bad ciphertext:
// an undecryptable message degrades, it does not block the conversation.
//
// ref must be the conversation id stored on the record being decrypted,
// never the id a caller happened to query by.
func (c *Codec) Decrypt(text string, ref model.ConversationRef) string {
	if !c.IsEncrypted(text) {
		return text
	}

	plain, err := c.open(text, c.masterSecret, ref)
	if err == nil {
		return plain
	}

	if c.legacySecret != "" {
		if plain, legacyErr := c.open(text, c.legacySecret, ref); legacyErr == nil {
			return plain
		}
	}

	log.Printf("failed to decrypt message for context %q: %v", ContextID(ref), err)
	return text
}

func (c *Codec) open(text, secret string, ref model.ConversationRef) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(text, CipherTag))
	if err != nil {
		return "", fmt.Errorf("invalid ciphertext encoding: %w", err)
	}

	key := DeriveKey(ref, secret)
	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	if len(raw) < gcm.NonceSize() {
		return "", errors.New("ciphertext shorter than nonce")
	}

	nonce, sealed := raw[:gcm.NonceSize()], raw[gcm.NonceSize():]
	plain, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("decryption failed: %w", err)
	}
	if len(plain) == 0 {
		return "", errors.New("decryption produced empty plaintext")
	}
	return string(plain), nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to build cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to build GCM: %w", err)
	}
	return gcm, nil
}
