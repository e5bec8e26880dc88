package crypto

import (
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"

	"GoConvo/internal/model"
)

const (
	// appSalt is mixed into every derived salt. Changing it invalidates
	// every key ever derived, so it never changes.
	appSalt = "goconvo-conversation-salt"

	// defaultContext keys messages that belong to no conversation at all.
	defaultContext = "goconvo-default-context"

	keyIterations = 10000
	keyLength     = 32
)

// ContextID returns the string that scopes a key to one conversation: the
// chat id, the group id when there is no chat id, or a fixed default.
func ContextID(ref model.ConversationRef) string {
	if ref.IsZero() {
		return defaultContext
	}
	return ref.ID
}

// DeriveKey computes the AES-256 key for one conversation. The derivation
// is deterministic: anyone holding the master secret and the conversation
// id can reproduce the key. Conversation-scoped, not end-to-end secret.
func DeriveKey(ref model.ConversationRef, masterSecret string) []byte {
	contextID := ContextID(ref)
	salt := sha256.Sum256([]byte(contextID + appSalt))
	return pbkdf2.Key([]byte(contextID+masterSecret), salt[:], keyIterations, keyLength, sha256.New)
}
