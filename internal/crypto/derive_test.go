package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"GoConvo/internal/model"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	ref := model.ChatRef("chat-123")

	a := DeriveKey(ref, "master")
	b := DeriveKey(ref, "master")

	assert.Equal(t, a, b)
	assert.Len(t, a, keyLength)
}

func TestDeriveKey_VariesByConversation(t *testing.T) {
	a := DeriveKey(model.ChatRef("chat-a"), "master")
	b := DeriveKey(model.ChatRef("chat-b"), "master")

	assert.NotEqual(t, a, b)
}

func TestDeriveKey_VariesBySecret(t *testing.T) {
	ref := model.GroupRef("group-1")

	a := DeriveKey(ref, "master-1")
	b := DeriveKey(ref, "master-2")

	assert.NotEqual(t, a, b)
}

func TestContextID(t *testing.T) {
	assert.Equal(t, "chat-1", ContextID(model.ChatRef("chat-1")))
	assert.Equal(t, "group-1", ContextID(model.GroupRef("group-1")))
	assert.Equal(t, defaultContext, ContextID(model.ConversationRef{}))
}

func TestDeriveKey_ZeroRefUsesDefaultContext(t *testing.T) {
	a := DeriveKey(model.ConversationRef{}, "master")
	b := DeriveKey(model.ConversationRef{}, "master")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, DeriveKey(model.ChatRef("chat-1"), "master"))
}
