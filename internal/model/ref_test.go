package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefFromIDs(t *testing.T) {
	chatID := "c1"
	groupID := "g1"

	assert.Equal(t, ChatRef("c1"), RefFromIDs(&chatID, nil))
	assert.Equal(t, GroupRef("g1"), RefFromIDs(nil, &groupID))
	assert.True(t, RefFromIDs(nil, nil).IsZero())

	empty := ""
	assert.True(t, RefFromIDs(&empty, nil).IsZero())

	// Chat wins when a record carries both ids.
	assert.Equal(t, ChatRef("c1"), RefFromIDs(&chatID, &groupID))
}

func TestConversationRef_IDAccessors(t *testing.T) {
	chat := ChatRef("c1")
	require.NotNil(t, chat.ChatID())
	assert.Equal(t, "c1", *chat.ChatID())
	assert.Nil(t, chat.GroupID())

	group := GroupRef("g1")
	require.NotNil(t, group.GroupID())
	assert.Equal(t, "g1", *group.GroupID())
	assert.Nil(t, group.ChatID())
}

func TestMessage_Conversation(t *testing.T) {
	chatID := "c1"
	m := Message{ID: "m1", ChatID: &chatID}
	assert.Equal(t, ChatRef("c1"), m.Conversation())

	groupID := "g1"
	m = Message{ID: "m2", GroupID: &groupID}
	assert.Equal(t, GroupRef("g1"), m.Conversation())

	m = Message{ID: "m3"}
	assert.True(t, m.Conversation().IsZero())
}

func TestChat_PendingAndParticipants(t *testing.T) {
	c := Chat{ID: "c1", UserID1: "alice"}
	assert.True(t, c.Pending())
	assert.True(t, c.HasParticipant("alice"))
	assert.False(t, c.HasParticipant("bob"))

	bob := "bob"
	c.UserID2 = &bob
	assert.False(t, c.Pending())
	assert.True(t, c.HasParticipant("bob"))
}
