package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GoConvo/internal/model"
)

func TestBuildConversations_NewestFirst(t *testing.T) {
	now := time.Now().UTC()
	u2 := "u2"

	chats := []model.Chat{
		{ID: "c-old", UserID1: "u1", UserID2: &u2, UpdatedAt: now.Add(-2 * time.Hour)},
		{ID: "c-new", UserID1: "u1", UpdatedAt: now},
	}
	groups := []model.Group{
		{ID: "g-mid", Name: "team", UpdatedAt: now.Add(-time.Hour)},
	}

	views := BuildConversations(chats, groups)
	require.Len(t, views, 3)

	assert.Equal(t, []string{"c-new", "g-mid", "c-old"}, []string{views[0].ID, views[1].ID, views[2].ID})
	assert.True(t, views[0].Pending)
	assert.False(t, views[2].Pending)
	assert.Equal(t, "group", views[1].Kind)
}

func TestBuildConversations_DuplicateIDCollapses(t *testing.T) {
	now := time.Now().UTC()

	// A room's backing group shares the room id; a chat sharing an id with
	// a group must not produce two list entries.
	chats := []model.Chat{{ID: "x", UserID1: "u1", UpdatedAt: now}}
	groups := []model.Group{{ID: "x", Name: "room", UpdatedAt: now}}

	views := BuildConversations(chats, groups)
	require.Len(t, views, 1)
	assert.Equal(t, "group", views[0].Kind)
}

func TestSortConversations_StableTiebreak(t *testing.T) {
	now := time.Now().UTC()
	views := []ConversationView{
		{ID: "b", UpdatedAt: now},
		{ID: "a", UpdatedAt: now},
	}
	SortConversations(views)
	assert.Equal(t, "a", views[0].ID)
}
