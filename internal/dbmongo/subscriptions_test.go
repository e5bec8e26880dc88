package dbmongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"GoConvo/internal/model"
)

func matchStage(t *testing.T, p []bson.D) bson.M {
	t.Helper()
	require.Len(t, p, 1)
	require.Equal(t, "$match", p[0][0].Key)
	m, ok := p[0][0].Value.(bson.M)
	require.True(t, ok)
	return m
}

func TestReactionPipeline_BoundsOperationTypes(t *testing.T) {
	m := matchStage(t, reactionPipeline())

	op, ok := m["operationType"].(bson.M)
	require.True(t, ok, "reaction stream must filter on operation type")
	assert.ElementsMatch(t, bson.A{"insert", "delete"}, op["$in"])
}

func TestMemberPipeline_ScopedToUser(t *testing.T) {
	m := matchStage(t, memberPipeline("u1"))

	or, ok := m["$or"].([]bson.M)
	require.True(t, ok)
	assert.Contains(t, or, bson.M{"fullDocument.userId": "u1"})
	assert.Contains(t, or, bson.M{"operationType": "delete"})
}

func TestGroupRecencyPipeline_RewritesOnly(t *testing.T) {
	m := matchStage(t, groupRecencyPipeline())

	op, ok := m["operationType"].(bson.M)
	require.True(t, ok)
	assert.ElementsMatch(t, bson.A{"update", "replace"}, op["$in"])
}

func TestConversationState_SetGroupsDetectsChange(t *testing.T) {
	at := time.Now().UTC()
	base := []model.Group{{ID: "g1", Name: "book club", UpdatedAt: at, MemberIDs: []string{"u1", "u2"}}}

	st := &conversationState{chats: make(map[string]model.Chat)}
	assert.True(t, st.setGroups(base), "first load is a change")
	assert.False(t, st.setGroups(base), "identical list must not re-emit")

	bumped := []model.Group{{ID: "g1", Name: "book club", UpdatedAt: at.Add(time.Second), MemberIDs: []string{"u1", "u2"}}}
	assert.True(t, st.setGroups(bumped), "recency bump is a change")

	joined := []model.Group{{ID: "g1", Name: "book club", UpdatedAt: at.Add(time.Second), MemberIDs: []string{"u1", "u2", "u3"}}}
	assert.True(t, st.setGroups(joined), "membership change is a change")

	assert.True(t, st.setGroups(nil), "losing the last group is a change")
	assert.False(t, st.setGroups(nil))
}

func TestConversationState_SetGroupsReflectsInSnapshot(t *testing.T) {
	st := &conversationState{chats: make(map[string]model.Chat)}
	st.put(model.Chat{ID: "c1", UserID1: "u1", UpdatedAt: time.Now().UTC()})

	st.setGroups([]model.Group{{ID: "g1", Name: "book club", UpdatedAt: time.Now().UTC().Add(time.Minute)}})

	views := st.snapshot()
	require.Len(t, views, 2)
	assert.Equal(t, "g1", views[0].ID)
	assert.Equal(t, "group", views[0].Kind)
	assert.Equal(t, "c1", views[1].ID)
}
