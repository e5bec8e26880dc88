package view_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"GoConvo/internal/model"
	"GoConvo/internal/view"
	"GoConvo/internal/view/mocks"
)

func strPtr(s string) *string { return &s }

func passthroughCodec(ctrl *gomock.Controller) *mocks.MockCodec {
	codec := mocks.NewMockCodec(ctrl)
	codec.EXPECT().Decrypt(gomock.Any(), gomock.Any()).
		DoAndReturn(func(text string, _ model.ConversationRef) string { return text }).
		AnyTimes()
	return codec
}

func TestBuilder_BuildMessages_ResolvesSendersAndReactions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	resolver := mocks.NewMockResolver(ctrl)
	builder := view.NewBuilder(passthroughCodec(ctrl), resolver)

	now := time.Now().UTC()
	chatID := strPtr("chat-1")
	msgs := []model.Message{
		{ID: "m1", Content: "first", SenderID: "u1", ChatID: chatID, CreatedAt: now},
		{ID: "m2", Content: "second", SenderID: "u2", ChatID: chatID, CreatedAt: now.Add(time.Second)},
	}

	resolver.EXPECT().ListReactionsForMessages(gomock.Any(), []string{"m1", "m2"}).
		Return(map[string][]model.MessageReaction{
			"m1": {{ID: "r1", MessageID: "m1", UserID: "u2", Emoji: "👍", CreatedAt: now}},
		}, nil)
	resolver.EXPECT().GetMessagesByIDs(gomock.Any(), gomock.Len(0)).
		Return(map[string]*model.Message{}, nil)
	resolver.EXPECT().GetUsersByIDs(gomock.Any(), []string{"u1", "u2"}).
		Return(map[string]*model.User{
			"u1": {ID: "u1", DisplayName: "Alice"},
			"u2": {ID: "u2", DisplayName: "Bob"},
		}, nil)

	views, err := builder.BuildMessages(context.Background(), msgs, model.MessageQuery{Conversation: model.ChatRef("chat-1")})
	require.NoError(t, err)
	require.Len(t, views, 2)

	assert.Equal(t, "m1", views[0].ID)
	assert.Equal(t, "Alice", views[0].Sender.Name)
	require.Len(t, views[0].Reactions, 1)
	assert.Equal(t, "👍", views[0].Reactions[0].Emoji)

	assert.Equal(t, "Bob", views[1].Sender.Name)
	assert.Empty(t, views[1].Reactions)
}

func TestBuilder_BuildMessages_ReplyPreview(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	resolver := mocks.NewMockResolver(ctrl)
	builder := view.NewBuilder(passthroughCodec(ctrl), resolver)

	now := time.Now().UTC()
	chatID := strPtr("chat-1")
	msgs := []model.Message{
		{ID: "m2", Content: "replying", SenderID: "u2", ChatID: chatID, ReplyToID: strPtr("m1"), CreatedAt: now},
	}
	target := &model.Message{ID: "m1", Content: "original", SenderID: "u1", ChatID: chatID, CreatedAt: now.Add(-time.Minute)}

	resolver.EXPECT().ListReactionsForMessages(gomock.Any(), []string{"m2"}).
		Return(map[string][]model.MessageReaction{}, nil)
	resolver.EXPECT().GetMessagesByIDs(gomock.Any(), []string{"m1"}).
		Return(map[string]*model.Message{"m1": target}, nil)
	resolver.EXPECT().GetUsersByIDs(gomock.Any(), []string{"u2", "u1"}).
		Return(map[string]*model.User{
			"u1": {ID: "u1", DisplayName: "Alice"},
			"u2": {ID: "u2", DisplayName: "Bob"},
		}, nil)

	views, err := builder.BuildMessages(context.Background(), msgs, model.MessageQuery{Conversation: model.ChatRef("chat-1")})
	require.NoError(t, err)
	require.Len(t, views, 1)

	require.NotNil(t, views[0].ReplyTo)
	assert.Equal(t, "m1", views[0].ReplyTo.ID)
	assert.Equal(t, "original", views[0].ReplyTo.Content)
	assert.Equal(t, "Alice", views[0].ReplyTo.SenderName)
}

func TestBuilder_BuildMessages_SoftDeletedContentIsEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	resolver := mocks.NewMockResolver(ctrl)
	codec := mocks.NewMockCodec(ctrl)
	// Decrypt must never be called for a deleted message.
	builder := view.NewBuilder(codec, resolver)

	msgs := []model.Message{
		{ID: "m1", Content: "", SenderID: "u1", ChatID: strPtr("chat-1"), DeletedForEveryone: true, CreatedAt: time.Now().UTC()},
	}

	resolver.EXPECT().ListReactionsForMessages(gomock.Any(), gomock.Any()).Return(nil, nil)
	resolver.EXPECT().GetMessagesByIDs(gomock.Any(), gomock.Any()).Return(nil, nil)
	resolver.EXPECT().GetUsersByIDs(gomock.Any(), gomock.Any()).Return(nil, nil)

	views, err := builder.BuildMessages(context.Background(), msgs, model.MessageQuery{Conversation: model.ChatRef("chat-1")})
	require.NoError(t, err)
	require.Len(t, views, 1)

	assert.True(t, views[0].DeletedForEveryone)
	assert.Empty(t, views[0].Content)
}

func TestBuilder_BuildMessages_SortsAndDeduplicates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	resolver := mocks.NewMockResolver(ctrl)
	builder := view.NewBuilder(passthroughCodec(ctrl), resolver)

	now := time.Now().UTC()
	chatID := strPtr("chat-1")
	msgs := []model.Message{
		{ID: "m3", Content: "c", SenderID: "u1", ChatID: chatID, CreatedAt: now.Add(2 * time.Second)},
		{ID: "m1", Content: "a", SenderID: "u1", ChatID: chatID, CreatedAt: now},
		{ID: "m1", Content: "a", SenderID: "u1", ChatID: chatID, CreatedAt: now}, // duplicate record
		{ID: "m2", Content: "b", SenderID: "u1", ChatID: chatID, CreatedAt: now.Add(time.Second)},
	}

	resolver.EXPECT().ListReactionsForMessages(gomock.Any(), []string{"m3", "m1", "m2"}).Return(nil, nil)
	resolver.EXPECT().GetMessagesByIDs(gomock.Any(), gomock.Any()).Return(nil, nil)
	resolver.EXPECT().GetUsersByIDs(gomock.Any(), gomock.Any()).Return(nil, nil)

	views, err := builder.BuildMessages(context.Background(), msgs, model.MessageQuery{Conversation: model.ChatRef("chat-1")})
	require.NoError(t, err)

	require.Len(t, views, 3)
	assert.Equal(t, []string{"m1", "m2", "m3"}, []string{views[0].ID, views[1].ID, views[2].ID})
}

func TestBuilder_BuildMessages_LimitKeepsChronologicalTail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	resolver := mocks.NewMockResolver(ctrl)
	builder := view.NewBuilder(passthroughCodec(ctrl), resolver)

	now := time.Now().UTC()
	chatID := strPtr("chat-1")
	var msgs []model.Message
	for i, id := range []string{"m1", "m2", "m3", "m4"} {
		msgs = append(msgs, model.Message{ID: id, Content: id, SenderID: "u1", ChatID: chatID, CreatedAt: now.Add(time.Duration(i) * time.Second)})
	}

	resolver.EXPECT().ListReactionsForMessages(gomock.Any(), gomock.Any()).Return(nil, nil)
	resolver.EXPECT().GetMessagesByIDs(gomock.Any(), gomock.Any()).Return(nil, nil)
	resolver.EXPECT().GetUsersByIDs(gomock.Any(), gomock.Any()).Return(nil, nil)

	views, err := builder.BuildMessages(context.Background(), msgs, model.MessageQuery{Conversation: model.ChatRef("chat-1"), Limit: 2})
	require.NoError(t, err)

	require.Len(t, views, 2)
	assert.Equal(t, "m3", views[0].ID)
	assert.Equal(t, "m4", views[1].ID)
}

func TestBuilder_BuildMessages_ResolverErrorYieldsNoPartialView(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	resolver := mocks.NewMockResolver(ctrl)
	builder := view.NewBuilder(passthroughCodec(ctrl), resolver)

	msgs := []model.Message{
		{ID: "m1", Content: "a", SenderID: "u1", ChatID: strPtr("chat-1"), CreatedAt: time.Now().UTC()},
	}

	resolver.EXPECT().ListReactionsForMessages(gomock.Any(), gomock.Any()).Return(nil, assert.AnError)
	resolver.EXPECT().GetMessagesByIDs(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	resolver.EXPECT().GetUsersByIDs(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	views, err := builder.BuildMessages(context.Background(), msgs, model.MessageQuery{Conversation: model.ChatRef("chat-1")})
	assert.Error(t, err)
	assert.Nil(t, views)
}

func TestBuilder_RebuildReactions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	resolver := mocks.NewMockResolver(ctrl)
	builder := view.NewBuilder(passthroughCodec(ctrl), resolver)

	now := time.Now().UTC()
	views := []view.MessageView{
		{ID: "m1", Content: "a", Reactions: []view.ReactionView{{ID: "r1", UserID: "u2", Emoji: "👍", CreatedAt: now}}},
	}

	// Unchanged reaction set: no re-emit.
	resolver.EXPECT().ListReactionsForMessages(gomock.Any(), []string{"m1"}).
		Return(map[string][]model.MessageReaction{
			"m1": {{ID: "r1", MessageID: "m1", UserID: "u2", Emoji: "👍", CreatedAt: now}},
		}, nil)
	_, changed, err := builder.RebuildReactions(context.Background(), views)
	require.NoError(t, err)
	assert.False(t, changed)

	// A removed reaction changes the view.
	resolver.EXPECT().ListReactionsForMessages(gomock.Any(), []string{"m1"}).
		Return(map[string][]model.MessageReaction{}, nil)
	out, changed, err := builder.RebuildReactions(context.Background(), views)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Empty(t, out[0].Reactions)
	assert.Equal(t, "a", out[0].Content)
}

func TestBuilder_RebuildReactions_EmptyView(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	builder := view.NewBuilder(passthroughCodec(ctrl), mocks.NewMockResolver(ctrl))

	_, changed, err := builder.RebuildReactions(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, changed)
}
