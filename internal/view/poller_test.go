package view

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GoConvo/internal/model"
)

// fakeSource is a mutable pull backend for poller tests.
type fakeSource struct {
	mu     sync.Mutex
	msgs   []model.Message
	chats  []model.Chat
	groups []model.Group
}

func (f *fakeSource) ListMessages(ctx context.Context, q model.MessageQuery) ([]model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Message(nil), f.msgs...), nil
}

func (f *fakeSource) ListChatsByUser(ctx context.Context, userID string) ([]model.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Chat(nil), f.chats...), nil
}

func (f *fakeSource) ListGroupsByUser(ctx context.Context, userID string) ([]model.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Group(nil), f.groups...), nil
}

func (f *fakeSource) addMessage(m model.Message) {
	f.mu.Lock()
	f.msgs = append(f.msgs, m)
	f.mu.Unlock()
}

// fakeResolver resolves nothing; poller tests only care about emissions.
type fakeResolver struct{}

func (fakeResolver) GetUsersByIDs(ctx context.Context, ids []string) (map[string]*model.User, error) {
	return nil, nil
}

func (fakeResolver) GetMessagesByIDs(ctx context.Context, ids []string) (map[string]*model.Message, error) {
	return nil, nil
}

func (fakeResolver) ListReactionsForMessages(ctx context.Context, messageIDs []string) (map[string][]model.MessageReaction, error) {
	return nil, nil
}

type plainCodec struct{}

func (plainCodec) Decrypt(text string, ref model.ConversationRef) string { return text }

func collectEmissions(t *testing.T) (func([]MessageView), func() [][]MessageView) {
	t.Helper()
	var mu sync.Mutex
	var got [][]MessageView
	cb := func(views []MessageView) {
		mu.Lock()
		got = append(got, views)
		mu.Unlock()
	}
	snapshot := func() [][]MessageView {
		mu.Lock()
		defer mu.Unlock()
		return append([][]MessageView(nil), got...)
	}
	return cb, snapshot
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition never became true")
}

func TestPoller_SubscribeMessages_EmitsInitialAndOnChange(t *testing.T) {
	src := &fakeSource{}
	chatID := "chat-1"
	src.addMessage(model.Message{ID: "m1", Content: "a", SenderID: "u1", ChatID: &chatID, CreatedAt: time.Now().UTC()})

	p := NewPoller(NewBuilder(plainCodec{}, fakeResolver{}), 10*time.Millisecond, 10*time.Millisecond)
	cb, snapshot := collectEmissions(t)

	sub := p.SubscribeMessages(context.Background(), src, model.MessageQuery{Conversation: model.ChatRef(chatID)}, cb)
	defer sub.Close()

	waitFor(t, func() bool { return len(snapshot()) >= 1 })
	require.Len(t, snapshot()[0], 1)

	src.addMessage(model.Message{ID: "m2", Content: "b", SenderID: "u1", ChatID: &chatID, CreatedAt: time.Now().UTC()})
	waitFor(t, func() bool { return len(snapshot()) >= 2 })

	last := snapshot()[len(snapshot())-1]
	assert.Len(t, last, 2)
	assert.Equal(t, last, sub.LastMessages())
}

func TestPoller_SubscribeMessages_NoReEmitWithoutChange(t *testing.T) {
	src := &fakeSource{}
	chatID := "chat-1"
	src.addMessage(model.Message{ID: "m1", Content: "a", SenderID: "u1", ChatID: &chatID, CreatedAt: time.Now().UTC()})

	p := NewPoller(NewBuilder(plainCodec{}, fakeResolver{}), 5*time.Millisecond, 5*time.Millisecond)
	cb, snapshot := collectEmissions(t)

	sub := p.SubscribeMessages(context.Background(), src, model.MessageQuery{Conversation: model.ChatRef(chatID)}, cb)
	defer sub.Close()

	waitFor(t, func() bool { return len(snapshot()) >= 1 })

	// Let several poll cycles pass with no writes.
	time.Sleep(60 * time.Millisecond)
	assert.Len(t, snapshot(), 1)
}

func TestPoller_SubscribeMessages_StopsAfterClose(t *testing.T) {
	src := &fakeSource{}
	chatID := "chat-1"

	p := NewPoller(NewBuilder(plainCodec{}, fakeResolver{}), 5*time.Millisecond, 5*time.Millisecond)
	cb, snapshot := collectEmissions(t)

	sub := p.SubscribeMessages(context.Background(), src, model.MessageQuery{Conversation: model.ChatRef(chatID)}, cb)
	sub.Close()

	src.addMessage(model.Message{ID: "m1", Content: "a", SenderID: "u1", ChatID: &chatID, CreatedAt: time.Now().UTC()})
	time.Sleep(30 * time.Millisecond)

	// The initial empty view may have been emitted before Close; nothing
	// arrives after.
	before := len(snapshot())
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, before, len(snapshot()))
}

func TestPoller_SubscribeConversations_MergesAndSorts(t *testing.T) {
	now := time.Now().UTC()
	u2 := "u2"
	src := &fakeSource{
		chats:  []model.Chat{{ID: "c1", UserID1: "u1", UserID2: &u2, UpdatedAt: now.Add(-time.Hour)}},
		groups: []model.Group{{ID: "g1", Name: "team", UpdatedAt: now}},
	}

	p := NewPoller(NewBuilder(plainCodec{}, fakeResolver{}), 5*time.Millisecond, 5*time.Millisecond)

	var mu sync.Mutex
	var got [][]ConversationView
	sub := p.SubscribeConversations(context.Background(), src, "u1", func(views []ConversationView) {
		mu.Lock()
		got = append(got, views)
		mu.Unlock()
	})
	defer sub.Close()

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) >= 1
	})

	mu.Lock()
	first := got[0]
	mu.Unlock()

	require.Len(t, first, 2)
	assert.Equal(t, "g1", first[0].ID)
	assert.Equal(t, "group", first[0].Kind)
	assert.Equal(t, "c1", first[1].ID)
	assert.Equal(t, "chat", first[1].Kind)
}
