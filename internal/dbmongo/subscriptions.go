package dbmongo

import (
	"context"
	"log"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"GoConvo/internal/model"
	"GoConvo/internal/view"
)

// SubscribeMessages opens a change stream on the conversation's messages
// plus a second stream on the reaction collection. Message events re-run
// the full list+build; reaction events only recompute the reaction lists
// of the messages currently held in view and re-emit when something
// actually changed. Closing the handle tears down both streams.
func (s *MongoStore) SubscribeMessages(ctx context.Context, q model.MessageQuery, cb func([]view.MessageView)) (*view.Subscription, error) {
	sub := view.NewSubscription()
	ctx, cancel := context.WithCancel(ctx)
	sub.OnClose(cancel)

	msgPipeline := mongo.Pipeline{bson.D{{Key: "$match", Value: matchConversation(q.Conversation)}}}
	msgStream, err := s.db.Collection(colMessages).Watch(ctx, msgPipeline,
		options.ChangeStream().SetFullDocument(options.UpdateLookup))
	if err != nil {
		cancel()
		return nil, err
	}

	reactStream, err := s.db.Collection(colReactions).Watch(ctx, reactionPipeline())
	if err != nil {
		msgStream.Close(context.Background())
		cancel()
		return nil, err
	}

	rebuild := func() {
		msgs, err := s.ListMessages(ctx, q)
		if err != nil {
			if ctx.Err() == nil {
				log.Printf("message subscription refetch failed: %v", err)
			}
			return
		}
		views, err := s.builder.BuildMessages(ctx, msgs, q)
		if err != nil {
			if ctx.Err() == nil {
				log.Printf("message subscription build failed: %v", err)
			}
			return
		}
		if !sub.Active() {
			return
		}
		sub.SetLastMessages(views)
		cb(views)
	}

	go func() {
		defer msgStream.Close(context.Background())
		rebuild()
		for msgStream.Next(ctx) {
			rebuild()
		}
	}()

	go func() {
		defer reactStream.Close(context.Background())
		for reactStream.Next(ctx) {
			s.recomputeReactions(ctx, sub, cb)
		}
	}()

	return sub, nil
}

func (s *MongoStore) recomputeReactions(ctx context.Context, sub *view.Subscription, cb func([]view.MessageView)) {
	views := sub.LastMessages()
	updated, changed, err := s.builder.RebuildReactions(ctx, views)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("reaction recompute failed: %v", err)
		}
		return
	}
	if !changed || !sub.Active() {
		return
	}
	sub.SetLastMessages(updated)
	cb(updated)
}

func matchConversation(ref model.ConversationRef) bson.M {
	switch ref.Kind {
	case model.KindGroup:
		return bson.M{"fullDocument.groupId": ref.ID}
	default:
		return bson.M{"fullDocument.chatId": ref.ID}
	}
}

// reactionPipeline bounds the reaction stream to the only operations a
// reaction row can see, inserts and deletes, so unrelated collection
// traffic never wakes the recompute loop.
func reactionPipeline() mongo.Pipeline {
	return mongo.Pipeline{bson.D{{Key: "$match", Value: bson.M{
		"operationType": bson.M{"$in": bson.A{"insert", "delete"}},
	}}}}
}

type chatEvent struct {
	OperationType string     `bson:"operationType"`
	FullDocument  model.Chat `bson:"fullDocument"`
	DocumentKey   struct {
		ID string `bson:"_id"`
	} `bson:"documentKey"`
}

// SubscribeConversations opens two chat change streams, one per
// participant slot, merges their results into one id-keyed map and
// re-emits the full sorted list on every change to either stream. Two
// more streams track group state: joins and leaves through the member
// collection, recency bumps through the group collection. Each group
// event triggers a re-query of the caller's groups and a re-emit only
// when the list actually changed, so the push path ages the same way
// the polling path does.
func (s *MongoStore) SubscribeConversations(ctx context.Context, userID string, cb func([]view.ConversationView)) (*view.Subscription, error) {
	sub := view.NewSubscription()
	ctx, cancel := context.WithCancel(ctx)
	sub.OnClose(cancel)

	var streams []*mongo.ChangeStream
	abort := func() {
		for _, st := range streams {
			st.Close(context.Background())
		}
		cancel()
	}

	stream1, err := s.watchChatsBySlot(ctx, "fullDocument.userId1", userID)
	if err != nil {
		abort()
		return nil, err
	}
	streams = append(streams, stream1)
	stream2, err := s.watchChatsBySlot(ctx, "fullDocument.userId2", userID)
	if err != nil {
		abort()
		return nil, err
	}
	streams = append(streams, stream2)
	memberStream, err := s.db.Collection(colGroupMembers).Watch(ctx,
		memberPipeline(userID), options.ChangeStream().SetFullDocument(options.UpdateLookup))
	if err != nil {
		abort()
		return nil, err
	}
	streams = append(streams, memberStream)
	recencyStream, err := s.db.Collection(colGroups).Watch(ctx, groupRecencyPipeline())
	if err != nil {
		abort()
		return nil, err
	}
	streams = append(streams, recencyStream)

	state := &conversationState{chats: make(map[string]model.Chat)}

	chats, err := s.ListChatsByUser(ctx, userID)
	if err != nil {
		abort()
		return nil, err
	}
	groups, err := s.ListGroupsByUser(ctx, userID)
	if err != nil {
		abort()
		return nil, err
	}
	state.groups = groups
	for _, c := range chats {
		state.chats[c.ID] = c
	}

	emit := func() {
		views := state.snapshot()
		if !sub.Active() {
			return
		}
		cb(views)
	}
	emit()

	consume := func(stream *mongo.ChangeStream) {
		defer stream.Close(context.Background())
		for stream.Next(ctx) {
			var ev chatEvent
			if err := stream.Decode(&ev); err != nil {
				log.Printf("conversation stream decode failed: %v", err)
				continue
			}
			switch ev.OperationType {
			case "delete":
				state.remove(ev.DocumentKey.ID)
			default:
				if ev.FullDocument.ID == "" {
					continue
				}
				state.put(ev.FullDocument)
			}
			emit()
		}
	}

	refreshGroups := func() {
		groups, err := s.ListGroupsByUser(ctx, userID)
		if err != nil {
			if ctx.Err() == nil {
				log.Printf("conversation group refresh failed: %v", err)
			}
			return
		}
		if state.setGroups(groups) {
			emit()
		}
	}

	consumeGroups := func(stream *mongo.ChangeStream) {
		defer stream.Close(context.Background())
		for stream.Next(ctx) {
			refreshGroups()
		}
	}

	go consume(stream1)
	go consume(stream2)
	go consumeGroups(memberStream)
	go consumeGroups(recencyStream)

	return sub, nil
}

// memberPipeline passes membership rows for one user plus deletes, which
// carry no full document and are resolved by the re-query instead.
func memberPipeline(userID string) mongo.Pipeline {
	return mongo.Pipeline{bson.D{{Key: "$match", Value: bson.M{
		"$or": []bson.M{
			{"fullDocument.userId": userID},
			{"operationType": "delete"},
		},
	}}}}
}

// groupRecencyPipeline passes only group rewrites. Creation and removal
// of groups always show up on the member collection first, so inserts
// and deletes here would be redundant wakeups.
func groupRecencyPipeline() mongo.Pipeline {
	return mongo.Pipeline{bson.D{{Key: "$match", Value: bson.M{
		"operationType": bson.M{"$in": bson.A{"update", "replace"}},
	}}}}
}

func (s *MongoStore) watchChatsBySlot(ctx context.Context, field, userID string) (*mongo.ChangeStream, error) {
	pipeline := mongo.Pipeline{bson.D{{Key: "$match", Value: bson.M{
		"$or": []bson.M{
			{field: userID},
			{"operationType": "delete"},
		},
	}}}}
	return s.db.Collection(colChats).Watch(ctx, pipeline,
		options.ChangeStream().SetFullDocument(options.UpdateLookup))
}

// conversationState is the id-keyed merge of both participant streams.
// Each subscription owns its own instance; handles never share state.
type conversationState struct {
	mu     sync.Mutex
	chats  map[string]model.Chat
	groups []model.Group
}

func (st *conversationState) put(c model.Chat) {
	st.mu.Lock()
	st.chats[c.ID] = c
	st.mu.Unlock()
}

func (st *conversationState) remove(id string) {
	st.mu.Lock()
	delete(st.chats, id)
	st.mu.Unlock()
}

// setGroups swaps in a freshly queried group list and reports whether
// anything visible to the conversation view changed.
func (st *conversationState) setGroups(groups []model.Group) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if groupsEqual(st.groups, groups) {
		return false
	}
	st.groups = groups
	return true
}

func groupsEqual(a, b []model.Group) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID ||
			!a[i].UpdatedAt.Equal(b[i].UpdatedAt) ||
			len(a[i].MemberIDs) != len(b[i].MemberIDs) {
			return false
		}
	}
	return true
}

func (st *conversationState) snapshot() []view.ConversationView {
	st.mu.Lock()
	chats := make([]model.Chat, 0, len(st.chats))
	for _, c := range st.chats {
		chats = append(chats, c)
	}
	groups := st.groups
	st.mu.Unlock()
	return view.BuildConversations(chats, groups)
}
