package dbmongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"GoConvo/internal/common"
	"GoConvo/internal/model"
)

func (s *MongoStore) CreateMessage(ctx context.Context, msg *model.Message) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	msg.UpdatedAt = msg.CreatedAt
	_, err := s.db.Collection(colMessages).InsertOne(ctx, msg)
	return err
}

func (s *MongoStore) GetMessageByID(ctx context.Context, id string) (*model.Message, error) {
	var msg model.Message
	err := s.db.Collection(colMessages).FindOne(ctx, bson.M{"_id": id}).Decode(&msg)
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &msg, nil
}

func (s *MongoStore) GetMessagesByIDs(ctx context.Context, ids []string) (map[string]*model.Message, error) {
	out := make(map[string]*model.Message, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cursor, err := s.db.Collection(colMessages).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var msgs []model.Message
	if err := cursor.All(ctx, &msgs); err != nil {
		return nil, err
	}
	for i := range msgs {
		out[msgs[i].ID] = &msgs[i]
	}
	return out, nil
}

func (s *MongoStore) ListMessages(ctx context.Context, q model.MessageQuery) ([]model.Message, error) {
	filter := conversationFilter(q.Conversation)
	if q.After != nil {
		filter["createdAt"] = bson.M{"$gt": *q.After}
	}

	// Chronologically last N: sort newest-first, take N, reverse.
	if q.Limit > 0 {
		opts := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetLimit(int64(q.Limit))
		cursor, err := s.db.Collection(colMessages).Find(ctx, filter, opts)
		if err != nil {
			return nil, err
		}
		var msgs []model.Message
		if err := cursor.All(ctx, &msgs); err != nil {
			return nil, err
		}
		for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
			msgs[i], msgs[j] = msgs[j], msgs[i]
		}
		return msgs, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := s.db.Collection(colMessages).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var msgs []model.Message
	return msgs, cursor.All(ctx, &msgs)
}

func conversationFilter(ref model.ConversationRef) bson.M {
	switch ref.Kind {
	case model.KindChat:
		return bson.M{"chatId": ref.ID}
	case model.KindGroup:
		return bson.M{"groupId": ref.ID}
	default:
		return bson.M{}
	}
}

func (s *MongoStore) UpdateMessage(ctx context.Context, msg *model.Message) error {
	msg.UpdatedAt = time.Now().UTC()
	res, err := s.db.Collection(colMessages).ReplaceOne(ctx, bson.M{"_id": msg.ID}, msg)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (s *MongoStore) SoftDeleteMessage(ctx context.Context, id string, at time.Time) error {
	update := bson.M{"$set": bson.M{
		"content":            "",
		"deletedForEveryone": true,
		"deletedAt":          at,
		"updatedAt":          at,
	}}
	res, err := s.db.Collection(colMessages).UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}
