package dbmongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"GoConvo/internal/common"
	"GoConvo/internal/model"
)

func (s *MongoStore) CreateChat(ctx context.Context, chat *model.Chat) error {
	if chat.CreatedAt.IsZero() {
		chat.CreatedAt = time.Now().UTC()
	}
	chat.UpdatedAt = chat.CreatedAt
	_, err := s.db.Collection(colChats).InsertOne(ctx, chat)
	return err
}

func (s *MongoStore) GetChatByID(ctx context.Context, id string) (*model.Chat, error) {
	var chat model.Chat
	err := s.db.Collection(colChats).FindOne(ctx, bson.M{"_id": id}).Decode(&chat)
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &chat, nil
}

func (s *MongoStore) ListChatsByUser(ctx context.Context, userID string) ([]model.Chat, error) {
	filter := bson.M{"$or": []bson.M{{"userId1": userID}, {"userId2": userID}}}
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	cursor, err := s.db.Collection(colChats).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var chats []model.Chat
	return chats, cursor.All(ctx, &chats)
}

func (s *MongoStore) UpdateChat(ctx context.Context, chat *model.Chat) error {
	chat.UpdatedAt = time.Now().UTC()
	res, err := s.db.Collection(colChats).ReplaceOne(ctx, bson.M{"_id": chat.ID}, chat)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (s *MongoStore) DeleteChat(ctx context.Context, id string) error {
	res, err := s.db.Collection(colChats).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}
