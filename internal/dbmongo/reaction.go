package dbmongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"GoConvo/internal/common"
	"GoConvo/internal/model"
)

func (s *MongoStore) AddReaction(ctx context.Context, reaction *model.MessageReaction) error {
	if reaction.CreatedAt.IsZero() {
		reaction.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Collection(colReactions).InsertOne(ctx, reaction)
	if isDuplicateKey(err) {
		return common.ErrConflict
	}
	return err
}

func (s *MongoStore) RemoveReaction(ctx context.Context, messageID, userID, emoji string) error {
	filter := bson.M{"messageId": messageID, "userId": userID, "emoji": emoji}
	res, err := s.db.Collection(colReactions).DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (s *MongoStore) FindReaction(ctx context.Context, messageID, userID, emoji string) (*model.MessageReaction, error) {
	filter := bson.M{"messageId": messageID, "userId": userID, "emoji": emoji}
	var reaction model.MessageReaction
	err := s.db.Collection(colReactions).FindOne(ctx, filter).Decode(&reaction)
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &reaction, nil
}

func (s *MongoStore) ListReactionsByMessage(ctx context.Context, messageID string) ([]model.MessageReaction, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := s.db.Collection(colReactions).Find(ctx, bson.M{"messageId": messageID}, opts)
	if err != nil {
		return nil, err
	}
	var reactions []model.MessageReaction
	return reactions, cursor.All(ctx, &reactions)
}

func (s *MongoStore) ListReactionsForMessages(ctx context.Context, messageIDs []string) (map[string][]model.MessageReaction, error) {
	out := make(map[string][]model.MessageReaction, len(messageIDs))
	if len(messageIDs) == 0 {
		return out, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := s.db.Collection(colReactions).Find(ctx, bson.M{"messageId": bson.M{"$in": messageIDs}}, opts)
	if err != nil {
		return nil, err
	}
	var reactions []model.MessageReaction
	if err := cursor.All(ctx, &reactions); err != nil {
		return nil, err
	}
	for _, r := range reactions {
		out[r.MessageID] = append(out[r.MessageID], r)
	}
	return out, nil
}
