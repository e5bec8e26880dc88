package dbmongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"GoConvo/internal/common"
	"GoConvo/internal/model"
)

func (s *MongoStore) CreateRoom(ctx context.Context, room *model.Room) error {
	if room.CreatedAt.IsZero() {
		room.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Collection(colRooms).InsertOne(ctx, room)
	if isDuplicateKey(err) {
		return common.ErrConflict
	}
	return err
}

func (s *MongoStore) GetRoomByID(ctx context.Context, id string) (*model.Room, error) {
	var room model.Room
	err := s.db.Collection(colRooms).FindOne(ctx, bson.M{"_id": id}).Decode(&room)
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &room, nil
}

func (s *MongoStore) ListRooms(ctx context.Context) ([]model.Room, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := s.db.Collection(colRooms).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	var rooms []model.Room
	return rooms, cursor.All(ctx, &rooms)
}

func (s *MongoStore) BlockUser(ctx context.Context, userID, blockedID string) error {
	filter := bson.M{"userId": userID, "blockedId": blockedID}
	update := bson.M{"$setOnInsert": bson.M{
		"userId":    userID,
		"blockedId": blockedID,
		"createdAt": time.Now().UTC(),
	}}
	_, err := s.db.Collection(colBlocked).UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (s *MongoStore) UnblockUser(ctx context.Context, userID, blockedID string) error {
	_, err := s.db.Collection(colBlocked).DeleteOne(ctx, bson.M{"userId": userID, "blockedId": blockedID})
	return err
}

func (s *MongoStore) ListBlockedUsers(ctx context.Context, userID string) ([]model.BlockedUser, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := s.db.Collection(colBlocked).Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	var rows []model.BlockedUser
	return rows, cursor.All(ctx, &rows)
}

func (s *MongoStore) IsBlocked(ctx context.Context, userID, blockedID string) (bool, error) {
	count, err := s.db.Collection(colBlocked).CountDocuments(ctx, bson.M{"userId": userID, "blockedId": blockedID})
	return count > 0, err
}
