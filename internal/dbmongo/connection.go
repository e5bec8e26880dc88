// Package dbmongo is the push-capable storage adapter: a MongoDB mapping
// whose live subscriptions are backed by collection change streams.
package dbmongo

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoClient struct {
	Client   *mongo.Client
	Database *mongo.Database
}

func NewMongoConnection(uri, database string) (*MongoClient, error) {
	clientOptions := options.Client().ApplyURI(uri)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	log.Println("✅ Connected to MongoDB successfully")
	return &MongoClient{
		Client:   client,
		Database: client.Database(database),
	}, nil
}

func (mc *MongoClient) Close(ctx context.Context) error {
	return mc.Client.Disconnect(ctx)
}

// EnsureIndexes creates the unique indexes the data model relies on:
// one reaction per (message, user, emoji), one membership row per
// (group, user), unique usernames and emails.
func (mc *MongoClient) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	_, err := mc.Database.Collection(colUsers).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
	})
	if err != nil {
		return fmt.Errorf("failed to index users: %w", err)
	}

	_, err = mc.Database.Collection(colReactions).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "messageId", Value: 1}, {Key: "userId", Value: 1}, {Key: "emoji", Value: 1}},
		Options: unique,
	})
	if err != nil {
		return fmt.Errorf("failed to index reactions: %w", err)
	}

	_, err = mc.Database.Collection(colGroupMembers).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "groupId", Value: 1}, {Key: "userId", Value: 1}},
		Options: unique,
	})
	if err != nil {
		return fmt.Errorf("failed to index group members: %w", err)
	}

	_, err = mc.Database.Collection(colBlocked).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "blockedId", Value: 1}},
		Options: unique,
	})
	if err != nil {
		return fmt.Errorf("failed to index blocked users: %w", err)
	}

	_, err = mc.Database.Collection(colMessages).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "chatId", Value: 1}, {Key: "createdAt", Value: 1}}},
		{Keys: bson.D{{Key: "groupId", Value: 1}, {Key: "createdAt", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to index messages: %w", err)
	}

	return nil
}
