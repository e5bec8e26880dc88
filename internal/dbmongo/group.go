package dbmongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"GoConvo/internal/common"
	"GoConvo/internal/model"
)

func (s *MongoStore) CreateGroup(ctx context.Context, group *model.Group) error {
	if group.CreatedAt.IsZero() {
		group.CreatedAt = time.Now().UTC()
	}
	group.UpdatedAt = group.CreatedAt
	members := group.MemberIDs
	group.MemberIDs = nil // membership lives in its own collection
	_, err := s.db.Collection(colGroups).InsertOne(ctx, group)
	group.MemberIDs = members
	if isDuplicateKey(err) {
		return common.ErrConflict
	}
	if err != nil {
		return err
	}
	for _, uid := range members {
		if err := s.AddGroupMember(ctx, group.ID, uid); err != nil {
			return err
		}
	}
	return nil
}

func (s *MongoStore) GetGroupByID(ctx context.Context, id string) (*model.Group, error) {
	var group model.Group
	err := s.db.Collection(colGroups).FindOne(ctx, bson.M{"_id": id}).Decode(&group)
	if err != nil {
		return nil, wrapNotFound(err)
	}
	group.MemberIDs, err = s.memberIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (s *MongoStore) UpdateGroup(ctx context.Context, group *model.Group) error {
	group.UpdatedAt = time.Now().UTC()
	members := group.MemberIDs
	group.MemberIDs = nil
	res, err := s.db.Collection(colGroups).ReplaceOne(ctx, bson.M{"_id": group.ID}, group)
	group.MemberIDs = members
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (s *MongoStore) memberIDs(ctx context.Context, groupID string) ([]string, error) {
	opts := options.Find().SetSort(bson.D{{Key: "userId", Value: 1}})
	cursor, err := s.db.Collection(colGroupMembers).Find(ctx, bson.M{"groupId": groupID}, opts)
	if err != nil {
		return nil, err
	}
	var rows []model.GroupMember
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.UserID
	}
	return ids, nil
}

func (s *MongoStore) ListGroupsByUser(ctx context.Context, userID string) ([]model.Group, error) {
	cursor, err := s.db.Collection(colGroupMembers).Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	var rows []model.GroupMember
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.GroupID
	}
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	groupCursor, err := s.db.Collection(colGroups).Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	var groups []model.Group
	if err := groupCursor.All(ctx, &groups); err != nil {
		return nil, err
	}
	for i := range groups {
		if groups[i].MemberIDs, err = s.memberIDs(ctx, groups[i].ID); err != nil {
			return nil, err
		}
	}
	return groups, nil
}

// AddGroupMember upserts on the unique (group, user) index, so a repeat
// join is a no-op rather than an error.
func (s *MongoStore) AddGroupMember(ctx context.Context, groupID, userID string) error {
	filter := bson.M{"groupId": groupID, "userId": userID}
	update := bson.M{"$setOnInsert": bson.M{
		"groupId":   groupID,
		"userId":    userID,
		"createdAt": time.Now().UTC(),
	}}
	_, err := s.db.Collection(colGroupMembers).UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (s *MongoStore) RemoveGroupMember(ctx context.Context, groupID, userID string) error {
	_, err := s.db.Collection(colGroupMembers).DeleteOne(ctx, bson.M{"groupId": groupID, "userId": userID})
	return err
}

func (s *MongoStore) IsGroupMember(ctx context.Context, groupID, userID string) (bool, error) {
	count, err := s.db.Collection(colGroupMembers).CountDocuments(ctx, bson.M{"groupId": groupID, "userId": userID})
	return count > 0, err
}
