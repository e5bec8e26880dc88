package dbmysql

import (
	"context"

	"gorm.io/gorm/clause"

	"GoConvo/internal/model"
)

func (s *MySQLStore) CreateGroup(ctx context.Context, group *model.Group) error {
	if err := s.db.WithContext(ctx).Create(group).Error; err != nil {
		return wrapConflict(err)
	}
	for _, uid := range group.MemberIDs {
		if err := s.AddGroupMember(ctx, group.ID, uid); err != nil {
			return err
		}
	}
	return nil
}

func (s *MySQLStore) GetGroupByID(ctx context.Context, id string) (*model.Group, error) {
	var group model.Group
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&group).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	group.MemberIDs, err = s.memberIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (s *MySQLStore) UpdateGroup(ctx context.Context, group *model.Group) error {
	return s.db.WithContext(ctx).Omit("MemberIDs").Save(group).Error
}

func (s *MySQLStore) memberIDs(ctx context.Context, groupID string) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).
		Model(&model.GroupMember{}).
		Where("group_id = ?", groupID).
		Order("user_id ASC").
		Pluck("user_id", &ids).Error
	return ids, err
}

func (s *MySQLStore) ListGroupsByUser(ctx context.Context, userID string) ([]model.Group, error) {
	var groups []model.Group
	err := s.db.WithContext(ctx).
		Joins("JOIN group_members ON group_members.group_id = groups.id").
		Where("group_members.user_id = ?", userID).
		Order("groups.updated_at DESC").
		Find(&groups).Error
	if err != nil {
		return nil, err
	}
	for i := range groups {
		if groups[i].MemberIDs, err = s.memberIDs(ctx, groups[i].ID); err != nil {
			return nil, err
		}
	}
	return groups, nil
}

// AddGroupMember is idempotent: the unique (group, user) index plus
// ON CONFLICT DO NOTHING makes a repeat join a no-op.
func (s *MySQLStore) AddGroupMember(ctx context.Context, groupID, userID string) error {
	member := model.GroupMember{GroupID: groupID, UserID: userID}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&member).Error
}

func (s *MySQLStore) RemoveGroupMember(ctx context.Context, groupID, userID string) error {
	return s.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Delete(&model.GroupMember{}).Error
}

func (s *MySQLStore) IsGroupMember(ctx context.Context, groupID, userID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error
	return count > 0, err
}
