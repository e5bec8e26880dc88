package dbmysql

import (
	"context"

	"gorm.io/gorm/clause"

	"GoConvo/internal/model"
)

func (s *MySQLStore) BlockUser(ctx context.Context, userID, blockedID string) error {
	row := model.BlockedUser{UserID: userID, BlockedID: blockedID}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).Error
}

func (s *MySQLStore) UnblockUser(ctx context.Context, userID, blockedID string) error {
	return s.db.WithContext(ctx).
		Where("user_id = ? AND blocked_id = ?", userID, blockedID).
		Delete(&model.BlockedUser{}).Error
}

func (s *MySQLStore) ListBlockedUsers(ctx context.Context, userID string) ([]model.BlockedUser, error) {
	var rows []model.BlockedUser
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (s *MySQLStore) IsBlocked(ctx context.Context, userID, blockedID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.BlockedUser{}).
		Where("user_id = ? AND blocked_id = ?", userID, blockedID).
		Count(&count).Error
	return count > 0, err
}
