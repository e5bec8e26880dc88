package dbmysql

import (
	"context"

	"GoConvo/internal/common"
	"GoConvo/internal/model"
)

func (s *MySQLStore) CreateUser(ctx context.Context, user *model.User) error {
	return wrapConflict(s.db.WithContext(ctx).Create(user).Error)
}

func (s *MySQLStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &user, nil
}

func (s *MySQLStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &user, nil
}

func (s *MySQLStore) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("username = ?", common.NormalizeUsername(username)).First(&user).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &user, nil
}

func (s *MySQLStore) GetUsersByIDs(ctx context.Context, ids []string) (map[string]*model.User, error) {
	out := make(map[string]*model.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []model.User
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for i := range users {
		out[users[i].ID] = &users[i]
	}
	return out, nil
}

func (s *MySQLStore) SearchUsersByPrefix(ctx context.Context, prefix string, limit int) ([]model.User, error) {
	var users []model.User
	q := s.db.WithContext(ctx).
		Where("username LIKE ?", common.NormalizeUsername(prefix)+"%").
		Order("username ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	return users, q.Find(&users).Error
}

func (s *MySQLStore) UpdateUser(ctx context.Context, user *model.User) error {
	return s.db.WithContext(ctx).Save(user).Error
}
