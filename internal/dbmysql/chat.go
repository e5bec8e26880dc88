package dbmysql

import (
	"context"

	"GoConvo/internal/model"
)

func (s *MySQLStore) CreateChat(ctx context.Context, chat *model.Chat) error {
	return s.db.WithContext(ctx).Create(chat).Error
}

func (s *MySQLStore) GetChatByID(ctx context.Context, id string) (*model.Chat, error) {
	var chat model.Chat
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&chat).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &chat, nil
}

func (s *MySQLStore) ListChatsByUser(ctx context.Context, userID string) ([]model.Chat, error) {
	var chats []model.Chat
	err := s.db.WithContext(ctx).
		Where("user_id1 = ? OR user_id2 = ?", userID, userID).
		Order("updated_at DESC").
		Find(&chats).Error
	return chats, err
}

func (s *MySQLStore) UpdateChat(ctx context.Context, chat *model.Chat) error {
	return s.db.WithContext(ctx).Save(chat).Error
}

func (s *MySQLStore) DeleteChat(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Chat{}).Error
}
