package dbmysql

import (
	"context"

	"GoConvo/internal/common"
	"GoConvo/internal/model"
)

func (s *MySQLStore) AddReaction(ctx context.Context, reaction *model.MessageReaction) error {
	return wrapConflict(s.db.WithContext(ctx).Create(reaction).Error)
}

func (s *MySQLStore) RemoveReaction(ctx context.Context, messageID, userID, emoji string) error {
	res := s.db.WithContext(ctx).
		Where("message_id = ? AND user_id = ? AND emoji = ?", messageID, userID, emoji).
		Delete(&model.MessageReaction{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (s *MySQLStore) FindReaction(ctx context.Context, messageID, userID, emoji string) (*model.MessageReaction, error) {
	var reaction model.MessageReaction
	err := s.db.WithContext(ctx).
		Where("message_id = ? AND user_id = ? AND emoji = ?", messageID, userID, emoji).
		First(&reaction).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &reaction, nil
}

func (s *MySQLStore) ListReactionsByMessage(ctx context.Context, messageID string) ([]model.MessageReaction, error) {
	var reactions []model.MessageReaction
	err := s.db.WithContext(ctx).
		Where("message_id = ?", messageID).
		Order("created_at ASC").
		Find(&reactions).Error
	return reactions, err
}

func (s *MySQLStore) ListReactionsForMessages(ctx context.Context, messageIDs []string) (map[string][]model.MessageReaction, error) {
	out := make(map[string][]model.MessageReaction, len(messageIDs))
	if len(messageIDs) == 0 {
		return out, nil
	}
	var reactions []model.MessageReaction
	err := s.db.WithContext(ctx).
		Where("message_id IN ?", messageIDs).
		Order("created_at ASC").
		Find(&reactions).Error
	if err != nil {
		return nil, err
	}
	for _, r := range reactions {
		out[r.MessageID] = append(out[r.MessageID], r)
	}
	return out, nil
}
