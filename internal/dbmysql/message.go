package dbmysql

import (
	"context"
	"time"

	"GoConvo/internal/common"
	"GoConvo/internal/model"
)

func (s *MySQLStore) CreateMessage(ctx context.Context, msg *model.Message) error {
	return s.db.WithContext(ctx).Create(msg).Error
}

func (s *MySQLStore) GetMessageByID(ctx context.Context, id string) (*model.Message, error) {
	var msg model.Message
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&msg).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &msg, nil
}

func (s *MySQLStore) GetMessagesByIDs(ctx context.Context, ids []string) (map[string]*model.Message, error) {
	out := make(map[string]*model.Message, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var msgs []model.Message
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&msgs).Error; err != nil {
		return nil, err
	}
	for i := range msgs {
		out[msgs[i].ID] = &msgs[i]
	}
	return out, nil
}

func (s *MySQLStore) ListMessages(ctx context.Context, q model.MessageQuery) ([]model.Message, error) {
	db := s.db.WithContext(ctx)
	switch q.Conversation.Kind {
	case model.KindChat:
		db = db.Where("chat_id = ?", q.Conversation.ID)
	case model.KindGroup:
		db = db.Where("group_id = ?", q.Conversation.ID)
	}
	if q.After != nil {
		db = db.Where("created_at > ?", *q.After)
	}

	// "Last N" means chronologically last: select the newest N, then
	// return them oldest-first.
	var msgs []model.Message
	if q.Limit > 0 {
		if err := db.Order("created_at DESC").Limit(q.Limit).Find(&msgs).Error; err != nil {
			return nil, err
		}
		for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
			msgs[i], msgs[j] = msgs[j], msgs[i]
		}
		return msgs, nil
	}
	return msgs, db.Order("created_at ASC").Find(&msgs).Error
}

func (s *MySQLStore) UpdateMessage(ctx context.Context, msg *model.Message) error {
	return s.db.WithContext(ctx).Save(msg).Error
}

func (s *MySQLStore) SoftDeleteMessage(ctx context.Context, id string, at time.Time) error {
	res := s.db.WithContext(ctx).Model(&model.Message{}).Where("id = ?", id).Updates(map[string]interface{}{
		"content":              "",
		"deleted_for_everyone": true,
		"deleted_at":           at,
		"updated_at":           at,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}
