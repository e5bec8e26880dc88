package dbmysql

import (
	"context"

	"GoConvo/internal/model"
)

func (s *MySQLStore) CreateRoom(ctx context.Context, room *model.Room) error {
	return wrapConflict(s.db.WithContext(ctx).Create(room).Error)
}

func (s *MySQLStore) GetRoomByID(ctx context.Context, id string) (*model.Room, error) {
	var room model.Room
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&room).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &room, nil
}

func (s *MySQLStore) ListRooms(ctx context.Context) ([]model.Room, error) {
	var rooms []model.Room
	err := s.db.WithContext(ctx).Order("created_at ASC").Find(&rooms).Error
	return rooms, err
}
