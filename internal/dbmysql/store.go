package dbmysql

import (
	"errors"

	"gorm.io/gorm"

	"GoConvo/internal/common"
	"GoConvo/internal/store"
)

// MySQLStore implements the full mandatory contract. Live() returns nil:
// MySQL offers no change notification, callers emulate subscriptions with
// the polling emulator.
type MySQLStore struct {
	db *gorm.DB
}

var _ store.Store = (*MySQLStore)(nil)

func NewStore(db *gorm.DB) *MySQLStore {
	return &MySQLStore{db: db}
}

func (s *MySQLStore) Live() store.Subscriptions { return nil }

// wrapNotFound translates gorm's record-not-found into the shared taxonomy
// so callers never see a gorm error type.
func wrapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return common.ErrNotFound
	}
	return err
}

// wrapConflict translates the driver's duplicate-key error (surfaced as
// gorm.ErrDuplicatedKey via TranslateError) into the shared taxonomy,
// matching what the other backends return on unique-index violations.
func wrapConflict(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return common.ErrConflict
	}
	return err
}
