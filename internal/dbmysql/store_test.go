package dbmysql

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	gomysql "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"GoConvo/internal/common"
	"GoConvo/internal/model"
)

func setupTestDB(t *testing.T) (*MySQLStore, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
	}

	return NewStore(gormDB), mock, cleanup
}

func TestMySQLStore_GetUserByID(t *testing.T) {
	st, mock, cleanup := setupTestDB(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"id", "email", "display_name"}).
		AddRow("u1", "alice@example.com", "Alice")
	mock.ExpectQuery("SELECT \\* FROM `users` WHERE id = \\?").
		WithArgs("u1", 1).
		WillReturnRows(rows)

	u, err := st.GetUserByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLStore_GetUserByID_NotFound(t *testing.T) {
	st, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT \\* FROM `users` WHERE id = \\?").
		WithArgs("missing", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := st.GetUserByID(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestMySQLStore_GetUserByUsername_Normalizes(t *testing.T) {
	st, mock, cleanup := setupTestDB(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"id", "username"}).AddRow("u1", "alice")
	mock.ExpectQuery("SELECT \\* FROM `users` WHERE username = \\?").
		WithArgs("alice", 1).
		WillReturnRows(rows)

	u, err := st.GetUserByUsername(context.Background(), "  Alice ")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLStore_GetUsersByIDs_EmptyInputSkipsQuery(t *testing.T) {
	st, mock, cleanup := setupTestDB(t)
	defer cleanup()

	out, err := st.GetUsersByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLStore_ListMessages_ChatFilter(t *testing.T) {
	st, mock, cleanup := setupTestDB(t)
	defer cleanup()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "content", "sender_id", "chat_id", "created_at"}).
		AddRow("m1", "ENCv1:abc", "u1", "chat-1", now)
	mock.ExpectQuery("SELECT \\* FROM `messages` WHERE chat_id = \\? ORDER BY created_at ASC").
		WithArgs("chat-1").
		WillReturnRows(rows)

	msgs, err := st.ListMessages(context.Background(), model.MessageQuery{Conversation: model.ChatRef("chat-1")})
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "m1", msgs[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLStore_ListMessages_LimitTakesNewestThenReverses(t *testing.T) {
	st, mock, cleanup := setupTestDB(t)
	defer cleanup()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "content", "sender_id", "group_id", "created_at"}).
		AddRow("m3", "c", "u1", "g1", now).
		AddRow("m2", "b", "u1", "g1", now.Add(-time.Second))
	mock.ExpectQuery("SELECT \\* FROM `messages` WHERE group_id = \\? ORDER BY created_at DESC LIMIT \\?").
		WithArgs("g1", 2).
		WillReturnRows(rows)

	msgs, err := st.ListMessages(context.Background(), model.MessageQuery{Conversation: model.GroupRef("g1"), Limit: 2})
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "m2", msgs[0].ID)
	assert.Equal(t, "m3", msgs[1].ID)
}

func TestMySQLStore_SoftDeleteMessage(t *testing.T) {
	st, mock, cleanup := setupTestDB(t)
	defer cleanup()

	at := time.Now().UTC()
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `messages` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := st.SoftDeleteMessage(context.Background(), "m1", at)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLStore_SoftDeleteMessage_NotFound(t *testing.T) {
	st, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `messages` SET").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := st.SoftDeleteMessage(context.Background(), "gone", time.Now().UTC())
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestMySQLStore_AddReaction_DuplicateTripleConflicts(t *testing.T) {
	st, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `message_reactions`").
		WillReturnError(&gomysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectRollback()

	err := st.AddReaction(context.Background(), &model.MessageReaction{
		ID:        "r1",
		MessageID: "m1",
		UserID:    "u1",
		Emoji:     "👍",
	})
	assert.ErrorIs(t, err, common.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLStore_CreateUser_DuplicateEmailConflicts(t *testing.T) {
	st, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").
		WillReturnError(&gomysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectRollback()

	err := st.CreateUser(context.Background(), &model.User{
		ID:    "u2",
		Email: "alice@example.com",
	})
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestMySQLStore_Live_IsNil(t *testing.T) {
	st, _, cleanup := setupTestDB(t)
	defer cleanup()

	// MySQL is a pull-only backend: callers must see no live capability
	// and fall back to polling.
	assert.Nil(t, st.Live())
}
