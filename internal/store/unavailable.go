package store

import (
	"context"
	"time"

	"GoConvo/internal/common"
	"GoConvo/internal/model"
)

// Unavailable is the degraded adapter installed when the configured
// backend fails to initialize. Every operation fails with
// ErrBackendUnavailable instead of crashing the process; the HTTP layer
// maps it to 503.
type Unavailable struct{}

var _ Store = Unavailable{}

func (Unavailable) CreateUser(context.Context, *model.User) error { return common.ErrBackendUnavailable }
func (Unavailable) GetUserByID(context.Context, string) (*model.User, error) {
	return nil, common.ErrBackendUnavailable
}
func (Unavailable) GetUserByEmail(context.Context, string) (*model.User, error) {
	return nil, common.ErrBackendUnavailable
}
func (Unavailable) GetUserByUsername(context.Context, string) (*model.User, error) {
	return nil, common.ErrBackendUnavailable
}
func (Unavailable) GetUsersByIDs(context.Context, []string) (map[string]*model.User, error) {
	return nil, common.ErrBackendUnavailable
}
func (Unavailable) SearchUsersByPrefix(context.Context, string, int) ([]model.User, error) {
	return nil, common.ErrBackendUnavailable
}
func (Unavailable) UpdateUser(context.Context, *model.User) error { return common.ErrBackendUnavailable }

func (Unavailable) CreateChat(context.Context, *model.Chat) error { return common.ErrBackendUnavailable }
func (Unavailable) GetChatByID(context.Context, string) (*model.Chat, error) {
	return nil, common.ErrBackendUnavailable
}
func (Unavailable) ListChatsByUser(context.Context, string) ([]model.Chat, error) {
	return nil, common.ErrBackendUnavailable
}
func (Unavailable) UpdateChat(context.Context, *model.Chat) error { return common.ErrBackendUnavailable }
func (Unavailable) DeleteChat(context.Context, string) error      { return common.ErrBackendUnavailable }

func (Unavailable) CreateMessage(context.Context, *model.Message) error {
	return common.ErrBackendUnavailable
}
func (Unavailable) GetMessageByID(context.Context, string) (*model.Message, error) {
	return nil, common.ErrBackendUnavailable
}
func (Unavailable) GetMessagesByIDs(context.Context, []string) (map[string]*model.Message, error) {
	return nil, common.ErrBackendUnavailable
}
func (Unavailable) ListMessages(context.Context, model.MessageQuery) ([]model.Message, error) {
	return nil, common.ErrBackendUnavailable
}
func (Unavailable) UpdateMessage(context.Context, *model.Message) error {
	return common.ErrBackendUnavailable
}
func (Unavailable) SoftDeleteMessage(context.Context, string, time.Time) error {
	return common.ErrBackendUnavailable
}

func (Unavailable) AddReaction(context.Context, *model.MessageReaction) error {
	return common.ErrBackendUnavailable
}
func (Unavailable) RemoveReaction(context.Context, string, string, string) error {
	return common.ErrBackendUnavailable
}
func (Unavailable) FindReaction(context.Context, string, string, string) (*model.MessageReaction, error) {
	return nil, common.ErrBackendUnavailable
}
func (Unavailable) ListReactionsByMessage(context.Context, string) ([]model.MessageReaction, error) {
	return nil, common.ErrBackendUnavailable
}
func (Unavailable) ListReactionsForMessages(context.Context, []string) (map[string][]model.MessageReaction, error) {
	return nil, common.ErrBackendUnavailable
}

func (Unavailable) CreateGroup(context.Context, *model.Group) error {
	return common.ErrBackendUnavailable
}
func (Unavailable) GetGroupByID(context.Context, string) (*model.Group, error) {
	return nil, common.ErrBackendUnavailable
}
func (Unavailable) UpdateGroup(context.Context, *model.Group) error {
	return common.ErrBackendUnavailable
}
func (Unavailable) ListGroupsByUser(context.Context, string) ([]model.Group, error) {
	return nil, common.ErrBackendUnavailable
}
func (Unavailable) AddGroupMember(context.Context, string, string) error {
	return common.ErrBackendUnavailable
}
func (Unavailable) RemoveGroupMember(context.Context, string, string) error {
	return common.ErrBackendUnavailable
}
func (Unavailable) IsGroupMember(context.Context, string, string) (bool, error) {
	return false, common.ErrBackendUnavailable
}

func (Unavailable) CreateRoom(context.Context, *model.Room) error { return common.ErrBackendUnavailable }
func (Unavailable) GetRoomByID(context.Context, string) (*model.Room, error) {
	return nil, common.ErrBackendUnavailable
}
func (Unavailable) ListRooms(context.Context) ([]model.Room, error) {
	return nil, common.ErrBackendUnavailable
}

func (Unavailable) BlockUser(context.Context, string, string) error {
	return common.ErrBackendUnavailable
}
func (Unavailable) UnblockUser(context.Context, string, string) error {
	return common.ErrBackendUnavailable
}
func (Unavailable) ListBlockedUsers(context.Context, string) ([]model.BlockedUser, error) {
	return nil, common.ErrBackendUnavailable
}
func (Unavailable) IsBlocked(context.Context, string, string) (bool, error) {
	return false, common.ErrBackendUnavailable
}

func (Unavailable) Live() Subscriptions { return nil }
