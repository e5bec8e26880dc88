// Package store declares the capability contract every storage backend
// must satisfy. The mandatory surface is plain CRUD + query; live change
// subscription is optional and probed at runtime through Live().
package store

import (
	"context"
	"time"

	"GoConvo/internal/model"
	"GoConvo/internal/view"
)

// Reads return (nil, common.ErrNotFound) for absent records. Batched
// lookups (GetUsersByIDs, GetMessagesByIDs, ListReactionsForMessages)
// return maps that simply omit missing ids.

type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*model.User, error)
	SearchUsersByPrefix(ctx context.Context, prefix string, limit int) ([]model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
}

type ChatStore interface {
	CreateChat(ctx context.Context, chat *model.Chat) error
	GetChatByID(ctx context.Context, id string) (*model.Chat, error)
	ListChatsByUser(ctx context.Context, userID string) ([]model.Chat, error)
	UpdateChat(ctx context.Context, chat *model.Chat) error
	DeleteChat(ctx context.Context, id string) error
}

type MessageStore interface {
	CreateMessage(ctx context.Context, msg *model.Message) error
	GetMessageByID(ctx context.Context, id string) (*model.Message, error)
	GetMessagesByIDs(ctx context.Context, ids []string) (map[string]*model.Message, error)
	ListMessages(ctx context.Context, q model.MessageQuery) ([]model.Message, error)
	UpdateMessage(ctx context.Context, msg *model.Message) error

	// SoftDeleteMessage clears the content, sets the deleted flag and
	// stamps deletedAt. The row itself is never removed.
	SoftDeleteMessage(ctx context.Context, id string, at time.Time) error
}

type ReactionStore interface {
	AddReaction(ctx context.Context, reaction *model.MessageReaction) error
	RemoveReaction(ctx context.Context, messageID, userID, emoji string) error
	FindReaction(ctx context.Context, messageID, userID, emoji string) (*model.MessageReaction, error)
	ListReactionsByMessage(ctx context.Context, messageID string) ([]model.MessageReaction, error)
	ListReactionsForMessages(ctx context.Context, messageIDs []string) (map[string][]model.MessageReaction, error)
}

type GroupStore interface {
	CreateGroup(ctx context.Context, group *model.Group) error
	GetGroupByID(ctx context.Context, id string) (*model.Group, error)
	UpdateGroup(ctx context.Context, group *model.Group) error
	ListGroupsByUser(ctx context.Context, userID string) ([]model.Group, error)

	// AddGroupMember is idempotent: adding an existing member is a no-op.
	AddGroupMember(ctx context.Context, groupID, userID string) error
	RemoveGroupMember(ctx context.Context, groupID, userID string) error
	IsGroupMember(ctx context.Context, groupID, userID string) (bool, error)
}

type RoomStore interface {
	CreateRoom(ctx context.Context, room *model.Room) error
	GetRoomByID(ctx context.Context, id string) (*model.Room, error)
	ListRooms(ctx context.Context) ([]model.Room, error)
}

type BlockStore interface {
	BlockUser(ctx context.Context, userID, blockedID string) error
	UnblockUser(ctx context.Context, userID, blockedID string) error
	ListBlockedUsers(ctx context.Context, userID string) ([]model.BlockedUser, error)
	IsBlocked(ctx context.Context, userID, blockedID string) (bool, error)
}

// Subscriptions is the optional live-update capability. A backend either
// implements both operations with genuine push semantics or does not offer
// the capability at all; there is no halfway.
type Subscriptions interface {
	// SubscribeMessages streams the rebuilt message view for one
	// conversation on every underlying change, including reaction-only
	// changes.
	SubscribeMessages(ctx context.Context, q model.MessageQuery, cb func([]view.MessageView)) (*view.Subscription, error)

	// SubscribeConversations streams the user's merged conversation list,
	// sorted by most recent activity, on every change.
	SubscribeConversations(ctx context.Context, userID string, cb func([]view.ConversationView)) (*view.Subscription, error)
}

// Store is the full adapter contract.
type Store interface {
	UserStore
	ChatStore
	MessageStore
	ReactionStore
	GroupStore
	RoomStore
	BlockStore

	// Live returns the push capability, or nil when the backend can only
	// be polled. Decided once at construction; callers branch on the
	// returned value and fall back to the polling emulator when nil.
	Live() Subscriptions
}
