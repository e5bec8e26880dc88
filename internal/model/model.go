package model

import (
	"time"

	"gorm.io/gorm"
)

// Entities are shared by both storage backends: gorm tags drive the MySQL
// schema, bson tags drive the Mongo documents. All ids are UUID strings.

type User struct {
	ID          string         `gorm:"primaryKey;column:id;size:36" bson:"_id" json:"id"`
	Email       string         `gorm:"column:email;uniqueIndex;size:255;not null" bson:"email" json:"email"`
	DisplayName string         `gorm:"column:display_name;size:100" bson:"displayName" json:"display_name"`
	AvatarURL   *string        `gorm:"column:avatar_url;size:512" bson:"avatarUrl,omitempty" json:"avatar_url,omitempty"`
	Username    *string        `gorm:"column:username;uniqueIndex;size:50" bson:"username,omitempty" json:"username,omitempty"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime" bson:"createdAt" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime" bson:"updatedAt" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" bson:"-" json:"-"`
}

// Chat is a single/direct conversation. UserID2 == nil means the chat is
// pending: the creator is waiting for a second participant to join via a
// share link. Once set, UserID2 never reverts to nil.
type Chat struct {
	ID        string    `gorm:"primaryKey;column:id;size:36" bson:"_id" json:"id"`
	UserID1   string    `gorm:"column:user_id1;index;size:36;not null" bson:"userId1" json:"user_id1"`
	UserID2   *string   `gorm:"column:user_id2;index;size:36" bson:"userId2,omitempty" json:"user_id2,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" bson:"updatedAt" json:"updated_at"`
}

// Pending reports whether the chat still awaits a second participant.
func (c *Chat) Pending() bool {
	return c.UserID2 == nil
}

// HasParticipant reports whether userID already occupies either slot.
func (c *Chat) HasParticipant(userID string) bool {
	if c.UserID1 == userID {
		return true
	}
	return c.UserID2 != nil && *c.UserID2 == userID
}

type Message struct {
	ID                 string     `gorm:"primaryKey;column:id;size:36" bson:"_id" json:"id"`
	Content            string     `gorm:"column:content;type:text" bson:"content" json:"content"`
	SenderID           string     `gorm:"column:sender_id;index;size:36;not null" bson:"senderId" json:"sender_id"`
	ChatID             *string    `gorm:"column:chat_id;index;size:36" bson:"chatId,omitempty" json:"chat_id,omitempty"`
	GroupID            *string    `gorm:"column:group_id;index;size:36" bson:"groupId,omitempty" json:"group_id,omitempty"`
	ReplyToID          *string    `gorm:"column:reply_to_id;size:36" bson:"replyToId,omitempty" json:"reply_to_id,omitempty"`
	DeletedForEveryone bool       `gorm:"column:deleted_for_everyone;default:false" bson:"deletedForEveryone" json:"deleted_for_everyone"`
	DeletedAt          *time.Time `gorm:"column:deleted_at" bson:"deletedAt,omitempty" json:"deleted_at,omitempty"`
	CreatedAt          time.Time  `gorm:"column:created_at;autoCreateTime" bson:"createdAt" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at;autoUpdateTime" bson:"updatedAt" json:"updated_at"`
}

// Conversation returns the ref the message was persisted under. Decryption
// must always use this ref, never the id a query happened to filter by.
func (m *Message) Conversation() ConversationRef {
	return RefFromIDs(m.ChatID, m.GroupID)
}

type MessageReaction struct {
	ID        string    `gorm:"primaryKey;column:id;size:36" bson:"_id" json:"id"`
	MessageID string    `gorm:"column:message_id;index:idx_msg_user_emoji,unique;size:36;not null" bson:"messageId" json:"message_id"`
	UserID    string    `gorm:"column:user_id;index:idx_msg_user_emoji,unique;size:36;not null" bson:"userId" json:"user_id"`
	Emoji     string    `gorm:"column:emoji;index:idx_msg_user_emoji,unique;size:16;not null" bson:"emoji" json:"emoji"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" bson:"createdAt" json:"created_at"`
}

type Group struct {
	ID        string    `gorm:"primaryKey;column:id;size:36" bson:"_id" json:"id"`
	Name      string    `gorm:"column:name;size:100;not null" bson:"name" json:"name"`
	AvatarURL *string   `gorm:"column:avatar_url;size:512" bson:"avatarUrl,omitempty" json:"avatar_url,omitempty"`
	CreatedBy string    `gorm:"column:created_by;size:36;not null" bson:"createdBy" json:"created_by"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" bson:"updatedAt" json:"updated_at"`

	// Populated by the adapters from the membership rows, not a column.
	MemberIDs []string `gorm:"-" bson:"memberIds" json:"member_ids"`
}

type GroupMember struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" bson:"-" json:"-"`
	GroupID   string    `gorm:"column:group_id;index:idx_group_user,unique;size:36;not null" bson:"groupId" json:"group_id"`
	UserID    string    `gorm:"column:user_id;index:idx_group_user,unique;size:36;not null" bson:"userId" json:"user_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" bson:"createdAt" json:"created_at"`
}

// Room is a named space joinable by link. A room always has a backing Group
// with the same id, created lazily on first join if absent.
type Room struct {
	ID        string    `gorm:"primaryKey;column:id;size:36" bson:"_id" json:"id"`
	Name      string    `gorm:"column:name;size:100;not null" bson:"name" json:"name"`
	Topic     *string   `gorm:"column:topic;size:255" bson:"topic,omitempty" json:"topic,omitempty"`
	CreatedBy string    `gorm:"column:created_by;size:36;not null" bson:"createdBy" json:"created_by"`
	ShareID   *string   `gorm:"column:share_id;uniqueIndex;size:36" bson:"shareId,omitempty" json:"share_id,omitempty"`
	Temporary bool      `gorm:"column:temporary;default:false" bson:"temporary" json:"temporary"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" bson:"createdAt" json:"created_at"`
}

type BlockedUser struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" bson:"-" json:"-"`
	UserID    string    `gorm:"column:user_id;index:idx_user_blocked,unique;size:36;not null" bson:"userId" json:"user_id"`
	BlockedID string    `gorm:"column:blocked_id;index:idx_user_blocked,unique;size:36;not null" bson:"blockedId" json:"blocked_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" bson:"createdAt" json:"created_at"`
}
