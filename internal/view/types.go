// Package view builds the decrypted, denormalized message and conversation
// view models delivered to subscribers. View objects are transient: they are
// constructed per emission and never persisted.
package view

import "time"

// Sender is the denormalized author of a message.
type Sender struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// ReplyPreview is the one-level resolution of a reply target: enough to
// render a quote header, nothing recursive.
type ReplyPreview struct {
	ID         string `json:"id"`
	Content    string `json:"content"`
	SenderName string `json:"sender_name"`
}

type ReactionView struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Emoji     string    `json:"emoji"`
	CreatedAt time.Time `json:"created_at"`
}

// MessageView is one fully resolved message as delivered to subscribers.
// Content is always plaintext, or empty for soft-deleted messages.
type MessageView struct {
	ID                 string         `json:"id"`
	Content            string         `json:"content"`
	Sender             Sender         `json:"sender"`
	ChatID             *string        `json:"chat_id,omitempty"`
	GroupID            *string        `json:"group_id,omitempty"`
	ReplyTo            *ReplyPreview  `json:"reply_to,omitempty"`
	Reactions          []ReactionView `json:"reactions"`
	DeletedForEveryone bool           `json:"deleted_for_everyone"`
	CreatedAt          time.Time      `json:"created_at"`
}

// ConversationView is one entry of a user's conversation list, sorted by
// most recent activity.
type ConversationView struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"` // "chat" or "group"
	Name      string    `json:"name,omitempty"`
	UserID1   string    `json:"user_id1,omitempty"`
	UserID2   *string   `json:"user_id2,omitempty"`
	Pending   bool      `json:"pending,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}
