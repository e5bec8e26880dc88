package model

import "time"

// MessageQuery selects messages for listing and for live subscriptions.
// Conversation names the chat or group being read; After is an exclusive
// creation-time cursor; Limit keeps only the chronologically last N records.
type MessageQuery struct {
	Conversation ConversationRef
	After        *time.Time
	Limit        int
}
