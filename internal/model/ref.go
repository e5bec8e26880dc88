package model

// ConversationKind discriminates the two conversation families.
type ConversationKind int

const (
	KindNone ConversationKind = iota
	KindChat
	KindGroup
)

// ConversationRef is a tagged reference to exactly one conversation: a
// direct chat or a group. The zero value means "no conversation", which the
// crypto layer maps to a fixed default context. Using the ref instead of a
// pair of nullable ids keeps the both-set/both-nil states unrepresentable.
type ConversationRef struct {
	Kind ConversationKind
	ID   string
}

func ChatRef(chatID string) ConversationRef {
	return ConversationRef{Kind: KindChat, ID: chatID}
}

func GroupRef(groupID string) ConversationRef {
	return ConversationRef{Kind: KindGroup, ID: groupID}
}

// RefFromIDs builds a ref from the two nullable persisted columns. Chat id
// wins when both are set, matching how records were encrypted historically.
func RefFromIDs(chatID, groupID *string) ConversationRef {
	if chatID != nil && *chatID != "" {
		return ChatRef(*chatID)
	}
	if groupID != nil && *groupID != "" {
		return GroupRef(*groupID)
	}
	return ConversationRef{}
}

func (r ConversationRef) IsZero() bool {
	return r.Kind == KindNone || r.ID == ""
}

// ChatID returns the id as a nullable chat column value.
func (r ConversationRef) ChatID() *string {
	if r.Kind == KindChat && r.ID != "" {
		id := r.ID
		return &id
	}
	return nil
}

// GroupID returns the id as a nullable group column value.
func (r ConversationRef) GroupID() *string {
	if r.Kind == KindGroup && r.ID != "" {
		id := r.ID
		return &id
	}
	return nil
}
