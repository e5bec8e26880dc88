package view

import (
	"sort"

	"GoConvo/internal/model"
)

// ChatView projects a chat record into its conversation-list entry.
func ChatView(c model.Chat) ConversationView {
	return ConversationView{
		ID:        c.ID,
		Kind:      "chat",
		UserID1:   c.UserID1,
		UserID2:   c.UserID2,
		Pending:   c.Pending(),
		UpdatedAt: c.UpdatedAt,
	}
}

// GroupView projects a group record into its conversation-list entry.
func GroupView(g model.Group) ConversationView {
	return ConversationView{
		ID:        g.ID,
		Kind:      "group",
		Name:      g.Name,
		UpdatedAt: g.UpdatedAt,
	}
}

// BuildConversations merges chats and groups into one list sorted by most
// recent activity, newest first. Duplicate ids collapse to one entry.
func BuildConversations(chats []model.Chat, groups []model.Group) []ConversationView {
	byID := make(map[string]ConversationView, len(chats)+len(groups))
	for _, c := range chats {
		byID[c.ID] = ChatView(c)
	}
	for _, g := range groups {
		byID[g.ID] = GroupView(g)
	}

	out := make([]ConversationView, 0, len(byID))
	for _, v := range byID {
		out = append(out, v)
	}
	SortConversations(out)
	return out
}

// SortConversations orders by most-recent-activity descending.
func SortConversations(views []ConversationView) {
	sort.SliceStable(views, func(i, j int) bool {
		if views[i].UpdatedAt.Equal(views[j].UpdatedAt) {
			return views[i].ID < views[j].ID
		}
		return views[i].UpdatedAt.After(views[j].UpdatedAt)
	})
}
