// Package memstore is an in-memory Store used by tests and by local
// development runs that need no external database. It satisfies the full
// mandatory contract and exposes no live capability, which also makes it
// the reference backend for exercising the polling emulator.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"GoConvo/internal/common"
	"GoConvo/internal/model"
	"GoConvo/internal/store"
)

type Store struct {
	mu        sync.RWMutex
	users     map[string]*model.User
	chats     map[string]*model.Chat
	messages  map[string]*model.Message
	reactions map[string]*model.MessageReaction
	groups    map[string]*model.Group
	members   map[string]map[string]time.Time // groupID -> userID -> joinedAt
	rooms     map[string]*model.Room
	blocked   map[string]map[string]time.Time // userID -> blockedID -> at
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		users:     make(map[string]*model.User),
		chats:     make(map[string]*model.Chat),
		messages:  make(map[string]*model.Message),
		reactions: make(map[string]*model.MessageReaction),
		groups:    make(map[string]*model.Group),
		members:   make(map[string]map[string]time.Time),
		rooms:     make(map[string]*model.Room),
		blocked:   make(map[string]map[string]time.Time),
	}
}

func (s *Store) Live() store.Subscriptions { return nil }

// --- users ---

func (s *Store) CreateUser(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.UpdatedAt = user.CreatedAt
	for _, u := range s.users {
		if user.Username != nil && u.Username != nil && *u.Username == *user.Username {
			return common.ErrConflict
		}
		if u.Email == user.Email {
			return common.ErrConflict
		}
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *Store) GetUserByID(_ context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	username = common.NormalizeUsername(username)
	for _, u := range s.users {
		if u.Username != nil && *u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (s *Store) GetUsersByIDs(_ context.Context, ids []string) (map[string]*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]*model.User, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			cp := *u
			out[id] = &cp
		}
	}
	return out, nil
}

func (s *Store) SearchUsersByPrefix(_ context.Context, prefix string, limit int) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	prefix = common.NormalizeUsername(prefix)
	var out []model.User
	for _, u := range s.users {
		if u.Username != nil && strings.HasPrefix(*u.Username, prefix) {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return *out[i].Username < *out[j].Username })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) UpdateUser(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return common.ErrNotFound
	}
	user.UpdatedAt = time.Now().UTC()
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

// --- chats ---

func (s *Store) CreateChat(_ context.Context, chat *model.Chat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if chat.CreatedAt.IsZero() {
		chat.CreatedAt = time.Now().UTC()
	}
	chat.UpdatedAt = chat.CreatedAt
	cp := *chat
	s.chats[chat.ID] = &cp
	return nil
}

func (s *Store) GetChatByID(_ context.Context, id string) (*model.Chat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.chats[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *Store) ListChatsByUser(_ context.Context, userID string) ([]model.Chat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Chat
	for _, c := range s.chats {
		if c.HasParticipant(userID) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (s *Store) UpdateChat(_ context.Context, chat *model.Chat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.chats[chat.ID]; !ok {
		return common.ErrNotFound
	}
	chat.UpdatedAt = time.Now().UTC()
	cp := *chat
	s.chats[chat.ID] = &cp
	return nil
}

func (s *Store) DeleteChat(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.chats[id]; !ok {
		return common.ErrNotFound
	}
	delete(s.chats, id)
	return nil
}

// --- messages ---

func (s *Store) CreateMessage(_ context.Context, msg *model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	msg.UpdatedAt = msg.CreatedAt
	cp := *msg
	s.messages[msg.ID] = &cp
	return nil
}

func (s *Store) GetMessageByID(_ context.Context, id string) (*model.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.messages[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *Store) GetMessagesByIDs(_ context.Context, ids []string) (map[string]*model.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]*model.Message, len(ids))
	for _, id := range ids {
		if m, ok := s.messages[id]; ok {
			cp := *m
			out[id] = &cp
		}
	}
	return out, nil
}

func (s *Store) ListMessages(_ context.Context, q model.MessageQuery) ([]model.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Message
	for _, m := range s.messages {
		if m.Conversation() != q.Conversation {
			continue
		}
		if q.After != nil && !m.CreatedAt.After(*q.After) {
			continue
		}
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[len(out)-q.Limit:]
	}
	return out, nil
}

func (s *Store) UpdateMessage(_ context.Context, msg *model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.messages[msg.ID]; !ok {
		return common.ErrNotFound
	}
	msg.UpdatedAt = time.Now().UTC()
	cp := *msg
	s.messages[msg.ID] = &cp
	return nil
}

func (s *Store) SoftDeleteMessage(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.messages[id]
	if !ok {
		return common.ErrNotFound
	}
	m.Content = ""
	m.DeletedForEveryone = true
	m.DeletedAt = &at
	m.UpdatedAt = at
	return nil
}

// --- reactions ---

func (s *Store) AddReaction(_ context.Context, reaction *model.MessageReaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reactions {
		if r.MessageID == reaction.MessageID && r.UserID == reaction.UserID && r.Emoji == reaction.Emoji {
			return common.ErrConflict
		}
	}
	if reaction.CreatedAt.IsZero() {
		reaction.CreatedAt = time.Now().UTC()
	}
	cp := *reaction
	s.reactions[reaction.ID] = &cp
	return nil
}

func (s *Store) RemoveReaction(_ context.Context, messageID, userID, emoji string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, r := range s.reactions {
		if r.MessageID == messageID && r.UserID == userID && r.Emoji == emoji {
			delete(s.reactions, id)
			return nil
		}
	}
	return common.ErrNotFound
}

func (s *Store) FindReaction(_ context.Context, messageID, userID, emoji string) (*model.MessageReaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.reactions {
		if r.MessageID == messageID && r.UserID == userID && r.Emoji == emoji {
			cp := *r
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (s *Store) ListReactionsByMessage(_ context.Context, messageID string) ([]model.MessageReaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.MessageReaction
	for _, r := range s.reactions {
		if r.MessageID == messageID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) ListReactionsForMessages(ctx context.Context, messageIDs []string) (map[string][]model.MessageReaction, error) {
	out := make(map[string][]model.MessageReaction, len(messageIDs))
	for _, id := range messageIDs {
		rows, err := s.ListReactionsByMessage(ctx, id)
		if err != nil {
			return nil, err
		}
		if len(rows) > 0 {
			out[id] = rows
		}
	}
	return out, nil
}

// --- groups ---

func (s *Store) CreateGroup(_ context.Context, group *model.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[group.ID]; ok {
		return common.ErrConflict
	}
	if group.CreatedAt.IsZero() {
		group.CreatedAt = time.Now().UTC()
	}
	group.UpdatedAt = group.CreatedAt
	cp := *group
	s.groups[group.ID] = &cp
	for _, uid := range group.MemberIDs {
		s.addMemberLocked(group.ID, uid)
	}
	return nil
}

func (s *Store) addMemberLocked(groupID, userID string) {
	if s.members[groupID] == nil {
		s.members[groupID] = make(map[string]time.Time)
	}
	if _, ok := s.members[groupID][userID]; !ok {
		s.members[groupID][userID] = time.Now().UTC()
	}
}

func (s *Store) UpdateGroup(_ context.Context, group *model.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[group.ID]; !ok {
		return common.ErrNotFound
	}
	group.UpdatedAt = time.Now().UTC()
	cp := *group
	cp.MemberIDs = nil
	s.groups[group.ID] = &cp
	return nil
}

func (s *Store) GetGroupByID(_ context.Context, id string) (*model.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.groups[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *g
	cp.MemberIDs = s.memberIDsLocked(id)
	return &cp, nil
}

func (s *Store) memberIDsLocked(groupID string) []string {
	ids := make([]string, 0, len(s.members[groupID]))
	for uid := range s.members[groupID] {
		ids = append(ids, uid)
	}
	sort.Strings(ids)
	return ids
}

func (s *Store) ListGroupsByUser(_ context.Context, userID string) ([]model.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Group
	for id, g := range s.groups {
		if _, ok := s.members[id][userID]; ok {
			cp := *g
			cp.MemberIDs = s.memberIDsLocked(id)
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (s *Store) AddGroupMember(_ context.Context, groupID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[groupID]; !ok {
		return common.ErrNotFound
	}
	s.addMemberLocked(groupID, userID)
	return nil
}

func (s *Store) RemoveGroupMember(_ context.Context, groupID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[groupID]; !ok {
		return common.ErrNotFound
	}
	delete(s.members[groupID], userID)
	return nil
}

func (s *Store) IsGroupMember(_ context.Context, groupID, userID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.members[groupID][userID]
	return ok, nil
}

// --- rooms ---

func (s *Store) CreateRoom(_ context.Context, room *model.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[room.ID]; ok {
		return common.ErrConflict
	}
	if room.CreatedAt.IsZero() {
		room.CreatedAt = time.Now().UTC()
	}
	cp := *room
	s.rooms[room.ID] = &cp
	return nil
}

func (s *Store) GetRoomByID(_ context.Context, id string) (*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *Store) ListRooms(_ context.Context) ([]model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// --- blocks ---

func (s *Store) BlockUser(_ context.Context, userID, blockedID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.blocked[userID] == nil {
		s.blocked[userID] = make(map[string]time.Time)
	}
	s.blocked[userID][blockedID] = time.Now().UTC()
	return nil
}

func (s *Store) UnblockUser(_ context.Context, userID, blockedID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blocked[userID], blockedID)
	return nil
}

func (s *Store) ListBlockedUsers(_ context.Context, userID string) ([]model.BlockedUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.BlockedUser, 0, len(s.blocked[userID]))
	for blockedID, at := range s.blocked[userID] {
		out = append(out, model.BlockedUser{UserID: userID, BlockedID: blockedID, CreatedAt: at})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BlockedID < out[j].BlockedID })
	return out, nil
}

func (s *Store) IsBlocked(_ context.Context, userID, blockedID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.blocked[userID][blockedID]
	return ok, nil
}
