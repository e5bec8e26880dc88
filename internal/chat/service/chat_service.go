package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"GoConvo/internal/common"
	"GoConvo/internal/crypto"
	"GoConvo/internal/model"
	"GoConvo/internal/store"
	"GoConvo/internal/view"
)

// ChatService is the conversation lifecycle controller plus the message
// paths built on top of one storage adapter. It is constructed once at
// process start with an explicit store; there is no ambient global.
type ChatService interface {
	// Lifecycle
	CreatePendingChat(ctx context.Context, creatorID string) (*model.Chat, error)
	JoinChat(ctx context.Context, chatID, userID string) (*model.Chat, error)
	GetChat(ctx context.Context, chatID, userID string) (*model.Chat, error)
	ListConversations(ctx context.Context, userID string) ([]view.ConversationView, error)

	// Rooms and groups
	CreateGroup(ctx context.Context, creatorID, name string, memberIDs []string) (*model.Group, error)
	CreateRoom(ctx context.Context, creatorID, name string, topic *string, temporary bool) (*model.Room, error)
	JoinRoom(ctx context.Context, roomID, userID string) (*model.Group, error)
	ListRooms(ctx context.Context) ([]model.Room, error)

	// Messages
	SendMessage(ctx context.Context, senderID string, ref model.ConversationRef, content string, replyToID *string) (*model.Message, error)
	ListMessages(ctx context.Context, userID string, q model.MessageQuery) ([]view.MessageView, error)
	DeleteMessage(ctx context.Context, messageID, callerID string) error
	ToggleReaction(ctx context.Context, messageID, userID, emoji string) (added bool, err error)

	// Blocking
	BlockUser(ctx context.Context, userID, blockedID string) error
	UnblockUser(ctx context.Context, userID, blockedID string) error
	ListBlockedUsers(ctx context.Context, userID string) ([]model.BlockedUser, error)

	// Live views. When the adapter has no push capability these fall back
	// to the polling emulator; subscribers cannot tell the difference by
	// the shape of what they receive.
	SubscribeMessages(ctx context.Context, userID string, q model.MessageQuery, cb func([]view.MessageView)) (*view.Subscription, error)
	SubscribeConversations(ctx context.Context, userID string, cb func([]view.ConversationView)) (*view.Subscription, error)
}

type chatService struct {
	store   store.Store
	codec   *crypto.Codec
	builder *view.Builder
	poller  *view.Poller
}

func NewChatService(st store.Store, codec *crypto.Codec, poller *view.Poller) ChatService {
	return &chatService{
		store:   st,
		codec:   codec,
		builder: view.NewBuilder(codec, st),
		poller:  poller,
	}
}

// --- lifecycle ---

func (s *chatService) CreatePendingChat(ctx context.Context, creatorID string) (*model.Chat, error) {
	if _, err := s.store.GetUserByID(ctx, creatorID); err != nil {
		return nil, err
	}
	chat := &model.Chat{
		ID:      uuid.NewString(),
		UserID1: creatorID,
	}
	if err := s.store.CreateChat(ctx, chat); err != nil {
		return nil, err
	}
	return chat, nil
}

// JoinChat resolves a join attempt on chat C by user U:
//   - U already participates: idempotent success, C returned unchanged.
//   - C pending: U fills the second slot, C becomes established.
//   - C established and U is a stranger: reuse U's existing established
//     chat with C's creator if one exists, otherwise create a brand-new
//     established chat. The original chat is never mutated.
//
// Two users racing for the same pending slot are resolved last-writer-wins
// at the userID2 field; the loser's write is a redundant establish.
func (s *chatService) JoinChat(ctx context.Context, chatID, userID string) (*model.Chat, error) {
	chat, err := s.store.GetChatByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}

	if chat.HasParticipant(userID) {
		return chat, nil
	}

	if chat.Pending() {
		chat.UserID2 = &userID
		if err := s.store.UpdateChat(ctx, chat); err != nil {
			return nil, err
		}
		return chat, nil
	}

	// The slot was already filled by someone else: fan out to a pair chat
	// between this user and the creator.
	existing, err := s.findEstablishedPair(ctx, userID, chat.UserID1)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	pair := &model.Chat{
		ID:      uuid.NewString(),
		UserID1: chat.UserID1,
		UserID2: &userID,
	}
	if err := s.store.CreateChat(ctx, pair); err != nil {
		return nil, err
	}
	return pair, nil
}

func (s *chatService) findEstablishedPair(ctx context.Context, userID, counterpartID string) (*model.Chat, error) {
	chats, err := s.store.ListChatsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range chats {
		c := &chats[i]
		if !c.Pending() && c.HasParticipant(counterpartID) {
			return c, nil
		}
	}
	return nil, nil
}

func (s *chatService) GetChat(ctx context.Context, chatID, userID string) (*model.Chat, error) {
	chat, err := s.store.GetChatByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.HasParticipant(userID) {
		return nil, fmt.Errorf("user %s is not a participant: %w", userID, common.ErrUnauthorized)
	}
	return chat, nil
}

func (s *chatService) ListConversations(ctx context.Context, userID string) ([]view.ConversationView, error) {
	chats, err := s.store.ListChatsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	groups, err := s.store.ListGroupsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return view.BuildConversations(chats, groups), nil
}

// --- rooms and groups ---

func (s *chatService) CreateGroup(ctx context.Context, creatorID, name string, memberIDs []string) (*model.Group, error) {
	if name == "" {
		return nil, errors.New("group name cannot be empty")
	}
	members := append([]string{creatorID}, memberIDs...)
	group := &model.Group{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedBy: creatorID,
		MemberIDs: dedupe(members),
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *chatService) CreateRoom(ctx context.Context, creatorID, name string, topic *string, temporary bool) (*model.Room, error) {
	if name == "" {
		return nil, errors.New("room name cannot be empty")
	}
	shareID := uuid.NewString()
	room := &model.Room{
		ID:        uuid.NewString(),
		Name:      name,
		Topic:     topic,
		CreatedBy: creatorID,
		ShareID:   &shareID,
		Temporary: temporary,
	}
	if err := s.store.CreateRoom(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// JoinRoom adds the user to the room's backing group, creating the group
// lazily on first join. The backing group always shares the room's id and
// creator; its initial membership is just the creator.
func (s *chatService) JoinRoom(ctx context.Context, roomID, userID string) (*model.Group, error) {
	room, err := s.store.GetRoomByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	_, err = s.store.GetGroupByID(ctx, room.ID)
	if errors.Is(err, common.ErrNotFound) {
		backing := &model.Group{
			ID:        room.ID,
			Name:      room.Name,
			CreatedBy: room.CreatedBy,
			MemberIDs: []string{room.CreatedBy},
		}
		if err := s.store.CreateGroup(ctx, backing); err != nil && !errors.Is(err, common.ErrConflict) {
			return nil, err
		}
		// ErrConflict means a concurrent join created it first; fine.
	} else if err != nil {
		return nil, err
	}

	if err := s.store.AddGroupMember(ctx, room.ID, userID); err != nil {
		return nil, err
	}
	return s.store.GetGroupByID(ctx, room.ID)
}

func (s *chatService) ListRooms(ctx context.Context) ([]model.Room, error) {
	return s.store.ListRooms(ctx)
}

// --- messages ---

func (s *chatService) SendMessage(ctx context.Context, senderID string, ref model.ConversationRef, content string, replyToID *string) (*model.Message, error) {
	if err := common.ValidateMessageContent(content); err != nil {
		return nil, err
	}
	if ref.IsZero() {
		return nil, errors.New("message needs a conversation")
	}
	if err := s.authorizeConversation(ctx, senderID, ref); err != nil {
		return nil, err
	}

	if replyToID != nil && *replyToID != "" {
		target, err := s.store.GetMessageByID(ctx, *replyToID)
		if err != nil {
			return nil, fmt.Errorf("reply target: %w", err)
		}
		if target.Conversation() != ref {
			return nil, fmt.Errorf("reply target belongs to another conversation: %w", common.ErrConflict)
		}
	}

	ciphertext, err := s.codec.Encrypt(content, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt message: %w", err)
	}

	msg := &model.Message{
		ID:        uuid.NewString(),
		Content:   ciphertext,
		SenderID:  senderID,
		ChatID:    ref.ChatID(),
		GroupID:   ref.GroupID(),
		ReplyToID: replyToID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	s.touchConversation(ctx, ref)
	return msg, nil
}

// touchConversation bumps the conversation's updatedAt so it surfaces at
// the top of the list view. Failure is logged and otherwise ignored: the
// message itself is already persisted.
func (s *chatService) touchConversation(ctx context.Context, ref model.ConversationRef) {
	var err error
	switch ref.Kind {
	case model.KindChat:
		var chat *model.Chat
		if chat, err = s.store.GetChatByID(ctx, ref.ID); err == nil {
			err = s.store.UpdateChat(ctx, chat)
		}
	case model.KindGroup:
		var group *model.Group
		if group, err = s.store.GetGroupByID(ctx, ref.ID); err == nil {
			err = s.store.UpdateGroup(ctx, group)
		}
	}
	if err != nil {
		log.Printf("recency bump for conversation %s failed: %v", ref.ID, err)
	}
}

func (s *chatService) ListMessages(ctx context.Context, userID string, q model.MessageQuery) ([]view.MessageView, error) {
	if err := s.authorizeConversation(ctx, userID, q.Conversation); err != nil {
		return nil, err
	}
	msgs, err := s.store.ListMessages(ctx, q)
	if err != nil {
		return nil, err
	}
	return s.builder.BuildMessages(ctx, msgs, q)
}

// DeleteMessage soft-deletes: only the sender may delete, the row is kept
// with content cleared and the deleted flag set.
func (s *chatService) DeleteMessage(ctx context.Context, messageID, callerID string) error {
	msg, err := s.store.GetMessageByID(ctx, messageID)
	if err != nil {
		return err
	}
	if msg.SenderID != callerID {
		return fmt.Errorf("only the sender can delete a message: %w", common.ErrUnauthorized)
	}
	return s.store.SoftDeleteMessage(ctx, messageID, time.Now().UTC())
}

// ToggleReaction adds the (message, user, emoji) reaction if absent and
// removes it if present.
func (s *chatService) ToggleReaction(ctx context.Context, messageID, userID, emoji string) (bool, error) {
	if emoji == "" {
		return false, errors.New("emoji cannot be empty")
	}
	if _, err := s.store.GetMessageByID(ctx, messageID); err != nil {
		return false, err
	}

	_, err := s.store.FindReaction(ctx, messageID, userID, emoji)
	if err == nil {
		return false, s.store.RemoveReaction(ctx, messageID, userID, emoji)
	}
	if !errors.Is(err, common.ErrNotFound) {
		return false, err
	}

	reaction := &model.MessageReaction{
		ID:        uuid.NewString(),
		MessageID: messageID,
		UserID:    userID,
		Emoji:     emoji,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.AddReaction(ctx, reaction); err != nil {
		// A concurrent toggle won the add; resolve as a remove.
		if errors.Is(err, common.ErrConflict) {
			return false, s.store.RemoveReaction(ctx, messageID, userID, emoji)
		}
		return false, err
	}
	return true, nil
}

// --- blocking ---

func (s *chatService) BlockUser(ctx context.Context, userID, blockedID string) error {
	if userID == blockedID {
		return fmt.Errorf("cannot block yourself: %w", common.ErrConflict)
	}
	if _, err := s.store.GetUserByID(ctx, blockedID); err != nil {
		return err
	}
	return s.store.BlockUser(ctx, userID, blockedID)
}

func (s *chatService) UnblockUser(ctx context.Context, userID, blockedID string) error {
	return s.store.UnblockUser(ctx, userID, blockedID)
}

func (s *chatService) ListBlockedUsers(ctx context.Context, userID string) ([]model.BlockedUser, error) {
	return s.store.ListBlockedUsers(ctx, userID)
}

// --- live views ---

func (s *chatService) SubscribeMessages(ctx context.Context, userID string, q model.MessageQuery, cb func([]view.MessageView)) (*view.Subscription, error) {
	if err := s.authorizeConversation(ctx, userID, q.Conversation); err != nil {
		return nil, err
	}
	if live := s.store.Live(); live != nil {
		return live.SubscribeMessages(ctx, q, cb)
	}
	return s.poller.SubscribeMessages(ctx, s.store, q, cb), nil
}

func (s *chatService) SubscribeConversations(ctx context.Context, userID string, cb func([]view.ConversationView)) (*view.Subscription, error) {
	if live := s.store.Live(); live != nil {
		return live.SubscribeConversations(ctx, userID, cb)
	}
	return s.poller.SubscribeConversations(ctx, s.store, userID, cb), nil
}

// authorizeConversation verifies the user may read and write the named
// conversation: chat participant, or group member. For direct chats a
// sender blocked by the counterpart cannot post.
func (s *chatService) authorizeConversation(ctx context.Context, userID string, ref model.ConversationRef) error {
	switch ref.Kind {
	case model.KindChat:
		chat, err := s.store.GetChatByID(ctx, ref.ID)
		if err != nil {
			return err
		}
		if !chat.HasParticipant(userID) {
			return fmt.Errorf("user %s is not a participant: %w", userID, common.ErrUnauthorized)
		}
		counterpart := chat.UserID1
		if counterpart == userID && chat.UserID2 != nil {
			counterpart = *chat.UserID2
		}
		if counterpart != userID {
			if blocked, err := s.store.IsBlocked(ctx, counterpart, userID); err == nil && blocked {
				return fmt.Errorf("user %s is blocked: %w", userID, common.ErrUnauthorized)
			}
		}
		return nil
	case model.KindGroup:
		member, err := s.store.IsGroupMember(ctx, ref.ID, userID)
		if err != nil {
			return err
		}
		if !member {
			return fmt.Errorf("user %s is not a member: %w", userID, common.ErrUnauthorized)
		}
		return nil
	default:
		return errors.New("conversation ref is empty")
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
