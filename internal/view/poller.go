package view

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"GoConvo/internal/model"
)

// MessageSource is the pull surface the poller re-queries for messages.
type MessageSource interface {
	ListMessages(ctx context.Context, q model.MessageQuery) ([]model.Message, error)
}

// ConversationSource is the pull surface for a user's conversation list.
type ConversationSource interface {
	ListChatsByUser(ctx context.Context, userID string) ([]model.Chat, error)
	ListGroupsByUser(ctx context.Context, userID string) ([]model.Group, error)
}

const (
	// Message latency is more user-visible than list latency, so messages
	// poll noticeably faster than conversations.
	DefaultMessageInterval      = 2 * time.Second
	DefaultConversationInterval = 6 * time.Second
)

// Poller emulates live subscriptions against a backend that can only be
// queried on demand. Subscribers receive exactly the same view-model shape
// a push backend delivers; only latency differs.
type Poller struct {
	builder      *Builder
	msgInterval  time.Duration
	convInterval time.Duration
}

func NewPoller(builder *Builder, msgInterval, convInterval time.Duration) *Poller {
	if msgInterval <= 0 {
		msgInterval = DefaultMessageInterval
	}
	if convInterval <= 0 {
		convInterval = DefaultConversationInterval
	}
	return &Poller{builder: builder, msgInterval: msgInterval, convInterval: convInterval}
}

// SubscribeMessages re-queries src on a fixed interval and invokes cb with
// the rebuilt view whenever it differs from the last one delivered.
func (p *Poller) SubscribeMessages(ctx context.Context, src MessageSource, q model.MessageQuery, cb func([]MessageView)) *Subscription {
	sub := NewSubscription()
	ctx, cancel := context.WithCancel(ctx)
	sub.OnClose(cancel)

	go func() {
		ticker := time.NewTicker(p.msgInterval)
		defer ticker.Stop()

		lastSig := ""
		poll := func() {
			msgs, err := src.ListMessages(ctx, q)
			if err != nil {
				if ctx.Err() == nil {
					log.Printf("message poll failed: %v", err)
				}
				return
			}
			views, err := p.builder.BuildMessages(ctx, msgs, q)
			if err != nil {
				if ctx.Err() == nil {
					log.Printf("message poll build failed: %v", err)
				}
				return
			}
			sig := messageSignature(views)
			if sig == lastSig {
				return
			}
			lastSig = sig
			if !sub.Active() {
				return
			}
			sub.SetLastMessages(views)
			cb(views)
		}

		poll()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				poll()
			}
		}
	}()

	return sub
}

// SubscribeConversations re-queries the user's chats and groups on a fixed
// interval and invokes cb with the merged, sorted list on change.
func (p *Poller) SubscribeConversations(ctx context.Context, src ConversationSource, userID string, cb func([]ConversationView)) *Subscription {
	sub := NewSubscription()
	ctx, cancel := context.WithCancel(ctx)
	sub.OnClose(cancel)

	go func() {
		ticker := time.NewTicker(p.convInterval)
		defer ticker.Stop()

		lastSig := ""
		poll := func() {
			chats, err := src.ListChatsByUser(ctx, userID)
			if err != nil {
				if ctx.Err() == nil {
					log.Printf("conversation poll failed: %v", err)
				}
				return
			}
			groups, err := src.ListGroupsByUser(ctx, userID)
			if err != nil {
				if ctx.Err() == nil {
					log.Printf("conversation poll failed: %v", err)
				}
				return
			}
			views := BuildConversations(chats, groups)
			sig := conversationSignature(views)
			if sig == lastSig {
				return
			}
			lastSig = sig
			if !sub.Active() {
				return
			}
			cb(views)
		}

		poll()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				poll()
			}
		}
	}()

	return sub
}

func messageSignature(views []MessageView) string {
	var sb strings.Builder
	for _, v := range views {
		fmt.Fprintf(&sb, "%s|%s|%t|", v.ID, v.Content, v.DeletedForEveryone)
		for _, r := range v.Reactions {
			sb.WriteString(r.ID)
			sb.WriteByte(',')
		}
		sb.WriteByte(';')
	}
	return sb.String()
}

func conversationSignature(views []ConversationView) string {
	var sb strings.Builder
	for _, v := range views {
		fmt.Fprintf(&sb, "%s|%s|%t|%d;", v.ID, v.Kind, v.Pending, v.UpdatedAt.UnixNano())
	}
	return sb.String()
}
