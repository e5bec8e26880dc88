package view

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"GoConvo/internal/model"
)

// Codec decrypts message bodies. Satisfied by crypto.Codec.
type Codec interface {
	Decrypt(text string, ref model.ConversationRef) string
}

// Resolver is the batched-lookup surface the builder needs from a storage
// adapter: users and reply targets by id, reactions per message.
type Resolver interface {
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*model.User, error)
	GetMessagesByIDs(ctx context.Context, ids []string) (map[string]*model.Message, error)
	ListReactionsForMessages(ctx context.Context, messageIDs []string) (map[string][]model.MessageReaction, error)
}

// Builder turns raw message records into the stable view model: decrypted
// content, resolved sender, one-level reply preview, reactions in creation
// order, sorted and deduplicated.
type Builder struct {
	codec    Codec
	resolver Resolver
}

func NewBuilder(codec Codec, resolver Resolver) *Builder {
	return &Builder{codec: codec, resolver: resolver}
}

// BuildMessages resolves a batch of raw records into ordered views.
// Lookups fan out concurrently but all join before anything is returned;
// a partial view is never emitted. Each record is decrypted with its own
// stored conversation ref, not the ref the query filtered by.
func (b *Builder) BuildMessages(ctx context.Context, msgs []model.Message, q model.MessageQuery) ([]MessageView, error) {
	msgs = dedupeMessages(msgs)

	msgIDs := make([]string, 0, len(msgs))
	replyIDs := make([]string, 0)
	for _, m := range msgs {
		msgIDs = append(msgIDs, m.ID)
		if m.ReplyToID != nil && *m.ReplyToID != "" {
			replyIDs = append(replyIDs, *m.ReplyToID)
		}
	}

	var (
		users     map[string]*model.User
		replies   map[string]*model.Message
		reactions map[string][]model.MessageReaction
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		reactions, err = b.resolver.ListReactionsForMessages(gctx, msgIDs)
		return err
	})
	g.Go(func() error {
		var err error
		replies, err = b.resolver.GetMessagesByIDs(gctx, replyIDs)
		if err != nil {
			return err
		}

		// Sender resolution covers both the batch and the reply targets,
		// so it has to wait for the reply fetch.
		userIDs := make([]string, 0, len(msgs)+len(replies))
		seen := make(map[string]bool)
		for _, m := range msgs {
			if !seen[m.SenderID] {
				seen[m.SenderID] = true
				userIDs = append(userIDs, m.SenderID)
			}
		}
		for _, r := range replies {
			if !seen[r.SenderID] {
				seen[r.SenderID] = true
				userIDs = append(userIDs, r.SenderID)
			}
		}
		users, err = b.resolver.GetUsersByIDs(gctx, userIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	views := make([]MessageView, 0, len(msgs))
	for _, m := range msgs {
		views = append(views, b.buildOne(m, users, replies, reactions[m.ID]))
	}

	sort.SliceStable(views, func(i, j int) bool {
		if views[i].CreatedAt.Equal(views[j].CreatedAt) {
			return views[i].ID < views[j].ID
		}
		return views[i].CreatedAt.Before(views[j].CreatedAt)
	})

	// "Last N" means chronologically last: slice the tail after sorting,
	// never pre-filter.
	if q.Limit > 0 && len(views) > q.Limit {
		views = views[len(views)-q.Limit:]
	}

	return views, nil
}

func (b *Builder) buildOne(m model.Message, users map[string]*model.User, replies map[string]*model.Message, reactions []model.MessageReaction) MessageView {
	v := MessageView{
		ID:                 m.ID,
		Sender:             Sender{ID: m.SenderID},
		ChatID:             m.ChatID,
		GroupID:            m.GroupID,
		Reactions:          reactionViews(reactions),
		DeletedForEveryone: m.DeletedForEveryone,
		CreatedAt:          m.CreatedAt,
	}

	if !m.DeletedForEveryone {
		v.Content = b.codec.Decrypt(m.Content, m.Conversation())
	}

	if u := users[m.SenderID]; u != nil {
		v.Sender.Name = u.DisplayName
		v.Sender.AvatarURL = u.AvatarURL
	}

	if m.ReplyToID != nil {
		if target := replies[*m.ReplyToID]; target != nil {
			preview := ReplyPreview{ID: target.ID}
			if !target.DeletedForEveryone {
				preview.Content = b.codec.Decrypt(target.Content, target.Conversation())
			}
			if u := users[target.SenderID]; u != nil {
				preview.SenderName = u.DisplayName
			}
			v.ReplyTo = &preview
		}
	}

	return v
}

// RebuildReactions recomputes only the reaction lists of an already-built
// view, for reaction-stream events that did not change the message set.
// It returns the updated views and whether anything actually changed; when
// changed is false the caller must not re-emit.
func (b *Builder) RebuildReactions(ctx context.Context, views []MessageView) ([]MessageView, bool, error) {
	if len(views) == 0 {
		return views, false, nil
	}

	ids := make([]string, len(views))
	for i, v := range views {
		ids[i] = v.ID
	}
	reactions, err := b.resolver.ListReactionsForMessages(ctx, ids)
	if err != nil {
		return nil, false, err
	}

	changed := false
	out := make([]MessageView, len(views))
	for i, v := range views {
		next := reactionViews(reactions[v.ID])
		if !reactionsEqual(v.Reactions, next) {
			changed = true
		}
		v.Reactions = next
		out[i] = v
	}
	return out, changed, nil
}

func reactionViews(rows []model.MessageReaction) []ReactionView {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].ID < rows[j].ID
		}
		return rows[i].CreatedAt.Before(rows[j].CreatedAt)
	})

	out := make([]ReactionView, len(rows))
	for i, r := range rows {
		out[i] = ReactionView{ID: r.ID, UserID: r.UserID, Emoji: r.Emoji, CreatedAt: r.CreatedAt}
	}
	return out
}

// reactionsEqual compares by length and identity order only, which is all
// a downstream render cares about.
func reactionsEqual(a, b []ReactionView) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}

func dedupeMessages(msgs []model.Message) []model.Message {
	seen := make(map[string]bool, len(msgs))
	out := msgs[:0:0]
	for _, m := range msgs {
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		out = append(out, m)
	}
	return out
}
