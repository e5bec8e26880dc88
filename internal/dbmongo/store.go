package dbmongo

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"GoConvo/internal/common"
	"GoConvo/internal/store"
	"GoConvo/internal/view"
)

const (
	colUsers        = "users"
	colChats        = "chats"
	colMessages     = "messages"
	colReactions    = "message_reactions"
	colGroups       = "groups"
	colGroupMembers = "group_members"
	colRooms        = "rooms"
	colBlocked      = "blocked_users"
)

// MongoStore implements the full contract plus the live capability.
type MongoStore struct {
	db      *mongo.Database
	builder *view.Builder
}

var _ store.Store = (*MongoStore)(nil)
var _ store.Subscriptions = (*MongoStore)(nil)

// NewStore wires a builder lazily because the builder resolves lookups
// through the store itself.
func NewStore(client *MongoClient, codec view.Codec) *MongoStore {
	s := &MongoStore{db: client.Database}
	s.builder = view.NewBuilder(codec, s)
	return s
}

// Live is the capability probe: Mongo streams changes, so the same store
// doubles as its own subscription API.
func (s *MongoStore) Live() store.Subscriptions { return s }

func wrapNotFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return common.ErrNotFound
	}
	return err
}

func isDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
