package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GoConvo/internal/common"
	"GoConvo/internal/model"
	"GoConvo/internal/store/memstore"
)

func TestGetOrCreateUser_BootstrapsOnFirstSignIn(t *testing.T) {
	svc := NewUserService(memstore.New())
	ctx := context.Background()

	u, err := svc.GetOrCreateUser(ctx, Identity{
		ExternalID:  "sub-1",
		Email:       "alice@example.com",
		DisplayName: "Alice",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "Alice", u.DisplayName)
	require.NotNil(t, u.Username)
	assert.Equal(t, "alice", *u.Username)

	// The second sign-in returns the same record.
	again, err := svc.GetOrCreateUser(ctx, Identity{Email: "alice@example.com"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.ID)
}

func TestGetOrCreateUser_DisplayNameDefaultsToLocalPart(t *testing.T) {
	svc := NewUserService(memstore.New())

	u, err := svc.GetOrCreateUser(context.Background(), Identity{Email: "carol@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "carol", u.DisplayName)
}

func TestGetOrCreateUser_UsernameCollisionGetsSuffix(t *testing.T) {
	svc := NewUserService(memstore.New())
	ctx := context.Background()

	first, err := svc.GetOrCreateUser(ctx, Identity{Email: "sam@one.example.com"})
	require.NoError(t, err)
	require.NotNil(t, first.Username)
	assert.Equal(t, "sam", *first.Username)

	second, err := svc.GetOrCreateUser(ctx, Identity{Email: "sam@two.example.com"})
	require.NoError(t, err)
	require.NotNil(t, second.Username)
	assert.Equal(t, "sam2", *second.Username)

	third, err := svc.GetOrCreateUser(ctx, Identity{Email: "sam@three.example.com"})
	require.NoError(t, err)
	require.NotNil(t, third.Username)
	assert.Equal(t, "sam3", *third.Username)
}

func TestGetOrCreateUser_EmptyEmail(t *testing.T) {
	svc := NewUserService(memstore.New())

	_, err := svc.GetOrCreateUser(context.Background(), Identity{})
	assert.Error(t, err)
}

func TestSetUsername(t *testing.T) {
	st := memstore.New()
	svc := NewUserService(st)
	ctx := context.Background()

	alice, err := svc.GetOrCreateUser(ctx, Identity{Email: "alice@example.com"})
	require.NoError(t, err)
	bob, err := svc.GetOrCreateUser(ctx, Identity{Email: "bob@example.com"})
	require.NoError(t, err)

	// Case is normalized away.
	updated, err := svc.SetUsername(ctx, alice.ID, "Wonderland_1")
	require.NoError(t, err)
	require.NotNil(t, updated.Username)
	assert.Equal(t, "wonderland_1", *updated.Username)

	// Re-claiming your own name is a no-op, not a conflict.
	_, err = svc.SetUsername(ctx, alice.ID, "wonderland_1")
	assert.NoError(t, err)

	// Someone else's name is a conflict.
	_, err = svc.SetUsername(ctx, bob.ID, "wonderland_1")
	assert.ErrorIs(t, err, common.ErrConflict)

	// Invalid shapes are rejected before any lookup.
	_, err = svc.SetUsername(ctx, bob.ID, "x")
	assert.Error(t, err)
	_, err = svc.SetUsername(ctx, bob.ID, "has spaces")
	assert.Error(t, err)
}

func TestUpdateProfile(t *testing.T) {
	svc := NewUserService(memstore.New())
	ctx := context.Background()

	u, err := svc.GetOrCreateUser(ctx, Identity{Email: "alice@example.com", DisplayName: "Alice"})
	require.NoError(t, err)

	avatar := "https://cdn.example.com/a.png"
	updated, err := svc.UpdateProfile(ctx, u.ID, "Alice L.", &avatar)
	require.NoError(t, err)
	assert.Equal(t, "Alice L.", updated.DisplayName)
	require.NotNil(t, updated.AvatarURL)
	assert.Equal(t, avatar, *updated.AvatarURL)

	// Empty display name leaves the old one in place.
	updated, err = svc.UpdateProfile(ctx, u.ID, "", nil)
	require.NoError(t, err)
	assert.Equal(t, "Alice L.", updated.DisplayName)
}

func TestSearchUsers(t *testing.T) {
	st := memstore.New()
	svc := NewUserService(st)
	ctx := context.Background()

	for _, name := range []string{"sam", "samuel", "samantha", "pat"} {
		username := name
		require.NoError(t, st.CreateUser(ctx, &model.User{
			ID:       name,
			Email:    name + "@example.com",
			Username: &username,
		}))
	}

	found, err := svc.SearchUsers(ctx, "sam", 10)
	require.NoError(t, err)
	assert.Len(t, found, 3)

	found, err = svc.SearchUsers(ctx, "sam", 2)
	require.NoError(t, err)
	assert.Len(t, found, 2)

	_, err = svc.SearchUsers(ctx, "   ", 10)
	assert.Error(t, err)
}
