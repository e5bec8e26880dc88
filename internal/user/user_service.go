package user

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"

	"GoConvo/internal/common"
	"GoConvo/internal/model"
	"GoConvo/internal/store"
)

// Identity is what the external identity provider hands us after
// authenticating a caller. It is the only thing the core consumes from
// that boundary.
type Identity struct {
	ExternalID  string
	Email       string
	DisplayName string
	AvatarURL   *string
}

// usernameAttempts bounds the append-suffix retry before falling back to
// a randomized suffix.
const usernameAttempts = 5

type UserService interface {
	// GetOrCreateUser bootstraps a user record on first sign-in and
	// returns the existing record on every later one.
	GetOrCreateUser(ctx context.Context, ident Identity) (*model.User, error)
	GetProfile(ctx context.Context, userID string) (*model.User, error)
	UpdateProfile(ctx context.Context, userID, displayName string, avatarURL *string) (*model.User, error)
	SetUsername(ctx context.Context, userID, username string) (*model.User, error)
	SearchUsers(ctx context.Context, prefix string, limit int) ([]model.User, error)
}

type userService struct {
	users store.UserStore
}

func NewUserService(users store.UserStore) UserService {
	return &userService{users: users}
}

func (s *userService) GetOrCreateUser(ctx context.Context, ident Identity) (*model.User, error) {
	if ident.Email == "" {
		return nil, errors.New("identity email cannot be empty")
	}

	existing, err := s.users.GetUserByEmail(ctx, ident.Email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	u := &model.User{
		ID:          uuid.NewString(),
		Email:       ident.Email,
		DisplayName: ident.DisplayName,
		AvatarURL:   ident.AvatarURL,
	}
	if u.DisplayName == "" {
		u.DisplayName = localPart(ident.Email)
	}

	username, err := s.claimUsername(ctx, localPart(ident.Email))
	if err != nil {
		return nil, err
	}
	u.Username = &username

	if err := s.users.CreateUser(ctx, u); err != nil {
		// Another request for the same identity may have won the race.
		if errors.Is(err, common.ErrConflict) {
			return s.users.GetUserByEmail(ctx, ident.Email)
		}
		return nil, err
	}
	return u, nil
}

// claimUsername finds a free username: the base first, then base2..baseN,
// then a randomized fallback once the bounded attempts are spent.
func (s *userService) claimUsername(ctx context.Context, base string) (string, error) {
	base = common.NormalizeUsername(base)
	if len(base) < 3 {
		base = base + "user"
	}

	candidate := base
	for i := 0; i < usernameAttempts; i++ {
		if i > 0 {
			candidate = fmt.Sprintf("%s%d", base, i+1)
		}
		_, err := s.users.GetUserByUsername(ctx, candidate)
		if errors.Is(err, common.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("%s%04d", base, rand.Intn(10000)), nil
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	return s.users.GetUserByID(ctx, userID)
}

func (s *userService) UpdateProfile(ctx context.Context, userID, displayName string, avatarURL *string) (*model.User, error) {
	u, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if displayName != "" {
		u.DisplayName = displayName
	}
	if avatarURL != nil {
		u.AvatarURL = avatarURL
	}
	if err := s.users.UpdateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *userService) SetUsername(ctx context.Context, userID, username string) (*model.User, error) {
	if err := common.ValidateUsername(username); err != nil {
		return nil, err
	}
	normalized := common.NormalizeUsername(username)

	if taken, err := s.users.GetUserByUsername(ctx, normalized); err == nil {
		if taken.ID == userID {
			return taken, nil
		}
		return nil, fmt.Errorf("username %q: %w", normalized, common.ErrConflict)
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	u, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.Username = &normalized
	if err := s.users.UpdateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *userService) SearchUsers(ctx context.Context, prefix string, limit int) ([]model.User, error) {
	if strings.TrimSpace(prefix) == "" {
		return nil, errors.New("search prefix cannot be empty")
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.users.SearchUsersByPrefix(ctx, prefix, limit)
}

func localPart(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}
