package handler

import (
	"errors"
	"net/http"

	"GoConvo/internal/user"
)

// TrustedHeaderResolver reads the authenticated identity from headers set
// by a fronting auth gateway. The gateway strips these headers from
// client traffic, so their presence means the gateway verified the
// provider token.
type TrustedHeaderResolver struct{}

func (TrustedHeaderResolver) ResolveAuthenticatedUser(r *http.Request) (*user.Identity, error) {
	email := r.Header.Get("X-Auth-Email")
	if email == "" {
		return nil, errors.New("no authenticated identity on request")
	}
	ident := &user.Identity{
		ExternalID:  r.Header.Get("X-Auth-Subject"),
		Email:       email,
		DisplayName: r.Header.Get("X-Auth-Name"),
	}
	if avatar := r.Header.Get("X-Auth-Picture"); avatar != "" {
		ident.AvatarURL = &avatar
	}
	return ident, nil
}
