// Package identity verifies bearer tokens with the external identity
// provider and exposes the signed-in user to the rest of the service.
package identity

import (
	"context"
	"errors"
)

// Sign-in providers allowed to own a profile. Phone-only sign-ins are
// authenticated but may not hold a document; the session layer forces them
// back out.
const (
	ProviderPassword = "password"
	ProviderGoogle   = "google.com"
)

var ErrInvalidToken = errors.New("invalid or expired id token")

type (
	User struct {
		UID         string   `json:"uid"`
		Email       string   `json:"email"`
		PhoneNumber string   `json:"phoneNumber"`
		Providers   []string `json:"providers"`
	}

	// Verifier resolves a bearer token to the user it belongs to.
	Verifier interface {
		Verify(ctx context.Context, idToken string) (User, error)
	}
)

// Allowed reports whether the user signed in with a provider that may own
// a profile document.
func (u User) Allowed() bool {
	for _, p := range u.Providers {
		if p == ProviderPassword || p == ProviderGoogle {
			return true
		}
	}
	return false
}
