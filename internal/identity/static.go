package identity

import "context"

// StaticVerifier maps fixed tokens to users. Used by tests and local
// development where no identity provider is reachable.
type StaticVerifier struct {
	Users map[string]User // token -> user
}

var _ Verifier = (*StaticVerifier)(nil)

func (v *StaticVerifier) Verify(_ context.Context, idToken string) (User, error) {
	u, ok := v.Users[idToken]
	if !ok {
		return User{}, ErrInvalidToken
	}
	return u, nil
}
