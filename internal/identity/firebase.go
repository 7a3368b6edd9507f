package identity

import (
	"context"
	"errors"
	"fmt"

	identitytoolkit "google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"
)

// FirebaseVerifier resolves id tokens through the Identity Toolkit
// getAccountInfo endpoint, the lookup behind Firebase Authentication.
type FirebaseVerifier struct {
	svc *identitytoolkit.Service
}

var _ Verifier = (*FirebaseVerifier)(nil)

func NewFirebaseVerifier(ctx context.Context, apiKey string) (*FirebaseVerifier, error) {
	if apiKey == "" {
		return nil, errors.New("missing Firebase web API key")
	}
	svc, err := identitytoolkit.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("identitytoolkit service: %w", err)
	}
	return &FirebaseVerifier{svc: svc}, nil
}

func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (User, error) {
	if idToken == "" {
		return User{}, ErrInvalidToken
	}

	resp, err := v.svc.Relyingparty.GetAccountInfo(&identitytoolkit.IdentitytoolkitRelyingpartyGetAccountInfoRequest{
		IdToken: idToken,
	}).Context(ctx).Do()
	if err != nil {
		return User{}, fmt.Errorf("get account info: %w", err)
	}
	if len(resp.Users) == 0 {
		return User{}, ErrInvalidToken
	}

	u := resp.Users[0]
	user := User{
		UID:         u.LocalId,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
	}
	for _, p := range u.ProviderUserInfo {
		if p != nil && p.ProviderId != "" {
			user.Providers = append(user.Providers, p.ProviderId)
		}
	}
	if user.UID == "" {
		return User{}, ErrInvalidToken
	}
	return user, nil
}
