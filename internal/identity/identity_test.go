package identity

import (
	"context"
	"errors"
	"testing"
)

func TestUserAllowed(t *testing.T) {
	cases := []struct {
		providers []string
		want      bool
	}{
		{[]string{ProviderGoogle}, true},
		{[]string{ProviderPassword}, true},
		{[]string{"phone", ProviderGoogle}, true},
		{[]string{"phone"}, false},
		{nil, false},
	}
	for i, tc := range cases {
		u := User{UID: "u", Providers: tc.providers}
		if got := u.Allowed(); got != tc.want {
			t.Fatalf("case %d: Allowed(%v) = %v, want %v", i, tc.providers, got, tc.want)
		}
	}
}

func TestStaticVerifier(t *testing.T) {
	v := &StaticVerifier{Users: map[string]User{
		"tok-1": {UID: "u1", Email: "a@b.c", Providers: []string{ProviderPassword}},
	}}

	u, err := v.Verify(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if u.UID != "u1" {
		t.Fatalf("uid = %q", u.UID)
	}

	_, err = v.Verify(context.Background(), "unknown")
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
