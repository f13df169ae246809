package services

import (
	"testing"

	"github.com/yungbote/flagbridge-backend/internal/apierr"
	"github.com/yungbote/flagbridge-backend/internal/logger"
)

func newAuth(t *testing.T) AuthService {
	t.Helper()
	auth, err := NewAuthService(logger.NewNop(), "test-secret", "admin", "hunter2")
	if err != nil {
		t.Fatalf("new auth service: %v", err)
	}
	return auth
}

func TestLoginAndVerifyRoundTrip(t *testing.T) {
	auth := newAuth(t)

	token, err := auth.Login("admin", "hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Fatalf("login returned an empty token")
	}

	subject, err := auth.VerifyToken(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if subject != "admin" {
		t.Fatalf("token subject = %q, want admin", subject)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	auth := newAuth(t)

	cases := []struct {
		name     string
		user     string
		password string
	}{
		{"wrong password", "admin", "wrong"},
		{"unknown user", "nobody", "hunter2"},
		{"empty everything", "", ""},
	}
	for _, tc := range cases {
		if _, err := auth.Login(tc.user, tc.password); apierr.StatusOf(err) != 403 {
			t.Fatalf("%s: login error = %v, want forbidden", tc.name, err)
		}
	}
}

func TestVerifyRejectsForeignTokens(t *testing.T) {
	auth := newAuth(t)

	if _, err := auth.VerifyToken("not-a-token"); apierr.StatusOf(err) != 403 {
		t.Fatalf("garbage token error = %v, want forbidden", err)
	}

	// A token signed with a different secret does not verify.
	other, err := NewAuthService(logger.NewNop(), "other-secret", "admin", "hunter2")
	if err != nil {
		t.Fatalf("new auth service: %v", err)
	}
	foreign, err := other.Login("admin", "hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := auth.VerifyToken(foreign); apierr.StatusOf(err) != 403 {
		t.Fatalf("foreign token error = %v, want forbidden", err)
	}
}

func TestAuthServiceRequiresSecret(t *testing.T) {
	if _, err := NewAuthService(logger.NewNop(), "", "admin", "hunter2"); err == nil {
		t.Fatalf("constructor accepted an empty secret")
	}
}
