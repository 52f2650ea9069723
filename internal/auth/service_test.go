package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/walletshare/walletshare/internal/account"
	"github.com/walletshare/walletshare/internal/config"
)

func testConfig() config.Config {
	return config.Config{
		JWTSecret:       "test-secret",
		RefreshSecret:   "test-refresh",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
	}
}

func TestSignAndVerifyRoundTrip(t *testing.T) {
	claims := map[string]any{"sub": "abc", "exp": time.Now().Add(time.Minute).Unix()}
	token, err := SignHS256(claims, []byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	parsed, err := ParseAndVerifyHS256(token, []byte("secret"))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if parsed["sub"] != "abc" {
		t.Fatalf("unexpected claims: %+v", parsed)
	}
	if _, err := ParseAndVerifyHS256(token, []byte("wrong")); err == nil {
		t.Fatal("expected verification failure with wrong secret")
	}
}

func TestLoginRefreshLogout(t *testing.T) {
	dir := account.NewMemoryDirectory()
	ctx := context.Background()
	acct := account.Account{ID: uuid.NewString(), Email: "ada@example.com", CreatedAt: time.Now().UTC()}
	if err := dir.Create(ctx, acct); err != nil {
		t.Fatalf("create account: %v", err)
	}

	svc := NewService(testConfig(), dir)

	pair, err := svc.Login(acct)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("incomplete token pair: %+v", pair)
	}

	access, _, err := svc.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if access == "" {
		t.Fatal("empty refreshed access token")
	}

	if err := svc.Logout(ctx, acct.ID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	// Old refresh token carries the pre-logout version and must be rejected.
	if _, _, err := svc.Refresh(ctx, pair.RefreshToken); err == nil {
		t.Fatal("expected refresh rejection after logout")
	}
}
