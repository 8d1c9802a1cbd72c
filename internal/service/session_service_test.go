package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/acadsys/acadsys-backend/internal/config"
	"github.com/acadsys/acadsys-backend/internal/model"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:     "test-secret",
		SessionExpiry: time.Hour,
		BcryptCost:    bcrypt.MinCost,
	}
}

func newSessionFixture(cfg *config.Config, users ...model.User) (*SessionService, *fakeUserRepo, *fakeSessionStore) {
	repo := &fakeUserRepo{users: users}
	sessions := newFakeSessionStore()
	svc := NewSessionService(cfg, repo, sessions, zerolog.Nop())
	return svc, repo, sessions
}

func TestSignInSuccess(t *testing.T) {
	svc, _, sessions := newSessionFixture(testConfig(),
		model.User{ID: "u1", UserName: "ana", Password: "p1", Role: model.RoleAdmin, Active: true})

	u, token, err := svc.SignIn(context.Background(), "ana", "p1")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if u.ID != "u1" || token == "" {
		t.Fatalf("SignIn returned user %+v, token %q", u, token)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Subject != "u1" || claims.Role != model.RoleAdmin {
		t.Errorf("claims = %+v", claims)
	}

	// The full record, credential included, was persisted before SignIn
	// returned.
	stored, err := sessions.Get(context.Background(), claims.ID)
	if err != nil {
		t.Fatalf("session record missing: %v", err)
	}
	if stored.ID != u.ID || stored.Password != "p1" {
		t.Errorf("stored session record = %+v", stored)
	}
}

func TestSignInUnknownHandle(t *testing.T) {
	svc, _, _ := newSessionFixture(testConfig(),
		model.User{ID: "u1", UserName: "ana", Password: "p1", Active: true})

	_, _, err := svc.SignIn(context.Background(), "bruno", "p1")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("SignIn = %v, want ErrUserNotFound", err)
	}
}

func TestSignInWrongPassword(t *testing.T) {
	svc, _, _ := newSessionFixture(testConfig(),
		model.User{ID: "u1", UserName: "ana", Password: "p1", Active: true})

	_, _, err := svc.SignIn(context.Background(), "ana", "wrong")
	if !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("SignIn = %v, want ErrInvalidCredential", err)
	}
}

func TestSignInDisabledAccount(t *testing.T) {
	svc, _, _ := newSessionFixture(testConfig(),
		model.User{ID: "u1", UserName: "ana", Password: "p1", Active: false})

	_, _, err := svc.SignIn(context.Background(), "ana", "p1")
	if !errors.Is(err, ErrAccountDisabled) {
		t.Fatalf("SignIn = %v, want ErrAccountDisabled", err)
	}

	// A wrong password on the disabled account still reports the
	// credential error, not the disabled one.
	_, _, err = svc.SignIn(context.Background(), "ana", "wrong")
	if !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("SignIn = %v, want ErrInvalidCredential", err)
	}
}

func TestSignInTrimsInput(t *testing.T) {
	svc, _, _ := newSessionFixture(testConfig(),
		model.User{ID: "u1", UserName: "ana", Password: "p1", Active: true})

	if _, _, err := svc.SignIn(context.Background(), "  ana  ", " p1 "); err != nil {
		t.Fatalf("SignIn with padded input: %v", err)
	}
}

func TestSignInFirstMatchWinsOnDuplicateHandle(t *testing.T) {
	svc, _, _ := newSessionFixture(testConfig(),
		model.User{ID: "u1", UserName: "ana", Password: "p1", Active: true},
		model.User{ID: "u2", UserName: "ana", Password: "p2", Active: true})

	u, _, err := svc.SignIn(context.Background(), "ana", "p1")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if u.ID != "u1" {
		t.Errorf("matched user %s, want u1", u.ID)
	}

	// The second record's password does not authenticate; only the first
	// match is ever compared.
	if _, _, err := svc.SignIn(context.Background(), "ana", "p2"); !errors.Is(err, ErrInvalidCredential) {
		t.Errorf("second record's password authenticated: %v", err)
	}
}

func TestSignInAcceptsBcryptStoredPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("p1"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	svc, _, _ := newSessionFixture(testConfig(),
		model.User{ID: "u1", UserName: "ana", Password: string(hash), Active: true})

	if _, _, err := svc.SignIn(context.Background(), "ana", "p1"); err != nil {
		t.Fatalf("SignIn against hashed credential: %v", err)
	}
	if _, _, err := svc.SignIn(context.Background(), "ana", "p2"); !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("SignIn with wrong password = %v", err)
	}
}

func TestSignInUpgradesPlaintextWhenEnabled(t *testing.T) {
	cfg := testConfig()
	cfg.HashOnLogin = true
	svc, repo, _ := newSessionFixture(cfg,
		model.User{ID: "u1", UserName: "ana", Password: "p1", Active: true})

	if _, _, err := svc.SignIn(context.Background(), "ana", "p1"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	stored := repo.users[0].Password
	if !strings.HasPrefix(stored, "$2") {
		t.Fatalf("password not upgraded, still %q", stored)
	}
	// Subsequent sign-ins keep working against the upgraded hash.
	if _, _, err := svc.SignIn(context.Background(), "ana", "p1"); err != nil {
		t.Fatalf("SignIn after upgrade: %v", err)
	}
}

func TestSignOutRemovesSession(t *testing.T) {
	svc, _, sessions := newSessionFixture(testConfig(),
		model.User{ID: "u1", UserName: "ana", Password: "p1", Active: true})
	ctx := context.Background()

	_, token, err := svc.SignIn(ctx, "ana", "p1")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}

	if err := svc.SignOut(ctx, claims.ID); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if _, err := sessions.Get(ctx, claims.ID); !errors.Is(err, ErrNoSession) {
		t.Fatalf("session record survived sign-out: %v", err)
	}
	if _, err := svc.Current(ctx, claims.ID); !errors.Is(err, ErrNoSession) {
		t.Fatalf("Current after sign-out = %v, want ErrNoSession", err)
	}
}

func TestCurrentClearsCorruptRecord(t *testing.T) {
	svc, _, sessions := newSessionFixture(testConfig(),
		model.User{ID: "u1", UserName: "ana", Password: "p1", Active: true})
	ctx := context.Background()

	_, token, err := svc.SignIn(ctx, "ana", "p1")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	claims, _ := svc.ValidateToken(token)

	sessions.corrupt[claims.ID] = true
	if _, err := svc.Current(ctx, claims.ID); !errors.Is(err, ErrNoSession) {
		t.Fatalf("Current with corrupt record = %v, want ErrNoSession", err)
	}
	// The corrupt record was cleared, not left to fail again.
	if _, ok := sessions.sessions[claims.ID]; ok {
		t.Error("corrupt session record still present")
	}
}

func TestValidateTokenRejectsForgery(t *testing.T) {
	svc, _, _ := newSessionFixture(testConfig(),
		model.User{ID: "u1", UserName: "ana", Password: "p1", Active: true})

	_, token, err := svc.SignIn(context.Background(), "ana", "p1")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	otherCfg := testConfig()
	otherCfg.JWTSecret = "different-secret"
	other := NewSessionService(otherCfg, &fakeUserRepo{}, newFakeSessionStore(), zerolog.Nop())

	if _, err := other.ValidateToken(token); err == nil {
		t.Fatal("token signed with another secret validated")
	}
	if _, err := svc.ValidateToken("not-a-token"); err == nil {
		t.Fatal("garbage token validated")
	}
}

func TestRefreshStoredUser(t *testing.T) {
	svc, _, sessions := newSessionFixture(testConfig(),
		model.User{ID: "u1", UserName: "ana", Password: "p1", Active: true})
	ctx := context.Background()

	_, token, err := svc.SignIn(ctx, "ana", "p1")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	claims, _ := svc.ValidateToken(token)

	updated := model.User{ID: "u1", UserName: "ana maria", Password: "p1", Active: true}
	if err := svc.RefreshStoredUser(ctx, claims.ID, updated); err != nil {
		t.Fatalf("RefreshStoredUser: %v", err)
	}

	got, err := sessions.Get(ctx, claims.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.UserName != "ana maria" {
		t.Errorf("restored identity = %+v", got)
	}
}
