package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/acadsys/acadsys-backend/internal/config"
	"github.com/acadsys/acadsys-backend/internal/model"
)

// Sign-in failure taxonomy. Handlers map these to HTTP statuses.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrAccountDisabled   = errors.New("account disabled")
	ErrNoSession         = errors.New("no active session")
)

// UserRepo is the slice of the user repository the services need.
type UserRepo interface {
	List(ctx context.Context) ([]model.User, error)
	FindByUserName(ctx context.Context, handle string) ([]model.User, error)
	Create(ctx context.Context, u model.User) (model.User, error)
	Update(ctx context.Context, id string, partial any) error
	Delete(ctx context.Context, id string) error
}

// SessionStore persists the signed-in user's record under a session id.
// Presence of the record is the sole authenticated signal; Get reports
// ErrNoSession for a missing or undecodable record (the latter is cleared).
type SessionStore interface {
	Put(ctx context.Context, sessionID string, u model.User, ttl time.Duration) error
	Get(ctx context.Context, sessionID string) (model.User, error)
	Delete(ctx context.Context, sessionID string) error
}

// Claims extends JWT standard claims with the identity snapshot the
// middleware needs before it resolves the session record.
type Claims struct {
	jwt.RegisteredClaims
	UserName string `json:"user_name"`
	Role     string `json:"role"`
}

// SessionService resolves and holds the operator's identity: sign-in,
// sign-out and session restoration. The session record in the store is the
// single source of truth; the JWT only transports the session id.
type SessionService struct {
	cfg      *config.Config
	users    UserRepo
	sessions SessionStore
	log      zerolog.Logger
}

// NewSessionService creates a new SessionService.
func NewSessionService(cfg *config.Config, users UserRepo, sessions SessionStore, log zerolog.Logger) *SessionService {
	return &SessionService{
		cfg:      cfg,
		users:    users,
		sessions: sessions,
		log:      log.With().Str("component", "session_service").Logger(),
	}
}

// SignIn authenticates by login handle and password. The lookup is an exact
// match on the trimmed handle; when several records share the handle the
// first one wins (uniqueness is assumed upstream, not enforced). On success
// the user record is persisted in the session store before the token is
// issued, so callers can rely on persisted state once SignIn returns.
func (s *SessionService) SignIn(ctx context.Context, handle, password string) (model.User, string, error) {
	handle = strings.TrimSpace(handle)
	password = strings.TrimSpace(password)

	matches, err := s.users.FindByUserName(ctx, handle)
	if err != nil {
		return model.User{}, "", fmt.Errorf("lookup user: %w", err)
	}
	if len(matches) == 0 {
		return model.User{}, "", ErrUserNotFound
	}
	u := matches[0]

	if !passwordMatches(u.Password, password) {
		return model.User{}, "", ErrInvalidCredential
	}

	// The disabled check comes after the credential check, so a wrong
	// password on a disabled account still reports the credential error.
	if !u.Active {
		return model.User{}, "", ErrAccountDisabled
	}

	if s.cfg.HashOnLogin && !isBcryptHash(u.Password) {
		if hashed, err := hashPassword(password, s.cfg.BcryptCost); err == nil {
			if err := s.users.Update(ctx, u.ID, map[string]any{"password": hashed}); err != nil {
				s.log.Warn().Err(err).Str("user_id", u.ID).Msg("Password upgrade failed")
			} else {
				u.Password = hashed
			}
		}
	}

	sessionID := uuid.New().String()
	if err := s.sessions.Put(ctx, sessionID, u, s.cfg.SessionExpiry); err != nil {
		return model.User{}, "", fmt.Errorf("persist session: %w", err)
	}

	token, err := s.issueToken(sessionID, u)
	if err != nil {
		return model.User{}, "", fmt.Errorf("sign token: %w", err)
	}

	s.log.Info().Str("user_id", u.ID).Str("role", u.Role).Msg("Signed in")
	return u, token, nil
}

// SignOut clears the persisted session record. The record is gone before
// the call returns.
func (s *SessionService) SignOut(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

// Current restores the identity persisted under sessionID. No store round
// trip re-validates the user; the restored record is trusted until the next
// explicit action invalidates it.
func (s *SessionService) Current(ctx context.Context, sessionID string) (model.User, error) {
	return s.sessions.Get(ctx, sessionID)
}

// RefreshStoredUser rewrites the persisted session record after a profile
// edit so the restored identity reflects the change.
func (s *SessionService) RefreshStoredUser(ctx context.Context, sessionID string, u model.User) error {
	return s.sessions.Put(ctx, sessionID, u, s.cfg.SessionExpiry)
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *SessionService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

func (s *SessionService) issueToken(sessionID string, u model.User) (string, error) {
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.SessionExpiry)),
		},
		UserName: u.UserName,
		Role:     u.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// ─── Password helpers ───────────────────────────────────────────────

// Legacy records store the password in plaintext and compare by equality;
// upgraded records hold a bcrypt hash. Which comparison applies is decided
// by the stored value's shape.
func passwordMatches(stored, input string) bool {
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(input)) == nil
	}
	return stored == input
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

func hashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(hash), err
}
