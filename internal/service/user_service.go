package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/acadsys/acadsys-backend/internal/config"
	"github.com/acadsys/acadsys-backend/internal/model"
)

// ErrNotFound reports an id that matched no user record.
var ErrNotFound = errors.New("record not found")

// DiagnosticsReport is the result of a user-store probe.
type DiagnosticsReport struct {
	TotalUsers  int    `json:"total_users"`
	ProbeHandle string `json:"probe_handle,omitempty"`
	ProbeFound  bool   `json:"probe_found"`
}

// UserService covers operator-account administration: listing, admin edits,
// the active-flag toggle, self-service profile edits and the destructive
// bootstrap/reset flows.
type UserService struct {
	cfg   *config.Config
	users UserRepo
	log   zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(cfg *config.Config, users UserRepo, log zerolog.Logger) *UserService {
	return &UserService{
		cfg:   cfg,
		users: users,
		log:   log.With().Str("component", "user_service").Logger(),
	}
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) Create(ctx context.Context, req model.CreateUserRequest) (model.User, error) {
	return s.users.Create(ctx, model.User{
		UserName:    req.UserName,
		Password:    s.storedPassword(req.Password),
		Role:        req.Role,
		Active:      *req.Active,
		CreatedTime: time.Now().UTC(),
	})
}

// Update applies an admin edit. An empty password keeps the stored
// credential, so the patch omits the field entirely.
func (s *UserService) Update(ctx context.Context, id string, req model.UpdateUserRequest) error {
	patch := map[string]any{
		"userName": req.UserName,
		"userRole": req.Role,
		"ativo":    *req.Active,
	}
	if req.Password != "" {
		patch["password"] = s.storedPassword(req.Password)
	}
	return s.users.Update(ctx, id, patch)
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.users.Delete(ctx, id)
}

// ToggleActive flips the ativo flag and returns the new value.
func (s *UserService) ToggleActive(ctx context.Context, id string) (bool, error) {
	u, err := s.byID(ctx, id)
	if err != nil {
		return false, err
	}

	next := !u.Active
	if err := s.users.Update(ctx, id, map[string]any{"ativo": next}); err != nil {
		return false, err
	}
	return next, nil
}

// UpdateProfile applies a self-service edit of display name and optional
// password. It returns the updated record and whether the password changed;
// a password change forces the caller to re-authenticate.
func (s *UserService) UpdateProfile(ctx context.Context, id string, req model.UpdateProfileRequest) (model.User, bool, error) {
	u, err := s.byID(ctx, id)
	if err != nil {
		return model.User{}, false, err
	}

	patch := map[string]any{"userName": req.UserName}
	passwordChanged := req.NewPassword != ""
	if passwordChanged {
		patch["password"] = s.storedPassword(req.NewPassword)
	}

	if err := s.users.Update(ctx, id, patch); err != nil {
		return model.User{}, false, err
	}

	u.UserName = req.UserName
	if passwordChanged {
		u.Password = patch["password"].(string)
	}
	return u, passwordChanged, nil
}

// EnsureBootstrapAdmin deletes any records holding the given handle and
// creates a single active ADMIN with it. Used by the first-run bootstrap.
func (s *UserService) EnsureBootstrapAdmin(ctx context.Context, displayName, handle, password string) (model.User, error) {
	existing, err := s.users.FindByUserName(ctx, handle)
	if err != nil {
		return model.User{}, fmt.Errorf("probe handle: %w", err)
	}
	for _, u := range existing {
		if err := s.users.Delete(ctx, u.ID); err != nil {
			return model.User{}, fmt.Errorf("remove stale admin %s: %w", u.ID, err)
		}
	}

	admin, err := s.users.Create(ctx, model.User{
		UserName:    displayName,
		Password:    s.storedPassword(password),
		Role:        model.RoleAdmin,
		Active:      true,
		CreatedTime: time.Now().UTC(),
	})
	if err != nil {
		return model.User{}, fmt.Errorf("create admin: %w", err)
	}

	s.log.Info().Str("user_id", admin.ID).Msg("Bootstrap admin created")
	return admin, nil
}

// ResetAllUsers deletes every user record and recreates the bootstrap
// admin. Destructive and deliberately CLI-only.
func (s *UserService) ResetAllUsers(ctx context.Context, displayName, handle, password string) (model.User, error) {
	all, err := s.users.List(ctx)
	if err != nil {
		return model.User{}, fmt.Errorf("list users: %w", err)
	}

	for _, u := range all {
		if err := s.users.Delete(ctx, u.ID); err != nil {
			return model.User{}, fmt.Errorf("delete user %s: %w", u.ID, err)
		}
	}
	s.log.Warn().Int("deleted", len(all)).Msg("All user records deleted")

	return s.EnsureBootstrapAdmin(ctx, displayName, handle, password)
}

// Diagnose probes the user store: total record count plus whether an
// exact-match lookup of the given handle hits.
func (s *UserService) Diagnose(ctx context.Context, handle string) (DiagnosticsReport, error) {
	all, err := s.users.List(ctx)
	if err != nil {
		return DiagnosticsReport{}, err
	}

	report := DiagnosticsReport{TotalUsers: len(all), ProbeHandle: handle}
	if handle != "" {
		matches, err := s.users.FindByUserName(ctx, handle)
		if err != nil {
			return DiagnosticsReport{}, err
		}
		report.ProbeFound = len(matches) > 0
	}
	return report, nil
}

func (s *UserService) byID(ctx context.Context, id string) (model.User, error) {
	all, err := s.users.List(ctx)
	if err != nil {
		return model.User{}, err
	}
	for _, u := range all {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, ErrNotFound
}

// storedPassword applies the configured credential policy: plaintext for
// legacy compatibility, bcrypt when hashing is enabled.
func (s *UserService) storedPassword(plain string) string {
	if !s.cfg.HashOnLogin {
		return plain
	}
	hashed, err := hashPassword(plain, s.cfg.BcryptCost)
	if err != nil {
		s.log.Error().Err(err).Msg("Password hash failed, storing plaintext")
		return plain
	}
	return hashed
}
