package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/acadsys/acadsys-backend/internal/model"
	"github.com/acadsys/acadsys-backend/internal/store"
)

// userDoc is the store payload shape of a user record, credential included.
type userDoc struct {
	UserName    string    `json:"userName"`
	Password    string    `json:"password"`
	Role        string    `json:"userRole"`
	Active      bool      `json:"ativo"`
	CreatedTime time.Time `json:"createdTime"`
}

type UserRepository struct {
	store store.Store
}

func NewUserRepository(s store.Store) *UserRepository {
	return &UserRepository{store: s}
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	return r.list(ctx, nil)
}

// FindByUserName returns every record whose userName matches exactly.
// Handle uniqueness is assumed, not enforced, so callers get a slice.
func (r *UserRepository) FindByUserName(ctx context.Context, handle string) ([]model.User, error) {
	return r.list(ctx, store.Filter{"userName": handle})
}

func (r *UserRepository) list(ctx context.Context, filter store.Filter) ([]model.User, error) {
	records, err := r.store.List(ctx, store.CollectionUsers, filter)
	if err != nil {
		return nil, err
	}

	users := make([]model.User, 0, len(records))
	for _, rec := range records {
		u, err := decodeUser(rec)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

func (r *UserRepository) Create(ctx context.Context, u model.User) (model.User, error) {
	if u.CreatedTime.IsZero() {
		u.CreatedTime = time.Now().UTC()
	}
	doc, err := json.Marshal(userDoc{
		UserName:    u.UserName,
		Password:    u.Password,
		Role:        u.Role,
		Active:      u.Active,
		CreatedTime: u.CreatedTime,
	})
	if err != nil {
		return model.User{}, fmt.Errorf("marshal user: %w", err)
	}

	rec, err := r.store.Create(ctx, store.CollectionUsers, doc)
	if err != nil {
		return model.User{}, err
	}
	u.ID = rec.ID
	return u, nil
}

// Update sends a partial patch; the store merges it into the stored record.
func (r *UserRepository) Update(ctx context.Context, id string, partial any) error {
	doc, err := json.Marshal(partial)
	if err != nil {
		return fmt.Errorf("marshal user patch: %w", err)
	}
	_, err = r.store.Update(ctx, store.CollectionUsers, id, doc)
	return err
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, store.CollectionUsers, id)
}

func decodeUser(rec store.Record) (model.User, error) {
	var doc userDoc
	if err := json.Unmarshal(rec.Data, &doc); err != nil {
		return model.User{}, fmt.Errorf("decode user %s: %w", rec.ID, err)
	}
	return model.User{
		ID:          rec.ID,
		UserName:    doc.UserName,
		Password:    doc.Password,
		Role:        doc.Role,
		Active:      doc.Active,
		CreatedTime: doc.CreatedTime,
	}, nil
}
