package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/acadsys/acadsys-backend/internal/model"
	"github.com/acadsys/acadsys-backend/internal/store"
)

type ClassSectionRepository struct {
	store store.Store
}

func NewClassSectionRepository(s store.Store) *ClassSectionRepository {
	return &ClassSectionRepository{store: s}
}

func (r *ClassSectionRepository) List(ctx context.Context) ([]model.ClassSection, error) {
	records, err := r.store.List(ctx, store.CollectionSections, nil)
	if err != nil {
		return nil, err
	}

	sections := make([]model.ClassSection, 0, len(records))
	for _, rec := range records {
		var s model.ClassSection
		if err := json.Unmarshal(rec.Data, &s); err != nil {
			return nil, fmt.Errorf("decode class section %s: %w", rec.ID, err)
		}
		s.ID = rec.ID
		sections = append(sections, s)
	}
	return sections, nil
}

func (r *ClassSectionRepository) Create(ctx context.Context, s model.ClassSection) (model.ClassSection, error) {
	s.ID = ""
	doc, err := json.Marshal(s)
	if err != nil {
		return model.ClassSection{}, fmt.Errorf("marshal class section: %w", err)
	}

	rec, err := r.store.Create(ctx, store.CollectionSections, doc)
	if err != nil {
		return model.ClassSection{}, err
	}
	s.ID = rec.ID
	return s, nil
}

// Update sends a partial patch; the store merges it into the stored record.
// Two racing patches on the same id resolve by the store's last write wins.
func (r *ClassSectionRepository) Update(ctx context.Context, id string, partial any) error {
	doc, err := json.Marshal(partial)
	if err != nil {
		return fmt.Errorf("marshal class section patch: %w", err)
	}
	_, err = r.store.Update(ctx, store.CollectionSections, id, doc)
	return err
}

func (r *ClassSectionRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, store.CollectionSections, id)
}
