package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/acadsys/acadsys-backend/internal/model"
	"github.com/acadsys/acadsys-backend/internal/store"
)

type DisciplineRepository struct {
	store store.Store
}

func NewDisciplineRepository(s store.Store) *DisciplineRepository {
	return &DisciplineRepository{store: s}
}

func (r *DisciplineRepository) List(ctx context.Context) ([]model.Discipline, error) {
	records, err := r.store.List(ctx, store.CollectionDisciplines, nil)
	if err != nil {
		return nil, err
	}

	disciplines := make([]model.Discipline, 0, len(records))
	for _, rec := range records {
		var d model.Discipline
		if err := json.Unmarshal(rec.Data, &d); err != nil {
			return nil, fmt.Errorf("decode discipline %s: %w", rec.ID, err)
		}
		d.ID = rec.ID
		disciplines = append(disciplines, d)
	}
	return disciplines, nil
}

func (r *DisciplineRepository) Create(ctx context.Context, d model.Discipline) (model.Discipline, error) {
	d.ID = ""
	doc, err := json.Marshal(d)
	if err != nil {
		return model.Discipline{}, fmt.Errorf("marshal discipline: %w", err)
	}

	rec, err := r.store.Create(ctx, store.CollectionDisciplines, doc)
	if err != nil {
		return model.Discipline{}, err
	}
	d.ID = rec.ID
	return d, nil
}

// Update sends a partial patch; the store merges it into the stored record.
func (r *DisciplineRepository) Update(ctx context.Context, id string, partial any) error {
	doc, err := json.Marshal(partial)
	if err != nil {
		return fmt.Errorf("marshal discipline patch: %w", err)
	}
	_, err = r.store.Update(ctx, store.CollectionDisciplines, id, doc)
	return err
}

func (r *DisciplineRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, store.CollectionDisciplines, id)
}
