package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/acadsys/acadsys-backend/internal/model"
	"github.com/acadsys/acadsys-backend/internal/store"
)

type RoomRepository struct {
	store store.Store
}

func NewRoomRepository(s store.Store) *RoomRepository {
	return &RoomRepository{store: s}
}

func (r *RoomRepository) List(ctx context.Context) ([]model.Room, error) {
	records, err := r.store.List(ctx, store.CollectionRooms, nil)
	if err != nil {
		return nil, err
	}

	rooms := make([]model.Room, 0, len(records))
	for _, rec := range records {
		var room model.Room
		if err := json.Unmarshal(rec.Data, &room); err != nil {
			return nil, fmt.Errorf("decode room %s: %w", rec.ID, err)
		}
		room.ID = rec.ID
		rooms = append(rooms, room)
	}
	return rooms, nil
}

func (r *RoomRepository) Create(ctx context.Context, room model.Room) (model.Room, error) {
	room.ID = ""
	doc, err := json.Marshal(room)
	if err != nil {
		return model.Room{}, fmt.Errorf("marshal room: %w", err)
	}

	rec, err := r.store.Create(ctx, store.CollectionRooms, doc)
	if err != nil {
		return model.Room{}, err
	}
	room.ID = rec.ID
	return room, nil
}

// Update sends a partial patch; the store merges it into the stored record.
func (r *RoomRepository) Update(ctx context.Context, id string, partial any) error {
	doc, err := json.Marshal(partial)
	if err != nil {
		return fmt.Errorf("marshal room patch: %w", err)
	}
	_, err = r.store.Update(ctx, store.CollectionRooms, id, doc)
	return err
}

func (r *RoomRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, store.CollectionRooms, id)
}
