package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Collection names known to the application.
const (
	CollectionUsers       = "users"
	CollectionRooms       = "salas"
	CollectionDisciplines = "disciplinas"
	CollectionSections    = "turmas"
)

var (
	// ErrRecordNotFound is returned when an id does not exist in a collection.
	ErrRecordNotFound = errors.New("store: record not found")
	// ErrUnavailable wraps transport or backend faults. Callers that need to
	// distinguish "no records" from "store down" test for it with errors.Is.
	ErrUnavailable = errors.New("store: unavailable")
)

// Record is one schemaless entity-store document. Data holds the entity
// payload; the id is store-assigned and lives outside the payload.
type Record struct {
	ID        string          `json:"_id"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Filter is an exact-match field filter. A nil or empty filter matches
// every record in the collection. No range, sort or pagination semantics.
type Filter map[string]any

// Store is the opaque entity-store contract: four collections of JSON
// records with list/create/partial-update/delete. The store enforces no
// referential integrity and offers no transactions; Update merges the
// partial document into the stored one, last write wins.
type Store interface {
	List(ctx context.Context, collection string, filter Filter) ([]Record, error)
	Create(ctx context.Context, collection string, data json.RawMessage) (Record, error)
	Update(ctx context.Context, collection, id string, partial json.RawMessage) (Record, error)
	Delete(ctx context.Context, collection, id string) error
}
