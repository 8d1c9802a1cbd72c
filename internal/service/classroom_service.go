package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/acadsys/acadsys-backend/internal/model"
	"github.com/acadsys/acadsys-backend/internal/store"
)

// RoomRepo, DisciplineRepo and SectionRepo are the repository slices the
// aggregator needs, one per academic collection.
type RoomRepo interface {
	List(ctx context.Context) ([]model.Room, error)
	Create(ctx context.Context, r model.Room) (model.Room, error)
	Update(ctx context.Context, id string, partial any) error
	Delete(ctx context.Context, id string) error
}

type DisciplineRepo interface {
	List(ctx context.Context) ([]model.Discipline, error)
	Create(ctx context.Context, d model.Discipline) (model.Discipline, error)
	Update(ctx context.Context, id string, partial any) error
	Delete(ctx context.Context, id string) error
}

type SectionRepo interface {
	List(ctx context.Context) ([]model.ClassSection, error)
	Create(ctx context.Context, s model.ClassSection) (model.ClassSection, error)
	Update(ctx context.Context, id string, partial any) error
	Delete(ctx context.Context, id string) error
}

// ClassroomService is the aggregator over the three academic collections.
// It holds a cached snapshot of rooms, disciplines and class sections,
// refreshed by full reload: every mutation delegates to the store and then
// reloads the affected collection, never patching the cache in place. The
// snapshot may be stale between a successful mutation and the next
// successful reload; the store is the owner of the data.
//
// Natural-key lookups go through index maps rebuilt on every refresh, so
// name resolution is O(1) regardless of catalog size.
type ClassroomService struct {
	rooms       RoomRepo
	disciplines DisciplineRepo
	sections    SectionRepo
	publisher   ChangePublisher
	log         zerolog.Logger

	mu                sync.RWMutex
	cachedRooms       []model.Room
	cachedDisciplines []model.Discipline
	cachedSections    []model.ClassSection
	roomsByNumber     map[string]model.Room
	disciplinesByCode map[string]model.Discipline
}

// NewClassroomService creates a ClassroomService. publisher may be nil when
// no change feed is wired (CLIs, tests).
func NewClassroomService(rooms RoomRepo, disciplines DisciplineRepo, sections SectionRepo, publisher ChangePublisher, log zerolog.Logger) *ClassroomService {
	return &ClassroomService{
		rooms:             rooms,
		disciplines:       disciplines,
		sections:          sections,
		publisher:         publisher,
		log:               log.With().Str("component", "classroom_service").Logger(),
		roomsByNumber:     map[string]model.Room{},
		disciplinesByCode: map[string]model.Discipline{},
	}
}

// ─── Loads ──────────────────────────────────────────────────────────

// LoadRooms replaces the cached room snapshot. On failure the previous
// snapshot is kept and the error is returned; callers can tell "load
// failed" from "no rooms exist".
func (s *ClassroomService) LoadRooms(ctx context.Context) error {
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return fmt.Errorf("load rooms: %w", err)
	}

	index := make(map[string]model.Room, len(rooms))
	for _, r := range rooms {
		index[r.Number] = r
	}

	s.mu.Lock()
	s.cachedRooms = rooms
	s.roomsByNumber = index
	s.mu.Unlock()
	return nil
}

// LoadDisciplines replaces the cached discipline snapshot.
func (s *ClassroomService) LoadDisciplines(ctx context.Context) error {
	disciplines, err := s.disciplines.List(ctx)
	if err != nil {
		return fmt.Errorf("load disciplines: %w", err)
	}

	index := make(map[string]model.Discipline, len(disciplines))
	for _, d := range disciplines {
		index[d.Code] = d
	}

	s.mu.Lock()
	s.cachedDisciplines = disciplines
	s.disciplinesByCode = index
	s.mu.Unlock()
	return nil
}

// LoadSections replaces the cached class-section snapshot.
func (s *ClassroomService) LoadSections(ctx context.Context) error {
	sections, err := s.sections.List(ctx)
	if err != nil {
		return fmt.Errorf("load sections: %w", err)
	}

	s.mu.Lock()
	s.cachedSections = sections
	s.mu.Unlock()
	return nil
}

// LoadAll refreshes all three collections. Every collection is attempted;
// the combined error reports whichever loads failed.
func (s *ClassroomService) LoadAll(ctx context.Context) error {
	return errors.Join(
		s.LoadRooms(ctx),
		s.LoadDisciplines(ctx),
		s.LoadSections(ctx),
	)
}

// Reload refreshes a single collection by its store name. Unknown names
// are ignored; the change feed may carry collections we do not cache.
func (s *ClassroomService) Reload(ctx context.Context, collection string) error {
	switch collection {
	case store.CollectionRooms:
		return s.LoadRooms(ctx)
	case store.CollectionDisciplines:
		return s.LoadDisciplines(ctx)
	case store.CollectionSections:
		return s.LoadSections(ctx)
	}
	return nil
}

// ─── Snapshot accessors ─────────────────────────────────────────────

// Rooms returns a copy of the cached room snapshot, in store order.
func (s *ClassroomService) Rooms() []model.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Room, len(s.cachedRooms))
	copy(out, s.cachedRooms)
	return out
}

// Disciplines returns a copy of the cached discipline snapshot.
func (s *ClassroomService) Disciplines() []model.Discipline {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Discipline, len(s.cachedDisciplines))
	copy(out, s.cachedDisciplines)
	return out
}

// Sections returns a copy of the cached class-section snapshot.
func (s *ClassroomService) Sections() []model.ClassSection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.ClassSection, len(s.cachedSections))
	copy(out, s.cachedSections)
	return out
}

// SectionViews returns the cached sections with their natural-key
// references resolved for display.
func (s *ClassroomService) SectionViews() []model.ClassSectionView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	views := make([]model.ClassSectionView, 0, len(s.cachedSections))
	for _, sec := range s.cachedSections {
		views = append(views, model.ClassSectionView{
			ClassSection:   sec,
			DisciplineName: s.resolveDisciplineNameLocked(sec.DisciplineKey),
			RoomName:       s.resolveRoomNameLocked(sec.RoomKey),
		})
	}
	return views
}

// ─── Natural-key resolvers ──────────────────────────────────────────

// ResolveDisciplineName maps a discipline code to its display name. A code
// absent from the cache resolves to itself; dangling references are shown,
// not rejected.
func (s *ClassroomService) ResolveDisciplineName(code string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolveDisciplineNameLocked(code)
}

// ResolveRoomName maps a room number to its display name, falling back to
// a "Sala <numero>" label. The asymmetry with the discipline fallback is
// inherited from the legacy screens.
func (s *ClassroomService) ResolveRoomName(number string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolveRoomNameLocked(number)
}

func (s *ClassroomService) resolveDisciplineNameLocked(code string) string {
	if d, ok := s.disciplinesByCode[code]; ok {
		return d.Name
	}
	return code
}

func (s *ClassroomService) resolveRoomNameLocked(number string) string {
	if r, ok := s.roomsByNumber[number]; ok {
		return r.Name
	}
	return fmt.Sprintf("Sala %s", number)
}

// ─── Mutations ──────────────────────────────────────────────────────
//
// Each mutation is two sequential store round trips: the write, then the
// reload. There is no atomicity between them; a failed reload is logged
// and the cache stays stale until the next successful load. No mutation
// validates that disciplina_id/sala_id reference an existing record.

func (s *ClassroomService) CreateRoom(ctx context.Context, room model.Room) (model.Room, error) {
	created, err := s.rooms.Create(ctx, room)
	if err != nil {
		return model.Room{}, err
	}
	s.afterMutation(ctx, store.CollectionRooms, ChangeActionCreate, created.ID)
	return created, nil
}

func (s *ClassroomService) UpdateRoom(ctx context.Context, id string, partial any) error {
	if err := s.rooms.Update(ctx, id, partial); err != nil {
		return err
	}
	s.afterMutation(ctx, store.CollectionRooms, ChangeActionUpdate, id)
	return nil
}

func (s *ClassroomService) DeleteRoom(ctx context.Context, id string) error {
	if err := s.rooms.Delete(ctx, id); err != nil {
		return err
	}
	s.afterMutation(ctx, store.CollectionRooms, ChangeActionDelete, id)
	return nil
}

func (s *ClassroomService) CreateDiscipline(ctx context.Context, d model.Discipline) (model.Discipline, error) {
	created, err := s.disciplines.Create(ctx, d)
	if err != nil {
		return model.Discipline{}, err
	}
	s.afterMutation(ctx, store.CollectionDisciplines, ChangeActionCreate, created.ID)
	return created, nil
}

func (s *ClassroomService) UpdateDiscipline(ctx context.Context, id string, partial any) error {
	if err := s.disciplines.Update(ctx, id, partial); err != nil {
		return err
	}
	s.afterMutation(ctx, store.CollectionDisciplines, ChangeActionUpdate, id)
	return nil
}

func (s *ClassroomService) DeleteDiscipline(ctx context.Context, id string) error {
	if err := s.disciplines.Delete(ctx, id); err != nil {
		return err
	}
	s.afterMutation(ctx, store.CollectionDisciplines, ChangeActionDelete, id)
	return nil
}

func (s *ClassroomService) CreateSection(ctx context.Context, sec model.ClassSection) (model.ClassSection, error) {
	created, err := s.sections.Create(ctx, sec)
	if err != nil {
		return model.ClassSection{}, err
	}
	s.afterMutation(ctx, store.CollectionSections, ChangeActionCreate, created.ID)
	return created, nil
}

func (s *ClassroomService) UpdateSection(ctx context.Context, id string, partial any) error {
	if err := s.sections.Update(ctx, id, partial); err != nil {
		return err
	}
	s.afterMutation(ctx, store.CollectionSections, ChangeActionUpdate, id)
	return nil
}

func (s *ClassroomService) DeleteSection(ctx context.Context, id string) error {
	if err := s.sections.Delete(ctx, id); err != nil {
		return err
	}
	s.afterMutation(ctx, store.CollectionSections, ChangeActionDelete, id)
	return nil
}

// afterMutation reloads the touched collection and announces the change.
func (s *ClassroomService) afterMutation(ctx context.Context, collection, action, id string) {
	if err := s.Reload(ctx, collection); err != nil {
		s.log.Error().Err(err).Str("collection", collection).Msg("Reload after mutation failed, cache is stale")
	}

	if s.publisher == nil {
		return
	}
	ev := ChangeEvent{Collection: collection, Action: action, ID: id}
	if err := s.publisher.PublishChange(ctx, ev); err != nil {
		s.log.Warn().Err(err).Str("collection", collection).Msg("Change publish failed")
	}
}
