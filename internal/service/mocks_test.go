package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/acadsys/acadsys-backend/internal/model"
)

// Map-backed fakes standing in for the store-backed repositories. Each one
// keeps records in insertion order and supports the patch maps the services
// send, which is all the real repositories do from the service's point of
// view.

var errStoreDown = errors.New("store unavailable")

type fakeUserRepo struct {
	mu    sync.Mutex
	users []model.User
	next  int
	fail  bool
}

func (f *fakeUserRepo) List(ctx context.Context) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errStoreDown
	}
	out := make([]model.User, len(f.users))
	copy(out, f.users)
	return out, nil
}

func (f *fakeUserRepo) FindByUserName(ctx context.Context, handle string) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errStoreDown
	}
	var out []model.User
	for _, u := range f.users {
		if u.UserName == handle {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, u model.User) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return model.User{}, errStoreDown
	}
	f.next++
	u.ID = fmt.Sprintf("u%d", f.next)
	f.users = append(f.users, u)
	return u, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, id string, partial any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errStoreDown
	}
	patch, ok := partial.(map[string]any)
	if !ok {
		return fmt.Errorf("unexpected patch type %T", partial)
	}
	for i := range f.users {
		if f.users[i].ID != id {
			continue
		}
		if v, ok := patch["userName"].(string); ok {
			f.users[i].UserName = v
		}
		if v, ok := patch["password"].(string); ok {
			f.users[i].Password = v
		}
		if v, ok := patch["userRole"].(string); ok {
			f.users[i].Role = v
		}
		if v, ok := patch["ativo"].(bool); ok {
			f.users[i].Active = v
		}
		return nil
	}
	return errors.New("record not found")
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errStoreDown
	}
	for i := range f.users {
		if f.users[i].ID == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return nil
		}
	}
	return errors.New("record not found")
}

type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]model.User
	corrupt  map[string]bool
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		sessions: map[string]model.User{},
		corrupt:  map[string]bool{},
	}
}

func (f *fakeSessionStore) Put(ctx context.Context, sessionID string, u model.User, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[sessionID] = u
	return nil
}

func (f *fakeSessionStore) Get(ctx context.Context, sessionID string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.corrupt[sessionID] {
		// Mirrors the real store: an undecodable record is cleared and
		// reported as no session.
		delete(f.sessions, sessionID)
		delete(f.corrupt, sessionID)
		return model.User{}, ErrNoSession
	}
	u, ok := f.sessions[sessionID]
	if !ok {
		return model.User{}, ErrNoSession
	}
	return u, nil
}

func (f *fakeSessionStore) Delete(ctx context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, sessionID)
	return nil
}

type fakeRoomRepo struct {
	mu    sync.Mutex
	rooms []model.Room
	next  int
	fail  bool
}

func (f *fakeRoomRepo) List(ctx context.Context) ([]model.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errStoreDown
	}
	out := make([]model.Room, len(f.rooms))
	copy(out, f.rooms)
	return out, nil
}

func (f *fakeRoomRepo) Create(ctx context.Context, r model.Room) (model.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return model.Room{}, errStoreDown
	}
	f.next++
	r.ID = fmt.Sprintf("r%d", f.next)
	f.rooms = append(f.rooms, r)
	return r, nil
}

func (f *fakeRoomRepo) Update(ctx context.Context, id string, partial any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errStoreDown
	}
	for i := range f.rooms {
		if f.rooms[i].ID != id {
			continue
		}
		if req, ok := partial.(model.RoomRequest); ok {
			f.rooms[i].Number = req.Number
			f.rooms[i].Name = req.Name
			f.rooms[i].Capacity = req.Capacity
			f.rooms[i].Kind = req.Kind
			f.rooms[i].Resources = req.Resources
			f.rooms[i].Active = *req.Active
		}
		return nil
	}
	return errors.New("record not found")
}

func (f *fakeRoomRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errStoreDown
	}
	for i := range f.rooms {
		if f.rooms[i].ID == id {
			f.rooms = append(f.rooms[:i], f.rooms[i+1:]...)
			return nil
		}
	}
	return errors.New("record not found")
}

type fakeDisciplineRepo struct {
	mu          sync.Mutex
	disciplines []model.Discipline
	next        int
	fail        bool
}

func (f *fakeDisciplineRepo) List(ctx context.Context) ([]model.Discipline, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errStoreDown
	}
	out := make([]model.Discipline, len(f.disciplines))
	copy(out, f.disciplines)
	return out, nil
}

func (f *fakeDisciplineRepo) Create(ctx context.Context, d model.Discipline) (model.Discipline, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return model.Discipline{}, errStoreDown
	}
	f.next++
	d.ID = fmt.Sprintf("d%d", f.next)
	f.disciplines = append(f.disciplines, d)
	return d, nil
}

func (f *fakeDisciplineRepo) Update(ctx context.Context, id string, partial any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errStoreDown
	}
	for i := range f.disciplines {
		if f.disciplines[i].ID != id {
			continue
		}
		if req, ok := partial.(model.DisciplineRequest); ok {
			f.disciplines[i].Code = req.Code
			f.disciplines[i].Name = req.Name
			f.disciplines[i].Active = *req.Active
		}
		return nil
	}
	return errors.New("record not found")
}

func (f *fakeDisciplineRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errStoreDown
	}
	for i := range f.disciplines {
		if f.disciplines[i].ID == id {
			f.disciplines = append(f.disciplines[:i], f.disciplines[i+1:]...)
			return nil
		}
	}
	return errors.New("record not found")
}

type fakeSectionRepo struct {
	mu       sync.Mutex
	sections []model.ClassSection
	next     int
	fail     bool
}

func (f *fakeSectionRepo) List(ctx context.Context) ([]model.ClassSection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errStoreDown
	}
	out := make([]model.ClassSection, len(f.sections))
	copy(out, f.sections)
	return out, nil
}

func (f *fakeSectionRepo) Create(ctx context.Context, s model.ClassSection) (model.ClassSection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return model.ClassSection{}, errStoreDown
	}
	f.next++
	s.ID = fmt.Sprintf("s%d", f.next)
	f.sections = append(f.sections, s)
	return s, nil
}

func (f *fakeSectionRepo) Update(ctx context.Context, id string, partial any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errStoreDown
	}
	for i := range f.sections {
		if f.sections[i].ID != id {
			continue
		}
		if req, ok := partial.(model.ClassSectionRequest); ok {
			f.sections[i].SectionCode = req.SectionCode
			f.sections[i].DisciplineKey = req.DisciplineKey
			f.sections[i].RoomKey = req.RoomKey
			f.sections[i].Instructor = req.Instructor
			f.sections[i].Notes = req.Notes
			if req.CapacityUsed != nil {
				f.sections[i].CapacityUsed = *req.CapacityUsed
			}
			if req.Active != nil {
				f.sections[i].Active = *req.Active
			}
		}
		return nil
	}
	return errors.New("record not found")
}

func (f *fakeSectionRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errStoreDown
	}
	for i := range f.sections {
		if f.sections[i].ID == id {
			f.sections = append(f.sections[:i], f.sections[i+1:]...)
			return nil
		}
	}
	return errors.New("record not found")
}

type capturingPublisher struct {
	mu     sync.Mutex
	events []ChangeEvent
}

func (p *capturingPublisher) PublishChange(ctx context.Context, ev ChangeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}
