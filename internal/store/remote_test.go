package store

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/rs/zerolog"
)

func TestRemoteStoreList(t *testing.T) {
	var gotAuth, gotFilter string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/collections/salas/records" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		gotFilter = r.URL.Query().Get("filter")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"records":[{"_id":"r1","data":{"numero":"101"}}]}`))
	}))
	defer srv.Close()

	s := NewRemoteStore(srv.URL, "secret-key", zerolog.Nop())
	records, err := s.List(context.Background(), CollectionRooms, Filter{"numero": "101"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 || records[0].ID != "r1" {
		t.Fatalf("records = %+v", records)
	}
	if gotAuth != "Bearer secret-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}

	var probe map[string]any
	if err := json.Unmarshal([]byte(gotFilter), &probe); err != nil {
		t.Fatalf("filter param %q: %v", gotFilter, err)
	}
	if probe["numero"] != "101" {
		t.Errorf("filter = %v", probe)
	}
}

func TestRemoteStoreCreate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/collections/users/records" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Write([]byte(`{"_id":"u1","data":{"userName":"ana"}}`))
	}))
	defer srv.Close()

	s := NewRemoteStore(srv.URL, "", zerolog.Nop())
	rec, err := s.Create(context.Background(), CollectionUsers, json.RawMessage(`{"userName":"ana"}`))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.ID != "u1" {
		t.Errorf("rec = %+v", rec)
	}
}

func TestRemoteStoreUpdateEscapesID(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		if r.Method != http.MethodPatch {
			t.Errorf("method = %s", r.Method)
		}
		w.Write([]byte(`{"_id":"a/b","data":{}}`))
	}))
	defer srv.Close()

	s := NewRemoteStore(srv.URL, "", zerolog.Nop())
	if _, err := s.Update(context.Background(), CollectionRooms, "a/b", json.RawMessage(`{}`)); err != nil {
		t.Fatalf("Update: %v", err)
	}
	want := "/api/collections/salas/records/" + url.PathEscape("a/b")
	if gotPath != want {
		t.Errorf("path = %q, want %q", gotPath, want)
	}
}

func TestRemoteStoreNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	s := NewRemoteStore(srv.URL, "", zerolog.Nop())
	if err := s.Delete(context.Background(), CollectionRooms, "missing"); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("Delete = %v, want ErrRecordNotFound", err)
	}
	if _, err := s.Update(context.Background(), CollectionRooms, "missing", json.RawMessage(`{}`)); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("Update = %v, want ErrRecordNotFound", err)
	}
}

func TestRemoteStoreServerErrorWrapsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewRemoteStore(srv.URL, "", zerolog.Nop())
	_, err := s.List(context.Background(), CollectionRooms, nil)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("List = %v, want ErrUnavailable", err)
	}
}

func TestRemoteStoreTransportFaultWrapsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // Refuse connections.

	s := NewRemoteStore(srv.URL, "", zerolog.Nop())
	if _, err := s.List(context.Background(), CollectionRooms, nil); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("List against closed server = %v, want ErrUnavailable", err)
	}
}
