package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// RemoteStore talks to an external entity-store service over HTTP JSON.
// The service is an opaque collaborator: this client only assumes the
// list/create/update/delete contract, exact-match filtering and nothing else.
type RemoteStore struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     zerolog.Logger
}

// listEnvelope is the wire shape of a list response.
type listEnvelope struct {
	Records []Record `json:"records"`
}

// NewRemoteStore creates a RemoteStore for the given base URL. An empty
// apiKey disables the Authorization header.
func NewRemoteStore(baseURL, apiKey string, log zerolog.Logger) *RemoteStore {
	return &RemoteStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 15 * time.Second},
		log:     log.With().Str("component", "remote_store").Logger(),
	}
}

func (s *RemoteStore) List(ctx context.Context, collection string, filter Filter) ([]Record, error) {
	endpoint := s.collectionURL(collection)
	if len(filter) > 0 {
		probe, err := json.Marshal(filter)
		if err != nil {
			return nil, fmt.Errorf("marshal filter: %w", err)
		}
		endpoint += "?filter=" + url.QueryEscape(string(probe))
	}

	var env listEnvelope
	if err := s.do(ctx, http.MethodGet, endpoint, nil, &env); err != nil {
		return nil, err
	}
	return env.Records, nil
}

func (s *RemoteStore) Create(ctx context.Context, collection string, data json.RawMessage) (Record, error) {
	var rec Record
	if err := s.do(ctx, http.MethodPost, s.collectionURL(collection), data, &rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (s *RemoteStore) Update(ctx context.Context, collection, id string, partial json.RawMessage) (Record, error) {
	var rec Record
	if err := s.do(ctx, http.MethodPatch, s.recordURL(collection, id), partial, &rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (s *RemoteStore) Delete(ctx context.Context, collection, id string) error {
	return s.do(ctx, http.MethodDelete, s.recordURL(collection, id), nil, nil)
}

func (s *RemoteStore) collectionURL(collection string) string {
	return fmt.Sprintf("%s/api/collections/%s/records", s.baseURL, collection)
}

func (s *RemoteStore) recordURL(collection, id string) string {
	return fmt.Sprintf("%s/api/collections/%s/records/%s", s.baseURL, collection, url.PathEscape(id))
}

// do performs one round trip and decodes the response body into out when
// out is non-nil. Transport faults and 5xx statuses wrap ErrUnavailable;
// a 404 maps to ErrRecordNotFound.
func (s *RemoteStore) do(ctx context.Context, method, endpoint string, body json.RawMessage, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, endpoint, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrRecordNotFound
	case resp.StatusCode >= 400:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s %s: status %d: %s", ErrUnavailable, method, endpoint, resp.StatusCode, snippet)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	return nil
}
