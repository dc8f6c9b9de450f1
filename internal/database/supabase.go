package database

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

	"go-jobpost-crawler/internal/models"
)

// SupabaseStore inserts through the Supabase REST (PostgREST) endpoint with the anon key,
// the same path the web app reads from.
type SupabaseStore struct {
	baseURL          string
	apiKey           string
	table            string
	ignoreDuplicates bool
	httpClient       *http.Client
}

func NewSupabaseStore(baseURL, apiKey, table string, ignoreDuplicates bool, timeout time.Duration) *SupabaseStore {
	return &SupabaseStore{
		baseURL:          strings.TrimRight(baseURL, "/"),
		apiKey:           apiKey,
		table:            table,
		ignoreDuplicates: ignoreDuplicates,
		httpClient:       &http.Client{Timeout: timeout},
	}
}

func (s *SupabaseStore) endpoint() string {
	u := fmt.Sprintf("%s/rest/v1/%s", s.baseURL, url.PathEscape(s.table))
	if s.ignoreDuplicates {
		u += "?on_conflict=" + dedupColumn
	}
	return u
}

// Persist sends the whole batch as one JSON array and returns the number of rows the store
// reports back.
func (s *SupabaseStore) Persist(ctx context.Context, records []models.JobPosting) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	payload, err := json.Marshal(records)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal job posts: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint(), bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("failed to create http request: %w", err)
	}

	prefer := "return=representation"
	if s.ignoreDuplicates {
		prefer += ",resolution=ignore-duplicates"
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Prefer", prefer)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("insert into %s: %w", s.table, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		storeErr := &StoreError{Status: resp.StatusCode, Body: string(body)}
		_ = json.Unmarshal(body, storeErr)
		return 0, storeErr
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return 0, fmt.Errorf("failed to decode inserted rows: %w", err)
	}
	return len(rows), nil
}

// Ping checks that the table is reachable with the configured key.
func (s *SupabaseStore) Ping(ctx context.Context) error {
	u := fmt.Sprintf("%s/rest/v1/%s?select=%s&limit=1", s.baseURL, url.PathEscape(s.table), dedupColumn)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("supabase unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		storeErr := &StoreError{Status: resp.StatusCode, Body: string(body)}
		_ = json.Unmarshal(body, storeErr)
		return storeErr
	}
	return nil
}

func (s *SupabaseStore) Name() string { return "supabase" }
