package database

import (
	"context"
	"fmt"

	"go-jobpost-crawler/internal/models"
)

// Persister writes one crawl batch in a single call. The call is all-or-nothing: on error
// the inserted count is 0 and the whole batch counts as unsaved.
type Persister interface {
	Persist(ctx context.Context, records []models.JobPosting) (int, error)
}

// StoreError is a rejection from the PostgREST endpoint, kept as the store reported it.
type StoreError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
	Body    string `json:"-"`
}

func (e *StoreError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("store returned status %d: %s", e.Status, e.Body)
}

var jobPostColumns = []string{
	"company_name",
	"company_name_detail",
	"job_title",
	"job_url",
	"position",
	"employment_type",
}

// dedupColumn backs the store-side unique constraint (migrations/001_jobpost_job_url_unique.sql).
const dedupColumn = "job_url"
