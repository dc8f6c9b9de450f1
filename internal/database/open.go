package database

import (
	"context"
	"fmt"
	"time"
)

// Store is a Persister that can also be health-checked.
type Store interface {
	Persister
	Ping(ctx context.Context) error
	Name() string
}

type OpenOptions struct {
	// DatabaseURL selects the direct Postgres path; empty means the Supabase REST API.
	DatabaseURL      string
	SupabaseURL      string
	SupabaseAnonKey  string
	Table            string
	IgnoreDuplicates bool
	Timeout          time.Duration
}

// Open returns the store the options point at and a func releasing it.
func Open(ctx context.Context, opts OpenOptions) (Store, func(), error) {
	if opts.DatabaseURL != "" {
		repo, err := ConnectDB(ctx, opts.DatabaseURL, opts.Table, opts.IgnoreDuplicates)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres store: %w", err)
		}
		return repo, repo.Close, nil
	}
	if opts.SupabaseURL == "" || opts.SupabaseAnonKey == "" {
		return nil, nil, fmt.Errorf("open supabase store: url and anon key are required")
	}
	return NewSupabaseStore(opts.SupabaseURL, opts.SupabaseAnonKey, opts.Table, opts.IgnoreDuplicates, opts.Timeout), func() {}, nil
}
