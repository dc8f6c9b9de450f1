package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-jobpost-crawler/internal/models"
)

// Repository writes job posts straight into Postgres. Used when DATABASE_URL is set.
type Repository struct {
	db               *pgxpool.Pool
	table            string
	ignoreDuplicates bool
}

func ConnectDB(ctx context.Context, connString, table string, ignoreDuplicates bool) (*Repository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	// one sequential crawler, a small pool is plenty
	config.MaxConns = 2
	config.MinConns = 0
	config.MaxConnLifetime = time.Hour

	// Supabase pooler (PgBouncer, transaction mode) can't hold prepared statements.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &Repository{db: pool, table: table, ignoreDuplicates: ignoreDuplicates}, nil
}

func (r *Repository) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

// Ping checks the connection and that the table exists.
func (r *Repository) Ping(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return err
	}
	_, err := r.db.Exec(ctx, fmt.Sprintf("SELECT 1 FROM %s LIMIT 1", pgx.Identifier{r.table}.Sanitize()))
	return err
}

func (r *Repository) ServerVersion(ctx context.Context) (string, error) {
	var version string
	err := r.db.QueryRow(ctx, "SELECT version()").Scan(&version)
	return version, err
}

func insertQuery(table string, ignoreDuplicates bool) string {
	placeholders := make([]string, len(jobPostColumns))
	for i := range jobPostColumns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		pgx.Identifier{table}.Sanitize(),
		strings.Join(jobPostColumns, ", "),
		strings.Join(placeholders, ", "),
	)
	if ignoreDuplicates {
		query += " ON CONFLICT (" + dedupColumn + ") DO NOTHING"
	}
	return query
}

// Persist inserts the batch in one transaction. Any failure rolls everything back.
func (r *Repository) Persist(ctx context.Context, records []models.JobPosting) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	query := insertQuery(r.table, r.ignoreDuplicates)
	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(query, rec.CompanyName, rec.CompanyNameDetail, rec.JobTitle, rec.JobURL, rec.Position, rec.EmploymentType)
	}

	results := tx.SendBatch(ctx, batch)
	inserted := 0
	for range records {
		tag, err := results.Exec()
		if err != nil {
			results.Close()
			return 0, err
		}
		inserted += int(tag.RowsAffected())
	}
	if err := results.Close(); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit job posts: %w", err)
	}
	return inserted, nil
}

func (r *Repository) Name() string { return "postgres" }
