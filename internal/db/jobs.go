package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/career-coach/internal/metrics"
)

// -----------------------------------------------------------------------------
// Job Methods
// -----------------------------------------------------------------------------

const jobColumns = `id::text, COALESCE(title, ''), company_name, location,
		COALESCE(is_remote, false), compensation, url, description_snippet,
		posted_date::timestamptz, COALESCE(is_fractional, false),
		COALESCE(is_interim, false), executive_title, role_category`

// buildSearchQuery builds the parameterized search query for the given filter
func buildSearchQuery(filter JobSearchFilter) (string, []any) {
	query := "SELECT " + jobColumns + "\n\t\tFROM jobs\n\t\tWHERE is_active = true"
	args := []any{}
	argNum := 1

	if filter.Role != "" {
		patterns := RolePatterns(filter.Role)
		conditions := make([]string, 0, len(patterns))
		for _, p := range patterns {
			conditions = append(conditions, fmt.Sprintf("title ILIKE $%d", argNum))
			args = append(args, "%"+p+"%")
			argNum++
		}
		query += " AND (" + strings.Join(conditions, " OR ") + ")"
	}

	if filter.Location != "" {
		query += fmt.Sprintf(" AND location ILIKE $%d", argNum)
		args = append(args, "%"+filter.Location+"%")
		argNum++
	}

	if filter.RemoteOnly {
		query += " AND is_remote = true"
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	query += fmt.Sprintf(" ORDER BY posted_date DESC NULLS LAST LIMIT $%d", argNum)
	args = append(args, limit)

	return query, args
}

func scanJob(row pgx.Row) (JobRecord, error) {
	var j JobRecord
	err := row.Scan(&j.ID, &j.Title, &j.Company, &j.Location, &j.Remote, &j.Salary,
		&j.URL, &j.Description, &j.PostedDate, &j.IsFractional, &j.IsInterim,
		&j.ExecutiveTitle, &j.RoleCategory)
	return j, err
}

// SearchJobs returns active jobs matching the filter, newest first.
// Query failures are logged and yield an empty slice rather than an error.
func (db *DB) SearchJobs(ctx context.Context, filter JobSearchFilter) []JobRecord {
	jobs, err := db.searchJobs(ctx, filter)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("search_jobs").Inc()
		db.logger.Error("job search failed",
			zap.String("role", filter.Role),
			zap.String("location", filter.Location),
			zap.Bool("remote_only", filter.RemoteOnly),
			zap.Error(err))
		return []JobRecord{}
	}
	return jobs
}

func (db *DB) searchJobs(ctx context.Context, filter JobSearchFilter) ([]JobRecord, error) {
	query, args := buildSearchQuery(filter)

	rows, err := db.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search jobs: %w", err)
	}
	defer rows.Close()

	jobs := []JobRecord{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate jobs: %w", err)
	}
	return jobs, nil
}

// GetJobByID retrieves a single job. Absence and failures both yield nil;
// failures are logged.
func (db *DB) GetJobByID(ctx context.Context, id string) *JobRecord {
	j, err := scanJob(db.q.QueryRow(ctx,
		"SELECT "+jobColumns+" FROM jobs WHERE id::text = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		metrics.StoreErrors.WithLabelValues("get_job").Inc()
		db.logger.Error("get job failed", zap.String("job_id", id), zap.Error(err))
		return nil
	}
	return &j
}

// Stats aggregates job counts. The three queries run concurrently; any
// failure yields zeroed stats.
func (db *DB) Stats(ctx context.Context) JobStats {
	if db.cache != nil {
		if cached, ok := db.cache.GetStats(ctx); ok {
			return *cached
		}
	}

	stats, err := db.stats(ctx)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("stats").Inc()
		db.logger.Error("job stats failed", zap.Error(err))
		return EmptyJobStats()
	}

	if db.cache != nil {
		db.cache.SetStats(ctx, stats)
	}
	return stats
}

func (db *DB) stats(ctx context.Context) (JobStats, error) {
	stats := EmptyJobStats()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := db.q.QueryRow(gctx, "SELECT COUNT(*) FROM jobs").Scan(&stats.TotalJobs); err != nil {
			return fmt.Errorf("failed to count jobs: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := db.q.QueryRow(gctx, "SELECT COUNT(*) FROM jobs WHERE is_remote = true").Scan(&stats.RemoteJobs); err != nil {
			return fmt.Errorf("failed to count remote jobs: %w", err)
		}
		return nil
	})

	byRole := map[string]int{}
	g.Go(func() error {
		rows, err := db.q.Query(gctx,
			`SELECT `+roleBucketSQL+` AS role_type, COUNT(*) AS count
			 FROM jobs
			 GROUP BY role_type
			 ORDER BY count DESC`)
		if err != nil {
			return fmt.Errorf("failed to count jobs by role: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var role string
			var count int
			if err := rows.Scan(&role, &count); err != nil {
				return fmt.Errorf("failed to scan role count: %w", err)
			}
			byRole[role] = count
		}
		return rows.Err()
	})

	if err := g.Wait(); err != nil {
		return EmptyJobStats(), err
	}
	stats.ByRole = byRole
	return stats, nil
}
