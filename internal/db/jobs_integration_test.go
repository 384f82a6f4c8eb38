//go:build integration

package db

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Jobs Integration Tests
// =============================================================================

const testJobsSchema = `CREATE TABLE IF NOT EXISTS jobs (
	id                  TEXT PRIMARY KEY,
	title               TEXT,
	company_name        TEXT,
	location            TEXT,
	is_remote           BOOLEAN DEFAULT false,
	compensation        TEXT,
	url                 TEXT,
	description_snippet TEXT,
	posted_date         DATE,
	is_active           BOOLEAN DEFAULT true,
	is_fractional       BOOLEAN DEFAULT false,
	is_interim          BOOLEAN DEFAULT false,
	executive_title     TEXT,
	role_category       TEXT
)`

func getTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	db, err := Connect(ctx, dsn)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	_, err = db.pool.Exec(ctx, testJobsSchema)
	require.NoError(t, err)
	_, _ = db.pool.Exec(ctx, "DELETE FROM jobs WHERE id LIKE 'itest-%'")

	return db
}

func seedJobs(t *testing.T, db *DB) {
	t.Helper()
	ctx := context.Background()

	rows := []struct {
		id, title, location string
		remote, active      bool
		posted              string
	}{
		{"itest-1", "Fractional CFO", "London, UK", true, true, "2025-01-10"},
		{"itest-2", "Finance Director (Part-time)", "Manchester", false, true, "2025-02-01"},
		{"itest-3", "Interim CFO", "London", false, false, "2025-03-01"},
		{"itest-4", "Fractional CMO", "Remote", true, true, "2025-01-20"},
	}
	for _, r := range rows {
		_, err := db.pool.Exec(ctx,
			`INSERT INTO jobs (id, title, company_name, location, is_remote, is_active, posted_date)
			 VALUES ($1, $2, 'Integration Co', $3, $4, $5, $6)`,
			r.id, r.title, r.location, r.remote, r.active, r.posted)
		require.NoError(t, err)
	}
	t.Cleanup(func() {
		_, _ = db.pool.Exec(context.Background(), "DELETE FROM jobs WHERE id LIKE 'itest-%'")
	})
}

func TestIntegration_SearchJobs(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	seedJobs(t, db)
	ctx := context.Background()

	t.Run("role synonyms exclude inactive rows", func(t *testing.T) {
		jobs := db.SearchJobs(ctx, JobSearchFilter{Role: "CFO", Limit: 10})
		ids := jobIDs(jobs)
		assert.Contains(t, ids, "itest-1")
		assert.Contains(t, ids, "itest-2")
		assert.NotContains(t, ids, "itest-3")
	})

	t.Run("ordered newest first", func(t *testing.T) {
		jobs := db.SearchJobs(ctx, JobSearchFilter{Role: "CFO", Limit: 10})
		require.GreaterOrEqual(t, len(jobs), 2)
		assert.Equal(t, "itest-2", jobs[0].ID)
	})

	t.Run("location and remote", func(t *testing.T) {
		jobs := db.SearchJobs(ctx, JobSearchFilter{Location: "london", RemoteOnly: true, Limit: 10})
		assert.Equal(t, []string{"itest-1"}, jobIDs(jobs))
	})

	t.Run("get by id", func(t *testing.T) {
		job := db.GetJobByID(ctx, "itest-4")
		require.NotNil(t, job)
		assert.Equal(t, "Fractional CMO", job.Title)
		assert.Nil(t, db.GetJobByID(ctx, "itest-missing"))
	})

	t.Run("stats", func(t *testing.T) {
		stats := db.Stats(ctx)
		assert.GreaterOrEqual(t, stats.TotalJobs, 4)
		assert.GreaterOrEqual(t, stats.RemoteJobs, 2)
		assert.GreaterOrEqual(t, stats.ByRole["CFO"], 2)
	})
}

func jobIDs(jobs []JobRecord) []string {
	ids := make([]string, 0, len(jobs))
	for _, j := range jobs {
		ids = append(ids, j.ID)
	}
	return ids
}
