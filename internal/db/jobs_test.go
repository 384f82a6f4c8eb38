package db

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Fakes
// =============================================================================

type fakeRows struct {
	n      int
	i      int
	scan   func(i int, dest ...any) error
	err    error
	closed bool
}

func (r *fakeRows) Close()                                       { r.closed = true }
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return nil, nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.i >= r.n {
		return false
	}
	r.i++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	return r.scan(r.i-1, dest...)
}

type fakeRow struct {
	scan func(dest ...any) error
}

func (r fakeRow) Scan(dest ...any) error { return r.scan(dest...) }

type fakeQuerier struct {
	mu       sync.Mutex
	queries  []string
	query    func(sql string, args []any) (pgx.Rows, error)
	queryRow func(sql string, args []any) pgx.Row
}

func (f *fakeQuerier) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.mu.Lock()
	f.queries = append(f.queries, sql)
	f.mu.Unlock()
	return f.query(sql, args)
}

func (f *fakeQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.mu.Lock()
	f.queries = append(f.queries, sql)
	f.mu.Unlock()
	return f.queryRow(sql, args)
}

func failingQuerier(err error) *fakeQuerier {
	return &fakeQuerier{
		query: func(string, []any) (pgx.Rows, error) { return nil, err },
		queryRow: func(string, []any) pgx.Row {
			return fakeRow{scan: func(...any) error { return err }}
		},
	}
}

func strPtr(s string) *string { return &s }

// =============================================================================
// Query building
// =============================================================================

func TestBuildSearchQuery_RoleSynonyms(t *testing.T) {
	query, args := buildSearchQuery(JobSearchFilter{Role: "cfo", Limit: 5})

	assert.Contains(t, query, "is_active = true")
	assert.Contains(t, query, "(title ILIKE $1 OR title ILIKE $2 OR title ILIKE $3 OR title ILIKE $4)")
	assert.Contains(t, query, "ORDER BY posted_date DESC NULLS LAST LIMIT $5")
	assert.Equal(t, []any{"%CFO%", "%Chief Financial%", "%Finance Director%", "%FD%", 5}, args)
}

func TestBuildSearchQuery_UnknownRoleIsLiteral(t *testing.T) {
	query, args := buildSearchQuery(JobSearchFilter{Role: "Head of Data", Limit: 3})

	assert.Contains(t, query, "(title ILIKE $1)")
	assert.Equal(t, []any{"%Head of Data%", 3}, args)
}

func TestBuildSearchQuery_LocationAppliedOnce(t *testing.T) {
	query, args := buildSearchQuery(JobSearchFilter{Location: "London", RemoteOnly: true, Limit: 2})

	assert.Equal(t, 1, strings.Count(query, "location ILIKE"))
	assert.Contains(t, query, "location ILIKE $1")
	assert.Contains(t, query, "is_remote = true")
	assert.Equal(t, []any{"%London%", 2}, args)
}

func TestBuildSearchQuery_NoFilters(t *testing.T) {
	query, args := buildSearchQuery(JobSearchFilter{})

	assert.NotContains(t, query, "ILIKE")
	assert.NotContains(t, query, "is_remote = true")
	assert.Equal(t, []any{DefaultSearchLimit}, args)
}

func TestRolePatterns(t *testing.T) {
	assert.Equal(t, []string{"CMO", "Chief Marketing", "Marketing Director", "VP Marketing"}, RolePatterns("CMO"))
	assert.Equal(t, []string{"Chair"}, RolePatterns("Chair"))
}

func TestRoleBucketSQL_FallsBackToOther(t *testing.T) {
	assert.Contains(t, roleBucketSQL, "ELSE '"+OtherRoleBucket+"'")
	for _, role := range []string{"CFO", "CMO", "CTO", "COO", "CHRO"} {
		assert.Contains(t, roleBucketSQL, "THEN '"+role+"'")
	}
}

// =============================================================================
// Search / Get
// =============================================================================

func TestSearchJobs_ScansRows(t *testing.T) {
	fq := &fakeQuerier{
		query: func(string, []any) (pgx.Rows, error) {
			return &fakeRows{n: 2, scan: func(i int, dest ...any) error {
				*dest[0].(*string) = []string{"1", "2"}[i]
				*dest[1].(*string) = []string{"Fractional CFO", "Interim CFO"}[i]
				*dest[2].(**string) = strPtr("Acme")
				*dest[4].(*bool) = i == 0
				return nil
			}}, nil
		},
	}
	db := newDB(fq)

	jobs := db.SearchJobs(context.Background(), JobSearchFilter{Role: "CFO"})
	require.Len(t, jobs, 2)
	assert.Equal(t, "1", jobs[0].ID)
	assert.Equal(t, "Fractional CFO", jobs[0].Title)
	assert.True(t, jobs[0].Remote)
	assert.False(t, jobs[1].Remote)
	assert.Equal(t, "Acme", *jobs[1].Company)
}

func TestSearchJobs_FailureDegradesToEmpty(t *testing.T) {
	db := newDB(failingQuerier(errors.New("connection refused")))

	jobs := db.SearchJobs(context.Background(), JobSearchFilter{Role: "CTO"})
	assert.NotNil(t, jobs)
	assert.Empty(t, jobs)
}

func TestSearchJobs_ScanFailureDegradesToEmpty(t *testing.T) {
	rows := &fakeRows{n: 1, scan: func(int, ...any) error { return errors.New("bad column") }}
	fq := &fakeQuerier{query: func(string, []any) (pgx.Rows, error) { return rows, nil }}
	db := newDB(fq)

	assert.Empty(t, db.SearchJobs(context.Background(), JobSearchFilter{}))
	assert.True(t, rows.closed)
}

func TestGetJobByID(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		db := newDB(failingQuerier(pgx.ErrNoRows))
		assert.Nil(t, db.GetJobByID(context.Background(), "42"))
	})

	t.Run("failure", func(t *testing.T) {
		db := newDB(failingQuerier(errors.New("timeout")))
		assert.Nil(t, db.GetJobByID(context.Background(), "42"))
	})

	t.Run("found", func(t *testing.T) {
		fq := &fakeQuerier{queryRow: func(_ string, args []any) pgx.Row {
			return fakeRow{scan: func(dest ...any) error {
				*dest[0].(*string) = args[0].(string)
				*dest[1].(*string) = "CTO"
				return nil
			}}
		}}
		db := newDB(fq)
		job := db.GetJobByID(context.Background(), "42")
		require.NotNil(t, job)
		assert.Equal(t, "42", job.ID)
		assert.Equal(t, "CTO", job.Title)
	})
}

// =============================================================================
// Stats
// =============================================================================

func statsQuerier() *fakeQuerier {
	return &fakeQuerier{
		queryRow: func(sql string, _ []any) pgx.Row {
			return fakeRow{scan: func(dest ...any) error {
				if strings.Contains(sql, "is_remote") {
					*dest[0].(*int) = 40
				} else {
					*dest[0].(*int) = 288
				}
				return nil
			}}
		},
		query: func(string, []any) (pgx.Rows, error) {
			roles := []string{"CFO", "Other"}
			counts := []int{120, 168}
			return &fakeRows{n: 2, scan: func(i int, dest ...any) error {
				*dest[0].(*string) = roles[i]
				*dest[1].(*int) = counts[i]
				return nil
			}}, nil
		},
	}
}

func TestStats(t *testing.T) {
	db := newDB(statsQuerier())

	stats := db.Stats(context.Background())
	assert.Equal(t, 288, stats.TotalJobs)
	assert.Equal(t, 40, stats.RemoteJobs)
	assert.Equal(t, map[string]int{"CFO": 120, OtherRoleBucket: 168}, stats.ByRole)
}

func TestStats_FailureIsZeroed(t *testing.T) {
	db := newDB(failingQuerier(errors.New("down")))

	stats := db.Stats(context.Background())
	assert.Equal(t, EmptyJobStats(), stats)
}

type memoryStatsCache struct {
	stats *JobStats
	sets  int
}

func (c *memoryStatsCache) GetStats(context.Context) (*JobStats, bool) {
	return c.stats, c.stats != nil
}

func (c *memoryStatsCache) SetStats(_ context.Context, s JobStats) {
	c.stats = &s
	c.sets++
}

func TestStats_UsesCache(t *testing.T) {
	fq := statsQuerier()
	cache := &memoryStatsCache{}
	db := newDB(fq, WithStatsCache(cache))

	first := db.Stats(context.Background())
	queriesAfterFirst := len(fq.queries)
	second := db.Stats(context.Background())

	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, queriesAfterFirst, len(fq.queries), "second call served from cache")
}

func TestConnect_MissingURL(t *testing.T) {
	db, err := Connect(context.Background(), "")
	assert.Nil(t, db)
	assert.ErrorIs(t, err, ErrMissingDatabaseURL)
}
