package storage

import (
	"testing"

	"github.com/poiesic/jobmatch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const selectPrefix = "SELECT id, job_title, company_name, location, clean_location, work_style, work_type, min_salary, max_salary, job_description FROM jobs"

func TestBuildSelect(t *testing.T) {
	t.Run("no predicates has no where clause", func(t *testing.T) {
		sql, args, err := BuildSelect(JobQuery{OrderBy: ColumnMaxSalary, Descending: true, Limit: 5}, QuestionDialect)
		require.NoError(t, err)
		assert.Equal(t, selectPrefix+" ORDER BY max_salary DESC LIMIT 5", sql)
		assert.Empty(t, args)
	})

	t.Run("contains and at least", func(t *testing.T) {
		q := JobQuery{
			Predicates: []Predicate{
				{Column: ColumnTitle, Op: OpContains, Value: "data"},
				{Column: ColumnCleanLocation, Op: OpContains, Value: "Jakarta"},
				{Column: ColumnMaxSalary, Op: OpAtLeast, Value: int64(10000000)},
			},
			OrderBy:    ColumnMaxSalary,
			Descending: true,
			Limit:      5,
		}

		sql, args, err := BuildSelect(q, QuestionDialect)
		require.NoError(t, err)
		assert.Equal(t, selectPrefix+
			" WHERE job_title LIKE '%' || ? || '%'"+
			" AND clean_location LIKE '%' || ? || '%'"+
			" AND max_salary >= ?"+
			" ORDER BY max_salary DESC LIMIT 5", sql)
		assert.Equal(t, []any{"data", "Jakarta", int64(10000000)}, args)

		sql, _, err = BuildSelect(q, DollarDialect)
		require.NoError(t, err)
		assert.Contains(t, sql, "job_title ILIKE '%' || $1 || '%'")
		assert.Contains(t, sql, "max_salary >= $3")
	})

	invalid := []struct {
		name string
		q    JobQuery
	}{
		{"unknown column", JobQuery{Predicates: []Predicate{{Column: "password", Op: OpContains, Value: "x"}}}},
		{"contains on numeric", JobQuery{Predicates: []Predicate{{Column: ColumnMaxSalary, Op: OpContains, Value: "x"}}}},
		{"at least on text", JobQuery{Predicates: []Predicate{{Column: ColumnTitle, Op: OpAtLeast, Value: int64(1)}}}},
		{"wrong value type", JobQuery{Predicates: []Predicate{{Column: ColumnMaxSalary, Op: OpAtLeast, Value: 10}}}},
		{"unknown order", JobQuery{OrderBy: "random()"}},
		{"negative limit", JobQuery{Limit: -1}},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := BuildSelect(tt.q, QuestionDialect)
			assert.ErrorIs(t, err, ErrInvalidQuery)
		})
	}
}

func TestBuildInsert(t *testing.T) {
	assert.Equal(t,
		"INSERT INTO jobs (id, job_title, company_name, location, clean_location, work_style, work_type, min_salary, max_salary, job_description) "+
			"VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) ON CONFLICT (id) DO NOTHING",
		BuildInsert(DollarDialect))
}

func TestJobRecord_Job(t *testing.T) {
	r := JobRecord{
		Title:     "Data Analyst",
		Company:   "Acme",
		Location:  "Jakarta Selatan, Jakarta Raya",
		WorkStyle: core.WorkStyleHybrid,
		WorkType:  core.WorkTypeFullTime,
		MinSalary: 12000000,
		MaxSalary: 18000000,
	}

	job := r.Job()
	assert.Equal(t, "Data Analyst", job.Title)
	assert.Equal(t, "Jakarta Selatan, Jakarta Raya", job.Location)
	lower, ok := job.MinSalary()
	require.True(t, ok)
	assert.Equal(t, int64(12000000), lower)

	r.MinSalary, r.MaxSalary = 0, 0
	assert.Equal(t, core.SalaryUndisclosed, r.Job().Salary)
}

func TestMetadataFilter_Matches(t *testing.T) {
	meta := map[string]string{"location": "Jakarta Selatan", "work_style": "Hybrid"}

	assert.True(t, MetadataFilter{}.Matches(meta))
	assert.True(t, MetadataFilter{{Key: "location", Value: "Jakarta"}}.Matches(meta))
	assert.True(t, MetadataFilter{{Key: "location", Value: "Jakarta"}, {Key: "work_style", Value: "Hybrid"}}.Matches(meta))
	assert.False(t, MetadataFilter{{Key: "location", Value: "jakarta"}}.Matches(meta))
	assert.False(t, MetadataFilter{{Key: "work_type", Value: "Kontrak"}}.Matches(meta))
}
