package storage

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/poiesic/jobmatch/core"
)

// Column names a field of the jobs table.
type Column string

const (
	ColumnID            Column = "id"
	ColumnTitle         Column = "job_title"
	ColumnCompany       Column = "company_name"
	ColumnLocation      Column = "location"
	ColumnCleanLocation Column = "clean_location"
	ColumnWorkStyle     Column = "work_style"
	ColumnWorkType      Column = "work_type"
	ColumnMinSalary     Column = "min_salary"
	ColumnMaxSalary     Column = "max_salary"
	ColumnDescription   Column = "job_description"
)

// JobColumns is the fixed column order used by SELECT and INSERT statements
// and by ScanJobRecord.
var JobColumns = []Column{
	ColumnID,
	ColumnTitle,
	ColumnCompany,
	ColumnLocation,
	ColumnCleanLocation,
	ColumnWorkStyle,
	ColumnWorkType,
	ColumnMinSalary,
	ColumnMaxSalary,
	ColumnDescription,
}

var textColumns = []Column{
	ColumnTitle, ColumnCompany, ColumnLocation, ColumnCleanLocation,
	ColumnWorkStyle, ColumnWorkType, ColumnDescription,
}

var numericColumns = []Column{ColumnMinSalary, ColumnMaxSalary}

// JobRecord is a row of the jobs table. Salaries are normalized integers with
// zero meaning undisclosed.
type JobRecord struct {
	ID            core.ID
	Title         string
	Company       string
	Location      string
	CleanLocation string
	WorkStyle     core.WorkStyle
	WorkType      core.WorkType
	MinSalary     int64
	MaxSalary     int64
	Description   string
}

// Job converts the row to the retrieval result shape, rendering the salary
// bounds back to display text.
func (r JobRecord) Job() core.Job {
	return core.Job{
		Title:       r.Title,
		Company:     r.Company,
		WorkStyle:   r.WorkStyle,
		WorkType:    r.WorkType,
		Location:    r.Location,
		Salary:      core.FormatSalaryRange(r.MinSalary, r.MaxSalary),
		Description: r.Description,
	}
}

// Op is a predicate operator.
type Op int

const (
	// OpContains is a substring match against a text column.
	OpContains Op = iota
	// OpAtLeast is a >= comparison against a numeric column.
	OpAtLeast
)

// Predicate is a single condition. Value is a string for OpContains and an
// int64 for OpAtLeast.
type Predicate struct {
	Column Column
	Op     Op
	Value  any
}

// JobQuery is a conjunction of predicates with optional ordering and limit.
// A zero Limit means no limit.
type JobQuery struct {
	Predicates []Predicate
	OrderBy    Column
	Descending bool
	Limit      int
}

// Dialect captures the SQL differences between relational backends.
type Dialect struct {
	// Placeholder renders the n-th (1-based) bind parameter.
	Placeholder func(n int) string
	// Like is the substring-match operator, e.g. "LIKE" or "ILIKE".
	Like string
}

// QuestionDialect is used by SQLite.
var QuestionDialect = Dialect{
	Placeholder: func(int) string { return "?" },
	Like:        "LIKE",
}

// DollarDialect is used by PostgreSQL.
var DollarDialect = Dialect{
	Placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
	Like:        "ILIKE",
}

// BuildSelect renders q as a parameterized SELECT over the jobs table.
// Predicates are ANDed. A query without predicates has no WHERE clause.
// Unknown columns or mistyped values yield ErrInvalidQuery.
func BuildSelect(q JobQuery, d Dialect) (string, []any, error) {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(joinColumns(JobColumns))
	sb.WriteString(" FROM jobs")

	args := make([]any, 0, len(q.Predicates))
	for i, p := range q.Predicates {
		clause, arg, err := renderPredicate(p, d, len(args)+1)
		if err != nil {
			return "", nil, err
		}
		if i == 0 {
			sb.WriteString(" WHERE ")
		} else {
			sb.WriteString(" AND ")
		}
		sb.WriteString(clause)
		args = append(args, arg)
	}

	if q.OrderBy != "" {
		if !slices.Contains(JobColumns, q.OrderBy) {
			return "", nil, fmt.Errorf("%w: unknown order column %q", ErrInvalidQuery, q.OrderBy)
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(string(q.OrderBy))
		if q.Descending {
			sb.WriteString(" DESC")
		}
	}

	if q.Limit < 0 {
		return "", nil, fmt.Errorf("%w: negative limit %d", ErrInvalidQuery, q.Limit)
	}
	if q.Limit > 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.Itoa(q.Limit))
	}

	return sb.String(), args, nil
}

func renderPredicate(p Predicate, d Dialect, n int) (string, any, error) {
	switch p.Op {
	case OpContains:
		if !slices.Contains(textColumns, p.Column) {
			return "", nil, fmt.Errorf("%w: %q is not a text column", ErrInvalidQuery, p.Column)
		}
		s, ok := p.Value.(string)
		if !ok {
			return "", nil, fmt.Errorf("%w: %q needs a string value", ErrInvalidQuery, p.Column)
		}
		return fmt.Sprintf("%s %s '%%' || %s || '%%'", p.Column, d.Like, d.Placeholder(n)), s, nil
	case OpAtLeast:
		if !slices.Contains(numericColumns, p.Column) {
			return "", nil, fmt.Errorf("%w: %q is not a numeric column", ErrInvalidQuery, p.Column)
		}
		v, ok := p.Value.(int64)
		if !ok {
			return "", nil, fmt.Errorf("%w: %q needs an int64 value", ErrInvalidQuery, p.Column)
		}
		return fmt.Sprintf("%s >= %s", p.Column, d.Placeholder(n)), v, nil
	default:
		return "", nil, fmt.Errorf("%w: unknown operator %d", ErrInvalidQuery, p.Op)
	}
}

// BuildInsert renders an INSERT for one row in JobColumns order. The statement
// skips rows whose id already exists.
func BuildInsert(d Dialect) string {
	placeholders := make([]string, len(JobColumns))
	for i := range JobColumns {
		placeholders[i] = d.Placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO jobs (%s) VALUES (%s) ON CONFLICT (id) DO NOTHING",
		joinColumns(JobColumns), strings.Join(placeholders, ", "))
}

// InsertArgs returns the bind arguments for BuildInsert.
func (r JobRecord) InsertArgs() []any {
	return []any{
		int64(r.ID),
		r.Title,
		r.Company,
		r.Location,
		r.CleanLocation,
		string(r.WorkStyle),
		string(r.WorkType),
		r.MinSalary,
		r.MaxSalary,
		r.Description,
	}
}

// RowScanner is satisfied by *sql.Row, *sql.Rows and pgx.Rows.
type RowScanner interface {
	Scan(dest ...any) error
}

// ScanJobRecord reads a row selected with JobColumns.
func ScanJobRecord(row RowScanner) (JobRecord, error) {
	var (
		r         JobRecord
		id        int64
		workStyle string
		workType  string
	)
	err := row.Scan(
		&id,
		&r.Title,
		&r.Company,
		&r.Location,
		&r.CleanLocation,
		&workStyle,
		&workType,
		&r.MinSalary,
		&r.MaxSalary,
		&r.Description,
	)
	if err != nil {
		return JobRecord{}, err
	}
	r.ID = core.ID(id)
	r.WorkStyle = core.WorkStyle(workStyle)
	r.WorkType = core.WorkType(workType)
	return r, nil
}

func joinColumns(cols []Column) string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
