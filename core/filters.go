package core

// Filter is one of the three extraction schemas. A nil field never
// constrains; an empty string is never used to mean "no constraint".
type Filter interface {
	// Route reports the retrieval strategy the filter belongs to.
	Route() Route
}

// RefineFilter narrows an already retrieved job list.
type RefineFilter struct {
	WorkStyle *WorkStyle `json:"work_style"`
	WorkType  *WorkType  `json:"work_type"`
	MinSalary *int64     `json:"min_salary"`
	Location  *string    `json:"location"`
}

// SemanticFilter constrains a vector similarity search by listing metadata.
// Location is matched in its case-sensitive canonical form.
type SemanticFilter struct {
	WorkStyle *WorkStyle `json:"work_style"`
	WorkType  *WorkType  `json:"work_type"`
	Location  *string    `json:"location"`
}

// StructuredFilter drives an attribute search against the relational store.
// Salary is a requested minimum, compared against the listing's upper bound.
type StructuredFilter struct {
	JobTitle    *string    `json:"job_title"`
	CompanyName *string    `json:"company_name"`
	WorkStyle   *WorkStyle `json:"work_style"`
	WorkType    *WorkType  `json:"work_type"`
	Location    *string    `json:"location"`
	Salary      *int64     `json:"salary"`
}

var (
	_ Filter = RefineFilter{}
	_ Filter = SemanticFilter{}
	_ Filter = StructuredFilter{}
)

func (RefineFilter) Route() Route     { return RouteRefine }
func (SemanticFilter) Route() Route   { return RouteSemantic }
func (StructuredFilter) Route() Route { return RouteStructured }

// IsEmpty reports whether no field is set.
func (f RefineFilter) IsEmpty() bool {
	return f.WorkStyle == nil && f.WorkType == nil && f.MinSalary == nil && f.Location == nil
}

// IsEmpty reports whether no field is set.
func (f SemanticFilter) IsEmpty() bool {
	return f.WorkStyle == nil && f.WorkType == nil && f.Location == nil
}

// IsEmpty reports whether no field is set.
func (f StructuredFilter) IsEmpty() bool {
	return f.JobTitle == nil && f.CompanyName == nil && f.WorkStyle == nil &&
		f.WorkType == nil && f.Location == nil && f.Salary == nil
}

// Ptr returns a pointer to v. Handy for building filters.
func Ptr[T any](v T) *T {
	return &v
}
