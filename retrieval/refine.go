package retrieval

import (
	"strings"

	"github.com/poiesic/jobmatch/core"
)

// Refine returns the jobs that satisfy every non-nil field of f, in their
// original order. Enum fields compare case-insensitively and the location is
// a case-insensitive substring match. When a minimum salary is set, jobs with
// an undisclosed salary are dropped.
func Refine(jobs []core.Job, f core.RefineFilter) []core.Job {
	passed := make([]core.Job, 0, len(jobs))
	for _, job := range jobs {
		if keep(job, f) {
			passed = append(passed, job)
		}
	}
	return passed
}

func keep(job core.Job, f core.RefineFilter) bool {
	if f.WorkStyle != nil && !strings.EqualFold(string(job.WorkStyle), string(*f.WorkStyle)) {
		return false
	}
	if f.WorkType != nil && !strings.EqualFold(string(job.WorkType), string(*f.WorkType)) {
		return false
	}
	if f.Location != nil && !strings.Contains(strings.ToLower(job.Location), strings.ToLower(*f.Location)) {
		return false
	}
	if f.MinSalary == nil {
		return true
	}
	lower, ok := job.MinSalary()
	return ok && lower >= *f.MinSalary
}
