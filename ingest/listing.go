package ingest

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/poiesic/jobmatch/core"
	"github.com/poiesic/jobmatch/retrieval"
	"github.com/poiesic/jobmatch/storage"
)

// Listing is one scraped job listing as it appears in the corpus.
type Listing struct {
	JobTitle       string `json:"job_title"`
	CompanyName    string `json:"company_name"`
	Location       string `json:"location"`
	WorkType       string `json:"work_type"`
	Salary         string `json:"salary"`
	JobDescription string `json:"job_description"`
}

const maxLineSize = 4 << 20

// ReadListings decodes a JSON lines corpus. Blank lines are skipped.
func ReadListings(r io.Reader) ([]Listing, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	var listings []Listing
	line := 0
	for scanner.Scan() {
		line++
		data := bytes.TrimSpace(scanner.Bytes())
		if len(data) == 0 {
			continue
		}
		var l Listing
		if err := json.Unmarshal(data, &l); err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedListing, line, err)
		}
		listings = append(listings, l)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return listings, nil
}

// Defaults for fields missing from a listing.
const (
	UnknownCompany = "Unknown Company"
	UnknownTitle   = "Unknown Title"
)

// minMonthlySalary drops numbers that cannot be a monthly salary, such as
// years or day counts mentioned next to the amount.
const minMonthlySalary = 500_000

// ParseSalaryRange extracts the lower and upper bound from salary text.
// Both are zero when the text carries no plausible amount.
func ParseSalaryRange(text string) (int64, int64) {
	if strings.EqualFold(strings.TrimSpace(text), "none") {
		return 0, 0
	}

	var lower, upper int64
	for _, v := range core.SalaryNumbers(text) {
		if v <= minMonthlySalary {
			continue
		}
		if lower == 0 || v < lower {
			lower = v
		}
		if v > upper {
			upper = v
		}
	}
	return lower, upper
}

// DetectWorkStyle derives the work arrangement from the location text, which
// carries markers such as "(Hibrid)" or "(Jarak jauh)".
func DetectWorkStyle(location string) core.WorkStyle {
	text := strings.ToLower(location)
	switch {
	case strings.Contains(text, "jarak jauh"), strings.Contains(text, "remote"):
		return core.WorkStyleRemote
	case strings.Contains(text, "hibrid"), strings.Contains(text, "hybrid"):
		return core.WorkStyleHybrid
	}
	return core.WorkStyleOnSite
}

// CleanLocation strips the arrangement marker line from a location.
func CleanLocation(location string) string {
	first, _, _ := strings.Cut(location, "\n")
	return strings.TrimSpace(first)
}

// Clean converts a listing into a jobs table row.
func Clean(l Listing) storage.JobRecord {
	title := strings.TrimSpace(l.JobTitle)
	if title == "" {
		title = UnknownTitle
	}
	company := strings.TrimSpace(l.CompanyName)
	if company == "" {
		company = UnknownCompany
	}

	workType := core.WorkTypeFullTime
	if raw := strings.TrimSpace(l.WorkType); raw != "" {
		if wt, err := core.ParseWorkType(raw); err == nil {
			workType = wt
		} else {
			workType = core.WorkType(raw)
		}
	}

	lower, upper := ParseSalaryRange(l.Salary)
	r := storage.JobRecord{
		Title:         title,
		Company:       company,
		Location:      strings.TrimSpace(l.Location),
		CleanLocation: CleanLocation(l.Location),
		WorkStyle:     DetectWorkStyle(l.Location),
		WorkType:      workType,
		MinSalary:     lower,
		MaxSalary:     upper,
		Description:   strings.TrimSpace(l.JobDescription),
	}
	r.ID = r.Job().ID()
	return r
}

// NewDocument builds the vector index document for a cleaned row. The
// original salary text is kept for display when present.
func NewDocument(r storage.JobRecord, salaryText string) storage.Document {
	salary := strings.TrimSpace(salaryText)
	if salary == "" || strings.EqualFold(salary, "none") {
		salary = core.FormatSalaryRange(r.MinSalary, r.MaxSalary)
	}

	var sb strings.Builder
	sb.WriteString("Job Title: " + r.Title + "\n")
	sb.WriteString("Company: " + r.Company + "\n")
	sb.WriteString("Location: " + r.CleanLocation + "\n")
	sb.WriteString("Job Description: " + r.Description)

	return storage.Document{
		ID:      r.ID,
		Content: sb.String(),
		Metadata: map[string]string{
			retrieval.MetaJobTitle:    r.Title,
			retrieval.MetaCompanyName: r.Company,
			retrieval.MetaWorkStyle:   string(r.WorkStyle),
			retrieval.MetaWorkType:    string(r.WorkType),
			retrieval.MetaLocation:    r.CleanLocation,
			retrieval.MetaSalary:      salary,
			"min_salary":              strconv.FormatInt(r.MinSalary, 10),
			"max_salary":              strconv.FormatInt(r.MaxSalary, 10),
		},
	}
}
