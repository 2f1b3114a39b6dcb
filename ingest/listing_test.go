package ingest

import (
	"strings"
	"testing"

	"github.com/poiesic/jobmatch/core"
	"github.com/poiesic/jobmatch/retrieval"
	"github.com/poiesic/jobmatch/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadListings(t *testing.T) {
	t.Run("json lines with blanks", func(t *testing.T) {
		input := `{"job_title": "Data Analyst", "company_name": "PT Maju", "location": "Jakarta Selatan\n(Hibrid)", "work_type": "Full time", "salary": "Rp 8.000.000 – Rp 12.000.000", "job_description": "SQL"}

{"job_title": "Barista", "company_name": null, "location": "Bandung", "salary": null}
`
		listings, err := ReadListings(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, listings, 2)
		assert.Equal(t, "Data Analyst", listings[0].JobTitle)
		assert.Equal(t, "Jakarta Selatan\n(Hibrid)", listings[0].Location)
		assert.Empty(t, listings[1].CompanyName)
		assert.Empty(t, listings[1].Salary)
	})

	t.Run("malformed line", func(t *testing.T) {
		_, err := ReadListings(strings.NewReader("{\"job_title\": \"ok\"}\nnot json\n"))
		assert.ErrorIs(t, err, ErrMalformedListing)
		assert.Contains(t, err.Error(), "line 2")
	})

	t.Run("empty input", func(t *testing.T) {
		listings, err := ReadListings(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, listings)
	})
}

func TestParseSalaryRange(t *testing.T) {
	tests := []struct {
		text       string
		lower, upp int64
	}{
		{"Rp 8.000.000 – Rp 12.000.000", 8_000_000, 12_000_000},
		{"Rp 9.500.000", 9_500_000, 9_500_000},
		{"Rp 6.000.000 + K3", 6_000_000, 6_000_000},
		{"8 - 12 juta per bulan", 8_000_000, 12_000_000},
		{"Rp 12.000.000 – Rp 7.000.000", 7_000_000, 12_000_000},
		{"Tidak Ditampilkan", 0, 0},
		{"World Class Benefits", 0, 0},
		{"None", 0, 0},
		{"", 0, 0},
		{"Bonus 2025", 0, 0},
		{"Rp 400.000 per day", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			lower, upper := ParseSalaryRange(tt.text)
			assert.Equal(t, tt.lower, lower)
			assert.Equal(t, tt.upp, upper)
		})
	}
}

func TestDetectWorkStyle(t *testing.T) {
	assert.Equal(t, core.WorkStyleHybrid, DetectWorkStyle("Jakarta Selatan\n(Hibrid)"))
	assert.Equal(t, core.WorkStyleRemote, DetectWorkStyle("Bandung (Jarak jauh)"))
	assert.Equal(t, core.WorkStyleRemote, DetectWorkStyle("Remote"))
	assert.Equal(t, core.WorkStyleOnSite, DetectWorkStyle("Surabaya"))
}

func TestCleanLocation(t *testing.T) {
	assert.Equal(t, "Jakarta Selatan", CleanLocation("  Jakarta Selatan \n(Hibrid)"))
	assert.Equal(t, "Bandung", CleanLocation("Bandung"))
	assert.Equal(t, "", CleanLocation(""))
}

func TestClean(t *testing.T) {
	t.Run("full listing", func(t *testing.T) {
		r := Clean(Listing{
			JobTitle:       "Data Analyst",
			CompanyName:    "PT Maju",
			Location:       "Jakarta Selatan\n(Hibrid)",
			WorkType:       "Kontrak",
			Salary:         "Rp 8.000.000 – Rp 12.000.000",
			JobDescription: " SQL and dashboards ",
		})

		assert.Equal(t, "Data Analyst", r.Title)
		assert.Equal(t, "Jakarta Selatan", r.CleanLocation)
		assert.Equal(t, core.WorkStyleHybrid, r.WorkStyle)
		assert.Equal(t, core.WorkTypeContract, r.WorkType)
		assert.Equal(t, int64(8_000_000), r.MinSalary)
		assert.Equal(t, int64(12_000_000), r.MaxSalary)
		assert.Equal(t, "SQL and dashboards", r.Description)
		assert.Equal(t, r.Job().ID(), r.ID)
	})

	t.Run("defaults", func(t *testing.T) {
		r := Clean(Listing{Location: "Bandung"})
		assert.Equal(t, UnknownTitle, r.Title)
		assert.Equal(t, UnknownCompany, r.Company)
		assert.Equal(t, core.WorkTypeFullTime, r.WorkType)
		assert.Zero(t, r.MinSalary)
		assert.Equal(t, core.SalaryUndisclosed, r.Job().Salary)
	})

	t.Run("unknown work type is kept verbatim", func(t *testing.T) {
		r := Clean(Listing{WorkType: "Magang"})
		assert.Equal(t, core.WorkType("Magang"), r.WorkType)
	})
}

func TestNewDocument(t *testing.T) {
	r := Clean(Listing{
		JobTitle:       "Data Analyst",
		CompanyName:    "PT Maju",
		Location:       "Jakarta Selatan\n(Hibrid)",
		Salary:         "Rp 8.000.000 – Rp 12.000.000",
		JobDescription: "SQL",
	})

	doc := NewDocument(r, "Rp 8.000.000 – Rp 12.000.000")
	assert.Equal(t, r.ID, doc.ID)
	assert.Equal(t, "Job Title: Data Analyst\nCompany: PT Maju\nLocation: Jakarta Selatan\nJob Description: SQL", doc.Content)
	assert.Equal(t, "Hybrid", doc.Metadata[retrieval.MetaWorkStyle])
	assert.Equal(t, "Jakarta Selatan", doc.Metadata[retrieval.MetaLocation])
	assert.Equal(t, "Rp 8.000.000 – Rp 12.000.000", doc.Metadata[retrieval.MetaSalary])

	t.Run("round trips through the semantic decoder", func(t *testing.T) {
		job, err := retrieval.DocumentJob(doc)
		require.NoError(t, err)
		assert.Equal(t, "Data Analyst", job.Title)
		assert.Equal(t, core.WorkStyleHybrid, job.WorkStyle)
		assert.Equal(t, "SQL", job.Description)
		assert.Equal(t, int64(8_000_000), mustMin(t, job))
	})

	t.Run("missing salary text is rendered", func(t *testing.T) {
		d := NewDocument(storage.JobRecord{MinSalary: 5_000_000, MaxSalary: 5_000_000}, "")
		assert.Equal(t, "Rp 5.000.000", d.Metadata[retrieval.MetaSalary])
	})
}

func mustMin(t *testing.T, job core.Job) int64 {
	t.Helper()
	v, ok := job.MinSalary()
	require.True(t, ok)
	return v
}
