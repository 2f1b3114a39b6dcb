package storage

import (
	"testing"
	"time"

	"github.com/poiesic/jobmatch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		id   core.ID
	}{
		{"zero ID", core.ID(0)},
		{"small ID", core.ID(42)},
		{"large ID", core.ID(18446744073709551615)}, // max uint64
		{"content-based ID", core.IDFromContent("test content")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalID(tt.id)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalID(data)
			require.NoError(t, err)
			assert.Equal(t, tt.id, decoded)
		})
	}
}

func TestUnmarshalID_Invalid(t *testing.T) {
	_, err := UnmarshalID([]byte{})
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func sampleJobs() []core.Job {
	return []core.Job{
		{
			Title:       "Data Analyst",
			Company:     "PT Maju",
			WorkStyle:   core.WorkStyleHybrid,
			WorkType:    core.WorkTypeFullTime,
			Location:    "Jakarta Selatan, Jakarta Raya",
			Salary:      "Rp 12.000.000 – Rp 18.000.000 per month",
			Description: "SQL, Python, dashboards",
		},
		{
			Title:     "Barista",
			Company:   "Kopi Kita",
			WorkStyle: core.WorkStyleOnSite,
			WorkType:  core.WorkTypePartTime,
			Location:  "Bandung",
			Salary:    core.SalaryUndisclosed,
		},
	}
}

func TestMarshalUnmarshalSession(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name    string
		session *core.Session
	}{
		{
			name:    "minimal session",
			session: &core.Session{ID: "s-1"},
		},
		{
			name: "full session",
			session: &core.Session{
				ID:         "s-2",
				UserName:   "Budi",
				Summary:    "Username: Budi\nSkills: SQL",
				Assessment: core.Assessment{Code: "INTJ-A", Narrative: "Strategic and independent."},
				Jobs:       sampleJobs(),
				Saved:      sampleJobs()[:1],
				UpdatedAt:  now,
			},
		},
		{
			name:    "unicode summary",
			session: &core.Session{ID: "s-3", Summary: "Lokasi: Yogyakarta 🌏 é"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := UnmarshalSession(MarshalSession(tt.session))
			require.NoError(t, err)

			assert.Equal(t, tt.session.ID, decoded.ID)
			assert.Equal(t, tt.session.UserName, decoded.UserName)
			assert.Equal(t, tt.session.Summary, decoded.Summary)
			assert.Equal(t, tt.session.Assessment, decoded.Assessment)
			assert.Equal(t, tt.session.Jobs, decoded.Jobs)
			assert.Equal(t, tt.session.Saved, decoded.Saved)
			assert.True(t, tt.session.UpdatedAt.Equal(decoded.UpdatedAt))
		})
	}
}

func TestUnmarshalSession_Truncated(t *testing.T) {
	data := MarshalSession(&core.Session{ID: "s-1", Jobs: sampleJobs()})

	_, err := UnmarshalSession(data[:len(data)/2])
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestMarshalUnmarshalDocument(t *testing.T) {
	doc := &StoredDocument{
		Document: Document{
			ID:      core.IDFromContent("doc"),
			Content: "Job Title: Data Analyst\nJob Description: SQL",
			Metadata: map[string]string{
				"job_title": "Data Analyst",
				"location":  "Jakarta",
			},
		},
		Vector: []float32{0.1, -0.2, 0.3, 0},
	}

	decoded, err := UnmarshalDocument(MarshalDocument(doc))
	require.NoError(t, err)
	assert.Equal(t, doc, decoded)

	bare := &StoredDocument{Document: Document{ID: 7, Content: "x"}}
	decoded, err = UnmarshalDocument(MarshalDocument(bare))
	require.NoError(t, err)
	assert.Equal(t, bare, decoded)
}

func TestMarshalUnmarshalCheckpoint(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	checkpoint := &core.Checkpoint{Source: "listings.jsonl", Offset: 1200, UpdatedAt: now}

	decoded, err := UnmarshalCheckpoint(MarshalCheckpoint(checkpoint))
	require.NoError(t, err)
	assert.Equal(t, checkpoint.Source, decoded.Source)
	assert.Equal(t, checkpoint.Offset, decoded.Offset)
	assert.True(t, checkpoint.UpdatedAt.Equal(decoded.UpdatedAt))
}
