package core

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a content-derived identifier for domain entities.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Job is a single listing as returned by any retrieval strategy.
// Jobs are values: once retrieved they are never mutated in place.
type Job struct {
	Title       string    `json:"job_title"`
	Company     string    `json:"company_name"`
	WorkStyle   WorkStyle `json:"work_style"`
	WorkType    WorkType  `json:"work_type"`
	Location    string    `json:"location"`
	Salary      string    `json:"salary"` // display text, see NormalizeSalary
	Description string    `json:"job_description"`
}

// ID returns the content hash of the job. Two listings with the same title at
// different companies hash differently.
func (j Job) ID() ID {
	return IDFromContent(strings.Join([]string{j.Title, j.Company, j.Location, j.Description}, "\x1f"))
}

// MinSalary returns the normalized lower bound of the advertised salary.
// The second result is false when the salary is undisclosed or unparseable.
func (j Job) MinSalary() (int64, bool) {
	return NormalizeSalary(j.Salary)
}

// ResumeProfile is the structured digest of a résumé.
type ResumeProfile struct {
	Name    string `json:"name"`
	Summary string `json:"summary"`
}

// Assessment is a personality/work-tendency assessment of a candidate.
// Code is a 16-personalities style type code such as "ENTP-T".
type Assessment struct {
	Code      string `json:"code"`
	Narrative string `json:"narrative"`
}

// Session is the per-user state that outlives a single request.
type Session struct {
	ID         string
	UserName   string
	Summary    string
	Assessment Assessment
	Jobs       []Job // current working list, the input to refine requests
	Saved      []Job // jobs the user marked as preferred
	UpdatedAt  time.Time
}

// Checkpoint records how far an ingest run progressed through a listing source
// so that an interrupted run can resume.
type Checkpoint struct {
	Source    string
	Offset    int64
	UpdatedAt time.Time
}
