package core

import (
	"fmt"
	"strings"
)

// ValidateJob checks that a job has a title and, when set, known enum values.
func ValidateJob(job *Job) error {
	if job == nil {
		return fmt.Errorf("%w: job is nil", ErrInvalidJob)
	}

	if strings.TrimSpace(job.Title) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidJob, ErrEmptyTitle)
	}

	if job.WorkStyle != "" && !job.WorkStyle.Valid() {
		return fmt.Errorf("%w: %w: %q", ErrInvalidJob, ErrInvalidWorkStyle, job.WorkStyle)
	}

	if job.WorkType != "" && !job.WorkType.Valid() {
		return fmt.Errorf("%w: %w: %q", ErrInvalidJob, ErrInvalidWorkType, job.WorkType)
	}

	return nil
}

func ValidateSession(session *Session) error {
	if session == nil {
		return fmt.Errorf("%w: session is nil", ErrInvalidSession)
	}

	if strings.TrimSpace(session.ID) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSession, ErrEmptySessionID)
	}

	for i := range session.Jobs {
		if err := ValidateJob(&session.Jobs[i]); err != nil {
			return fmt.Errorf("%w: jobs[%d]: %w", ErrInvalidSession, i, err)
		}
	}
	for i := range session.Saved {
		if err := ValidateJob(&session.Saved[i]); err != nil {
			return fmt.Errorf("%w: saved[%d]: %w", ErrInvalidSession, i, err)
		}
	}

	return nil
}

// ValidateCheckpoint checks that a checkpoint names its source and points at
// a non-negative offset.
func ValidateCheckpoint(cp *Checkpoint) error {
	if cp == nil || strings.TrimSpace(cp.Source) == "" {
		return fmt.Errorf("%w: source is required", ErrInvalidCheckpoint)
	}
	if cp.Offset < 0 {
		return fmt.Errorf("%w: negative offset %d", ErrInvalidCheckpoint, cp.Offset)
	}
	return nil
}
