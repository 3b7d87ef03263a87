// Package trust implements the feedback ingestion and authenticity scoring
// engine: submitter weight calculation, feedback-to-posting resolution,
// weighted time-decayed score aggregation, badge derivation and submitter
// reputation updates.
package trust

import "errors"

// Error taxonomy for feedback ingestion. Controllers map these to HTTP
// status codes with errors.Is.
var (
	// ErrValidation indicates a submission that cannot identify a posting
	// or carries invalid feedback fields.
	ErrValidation = errors.New("invalid feedback submission")

	// ErrNotFound indicates an unresolvable job posting or application.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateFeedback indicates the user already left feedback for
	// this posting.
	ErrDuplicateFeedback = errors.New("feedback already exists for this job and user")
)
