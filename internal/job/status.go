// Package job contains the tenant-scoped job-posting domain: the Job model,
// its lifecycle state machine, the persistence contract and the service that
// enforces transition guards.
//
// Lifecycle status graph:
//
//	DRAFT ──► PENDING_APPROVAL ──► APPROVED ──► PUBLISHED ──► CLOSED
//	  │               │                              ▲
//	  ├──────────────────────────────────────────────┘  (direct publish)
//	  └──► CANCELLED                     any ──► CLOSED ──► ARCHIVED
//
// CLOSED is reachable from every status. A PUBLISHED job cannot be deleted.
package job

import (
	"fmt"
	"time"
)

// Status values mirror the job status column in PostgreSQL.
type Status string

const (
	StatusDraft           Status = "DRAFT"
	StatusPendingApproval Status = "PENDING_APPROVAL"
	StatusApproved        Status = "APPROVED"
	StatusPublished       Status = "PUBLISHED"
	StatusClosed          Status = "CLOSED"
	StatusCancelled       Status = "CANCELLED"
	StatusArchived        Status = "ARCHIVED"
)

// ParseStatus converts a raw string to a Status, returning an error for
// unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusDraft, StatusPendingApproval, StatusApproved, StatusPublished,
		StatusClosed, StatusCancelled, StatusArchived:
		return st, nil
	}
	return "", fmt.Errorf("unknown job status %q", s)
}

// CanBeEdited reports whether field patches are accepted in status s.
// Only DRAFT and PENDING_APPROVAL jobs are editable.
func CanBeEdited(s Status) bool {
	return s == StatusDraft || s == StatusPendingApproval
}

// CanBeApproved reports whether the approve operation is accepted in status s.
func CanBeApproved(s Status) bool {
	return s == StatusPendingApproval || s == StatusDraft
}

// CanBePublished reports whether the publish operation is accepted for a job
// in status s that was published at publishedAt (nil if never). APPROVED is
// the regular path; DRAFT is directly publishable as an explicit product
// decision (no approval round-trip for trusted tenants). A job that already
// carries a publish timestamp is never republishable, whatever its status.
func CanBePublished(s Status, publishedAt *time.Time) bool {
	return (s == StatusApproved || s == StatusDraft) && publishedAt == nil
}

// CanBeDeleted reports whether the delete operation is accepted in status s.
// PUBLISHED jobs must be closed before deletion.
func CanBeDeleted(s Status) bool {
	return s != StatusPublished
}
