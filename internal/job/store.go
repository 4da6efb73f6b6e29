package job

import (
	"context"
	"time"
)

// Page holds offset pagination parameters. All finders order by job id so
// pages are stable across requests.
type Page struct {
	Number int // zero-based
	Size   int
}

// Normalize resets a size outside (0, maxPageSize] to the default 20 and
// clamps the page number to zero or above.
func (p Page) Normalize() Page {
	const maxPageSize = 100
	if p.Size <= 0 || p.Size > maxPageSize {
		p.Size = 20
	}
	if p.Number < 0 {
		p.Number = 0
	}
	return p
}

// Offset returns the row offset for the page.
func (p Page) Offset() int { return p.Number * p.Size }

// PagedResult is one page of jobs plus the total match count.
type PagedResult struct {
	Jobs       []Job `json:"jobs"`
	Total      int64 `json:"total"`
	PageNumber int   `json:"page"`
	PageSize   int   `json:"size"`
}

// Store is the persistence contract for jobs. Every finder is tenant-scoped;
// no implementation may return a job belonging to a different tenant than
// requested.
type Store interface {
	// Insert persists a new job, filling ID, CreatedAt, UpdatedAt and Version.
	Insert(ctx context.Context, j *Job) error

	// Update persists a mutated job, checking the caller's observed Version
	// and bumping it. Returns ErrVersionConflict on a stale write and
	// ErrNotFound when the (tenant, id) pair does not exist.
	Update(ctx context.Context, j *Job) error

	// FindByID loads a job by tenant and id. Returns ErrNotFound when absent.
	FindByID(ctx context.Context, tenantID, id string) (*Job, error)

	// ListByTenant pages through a tenant's jobs, optionally filtered by
	// status ("" means all).
	ListByTenant(ctx context.Context, tenantID string, status Status, page Page) (*PagedResult, error)

	// FindActive pages through PUBLISHED jobs whose expiry is after now.
	FindActive(ctx context.Context, tenantID string, now time.Time, page Page) (*PagedResult, error)

	// SearchKeyword pages through jobs whose title or description contains
	// keyword, case-insensitively.
	SearchKeyword(ctx context.Context, tenantID, keyword string, page Page) (*PagedResult, error)

	// FindByRecruiter pages through jobs owned by a recruiter.
	FindByRecruiter(ctx context.Context, tenantID, recruiterID string, page Page) (*PagedResult, error)

	// FindByDepartment pages through PUBLISHED jobs in a department.
	FindByDepartment(ctx context.Context, tenantID, departmentID string, page Page) (*PagedResult, error)

	// CountByStatus counts a tenant's jobs in the given status.
	CountByStatus(ctx context.Context, tenantID string, status Status) (int64, error)

	// CountExpired counts a tenant's PUBLISHED jobs whose expiry is before now.
	CountExpired(ctx context.Context, tenantID string, now time.Time) (int64, error)

	// Delete removes a job. Returns ErrNotFound when absent.
	Delete(ctx context.Context, tenantID, id string) error

	// IncrementViewCount atomically bumps the view counter and returns the
	// new value. Concurrent increments never decrease the persisted count.
	IncrementViewCount(ctx context.Context, tenantID, id string) (int, error)

	// IncrementApplicationCount atomically bumps the application counter and
	// returns the new value.
	IncrementApplicationCount(ctx context.Context, tenantID, id string) (int, error)

	// CloseExpired moves PUBLISHED jobs past their expiry to CLOSED across
	// all tenants, returning how many rows changed. Used by the sweep.
	CloseExpired(ctx context.Context, now time.Time) (int64, error)
}
