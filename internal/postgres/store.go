// Package postgres implements job.Store on top of a pgx connection pool.
//
// All queries are tenant-scoped by predicate; finders order by id so pages
// stay stable. Counter bumps and the version check run inside the UPDATE
// statements themselves, so the monotonic-counter and optimistic-locking
// guarantees hold without application-level locking.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PROD-B2B-GGJ-Platform/job-posting-service/internal/job"
)

// Store is the PostgreSQL-backed job.Store.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore returns a Store using the given pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// jobColumns is the canonical select list, kept in sync with scanJob.
const jobColumns = `
	id, tenant_id, title, description, location, employment_type,
	experience_level, salary_min, salary_max, salary_currency, status,
	department_id, recruiter_id, hiring_manager_id, number_of_positions,
	published_at, expires_at, approved_at, approved_by,
	custom_fields, requirements, benefits,
	application_count, view_count, is_remote, is_featured,
	created_at, updated_at, created_by, updated_by, version`

func scanJob(row pgx.Row) (*job.Job, error) {
	var j job.Job
	err := row.Scan(
		&j.ID, &j.TenantID, &j.Title, &j.Description, &j.Location, &j.EmploymentType,
		&j.ExperienceLevel, &j.SalaryMin, &j.SalaryMax, &j.SalaryCurrency, &j.Status,
		&j.DepartmentID, &j.RecruiterID, &j.HiringManagerID, &j.NumberOfPositions,
		&j.PublishedAt, &j.ExpiresAt, &j.ApprovedAt, &j.ApprovedBy,
		&j.CustomFields, &j.Requirements, &j.Benefits,
		&j.ApplicationCount, &j.ViewCount, &j.IsRemote, &j.IsFeatured,
		&j.CreatedAt, &j.UpdatedAt, &j.CreatedBy, &j.UpdatedBy, &j.Version,
	)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// Insert persists a new job, assigning id, timestamps and the initial
// version.
func (s *Store) Insert(ctx context.Context, j *job.Job) error {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO ggj_jobs (
		   id, tenant_id, title, description, location, employment_type,
		   experience_level, salary_min, salary_max, salary_currency, status,
		   department_id, recruiter_id, hiring_manager_id, number_of_positions,
		   published_at, expires_at, approved_at, approved_by,
		   custom_fields, requirements, benefits,
		   application_count, view_count, is_remote, is_featured,
		   created_by, updated_by, version
		 ) VALUES (
		   $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		   $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, 1
		 )
		 RETURNING created_at, updated_at, version`,
		j.ID, j.TenantID, j.Title, j.Description, j.Location, j.EmploymentType,
		j.ExperienceLevel, j.SalaryMin, j.SalaryMax, j.SalaryCurrency, j.Status,
		j.DepartmentID, j.RecruiterID, j.HiringManagerID, j.NumberOfPositions,
		j.PublishedAt, j.ExpiresAt, j.ApprovedAt, j.ApprovedBy,
		nonNil(j.CustomFields), nonNil(j.Requirements), nonNil(j.Benefits),
		j.ApplicationCount, j.ViewCount, j.IsRemote, j.IsFeatured,
		j.CreatedBy, j.UpdatedBy,
	).Scan(&j.CreatedAt, &j.UpdatedAt, &j.Version)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

// Update persists a mutated job. The WHERE clause checks the caller's
// observed version; zero rows means either a stale write or a missing job,
// disambiguated by a follow-up existence probe.
func (s *Store) Update(ctx context.Context, j *job.Job) error {
	err := s.pool.QueryRow(ctx,
		`UPDATE ggj_jobs SET
		   title = $1, description = $2, location = $3, employment_type = $4,
		   experience_level = $5, salary_min = $6, salary_max = $7,
		   salary_currency = $8, status = $9, department_id = $10,
		   hiring_manager_id = $11, number_of_positions = $12,
		   published_at = $13, expires_at = $14, approved_at = $15,
		   approved_by = $16, custom_fields = $17, requirements = $18,
		   benefits = $19, is_remote = $20, is_featured = $21,
		   updated_by = $22, updated_at = NOW(), version = version + 1
		 WHERE id = $23 AND tenant_id = $24 AND version = $25
		 RETURNING updated_at, version`,
		j.Title, j.Description, j.Location, j.EmploymentType,
		j.ExperienceLevel, j.SalaryMin, j.SalaryMax,
		j.SalaryCurrency, j.Status, j.DepartmentID,
		j.HiringManagerID, j.NumberOfPositions,
		j.PublishedAt, j.ExpiresAt, j.ApprovedAt,
		j.ApprovedBy, nonNil(j.CustomFields), nonNil(j.Requirements),
		nonNil(j.Benefits), j.IsRemote, j.IsFeatured,
		j.UpdatedBy, j.ID, j.TenantID, j.Version,
	).Scan(&j.UpdatedAt, &j.Version)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("update job: %w", err)
	}

	var exists bool
	probe := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM ggj_jobs WHERE id = $1 AND tenant_id = $2)`,
		j.ID, j.TenantID,
	).Scan(&exists)
	if probe != nil {
		return fmt.Errorf("update job existence probe: %w", probe)
	}
	if exists {
		return job.ErrVersionConflict
	}
	return job.ErrNotFound
}

// FindByID loads one job scoped by tenant.
func (s *Store) FindByID(ctx context.Context, tenantID, id string) (*job.Job, error) {
	j, err := scanJob(s.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM ggj_jobs WHERE id = $1 AND tenant_id = $2`,
		id, tenantID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, job.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find job: %w", err)
	}
	return j, nil
}

// ListByTenant pages a tenant's jobs, optionally filtered by status.
func (s *Store) ListByTenant(ctx context.Context, tenantID string, status job.Status, page job.Page) (*job.PagedResult, error) {
	if status != "" {
		return s.queryPage(ctx, page,
			`SELECT `+jobColumns+`, COUNT(*) OVER() FROM ggj_jobs
			 WHERE tenant_id = $1 AND status = $2
			 ORDER BY id LIMIT $3 OFFSET $4`,
			tenantID, status, page.Size, page.Offset())
	}
	return s.queryPage(ctx, page,
		`SELECT `+jobColumns+`, COUNT(*) OVER() FROM ggj_jobs
		 WHERE tenant_id = $1
		 ORDER BY id LIMIT $2 OFFSET $3`,
		tenantID, page.Size, page.Offset())
}

// FindActive pages PUBLISHED jobs that expire after now.
func (s *Store) FindActive(ctx context.Context, tenantID string, now time.Time, page job.Page) (*job.PagedResult, error) {
	return s.queryPage(ctx, page,
		`SELECT `+jobColumns+`, COUNT(*) OVER() FROM ggj_jobs
		 WHERE tenant_id = $1 AND status = 'PUBLISHED' AND expires_at > $2
		 ORDER BY id LIMIT $3 OFFSET $4`,
		tenantID, now, page.Size, page.Offset())
}

// SearchKeyword pages jobs matching keyword in title or description,
// case-insensitively.
func (s *Store) SearchKeyword(ctx context.Context, tenantID, keyword string, page job.Page) (*job.PagedResult, error) {
	pattern := "%" + keyword + "%"
	return s.queryPage(ctx, page,
		`SELECT `+jobColumns+`, COUNT(*) OVER() FROM ggj_jobs
		 WHERE tenant_id = $1 AND (title ILIKE $2 OR description ILIKE $2)
		 ORDER BY id LIMIT $3 OFFSET $4`,
		tenantID, pattern, page.Size, page.Offset())
}

// FindByRecruiter pages jobs owned by one recruiter.
func (s *Store) FindByRecruiter(ctx context.Context, tenantID, recruiterID string, page job.Page) (*job.PagedResult, error) {
	return s.queryPage(ctx, page,
		`SELECT `+jobColumns+`, COUNT(*) OVER() FROM ggj_jobs
		 WHERE tenant_id = $1 AND recruiter_id = $2
		 ORDER BY id LIMIT $3 OFFSET $4`,
		tenantID, recruiterID, page.Size, page.Offset())
}

// FindByDepartment pages PUBLISHED jobs in one department.
func (s *Store) FindByDepartment(ctx context.Context, tenantID, departmentID string, page job.Page) (*job.PagedResult, error) {
	return s.queryPage(ctx, page,
		`SELECT `+jobColumns+`, COUNT(*) OVER() FROM ggj_jobs
		 WHERE tenant_id = $1 AND department_id = $2 AND status = 'PUBLISHED'
		 ORDER BY id LIMIT $3 OFFSET $4`,
		tenantID, departmentID, page.Size, page.Offset())
}

// CountByStatus counts a tenant's jobs in one status.
func (s *Store) CountByStatus(ctx context.Context, tenantID string, status job.Status) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM ggj_jobs WHERE tenant_id = $1 AND status = $2`,
		tenantID, status,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count jobs by status: %w", err)
	}
	return n, nil
}

// CountExpired counts PUBLISHED jobs past their expiry.
func (s *Store) CountExpired(ctx context.Context, tenantID string, now time.Time) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM ggj_jobs
		 WHERE tenant_id = $1 AND status = 'PUBLISHED' AND expires_at < $2`,
		tenantID, now,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count expired jobs: %w", err)
	}
	return n, nil
}

// Delete removes one job scoped by tenant.
func (s *Store) Delete(ctx context.Context, tenantID, id string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM ggj_jobs WHERE id = $1 AND tenant_id = $2`,
		id, tenantID,
	)
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return job.ErrNotFound
	}
	return nil
}

// IncrementViewCount bumps view_count atomically. version is bumped too so
// concurrent field edits observe the mutation.
func (s *Store) IncrementViewCount(ctx context.Context, tenantID, id string) (int, error) {
	return s.increment(ctx, "view_count", tenantID, id)
}

// IncrementApplicationCount bumps application_count atomically.
func (s *Store) IncrementApplicationCount(ctx context.Context, tenantID, id string) (int, error) {
	return s.increment(ctx, "application_count", tenantID, id)
}

func (s *Store) increment(ctx context.Context, column, tenantID, id string) (int, error) {
	var count int
	// column is one of two compile-time constants, never caller input.
	err := s.pool.QueryRow(ctx,
		`UPDATE ggj_jobs
		 SET `+column+` = `+column+` + 1, version = version + 1, updated_at = NOW()
		 WHERE id = $1 AND tenant_id = $2
		 RETURNING `+column,
		id, tenantID,
	).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, job.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("increment %s: %w", column, err)
	}
	return count, nil
}

// CloseExpired closes PUBLISHED jobs past their expiry across all tenants.
func (s *Store) CloseExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE ggj_jobs
		 SET status = 'CLOSED', version = version + 1, updated_at = NOW()
		 WHERE status = 'PUBLISHED' AND expires_at IS NOT NULL AND expires_at < $1`,
		now,
	)
	if err != nil {
		return 0, fmt.Errorf("close expired jobs: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *Store) queryPage(ctx context.Context, page job.Page, sql string, args ...any) (*job.PagedResult, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("page query: %w", err)
	}
	defer rows.Close()

	result := &job.PagedResult{
		Jobs:       make([]job.Job, 0),
		PageNumber: page.Number,
		PageSize:   page.Size,
	}
	for rows.Next() {
		var j job.Job
		if err := rows.Scan(
			&j.ID, &j.TenantID, &j.Title, &j.Description, &j.Location, &j.EmploymentType,
			&j.ExperienceLevel, &j.SalaryMin, &j.SalaryMax, &j.SalaryCurrency, &j.Status,
			&j.DepartmentID, &j.RecruiterID, &j.HiringManagerID, &j.NumberOfPositions,
			&j.PublishedAt, &j.ExpiresAt, &j.ApprovedAt, &j.ApprovedBy,
			&j.CustomFields, &j.Requirements, &j.Benefits,
			&j.ApplicationCount, &j.ViewCount, &j.IsRemote, &j.IsFeatured,
			&j.CreatedAt, &j.UpdatedAt, &j.CreatedBy, &j.UpdatedBy, &j.Version,
			&result.Total,
		); err != nil {
			return nil, fmt.Errorf("page scan: %w", err)
		}
		result.Jobs = append(result.Jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("page rows: %w", err)
	}
	return result, nil
}

// nonNil keeps jsonb columns NOT NULL so scans never see SQL NULL.
func nonNil(a job.Attributes) job.Attributes {
	if a == nil {
		return job.Attributes{}
	}
	return a
}
