// Package jobtest provides an in-memory job.Store for tests.
package jobtest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/PROD-B2B-GGJ-Platform/job-posting-service/internal/job"
)

// MemStore implements job.Store with a mutex-guarded map. Finders record
// their names in Calls so tests can assert which query the engine selected.
type MemStore struct {
	mu    sync.Mutex
	seq   int
	jobs  map[string]*job.Job
	Calls []string
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{jobs: make(map[string]*job.Job)}
}

func (m *MemStore) record(name string) {
	m.Calls = append(m.Calls, name)
}

func (m *MemStore) Insert(_ context.Context, j *job.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	if j.ID == "" {
		j.ID = fmt.Sprintf("job-%04d", m.seq)
	}
	now := time.Now()
	j.CreatedAt = now
	j.UpdatedAt = now
	j.Version = 1
	cp := *j
	m.jobs[j.ID] = &cp
	return nil
}

func (m *MemStore) Update(_ context.Context, j *job.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.jobs[j.ID]
	if !ok || stored.TenantID != j.TenantID {
		return job.ErrNotFound
	}
	if stored.Version != j.Version {
		return job.ErrVersionConflict
	}
	j.Version++
	j.UpdatedAt = time.Now()
	cp := *j
	m.jobs[j.ID] = &cp
	return nil
}

func (m *MemStore) FindByID(_ context.Context, tenantID, id string) (*job.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.jobs[id]
	if !ok || stored.TenantID != tenantID {
		return nil, job.ErrNotFound
	}
	cp := *stored
	return &cp, nil
}

func (m *MemStore) ListByTenant(_ context.Context, tenantID string, status job.Status, page job.Page) (*job.PagedResult, error) {
	m.record("ListByTenant")
	return m.page(page, func(j *job.Job) bool {
		return j.TenantID == tenantID && (status == "" || j.Status == status)
	}), nil
}

func (m *MemStore) FindActive(_ context.Context, tenantID string, now time.Time, page job.Page) (*job.PagedResult, error) {
	m.record("FindActive")
	return m.page(page, func(j *job.Job) bool {
		return j.TenantID == tenantID && j.IsActive(now)
	}), nil
}

func (m *MemStore) SearchKeyword(_ context.Context, tenantID, keyword string, page job.Page) (*job.PagedResult, error) {
	m.record("SearchKeyword")
	kw := strings.ToLower(keyword)
	return m.page(page, func(j *job.Job) bool {
		return j.TenantID == tenantID &&
			(strings.Contains(strings.ToLower(j.Title), kw) ||
				strings.Contains(strings.ToLower(j.Description), kw))
	}), nil
}

func (m *MemStore) FindByRecruiter(_ context.Context, tenantID, recruiterID string, page job.Page) (*job.PagedResult, error) {
	m.record("FindByRecruiter")
	return m.page(page, func(j *job.Job) bool {
		return j.TenantID == tenantID && j.RecruiterID == recruiterID
	}), nil
}

func (m *MemStore) FindByDepartment(_ context.Context, tenantID, departmentID string, page job.Page) (*job.PagedResult, error) {
	m.record("FindByDepartment")
	return m.page(page, func(j *job.Job) bool {
		return j.TenantID == tenantID && j.DepartmentID == departmentID && j.Status == job.StatusPublished
	}), nil
}

func (m *MemStore) CountByStatus(_ context.Context, tenantID string, status job.Status) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, j := range m.jobs {
		if j.TenantID == tenantID && j.Status == status {
			n++
		}
	}
	return n, nil
}

func (m *MemStore) CountExpired(_ context.Context, tenantID string, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, j := range m.jobs {
		if j.TenantID == tenantID && j.Status == job.StatusPublished &&
			j.ExpiresAt != nil && j.ExpiresAt.Before(now) {
			n++
		}
	}
	return n, nil
}

func (m *MemStore) Delete(_ context.Context, tenantID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.jobs[id]
	if !ok || stored.TenantID != tenantID {
		return job.ErrNotFound
	}
	delete(m.jobs, id)
	return nil
}

func (m *MemStore) IncrementViewCount(_ context.Context, tenantID, id string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.jobs[id]
	if !ok || stored.TenantID != tenantID {
		return 0, job.ErrNotFound
	}
	stored.ViewCount++
	stored.Version++
	return stored.ViewCount, nil
}

func (m *MemStore) IncrementApplicationCount(_ context.Context, tenantID, id string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.jobs[id]
	if !ok || stored.TenantID != tenantID {
		return 0, job.ErrNotFound
	}
	stored.ApplicationCount++
	stored.Version++
	return stored.ApplicationCount, nil
}

func (m *MemStore) CloseExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, j := range m.jobs {
		if j.Status == job.StatusPublished && j.ExpiresAt != nil && j.ExpiresAt.Before(now) {
			j.Status = job.StatusClosed
			j.Version++
			n++
		}
	}
	return n, nil
}

// Stored returns a copy of the job as persisted, bypassing tenant scoping.
// Returns nil when absent.
func (m *MemStore) Stored(id string) *job.Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.jobs[id]
	if !ok {
		return nil
	}
	cp := *stored
	return &cp
}

func (m *MemStore) page(page job.Page, match func(*job.Job) bool) *job.PagedResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []job.Job
	for _, j := range m.jobs {
		if match(j) {
			all = append(all, *j)
		}
	}
	sort.Slice(all, func(i, k int) bool { return all[i].ID < all[k].ID })

	total := int64(len(all))
	start := page.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + page.Size
	if end > len(all) {
		end = len(all)
	}
	return &job.PagedResult{
		Jobs:       all[start:end],
		Total:      total,
		PageNumber: page.Number,
		PageSize:   page.Size,
	}
}
