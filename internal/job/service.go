package job

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PROD-B2B-GGJ-Platform/job-posting-service/internal/event"
)

// AttributeStore mirrors the kernel's extended-attribute contract. A returned
// error is informational: the lifecycle engine never fails an operation
// because attribute storage is down.
type AttributeStore interface {
	StoreExtendedAttributes(ctx context.Context, objectID, objectType string, attrs map[string]any) error
}

// EmailSender mirrors the email notification contract. Implementations absorb
// their own failures.
type EmailSender interface {
	SendJobPublishedNotification(ctx context.Context, j *Job) error
	SendJobApprovedNotification(ctx context.Context, j *Job) error
}

// BoardPublisher syndicates a published job to external boards, best-effort.
type BoardPublisher interface {
	PublishJob(ctx context.Context, j *Job)
}

// Service is the job lifecycle engine. It loads and mutates jobs through the
// Store, enforces the status state machine, emits lifecycle events and calls
// the downstream integrations. It is transport-agnostic.
type Service struct {
	store    Store
	notifier event.Notifier
	attrs    AttributeStore
	email    EmailSender
	boards   BoardPublisher
	now      func() time.Time
}

// NewService returns a configured Service. attrs, email and boards may be nil
// when the corresponding integration is not deployed.
func NewService(store Store, notifier event.Notifier, attrs AttributeStore, email EmailSender, boards BoardPublisher) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
		attrs:    attrs,
		email:    email,
		boards:   boards,
		now:      time.Now,
	}
}

const maxTitleLen = 255

// Create inserts a new job in DRAFT with zeroed counters. When custom fields
// are present they are additionally pushed to the kernel attribute store;
// kernel failure is logged and never fails the creation.
func (s *Service) Create(ctx context.Context, tenantID, userID string, req CreateRequest) (*Job, error) {
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	j := &Job{
		TenantID:          tenantID,
		Title:             req.Title,
		Description:       req.Description,
		Location:          req.Location,
		EmploymentType:    req.EmploymentType,
		ExperienceLevel:   req.ExperienceLevel,
		SalaryMin:         req.SalaryMin,
		SalaryMax:         req.SalaryMax,
		SalaryCurrency:    req.SalaryCurrency,
		Status:            StatusDraft,
		DepartmentID:      req.DepartmentID,
		RecruiterID:       req.RecruiterID,
		HiringManagerID:   req.HiringManagerID,
		NumberOfPositions: req.NumberOfPositions,
		ExpiresAt:         req.ExpiresAt,
		CustomFields:      req.CustomFields,
		Requirements:      req.Requirements,
		Benefits:          req.Benefits,
		IsRemote:          req.IsRemote,
		IsFeatured:        req.IsFeatured,
		ApplicationCount:  0,
		ViewCount:         0,
		CreatedBy:         userID,
		UpdatedBy:         userID,
	}

	if err := s.store.Insert(ctx, j); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	if s.attrs != nil && len(req.CustomFields) > 0 {
		if err := s.attrs.StoreExtendedAttributes(ctx, j.ID, "Job", req.CustomFields); err != nil {
			slog.Warn("extended attributes not stored in kernel, kept locally",
				"jobId", j.ID, "err", err)
		}
	}

	slog.Info("job created", "jobId", j.ID, "tenantId", tenantID)
	return j, nil
}

// Update applies a partial patch. Only jobs in DRAFT or PENDING_APPROVAL are
// editable; everything else returns InvalidStateError. Omitted fields stay
// unchanged; a present attributes map replaces the stored one wholesale.
func (s *Service) Update(ctx context.Context, tenantID, jobID, userID string, req UpdateRequest) (*Job, error) {
	j, err := s.store.FindByID(ctx, tenantID, jobID)
	if err != nil {
		return nil, err
	}
	if !CanBeEdited(j.Status) {
		return nil, &InvalidStateError{Op: "edited", Status: j.Status}
	}
	if err := validateUpdate(req); err != nil {
		return nil, err
	}

	applyPatch(j, req)
	j.UpdatedBy = userID

	if err := s.store.Update(ctx, j); err != nil {
		return nil, fmt.Errorf("update job %s: %w", jobID, err)
	}

	slog.Info("job updated", "jobId", jobID, "tenantId", tenantID)
	return j, nil
}

// Approve moves a DRAFT or PENDING_APPROVAL job to APPROVED, recording the
// approver and the approval instant, then emits job.approved and notifies the
// recruiter.
func (s *Service) Approve(ctx context.Context, tenantID, jobID, approverID string) (*Job, error) {
	j, err := s.store.FindByID(ctx, tenantID, jobID)
	if err != nil {
		return nil, err
	}
	if !CanBeApproved(j.Status) {
		return nil, &InvalidStateError{Op: "approved", Status: j.Status}
	}

	now := s.now()
	j.Status = StatusApproved
	j.ApprovedAt = &now
	j.ApprovedBy = approverID
	j.UpdatedBy = approverID

	if err := s.store.Update(ctx, j); err != nil {
		return nil, fmt.Errorf("approve job %s: %w", jobID, err)
	}

	s.emit(ctx, event.TypeJobApproved, j)
	if s.email != nil {
		_ = s.email.SendJobApprovedNotification(ctx, j)
	}

	slog.Info("job approved", "jobId", jobID, "tenantId", tenantID, "approverId", approverID)
	return j, nil
}

// Publish moves an APPROVED (or, as an explicit product decision, DRAFT) job
// to PUBLISHED and stamps publishedAt, then emits job.published, notifies the
// recruiter and syndicates to configured job boards.
func (s *Service) Publish(ctx context.Context, tenantID, jobID, userID string) (*Job, error) {
	j, err := s.store.FindByID(ctx, tenantID, jobID)
	if err != nil {
		return nil, err
	}
	if !CanBePublished(j.Status, j.PublishedAt) {
		return nil, &InvalidStateError{Op: "published", Status: j.Status}
	}

	now := s.now()
	j.Status = StatusPublished
	j.PublishedAt = &now
	j.UpdatedBy = userID

	if err := s.store.Update(ctx, j); err != nil {
		return nil, fmt.Errorf("publish job %s: %w", jobID, err)
	}

	s.emit(ctx, event.TypeJobPublished, j)
	if s.email != nil {
		_ = s.email.SendJobPublishedNotification(ctx, j)
	}
	if s.boards != nil {
		s.boards.PublishJob(ctx, j)
	}

	slog.Info("job published", "jobId", jobID, "tenantId", tenantID)
	return j, nil
}

// Close moves a job to CLOSED. Allowed from every status.
func (s *Service) Close(ctx context.Context, tenantID, jobID, userID string) (*Job, error) {
	j, err := s.store.FindByID(ctx, tenantID, jobID)
	if err != nil {
		return nil, err
	}

	j.Status = StatusClosed
	j.UpdatedBy = userID

	if err := s.store.Update(ctx, j); err != nil {
		return nil, fmt.Errorf("close job %s: %w", jobID, err)
	}

	s.emit(ctx, event.TypeJobClosed, j)

	slog.Info("job closed", "jobId", jobID, "tenantId", tenantID)
	return j, nil
}

// Delete removes a job. PUBLISHED jobs must be closed first.
func (s *Service) Delete(ctx context.Context, tenantID, jobID string) error {
	j, err := s.store.FindByID(ctx, tenantID, jobID)
	if err != nil {
		return err
	}
	if !CanBeDeleted(j.Status) {
		return &InvalidStateError{Op: "deleted", Status: j.Status}
	}

	if err := s.store.Delete(ctx, tenantID, jobID); err != nil {
		return fmt.Errorf("delete job %s: %w", jobID, err)
	}

	slog.Info("job deleted", "jobId", jobID, "tenantId", tenantID)
	return nil
}

// Get loads a job and bumps its view counter as a side effect. The increment
// runs store-side so concurrent reads never lose the monotonic guarantee, and
// runs before the read so the returned projection carries the post-increment
// count and version token.
func (s *Service) Get(ctx context.Context, tenantID, jobID string) (*Job, error) {
	if _, err := s.store.IncrementViewCount(ctx, tenantID, jobID); err != nil {
		return nil, err
	}
	return s.store.FindByID(ctx, tenantID, jobID)
}

// RecordApplication bumps the application counter for a job and returns the
// job as persisted after the bump.
func (s *Service) RecordApplication(ctx context.Context, tenantID, jobID string) (*Job, error) {
	if _, err := s.store.IncrementApplicationCount(ctx, tenantID, jobID); err != nil {
		return nil, err
	}
	return s.store.FindByID(ctx, tenantID, jobID)
}

// List pages through a tenant's jobs, optionally filtered by status.
func (s *Service) List(ctx context.Context, tenantID string, status Status, page Page) (*PagedResult, error) {
	return s.store.ListByTenant(ctx, tenantID, status, page.Normalize())
}

// Search resolves the criteria bundle to exactly one store query by priority:
// active-only first, else keyword, else recruiter, else department, else the
// unfiltered tenant listing. Criteria are never conjunctively combined beyond
// what the selected query encodes.
func (s *Service) Search(ctx context.Context, criteria SearchCriteria, page Page) (*PagedResult, error) {
	page = page.Normalize()
	switch {
	case criteria.ActiveOnly:
		return s.store.FindActive(ctx, criteria.TenantID, s.now(), page)
	case strings.TrimSpace(criteria.Keyword) != "":
		return s.store.SearchKeyword(ctx, criteria.TenantID, criteria.Keyword, page)
	case criteria.RecruiterID != "":
		return s.store.FindByRecruiter(ctx, criteria.TenantID, criteria.RecruiterID, page)
	case criteria.DepartmentID != "":
		return s.store.FindByDepartment(ctx, criteria.TenantID, criteria.DepartmentID, page)
	default:
		return s.store.ListByTenant(ctx, criteria.TenantID, "", page)
	}
}

// CountByStatus counts a tenant's jobs in one status.
func (s *Service) CountByStatus(ctx context.Context, tenantID string, status Status) (int64, error) {
	return s.store.CountByStatus(ctx, tenantID, status)
}

// CountExpired counts a tenant's PUBLISHED jobs past their expiry.
func (s *Service) CountExpired(ctx context.Context, tenantID string) (int64, error) {
	return s.store.CountExpired(ctx, tenantID, s.now())
}

// emit publishes a lifecycle event. The notifier absorbs its own failures.
func (s *Service) emit(ctx context.Context, eventType string, j *Job) {
	if s.notifier == nil {
		return
	}
	s.notifier.Publish(ctx, event.Event{
		Type:      eventType,
		JobID:     j.ID,
		TenantID:  j.TenantID,
		Status:    string(j.Status),
		Timestamp: s.now(),
	})
}

func validateCreate(req CreateRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return &ValidationError{Msg: "title is required"}
	}
	if len(req.Title) > maxTitleLen {
		return &ValidationError{Msg: fmt.Sprintf("title must be at most %d characters", maxTitleLen)}
	}
	if req.RecruiterID == "" {
		return &ValidationError{Msg: "recruiterId is required"}
	}
	if req.NumberOfPositions < 0 {
		return &ValidationError{Msg: "numberOfPositions must not be negative"}
	}
	if err := validateSalary(req.SalaryMin, req.SalaryMax, req.SalaryCurrency); err != nil {
		return err
	}
	return nil
}

func validateUpdate(req UpdateRequest) error {
	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return &ValidationError{Msg: "title must not be empty"}
		}
		if len(*req.Title) > maxTitleLen {
			return &ValidationError{Msg: fmt.Sprintf("title must be at most %d characters", maxTitleLen)}
		}
	}
	if req.NumberOfPositions != nil && *req.NumberOfPositions < 0 {
		return &ValidationError{Msg: "numberOfPositions must not be negative"}
	}
	var currency string
	if req.SalaryCurrency != nil {
		currency = *req.SalaryCurrency
	}
	return validateSalary(req.SalaryMin, req.SalaryMax, currency)
}

func validateSalary(min, max *float64, currency string) error {
	if min != nil && max != nil && *min > *max {
		return &ValidationError{Msg: "salaryMin must not exceed salaryMax"}
	}
	if currency != "" && len(currency) != 3 {
		return &ValidationError{Msg: "salaryCurrency must be a 3-letter code"}
	}
	return nil
}

// applyPatch copies every set field from req onto j. Attribute maps replace
// the stored map, they are not merged.
func applyPatch(j *Job, req UpdateRequest) {
	if req.Title != nil {
		j.Title = *req.Title
	}
	if req.Description != nil {
		j.Description = *req.Description
	}
	if req.Location != nil {
		j.Location = *req.Location
	}
	if req.EmploymentType != nil {
		j.EmploymentType = *req.EmploymentType
	}
	if req.ExperienceLevel != nil {
		j.ExperienceLevel = *req.ExperienceLevel
	}
	if req.SalaryMin != nil {
		j.SalaryMin = req.SalaryMin
	}
	if req.SalaryMax != nil {
		j.SalaryMax = req.SalaryMax
	}
	if req.SalaryCurrency != nil {
		j.SalaryCurrency = *req.SalaryCurrency
	}
	if req.DepartmentID != nil {
		j.DepartmentID = *req.DepartmentID
	}
	if req.HiringManagerID != nil {
		j.HiringManagerID = *req.HiringManagerID
	}
	if req.NumberOfPositions != nil {
		j.NumberOfPositions = *req.NumberOfPositions
	}
	if req.ExpiresAt != nil {
		j.ExpiresAt = req.ExpiresAt
	}
	if req.CustomFields != nil {
		j.CustomFields = *req.CustomFields
	}
	if req.Requirements != nil {
		j.Requirements = *req.Requirements
	}
	if req.Benefits != nil {
		j.Benefits = *req.Benefits
	}
	if req.IsRemote != nil {
		j.IsRemote = *req.IsRemote
	}
	if req.IsFeatured != nil {
		j.IsFeatured = *req.IsFeatured
	}
}
