package job

import "time"

// Attributes is a free-form mapping from string key to any JSON-compatible
// value. Persisted as an opaque JSONB blob; a present map in a patch replaces
// the stored map wholesale, it is never deep-merged.
type Attributes map[string]any

// Job is a single job posting owned by exactly one tenant. Every read and
// write is scoped by TenantID; cross-tenant access is impossible by
// construction.
type Job struct {
	ID       string `json:"id"`
	TenantID string `json:"tenantId"`

	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Location        string   `json:"location"`
	EmploymentType  string   `json:"employmentType"`  // FULL_TIME, PART_TIME, CONTRACT, INTERNSHIP
	ExperienceLevel string   `json:"experienceLevel"` // ENTRY, MID, SENIOR, LEAD, EXECUTIVE
	SalaryMin       *float64 `json:"salaryMin"`
	SalaryMax       *float64 `json:"salaryMax"`
	SalaryCurrency  string   `json:"salaryCurrency"`

	Status Status `json:"status"`

	DepartmentID      string `json:"departmentId"`
	RecruiterID       string `json:"recruiterId"`
	HiringManagerID   string `json:"hiringManagerId"`
	NumberOfPositions int    `json:"numberOfPositions"`

	PublishedAt *time.Time `json:"publishedAt"`
	ExpiresAt   *time.Time `json:"expiresAt"`
	ApprovedAt  *time.Time `json:"approvedAt"`
	ApprovedBy  string     `json:"approvedBy"`

	CustomFields Attributes `json:"customFields"`
	Requirements Attributes `json:"requirements"`
	Benefits     Attributes `json:"benefits"`

	ApplicationCount int  `json:"applicationCount"`
	ViewCount        int  `json:"viewCount"`
	IsRemote         bool `json:"isRemote"`
	IsFeatured       bool `json:"isFeatured"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	CreatedBy string    `json:"createdBy"`
	UpdatedBy string    `json:"updatedBy"`

	// Version is the optimistic-concurrency token, bumped on every persisted
	// mutation. Saving with a stale version fails with ErrVersionConflict.
	Version int64 `json:"version"`
}

// IsActive reports whether the job is live: PUBLISHED and not yet expired at
// instant now. Jobs without an expiry are never considered active.
func (j *Job) IsActive(now time.Time) bool {
	return j.Status == StatusPublished && j.ExpiresAt != nil && j.ExpiresAt.After(now)
}

// CreateRequest carries the fields accepted by the create operation.
type CreateRequest struct {
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	Location          string     `json:"location"`
	EmploymentType    string     `json:"employmentType"`
	ExperienceLevel   string     `json:"experienceLevel"`
	SalaryMin         *float64   `json:"salaryMin"`
	SalaryMax         *float64   `json:"salaryMax"`
	SalaryCurrency    string     `json:"salaryCurrency"`
	DepartmentID      string     `json:"departmentId"`
	RecruiterID       string     `json:"recruiterId"`
	HiringManagerID   string     `json:"hiringManagerId"`
	NumberOfPositions int        `json:"numberOfPositions"`
	ExpiresAt         *time.Time `json:"expiresAt"`
	CustomFields      Attributes `json:"customFields"`
	Requirements      Attributes `json:"requirements"`
	Benefits          Attributes `json:"benefits"`
	IsRemote          bool       `json:"isRemote"`
	IsFeatured        bool       `json:"isFeatured"`
}

// UpdateRequest is a partial patch: only non-nil fields overwrite the stored
// job. A non-nil Attributes map replaces the stored map entirely.
type UpdateRequest struct {
	Title             *string     `json:"title"`
	Description       *string     `json:"description"`
	Location          *string     `json:"location"`
	EmploymentType    *string     `json:"employmentType"`
	ExperienceLevel   *string     `json:"experienceLevel"`
	SalaryMin         *float64    `json:"salaryMin"`
	SalaryMax         *float64    `json:"salaryMax"`
	SalaryCurrency    *string     `json:"salaryCurrency"`
	DepartmentID      *string     `json:"departmentId"`
	HiringManagerID   *string     `json:"hiringManagerId"`
	NumberOfPositions *int        `json:"numberOfPositions"`
	ExpiresAt         *time.Time  `json:"expiresAt"`
	CustomFields      *Attributes `json:"customFields"`
	Requirements      *Attributes `json:"requirements"`
	Benefits          *Attributes `json:"benefits"`
	IsRemote          *bool       `json:"isRemote"`
	IsFeatured        *bool       `json:"isFeatured"`
}

// SearchCriteria is the criteria bundle for the search operation. Exactly one
// underlying store query is selected by priority:
// ActiveOnly > Keyword > RecruiterID > DepartmentID > plain tenant listing.
// Criteria are not conjunctively combined beyond what each query encodes.
type SearchCriteria struct {
	TenantID        string `json:"tenantId"`
	Keyword         string `json:"keyword"`
	Status          Status `json:"status"`
	Location        string `json:"location"`
	EmploymentType  string `json:"employmentType"`
	ExperienceLevel string `json:"experienceLevel"`
	DepartmentID    string `json:"departmentId"`
	RecruiterID     string `json:"recruiterId"`
	IsRemote        *bool  `json:"isRemote"`
	ActiveOnly      bool   `json:"activeOnly"`
}
