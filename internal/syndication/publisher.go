// Package syndication submits freshly published jobs to external job boards
// (LinkedIn, Indeed, Glassdoor, ...). Submission is strictly best-effort: a
// board that is misconfigured, slow or down is logged and skipped, and the
// publish operation that triggered it never observes a failure.
package syndication

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/PROD-B2B-GGJ-Platform/job-posting-service/internal/job"
)

// Board is one external job-board endpoint accepting posting submissions.
type Board struct {
	Name string
	URL  string
}

// Publisher fans a published job out to every configured board. With no
// boards configured PublishJob is a silent no-op, so syndication stays
// optional per deployment.
type Publisher struct {
	boards []Board
	client *http.Client
}

// NewPublisher builds a Publisher for the given boards.
func NewPublisher(boards []Board, client *http.Client) *Publisher {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Publisher{boards: boards, client: client}
}

// PublishJob submits j to every configured board and logs the external ids
// the boards assign. Failures are logged per board and swallowed.
func (p *Publisher) PublishJob(ctx context.Context, j *job.Job) {
	if len(p.boards) == 0 {
		return
	}
	for _, b := range p.boards {
		externalID, err := p.submit(ctx, b, j)
		if err != nil {
			slog.Warn("job board submission failed",
				"board", b.Name, "jobId", j.ID, "err", err)
			continue
		}
		slog.Info("job syndicated to board",
			"board", b.Name, "jobId", j.ID, "externalId", externalID)
	}
}

type submitResponse struct {
	ExternalID string `json:"externalId"`
}

func (p *Publisher) submit(ctx context.Context, b Board, j *job.Job) (string, error) {
	payload := map[string]any{
		"title":          j.Title,
		"description":    j.Description,
		"location":       locationOrRemote(j),
		"employmentType": employmentType(j.EmploymentType),
		"salary":         formatSalary(j),
		"company":        j.TenantID,
	}

	var resp submitResponse
	if err := post(ctx, p.client, b.URL, payload, &resp); err != nil {
		return "", err
	}
	if resp.ExternalID == "" {
		return "", fmt.Errorf("board %s returned no external id", b.Name)
	}
	return resp.ExternalID, nil
}

func post(ctx context.Context, client *http.Client, url string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal submission: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("board returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func locationOrRemote(j *job.Job) string {
	if j.Location == "" {
		return "Remote"
	}
	return j.Location
}

// employmentType normalizes the job's employment type to the vocabulary the
// boards share; anything unrecognized maps to OTHER.
func employmentType(t string) string {
	switch t {
	case "FULL_TIME", "PART_TIME", "CONTRACT", "INTERNSHIP":
		return t
	default:
		return "OTHER"
	}
}

// formatSalary renders the salary range for board listings, falling back to
// "Competitive" when the range is incomplete.
func formatSalary(j *job.Job) string {
	if j.SalaryMin == nil || j.SalaryMax == nil {
		return "Competitive"
	}
	return fmt.Sprintf("%s %.0f - %s %.0f",
		j.SalaryCurrency, *j.SalaryMin, j.SalaryCurrency, *j.SalaryMax)
}
