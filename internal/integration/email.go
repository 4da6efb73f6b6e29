package integration

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/PROD-B2B-GGJ-Platform/job-posting-service/internal/job"
)

// EmailClient sends recruiter notifications through the business email
// service. All calls run under the "email" resilience policy and failures are
// always absorbed: a notification must never block or fail the operation that
// triggered it.
type EmailClient struct {
	baseURL string
	client  *http.Client
	policy  *Policy
}

// NewEmailClient constructs a client for the email service at baseURL.
func NewEmailClient(baseURL string, client *http.Client, policy *Policy) *EmailClient {
	return &EmailClient{baseURL: baseURL, client: client, policy: policy}
}

// SendJobPublishedNotification notifies the recruiter that their job went
// live. Always returns nil.
func (c *EmailClient) SendJobPublishedNotification(ctx context.Context, j *job.Job) error {
	c.send(ctx, j, "Job Published: "+j.Title, "job-published", map[string]any{
		"jobTitle": j.Title,
		"jobId":    j.ID,
	})
	return nil
}

// SendJobApprovedNotification notifies the recruiter that their job was
// approved. Always returns nil.
func (c *EmailClient) SendJobApprovedNotification(ctx context.Context, j *job.Job) error {
	data := map[string]any{
		"jobTitle": j.Title,
		"jobId":    j.ID,
	}
	if j.ApprovedAt != nil {
		data["approvedAt"] = j.ApprovedAt.UTC()
	}
	c.send(ctx, j, "Job Approved: "+j.Title, "job-approved", data)
	return nil
}

func (c *EmailClient) send(ctx context.Context, j *job.Job, subject, template string, data map[string]any) {
	url := c.baseURL + "/api/v1/email/send"
	payload := map[string]any{
		// Recipient resolution lives in the user service; the email service
		// expands this placeholder from the tenant's recruiter record.
		"to":       []string{"recruiter@platform.com"},
		"subject":  subject,
		"template": template,
		"data":     data,
	}

	err := c.policy.Do(ctx, func(ctx context.Context) error {
		return postJSON(ctx, c.client, url, payload)
	}, func(err error) {
		slog.Warn("email service unavailable, notification not sent",
			"jobId", j.ID, "template", template, "err", err)
	})
	if err == nil {
		slog.Info("sent job notification", "jobId", j.ID, "template", template)
	}
}
