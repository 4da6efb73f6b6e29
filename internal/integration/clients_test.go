package integration_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PROD-B2B-GGJ-Platform/job-posting-service/internal/integration"
	"github.com/PROD-B2B-GGJ-Platform/job-posting-service/internal/job"
)

// ── Kernel client ──────────────────────────────────────────────────────────

func TestKernelClient_StoreExtendedAttributes(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := integration.NewKernelClient(srv.URL, srv.Client(),
		integration.NewPolicy("kernel", fastConfig()))

	err := c.StoreExtendedAttributes(context.Background(), "job-1", "Job",
		map[string]any{"visa": "sponsored"})
	if err != nil {
		t.Fatalf("StoreExtendedAttributes: %v", err)
	}

	if gotPath != "/api/v1/objects/job-1/attributes" {
		t.Errorf("path = %q", gotPath)
	}
	if gotBody["objectType"] != "Job" {
		t.Errorf("objectType = %v, want Job", gotBody["objectType"])
	}
	attrs, _ := gotBody["attributes"].(map[string]any)
	if attrs["visa"] != "sponsored" {
		t.Errorf("attributes = %v", gotBody["attributes"])
	}
}

func TestKernelClient_StoreRetriesThenReportsFailure(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := integration.NewKernelClient(srv.URL, srv.Client(),
		integration.NewPolicy("kernel", fastConfig()))

	err := c.StoreExtendedAttributes(context.Background(), "job-1", "Job",
		map[string]any{"k": "v"})
	if err == nil {
		t.Fatal("expected delivery failure to be reported")
	}
	if hits.Load() != 3 {
		t.Errorf("hits = %d, want 3 (bounded retry)", hits.Load())
	}
}

func TestKernelClient_GetFallsBackToEmptyMap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := integration.NewKernelClient(srv.URL, srv.Client(),
		integration.NewPolicy("kernel", fastConfig()))

	attrs := c.GetExtendedAttributes(context.Background(), "job-1")
	if attrs == nil || len(attrs) != 0 {
		t.Errorf("attrs = %v, want empty map", attrs)
	}
}

func TestKernelClient_GetReadsAttributes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"visa": "sponsored"})
	}))
	defer srv.Close()

	c := integration.NewKernelClient(srv.URL, srv.Client(),
		integration.NewPolicy("kernel", fastConfig()))

	attrs := c.GetExtendedAttributes(context.Background(), "job-1")
	if attrs["visa"] != "sponsored" {
		t.Errorf("attrs = %v", attrs)
	}
}

// ── Email client ───────────────────────────────────────────────────────────

func publishedJob() *job.Job {
	now := time.Now()
	return &job.Job{
		ID:          "job-1",
		TenantID:    "tenant-1",
		Title:       "Senior Engineer",
		Status:      job.StatusPublished,
		PublishedAt: &now,
	}
}

func TestEmailClient_SendJobPublishedNotification(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := integration.NewEmailClient(srv.URL, srv.Client(),
		integration.NewPolicy("email", fastConfig()))

	if err := c.SendJobPublishedNotification(context.Background(), publishedJob()); err != nil {
		t.Fatalf("SendJobPublishedNotification: %v", err)
	}

	if gotPath != "/api/v1/email/send" {
		t.Errorf("path = %q", gotPath)
	}
	if gotBody["template"] != "job-published" {
		t.Errorf("template = %v", gotBody["template"])
	}
	if gotBody["subject"] != "Job Published: Senior Engineer" {
		t.Errorf("subject = %v", gotBody["subject"])
	}
}

func TestEmailClient_FailuresAreAlwaysAbsorbed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := integration.NewEmailClient(srv.URL, srv.Client(),
		integration.NewPolicy("email", fastConfig()))

	j := publishedJob()
	if err := c.SendJobPublishedNotification(context.Background(), j); err != nil {
		t.Errorf("published notification err = %v, want nil", err)
	}
	if err := c.SendJobApprovedNotification(context.Background(), j); err != nil {
		t.Errorf("approved notification err = %v, want nil", err)
	}
}
