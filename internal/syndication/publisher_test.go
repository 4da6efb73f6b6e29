package syndication_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/PROD-B2B-GGJ-Platform/job-posting-service/internal/job"
	"github.com/PROD-B2B-GGJ-Platform/job-posting-service/internal/syndication"
)

func sampleJob() *job.Job {
	minSalary, maxSalary := 50000.0, 90000.0
	return &job.Job{
		ID:             "job-1",
		TenantID:       "tenant-1",
		Title:          "Senior Engineer",
		Description:    "Build the platform",
		EmploymentType: "FULL_TIME",
		SalaryMin:      &minSalary,
		SalaryMax:      &maxSalary,
		SalaryCurrency: "EUR",
		Status:         job.StatusPublished,
	}
}

func TestPublishJob_SubmitsToEveryBoard(t *testing.T) {
	var bodies []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		bodies = append(bodies, body)
		json.NewEncoder(w).Encode(map[string]string{"externalId": "EXT-1"})
	}))
	defer srv.Close()

	p := syndication.NewPublisher([]syndication.Board{
		{Name: "linkedin", URL: srv.URL},
		{Name: "indeed", URL: srv.URL},
	}, srv.Client())

	p.PublishJob(context.Background(), sampleJob())

	if len(bodies) != 2 {
		t.Fatalf("submissions = %d, want 2", len(bodies))
	}
	body := bodies[0]
	if body["title"] != "Senior Engineer" {
		t.Errorf("title = %v", body["title"])
	}
	if body["employmentType"] != "FULL_TIME" {
		t.Errorf("employmentType = %v", body["employmentType"])
	}
	if body["salary"] != "EUR 50000 - EUR 90000" {
		t.Errorf("salary = %v", body["salary"])
	}
}

func TestPublishJob_NoBoardsIsNoOp(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	p := syndication.NewPublisher(nil, srv.Client())
	p.PublishJob(context.Background(), sampleJob())

	if hits != 0 {
		t.Errorf("hits = %d, want 0", hits)
	}
}

func TestPublishJob_BoardFailureIsSwallowed(t *testing.T) {
	var hits []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits = append(hits, r.URL.Path)
		if r.URL.Path == "/broken" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"externalId": "EXT-2"})
	}))
	defer srv.Close()

	p := syndication.NewPublisher([]syndication.Board{
		{Name: "broken", URL: srv.URL + "/broken"},
		{Name: "working", URL: srv.URL + "/working"},
	}, srv.Client())

	// Must not panic or abort; the working board still gets the job.
	p.PublishJob(context.Background(), sampleJob())

	if len(hits) != 2 {
		t.Errorf("hits = %v, want both boards attempted", hits)
	}
}

func TestPublishJob_RemoteFallbackAndCompetitiveSalary(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		json.NewEncoder(w).Encode(map[string]string{"externalId": "EXT-3"})
	}))
	defer srv.Close()

	j := sampleJob()
	j.Location = ""
	j.SalaryMin = nil
	j.EmploymentType = "GIG"

	p := syndication.NewPublisher([]syndication.Board{{Name: "b", URL: srv.URL}}, srv.Client())
	p.PublishJob(context.Background(), j)

	if body["location"] != "Remote" {
		t.Errorf("location = %v, want Remote", body["location"])
	}
	if body["salary"] != "Competitive" {
		t.Errorf("salary = %v, want Competitive", body["salary"])
	}
	if body["employmentType"] != "OTHER" {
		t.Errorf("employmentType = %v, want OTHER", body["employmentType"])
	}
}
