package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/senyabanana/freelance-service/internal/models"
)

func openJob(id string) *models.Job {
	return &models.Job{
		ID:             id,
		Title:          "Landing page",
		Description:    "Build a landing page",
		Budget:         10000,
		Status:         models.OpenJob,
		ClientUsername: "client",
	}
}

func TestUpdateJobStatusTransitions(t *testing.T) {
	tests := []struct {
		name       string
		current    models.JobStatus
		next       models.JobStatus
		wantStatus int
	}{
		{"open to in_progress", models.OpenJob, models.InProgressJob, 0},
		{"open to cancelled", models.OpenJob, models.CancelledJob, 0},
		{"open to completed is blocked", models.OpenJob, models.CompletedJob, http.StatusBadRequest},
		{"in_progress to completed", models.InProgressJob, models.CompletedJob, 0},
		{"in_progress to cancelled", models.InProgressJob, models.CancelledJob, 0},
		{"in_progress to open is blocked", models.InProgressJob, models.OpenJob, http.StatusBadRequest},
		{"completed is terminal", models.CompletedJob, models.OpenJob, http.StatusBadRequest},
		{"completed to in_progress is blocked", models.CompletedJob, models.InProgressJob, http.StatusBadRequest},
		{"cancelled is terminal", models.CancelledJob, models.OpenJob, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := openJob("job-1")
			job.Status = tt.current
			repo := newFakeJobRepo(job)
			service := NewJobService(repo, nil)

			updated, err := service.UpdateJobStatus(context.Background(), "job-1", string(tt.next), "client")
			if tt.wantStatus != 0 {
				if got := statusCodeOf(t, err); got != tt.wantStatus {
					t.Errorf("expected status %d, got %d", tt.wantStatus, got)
				}
				if got := repo.jobs["job-1"].Status; got != tt.current {
					t.Errorf("expected job to stay %s, got %s", tt.current, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if updated.Status != tt.next {
				t.Errorf("expected %s, got %s", tt.next, updated.Status)
			}
		})
	}
}

func TestUpdateJobStatusAuthorization(t *testing.T) {
	tests := []struct {
		name       string
		jobId      string
		username   string
		wantStatus int
	}{
		{"not the client", "job-1", "stranger", http.StatusForbidden},
		{"unknown job", "missing", "client", http.StatusNotFound},
		{"missing username", "job-1", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeJobRepo(openJob("job-1"))
			service := NewJobService(repo, nil)

			_, err := service.UpdateJobStatus(context.Background(), tt.jobId, string(models.InProgressJob), tt.username)
			if got := statusCodeOf(t, err); got != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, got)
			}
			if len(repo.statusUpdates) != 0 {
				t.Errorf("expected no status updates, got %v", repo.statusUpdates)
			}
		})
	}
}

func TestFetchJobsStatusValidation(t *testing.T) {
	repo := newFakeJobRepo(openJob("job-1"))
	service := NewJobService(repo, nil)

	_, err := service.FetchJobs(context.Background(), 20, 0, []string{"archived"})
	if got := statusCodeOf(t, err); got != http.StatusBadRequest {
		t.Errorf("expected status 400 for unknown status, got %d", got)
	}

	jobs, err := service.FetchJobs(context.Background(), 20, 0, []string{string(models.OpenJob), string(models.CompletedJob)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 1 {
		t.Errorf("expected 1 job, got %d", len(jobs))
	}
}
