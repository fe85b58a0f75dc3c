package services

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/senyabanana/freelance-service/internal/models"
	"github.com/senyabanana/freelance-service/internal/repository"
	"github.com/senyabanana/freelance-service/internal/utils"

	"github.com/jackc/pgx/v5/pgxpool"
)

type JobService struct {
	Repo   repository.JobRepository
	dbPool *pgxpool.Pool
}

// NewJobService создаёт новый экземпляр JobService.
func NewJobService(repo repository.JobRepository, dbPool *pgxpool.Pool) *JobService {
	return &JobService{Repo: repo, dbPool: dbPool}
}

// FetchJobs получает список заказов с фильтром по статусу.
func (s *JobService) FetchJobs(ctx context.Context, limit, offset int, statuses []string) ([]models.Job, error) {
	allowedStatuses := map[models.JobStatus]bool{
		models.OpenJob:       true,
		models.InProgressJob: true,
		models.CompletedJob:  true,
		models.CancelledJob:  true,
	}
	for _, status := range statuses {
		if !allowedStatuses[models.JobStatus(status)] {
			return nil, models.NewErrorResponse(http.StatusBadRequest, fmt.Sprintf("unsupported job status: %s", status))
		}
	}
	return s.Repo.GetJobs(ctx, limit, offset, statuses)
}

// CreateJob создает новый заказ.
func (s *JobService) CreateJob(ctx context.Context, jobReq models.JobRequest) (*models.Job, error) {
	if jobReq.Title == "" || jobReq.Description == "" || jobReq.ClientUsername == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing required fields")
	}
	if jobReq.Budget <= 0 {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "budget must be a positive amount")
	}

	isClient, err := utils.CheckAccountRole(ctx, s.dbPool, jobReq.ClientUsername, "client")
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if !isClient {
		return nil, models.NewErrorResponse(http.StatusForbidden, "only clients can post jobs")
	}

	return s.Repo.CreateJob(ctx, jobReq)
}

// GetUserJobs получает список заказов пользователя.
func (s *JobService) GetUserJobs(ctx context.Context, limitStr, offsetStr, username string) ([]models.Job, error) {
	if username == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "username is required")
	}

	exists, err := utils.CheckAccountExists(ctx, s.dbPool, username)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if !exists {
		return nil, models.NewErrorResponse(http.StatusUnauthorized, "user does not exist")
	}

	limit, offset, err := utils.ParseLimitOffset(limitStr, offsetStr)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusBadRequest, err.Error())
	}
	return s.Repo.GetUserJobs(ctx, limit, offset, username)
}

// GetJobStatus получает статус заказа.
func (s *JobService) GetJobStatus(ctx context.Context, jobId string) (models.JobStatus, error) {
	jobExists, err := utils.CheckJobExists(ctx, s.dbPool, jobId)
	if err != nil {
		return "", models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if !jobExists {
		return "", models.NewErrorResponse(http.StatusNotFound, "job not found")
	}
	return s.Repo.GetJobStatus(ctx, jobId)
}

// UpdateJobStatus меняет статус заказа.
func (s *JobService) UpdateJobStatus(ctx context.Context, jobId, status, username string) (*models.Job, error) {
	if status == "" || username == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing required query parameters: status or username")
	}

	currentJob, err := s.Repo.GetJobByID(ctx, jobId)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusNotFound, "job not found")
	}
	if currentJob.ClientUsername != username {
		return nil, models.NewErrorResponse(http.StatusForbidden, "you are not authorized to edit this job")
	}

	allowedStatusTransition := map[models.JobStatus][]models.JobStatus{
		models.OpenJob:       {models.InProgressJob, models.CancelledJob},
		models.InProgressJob: {models.CompletedJob, models.CancelledJob},
		models.CompletedJob:  {},
		models.CancelledJob:  {},
	}

	validTransition := allowedStatusTransition[currentJob.Status]
	if !utils.ContainsJobStatus(validTransition, models.JobStatus(status)) {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "invalid job status transition")
	}
	return s.Repo.UpdateJobStatus(ctx, jobId, status)
}

// EditJob меняет описание заказа.
func (s *JobService) EditJob(ctx context.Context, jobId, username string, updateFields map[string]interface{}) (*models.Job, error) {
	if username == "" || jobId == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing required query parameter: jobId or username")
	}

	jobExists, err := utils.CheckJobExists(ctx, s.dbPool, jobId)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if !jobExists {
		return nil, models.NewErrorResponse(http.StatusNotFound, "job not found")
	}

	owned, err := utils.CheckJobOwnedBy(ctx, s.dbPool, jobId, username)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if !owned {
		return nil, models.NewErrorResponse(http.StatusForbidden, "you are not authorized to edit this job")
	}
	return s.Repo.EditJob(ctx, jobId, updateFields)
}

// RollbackJob откатывает версию заказа.
func (s *JobService) RollbackJob(ctx context.Context, jobId, username, versionStr string) (*models.Job, error) {
	if username == "" || jobId == "" || versionStr == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing required query parameter: jobId or username or version")
	}

	version, err := strconv.Atoi(versionStr)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "invalid version number")
	}

	owned, err := utils.CheckJobOwnedBy(ctx, s.dbPool, jobId, username)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if !owned {
		return nil, models.NewErrorResponse(http.StatusForbidden, "you are not authorized to edit this job")
	}
	return s.Repo.RollbackJob(ctx, jobId, version)
}
