package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/senyabanana/freelance-service/internal/models"
	"github.com/senyabanana/freelance-service/internal/services"
	"github.com/senyabanana/freelance-service/internal/utils"
)

// JobHandler - структура для обработки HTTP-запросов к заказам.
type JobHandler struct {
	Service *services.JobService
	Logger  *log.Logger
	Timeout time.Duration
}

// NewJobHandler создает новый экземпляр JobHandler.
func NewJobHandler(service *services.JobService, logger *log.Logger, timeout time.Duration) *JobHandler {
	return &JobHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// GetJobs обрабатывает запросы для получения списка заказов.
func (h *JobHandler) GetJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	limitStr := r.URL.Query().Get("limit")
	offsetStr := r.URL.Query().Get("offset")
	statuses := r.URL.Query()["status"]

	limit, offset, err := utils.ParseLimitOffset(limitStr, offsetStr)
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	jobs, err := h.Service.FetchJobs(ctx, limit, offset, statuses)
	if err != nil {
		respondError(h.Logger, w, err, "failed to fetch jobs")
		return
	}
	respondJSON(h.Logger, w, jobs)
}

// CreateJob обрабатывает запросы для создания заказа.
func (h *JobHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only POST is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var jobReq models.JobRequest
	if err := json.NewDecoder(r.Body).Decode(&jobReq); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	job, err := h.Service.CreateJob(ctx, jobReq)
	if err != nil {
		respondError(h.Logger, w, err, "failed to create job")
		return
	}
	respondJSON(h.Logger, w, job)
}

// GetUserJobs обрабатывает запросы для получения списка заказов пользователя.
func (h *JobHandler) GetUserJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	limitStr := r.URL.Query().Get("limit")
	offsetStr := r.URL.Query().Get("offset")
	username := r.URL.Query().Get("username")

	jobs, err := h.Service.GetUserJobs(ctx, limitStr, offsetStr, username)
	if err != nil {
		respondError(h.Logger, w, err, "failed to fetch jobs")
		return
	}
	if len(jobs) == 0 {
		utils.SendErrorResponse(w, http.StatusNotFound, "no jobs found for this user")
		return
	}
	respondJSON(h.Logger, w, jobs)
}

// GetJobStatus обрабатывает запросы для получения статуса заказа.
func (h *JobHandler) GetJobStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	jobId := r.PathValue("jobId")

	status, err := h.Service.GetJobStatus(ctx, jobId)
	if err != nil {
		respondError(h.Logger, w, err, "failed to fetch job status")
		return
	}
	respondJSON(h.Logger, w, status)
}

// UpdateJobStatus обрабатывает запросы для изменения статуса заказа.
func (h *JobHandler) UpdateJobStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only PUT is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	jobId := r.PathValue("jobId")
	status := r.URL.Query().Get("status")
	username := r.URL.Query().Get("username")

	job, err := h.Service.UpdateJobStatus(ctx, jobId, status, username)
	if err != nil {
		respondError(h.Logger, w, err, "failed to update job status")
		return
	}
	respondJSON(h.Logger, w, job)
}

// EditJob обрабатывает запросы для изменения заказа.
func (h *JobHandler) EditJob(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only PATCH is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	jobId := r.PathValue("jobId")
	username := r.URL.Query().Get("username")

	var updateFields map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&updateFields); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updatedJob, err := h.Service.EditJob(ctx, jobId, username, updateFields)
	if err != nil {
		respondError(h.Logger, w, err, "failed to update job")
		return
	}
	respondJSON(h.Logger, w, updatedJob)
}

// RollbackJob обрабатывает запросы для отката версии заказа.
func (h *JobHandler) RollbackJob(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only PUT is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	jobId := r.PathValue("jobId")
	versionStr := r.PathValue("version")
	username := r.URL.Query().Get("username")

	updatedJob, err := h.Service.RollbackJob(ctx, jobId, username, versionStr)
	if err != nil {
		respondError(h.Logger, w, err, "failed to rollback job")
		return
	}
	respondJSON(h.Logger, w, updatedJob)
}
