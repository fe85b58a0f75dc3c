package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/senyabanana/freelance-service/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SendErrorResponse отправляет ошибку в формате JSON
func SendErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	SendError(w, models.NewErrorResponse(statusCode, message))
}

// SendError отправляет готовую ошибку в формате JSON, сохраняя флаг retryable.
func SendError(w http.ResponseWriter, errorResponse *models.ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(errorResponse.StatusCode)

	if err := json.NewEncoder(w).Encode(errorResponse); err != nil {
		log.Println(err)
	}
}

// ParseLimitOffset обрабатывает limit и offset
func ParseLimitOffset(limitStr, offsetStr string) (int, int, error) {
	var limit, offset int
	var err error

	if limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit <= 0 || limit > 100 {
			return 0, 0, fmt.Errorf("invalid limit parameter, must be a positive integer [0:100]")
		}
	} else {
		limit = 20
	}

	if offsetStr != "" {
		offset, err = strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			return 0, 0, fmt.Errorf("invalid offset parameter, must be a non-negative integer")
		}
	} else {
		offset = 0
	}

	return limit, offset, nil
}

// RecomputeAverage пересчитывает скользящий средний рейтинг фрилансера.
// При нулевом счетчике результат равен новой оценке.
func RecomputeAverage(oldAvg float64, oldCount, newRating int) float64 {
	return (oldAvg*float64(oldCount) + float64(newRating)) / float64(oldCount+1)
}

// CheckAccountExists проверяет, существует ли пользователь с указанным username
func CheckAccountExists(ctx context.Context, dbPool *pgxpool.Pool, username string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM account WHERE username = $1)`
	err := dbPool.QueryRow(ctx, query, username).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// CheckAccountRole проверяет, что пользователь существует и имеет указанную роль
func CheckAccountRole(ctx context.Context, dbPool *pgxpool.Pool, username, role string) (bool, error) {
	var matches bool
	query := `SELECT EXISTS(SELECT 1 FROM account WHERE username = $1 AND role = $2)`
	err := dbPool.QueryRow(ctx, query, username, role).Scan(&matches)
	if err != nil {
		return false, err
	}
	return matches, nil
}

// CheckJobExists проверяет, существует ли заказ
func CheckJobExists(ctx context.Context, dbPool *pgxpool.Pool, jobId string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM job WHERE id = $1)`
	err := dbPool.QueryRow(ctx, query, jobId).Scan(&exists)
	return exists, err
}

// CheckJobOwnedBy проверяет, что заказ принадлежит указанному заказчику
func CheckJobOwnedBy(ctx context.Context, dbPool *pgxpool.Pool, jobId, username string) (bool, error) {
	var owned bool
	query := `SELECT EXISTS(SELECT 1 FROM job WHERE id = $1 AND client_username = $2)`
	err := dbPool.QueryRow(ctx, query, jobId, username).Scan(&owned)
	return owned, err
}

// CheckPendingProposalExists проверяет, есть ли у фрилансера неотвеченное предложение по заказу
func CheckPendingProposalExists(ctx context.Context, dbPool *pgxpool.Pool, jobId, freelancerUsername string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM proposal WHERE job_id = $1 AND freelancer_username = $2 AND status = $3)`
	err := dbPool.QueryRow(ctx, query, jobId, freelancerUsername, models.PendingProposal).Scan(&exists)
	return exists, err
}

// GetJobById получает заказ по ID.
func GetJobById(ctx context.Context, dbPool *pgxpool.Pool, jobId string) (*models.Job, error) {
	var job models.Job
	query := `SELECT id, title, description, budget, status, proposal_count, version, created_at, client_username
	          FROM job WHERE id = $1`
	err := dbPool.QueryRow(ctx, query, jobId).Scan(
		&job.ID,
		&job.Title,
		&job.Description,
		&job.Budget,
		&job.Status,
		&job.ProposalCount,
		&job.Version,
		&job.CreatedAt,
		&job.ClientUsername,
	)
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// GetFreelancerRating получает текущий рейтинг фрилансера и число оценок.
func GetFreelancerRating(ctx context.Context, dbPool *pgxpool.Pool, username string) (float64, int, error) {
	var avg float64
	var count int
	query := `SELECT rating, rating_count FROM account WHERE username = $1`
	err := dbPool.QueryRow(ctx, query, username).Scan(&avg, &count)
	if err != nil {
		return 0, 0, err
	}
	return avg, count, nil
}

// ContainsJobStatus - функция для проверки перехода у заказов
func ContainsJobStatus(validTransitions []models.JobStatus, newStatus models.JobStatus) bool {
	for _, validStatus := range validTransitions {
		if validStatus == newStatus {
			return true
		}
	}
	return false
}
