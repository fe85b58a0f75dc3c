package repository

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/senyabanana/freelance-service/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// JobRepository - интерфейс для работы с заказами.
type JobRepository interface {
	GetJobs(ctx context.Context, limit, offset int, statuses []string) ([]models.Job, error)
	CreateJob(ctx context.Context, jobReq models.JobRequest) (*models.Job, error)
	GetUserJobs(ctx context.Context, limit, offset int, username string) ([]models.Job, error)
	GetJobByID(ctx context.Context, jobId string) (*models.Job, error)
	GetJobStatus(ctx context.Context, jobId string) (models.JobStatus, error)
	UpdateJobStatus(ctx context.Context, jobId, status string) (*models.Job, error)
	EditJob(ctx context.Context, jobId string, updateFields map[string]interface{}) (*models.Job, error)
	RollbackJob(ctx context.Context, jobId string, version int) (*models.Job, error)
}

// PostgresJobRepository - реализация JobRepository для базы данных.
type PostgresJobRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresJobRepository создаёт новый экземпляр PostgresJobRepository.
func NewPostgresJobRepository(db *pgxpool.Pool) *PostgresJobRepository {
	return &PostgresJobRepository{DB: db}
}

const jobColumns = `id, title, description, budget, status, proposal_count, version, created_at, client_username`

func scanJob(row interface{ Scan(dest ...any) error }, job *models.Job) error {
	return row.Scan(
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
}

// GetJobs возвращает список заказов.
func (r *PostgresJobRepository) GetJobs(ctx context.Context, limit, offset int, statuses []string) ([]models.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM job`
	var filters []string
	var args []interface{}
	argIndex := 1

	if len(statuses) > 0 {
		filters = append(filters, fmt.Sprintf("status = ANY($%d)", argIndex))
		args = append(args, pq.Array(statuses))
		argIndex++
	}

	if len(filters) > 0 {
		query += " WHERE " + strings.Join(filters, " AND ")
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, limit, offset)

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []models.Job
	for rows.Next() {
		var job models.Job
		if err := scanJob(rows, &job); err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// CreateJob создает новый заказ.
func (r *PostgresJobRepository) CreateJob(ctx context.Context, jobReq models.JobRequest) (*models.Job, error) {
	newJob := models.Job{
		ID:             uuid.New().String(),
		Title:          jobReq.Title,
		Description:    jobReq.Description,
		Budget:         jobReq.Budget,
		Status:         models.OpenJob,
		ProposalCount:  0,
		Version:        1,
		CreatedAt:      time.Now().UTC(),
		ClientUsername: jobReq.ClientUsername,
	}
	insertQuery := `INSERT INTO job (id, title, description, budget, status, proposal_count, version, created_at, client_username)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.DB.Exec(
		ctx,
		insertQuery,
		newJob.ID,
		newJob.Title,
		newJob.Description,
		newJob.Budget,
		newJob.Status,
		newJob.ProposalCount,
		newJob.Version,
		newJob.CreatedAt,
		newJob.ClientUsername)
	if err != nil {
		return nil, err
	}
	return &newJob, nil
}

// GetUserJobs возвращает список заказов пользователя.
func (r *PostgresJobRepository) GetUserJobs(ctx context.Context, limit, offset int, username string) ([]models.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM job
	          WHERE client_username = $1
	          ORDER BY created_at DESC
	          LIMIT $2 OFFSET $3`
	rows, err := r.DB.Query(ctx, query, username, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []models.Job
	for rows.Next() {
		var job models.Job
		if err := scanJob(rows, &job); err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// GetJobByID возвращает заказ по ID.
func (r *PostgresJobRepository) GetJobByID(ctx context.Context, jobId string) (*models.Job, error) {
	var job models.Job
	query := `SELECT ` + jobColumns + ` FROM job WHERE id = $1`
	if err := scanJob(r.DB.QueryRow(ctx, query, jobId), &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// GetJobStatus возвращает статус заказа.
func (r *PostgresJobRepository) GetJobStatus(ctx context.Context, jobId string) (models.JobStatus, error) {
	var status models.JobStatus
	query := `SELECT status FROM job WHERE id = $1`
	err := r.DB.QueryRow(ctx, query, jobId).Scan(&status)
	if err != nil {
		return "", err
	}
	return status, nil
}

// UpdateJobStatus меняет статус заказа.
func (r *PostgresJobRepository) UpdateJobStatus(ctx context.Context, jobId, status string) (*models.Job, error) {
	updateQuery := `UPDATE job SET status = $1 WHERE id = $2`
	_, err := r.DB.Exec(ctx, updateQuery, status, jobId)
	if err != nil {
		return nil, err
	}

	var job models.Job
	jobQuery := `SELECT ` + jobColumns + ` FROM job WHERE id = $1`
	if err := scanJob(r.DB.QueryRow(ctx, jobQuery, jobId), &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// EditJob меняет описание заказа с сохранением предыдущей версии в истории.
func (r *PostgresJobRepository) EditJob(ctx context.Context, jobId string, updateFields map[string]interface{}) (*models.Job, error) {
	var currentJob models.Job
	selectQuery := `SELECT ` + jobColumns + ` FROM job WHERE id = $1`
	if err := scanJob(r.DB.QueryRow(ctx, selectQuery, jobId), &currentJob); err != nil {
		return nil, err
	}

	var maxVersion int
	versionQuery := `SELECT COALESCE(MAX(version), 0) FROM job_history WHERE job_id = $1`
	err := r.DB.QueryRow(ctx, versionQuery, currentJob.ID).Scan(&maxVersion)
	if err != nil {
		return nil, err
	}

	historyInsertQuery := `INSERT INTO job_history (job_id, title, description, budget, status, version, created_at)
                          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = r.DB.Exec(
		ctx,
		historyInsertQuery,
		currentJob.ID,
		currentJob.Title,
		currentJob.Description,
		currentJob.Budget,
		currentJob.Status,
		maxVersion+1,
		currentJob.CreatedAt)
	if err != nil {
		return nil, err
	}

	var updates []string
	args := []interface{}{jobId} // Первый аргумент всегда будет jobId
	argIndex := 2

	if title, ok := updateFields["title"].(string); ok && title != "" {
		updates = append(updates, fmt.Sprintf("title = $%d", argIndex))
		args = append(args, title)
		argIndex++
	}

	if description, ok := updateFields["description"].(string); ok && description != "" {
		updates = append(updates, fmt.Sprintf("description = $%d", argIndex))
		args = append(args, description)
		argIndex++
	}

	if budget, ok := updateFields["budget"].(float64); ok && budget > 0 {
		updates = append(updates, fmt.Sprintf("budget = $%d", argIndex))
		args = append(args, int64(budget))
		argIndex++
	}

	if len(updates) == 0 {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "no valid fields to update")
	}

	updates = append(updates, "version = version + 1")
	updateQuery := fmt.Sprintf("UPDATE job SET %s WHERE id = $1 RETURNING %s", strings.Join(updates, ", "), jobColumns)

	var updatedJob models.Job
	if err := scanJob(r.DB.QueryRow(ctx, updateQuery, args...), &updatedJob); err != nil {
		return nil, err
	}
	return &updatedJob, nil
}

// RollbackJob откатывает заказ к указанной версии из истории.
func (r *PostgresJobRepository) RollbackJob(ctx context.Context, jobId string, version int) (*models.Job, error) {
	var rollbackJob models.Job
	query := `SELECT job_id, title, description, budget, status, version, created_at
	          FROM job_history WHERE job_id = $1 AND version = $2`
	err := r.DB.QueryRow(ctx, query, jobId, version).Scan(
		&rollbackJob.ID,
		&rollbackJob.Title,
		&rollbackJob.Description,
		&rollbackJob.Budget,
		&rollbackJob.Status,
		&rollbackJob.Version,
		&rollbackJob.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	updateQuery := `
			UPDATE job SET title = $1, description = $2, budget = $3, version = version + 1
			WHERE id = $4 RETURNING ` + jobColumns
	var job models.Job
	err = scanJob(r.DB.QueryRow(
		ctx,
		updateQuery,
		rollbackJob.Title,
		rollbackJob.Description,
		rollbackJob.Budget,
		jobId), &job)
	if err != nil {
		return nil, err
	}

	historyInsertQuery := `INSERT INTO job_history (job_id, title, description, budget, status, version, created_at)
                          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = r.DB.Exec(
		ctx,
		historyInsertQuery,
		job.ID,
		job.Title,
		job.Description,
		job.Budget,
		job.Status,
		job.Version,
		job.CreatedAt)
	if err != nil {
		return nil, err
	}

	return &job, nil
}
