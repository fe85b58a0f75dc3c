package repository

import (
	"context"
	"net/http"
	"time"

	"github.com/senyabanana/freelance-service/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProposalRepository - интерфейс для работы с предложениями.
type ProposalRepository interface {
	CreateProposal(ctx context.Context, proposalReq models.ProposalRequest, clientUsername string) (*models.Proposal, error)
	GetUserProposals(ctx context.Context, limit, offset int, username string) ([]models.Proposal, error)
	GetJobProposals(ctx context.Context, jobId string, limit, offset int) ([]models.Proposal, error)
	GetProposalByID(ctx context.Context, proposalId string) (*models.Proposal, error)
	GetProposalStatus(ctx context.Context, proposalId string) (*models.ProposalStatus, error)
	RegisterPaymentIntent(ctx context.Context, proposalId string, payment models.Payment) error
	AcceptProposalByIntent(ctx context.Context, paymentIntentId string) (*models.Proposal, error)
	RejectProposal(ctx context.Context, proposalId string) (*models.Proposal, error)
	WithdrawProposal(ctx context.Context, proposalId string) (*models.Proposal, error)
	CompleteProject(ctx context.Context, proposalId string) (*models.Proposal, error)
	SubmitFeedback(ctx context.Context, review models.Review, newAverage float64) error
	GetFreelancerReviews(ctx context.Context, freelancerUsername string, limit, offset int) ([]models.Review, error)
}

// PostgresProposalRepository - реализация ProposalRepository для базы данных.
type PostgresProposalRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresProposalRepository создает новый экземпляр PostgresProposalRepository.
func NewPostgresProposalRepository(db *pgxpool.Pool) *PostgresProposalRepository {
	return &PostgresProposalRepository{DB: db}
}

const proposalColumns = `id, job_id, freelancer_username, client_username, cover_letter, bid_amount,
	status, project_status, payment_intent_id, created_at, accepted_at, rejected_at, completed_at`

func scanProposal(row interface{ Scan(dest ...any) error }, proposal *models.Proposal) error {
	return row.Scan(
		&proposal.ID,
		&proposal.JobID,
		&proposal.FreelancerUsername,
		&proposal.ClientUsername,
		&proposal.CoverLetter,
		&proposal.BidAmount,
		&proposal.Status,
		&proposal.ProjectStatus,
		&proposal.PaymentIntentID,
		&proposal.CreatedAt,
		&proposal.AcceptedAt,
		&proposal.RejectedAt,
		&proposal.CompletedAt,
	)
}

// CreateProposal создает новое предложение в статусе pending.
func (r *PostgresProposalRepository) CreateProposal(ctx context.Context, proposalReq models.ProposalRequest, clientUsername string) (*models.Proposal, error) {
	newProposal := models.Proposal{
		ID:                 uuid.New().String(),
		JobID:              proposalReq.JobID,
		FreelancerUsername: proposalReq.FreelancerUsername,
		ClientUsername:     clientUsername,
		CoverLetter:        proposalReq.CoverLetter,
		BidAmount:          proposalReq.BidAmount,
		Status:             models.PendingProposal,
		CreatedAt:          time.Now().UTC(),
	}
	insertQuery := `INSERT INTO proposal (id, job_id, freelancer_username, client_username, cover_letter, bid_amount, status, created_at)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.DB.Exec(
		ctx,
		insertQuery,
		newProposal.ID,
		newProposal.JobID,
		newProposal.FreelancerUsername,
		newProposal.ClientUsername,
		newProposal.CoverLetter,
		newProposal.BidAmount,
		newProposal.Status,
		newProposal.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &newProposal, nil
}

// GetUserProposals возвращает список предложений фрилансера.
func (r *PostgresProposalRepository) GetUserProposals(ctx context.Context, limit, offset int, username string) ([]models.Proposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM proposal
	          WHERE freelancer_username = $1
	          ORDER BY created_at DESC
	          LIMIT $2 OFFSET $3`
	rows, err := r.DB.Query(ctx, query, username, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var proposals []models.Proposal
	for rows.Next() {
		var proposal models.Proposal
		if err := scanProposal(rows, &proposal); err != nil {
			return nil, err
		}
		proposals = append(proposals, proposal)
	}
	return proposals, nil
}

// GetJobProposals возвращает список предложений по заказу.
func (r *PostgresProposalRepository) GetJobProposals(ctx context.Context, jobId string, limit, offset int) ([]models.Proposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM proposal
	          WHERE job_id = $1
	          ORDER BY created_at DESC
	          LIMIT $2 OFFSET $3`
	rows, err := r.DB.Query(ctx, query, jobId, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var proposals []models.Proposal
	for rows.Next() {
		var proposal models.Proposal
		if err := scanProposal(rows, &proposal); err != nil {
			return nil, err
		}
		proposals = append(proposals, proposal)
	}
	return proposals, nil
}

// GetProposalByID получает предложение по ID.
func (r *PostgresProposalRepository) GetProposalByID(ctx context.Context, proposalId string) (*models.Proposal, error) {
	var proposal models.Proposal
	query := `SELECT ` + proposalColumns + ` FROM proposal WHERE id = $1`
	if err := scanProposal(r.DB.QueryRow(ctx, query, proposalId), &proposal); err != nil {
		return nil, err
	}
	return &proposal, nil
}

// GetProposalStatus возвращает статус предложения.
func (r *PostgresProposalRepository) GetProposalStatus(ctx context.Context, proposalId string) (*models.ProposalStatus, error) {
	var status models.ProposalStatus
	query := `SELECT status FROM proposal WHERE id = $1`
	err := r.DB.QueryRow(ctx, query, proposalId).Scan(&status)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// RegisterPaymentIntent привязывает созданное платежное намерение к предложению.
// Статус предложения не меняется: принятие происходит только после
// подтверждения оплаты вебхуком процессинга.
func (r *PostgresProposalRepository) RegisterPaymentIntent(ctx context.Context, proposalId string, payment models.Payment) error {
	updateQuery := `UPDATE proposal SET payment_intent_id = $1 WHERE id = $2 AND status = $3`
	tag, err := r.DB.Exec(ctx, updateQuery, payment.PaymentIntentID, proposalId, models.PendingProposal)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.NewErrorResponse(http.StatusConflict, "proposal is not pending")
	}

	insertQuery := `INSERT INTO payment (id, job_id, proposal_id, amount, status, payment_intent_id, created_at)
                   VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = r.DB.Exec(
		ctx,
		insertQuery,
		payment.ID,
		payment.JobID,
		payment.ProposalID,
		payment.Amount,
		payment.Status,
		payment.PaymentIntentID,
		payment.CreatedAt)
	return err
}

// AcceptProposalByIntent принимает предложение после подтверждения оплаты.
// Переход выполняется ровно один раз: повторный вебхук по тому же намерению
// не меняет состояние и не увеличивает счетчик заказа.
func (r *PostgresProposalRepository) AcceptProposalByIntent(ctx context.Context, paymentIntentId string) (*models.Proposal, error) {
	now := time.Now().UTC()
	updateQuery := `UPDATE proposal
	                SET status = $1, project_status = $2, accepted_at = $3
	                WHERE payment_intent_id = $4 AND status = $5
	                RETURNING ` + proposalColumns
	var proposal models.Proposal
	err := scanProposal(r.DB.QueryRow(
		ctx,
		updateQuery,
		models.AcceptedProposal,
		models.OngoingProject,
		now,
		paymentIntentId,
		models.PendingProposal), &proposal)
	if err != nil {
		return nil, err
	}

	jobQuery := `UPDATE job SET status = $1, proposal_count = proposal_count + 1 WHERE id = $2`
	if _, err = r.DB.Exec(ctx, jobQuery, models.InProgressJob, proposal.JobID); err != nil {
		return nil, err
	}

	paymentQuery := `UPDATE payment SET status = $1 WHERE payment_intent_id = $2`
	if _, err = r.DB.Exec(ctx, paymentQuery, models.SucceededPayment, paymentIntentId); err != nil {
		return nil, err
	}

	return &proposal, nil
}

// RejectProposal отклоняет предложение. Переход возможен только из pending.
func (r *PostgresProposalRepository) RejectProposal(ctx context.Context, proposalId string) (*models.Proposal, error) {
	updateQuery := `UPDATE proposal SET status = $1, rejected_at = $2
	                WHERE id = $3 AND status = $4
	                RETURNING ` + proposalColumns
	var proposal models.Proposal
	err := scanProposal(r.DB.QueryRow(
		ctx,
		updateQuery,
		models.RejectedProposal,
		time.Now().UTC(),
		proposalId,
		models.PendingProposal), &proposal)
	if err != nil {
		return nil, err
	}
	return &proposal, nil
}

// WithdrawProposal отзывает предложение. Переход возможен только из pending.
func (r *PostgresProposalRepository) WithdrawProposal(ctx context.Context, proposalId string) (*models.Proposal, error) {
	updateQuery := `UPDATE proposal SET status = $1
	                WHERE id = $2 AND status = $3
	                RETURNING ` + proposalColumns
	var proposal models.Proposal
	err := scanProposal(r.DB.QueryRow(
		ctx,
		updateQuery,
		models.WithdrawnProposal,
		proposalId,
		models.PendingProposal), &proposal)
	if err != nil {
		return nil, err
	}
	return &proposal, nil
}

// CompleteProject завершает проект. Переход возможен только из ongoing,
// обратного перехода нет.
func (r *PostgresProposalRepository) CompleteProject(ctx context.Context, proposalId string) (*models.Proposal, error) {
	updateQuery := `UPDATE proposal SET project_status = $1, completed_at = $2
	                WHERE id = $3 AND project_status = $4
	                RETURNING ` + proposalColumns
	var proposal models.Proposal
	err := scanProposal(r.DB.QueryRow(
		ctx,
		updateQuery,
		models.CompletedProject,
		time.Now().UTC(),
		proposalId,
		models.OngoingProject), &proposal)
	if err != nil {
		return nil, err
	}

	jobQuery := `UPDATE job SET status = $1 WHERE id = $2`
	if _, err = r.DB.Exec(ctx, jobQuery, models.CompletedJob, proposal.JobID); err != nil {
		return nil, err
	}
	return &proposal, nil
}

// SubmitFeedback сохраняет отзыв и обновляет средний рейтинг фрилансера.
func (r *PostgresProposalRepository) SubmitFeedback(ctx context.Context, review models.Review, newAverage float64) error {
	insertQuery := `INSERT INTO review (id, proposal_id, job_id, freelancer_username, author_username, rating, comment, created_at)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.DB.Exec(
		ctx,
		insertQuery,
		review.ID,
		review.ProposalID,
		review.JobID,
		review.FreelancerUsername,
		review.AuthorUsername,
		review.Rating,
		review.Comment,
		review.CreatedAt)
	if err != nil {
		return err
	}

	updateQuery := `UPDATE account SET rating = $1, rating_count = rating_count + 1 WHERE username = $2`
	_, err = r.DB.Exec(ctx, updateQuery, newAverage, review.FreelancerUsername)
	return err
}

// GetFreelancerReviews возвращает список отзывов о фрилансере.
func (r *PostgresProposalRepository) GetFreelancerReviews(ctx context.Context, freelancerUsername string, limit, offset int) ([]models.Review, error) {
	query := `SELECT id, proposal_id, job_id, freelancer_username, author_username, rating, comment, created_at
	          FROM review
	          WHERE freelancer_username = $1
	          ORDER BY created_at DESC
	          LIMIT $2 OFFSET $3`
	rows, err := r.DB.Query(ctx, query, freelancerUsername, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []models.Review
	for rows.Next() {
		var review models.Review
		if err := rows.Scan(
			&review.ID,
			&review.ProposalID,
			&review.JobID,
			&review.FreelancerUsername,
			&review.AuthorUsername,
			&review.Rating,
			&review.Comment,
			&review.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, nil
}
