package repository

import (
	"context"
	"fmt"

	"github.com/senyabanana/freelance-service/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PaymentRepository - интерфейс для работы с эскроу-платежами.
type PaymentRepository interface {
	GetReleasablePayment(ctx context.Context, jobId, freelancerUsername string) (*models.Payment, error)
	MarkReleased(ctx context.Context, paymentId, transferId string) error
	GetPaymentByProposal(ctx context.Context, proposalId string) (*models.Payment, error)
	GetPayoutAccount(ctx context.Context, username string) (string, error)
}

// PostgresPaymentRepository - реализация PaymentRepository для базы данных.
type PostgresPaymentRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresPaymentRepository создает новый экземпляр PostgresPaymentRepository.
func NewPostgresPaymentRepository(db *pgxpool.Pool) *PostgresPaymentRepository {
	return &PostgresPaymentRepository{DB: db}
}

const paymentColumns = `id, job_id, proposal_id, amount, status, payment_intent_id, transfer_id, created_at`

func scanPayment(row interface{ Scan(dest ...any) error }, payment *models.Payment) error {
	return row.Scan(
		&payment.ID,
		&payment.JobID,
		&payment.ProposalID,
		&payment.Amount,
		&payment.Status,
		&payment.PaymentIntentID,
		&payment.TransferID,
		&payment.CreatedAt,
	)
}

// GetReleasablePayment находит подтвержденный платеж по завершенному проекту.
// Средства переводятся только после того, как проект отмечен выполненным.
func (r *PostgresPaymentRepository) GetReleasablePayment(ctx context.Context, jobId, freelancerUsername string) (*models.Payment, error) {
	query := `SELECT p.id, p.job_id, p.proposal_id, p.amount, p.status, p.payment_intent_id, p.transfer_id, p.created_at
	          FROM payment p
	          JOIN proposal pr ON p.proposal_id = pr.id
	          WHERE p.job_id = $1
	          AND pr.freelancer_username = $2
	          AND pr.status = $3
	          AND pr.project_status = $4
	          AND p.status = $5`
	var payment models.Payment
	err := scanPayment(r.DB.QueryRow(
		ctx,
		query,
		jobId,
		freelancerUsername,
		models.AcceptedProposal,
		models.CompletedProject,
		models.SucceededPayment), &payment)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// MarkReleased помечает платеж переведенным фрилансеру.
func (r *PostgresPaymentRepository) MarkReleased(ctx context.Context, paymentId, transferId string) error {
	query := `UPDATE payment SET status = $1, transfer_id = $2 WHERE id = $3`
	_, err := r.DB.Exec(ctx, query, models.ReleasedPayment, transferId, paymentId)
	return err
}

// GetPaymentByProposal возвращает платеж по предложению.
func (r *PostgresPaymentRepository) GetPaymentByProposal(ctx context.Context, proposalId string) (*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payment WHERE proposal_id = $1`
	var payment models.Payment
	if err := scanPayment(r.DB.QueryRow(ctx, query, proposalId), &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetPayoutAccount возвращает счет фрилансера для вывода средств.
func (r *PostgresPaymentRepository) GetPayoutAccount(ctx context.Context, username string) (string, error) {
	var payoutAccount *string
	query := `SELECT payout_account_id FROM account WHERE username = $1`
	if err := r.DB.QueryRow(ctx, query, username).Scan(&payoutAccount); err != nil {
		return "", err
	}
	if payoutAccount == nil || *payoutAccount == "" {
		return "", fmt.Errorf("no payout account configured for %s", username)
	}
	return *payoutAccount, nil
}
