package repository

import (
	"context"
	"errors"
	"time"

	"github.com/senyabanana/freelance-service/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SubscriptionRepository - интерфейс для работы с подписками.
type SubscriptionRepository interface {
	GetSubscription(ctx context.Context, username string) (*models.Subscription, error)
	Activate(ctx context.Context, sub models.Subscription) error
	Cancel(ctx context.Context, username string, endDate time.Time) error
}

// PostgresSubscriptionRepository - реализация SubscriptionRepository для базы данных.
type PostgresSubscriptionRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresSubscriptionRepository создает новый экземпляр PostgresSubscriptionRepository.
func NewPostgresSubscriptionRepository(db *pgxpool.Pool) *PostgresSubscriptionRepository {
	return &PostgresSubscriptionRepository{DB: db}
}

// GetSubscription возвращает подписку пользователя.
// Если записи нет, возвращается бесплатный план по умолчанию.
func (r *PostgresSubscriptionRepository) GetSubscription(ctx context.Context, username string) (*models.Subscription, error) {
	var sub models.Subscription
	query := `SELECT username, plan, is_active, end_date, channel, stripe_subscription_id, transaction_id, updated_at
	          FROM subscription WHERE username = $1`
	err := r.DB.QueryRow(ctx, query, username).Scan(
		&sub.Username,
		&sub.Plan,
		&sub.IsActive,
		&sub.EndDate,
		&sub.Channel,
		&sub.StripeSubscriptionID,
		&sub.TransactionID,
		&sub.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return &models.Subscription{
			Username: username,
			Plan:     models.FreePlan,
			IsActive: false,
			Channel:  models.WebChannel,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// Activate включает подписку после подтвержденной оплаты по любому каналу.
func (r *PostgresSubscriptionRepository) Activate(ctx context.Context, sub models.Subscription) error {
	query := `INSERT INTO subscription (username, plan, is_active, end_date, channel, stripe_subscription_id, transaction_id, updated_at)
	          VALUES ($1, $2, true, $3, $4, $5, $6, $7)
	          ON CONFLICT (username) DO UPDATE
	          SET plan = EXCLUDED.plan,
	              is_active = true,
	              end_date = EXCLUDED.end_date,
	              channel = EXCLUDED.channel,
	              stripe_subscription_id = EXCLUDED.stripe_subscription_id,
	              transaction_id = EXCLUDED.transaction_id,
	              updated_at = EXCLUDED.updated_at`
	_, err := r.DB.Exec(
		ctx,
		query,
		sub.Username,
		sub.Plan,
		sub.EndDate,
		sub.Channel,
		sub.StripeSubscriptionID,
		sub.TransactionID,
		time.Now().UTC())
	return err
}

// Cancel фиксирует отмену: доступ сохраняется до конца оплаченного периода.
func (r *PostgresSubscriptionRepository) Cancel(ctx context.Context, username string, endDate time.Time) error {
	query := `UPDATE subscription SET end_date = $1, updated_at = $2 WHERE username = $3`
	_, err := r.DB.Exec(ctx, query, endDate, time.Now().UTC(), username)
	return err
}
