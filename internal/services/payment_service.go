package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/senyabanana/freelance-service/internal/models"
	"github.com/senyabanana/freelance-service/internal/payments"
	"github.com/senyabanana/freelance-service/internal/repository"

	"github.com/jackc/pgx/v5"
)

type PaymentService struct {
	Proposals     repository.ProposalRepository
	Subscriptions repository.SubscriptionRepository
	Payments      repository.PaymentRepository
	Jobs          repository.JobRepository
	Gateway       payments.Gateway
}

// NewPaymentService создает новый экземпляр PaymentService.
func NewPaymentService(
	proposals repository.ProposalRepository,
	subscriptions repository.SubscriptionRepository,
	paymentRepo repository.PaymentRepository,
	jobs repository.JobRepository,
	gateway payments.Gateway,
) *PaymentService {
	return &PaymentService{
		Proposals:     proposals,
		Subscriptions: subscriptions,
		Payments:      paymentRepo,
		Jobs:          jobs,
		Gateway:       gateway,
	}
}

// HandleWebhook обрабатывает событие процессинга. Именно здесь предложение
// переходит в accepted: подтвержденное списание, а не создание намерения,
// двигает состояние.
func (s *PaymentService) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	event, err := s.Gateway.ParseWebhookEvent(payload, sigHeader)
	if err != nil {
		return models.NewErrorResponse(http.StatusBadRequest, "invalid webhook payload")
	}

	switch event.Type {
	case payments.EventPaymentSucceeded:
		_, err := s.Proposals.AcceptProposalByIntent(ctx, event.PaymentIntentID)
		if errors.Is(err, pgx.ErrNoRows) {
			// Повторный вебхук по уже принятому предложению - не ошибка.
			return nil
		}
		if err != nil {
			return models.NewErrorResponse(http.StatusInternalServerError, "failed to accept proposal")
		}
	case payments.EventCheckoutCompleted:
		if event.Username == "" || event.Plan == "" {
			return models.NewErrorResponse(http.StatusBadRequest, "checkout event without user or plan")
		}
		endDate := time.Now().UTC().Add(payments.PlanDuration(models.SubscriptionPlan(event.Plan)))
		sub := models.Subscription{
			Username:             event.Username,
			Plan:                 models.SubscriptionPlan(event.Plan),
			IsActive:             true,
			EndDate:              &endDate,
			Channel:              models.WebChannel,
			StripeSubscriptionID: &event.SubscriptionID,
		}
		if err := s.Subscriptions.Activate(ctx, sub); err != nil {
			return models.NewErrorResponse(http.StatusInternalServerError, "failed to activate subscription")
		}
	}
	return nil
}

// ReleasePayment переводит удержанные эскроу-средства фрилансеру
// после завершения проекта.
func (s *PaymentService) ReleasePayment(ctx context.Context, req models.ReleasePaymentRequest, username string) (*models.ReleasePaymentResponse, error) {
	if req.JobID == "" || req.FreelancerUsername == "" || username == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing required fields: jobId, freelancerUsername or username")
	}

	job, err := s.Jobs.GetJobByID(ctx, req.JobID)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusNotFound, "job not found")
	}
	if job.ClientUsername != username {
		return nil, models.NewErrorResponse(http.StatusForbidden, "you are not authorized to release payment for this job")
	}

	payment, err := s.Payments.GetReleasablePayment(ctx, req.JobID, req.FreelancerUsername)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusConflict, "no releasable payment: project must be completed and paid")
	}

	destination, err := s.Payments.GetPayoutAccount(ctx, req.FreelancerUsername)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusConflict, "freelancer has no payout account")
	}

	transferID, err := s.Gateway.ReleasePayment(ctx, req.JobID, req.FreelancerUsername, destination, payment.Amount)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusBadGateway, "failed to release payment")
	}

	if err := s.Payments.MarkReleased(ctx, payment.ID, transferID); err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to record transfer")
	}
	return &models.ReleasePaymentResponse{TransferID: transferID}, nil
}
