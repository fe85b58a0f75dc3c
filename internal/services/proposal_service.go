package services

import (
	"context"
	"net/http"
	"time"

	"github.com/senyabanana/freelance-service/internal/models"
	"github.com/senyabanana/freelance-service/internal/payments"
	"github.com/senyabanana/freelance-service/internal/repository"
	"github.com/senyabanana/freelance-service/internal/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MinEscrowAmount - минимальная сумма эскроу-платежа в центах.
// Проверяется до любого обращения к процессингу.
const MinEscrowAmount int64 = 500

type ProposalService struct {
	Repo    repository.ProposalRepository
	Gateway payments.Gateway
	dbPool  *pgxpool.Pool
}

// NewProposalService создает новый экземпляр ProposalService.
func NewProposalService(repo repository.ProposalRepository, gateway payments.Gateway, dbPool *pgxpool.Pool) *ProposalService {
	return &ProposalService{Repo: repo, Gateway: gateway, dbPool: dbPool}
}

// CreateProposal создает новое предложение по заказу.
func (s *ProposalService) CreateProposal(ctx context.Context, proposalReq models.ProposalRequest) (*models.Proposal, error) {
	if proposalReq.JobID == "" || proposalReq.FreelancerUsername == "" || proposalReq.CoverLetter == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing required fields")
	}
	if proposalReq.BidAmount < MinEscrowAmount {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "bid amount is below the minimum")
	}

	isFreelancer, err := utils.CheckAccountRole(ctx, s.dbPool, proposalReq.FreelancerUsername, "freelancer")
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if !isFreelancer {
		return nil, models.NewErrorResponse(http.StatusForbidden, "only freelancers can submit proposals")
	}

	job, err := utils.GetJobById(ctx, s.dbPool, proposalReq.JobID)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusNotFound, "job not found")
	}
	if job.Status != models.OpenJob {
		return nil, models.NewErrorResponse(http.StatusConflict, "job is not open for proposals")
	}

	hasPending, err := utils.CheckPendingProposalExists(ctx, s.dbPool, proposalReq.JobID, proposalReq.FreelancerUsername)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if hasPending {
		return nil, models.NewErrorResponse(http.StatusConflict, "you already have a pending proposal for this job")
	}

	return s.Repo.CreateProposal(ctx, proposalReq, job.ClientUsername)
}

// GetUserProposals получает список предложений фрилансера.
func (s *ProposalService) GetUserProposals(ctx context.Context, limitStr, offsetStr, username string) ([]models.Proposal, error) {
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
	return s.Repo.GetUserProposals(ctx, limit, offset, username)
}

// GetJobProposals получает список предложений по заказу. Доступно только заказчику.
func (s *ProposalService) GetJobProposals(ctx context.Context, jobId, username, limitStr, offsetStr string) ([]models.Proposal, error) {
	if jobId == "" || username == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing required query parameters: username or jobId")
	}

	limit, offset, err := utils.ParseLimitOffset(limitStr, offsetStr)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusBadRequest, err.Error())
	}

	owned, err := utils.CheckJobOwnedBy(ctx, s.dbPool, jobId, username)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if !owned {
		return nil, models.NewErrorResponse(http.StatusForbidden, "you are not authorized to view proposals for this job")
	}
	return s.Repo.GetJobProposals(ctx, jobId, limit, offset)
}

// GetProposalStatus получает статус предложения.
func (s *ProposalService) GetProposalStatus(ctx context.Context, proposalId string) (*models.ProposalStatus, error) {
	if proposalId == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "proposalId is required")
	}
	status, err := s.Repo.GetProposalStatus(ctx, proposalId)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusNotFound, "proposal not found")
	}
	return status, nil
}

// AcceptProposal запускает принятие предложения: создает эскроу-намерение
// и привязывает его к предложению. Статус остается pending до подтверждения
// оплаты вебхуком процессинга; при ошибке создания намерения предложение
// не меняется вовсе.
func (s *ProposalService) AcceptProposal(ctx context.Context, proposalId, username string) (*payments.PaymentIntent, error) {
	if proposalId == "" || username == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing required query parameter: proposalId or username")
	}

	proposal, err := s.Repo.GetProposalByID(ctx, proposalId)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusNotFound, "proposal not found")
	}
	if proposal.ClientUsername != username {
		return nil, models.NewErrorResponse(http.StatusForbidden, "only the job's client can accept this proposal")
	}
	if proposal.Status != models.PendingProposal {
		return nil, models.NewErrorResponse(http.StatusConflict, "proposal is not pending")
	}
	if proposal.BidAmount < MinEscrowAmount {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "bid amount is below the minimum")
	}

	intent, err := s.Gateway.CreatePaymentIntent(ctx, proposal.JobID, proposal.ID, proposal.BidAmount)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusBadGateway, "failed to create payment intent")
	}

	payment := models.Payment{
		ID:              uuid.New().String(),
		JobID:           proposal.JobID,
		ProposalID:      proposal.ID,
		Amount:          proposal.BidAmount,
		Status:          models.CreatedPayment,
		PaymentIntentID: intent.ID,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.Repo.RegisterPaymentIntent(ctx, proposalId, payment); err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			return nil, errorResponse
		}
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to register payment intent")
	}
	return intent, nil
}

// RejectProposal отклоняет предложение. Требует явного подтверждения:
// переход необратим.
func (s *ProposalService) RejectProposal(ctx context.Context, proposalId, username string, confirmed bool) (*models.Proposal, error) {
	if proposalId == "" || username == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing required query parameter: proposalId or username")
	}
	if !confirmed {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "rejection requires explicit confirmation")
	}

	proposal, err := s.Repo.GetProposalByID(ctx, proposalId)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusNotFound, "proposal not found")
	}
	if proposal.ClientUsername != username {
		return nil, models.NewErrorResponse(http.StatusForbidden, "only the job's client can reject this proposal")
	}
	if proposal.Status != models.PendingProposal {
		return nil, models.NewErrorResponse(http.StatusConflict, "proposal is not pending")
	}
	return s.Repo.RejectProposal(ctx, proposalId)
}

// WithdrawProposal отзывает предложение. Доступно только автору предложения.
func (s *ProposalService) WithdrawProposal(ctx context.Context, proposalId, username string) (*models.Proposal, error) {
	if proposalId == "" || username == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing required query parameter: proposalId or username")
	}

	proposal, err := s.Repo.GetProposalByID(ctx, proposalId)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusNotFound, "proposal not found")
	}
	if proposal.FreelancerUsername != username {
		return nil, models.NewErrorResponse(http.StatusForbidden, "only the proposal's author can withdraw it")
	}
	if proposal.Status != models.PendingProposal {
		return nil, models.NewErrorResponse(http.StatusConflict, "proposal is not pending")
	}
	return s.Repo.WithdrawProposal(ctx, proposalId)
}

// CompleteProject завершает проект. Требует явного подтверждения:
// завершенные проекты не возвращаются в работу.
func (s *ProposalService) CompleteProject(ctx context.Context, proposalId, username string, confirmed bool) (*models.Proposal, error) {
	if proposalId == "" || username == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing required query parameter: proposalId or username")
	}
	if !confirmed {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "completion requires explicit confirmation")
	}

	proposal, err := s.Repo.GetProposalByID(ctx, proposalId)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusNotFound, "proposal not found")
	}
	if proposal.ClientUsername != username {
		return nil, models.NewErrorResponse(http.StatusForbidden, "only the job's client can complete this project")
	}
	if proposal.Status != models.AcceptedProposal || proposal.ProjectStatus == nil || *proposal.ProjectStatus != models.OngoingProject {
		return nil, models.NewErrorResponse(http.StatusConflict, "project is not ongoing")
	}
	return s.Repo.CompleteProject(ctx, proposalId)
}

// SubmitFeedback сохраняет отзыв о выполненном проекте и пересчитывает
// средний рейтинг фрилансера.
func (s *ProposalService) SubmitFeedback(ctx context.Context, proposalId, username, comment string, rating int) (*models.Review, error) {
	if proposalId == "" || username == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing required query parameter: proposalId or username")
	}
	if rating < 1 || rating > 5 {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "rating must be between 1 and 5")
	}

	proposal, err := s.Repo.GetProposalByID(ctx, proposalId)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusNotFound, "proposal not found")
	}
	if proposal.ClientUsername != username {
		return nil, models.NewErrorResponse(http.StatusForbidden, "only the job's client can rate this project")
	}
	if proposal.ProjectStatus == nil || *proposal.ProjectStatus != models.CompletedProject {
		return nil, models.NewErrorResponse(http.StatusConflict, "project is not completed")
	}

	oldAvg, oldCount, err := utils.GetFreelancerRating(ctx, s.dbPool, proposal.FreelancerUsername)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to fetch freelancer rating")
	}

	review := models.Review{
		ID:                 uuid.New().String(),
		ProposalID:         proposal.ID,
		JobID:              proposal.JobID,
		FreelancerUsername: proposal.FreelancerUsername,
		AuthorUsername:     username,
		Rating:             rating,
		Comment:            comment,
		CreatedAt:          time.Now().UTC(),
	}
	newAverage := utils.RecomputeAverage(oldAvg, oldCount, rating)
	if err := s.Repo.SubmitFeedback(ctx, review, newAverage); err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to save review")
	}
	return &review, nil
}

// GetFreelancerReviews получает список отзывов о фрилансере.
func (s *ProposalService) GetFreelancerReviews(ctx context.Context, freelancerUsername, limitStr, offsetStr string) ([]models.Review, error) {
	if freelancerUsername == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "username is required")
	}

	limit, offset, err := utils.ParseLimitOffset(limitStr, offsetStr)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusBadRequest, err.Error())
	}

	exists, err := utils.CheckAccountExists(ctx, s.dbPool, freelancerUsername)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if !exists {
		return nil, models.NewErrorResponse(http.StatusNotFound, "freelancer not found")
	}
	return s.Repo.GetFreelancerReviews(ctx, freelancerUsername, limit, offset)
}
