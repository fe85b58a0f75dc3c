package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/senyabanana/freelance-service/internal/models"
	"github.com/senyabanana/freelance-service/internal/services"
	"github.com/senyabanana/freelance-service/internal/utils"
)

// ProposalHandler - структура для обработки HTTP-запросов к предложениям.
type ProposalHandler struct {
	Service *services.ProposalService
	Logger  *log.Logger
	Timeout time.Duration
}

// NewProposalHandler создает новый экземпляр ProposalHandler.
func NewProposalHandler(service *services.ProposalService, logger *log.Logger, timeout time.Duration) *ProposalHandler {
	return &ProposalHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// CreateProposal обрабатывает запросы для создания предложения.
func (h *ProposalHandler) CreateProposal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only POST is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var proposalReq models.ProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&proposalReq); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	proposal, err := h.Service.CreateProposal(ctx, proposalReq)
	if err != nil {
		respondError(h.Logger, w, err, "failed to create proposal")
		return
	}
	respondJSON(h.Logger, w, proposal)
}

// GetUserProposals обрабатывает запросы для получения списка предложений фрилансера.
func (h *ProposalHandler) GetUserProposals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	limitStr := r.URL.Query().Get("limit")
	offsetStr := r.URL.Query().Get("offset")
	username := r.URL.Query().Get("username")

	proposals, err := h.Service.GetUserProposals(ctx, limitStr, offsetStr, username)
	if err != nil {
		respondError(h.Logger, w, err, "failed to fetch proposals")
		return
	}
	if len(proposals) == 0 {
		utils.SendErrorResponse(w, http.StatusNotFound, "no proposals found for this user")
		return
	}
	respondJSON(h.Logger, w, proposals)
}

// GetJobProposals обрабатывает запросы для получения списка предложений по заказу.
func (h *ProposalHandler) GetJobProposals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	jobId := r.PathValue("jobId")
	username := r.URL.Query().Get("username")
	limitStr := r.URL.Query().Get("limit")
	offsetStr := r.URL.Query().Get("offset")

	proposals, err := h.Service.GetJobProposals(ctx, jobId, username, limitStr, offsetStr)
	if err != nil {
		respondError(h.Logger, w, err, "failed to fetch proposals")
		return
	}
	respondJSON(h.Logger, w, proposals)
}

// GetProposalStatus обрабатывает запросы для получения статуса предложения.
func (h *ProposalHandler) GetProposalStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	proposalId := r.PathValue("proposalId")

	status, err := h.Service.GetProposalStatus(ctx, proposalId)
	if err != nil {
		respondError(h.Logger, w, err, "failed to fetch proposal status")
		return
	}
	respondJSON(h.Logger, w, status)
}

// AcceptProposal обрабатывает запросы на принятие предложения.
// В ответ уходит платежное намерение; статус предложения изменит вебхук.
func (h *ProposalHandler) AcceptProposal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only POST is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	proposalId := r.PathValue("proposalId")
	username := r.URL.Query().Get("username")

	intent, err := h.Service.AcceptProposal(ctx, proposalId, username)
	if err != nil {
		respondError(h.Logger, w, err, "failed to accept proposal")
		return
	}
	respondJSON(h.Logger, w, intent)
}

// RejectProposal обрабатывает запросы на отклонение предложения.
func (h *ProposalHandler) RejectProposal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only PUT is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	proposalId := r.PathValue("proposalId")
	username := r.URL.Query().Get("username")
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirmed"))

	proposal, err := h.Service.RejectProposal(ctx, proposalId, username, confirmed)
	if err != nil {
		respondError(h.Logger, w, err, "failed to reject proposal")
		return
	}
	respondJSON(h.Logger, w, proposal)
}

// WithdrawProposal обрабатывает запросы на отзыв предложения.
func (h *ProposalHandler) WithdrawProposal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only PUT is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	proposalId := r.PathValue("proposalId")
	username := r.URL.Query().Get("username")

	proposal, err := h.Service.WithdrawProposal(ctx, proposalId, username)
	if err != nil {
		respondError(h.Logger, w, err, "failed to withdraw proposal")
		return
	}
	respondJSON(h.Logger, w, proposal)
}

// CompleteProject обрабатывает запросы на завершение проекта.
func (h *ProposalHandler) CompleteProject(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only PUT is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	proposalId := r.PathValue("proposalId")
	username := r.URL.Query().Get("username")
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirmed"))

	proposal, err := h.Service.CompleteProject(ctx, proposalId, username, confirmed)
	if err != nil {
		respondError(h.Logger, w, err, "failed to complete project")
		return
	}
	respondJSON(h.Logger, w, proposal)
}

// SubmitFeedback обрабатывает запросы на отзыв о выполненном проекте.
func (h *ProposalHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only POST is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	proposalId := r.PathValue("proposalId")
	username := r.URL.Query().Get("username")

	var feedbackReq struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&feedbackReq); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	review, err := h.Service.SubmitFeedback(ctx, proposalId, username, feedbackReq.Comment, feedbackReq.Rating)
	if err != nil {
		respondError(h.Logger, w, err, "failed to submit feedback")
		return
	}
	respondJSON(h.Logger, w, review)
}

// GetFreelancerReviews обрабатывает запросы для получения отзывов о фрилансере.
func (h *ProposalHandler) GetFreelancerReviews(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	freelancerUsername := r.PathValue("username")
	limitStr := r.URL.Query().Get("limit")
	offsetStr := r.URL.Query().Get("offset")

	reviews, err := h.Service.GetFreelancerReviews(ctx, freelancerUsername, limitStr, offsetStr)
	if err != nil {
		respondError(h.Logger, w, err, "failed to fetch reviews")
		return
	}
	respondJSON(h.Logger, w, reviews)
}
