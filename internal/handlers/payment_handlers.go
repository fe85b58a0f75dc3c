package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/senyabanana/freelance-service/internal/models"
	"github.com/senyabanana/freelance-service/internal/services"
	"github.com/senyabanana/freelance-service/internal/utils"
)

// Webhook процессинга подписывает тело целиком, читаем его с ограничением.
const maxWebhookBodySize = 65536

// PaymentHandler - структура для обработки HTTP-запросов к платежам.
type PaymentHandler struct {
	Service *services.PaymentService
	Logger  *log.Logger
	Timeout time.Duration
}

// NewPaymentHandler создает новый экземпляр PaymentHandler.
func NewPaymentHandler(service *services.PaymentService, logger *log.Logger, timeout time.Duration) *PaymentHandler {
	return &PaymentHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// Webhook обрабатывает события процессинга. Подпись проверяется по сырому телу,
// поэтому тело не декодируется до проверки.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only POST is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBodySize))
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	if err := h.Service.HandleWebhook(ctx, payload, r.Header.Get("Stripe-Signature")); err != nil {
		respondError(h.Logger, w, err, "failed to process webhook")
		return
	}

	w.WriteHeader(http.StatusOK)
}

// ReleasePayment обрабатывает запросы на выплату эскроу-средств фрилансеру.
func (h *PaymentHandler) ReleasePayment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only POST is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	username := r.URL.Query().Get("username")

	var releaseReq models.ReleasePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&releaseReq); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.Service.ReleasePayment(ctx, releaseReq, username)
	if err != nil {
		respondError(h.Logger, w, err, "failed to release payment")
		return
	}
	respondJSON(h.Logger, w, resp)
}
