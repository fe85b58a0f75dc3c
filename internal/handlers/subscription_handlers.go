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

// SubscriptionHandler - структура для обработки HTTP-запросов к подпискам.
type SubscriptionHandler struct {
	Service *services.SubscriptionService
	Logger  *log.Logger
	Timeout time.Duration
}

// NewSubscriptionHandler создает новый экземпляр SubscriptionHandler.
func NewSubscriptionHandler(service *services.SubscriptionService, logger *log.Logger, timeout time.Duration) *SubscriptionHandler {
	return &SubscriptionHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// Checkout обрабатывает запросы на покупку подписки. Канал оплаты выбирается
// по User-Agent клиента; браузер сообщает число точек касания в touchPoints.
func (h *SubscriptionHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only POST is allowed")
		return
	}

	// Покупка через мост ждет ответа магазина дольше обычного запроса.
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout+time.Minute)
	defer cancel()

	var checkoutReq models.SubscriptionCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&checkoutReq); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userAgent := r.UserAgent()
	touchPoints, _ := strconv.Atoi(r.URL.Query().Get("touchPoints"))

	resp, err := h.Service.Checkout(ctx, checkoutReq, userAgent, touchPoints)
	if err != nil {
		respondError(h.Logger, w, err, "failed to start checkout")
		return
	}
	respondJSON(h.Logger, w, resp)
}

// ValidateReceipt обрабатывает запросы на серверную проверку чека покупки.
func (h *SubscriptionHandler) ValidateReceipt(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only POST is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var receiptReq models.ReceiptRequest
	if err := json.NewDecoder(r.Body).Decode(&receiptReq); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sub, err := h.Service.ValidateReceipt(ctx, receiptReq)
	if err != nil {
		respondError(h.Logger, w, err, "failed to validate receipt")
		return
	}
	respondJSON(h.Logger, w, sub)
}

// Cancel обрабатывает запросы на отмену подписки.
func (h *SubscriptionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only POST is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	username := r.URL.Query().Get("username")

	resp, err := h.Service.Cancel(ctx, username)
	if err != nil {
		respondError(h.Logger, w, err, "failed to cancel subscription")
		return
	}
	respondJSON(h.Logger, w, resp)
}

// GetSubscription обрабатывает запросы для получения подписки пользователя.
func (h *SubscriptionHandler) GetSubscription(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	username := r.URL.Query().Get("username")

	sub, err := h.Service.GetSubscription(ctx, username)
	if err != nil {
		respondError(h.Logger, w, err, "failed to fetch subscription")
		return
	}
	respondJSON(h.Logger, w, sub)
}
