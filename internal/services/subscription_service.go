package services

import (
	"context"
	"net/http"
	"time"

	"github.com/senyabanana/freelance-service/internal/bridge"
	"github.com/senyabanana/freelance-service/internal/models"
	"github.com/senyabanana/freelance-service/internal/payments"
	"github.com/senyabanana/freelance-service/internal/platform"
	"github.com/senyabanana/freelance-service/internal/repository"
)

type SubscriptionService struct {
	Repo      repository.SubscriptionRepository
	Gateway   payments.Gateway
	Bridge    *bridge.Bridge
	Validator payments.ReceiptValidator
	Products  *payments.ProductTable
	ManageURL string
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(
	repo repository.SubscriptionRepository,
	gateway payments.Gateway,
	br *bridge.Bridge,
	validator payments.ReceiptValidator,
	products *payments.ProductTable,
	manageURL string,
) *SubscriptionService {
	return &SubscriptionService{
		Repo:      repo,
		Gateway:   gateway,
		Bridge:    br,
		Validator: validator,
		Products:  products,
		ManageURL: manageURL,
	}
}

// Checkout запускает покупку подписки по каналу, выбранному для платформы клиента.
// Веб-канал возвращает URL hosted checkout, мобильный проводит покупку через
// нативный мост и активирует подписку после серверной проверки чека.
func (s *SubscriptionService) Checkout(ctx context.Context, req models.SubscriptionCheckoutRequest, userAgent string, touchPoints int) (*models.SubscriptionCheckoutResponse, error) {
	if req.Username == "" || req.Plan == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing required fields: username or plan")
	}

	pc := platform.NewContext(func() models.PlatformInfo {
		return platform.Detect(userAgent, touchPoints)
	})

	if pc.PaymentMethod == models.MobileInAppPurchase {
		return s.checkoutMobile(ctx, req, pc)
	}
	return s.checkoutWeb(ctx, req, pc)
}

func (s *SubscriptionService) checkoutWeb(ctx context.Context, req models.SubscriptionCheckoutRequest, pc platform.Context) (*models.SubscriptionCheckoutResponse, error) {
	priceID, err := s.Products.PriceID(req.Plan)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusBadRequest, err.Error())
	}

	checkoutURL, err := s.Gateway.CreateSubscriptionCheckout(ctx, req.Username, priceID, string(req.Plan))
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusBadGateway, "failed to create checkout session")
	}
	return &models.SubscriptionCheckoutResponse{
		PaymentMethod: pc.PaymentMethod,
		CheckoutURL:   checkoutURL,
	}, nil
}

func (s *SubscriptionService) checkoutMobile(ctx context.Context, req models.SubscriptionCheckoutRequest, pc platform.Context) (*models.SubscriptionCheckoutResponse, error) {
	productID, err := s.Products.StoreProductID(req.Plan)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusBadRequest, err.Error())
	}

	if !s.Bridge.Available() {
		return nil, models.NewErrorResponse(http.StatusServiceUnavailable, "purchase is not available")
	}

	result, err := s.Bridge.Purchase(ctx, productID)
	if err != nil {
		return nil, bridgeErrorResponse(err)
	}

	sub, err := s.activateFromReceipt(ctx, req.Username, result.Receipt, productID, result.TransactionID)
	if err != nil {
		return nil, err
	}
	return &models.SubscriptionCheckoutResponse{
		PaymentMethod: pc.PaymentMethod,
		Subscription:  sub,
	}, nil
}

// ValidateReceipt проверяет чек покупки и активирует подписку.
// Используется встраивающим приложением для восстановления покупок.
func (s *SubscriptionService) ValidateReceipt(ctx context.Context, req models.ReceiptRequest) (*models.Subscription, error) {
	if req.Username == "" || req.Receipt == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing required fields: username or receipt")
	}
	return s.activateFromReceipt(ctx, req.Username, req.Receipt, req.ProductID, req.TransactionID)
}

func (s *SubscriptionService) activateFromReceipt(ctx context.Context, username, receiptData, productID, transactionID string) (*models.Subscription, error) {
	info, err := s.Validator.Validate(ctx, receiptData)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "receipt validation failed")
	}
	if productID != "" && info.ProductID != productID {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "receipt does not match the requested product")
	}

	plan, err := payments.PlanForStoreProduct(info.ProductID)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusBadRequest, err.Error())
	}

	endDate := info.ExpiresAt
	if endDate.IsZero() {
		endDate = time.Now().UTC().Add(payments.PlanDuration(plan))
	}
	if transactionID == "" {
		transactionID = info.TransactionID
	}

	sub := models.Subscription{
		Username:      username,
		Plan:          plan,
		IsActive:      true,
		EndDate:       &endDate,
		Channel:       models.MobileChannel,
		TransactionID: &transactionID,
	}
	if err := s.Repo.Activate(ctx, sub); err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to activate subscription")
	}
	return &sub, nil
}

// Cancel отменяет подписку. Подписка, купленная через мобильный канал,
// отменяется только в менеджере подписок операционной системы - возвращаем
// ссылку и ничего не меняем.
func (s *SubscriptionService) Cancel(ctx context.Context, username string) (*models.CancelSubscriptionResponse, error) {
	if username == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "username is required")
	}

	sub, err := s.Repo.GetSubscription(ctx, username)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to fetch subscription")
	}
	if !sub.IsActive {
		return nil, models.NewErrorResponse(http.StatusConflict, "no active subscription to cancel")
	}

	if sub.Channel == models.MobileChannel {
		return &models.CancelSubscriptionResponse{ManageURL: s.ManageURL}, nil
	}

	if sub.StripeSubscriptionID == nil || *sub.StripeSubscriptionID == "" {
		return nil, models.NewErrorResponse(http.StatusConflict, "subscription has no processor record")
	}
	endDate, err := s.Gateway.CancelSubscription(ctx, *sub.StripeSubscriptionID)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusBadGateway, "failed to cancel subscription")
	}
	if err := s.Repo.Cancel(ctx, username, endDate); err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to record cancellation")
	}
	return &models.CancelSubscriptionResponse{EndDate: &endDate}, nil
}

// GetSubscription возвращает подписку пользователя. Истекшая подписка
// отдается как неактивная.
func (s *SubscriptionService) GetSubscription(ctx context.Context, username string) (*models.Subscription, error) {
	if username == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "username is required")
	}

	sub, err := s.Repo.GetSubscription(ctx, username)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to fetch subscription")
	}
	if sub.EndDate != nil && sub.EndDate.Before(time.Now().UTC()) {
		sub.IsActive = false
	}
	return sub, nil
}

// bridgeErrorResponse переводит вид ошибки моста в пользовательскую ошибку.
func bridgeErrorResponse(err error) *models.ErrorResponse {
	switch bridge.KindOf(err) {
	case bridge.Unavailable:
		return models.NewErrorResponse(http.StatusServiceUnavailable, "purchase is not available")
	case bridge.Timeout:
		return models.NewRetryableError(http.StatusGatewayTimeout, "purchase timed out")
	case bridge.Cancelled:
		return models.NewErrorResponse(http.StatusBadRequest, "purchase was cancelled")
	case bridge.Malformed:
		return models.NewErrorResponse(http.StatusBadGateway, "purchase failed: malformed response")
	case bridge.Rejected:
		return models.NewErrorResponse(http.StatusPaymentRequired, "purchase was rejected")
	}
	return models.NewErrorResponse(http.StatusInternalServerError, "purchase failed")
}
