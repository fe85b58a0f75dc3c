package models

import "time"

// SubscriptionCheckoutRequest представляет запрос на покупку подписки.
type SubscriptionCheckoutRequest struct {
	Username string           `json:"username"`
	Plan     SubscriptionPlan `json:"plan"`
}

// SubscriptionCheckoutResponse - итог покупки подписки.
// Для веб-канала заполняется checkoutUrl, для мобильного - активированная подписка.
type SubscriptionCheckoutResponse struct {
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	CheckoutURL   string        `json:"checkoutUrl,omitempty"`
	Subscription  *Subscription `json:"subscription,omitempty"`
}

// ReceiptRequest представляет запрос на серверную проверку чека покупки.
type ReceiptRequest struct {
	Username      string `json:"username"`
	Receipt       string `json:"receipt"`
	TransactionID string `json:"transactionId"`
	ProductID     string `json:"productId"`
}

// CancelSubscriptionResponse - итог отмены подписки.
// Мобильный канал не умеет отменять покупки: возвращается только
// ссылка на управление подписками операционной системы.
type CancelSubscriptionResponse struct {
	EndDate   *time.Time `json:"endDate,omitempty"`
	ManageURL string     `json:"manageUrl,omitempty"`
}

// ReleasePaymentRequest представляет запрос на перевод эскроу-средств фрилансеру.
type ReleasePaymentRequest struct {
	JobID              string `json:"jobId"`
	FreelancerUsername string `json:"freelancerUsername"`
}

// ReleasePaymentResponse - итог перевода средств.
type ReleasePaymentResponse struct {
	TransferID string `json:"transferId"`
}
