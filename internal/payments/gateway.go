package payments

import (
	"context"
	"time"
)

// Событийные типы вебхуков процессинга, которые обрабатывает сервис.
const (
	EventPaymentSucceeded  = "payment_intent.succeeded"
	EventCheckoutCompleted = "checkout.session.completed"
)

// PaymentIntent - созданное процессингом платежное намерение.
// Средства авторизованы, но еще не списаны.
type PaymentIntent struct {
	ID           string `json:"paymentIntentId"`
	ClientSecret string `json:"clientSecret"`
}

// WebhookEvent - нейтральное представление события процессинга.
type WebhookEvent struct {
	Type            string
	PaymentIntentID string
	JobID           string
	ProposalID      string
	Username        string
	Plan            string
	SubscriptionID  string
}

// Gateway - интерфейс для работы с платежным процессингом.
type Gateway interface {
	CreatePaymentIntent(ctx context.Context, jobID, proposalID string, amount int64) (*PaymentIntent, error)
	CreateSubscriptionCheckout(ctx context.Context, username, priceID, plan string) (string, error)
	CancelSubscription(ctx context.Context, subscriptionID string) (time.Time, error)
	ReleasePayment(ctx context.Context, jobID, freelancerUsername, destination string, amount int64) (string, error)
	ParseWebhookEvent(payload []byte, sigHeader string) (*WebhookEvent, error)
}
