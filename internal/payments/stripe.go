package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// StripeGateway - реализация Gateway поверх Stripe.
type StripeGateway struct {
	api           *client.API
	webhookSecret string
	successURL    string
	cancelURL     string
}

// NewStripeGateway создает новый экземпляр StripeGateway.
func NewStripeGateway(secretKey, webhookSecret, successURL, cancelURL string) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{
		api:           api,
		webhookSecret: webhookSecret,
		successURL:    successURL,
		cancelURL:     cancelURL,
	}
}

// CreatePaymentIntent создает эскроу-намерение на фиксированную сумму по паре заказ+предложение.
func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, jobID, proposalID string, amount int64) (*PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
	}
	params.Context = ctx
	params.AddMetadata("jobId", jobID)
	params.AddMetadata("proposalId", proposalID)

	intent, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}
	return &PaymentIntent{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
	}, nil
}

// CreateSubscriptionCheckout создает hosted checkout сессию и возвращает URL для редиректа.
func (g *StripeGateway) CreateSubscriptionCheckout(ctx context.Context, username, priceID, plan string) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(g.successURL),
		CancelURL:         stripe.String(g.cancelURL),
		ClientReferenceID: stripe.String(username),
	}
	params.Context = ctx
	params.AddMetadata("plan", plan)

	session, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return session.URL, nil
}

// CancelSubscription отменяет подписку и возвращает дату окончания оплаченного периода.
func (g *StripeGateway) CancelSubscription(ctx context.Context, subscriptionID string) (time.Time, error) {
	params := &stripe.SubscriptionCancelParams{}
	params.Context = ctx

	sub, err := g.api.Subscriptions.Cancel(subscriptionID, params)
	if err != nil {
		return time.Time{}, fmt.Errorf("cancel subscription: %w", err)
	}
	return time.Unix(sub.CurrentPeriodEnd, 0).UTC(), nil
}

// ReleasePayment переводит удержанные средства фрилансеру.
func (g *StripeGateway) ReleasePayment(ctx context.Context, jobID, freelancerUsername, destination string, amount int64) (string, error) {
	params := &stripe.TransferParams{
		Amount:      stripe.Int64(amount),
		Currency:    stripe.String(string(stripe.CurrencyUSD)),
		Destination: stripe.String(destination),
	}
	params.Context = ctx
	params.AddMetadata("jobId", jobID)
	params.AddMetadata("freelancer", freelancerUsername)

	transfer, err := g.api.Transfers.New(params)
	if err != nil {
		return "", fmt.Errorf("release payment: %w", err)
	}
	return transfer.ID, nil
}

// ParseWebhookEvent проверяет подпись вебхука и переводит событие в нейтральный вид.
func (g *StripeGateway) ParseWebhookEvent(payload []byte, sigHeader string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, sigHeader, g.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("verify webhook signature: %w", err)
	}

	parsed := &WebhookEvent{Type: string(event.Type)}
	switch parsed.Type {
	case EventPaymentSucceeded:
		var intent struct {
			ID       string            `json:"id"`
			Metadata map[string]string `json:"metadata"`
		}
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return nil, fmt.Errorf("parse payment intent event: %w", err)
		}
		parsed.PaymentIntentID = intent.ID
		parsed.JobID = intent.Metadata["jobId"]
		parsed.ProposalID = intent.Metadata["proposalId"]
	case EventCheckoutCompleted:
		var session struct {
			ClientReferenceID string            `json:"client_reference_id"`
			Subscription      string            `json:"subscription"`
			Metadata          map[string]string `json:"metadata"`
		}
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return nil, fmt.Errorf("parse checkout session event: %w", err)
		}
		parsed.Username = session.ClientReferenceID
		parsed.Plan = session.Metadata["plan"]
		parsed.SubscriptionID = session.Subscription
	}
	return parsed, nil
}
