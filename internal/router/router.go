package router

import (
	"net/http"

	"github.com/senyabanana/freelance-service/internal/handlers"
)

func InitRoutes(
	jobHandler *handlers.JobHandler,
	proposalHandler *handlers.ProposalHandler,
	subscriptionHandler *handlers.SubscriptionHandler,
	paymentHandler *handlers.PaymentHandler,
	bridgeHandler *handlers.BridgeHandler,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/ping", handlers.PingHandler)
	mux.HandleFunc("/api/platform", handlers.PlatformHandler)

	mux.HandleFunc("/api/jobs", jobHandler.GetJobs)
	mux.HandleFunc("/api/jobs/new", jobHandler.CreateJob)
	mux.HandleFunc("/api/jobs/my", jobHandler.GetUserJobs)
	mux.HandleFunc("GET /api/jobs/{jobId}/status", jobHandler.GetJobStatus)
	mux.HandleFunc("PUT /api/jobs/{jobId}/status", jobHandler.UpdateJobStatus)
	mux.HandleFunc("/api/jobs/{jobId}/edit", jobHandler.EditJob)
	mux.HandleFunc("/api/jobs/{jobId}/rollback/{version}", jobHandler.RollbackJob)

	mux.HandleFunc("/api/proposals/new", proposalHandler.CreateProposal)
	mux.HandleFunc("/api/proposals/my", proposalHandler.GetUserProposals)
	mux.HandleFunc("/api/proposals/{jobId}/list", proposalHandler.GetJobProposals)
	mux.HandleFunc("/api/proposals/{proposalId}/status", proposalHandler.GetProposalStatus)
	mux.HandleFunc("/api/proposals/{proposalId}/accept", proposalHandler.AcceptProposal)
	mux.HandleFunc("/api/proposals/{proposalId}/reject", proposalHandler.RejectProposal)
	mux.HandleFunc("/api/proposals/{proposalId}/withdraw", proposalHandler.WithdrawProposal)
	mux.HandleFunc("/api/proposals/{proposalId}/complete", proposalHandler.CompleteProject)
	mux.HandleFunc("/api/proposals/{proposalId}/feedback", proposalHandler.SubmitFeedback)
	mux.HandleFunc("/api/freelancers/{username}/reviews", proposalHandler.GetFreelancerReviews)

	mux.HandleFunc("/api/subscriptions/checkout", subscriptionHandler.Checkout)
	mux.HandleFunc("/api/subscriptions/receipt", subscriptionHandler.ValidateReceipt)
	mux.HandleFunc("/api/subscriptions/cancel", subscriptionHandler.Cancel)
	mux.HandleFunc("/api/subscriptions/my", subscriptionHandler.GetSubscription)

	mux.HandleFunc("/api/payments/release", paymentHandler.ReleasePayment)
	mux.HandleFunc("/api/payments/webhook", paymentHandler.Webhook)

	mux.HandleFunc("/api/bridge/messages", bridgeHandler.GetMessages)
	mux.HandleFunc("/api/bridge/response", bridgeHandler.PostResponse)

	return mux
}
