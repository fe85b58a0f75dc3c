package services

import (
	"context"
	"errors"
	"time"

	"github.com/senyabanana/freelance-service/internal/models"
	"github.com/senyabanana/freelance-service/internal/payments"

	"github.com/jackc/pgx/v5"
)

var errNotImplemented = errors.New("not implemented in fake")

// fakeProposalRepo - фейковый репозиторий предложений для проверки переходов
// без базы данных.
type fakeProposalRepo struct {
	proposals map[string]*models.Proposal

	registeredIntents []models.Payment
	rejected          []string
	withdrawn         []string
	completed         []string
	reviews           []models.Review

	jobStatus      map[string]models.JobStatus
	proposalCounts map[string]int
}

func newFakeProposalRepo(proposals ...*models.Proposal) *fakeProposalRepo {
	repo := &fakeProposalRepo{
		proposals:      make(map[string]*models.Proposal),
		jobStatus:      make(map[string]models.JobStatus),
		proposalCounts: make(map[string]int),
	}
	for _, p := range proposals {
		repo.proposals[p.ID] = p
	}
	return repo
}

func (f *fakeProposalRepo) CreateProposal(ctx context.Context, req models.ProposalRequest, clientUsername string) (*models.Proposal, error) {
	return nil, errNotImplemented
}

func (f *fakeProposalRepo) GetUserProposals(ctx context.Context, limit, offset int, username string) ([]models.Proposal, error) {
	return nil, errNotImplemented
}

func (f *fakeProposalRepo) GetJobProposals(ctx context.Context, jobId string, limit, offset int) ([]models.Proposal, error) {
	return nil, errNotImplemented
}

func (f *fakeProposalRepo) GetProposalByID(ctx context.Context, proposalId string) (*models.Proposal, error) {
	p, ok := f.proposals[proposalId]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *p
	return &copied, nil
}

func (f *fakeProposalRepo) GetProposalStatus(ctx context.Context, proposalId string) (*models.ProposalStatus, error) {
	p, ok := f.proposals[proposalId]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &p.Status, nil
}

func (f *fakeProposalRepo) RegisterPaymentIntent(ctx context.Context, proposalId string, payment models.Payment) error {
	p, ok := f.proposals[proposalId]
	if !ok || p.Status != models.PendingProposal {
		return pgx.ErrNoRows
	}
	intentID := payment.PaymentIntentID
	p.PaymentIntentID = &intentID
	f.registeredIntents = append(f.registeredIntents, payment)
	return nil
}

func (f *fakeProposalRepo) AcceptProposalByIntent(ctx context.Context, paymentIntentId string) (*models.Proposal, error) {
	for _, p := range f.proposals {
		if p.PaymentIntentID != nil && *p.PaymentIntentID == paymentIntentId && p.Status == models.PendingProposal {
			now := time.Now().UTC()
			ongoing := models.OngoingProject
			p.Status = models.AcceptedProposal
			p.ProjectStatus = &ongoing
			p.AcceptedAt = &now
			f.jobStatus[p.JobID] = models.InProgressJob
			f.proposalCounts[p.JobID]++
			copied := *p
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeProposalRepo) RejectProposal(ctx context.Context, proposalId string) (*models.Proposal, error) {
	p, ok := f.proposals[proposalId]
	if !ok || p.Status != models.PendingProposal {
		return nil, pgx.ErrNoRows
	}
	now := time.Now().UTC()
	p.Status = models.RejectedProposal
	p.RejectedAt = &now
	f.rejected = append(f.rejected, proposalId)
	copied := *p
	return &copied, nil
}

func (f *fakeProposalRepo) WithdrawProposal(ctx context.Context, proposalId string) (*models.Proposal, error) {
	p, ok := f.proposals[proposalId]
	if !ok || p.Status != models.PendingProposal {
		return nil, pgx.ErrNoRows
	}
	p.Status = models.WithdrawnProposal
	f.withdrawn = append(f.withdrawn, proposalId)
	copied := *p
	return &copied, nil
}

func (f *fakeProposalRepo) CompleteProject(ctx context.Context, proposalId string) (*models.Proposal, error) {
	p, ok := f.proposals[proposalId]
	if !ok || p.ProjectStatus == nil || *p.ProjectStatus != models.OngoingProject {
		return nil, pgx.ErrNoRows
	}
	now := time.Now().UTC()
	completed := models.CompletedProject
	p.ProjectStatus = &completed
	p.CompletedAt = &now
	f.completed = append(f.completed, proposalId)
	copied := *p
	return &copied, nil
}

func (f *fakeProposalRepo) SubmitFeedback(ctx context.Context, review models.Review, newAverage float64) error {
	f.reviews = append(f.reviews, review)
	return nil
}

func (f *fakeProposalRepo) GetFreelancerReviews(ctx context.Context, freelancerUsername string, limit, offset int) ([]models.Review, error) {
	return f.reviews, nil
}

// fakeGateway - фейковый процессинг с настраиваемыми отказами.
type fakeGateway struct {
	failIntent   bool
	failCheckout bool

	intents     []payments.PaymentIntent
	checkouts   []string
	cancelled   []string
	transfers   []string
	parsedEvent *payments.WebhookEvent
	parseErr    error
}

func (f *fakeGateway) CreatePaymentIntent(ctx context.Context, jobID, proposalID string, amount int64) (*payments.PaymentIntent, error) {
	if f.failIntent {
		return nil, errors.New("processor unavailable")
	}
	intent := payments.PaymentIntent{ID: "pi_" + proposalID, ClientSecret: "secret_" + proposalID}
	f.intents = append(f.intents, intent)
	return &intent, nil
}

func (f *fakeGateway) CreateSubscriptionCheckout(ctx context.Context, username, priceID, plan string) (string, error) {
	if f.failCheckout {
		return "", errors.New("processor unavailable")
	}
	f.checkouts = append(f.checkouts, priceID)
	return "https://checkout.example.com/" + priceID, nil
}

func (f *fakeGateway) CancelSubscription(ctx context.Context, subscriptionID string) (time.Time, error) {
	f.cancelled = append(f.cancelled, subscriptionID)
	return time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC), nil
}

func (f *fakeGateway) ReleasePayment(ctx context.Context, jobID, freelancerUsername, destination string, amount int64) (string, error) {
	f.transfers = append(f.transfers, jobID)
	return "tr_1", nil
}

func (f *fakeGateway) ParseWebhookEvent(payload []byte, sigHeader string) (*payments.WebhookEvent, error) {
	if f.parseErr != nil {
		return nil, f.parseErr
	}
	return f.parsedEvent, nil
}

// fakeSubscriptionRepo - фейковый репозиторий подписок.
type fakeSubscriptionRepo struct {
	subs      map[string]*models.Subscription
	activated []models.Subscription
	cancelled []string
}

func newFakeSubscriptionRepo(subs ...*models.Subscription) *fakeSubscriptionRepo {
	repo := &fakeSubscriptionRepo{subs: make(map[string]*models.Subscription)}
	for _, sub := range subs {
		repo.subs[sub.Username] = sub
	}
	return repo
}

func (f *fakeSubscriptionRepo) GetSubscription(ctx context.Context, username string) (*models.Subscription, error) {
	if sub, ok := f.subs[username]; ok {
		copied := *sub
		return &copied, nil
	}
	return &models.Subscription{Username: username, Plan: models.FreePlan, Channel: models.WebChannel}, nil
}

func (f *fakeSubscriptionRepo) Activate(ctx context.Context, sub models.Subscription) error {
	copied := sub
	f.subs[sub.Username] = &copied
	f.activated = append(f.activated, sub)
	return nil
}

func (f *fakeSubscriptionRepo) Cancel(ctx context.Context, username string, endDate time.Time) error {
	f.cancelled = append(f.cancelled, username)
	return nil
}

// fakeJobRepo - фейковый репозиторий заказов для проверки переходов статусов.
type fakeJobRepo struct {
	jobs map[string]*models.Job

	statusUpdates []string
}

func newFakeJobRepo(jobs ...*models.Job) *fakeJobRepo {
	repo := &fakeJobRepo{jobs: make(map[string]*models.Job)}
	for _, job := range jobs {
		repo.jobs[job.ID] = job
	}
	return repo
}

func (f *fakeJobRepo) GetJobs(ctx context.Context, limit, offset int, statuses []string) ([]models.Job, error) {
	var jobs []models.Job
	for _, job := range f.jobs {
		jobs = append(jobs, *job)
	}
	return jobs, nil
}

func (f *fakeJobRepo) CreateJob(ctx context.Context, jobReq models.JobRequest) (*models.Job, error) {
	return nil, errNotImplemented
}

func (f *fakeJobRepo) GetUserJobs(ctx context.Context, limit, offset int, username string) ([]models.Job, error) {
	return nil, errNotImplemented
}

func (f *fakeJobRepo) GetJobByID(ctx context.Context, jobId string) (*models.Job, error) {
	job, ok := f.jobs[jobId]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *job
	return &copied, nil
}

func (f *fakeJobRepo) GetJobStatus(ctx context.Context, jobId string) (models.JobStatus, error) {
	job, ok := f.jobs[jobId]
	if !ok {
		return "", pgx.ErrNoRows
	}
	return job.Status, nil
}

func (f *fakeJobRepo) UpdateJobStatus(ctx context.Context, jobId, status string) (*models.Job, error) {
	job, ok := f.jobs[jobId]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	job.Status = models.JobStatus(status)
	f.statusUpdates = append(f.statusUpdates, jobId+":"+status)
	copied := *job
	return &copied, nil
}

func (f *fakeJobRepo) EditJob(ctx context.Context, jobId string, updateFields map[string]interface{}) (*models.Job, error) {
	return nil, errNotImplemented
}

func (f *fakeJobRepo) RollbackJob(ctx context.Context, jobId string, version int) (*models.Job, error) {
	return nil, errNotImplemented
}

// fakePaymentRepo - фейковый репозиторий эскроу-платежей.
type fakePaymentRepo struct {
	releasable    *models.Payment
	payoutAccount string

	released []string
}

func (f *fakePaymentRepo) GetReleasablePayment(ctx context.Context, jobId, freelancerUsername string) (*models.Payment, error) {
	if f.releasable == nil || f.releasable.JobID != jobId {
		return nil, pgx.ErrNoRows
	}
	copied := *f.releasable
	return &copied, nil
}

func (f *fakePaymentRepo) MarkReleased(ctx context.Context, paymentId, transferId string) error {
	f.released = append(f.released, paymentId)
	f.releasable.Status = models.ReleasedPayment
	transfer := transferId
	f.releasable.TransferID = &transfer
	return nil
}

func (f *fakePaymentRepo) GetPaymentByProposal(ctx context.Context, proposalId string) (*models.Payment, error) {
	if f.releasable == nil || f.releasable.ProposalID != proposalId {
		return nil, pgx.ErrNoRows
	}
	copied := *f.releasable
	return &copied, nil
}

func (f *fakePaymentRepo) GetPayoutAccount(ctx context.Context, username string) (string, error) {
	if f.payoutAccount == "" {
		return "", errors.New("no payout account configured for " + username)
	}
	return f.payoutAccount, nil
}

// fakeValidator - фейковая проверка чеков.
type fakeValidator struct {
	info *payments.ReceiptInfo
	err  error
}

func (f *fakeValidator) Validate(ctx context.Context, receiptData string) (*payments.ReceiptInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.info, nil
}
