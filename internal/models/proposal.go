package models

import "time"

type (
	ProposalStatus string // Статус предложения
	ProjectStatus  string // Статус проекта после принятия предложения
)

const (
	PendingProposal   ProposalStatus = "pending"   // Предложение отправлено и ждет решения
	AcceptedProposal  ProposalStatus = "accepted"  // Предложение принято заказчиком
	RejectedProposal  ProposalStatus = "rejected"  // Предложение отклонено заказчиком
	WithdrawnProposal ProposalStatus = "withdrawn" // Предложение отозвано фрилансером

	OngoingProject   ProjectStatus = "ongoing"   // Работа по проекту идет
	CompletedProject ProjectStatus = "completed" // Проект завершен
)

// Proposal представляет модель предложения фрилансера по заказу.
// ProjectStatus заполняется только после принятия предложения.
type Proposal struct {
	ID                 string         `json:"id"`
	JobID              string         `json:"jobId"`
	FreelancerUsername string         `json:"freelancerUsername"`
	ClientUsername     string         `json:"clientUsername"`
	CoverLetter        string         `json:"coverLetter"`
	BidAmount          int64          `json:"bidAmount"`
	Status             ProposalStatus `json:"status"`
	ProjectStatus      *ProjectStatus `json:"projectStatus,omitempty"`
	PaymentIntentID    *string        `json:"-"`
	CreatedAt          time.Time      `json:"createdAt"`
	AcceptedAt         *time.Time     `json:"acceptedAt,omitempty"`
	RejectedAt         *time.Time     `json:"rejectedAt,omitempty"`
	CompletedAt        *time.Time     `json:"completedAt,omitempty"`
}

// ProposalRequest представляет структуру запроса для создания предложения.
type ProposalRequest struct {
	JobID              string `json:"jobId"`
	FreelancerUsername string `json:"freelancerUsername"`
	CoverLetter        string `json:"coverLetter"`
	BidAmount          int64  `json:"bidAmount"`
}

// Review представляет модель отзыва заказчика о выполненном проекте.
type Review struct {
	ID                 string    `json:"id"`
	ProposalID         string    `json:"-"`
	JobID              string    `json:"jobId"`
	FreelancerUsername string    `json:"-"`
	AuthorUsername     string    `json:"authorUsername"`
	Rating             int       `json:"rating"`
	Comment            string    `json:"comment"`
	CreatedAt          time.Time `json:"createdAt"`
}
