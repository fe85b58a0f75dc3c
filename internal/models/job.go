package models

import "time"

type JobStatus string // Статус заказа

const (
	OpenJob       JobStatus = "open"        // Заказ открыт для предложений
	InProgressJob JobStatus = "in_progress" // Работа над заказом идет
	CompletedJob  JobStatus = "completed"   // Заказ завершен
	CancelledJob  JobStatus = "cancelled"   // Заказ отменен
)

// Job представляет модель заказа.
type Job struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Budget         int64     `json:"budget"`
	Status         JobStatus `json:"status"`
	ProposalCount  int       `json:"proposalCount"`
	Version        int32     `json:"version"`
	CreatedAt      time.Time `json:"createdAt"`
	ClientUsername string    `json:"-"`
}

// JobRequest представляет структуру запроса для создания или обновления заказа.
type JobRequest struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	Budget         int64  `json:"budget"`
	ClientUsername string `json:"clientUsername"`
}
