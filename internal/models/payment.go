package models

import "time"

type PaymentStatus string // Статус эскроу-платежа по заказу

const (
	CreatedPayment   PaymentStatus = "created"   // Платежное намерение создано, оплата не подтверждена
	SucceededPayment PaymentStatus = "succeeded" // Оплата подтверждена процессингом
	ReleasedPayment  PaymentStatus = "released"  // Средства переведены фрилансеру
)

// Payment представляет модель эскроу-платежа: средства удерживаются
// до явного перевода фрилансеру после завершения проекта.
type Payment struct {
	ID              string        `json:"id"`
	JobID           string        `json:"jobId"`
	ProposalID      string        `json:"proposalId"`
	Amount          int64         `json:"amount"`
	Status          PaymentStatus `json:"status"`
	PaymentIntentID string        `json:"-"`
	TransferID      *string       `json:"-"`
	CreatedAt       time.Time     `json:"createdAt"`
}
