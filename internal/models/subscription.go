package models

import "time"

type (
	SubscriptionPlan    string // Тарифный план подписки
	SubscriptionChannel string // Канал, через который подписка была оплачена
)

const (
	FreePlan      SubscriptionPlan = "free"      // Бесплатный план по умолчанию
	MessagesPlan  SubscriptionPlan = "messages"  // Дополнительный пакет сообщений
	MonthlyPlan   SubscriptionPlan = "monthly"   // Подписка на месяц
	SixMonthsPlan SubscriptionPlan = "sixmonths" // Подписка на полгода

	WebChannel    SubscriptionChannel = "web"        // Оплачено через веб-процессинг
	MobileChannel SubscriptionChannel = "mobile_iap" // Оплачено через нативный мост
)

// Subscription представляет модель подписки пользователя.
type Subscription struct {
	Username             string              `json:"username"`
	Plan                 SubscriptionPlan    `json:"plan"`
	IsActive             bool                `json:"isActive"`
	EndDate              *time.Time          `json:"endDate,omitempty"`
	Channel              SubscriptionChannel `json:"channel"`
	StripeSubscriptionID *string             `json:"-"`
	TransactionID        *string             `json:"-"`
	UpdatedAt            time.Time           `json:"updatedAt"`
}
