package platform

import (
	"github.com/senyabanana/freelance-service/internal/models"
)

// Context - результат однократного определения платформы для сессии.
// Потребители никогда не видят ошибку: при любом сбое детектора
// возвращаются веб-значения по умолчанию.
type Context struct {
	Platform      models.PlatformInfo  `json:"platform"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod"`
	Fallback      bool                 `json:"fallback,omitempty"`
}

// NewContext вычисляет контекст платформы один раз за сессию.
// Паника внутри детектора гасится и заменяется веб-значениями.
func NewContext(detect func() models.PlatformInfo) (pc Context) {
	defer func() {
		if r := recover(); r != nil {
			pc = webFallback()
		}
	}()

	info := detect()
	return Context{
		Platform:      info,
		PaymentMethod: SelectPaymentMethod(info),
	}
}

func webFallback() Context {
	return Context{
		Platform:      models.PlatformInfo{IsWeb: true},
		PaymentMethod: models.WebProcessor,
		Fallback:      true,
	}
}
