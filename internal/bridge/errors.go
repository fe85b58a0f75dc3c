package bridge

import "errors"

type Kind int // Вид ошибки моста

const (
	Unavailable Kind = iota + 1 // Мост не подключен к встраивающему приложению
	Timeout                     // Ответ не пришел за отведенное время
	Cancelled                   // Пользователь отменил покупку
	Malformed                   // Ответ моста не удалось разобрать
	Rejected                    // Магазин отклонил покупку
)

// Error - ошибка обмена с нативным мостом. Закрытый набор видов
// вместо разбора текста сообщений на стороне вызывающего кода.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	switch e.Kind {
	case Unavailable:
		return "purchase bridge is not available"
	case Timeout:
		return "purchase request timed out"
	case Cancelled:
		return "purchase was cancelled"
	case Malformed:
		return "malformed bridge response: " + e.Message
	case Rejected:
		if e.Message != "" {
			return "purchase was rejected: " + e.Message
		}
		return "purchase was rejected"
	}
	return e.Message
}

// Retryable сообщает, можно ли повторить запрос без изменений.
// Повторяем только таймаут: остальные виды требуют действий пользователя.
func (e *Error) Retryable() bool {
	return e.Kind == Timeout
}

// KindOf возвращает вид ошибки моста или 0, если ошибка не от моста.
func KindOf(err error) Kind {
	var bridgeErr *Error
	if errors.As(err, &bridgeErr) {
		return bridgeErr.Kind
	}
	return 0
}
