package models

// ErrorResponse описывает ошибку с кодом и сообщением.
// Retryable подсказывает клиенту, что действие можно повторить без изменений.
type ErrorResponse struct {
	StatusCode int    `json:"-"`
	Message    string `json:"reason"`
	Retryable  bool   `json:"retryable,omitempty"`
}

// NewErrorResponse создает новую ошибку с кодом и сообщением.
func NewErrorResponse(statusCode int, message string) *ErrorResponse {
	return &ErrorResponse{
		StatusCode: statusCode,
		Message:    message}
}

// NewRetryableError создает ошибку, которую клиент может безопасно повторить.
func NewRetryableError(statusCode int, message string) *ErrorResponse {
	return &ErrorResponse{
		StatusCode: statusCode,
		Message:    message,
		Retryable:  true}
}

// Реализация метода Error() для удовлетворения интерфейса error.
func (e *ErrorResponse) Error() string {
	return e.Message
}
