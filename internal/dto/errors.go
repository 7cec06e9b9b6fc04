package dto

// BaseError универсальный корневой формат ошибки
// Code — машинно-ориентированный код (snake_case)
// Message — краткое человеко-читаемое описание
// Detail — то же сообщение под ключом, который читает веб-клиент
// Details — дополнительная строка (пояснение)
// Fields — для валидационных ошибок (имя поля + текст)
type BaseError struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Detail  string       `json:"detail"`
	Details string       `json:"details,omitempty"`
	Fields  []FieldError `json:"fields,omitempty"`
}

// FieldError отдельная ошибка по конкретному полю
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Tag     string `json:"tag,omitempty"`
}

// ValidationErrorResponse 400
// Code: "validation_error"
type ValidationErrorResponse BaseError

// ConflictErrorResponse 409
// Пример: заказ уже обработан, телефон уже зарегистрирован
// Code: "conflict"
type ConflictErrorResponse BaseError

// UnauthorizedErrorResponse 401
// Code: "unauthorized"
type UnauthorizedErrorResponse BaseError

// ForbiddenErrorResponse 403
// Code: "forbidden"
type ForbiddenErrorResponse BaseError

// NotFoundErrorResponse 404
// Code: "not_found"
type NotFoundErrorResponse BaseError

// RateLimitedErrorResponse 429
// Code: "rate_limited"
type RateLimitedErrorResponse BaseError

// InternalErrorResponse 500
// Code: "internal_error"
type InternalErrorResponse BaseError

func newError(code, msg string) BaseError {
	return BaseError{Code: code, Message: msg, Detail: msg}
}

func NewValidationError(msg string, fields []FieldError) ValidationErrorResponse {
	e := newError("validation_error", msg)
	e.Fields = fields
	return ValidationErrorResponse(e)
}
func NewConflictError(msg string) ConflictErrorResponse {
	return ConflictErrorResponse(newError("conflict", msg))
}
func NewUnauthorizedError(msg string) UnauthorizedErrorResponse {
	return UnauthorizedErrorResponse(newError("unauthorized", msg))
}
func NewForbiddenError(msg string) ForbiddenErrorResponse {
	return ForbiddenErrorResponse(newError("forbidden", msg))
}
func NewNotFoundError(msg string) NotFoundErrorResponse {
	return NotFoundErrorResponse(newError("not_found", msg))
}
func NewRateLimitedError(msg string) RateLimitedErrorResponse {
	return RateLimitedErrorResponse(newError("rate_limited", msg))
}
func NewInternalError(details string) InternalErrorResponse {
	e := newError("internal_error", "internal server error")
	e.Details = details
	return InternalErrorResponse(e)
}
