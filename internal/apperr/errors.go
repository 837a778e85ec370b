package apperr

import (
	"errors"
	"fmt"
)

// Kind категория ошибки ядра. Все ошибки восстановимые в рамках запроса,
// автоматических ретраев нет: конфликт вместимости или пересечения это
// окончательный ответ, а не временный сбой.
type Kind string

const (
	KindValidation    Kind = "VALIDATION"    // некорректный ввод, ошибка вызывающего
	KindAuthorization Kind = "AUTHORIZATION" // не та роль или не владелец ресурса
	KindNotFound      Kind = "NOT_FOUND"     // слот/бронирование/запись не найдены
	KindConflict      Kind = "CONFLICT"      // пересечение слотов или заполненная вместимость
	KindState         Kind = "STATE"         // операция несовместима с текущим состоянием
)

// Error ошибка с категорией и сообщением для вызывающего
type Error struct {
	Kind    Kind   `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error реализует интерфейс error
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap позволяет использовать errors.Is и errors.As
func (e *Error) Unwrap() error {
	return e.Err
}

// Validation ошибка валидации ввода
func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Authorization ошибка доступа
func Authorization(format string, args ...any) *Error {
	return &Error{Kind: KindAuthorization, Message: fmt.Sprintf(format, args...)}
}

// NotFound ресурс не найден
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflict конфликт инварианта (пересечение окон, слот заполнен)
func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// State операция невозможна в текущем состоянии
func State(format string, args ...any) *Error {
	return &Error{Kind: KindState, Message: fmt.Sprintf(format, args...)}
}

// IsKind проверяет категорию ошибки через errors.As
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// KindOf возвращает категорию ошибки, пустую строку если это не *Error
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
