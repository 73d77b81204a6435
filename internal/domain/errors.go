package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrForeignKeyViolation возвращается хранилищем, если удаление нарушает внешний ключ.
	ErrForeignKeyViolation = errors.New("foreign key violation")
	// ErrUniqueViolation возвращается хранилищем при нарушении уникального индекса.
	ErrUniqueViolation = errors.New("unique violation")
	// ErrOutboxPublish - ошибка при публикации сообщения из outbox.
	ErrOutboxPublish = errors.New("outbox publish failed")
)

// ErrorKind классифицирует ошибки, которые сервис отдаёт наружу.
type ErrorKind int

const (
	// KindInternal - всё неожиданное, в том числе сбои хранилища.
	KindInternal ErrorKind = iota
	// KindNotFound - компания/продукт не найдены или выборка пуста.
	KindNotFound
	// KindAlreadyExists - нарушена уникальность имени.
	KindAlreadyExists
	// KindIsBeingUsed - удаление заблокировано ссылочной целостностью.
	KindIsBeingUsed
	// KindInvalidArgument - некорректный входной запрос.
	KindInvalidArgument
)

// String возвращает имя вида ошибки для логов и метрик.
func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindAlreadyExists:
		return "already_exists"
	case KindIsBeingUsed:
		return "is_being_used"
	case KindInvalidArgument:
		return "invalid_argument"
	default:
		return "internal"
	}
}

// Error - ошибка сервиса с явным видом.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message == "" && e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound создаёт ошибку вида KindNotFound.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// AlreadyExists создаёт ошибку вида KindAlreadyExists.
func AlreadyExists(format string, args ...any) *Error {
	return &Error{Kind: KindAlreadyExists, Message: fmt.Sprintf(format, args...)}
}

// IsBeingUsed создаёт ошибку вида KindIsBeingUsed.
func IsBeingUsed(format string, args ...any) *Error {
	return &Error{Kind: KindIsBeingUsed, Message: fmt.Sprintf(format, args...)}
}

// InvalidArgument создаёт ошибку вида KindInvalidArgument.
func InvalidArgument(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// Internal оборачивает неожиданную ошибку. Уже классифицированные ошибки возвращаются как есть.
func Internal(err error) error {
	if err == nil {
		return nil
	}
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return err
	}
	return &Error{Kind: KindInternal, Message: err.Error(), Err: err}
}

// KindOf возвращает вид ошибки; ошибки вне домена считаются внутренними.
func KindOf(err error) ErrorKind {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return KindInternal
}

// IsKind проверяет, что err относится к заданному виду.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

// IsExpected сообщает, что ошибка ожидаемая и отдаётся вызывающему без изменений.
func IsExpected(err error) bool {
	if err == nil {
		return false
	}
	switch KindOf(err) {
	case KindNotFound, KindAlreadyExists, KindIsBeingUsed, KindInvalidArgument:
		return true
	default:
		return false
	}
}
