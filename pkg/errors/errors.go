package errors

import "fmt"

var (
	// JWT и токены
	ErrInvalidSigningMethod = fmt.Errorf("неверный метод подписи токена")
	ErrInvalidToken         = fmt.Errorf("недопустимый токен")
	ErrTokenExpired         = fmt.Errorf("срок действия токена истёк")
	ErrTokenIsNotAccess     = fmt.Errorf("токен не является access-токеном")

	// Авторизация
	ErrEmptyAuthHeader   = fmt.Errorf("заголовок авторизации отсутствует")
	ErrInvalidAuthHeader = fmt.Errorf("неверный формат заголовка авторизации")
	ErrUnauthorized      = fmt.Errorf("неавторизован")

	// Контекст
	ErrUserIDNotFoundInContext = fmt.Errorf("UserID не найден в контексте запроса")

	// Переходы статусов
	ErrAlreadyInProgress         = fmt.Errorf("по заявке уже выполняется смена статуса, повторите попытку")
	ErrPersistenceConflict       = fmt.Errorf("статус заявки был изменён другим пользователем, повторите попытку")
	ErrRevertReasonRequired      = fmt.Errorf("для отката статуса необходимо указать причину")
	ErrRequiredActionsIncomplete = fmt.Errorf("не выполнены обязательные действия для перехода")
	ErrSkipReasonRequired        = fmt.Errorf("для пропуска обязательных действий необходимо указать причину")
	ErrSkipNotAllowed            = fmt.Errorf("пропуск обязательных действий для этого перехода запрещён")

	// Общие
	ErrNotFound   = fmt.Errorf("запись не найдена")
	ErrBadRequest = fmt.Errorf("неверный запрос")
	ErrConflict   = fmt.Errorf("конфликт данных")
)

// Кастомные типы ошибок
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

func NewInvalidInputError(format string, args ...interface{}) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}

// HttpError - ошибка с HTTP-кодом, сообщением для пользователя и внутренней причиной для логов.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Context map[string]interface{}
	Details interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, context map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Context: context}
}
