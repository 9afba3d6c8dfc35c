// Пакет описания внутренних ошибок приложения
package internalerrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("key not found")                               // Ключ не найден в хранилище
	ErrEmptySubmission = errors.New("please enter either a URL or a review text") // Оба поля формы пустые
	ErrMissingURL      = errors.New("please provide a URL")                       // На странице результата нет сохраненного URL
	ErrCorruptVisits   = errors.New("visit table is corrupt")                     // Таблица посещений не разбирается как JSON
)

const (
	// MsgEmptySubmission текст ошибки валидации формы
	MsgEmptySubmission = "Please enter either a URL or a review text"
	// MsgAnalyzeFailed общий текст ошибки сети и сервера
	MsgAnalyzeFailed = "An error occurred while analyzing"
	// MsgMissingURL текст ошибки страницы результата
	MsgMissingURL = "Please provide a URL"
)

// TransportError запрос не удалось отправить или прочитать ответ
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError оборачивает ошибку транспорта
func NewTransportError(err error) error {
	return &TransportError{Err: err}
}

// ServerError сервер ответил статусом не из 2xx
type ServerError struct {
	Status int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("network response was not ok: status %d", e.Status)
}

// NewServerError ошибка по коду ответа
func NewServerError(status int) error {
	return &ServerError{Status: status}
}

// UserMessage текст, который показывается пользователю в форме или на странице результата
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptySubmission):
		return MsgEmptySubmission
	case errors.Is(err, ErrMissingURL):
		return MsgMissingURL
	default:
		return MsgAnalyzeFailed
	}
}
