package handlers

import (
	"encoding/json"

	"frontline-server/internal/domain"
	"frontline-server/pkg/battlefield"
)

// Context передает хендлеру состояние матча.
// Мы передаем ссылки, чтобы хендлер мог менять состояние (мутировать данные).
type Context struct {
	Store  *domain.Store
	Layout battlefield.Layout

	// Actor - игрок, от имени которого выполняется команда.
	Actor *domain.Player

	Tick int64

	// Emit кладет доменное событие в очередь матча.
	Emit func(domain.Event)
}

// Result - результат выполнения команды.
// Хендлер НЕ пишет клиенту напрямую, он возвращает данные.
type Result struct {
	// Error уходит только автору команды (код + текст).
	Error *ResultError
}

// ResultError - отклонение команды. Это штатный ответ, не сбой сервера.
type ResultError struct {
	Code    string
	Message string
}

// HandlerFunc - контракт для любой команды (MOVE, ATTACK, etc).
type HandlerFunc func(ctx Context, payload json.RawMessage) (Result, error)

// EmptyResult - пустой успешный ответ.
func EmptyResult() Result {
	return Result{}
}

// Reject - стандартное отклонение команды.
func Reject(code, msg string) Result {
	return Result{Error: &ResultError{Code: code, Message: msg}}
}
