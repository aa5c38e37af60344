package bot

import "fmt"

// StorageError - ошибка чтения/записи хранилища учётных записей.
// Сообщается пользователю, текущий шаг прерывается, фаза сессии не меняется.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ProtocolError - некорректный inbound callback (нарушение wire-протокола).
// Логируется, пользователю отправляется общий ответ, состояние не меняется.
type ProtocolError struct {
	Data   string
	Reason string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol: %s: %q", e.Reason, e.Data)
}

// ValidationError - некорректный пользовательский ввод.
// Пользователь остаётся на текущем шаге и получает повторный запрос.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Reason
}
