package respond

import (
	"encoding/json"
	"net/http"
)

// Envelope - единый формат всех ответов API.
type Envelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Count   *int         `json:"count,omitempty"`
	Data    any          `json:"data,omitempty"`
	Error   string       `json:"error,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError - ошибка валидации конкретного поля.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func JSON(w http.ResponseWriter, r *http.Request, code int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(env)
}

func OK(w http.ResponseWriter, r *http.Request, code int, message string, data any) {
	JSON(w, r, code, Envelope{Success: true, Message: message, Data: data})
}

// List добавляет count рядом с data, как того ждет листинг задач.
func List(w http.ResponseWriter, r *http.Request, count int, data any) {
	JSON(w, r, http.StatusOK, Envelope{Success: true, Count: &count, Data: data})
}

func Error(w http.ResponseWriter, r *http.Request, code int, message string) {
	JSON(w, r, code, Envelope{Success: false, Message: message})
}

func ValidationError(w http.ResponseWriter, r *http.Request, errs []FieldError) {
	JSON(w, r, http.StatusBadRequest, Envelope{
		Success: false,
		Message: "validation failed",
		Errors:  errs,
	})
}

// Internal отдает общее сообщение и текст ошибки в поле error.
func Internal(w http.ResponseWriter, r *http.Request, message string, err error) {
	env := Envelope{Success: false, Message: message}
	if err != nil {
		env.Error = err.Error()
	}
	JSON(w, r, http.StatusInternalServerError, env)
}
