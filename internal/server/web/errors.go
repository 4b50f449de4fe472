package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ukd-dev/ukdportal/internal/common"
)

// statusFor maps a service error to the HTTP status of a JSON answer.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrInvalidCredentials),
		errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrAccessDenied),
		errors.Is(err, common.ErrForbidden),
		errors.Is(err, common.ErrAccountBlocked):
		return http.StatusForbidden
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorAlreadyExists),
		errors.Is(err, common.ErrAlreadyFlagged):
		return http.StatusConflict
	case errors.Is(err, common.ErrTooManyAttempts):
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

// messageFor is the text shown to the user for err, in a flash or a JSON
// "error" field. Internal errors never leak their details.
func messageFor(err error) string {
	switch {
	case errors.Is(err, common.ErrInvalidCredentials):
		return "Невірний логін або пароль"
	case errors.Is(err, common.ErrAccountBlocked):
		return "Ваш акаунт заблоковано"
	case errors.Is(err, common.ErrTooManyAttempts):
		return "Забагато спроб входу. Спробуйте пізніше."
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return "Увійдіть у систему"
	case errors.Is(err, common.ErrAccessDenied):
		return "Доступ заборонено"
	case errors.Is(err, common.ErrForbidden):
		return "Дію заборонено"
	case errors.Is(err, common.ErrorNotFound):
		return "Не знайдено"
	case errors.Is(err, common.ErrorValidation):
		if _, detail, ok := strings.Cut(err.Error(), ": "); ok {
			return "Некоректні дані: " + detail
		}
		return "Некоректні дані"
	case errors.Is(err, common.ErrorAlreadyExists):
		return "Користувач з таким логіном або email вже існує"
	case errors.Is(err, common.ErrAlreadyFlagged):
		return "Скаргу вже надіслано"
	}
	return "Внутрішня помилка сервера"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (s *HTTPServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err, "request_id", RequestIDFrom(r.Context()))
	}
	writeJSON(w, status, errorResponse{Error: messageFor(err)})
}
