package web

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ukd-dev/ukdportal/internal/common"
)

func TestStatusAndMessage(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		message string
	}{
		{common.ErrInvalidCredentials, http.StatusUnauthorized, "Невірний логін або пароль"},
		{common.ErrTokenExpired, http.StatusUnauthorized, "Увійдіть у систему"},
		{common.ErrAccountBlocked, http.StatusForbidden, "Ваш акаунт заблоковано"},
		{common.ErrAccessDenied, http.StatusForbidden, "Доступ заборонено"},
		{fmt.Errorf("load: %w", common.ErrorNotFound), http.StatusNotFound, "Не знайдено"},
		{fmt.Errorf("%w: deadline is required", common.ErrorValidation), http.StatusBadRequest, "Некоректні дані: deadline is required"},
		{common.ErrorValidation, http.StatusBadRequest, "Некоректні дані"},
		{common.ErrorAlreadyExists, http.StatusConflict, "Користувач з таким логіном або email вже існує"},
		{common.ErrAlreadyFlagged, http.StatusConflict, "Скаргу вже надіслано"},
		{common.ErrTooManyAttempts, http.StatusTooManyRequests, "Забагато спроб входу. Спробуйте пізніше."},
		{errors.New("disk on fire"), http.StatusInternalServerError, "Внутрішня помилка сервера"},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.status, statusFor(tt.err))
			assert.Equal(t, tt.message, messageFor(tt.err))
		})
	}
}
