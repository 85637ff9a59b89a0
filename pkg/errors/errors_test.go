package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError(t *testing.T) {
	t.Run("包装后仍能识别预定义错误", func(t *testing.T) {
		err := fmt.Errorf("handler: %w", ErrForbidden)
		assert.True(t, errors.Is(err, ErrForbidden))
		assert.False(t, errors.Is(err, ErrUnauthorized))
	})

	t.Run("GetAppError包装普通错误为Internal", func(t *testing.T) {
		appErr := GetAppError(errors.New("boom"))
		assert.Equal(t, ErrCodeInternal, appErr.Code)
		assert.EqualError(t, appErr.Unwrap(), "boom")
	})

	t.Run("Error字符串包含内部错误", func(t *testing.T) {
		err := Wrap(errors.New("conn refused"), "数据库错误")
		assert.Equal(t, "[50000] 数据库错误: conn refused", err.Error())
	})
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code int
		want int
	}{
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeTokenExpired, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeBookNotFound, http.StatusNotFound},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeEmailDuplicate, http.StatusConflict},
		{ErrCodeInternal, http.StatusInternalServerError},
		{0, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("code_%d", tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.code))
		})
	}
}
