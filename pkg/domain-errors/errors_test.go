package domainerrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCode(t *testing.T) {
	err := New(CodeValidation, "personnummer is required")
	assert.True(t, HasCode(err, CodeValidation))
	assert.False(t, HasCode(err, CodeInternal))
	assert.False(t, HasCode(errors.New("plain"), CodeValidation))

	wrapped := fmt.Errorf("handler: %w", err)
	assert.True(t, HasCode(wrapped, CodeValidation))
}

func TestWrap(t *testing.T) {
	t.Run("keeps the cause", func(t *testing.T) {
		err := Wrap(context.DeadlineExceeded, CodeTimeout, "batch aborted")
		assert.True(t, Is(err, context.DeadlineExceeded))
		assert.Equal(t, CodeTimeout, CodeOf(err))
		assert.Equal(t, "batch aborted: context deadline exceeded", err.Error())
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, CodeInternal, "unused"))
	})
}

func TestCodeOf_DefaultsToInternal(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(CodeValidation))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(CodeBadRequest))
	assert.Equal(t, http.StatusTooManyRequests, HTTPStatus(CodeRateLimited))
	assert.Equal(t, http.StatusGatewayTimeout, HTTPStatus(CodeTimeout))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(CodeInternal))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(Code("unknown")))
}
