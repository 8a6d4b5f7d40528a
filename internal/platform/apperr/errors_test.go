package apperr

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeValidation:      http.StatusBadRequest,
		CodeUnauthenticated: http.StatusUnauthorized,
		CodeForbidden:       http.StatusForbidden,
		CodeNotFound:        http.StatusNotFound,
		CodeConflict:        http.StatusConflict,
		CodeInternal:        http.StatusInternalServerError,
		Code("SOMETHING"):   http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, code.HTTPStatus(), code)
	}
}

func TestIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("load order: %w", NotFound("order not found"))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrConflict))
	assert.Equal(t, CodeNotFound, CodeOf(err))
}

func TestWrapKeepsCause(t *testing.T) {
	err := Wrap(CodeNotFound, "user not found", sql.ErrNoRows)

	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.Equal(t, "user not found: sql: no rows in result set", err.Error())
}

func TestCodeOfPlainError(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
}

func TestAs(t *testing.T) {
	e, ok := As(fmt.Errorf("x: %w", ValidationFields("bad", map[string]string{"email": "required"})))
	if assert.True(t, ok) {
		assert.Equal(t, "required", e.Fields["email"])
	}
}
