package apierror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/nexorasoft/veterinaria-innobov-server-sub001/internal/apierror"

	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	cases := []struct {
		err  *apierror.Error
		code int
	}{
		{apierror.Validation("campo requerido"), http.StatusBadRequest},
		{apierror.Conflict("turno duplicado"), http.StatusConflict},
		{apierror.NotFound("no existe"), http.StatusNotFound},
		{apierror.Unauthorized("sin token"), http.StatusUnauthorized},
		{apierror.Internal(), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.code, tc.err.Code)
		assert.NotEmpty(t, tc.err.Message)
	}
}

func TestFromWrappedError(t *testing.T) {
	inner := apierror.Conflict("El turno ya está cerrado")
	wrapped := fmt.Errorf("cerrando turno: %w", inner)

	e := apierror.From(wrapped)
	assert.Equal(t, http.StatusConflict, e.Code)
	assert.Equal(t, "El turno ya está cerrado", e.Message)
}

func TestFromUnknownErrorNeverLeaks(t *testing.T) {
	e := apierror.From(errors.New("pq: deadlock detected"))
	assert.Equal(t, http.StatusInternalServerError, e.Code)
	assert.NotContains(t, e.Message, "deadlock")
}

func TestIsInternal(t *testing.T) {
	assert.True(t, apierror.IsInternal(errors.New("raw db error")))
	assert.True(t, apierror.IsInternal(apierror.Internal()))
	assert.False(t, apierror.IsInternal(apierror.Validation("x")))
	assert.False(t, apierror.IsInternal(apierror.NotFound("x")))
}
