package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	cause := errors.New("pq: broken")
	wrapped := fmt.Errorf("load: %w", NotFound("Video %s", "missing").Wrap(cause))

	e := From(wrapped)
	assert.Equal(t, http.StatusNotFound, e.Status)
	assert.Equal(t, "Video missing", e.Message)
	assert.ErrorIs(t, wrapped, cause)

	internal := From(cause)
	assert.Equal(t, http.StatusInternalServerError, internal.Status)
	assert.Equal(t, "Something went wrong", internal.Message)
	assert.ErrorIs(t, internal, cause)
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusOf(BadRequest("x")))
	assert.Equal(t, http.StatusUnauthorized, StatusOf(Unauthorized("x")))
	assert.Equal(t, http.StatusConflict, StatusOf(Conflict("x")))
	assert.Equal(t, http.StatusTooManyRequests, StatusOf(TooManyRequests("x")))
}
