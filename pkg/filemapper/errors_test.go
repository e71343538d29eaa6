package filemapper

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIError_Error(t *testing.T) {
	err := NewAPIError(http.StatusNotFound, http.MethodDelete, "dest/a.html", "")
	assert.Equal(t, "DELETE dest/a.html: 404 remote path not found", err.Error())

	bare := &APIError{StatusCode: 500, Message: "boom"}
	assert.Equal(t, "file mapper error: 500 boom", bare.Error())
}

func TestAPIError_Classification(t *testing.T) {
	tests := []struct {
		status    int
		temporary bool
		auth      bool
		notFound  bool
	}{
		{http.StatusTooManyRequests, true, false, false},
		{http.StatusBadGateway, true, false, false},
		{http.StatusUnauthorized, false, true, false},
		{http.StatusForbidden, false, true, false},
		{http.StatusNotFound, false, false, true},
		{http.StatusBadRequest, false, false, false},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			err := NewAPIError(tt.status, http.MethodPost, "p", "")
			assert.Equal(t, tt.temporary, err.IsTemporary())
			assert.Equal(t, tt.auth, err.IsAuthError())
			assert.Equal(t, tt.notFound, err.IsNotFound())
		})
	}
}

func TestNewAPIError_UnknownStatus(t *testing.T) {
	err := NewAPIError(599, http.MethodPost, "p", "")
	assert.Equal(t, "unknown error", err.Message)
}

func TestAsAPIError_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("upload failed: %w", NewAPIError(http.StatusConflict, http.MethodPost, "p", ""))

	apiErr, ok := AsAPIError(wrapped)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)

	_, ok = AsAPIError(fmt.Errorf("plain"))
	assert.False(t, ok)
}
