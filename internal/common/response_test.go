package common

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRespondWithDomainErrorPassesThroughDomainMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondWithDomainError(rec, fmt.Errorf("not enough stock for purchase: %w", ErrInsufficientStock))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "not enough stock for purchase")
}

func TestRespondWithDomainErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondWithDomainError(rec, fmt.Errorf("failed to update sweet: %w",
		fmt.Errorf("pq: connection refused at db.internal:5432")))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "Internal server error")
	require.NotContains(t, rec.Body.String(), "db.internal")
	require.NotContains(t, rec.Body.String(), "connection refused")
}

func TestHTTPStatusFromError(t *testing.T) {
	require.Equal(t, http.StatusOK, HTTPStatusFromError(nil))
	require.Equal(t, http.StatusNotFound, HTTPStatusFromError(ErrNotFound))
	require.Equal(t, http.StatusUnauthorized, HTTPStatusFromError(ErrUnauthorized))
	require.Equal(t, http.StatusForbidden, HTTPStatusFromError(ErrForbidden))
	require.Equal(t, http.StatusBadRequest, HTTPStatusFromError(ErrValidation))
	require.Equal(t, http.StatusBadRequest, HTTPStatusFromError(ErrConflict))
	require.Equal(t, http.StatusBadRequest, HTTPStatusFromError(ErrInsufficientStock))
	require.Equal(t, http.StatusInternalServerError, HTTPStatusFromError(fmt.Errorf("boom")))
}
