package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindForStatus(t *testing.T) {
	t.Parallel()

	cases := map[int]error{
		http.StatusUnauthorized:        ErrUnauthorized,
		http.StatusForbidden:           ErrUnauthorized,
		http.StatusBadRequest:          ErrValidation,
		http.StatusNotFound:            ErrValidation,
		http.StatusUnprocessableEntity: ErrValidation,
		http.StatusInternalServerError: ErrServer,
		http.StatusBadGateway:          ErrServer,
	}
	for code, want := range cases {
		require.Equal(t, want, KindForStatus(code), "status %d", code)
	}
}

func TestAPIError_IsAndMessage(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("create asset: %w", New(ErrValidation, 422, "serial already registered"))
	require.ErrorIs(t, err, ErrValidation)
	require.False(t, errors.Is(err, ErrServer))
	require.Equal(t, "serial already registered", Message(err))
	require.Equal(t, ErrValidation, KindOf(err))
	require.False(t, Transient(err))

	require.True(t, Transient(New(ErrNetwork, 0, "network error: refused")))
	require.True(t, Transient(New(ErrServer, 503, "HTTP error! status: 503")))
}

func TestMessage_Fallbacks(t *testing.T) {
	t.Parallel()

	require.Equal(t, "", Message(nil))
	require.Equal(t, "boom", Message(errors.New("boom")))
	require.Equal(t, "HTTP error! status: 500", StatusMessage(500))
	require.Equal(t, ErrNetwork, KindOf(fmt.Errorf("x: %w", ErrNetwork)))
	require.Nil(t, KindOf(errors.New("plain")))
}
