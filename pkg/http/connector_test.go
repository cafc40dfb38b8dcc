package http

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsTransientError(t *testing.T) {
	netErr := &NetworkError{Err: errors.New("connection refused")}
	require.True(t, IsTransientError(netErr))
	require.True(t, IsTransientError(fmt.Errorf("embed: %w", netErr)))

	httpErr := &HTTPError{StatusCode: 500, Message: "boom"}
	require.False(t, IsTransientError(httpErr))
	require.False(t, IsTransientError(errors.New("plain")))
	require.False(t, IsTransientError(nil))
}

func TestNetworkErrorUnwrap(t *testing.T) {
	inner := errors.New("dial timeout")
	err := &NetworkError{Err: inner}
	require.ErrorIs(t, err, inner)
	require.Contains(t, err.Error(), "dial timeout")
}

func TestHTTPErrorMessage(t *testing.T) {
	err := &HTTPError{StatusCode: 404, Message: "not found"}
	require.Equal(t, "HTTP 404: not found", err.Error())
}
