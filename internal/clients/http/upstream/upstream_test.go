package upstream

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadBody(t *testing.T) {
	body, err := ReadBody(strings.NewReader("12345"), 5)
	require.NoError(t, err)
	require.Equal(t, "12345", string(body))

	_, err = ReadBody(strings.NewReader("123456"), 5)
	require.ErrorIs(t, err, ErrTooLarge)
}

func TestError_KeepsResponseAndCause(t *testing.T) {
	cause := errors.New("wallet list upstream failed")
	resp := &http.Response{StatusCode: http.StatusTooManyRequests, Header: http.Header{"Content-Type": {"text/plain"}}}

	err := NewError(resp, []byte("slow down"), cause)
	require.ErrorIs(t, err, cause)
	require.Equal(t, http.StatusTooManyRequests, err.StatusCode)
	require.Equal(t, "text/plain", err.ContentType)
	require.Equal(t, "slow down", string(err.Body))
	require.Contains(t, err.Error(), "429")
}
