package resp_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/trailhead/http/resp"
)

func TestHTTPTransport(t *testing.T) {
	// Arrange
	w := httptest.NewRecorder()
	tr := resp.NewHTTPTransport(w, "")

	// Assert
	require.False(t, tr.HeadersSent())
	require.Equal(t, "HTTP/1.1", tr.Protocol())

	// Act
	_, err := tr.Write([]byte("implicit"))

	// Assert
	require.Nil(t, err)
	require.True(t, tr.HeadersSent())
	require.Equal(t, http.StatusOK, tr.Status())

	// Act
	tr.WriteStatus("HTTP/1.1", http.StatusTeapot, "ignored")

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, w, tr.Unwrap())
}

func TestStreamTransportImplicitStatus(t *testing.T) {
	// Arrange
	b := new(bytes.Buffer)
	tr := resp.NewStreamTransport(b, "")
	tr.Header().Add("Set-Cookie", "a=1")
	tr.Header().Add("Set-Cookie", "b=2")

	// Act
	_, err := tr.Write([]byte("body"))

	// Assert
	require.Nil(t, err)
	require.Nil(t, tr.Flush())
	require.Equal(t, "HTTP/1.1 200 OK\r\nSet-Cookie: a=1\r\nSet-Cookie: b=2\r\n\r\nbody", b.String())
}

func TestCGITransport(t *testing.T) {
	// Arrange
	b := new(bytes.Buffer)
	tr := resp.NewCGITransport(b)
	r := resp.New("gone", resp.Code(http.StatusNotFound))

	// Act
	err := r.Send(tr)

	// Assert
	require.Nil(t, err)
	require.Nil(t, tr.Flush())
	require.Equal(t, http.StatusNotFound, tr.Status())
	require.Equal(t, "Status: 404 Not Found\r\nContent-Type: text/html; charset=UTF-8\r\n\r\ngone", b.String())
}
