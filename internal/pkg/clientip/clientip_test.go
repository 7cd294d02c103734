package clientip

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequestForwardedHeader(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", FromRequest(r))
}

func TestFromRequestSkipsPrivateHops(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("X-Forwarded-For", "10.0.0.1, 192.168.1.5, 198.51.100.4")
	assert.Equal(t, "198.51.100.4", FromRequest(r))
}

func TestFromRequestHeaderPriority(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Client-Ip", "203.0.113.7")
	r.Header.Set("X-Forwarded-For", "198.51.100.4")
	assert.Equal(t, "203.0.113.7", FromRequest(r))
}

func TestFromRequestFallsBackToRemoteAddr(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "198.51.100.4:54321"
	assert.Equal(t, "198.51.100.4", FromRequest(r))
}

func TestFromRequestUnknown(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "127.0.0.1:1234"
	assert.Equal(t, Unknown, FromRequest(r))

	r = httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "garbage"
	assert.Equal(t, Unknown, FromRequest(r))

	assert.Equal(t, Unknown, FromRequest(nil))
}

func TestFromRequestIgnoresInvalidHeaderValues(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("X-Forwarded-For", "not-an-ip, <script>")
	r.RemoteAddr = "203.0.113.7:80"
	assert.Equal(t, "203.0.113.7", FromRequest(r))
}
