package window

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByPath(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/quota?x=1", nil)
	assert.Equal(t, "/quota", ByPath(r))
}

func TestByAPIKey(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"bearer", map[string]string{"Authorization": "Bearer sk-123"}, "sk-123"},
		{"lowercase scheme", map[string]string{"Authorization": "bearer sk-456"}, "sk-456"},
		{"x-api-key", map[string]string{"X-API-Key": "key-1"}, "key-1"},
		{"basic auth ignored", map[string]string{"Authorization": "Basic Zm9v"}, Anonymous},
		{"none", nil, Anonymous},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ByAPIKey(r))
		})
	}
}

func TestByIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{"forwarded for ignored", map[string]string{"X-Forwarded-For": "10.0.0.1, 10.0.0.2"}, "192.0.2.1:1234", "192.0.2.1"},
		{"real ip ignored", map[string]string{"X-Real-IP": "10.0.0.9"}, "192.0.2.1:1234", "192.0.2.1"},
		{"remote addr", nil, "192.0.2.1:1234", "192.0.2.1"},
		{"ipv6 remote addr", nil, "[2001:db8::1]:443", "2001:db8::1"},
		{"remote addr without port", nil, "192.0.2.7", "192.0.2.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ByIP(r))
		})
	}
}

func TestByIP_SpoofedHeadersShareOneIdentity(t *testing.T) {
	seen := make(map[string]bool)
	for _, spoof := range []string{"203.0.113.1", "203.0.113.2", "203.0.113.3"} {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "192.0.2.1:1234"
		r.Header.Set("X-Forwarded-For", spoof)
		r.Header.Set("X-Real-IP", spoof)
		seen[ByIP(r)] = true
	}
	assert.Len(t, seen, 1, "forwarding headers changed the consumer identity")
}

func TestTrustedIP(t *testing.T) {
	trusted, err := ParseTrustedProxies([]string{"10.0.0.0/8", "192.0.2.10"})
	require.NoError(t, err)
	fn := TrustedIP(trusted)

	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{"untrusted peer ignores headers", map[string]string{"X-Forwarded-For": "203.0.113.5"}, "198.51.100.7:999", "198.51.100.7"},
		{"trusted peer uses forwarded for", map[string]string{"X-Forwarded-For": "203.0.113.5"}, "10.1.2.3:999", "203.0.113.5"},
		{"rightmost untrusted hop wins", map[string]string{"X-Forwarded-For": "198.51.100.1, 203.0.113.5, 10.0.0.2"}, "10.1.2.3:999", "203.0.113.5"},
		{"trusted bare address", map[string]string{"X-Real-IP": "203.0.113.9"}, "192.0.2.10:80", "203.0.113.9"},
		{"all hops trusted falls back to peer", map[string]string{"X-Forwarded-For": "10.0.0.2"}, "10.1.2.3:999", "10.1.2.3"},
		{"trusted peer without headers", nil, "10.1.2.3:999", "10.1.2.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, fn(r))
		})
	}
}

func TestParseTrustedProxies(t *testing.T) {
	prefixes, err := ParseTrustedProxies([]string{"10.0.0.0/8", " 2001:db8::/32 ", "192.0.2.1", "::ffff:192.0.2.2"})
	require.NoError(t, err)
	assert.Len(t, prefixes, 4)
	assert.Equal(t, 32, prefixes[3].Bits(), "mapped IPv4 address is stored as IPv4")

	_, err = ParseTrustedProxies([]string{"not-an-ip"})
	assert.Error(t, err)
	_, err = ParseTrustedProxies([]string{"10.0.0.0/99"})
	assert.Error(t, err)
}

func TestByHeader(t *testing.T) {
	fn := ByHeader("X-Tenant")

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, Anonymous, fn(r))

	r.Header.Set("X-Tenant", "acme")
	assert.Equal(t, "acme", fn(r))
}

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, sub string) string {
	t.Helper()
	token := jwt.NewWithClaims(method, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	s, err := token.SignedString(key)
	require.NoError(t, err)
	return s
}

func TestByJWTSubject(t *testing.T) {
	secret := []byte("test-secret")
	fn := ByJWTSubject(secret)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+signToken(t, jwt.SigningMethodHS256, secret, "user-42"))
	assert.Equal(t, "user-42", fn(r))

	// Wrong secret
	r.Header.Set("Authorization", "Bearer "+signToken(t, jwt.SigningMethodHS256, []byte("other"), "user-42"))
	assert.Equal(t, Anonymous, fn(r))

	// Wrong algorithm
	r.Header.Set("Authorization", "Bearer "+signToken(t, jwt.SigningMethodHS512, secret, "user-42"))
	assert.Equal(t, Anonymous, fn(r))

	// Garbage
	r.Header.Set("Authorization", "Bearer not-a-token")
	assert.Equal(t, Anonymous, fn(r))

	r.Header.Del("Authorization")
	assert.Equal(t, Anonymous, fn(r))
}
