package window

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Anonymous is the identity used when a strategy cannot identify the caller.
const Anonymous = "anonymous"

// ConsumerFunc derives a consumer identity from a request.
type ConsumerFunc func(r *http.Request) string

// ByPath uses the request path, so every route has its own allowance.
func ByPath(r *http.Request) string {
	if r.URL.Path == "" {
		return "/"
	}
	return r.URL.Path
}

// ByAPIKey uses the bearer token from Authorization, then X-API-Key.
func ByAPIKey(r *http.Request) string {
	if key := bearerToken(r); key != "" {
		return key
	}
	if key := strings.TrimSpace(r.Header.Get("X-API-Key")); key != "" {
		return key
	}
	return Anonymous
}

// ByIP uses the connection's remote address without its port. Forwarding
// headers are ignored: any client can set them and would get a fresh
// allowance per value. Behind a reverse proxy use TrustedIP.
func ByIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		if r.RemoteAddr == "" {
			return Anonymous
		}
		return r.RemoteAddr
	}
	return host
}

// TrustedIP honours X-Forwarded-For and X-Real-IP only when the connection
// comes from one of trusted. X-Forwarded-For is read right to left and the
// first hop outside trusted is the client. Connections from anywhere else
// are identified as ByIP does.
func TrustedIP(trusted []netip.Prefix) ConsumerFunc {
	return func(r *http.Request) string {
		peer := ByIP(r)
		if !containsAddr(trusted, peer) {
			return peer
		}

		if values := r.Header.Values("X-Forwarded-For"); len(values) > 0 {
			hops := strings.Split(strings.Join(values, ","), ",")
			for i := len(hops) - 1; i >= 0; i-- {
				hop := strings.TrimSpace(hops[i])
				if hop != "" && !containsAddr(trusted, hop) {
					return hop
				}
			}
		}

		if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
			return xri
		}
		return peer
	}
}

// ParseTrustedProxies parses CIDR prefixes or bare addresses.
func ParseTrustedProxies(values []string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if strings.Contains(v, "/") {
			p, err := netip.ParsePrefix(v)
			if err != nil {
				return nil, fmt.Errorf("invalid trusted proxy %q: %w", v, err)
			}
			prefixes = append(prefixes, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(v)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", v, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

func containsAddr(prefixes []netip.Prefix, s string) bool {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// ByHeader uses the value of the named header.
func ByHeader(name string) ConsumerFunc {
	return func(r *http.Request) string {
		if v := strings.TrimSpace(r.Header.Get(name)); v != "" {
			return v
		}
		return Anonymous
	}
}

// ByJWTSubject uses the "sub" claim of an HS256 bearer token signed with
// secret. Tokens that fail verification are treated as anonymous.
func ByJWTSubject(secret []byte) ConsumerFunc {
	return func(r *http.Request) string {
		raw := bearerToken(r)
		if raw == "" {
			return Anonymous
		}

		token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
			if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			return Anonymous
		}

		sub, err := token.Claims.GetSubject()
		if err != nil || sub == "" {
			return Anonymous
		}
		return sub
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(auth, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
