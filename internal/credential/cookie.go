package credential

import (
	"net/http"
	"net/url"
	"strings"
)

// Provider returns the current value of a credential, or false when it is
// not available. Providers are called on every mutating request and must
// not cache, so a rotated token is always picked up.
type Provider func() (string, bool)

// ReadToken looks up name in a cookie-style store ("a=1; b=2") and returns
// its value up to the next ';'. It reports false when the key is absent or
// appears more than once.
func ReadToken(store, name string) (string, bool) {
	parts := strings.Split("; "+store, "; "+name+"=")
	if len(parts) != 2 {
		return "", false
	}
	value, _, _ := strings.Cut(parts[1], ";")
	return value, true
}

// Static returns a Provider that always yields token. An empty token is
// reported as absent.
func Static(token string) Provider {
	return func() (string, bool) {
		return token, token != ""
	}
}

// FromStore returns a Provider that reads name from whatever cookie-style
// string store returns at call time.
func FromStore(store func() string, name string) Provider {
	return func() (string, bool) {
		return ReadToken(store(), name)
	}
}

// FromJar returns a Provider that reads name from the cookies jar holds
// for u, serialized the same way a browser exposes them to scripts.
func FromJar(jar http.CookieJar, u *url.URL, name string) Provider {
	return FromStore(func() string {
		return CookieString(jar.Cookies(u))
	}, name)
}

// CookieString renders cookies as a "name=value; name=value" store.
func CookieString(cookies []*http.Cookie) string {
	pairs := make([]string, 0, len(cookies))
	for _, c := range cookies {
		pairs = append(pairs, c.Name+"="+c.Value)
	}
	return strings.Join(pairs, "; ")
}
