package httpclient

import "net/http"

// AuthType identifies the authentication method.
type AuthType int

const (
	// AuthNone disables authentication.
	AuthNone AuthType = iota
	// AuthBearer sends "Authorization: Bearer <token>".
	AuthBearer
	// AuthAPIKey sends the key in a named header.
	AuthAPIKey
	// AuthCustom applies a caller-supplied function.
	AuthCustom
)

// AuthConfig configures request authentication.
type AuthConfig struct {
	Type  AuthType
	Token string
	// Key and Header are used by AuthAPIKey. Header defaults to X-API-Key.
	Key    string
	Header string
	Apply  func(*http.Request)
}

// BearerAuth creates a bearer token auth config.
func BearerAuth(token string) *AuthConfig {
	return &AuthConfig{Type: AuthBearer, Token: token}
}

// APIKeyAuth creates an API key auth config sent in the given header.
func APIKeyAuth(key, header string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Key: key, Header: header}
}

// CustomAuth creates an auth config backed by a request modifier.
func CustomAuth(fn func(*http.Request)) *AuthConfig {
	return &AuthConfig{Type: AuthCustom, Apply: fn}
}

func (a *AuthConfig) apply(req *http.Request) {
	if a == nil {
		return
	}
	switch a.Type {
	case AuthBearer:
		req.Header.Set("Authorization", "Bearer "+a.Token)
	case AuthAPIKey:
		header := a.Header
		if header == "" {
			header = "X-API-Key"
		}
		req.Header.Set(header, a.Key)
	case AuthCustom:
		if a.Apply != nil {
			a.Apply(req)
		}
	}
}
