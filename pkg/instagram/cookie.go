package instagram

import (
	"encoding/json"
	"strings"
)

// Cookie is one record of a browser cookie export. Extra fields in the
// export (path, expiry, sameSite, ...) are ignored.
type Cookie struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Domain string `json:"domain,omitempty"`
}

const (
	cookieSessionID = "sessionid"
	cookieCSRFToken = "csrftoken"
)

// ParseCookies decodes a raw browser cookie export. The payload must be a
// JSON array of cookie records.
func ParseCookies(raw string) ([]Cookie, error) {
	var cookies []Cookie
	if err := json.Unmarshal([]byte(raw), &cookies); err != nil {
		return nil, newError(ErrMalformedCookie, "Cookie inválido. Certifique-se que está no formato JSON correto.")
	}
	return cookies, nil
}

// ValidateCookiePayload checks a raw export at credential-creation time: it
// must parse and must contain both the session identity and the CSRF token.
func ValidateCookiePayload(raw string) error {
	cookies, err := ParseCookies(raw)
	if err != nil {
		return err
	}
	if _, _, err := SessionTokens(cookies); err != nil {
		return err
	}
	return nil
}

// SessionTokens extracts the sessionid and csrftoken values from a cookie
// set. Credentials are stored as opaque payloads, so the tokens are
// re-extracted at use time even though creation already validated them.
func SessionTokens(cookies []Cookie) (sessionID, csrfToken string, err error) {
	for _, c := range cookies {
		switch c.Name {
		case cookieSessionID:
			sessionID = c.Value
		case cookieCSRFToken:
			csrfToken = c.Value
		}
	}
	if sessionID == "" || csrfToken == "" {
		return "", "", newError(ErrMalformedCookie, "Cookies sessionid ou csrftoken não encontrados. Verifique o cookie do perfil.")
	}
	return sessionID, csrfToken, nil
}

// CookieString serializes a cookie set into a Cookie request header value.
func CookieString(cookies []Cookie) string {
	pairs := make([]string, len(cookies))
	for i, c := range cookies {
		pairs[i] = c.Name + "=" + c.Value
	}
	return strings.Join(pairs, "; ")
}
