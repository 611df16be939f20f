package instagram

import "testing"

const validCookieExport = `[
	{"name":"sessionid","value":"abc123","domain":".instagram.com"},
	{"name":"csrftoken","value":"tok456","domain":".instagram.com"},
	{"name":"mid","value":"xyz"}
]`

func TestParseCookies(t *testing.T) {
	cookies, err := ParseCookies(validCookieExport)
	if err != nil {
		t.Fatalf("ParseCookies() unexpected error: %v", err)
	}
	if len(cookies) != 3 {
		t.Fatalf("ParseCookies() len = %d, want 3", len(cookies))
	}
}

func TestParseCookiesMalformed(t *testing.T) {
	for _, raw := range []string{"", "not json", `{"name":"sessionid"}`} {
		_, err := ParseCookies(raw)
		igErr, ok := err.(*Error)
		if !ok || igErr.Kind != ErrMalformedCookie {
			t.Errorf("ParseCookies(%q) err = %v, want kind %q", raw, err, ErrMalformedCookie)
		}
	}
}

func TestSessionTokens(t *testing.T) {
	cookies, _ := ParseCookies(validCookieExport)
	sessionID, csrfToken, err := SessionTokens(cookies)
	if err != nil {
		t.Fatalf("SessionTokens() unexpected error: %v", err)
	}
	if sessionID != "abc123" || csrfToken != "tok456" {
		t.Fatalf("SessionTokens() = (%q, %q), want (abc123, tok456)", sessionID, csrfToken)
	}
}

func TestSessionTokensMissing(t *testing.T) {
	cookies := []Cookie{{Name: "mid", Value: "xyz"}}
	_, _, err := SessionTokens(cookies)
	igErr, ok := err.(*Error)
	if !ok || igErr.Kind != ErrMalformedCookie {
		t.Fatalf("SessionTokens() err = %v, want kind %q", err, ErrMalformedCookie)
	}
}

func TestValidateCookiePayload(t *testing.T) {
	if err := ValidateCookiePayload(validCookieExport); err != nil {
		t.Fatalf("ValidateCookiePayload() unexpected error: %v", err)
	}
	if err := ValidateCookiePayload(`[{"name":"mid","value":"x"}]`); err == nil {
		t.Fatal("ValidateCookiePayload() accepted export without session tokens")
	}
}

func TestCookieString(t *testing.T) {
	cookies, _ := ParseCookies(validCookieExport)
	got := CookieString(cookies)
	want := "sessionid=abc123; csrftoken=tok456; mid=xyz"
	if got != want {
		t.Fatalf("CookieString() = %q, want %q", got, want)
	}
}
