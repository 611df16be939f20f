package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/commentify/commentify/pkg/instagram"
	"github.com/commentify/commentify/ui/rest/middleware"
	"github.com/gofiber/fiber/v2"
)

type stubRequester struct {
	lastRequest instagram.Request
	response    *instagram.Response
	err         error
}

func (s *stubRequester) Do(_ context.Context, req instagram.Request) (*instagram.Response, error) {
	s.lastRequest = req
	return s.response, s.err
}

func newRelayApp(stub *stubRequester) *fiber.App {
	app := fiber.New()
	app.Use(middleware.Recovery())
	InitRestRelay(app.Group("/api"), stub)
	return app
}

func postRelay(t *testing.T, app *fiber.App, payload instagram.RelayPayload) *http.Response {
	t.Helper()
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/relay", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() failed: %v", err)
	}
	return res
}

func TestRelayForwardsToUpstream(t *testing.T) {
	header := http.Header{}
	header.Set("Content-Type", "text/html")
	header.Add("Set-Cookie", "csrftoken=tok; Path=/")
	stub := &stubRequester{response: &instagram.Response{
		Status: 200,
		Body:   []byte("<html>page</html>"),
		Header: header,
	}}
	app := newRelayApp(stub)

	res := postRelay(t, app, instagram.RelayPayload{
		URL:     "https://www.instagram.com/p/abc/",
		Method:  "get",
		Headers: map[string]string{"Cookie": "sessionid=s"},
	})
	if res.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", res.StatusCode)
	}

	if stub.lastRequest.Method != http.MethodGet {
		t.Fatalf("forwarded method = %q, want GET", stub.lastRequest.Method)
	}
	if stub.lastRequest.Headers["Cookie"] != "sessionid=s" {
		t.Fatalf("forwarded headers = %v", stub.lastRequest.Headers)
	}

	// upstream cookies are propagated onto the relay response
	if got := res.Header.Get("Set-Cookie"); got == "" {
		t.Fatal("Set-Cookie not propagated")
	}

	var result instagram.RelayResult
	raw, _ := io.ReadAll(res.Body)
	if err := json.Unmarshal(raw, &result); err != nil {
		t.Fatalf("response decode failed: %v", err)
	}
	if result.Status != 200 {
		t.Fatalf("relay result status = %d", result.Status)
	}
	var page string
	if err := json.Unmarshal(result.Data, &page); err != nil || page != "<html>page</html>" {
		t.Fatalf("relay result data = %s", result.Data)
	}
}

func TestRelayRejectsForeignHosts(t *testing.T) {
	stub := &stubRequester{response: &instagram.Response{Status: 200}}
	app := newRelayApp(stub)

	for _, target := range []string{
		"https://evil.example.com/p/abc/",
		"http://www.instagram.com/p/abc/",
		"https://www.instagram.com.evil.com/",
		"not a url at all://",
	} {
		res := postRelay(t, app, instagram.RelayPayload{URL: target})
		if res.StatusCode != 400 {
			t.Errorf("relay accepted %q with status %d", target, res.StatusCode)
		}
	}
	if stub.lastRequest.URL != "" {
		t.Fatalf("rejected target still reached the transport: %q", stub.lastRequest.URL)
	}
}

func TestRelayTransportFailure(t *testing.T) {
	stub := &stubRequester{err: &instagram.TransportError{Kind: instagram.TransportTimeout}}
	app := newRelayApp(stub)

	res := postRelay(t, app, instagram.RelayPayload{URL: "https://www.instagram.com/p/abc/"})
	// transport errors surface through the recovery middleware as 500s
	if res.StatusCode != 500 {
		t.Fatalf("status = %d, want 500", res.StatusCode)
	}
}
