package instagram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRelayRequesterForwardsPayload(t *testing.T) {
	var received RelayPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("relay payload decode failed: %v", err)
		}
		_ = json.NewEncoder(w).Encode(RelayResult{
			Data:    json.RawMessage(`"<html>instagram://media?id=99</html>"`),
			Headers: map[string]string{"Content-Type": "text/html"},
			Status:  200,
		})
	}))
	defer server.Close()

	requester := NewRelayRequester(server.URL)
	res, err := requester.Do(context.Background(), Request{
		Method:  http.MethodGet,
		URL:     "https://www.instagram.com/p/abc/",
		Headers: map[string]string{"X-Test": "1"},
	})
	if err != nil {
		t.Fatalf("Do() unexpected error: %v", err)
	}

	if received.URL != "https://www.instagram.com/p/abc/" || received.Method != http.MethodGet {
		t.Fatalf("relay payload = %+v", received)
	}
	if received.Headers["X-Test"] != "1" {
		t.Fatalf("relay payload headers = %v", received.Headers)
	}
	if res.Status != 200 {
		t.Fatalf("Do() status = %d, want 200", res.Status)
	}
	// string payloads are unquoted back into the raw body
	if string(res.Body) != "<html>instagram://media?id=99</html>" {
		t.Fatalf("Do() body = %q", res.Body)
	}
}

func TestRelayRequesterKeepsJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(RelayResult{
			Data:   json.RawMessage(`{"status":"ok"}`),
			Status: 200,
		})
	}))
	defer server.Close()

	requester := NewRelayRequester(server.URL)
	res, err := requester.Do(context.Background(), Request{Method: http.MethodPost, URL: "https://www.instagram.com/api/v1/web/comments/1/add/"})
	if err != nil {
		t.Fatalf("Do() unexpected error: %v", err)
	}
	if string(res.Body) != `{"status":"ok"}` {
		t.Fatalf("Do() body = %q", res.Body)
	}
}

func TestRelayRequesterEndpointFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	requester := NewRelayRequester(server.URL)
	_, err := requester.Do(context.Background(), Request{Method: http.MethodGet, URL: "https://www.instagram.com/p/abc/"})
	tr, ok := err.(*TransportError)
	if !ok || tr.Kind != TransportHTTPStatus || tr.StatusCode != http.StatusBadGateway {
		t.Fatalf("Do() err = %v, want http-status transport error", err)
	}
}
