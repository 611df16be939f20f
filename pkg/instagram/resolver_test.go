package instagram

import (
	"context"
	"net/http"
	"testing"
)

func TestValidPostURL(t *testing.T) {
	valid := []string{
		"https://www.instagram.com/p/Cxyz123/",
		"https://instagram.com/p/Cxyz123",
		"https://www.instagram.com/p/ab-C_12/",
	}
	for _, u := range valid {
		if !ValidPostURL(u) {
			t.Errorf("ValidPostURL(%q) = false, want true", u)
		}
	}

	invalid := []string{
		"",
		"http://www.instagram.com/p/Cxyz123/",
		"https://www.instagram.com/reel/Cxyz123/",
		"https://example.com/p/Cxyz123/",
		"instagram.com/p/Cxyz123",
	}
	for _, u := range invalid {
		if ValidPostURL(u) {
			t.Errorf("ValidPostURL(%q) = true, want false", u)
		}
	}
}

func TestExtractPostID(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"media_id", `{"media_id":"321"}`, "321"},
		{"app_link", `<meta content="instagram://media?id=456" />`, "456"},
		{"generic_id", `{"id":"789","other":true}`, "789"},
		{"data_media_id", `<article data-media-id="1011"></article>`, "1011"},
		{"composite_id", `{"id":"1213_99"}`, "1213"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractPostID(tc.body)
			if err != nil {
				t.Fatalf("ExtractPostID() unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("ExtractPostID() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestExtractPostIDPrecedence(t *testing.T) {
	// media_id wins over everything else present in the same document
	body := `{"media_id":"111"} instagram://media?id=222 {"id":"333"}`
	got, err := ExtractPostID(body)
	if err != nil {
		t.Fatalf("ExtractPostID() unexpected error: %v", err)
	}
	if got != "111" {
		t.Fatalf("ExtractPostID() = %q, want %q", got, "111")
	}
}

func TestExtractPostIDDeterministic(t *testing.T) {
	body := `<html>instagram://media?id=42</html>`
	first, _ := ExtractPostID(body)
	second, _ := ExtractPostID(body)
	if first != second {
		t.Fatalf("ExtractPostID() not deterministic: %q vs %q", first, second)
	}
}

func TestExtractPostIDNotFoundMarker(t *testing.T) {
	got, err := ExtractPostID(`<title>Page Not Found</title>`)
	if got != "" || err == nil {
		t.Fatalf("ExtractPostID() = (%q, %v), want not-found error", got, err)
	}
	if err.Kind != ErrPostNotFound {
		t.Fatalf("ExtractPostID() kind = %q, want %q", err.Kind, ErrPostNotFound)
	}
}

func TestExtractPostIDUnavailable(t *testing.T) {
	_, err := ExtractPostID(`<html><body>nothing useful</body></html>`)
	if err == nil || err.Kind != ErrPostUnavailable {
		t.Fatalf("ExtractPostID() err = %v, want kind %q", err, ErrPostUnavailable)
	}
}

func TestResolvePostIDInvalidURLSkipsNetwork(t *testing.T) {
	fake := &fakeRequester{respond: func(Request) (*Response, error) {
		t.Fatal("transport must not be reached for an invalid URL")
		return nil, nil
	}}
	client := newTestClient(fake)

	_, err := client.ResolvePostID(context.Background(), "https://example.com/p/abc/", nil)
	igErr, ok := err.(*Error)
	if !ok || igErr.Kind != ErrInvalidURL {
		t.Fatalf("ResolvePostID() err = %v, want kind %q", err, ErrInvalidURL)
	}
	if fake.calls != 0 {
		t.Fatalf("transport called %d times, want 0", fake.calls)
	}
}

func TestResolvePostIDSuccess(t *testing.T) {
	fake := &fakeRequester{respond: func(Request) (*Response, error) {
		return &Response{Status: http.StatusOK, Body: []byte(`{"media_id":"777"}`)}, nil
	}}
	client := newTestClient(fake)

	id, err := client.ResolvePostID(context.Background(), "https://www.instagram.com/p/abc123/", nil)
	if err != nil {
		t.Fatalf("ResolvePostID() unexpected error: %v", err)
	}
	if id != "777" {
		t.Fatalf("ResolvePostID() = %q, want %q", id, "777")
	}
	if fake.requests[0].Method != http.MethodGet {
		t.Fatalf("ResolvePostID() method = %q, want GET", fake.requests[0].Method)
	}
}

func TestResolvePostIDNotFoundStatus(t *testing.T) {
	fake := &fakeRequester{respond: func(Request) (*Response, error) {
		return &Response{Status: http.StatusNotFound, Body: []byte("gone")}, nil
	}}
	client := newTestClient(fake)

	_, err := client.ResolvePostID(context.Background(), "https://www.instagram.com/p/abc123/", nil)
	igErr, ok := err.(*Error)
	if !ok || igErr.Kind != ErrPostNotFound {
		t.Fatalf("ResolvePostID() err = %v, want kind %q", err, ErrPostNotFound)
	}
}

func TestResolvePostIDEmptyBody(t *testing.T) {
	fake := &fakeRequester{respond: func(Request) (*Response, error) {
		return &Response{Status: http.StatusOK}, nil
	}}
	client := newTestClient(fake)

	_, err := client.ResolvePostID(context.Background(), "https://www.instagram.com/p/abc123/", nil)
	igErr, ok := err.(*Error)
	if !ok || igErr.Kind != ErrPostUnavailable {
		t.Fatalf("ResolvePostID() err = %v, want kind %q", err, ErrPostUnavailable)
	}
}
