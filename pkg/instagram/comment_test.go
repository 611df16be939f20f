package instagram

import (
	"context"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestAddCommentEmptyText(t *testing.T) {
	fake := &fakeRequester{respond: func(Request) (*Response, error) {
		t.Fatal("transport must not be reached for empty text")
		return nil, nil
	}}
	client := newTestClient(fake)

	err := client.AddComment(context.Background(), "123", "https://www.instagram.com/p/abc/", validCookieExport, nil, "   ")
	igErr, ok := err.(*Error)
	if !ok || igErr.Kind != ErrEmptyComment {
		t.Fatalf("AddComment() err = %v, want kind %q", err, ErrEmptyComment)
	}
}

func TestAddCommentSuccess(t *testing.T) {
	fake := &fakeRequester{respond: func(Request) (*Response, error) {
		return &Response{Status: http.StatusOK, Body: []byte(`{"status":"ok"}`)}, nil
	}}
	client := newTestClient(fake)

	err := client.AddComment(context.Background(), "123", "https://www.instagram.com/p/abc/", validCookieExport, nil, "nice post")
	if err != nil {
		t.Fatalf("AddComment() unexpected error: %v", err)
	}

	req := fake.requests[0]
	if req.Method != http.MethodPost {
		t.Fatalf("AddComment() method = %q, want POST", req.Method)
	}
	if req.URL != "https://www.instagram.com/api/v1/web/comments/123/add/" {
		t.Fatalf("AddComment() url = %q", req.URL)
	}
	if req.Body != "comment_text=nice+post" {
		t.Fatalf("AddComment() body = %q", req.Body)
	}
	if req.Headers["X-CSRFToken"] != "tok456" {
		t.Fatalf("AddComment() csrf header = %q, want tok456", req.Headers["X-CSRFToken"])
	}
	if req.Headers["X-IG-App-ID"] != appID {
		t.Fatalf("AddComment() app id header = %q", req.Headers["X-IG-App-ID"])
	}
	if !strings.Contains(req.Headers["Cookie"], "sessionid=abc123") {
		t.Fatalf("AddComment() cookie header = %q", req.Headers["Cookie"])
	}
	if req.Headers["Referer"] != "https://www.instagram.com/p/abc/" {
		t.Fatalf("AddComment() referer = %q", req.Headers["Referer"])
	}
}

func TestAddCommentBodyStatusOkWins(t *testing.T) {
	// a non-2xx status with a body that says ok still counts as success
	fake := &fakeRequester{respond: func(Request) (*Response, error) {
		return &Response{Status: http.StatusBadRequest, Body: []byte(`{"status":"ok"}`)}, nil
	}}
	client := newTestClient(fake)

	if err := client.AddComment(context.Background(), "123", "https://www.instagram.com/p/abc/", validCookieExport, nil, "hey"); err != nil {
		t.Fatalf("AddComment() unexpected error: %v", err)
	}
}

func TestAddCommentForbidden(t *testing.T) {
	fake := &fakeRequester{respond: func(Request) (*Response, error) {
		return &Response{Status: http.StatusForbidden, Body: []byte(`{"status":"fail"}`)}, nil
	}}
	client := newTestClient(fake)

	err := client.AddComment(context.Background(), "123", "https://www.instagram.com/p/abc/", validCookieExport, nil, "hey")
	igErr, ok := err.(*Error)
	if !ok || igErr.Kind != ErrAccessDenied {
		t.Fatalf("AddComment() err = %v, want kind %q", err, ErrAccessDenied)
	}
}

func TestAddCommentMalformedCookie(t *testing.T) {
	fake := &fakeRequester{respond: func(Request) (*Response, error) {
		t.Fatal("transport must not be reached for a malformed cookie")
		return nil, nil
	}}
	client := newTestClient(fake)

	err := client.AddComment(context.Background(), "123", "https://www.instagram.com/p/abc/", "not json", nil, "hey")
	igErr, ok := err.(*Error)
	if !ok || igErr.Kind != ErrMalformedCookie {
		t.Fatalf("AddComment() err = %v, want kind %q", err, ErrMalformedCookie)
	}
}

func TestAddCommentPacingDelay(t *testing.T) {
	var slept []time.Duration
	fake := &fakeRequester{respond: func(Request) (*Response, error) {
		return &Response{Status: http.StatusOK, Body: []byte(`{"status":"ok"}`)}, nil
	}}
	client := NewClient(ClientOptions{
		Requester: fake,
		Rand:      rand.New(rand.NewSource(7)),
		Sleep:     func(d time.Duration) { slept = append(slept, d) },
	})

	for i := 0; i < 20; i++ {
		if err := client.AddComment(context.Background(), "123", "https://www.instagram.com/p/abc/", validCookieExport, nil, "hey"); err != nil {
			t.Fatalf("AddComment() unexpected error: %v", err)
		}
	}

	if len(slept) != 20 {
		t.Fatalf("sleep called %d times, want 20", len(slept))
	}
	for _, d := range slept {
		if d < time.Second || d > 3*time.Second {
			t.Fatalf("pacing delay %v outside [1s, 3s]", d)
		}
	}
}

// countingRequester is safe for concurrent use, unlike fakeRequester.
type countingRequester struct {
	mu    sync.Mutex
	calls int
}

func (r *countingRequester) Do(_ context.Context, _ Request) (*Response, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	return &Response{Status: http.StatusOK, Body: []byte(`{"status":"ok"}`)}, nil
}

// Distinct users execute on parallel pool workers but share one Client, so
// submissions from separate goroutines draw from the same pacing source.
func TestAddCommentParallelSubmissions(t *testing.T) {
	fake := &countingRequester{}
	client := newTestClient(fake)

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				if err := client.AddComment(context.Background(), "123", "https://www.instagram.com/p/abc/", validCookieExport, nil, "hey"); err != nil {
					t.Errorf("AddComment() unexpected error: %v", err)
				}
			}
		}()
	}
	wg.Wait()

	fake.mu.Lock()
	defer fake.mu.Unlock()
	if fake.calls != 200 {
		t.Fatalf("transport reached %d times, want 200", fake.calls)
	}
}
