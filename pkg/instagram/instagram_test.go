package instagram

import (
	"context"
	"math/rand"
	"time"
)

// fakeRequester records engine requests and answers them from a script.
type fakeRequester struct {
	calls    int
	requests []Request
	respond  func(req Request) (*Response, error)
}

func (f *fakeRequester) Do(_ context.Context, req Request) (*Response, error) {
	f.calls++
	f.requests = append(f.requests, req)
	return f.respond(req)
}

func newTestClient(requester Requester) *Client {
	return NewClient(ClientOptions{
		Requester: requester,
		Rand:      rand.New(rand.NewSource(1)),
		Sleep:     func(time.Duration) {},
	})
}
