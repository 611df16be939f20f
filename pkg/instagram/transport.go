package instagram

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	// BaseHost is the upstream host every engine request targets.
	BaseHost = "www.instagram.com"
	// BaseURL is the upstream origin.
	BaseURL = "https://www.instagram.com"

	requestTimeout = 30 * time.Second
	maxRedirects   = 5
)

// defaultHeaders mimic a logged-in desktop browser session. Caller headers
// are merged on top and win on conflict.
var defaultHeaders = map[string]string{
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8",
	"Accept-Language":           "en-US,en;q=0.9",
	"Cache-Control":             "no-cache",
	"Pragma":                    "no-cache",
	"Sec-Fetch-Dest":            "document",
	"Sec-Fetch-Mode":            "navigate",
	"Sec-Fetch-Site":            "none",
	"Sec-Fetch-User":            "?1",
	"Upgrade-Insecure-Requests": "1",
	"User-Agent":                "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/132.0.0.0 Safari/537.36",
}

// Request is one logical engine request. Proxy selects a per-profile egress
// route; nil means direct egress.
type Request struct {
	Method  string
	URL     string
	Body    string
	Headers map[string]string
	Proxy   *Proxy
}

// Response is the raw upstream answer. Non-2xx statuses are not errors at
// this level; callers decide which ranges they accept.
type Response struct {
	Status int
	Body   []byte
	Header http.Header
}

// Requester issues engine requests. There are two implementations with
// identical semantics: HTTPRequester talks to the upstream host directly,
// RelayRequester forwards through a same-origin relay. The implementation is
// chosen once at startup by configuration, never per call.
type Requester interface {
	Do(ctx context.Context, req Request) (*Response, error)
}

// HTTPRequester is the direct transport.
type HTTPRequester struct{}

func NewHTTPRequester() *HTTPRequester {
	return &HTTPRequester{}
}

func (t *HTTPRequester) Do(ctx context.Context, req Request) (*Response, error) {
	client := resty.New().
		SetTimeout(requestTimeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(maxRedirects)).
		SetHeaders(defaultHeaders).
		SetHeader("Host", BaseHost)
	if req.Proxy != nil {
		client.SetProxy(req.Proxy.URL())
	}

	r := client.R().SetContext(ctx).SetHeaders(req.Headers)
	if req.Body != "" {
		r.SetBody(req.Body)
	}

	res, err := r.Execute(req.Method, req.URL)
	if err != nil {
		return nil, wrapTransportError(err)
	}
	return &Response{
		Status: res.StatusCode(),
		Body:   res.Body(),
		Header: res.Header(),
	}, nil
}

// wrapTransportError converts a client error into the tagged transport
// variant. The engine never branches on raw client errors.
func wrapTransportError(err error) *TransportError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &TransportError{Kind: TransportTimeout, Err: err}
	}
	return &TransportError{Kind: TransportConnectionFailed, Err: err}
}
