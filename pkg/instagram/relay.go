package instagram

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// RelayPayload is the wire format between the relay transport and the relay
// endpoint: the logical request, re-issued server-side.
type RelayPayload struct {
	URL     string            `json:"url"`
	Method  string            `json:"method"`
	Data    string            `json:"data,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
}

// RelayResult mirrors the relay endpoint's answer. Data holds the upstream
// body verbatim; JSON bodies stay JSON, HTML comes back as a string.
type RelayResult struct {
	Data    json.RawMessage   `json:"data"`
	Headers map[string]string `json:"headers,omitempty"`
	Status  int               `json:"status"`
}

// RelayRequester forwards engine requests through a same-origin relay
// endpoint. It exists to dodge cross-origin and cookie restrictions when the
// process cannot reach the upstream host directly; semantics and the error
// taxonomy are identical to the direct transport. Per-profile proxies are
// applied by the relay side, not here.
type RelayRequester struct {
	endpoint string
	client   *resty.Client
}

func NewRelayRequester(endpoint string) *RelayRequester {
	return &RelayRequester{
		endpoint: endpoint,
		client: resty.New().
			SetTimeout(requestTimeout + 5*time.Second),
	}
}

func (t *RelayRequester) Do(ctx context.Context, req Request) (*Response, error) {
	payload := RelayPayload{
		URL:     req.URL,
		Method:  req.Method,
		Data:    req.Body,
		Headers: req.Headers,
	}

	res, err := t.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(t.endpoint)
	if err != nil {
		return nil, wrapTransportError(err)
	}
	if res.StatusCode() != http.StatusOK {
		return nil, &TransportError{Kind: TransportHTTPStatus, StatusCode: res.StatusCode()}
	}

	var result RelayResult
	if err := json.Unmarshal(res.Body(), &result); err != nil {
		return nil, &TransportError{Kind: TransportConnectionFailed, Err: err}
	}

	header := http.Header{}
	for k, v := range result.Headers {
		header.Set(k, v)
	}
	return &Response{
		Status: result.Status,
		Body:   relayBody(result.Data),
		Header: header,
	}, nil
}

// relayBody unwraps the upstream body: string payloads (HTML pages) are
// unquoted, anything else is kept as raw JSON.
func relayBody(data json.RawMessage) []byte {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return []byte(s)
	}
	return []byte(data)
}
