package instagram

import (
	"fmt"
	"net/http"
	"strings"
)

// ErrorKind is the closed set of user-facing failure categories produced by
// the automation engine. Everything surfaced to a user during a run carries
// one of these kinds.
type ErrorKind string

const (
	ErrInvalidURL         ErrorKind = "invalid_url"
	ErrInvalidProxy       ErrorKind = "invalid_proxy"
	ErrMalformedCookie    ErrorKind = "malformed_cookie"
	ErrEmptyComment       ErrorKind = "empty_comment"
	ErrPostNotFound       ErrorKind = "post_not_found"
	ErrPostUnavailable    ErrorKind = "post_unavailable"
	ErrRequestTimeout     ErrorKind = "request_timeout"
	ErrRateLimited        ErrorKind = "rate_limited"
	ErrAccessDenied       ErrorKind = "access_denied"
	ErrUpstreamHTTP       ErrorKind = "upstream_http_error"
	ErrNetworkUnreachable ErrorKind = "network_unreachable"
	ErrUnexpectedResponse ErrorKind = "unexpected_response"
	ErrUpgradeRequired    ErrorKind = "upgrade_required"
)

// Error carries one taxonomy kind plus the localized message shown to users.
// It satisfies pkg/error.GenericError so the REST recovery middleware can
// render it directly.
type Error struct {
	Kind       ErrorKind
	Message    string
	HTTPStatus int // upstream status, set for ErrUpstreamHTTP and friends
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) ErrCode() string {
	return strings.ToUpper(string(e.Kind))
}

func (e *Error) StatusCode() int {
	switch e.Kind {
	case ErrInvalidURL, ErrInvalidProxy, ErrMalformedCookie, ErrEmptyComment:
		return http.StatusBadRequest
	case ErrUpgradeRequired:
		return http.StatusForbidden
	default:
		return http.StatusBadGateway
	}
}

func newError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// TransportErrorKind discriminates the tagged transport failure variant.
// The transport layer is the only producer; the classifier is the only
// consumer that needs to branch on it.
type TransportErrorKind int

const (
	TransportTimeout TransportErrorKind = iota
	TransportHTTPStatus
	TransportConnectionFailed
)

// TransportError is the tagged failure the Requester implementations return.
// HTTP status failures are constructed by callers that decided a status is
// unacceptable; the transport itself never errors on non-2xx.
type TransportError struct {
	Kind       TransportErrorKind
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	switch e.Kind {
	case TransportTimeout:
		return "request timed out"
	case TransportHTTPStatus:
		return fmt.Sprintf("unexpected http status %d", e.StatusCode)
	default:
		if e.Err != nil {
			return e.Err.Error()
		}
		return "connection failed"
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Action selects the message wording for classified failures. The taxonomy is
// identical for both; only the phrasing differs.
type Action int

const (
	ActionResolve Action = iota
	ActionComment
)

// Classify maps a transport failure onto the user-facing taxonomy.
// Precedence when several aspects apply: timeout, then 404, 429, 403, then
// any other HTTP status, then connection failure, then unknown. The order is
// load-bearing: it decides which message the user sees.
func Classify(err error, action Action) *Error {
	var te *Error
	if e, ok := err.(*Error); ok {
		return e
	}
	tr, ok := err.(*TransportError)
	if !ok {
		te = newError(ErrUnexpectedResponse, unknownMessage(action))
		return te
	}

	switch {
	case tr.Kind == TransportTimeout:
		te = newError(ErrRequestTimeout, timeoutMessage(action))
	case tr.Kind == TransportHTTPStatus && tr.StatusCode == http.StatusNotFound:
		te = newError(ErrPostNotFound, "Publicação não encontrada. Verifique se a URL está correta.")
	case tr.Kind == TransportHTTPStatus && tr.StatusCode == http.StatusTooManyRequests:
		te = newError(ErrRateLimited, "Muitas requisições. Aguarde alguns minutos e tente novamente.")
	case tr.Kind == TransportHTTPStatus && tr.StatusCode == http.StatusForbidden:
		te = newError(ErrAccessDenied, "Acesso negado. Verifique se o cookie do perfil está válido.")
	case tr.Kind == TransportHTTPStatus:
		te = newError(ErrUpstreamHTTP, statusMessage(action, tr.StatusCode))
		te.HTTPStatus = tr.StatusCode
	case tr.Kind == TransportConnectionFailed:
		te = newError(ErrNetworkUnreachable, "Não foi possível conectar ao Instagram. Verifique sua conexão.")
	default:
		te = newError(ErrUnexpectedResponse, unknownMessage(action))
	}
	return te
}

func timeoutMessage(action Action) string {
	if action == ActionComment {
		return "Tempo limite excedido ao enviar comentário. Tente novamente."
	}
	return "Tempo limite excedido ao acessar a publicação. Tente novamente."
}

func statusMessage(action Action, status int) string {
	if action == ActionComment {
		return fmt.Sprintf("Erro %d ao comentar. Tente novamente mais tarde.", status)
	}
	return fmt.Sprintf("Erro %d ao acessar a publicação. Tente novamente mais tarde.", status)
}

func unknownMessage(action Action) string {
	if action == ActionComment {
		return "Erro inesperado ao comentar. Tente novamente."
	}
	return "Erro inesperado ao obter ID da publicação. Tente novamente."
}
