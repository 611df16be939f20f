package rest

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/commentify/commentify/pkg/instagram"
	"github.com/commentify/commentify/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type Relay struct {
	Requester instagram.Requester
}

func InitRestRelay(app fiber.Router, requester instagram.Requester) Relay {
	rest := Relay{Requester: requester}
	app.Post("/relay", rest.Forward)
	return rest
}

// Forward re-issues a request against the upstream host on behalf of a
// client that cannot reach it directly. Only the Instagram origin is
// accepted as a target.
func (controller *Relay) Forward(c *fiber.Ctx) error {
	var payload instagram.RelayPayload
	err := c.BodyParser(&payload)
	utils.PanicIfNeeded(err)

	if !allowedRelayTarget(payload.URL) {
		return c.Status(400).JSON(utils.ResponseData{
			Status:  400,
			Code:    "BAD_REQUEST",
			Message: "url: host is not allowed",
		})
	}

	method := strings.ToUpper(strings.TrimSpace(payload.Method))
	if method == "" {
		method = fiber.MethodGet
	}

	res, err := controller.Requester.Do(c.UserContext(), instagram.Request{
		Method:  method,
		URL:     payload.URL,
		Body:    payload.Data,
		Headers: payload.Headers,
	})
	utils.PanicIfNeeded(err)

	if cookies := res.Header.Values("Set-Cookie"); len(cookies) > 0 {
		for _, cookie := range cookies {
			c.Append("Set-Cookie", cookie)
		}
	}

	headers := make(map[string]string, len(res.Header))
	for name := range res.Header {
		headers[name] = res.Header.Get(name)
	}

	return c.JSON(instagram.RelayResult{
		Data:    relayData(res.Body),
		Headers: headers,
		Status:  res.Status,
	})
}

// relayData keeps JSON bodies as-is and wraps anything else (HTML pages) as
// a JSON string.
func relayData(body []byte) json.RawMessage {
	if json.Valid(body) && len(body) > 0 {
		return json.RawMessage(body)
	}
	quoted, _ := json.Marshal(string(body))
	return json.RawMessage(quoted)
}

func allowedRelayTarget(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme != "https" {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	return host == "www.instagram.com" || host == "instagram.com"
}
