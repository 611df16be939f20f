package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	appID    = "936619743392459"
	wwwClaim = "0"
)

// AddComment replays the session cookie to post a comment onto the resolved
// post. The pre-request pacing delay (uniform between 1 and 3 seconds) is
// part of the contract: it throttles the write pattern against the upstream.
func (c *Client) AddComment(ctx context.Context, postID, postURL, rawCookies string, proxy *Proxy, text string) error {
	if strings.TrimSpace(text) == "" {
		return newError(ErrEmptyComment, "O comentário não pode estar vazio")
	}

	cookies, err := ParseCookies(rawCookies)
	if err != nil {
		return err
	}
	_, csrfToken, err := SessionTokens(cookies)
	if err != nil {
		return err
	}

	c.sleep(c.pacingDelay())

	res, doErr := c.http.Do(ctx, Request{
		Method: http.MethodPost,
		URL:    fmt.Sprintf("%s/api/v1/web/comments/%s/add/", BaseURL, postID),
		Body:   "comment_text=" + url.QueryEscape(text),
		Headers: map[string]string{
			"Content-Type":     "application/x-www-form-urlencoded",
			"X-CSRFToken":      csrfToken,
			"X-Instagram-AJAX": "1",
			"X-IG-App-ID":      appID,
			"X-IG-WWW-Claim":   wwwClaim,
			"X-Requested-With": "XMLHttpRequest",
			"Cookie":           CookieString(cookies),
			"Origin":           BaseURL,
			"Referer":          postURL,
		},
		Proxy: proxy,
	})
	if doErr != nil {
		return Classify(doErr, ActionComment)
	}

	// The upstream success signal is inconsistent across response shapes: a
	// 2xx status and a body saying status "ok" each count on their own.
	var body struct {
		Status string `json:"status"`
	}
	_ = json.Unmarshal(res.Body, &body)

	if (res.Status >= 200 && res.Status < 300) || body.Status == "ok" {
		logrus.Debugf("[INSTAGRAM] comment accepted for post %s", postID)
		return nil
	}
	if res.Status > 0 {
		return Classify(&TransportError{Kind: TransportHTTPStatus, StatusCode: res.Status}, ActionComment)
	}
	return newError(ErrUnexpectedResponse, "Resposta inesperada do Instagram. Tente novamente.")
}
