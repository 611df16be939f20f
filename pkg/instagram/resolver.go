package instagram

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
)

var postURLRegex = regexp.MustCompile(`^https://(www\.)?instagram\.com/p/[\w-]+/?`)

// ValidPostURL reports whether url has the canonical post-URL shape.
func ValidPostURL(url string) bool {
	return postURLRegex.MatchString(url)
}

// extractor tries to pull the internal numeric post id out of a page body.
type extractor struct {
	name string
	find func(body string) (string, bool)
}

func regexExtractor(name, pattern string) extractor {
	re := regexp.MustCompile(pattern)
	return extractor{
		name: name,
		find: func(body string) (string, bool) {
			m := re.FindStringSubmatch(body)
			if len(m) < 2 || m[1] == "" {
				return "", false
			}
			return m[1], true
		},
	}
}

var numericRegex = regexp.MustCompile(`^\d+$`)

// attrExtractor reads a numeric id out of a DOM attribute.
func attrExtractor(attr string) extractor {
	return extractor{
		name: attr,
		find: func(body string) (string, bool) {
			doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
			if err != nil {
				return "", false
			}
			value, ok := doc.Find("[" + attr + "]").First().Attr(attr)
			if !ok || !numericRegex.MatchString(value) {
				return "", false
			}
			return value, true
		},
	}
}

// postIDExtractors are applied in order against the page body; the first
// match wins, so earlier patterns deliberately take precedence when several
// would match the same document. The composite form returns only the first
// numeric component.
var postIDExtractors = []extractor{
	regexExtractor("media_id", `"media_id":"(\d+)"`),
	regexExtractor("app_link", `instagram://media\?id=(\d+)`),
	regexExtractor("generic_id", `"id":"(\d+)"`),
	attrExtractor("data-media-id"),
	regexExtractor("composite_id", `"id":"(\d+)_\d+"`),
}

// notFoundMarkers are the known phrasings the upstream renders for removed or
// nonexistent posts.
var notFoundMarkers = []string{
	"Página não encontrada",
	"Page Not Found",
	"Sorry, this page isn",
}

// ExtractPostID runs the ordered extractor list against a page body. It is a
// pure function of the body: the same body always yields the same id.
func ExtractPostID(body string) (string, *Error) {
	for _, ex := range postIDExtractors {
		if id, ok := ex.find(body); ok {
			return id, nil
		}
	}
	for _, marker := range notFoundMarkers {
		if strings.Contains(body, marker) {
			return "", newError(ErrPostNotFound, "Publicação não encontrada. Verifique se a URL está correta e se a publicação existe.")
		}
	}
	return "", newError(ErrPostUnavailable, "ID da publicação não encontrado. A publicação pode estar indisponível ou ser privada.")
}

// ResolvePostID fetches a public post URL and extracts the platform-internal
// numeric post id. The id is valid for the duration of one automation run;
// callers re-resolve on the next run.
func (c *Client) ResolvePostID(ctx context.Context, postURL string, proxy *Proxy) (string, error) {
	if !ValidPostURL(postURL) {
		return "", newError(ErrInvalidURL, "URL inválida. Use uma URL de post do Instagram (ex: https://www.instagram.com/p/xyz123)")
	}

	logrus.Debugf("[INSTAGRAM] resolving post id for %s", postURL)

	res, err := c.http.Do(ctx, Request{
		Method: http.MethodGet,
		URL:    postURL,
		Proxy:  proxy,
	})
	if err != nil {
		return "", Classify(err, ActionResolve)
	}
	if res.Status < 200 || res.Status >= 300 {
		return "", Classify(&TransportError{Kind: TransportHTTPStatus, StatusCode: res.Status}, ActionResolve)
	}
	if len(res.Body) == 0 {
		return "", newError(ErrPostUnavailable, "Página não retornou conteúdo")
	}

	id, exErr := ExtractPostID(string(res.Body))
	if exErr != nil {
		return "", exErr
	}
	logrus.Debugf("[INSTAGRAM] post id found: %s", id)
	return id, nil
}
