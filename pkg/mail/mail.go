// Package mail reads job-alert messages from Gmail.
package mail

import (
	"encoding/base64"
	"strings"

	"github.com/nikogura/job-assistant/pkg/htmltext"
	"google.golang.org/api/gmail/v1"
)

// AlertDomains are senders whose mail is always treated as a job alert.
//
//nolint:gochecknoglobals // fixed allow-list
var AlertDomains = []string{"linkedin.com", "indeed.com", "glassdoor.com", "ziprecruiter.com", "monster.com"}

// AlertSubjectWords mark a job alert when they appear in the subject.
//
//nolint:gochecknoglobals // fixed allow-list
var AlertSubjectWords = []string{"job", "position", "opportunity"}

// JobAlertQuery is the Gmail search for unread job alerts.
//
//nolint:gochecknoglobals // derived once from the allow-lists
var JobAlertQuery = buildQuery()

// Message is one decoded email.
type Message struct {
	ID      string
	Subject string
	From    string
	Body    string
}

func buildQuery() (query string) {
	terms := make([]string, 0, len(AlertDomains)+len(AlertSubjectWords))
	for _, d := range AlertDomains {
		terms = append(terms, "from:"+d)
	}
	for _, w := range AlertSubjectWords {
		terms = append(terms, `subject:"`+w+`"`)
	}
	query = "is:unread (" + strings.Join(terms, " OR ") + ")"
	return query
}

// IsJobAlert applies the alert heuristic locally: allow-listed sender, or an alert word in the subject.
func IsJobAlert(from, subject string) (ok bool) {
	from = strings.ToLower(from)
	for _, d := range AlertDomains {
		if strings.Contains(from, d) {
			ok = true
			return ok
		}
	}

	subject = strings.ToLower(subject)
	for _, w := range AlertSubjectWords {
		if strings.Contains(subject, w) {
			ok = true
			return ok
		}
	}

	return ok
}

// Header returns the first header with this name, case-insensitively.
func Header(payload *gmail.MessagePart, name string) (value string) {
	if payload == nil {
		return value
	}
	for _, h := range payload.Headers {
		if strings.EqualFold(h.Name, name) {
			value = h.Value
			return value
		}
	}
	return value
}

// ExtractBody returns the readable text of a message payload.
// Plain text is used as-is and HTML is stripped. In multipart/alternative the plain part wins;
// other multiparts contribute every text part in order.
func ExtractBody(payload *gmail.MessagePart) (body string) {
	if payload == nil {
		return body
	}

	mimeType := strings.ToLower(payload.MimeType)

	if len(payload.Parts) == 0 {
		body = decodePart(payload, mimeType)
		return body
	}

	if mimeType == "multipart/alternative" {
		for _, want := range []string{"text/plain", "text/html"} {
			for _, part := range payload.Parts {
				if strings.EqualFold(part.MimeType, want) {
					body = decodePart(part, want)
					if body != "" {
						return body
					}
				}
			}
		}
	}

	pieces := make([]string, 0, len(payload.Parts))
	for _, part := range payload.Parts {
		if part.Filename != "" {
			continue
		}
		text := ExtractBody(part)
		if text != "" {
			pieces = append(pieces, text)
		}
	}
	body = strings.Join(pieces, "\n")

	return body
}

func decodePart(part *gmail.MessagePart, mimeType string) (text string) {
	if part.Body == nil || part.Body.Data == "" {
		return text
	}

	raw, ok := DecodeBase64URL(part.Body.Data)
	if !ok {
		return text
	}

	switch {
	case strings.HasPrefix(mimeType, "text/html"):
		text = htmltext.FromHTML(raw)
	case strings.HasPrefix(mimeType, "text/"), mimeType == "":
		text = raw
	}

	return text
}

// DecodeBase64URL decodes URL-safe base64 with or without padding.
func DecodeBase64URL(data string) (decoded string, ok bool) {
	data = strings.TrimSpace(data)

	b, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		b, err = base64.RawURLEncoding.DecodeString(strings.TrimRight(data, "="))
	}
	if err != nil {
		return decoded, ok
	}

	decoded = strings.ToValidUTF8(string(b), "")
	ok = true

	return decoded, ok
}
