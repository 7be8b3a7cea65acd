package llm

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// objectSpan is greedy and spans newlines: first "{" to last "}".
var objectSpan = regexp.MustCompile(`(?s)\{.*\}`)

// ParseError reports why model text could not be turned into a JSON object.
type ParseError struct {
	Reason string
	Text   string
}

func (e *ParseError) Error() (msg string) {
	msg = e.Reason
	return msg
}

// ExtractJSON pulls a JSON object out of free-form model output.
// It tries the outermost brace span first, then the whole trimmed text with any code fence removed.
func ExtractJSON(text string) (object map[string]any, err error) {
	var spanErr error
	if span := objectSpan.FindString(text); span != "" {
		object, spanErr = decodeObject(span)
		if spanErr == nil {
			return object, err
		}
	}

	whole := stripMarkdownCodeFences(strings.TrimSpace(text))
	object, err = decodeObject(whole)
	if err != nil {
		reason := err.Error()
		if spanErr != nil {
			reason = spanErr.Error()
		}
		err = &ParseError{Reason: reason, Text: text}
		return nil, err
	}

	return object, err
}

func decodeObject(text string) (object map[string]any, err error) {
	var value any
	err = json.Unmarshal([]byte(text), &value)
	if err != nil {
		return object, err
	}

	var ok bool
	object, ok = value.(map[string]any)
	if !ok {
		err = errors.Errorf("expected a JSON object, got %T", value)
		return nil, err
	}

	return object, err
}

// stripMarkdownCodeFences removes a surrounding ``` or ```json fence.
func stripMarkdownCodeFences(text string) (cleaned string) {
	cleaned = text

	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}

	// Drop the opening fence line, including any language tag.
	start := strings.IndexByte(cleaned, '\n')
	if start < 0 {
		cleaned = ""
		return cleaned
	}
	cleaned = cleaned[start+1:]

	cleaned = strings.TrimRight(cleaned, " \r\n")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimRight(cleaned, " \r\n")

	return cleaned
}
