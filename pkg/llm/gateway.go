// Package llm is the single path to the language model: raw completion, JSON extraction and retry.
package llm

import (
	"context"
	"log/slog"
	"unicode/utf8"
)

const (
	// MaxAttempts bounds ParseStructured.
	MaxAttempts = 3
	// DeterministicTemperature is used for structured output.
	DeterministicTemperature = 0.0
	// CreativeTemperature is used for free-form prose.
	CreativeTemperature = 0.7
	// rawResponseLimit caps the raw text kept in a failure sentinel.
	rawResponseLimit = 500
)

// Completer is a model endpoint: prompt plus temperature in, raw text out.
type Completer interface {
	Complete(ctx context.Context, prompt string, temperature float64) (text string, err error)
}

// Result is a parsed model object, or the failure sentinel {"error", "raw_response"}.
type Result map[string]any

// Failed reports whether the result carries an error key.
func (r Result) Failed() (failed bool) {
	_, failed = r["error"]
	return failed
}

// Error returns the error message of a failed result, or "" for a good one.
func (r Result) Error() (msg string) {
	value, ok := r["error"]
	if !ok {
		return msg
	}
	msg, ok = value.(string)
	if !ok || msg == "" {
		msg = "Unknown error"
	}
	return msg
}

// Gateway wraps a Completer with the structured-output contract.
type Gateway struct {
	completer   Completer
	maxAttempts int
	logger      *slog.Logger
}

// NewGateway creates a gateway. A nil logger uses slog.Default().
func NewGateway(completer Completer, logger *slog.Logger) (gateway *Gateway) {
	if logger == nil {
		logger = slog.Default()
	}
	gateway = &Gateway{
		completer:   completer,
		maxAttempts: MaxAttempts,
		logger:      logger,
	}
	return gateway
}

// ParseStructured asks for a JSON object at deterministic temperature.
// The identical prompt is re-sent on any failure, up to MaxAttempts times.
// It never returns an error: exhaustion yields a Result whose Failed() is true.
func (g *Gateway) ParseStructured(ctx context.Context, prompt string) (result Result) {
	var lastErr error
	var raw string

	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		var text string
		var err error
		text, err = g.completer.Complete(ctx, prompt, DeterministicTemperature)
		if err != nil {
			lastErr = err
			g.logger.Debug("model call failed", "attempt", attempt, "error", err)
			continue
		}
		raw = text

		var object map[string]any
		object, err = ExtractJSON(text)
		if err != nil {
			lastErr = err
			g.logger.Debug("model output was not a JSON object", "attempt", attempt, "error", err)
			continue
		}

		result = Result(object)
		return result
	}

	msg := "Failed to parse after retries"
	if lastErr != nil {
		msg = lastErr.Error()
	}

	g.logger.Warn("structured output failed", "attempts", g.maxAttempts, "error", msg)

	result = Result{
		"error":        msg,
		"raw_response": Truncate(raw, rawResponseLimit),
	}

	return result
}

// GenerateText returns raw model prose without validation.
func (g *Gateway) GenerateText(ctx context.Context, prompt string, creative bool) (text string, err error) {
	temperature := DeterministicTemperature
	if creative {
		temperature = CreativeTemperature
	}

	text, err = g.completer.Complete(ctx, prompt, temperature)
	return text, err
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) (out string) {
	if utf8.RuneCountInString(s) <= n {
		out = s
		return out
	}
	runes := []rune(s)
	out = string(runes[:n])
	return out
}
