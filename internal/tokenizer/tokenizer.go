// Package tokenizer estimates how many model tokens a rendered tree occupies.
package tokenizer

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// Counter estimates token counts for text content.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

const (
	// DefaultModel is used when no model is configured.
	DefaultModel        = "gpt-4o"
	defaultEncodingName = "cl100k_base"

	errorFallbackEncodingFormat = "initialize fallback tokenizer: %w"
	errorNilCounterMessage      = "nil tokenizer counter"
	errorInvalidTextMessage     = "rendered output is not valid UTF-8"
)

// NewCounter returns a tiktoken Counter for model along with the name of the encoding
// actually used. Models without a known encoding use cl100k_base.
func NewCounter(model string) (Counter, string, error) {
	normalizedModel := strings.ToLower(strings.TrimSpace(model))
	if normalizedModel == "" {
		normalizedModel = DefaultModel
	}

	if encoding, encodingError := tiktoken.EncodingForModel(normalizedModel); encodingError == nil {
		if counter, counterError := newEncodingCounter(encoding, normalizedModel); counterError == nil {
			return counter, normalizedModel, nil
		}
	}
	fallback, fallbackError := tiktoken.GetEncoding(defaultEncodingName)
	if fallbackError != nil {
		return nil, "", fmt.Errorf(errorFallbackEncodingFormat, fallbackError)
	}
	counter, counterError := newEncodingCounter(fallback, defaultEncodingName)
	if counterError != nil {
		return nil, "", fmt.Errorf(errorFallbackEncodingFormat, counterError)
	}
	return counter, defaultEncodingName, nil
}

// CountRendered counts the tokens of a rendered artifact.
func CountRendered(counter Counter, rendered string) (int, error) {
	if counter == nil {
		return 0, errors.New(errorNilCounterMessage)
	}
	if !utf8.ValidString(rendered) {
		return 0, errors.New(errorInvalidTextMessage)
	}
	return counter.CountString(rendered)
}
