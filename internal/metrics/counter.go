package metrics

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Counter measures a piece of report text.
type Counter interface {
	// Count returns the number of bytes, tokens, and lines in text.
	Count(text string) (bytes, tokens, lines int)
}

// NewCounter returns the counter named by estimator: "simple" (the default)
// or "tiktoken".
func NewCounter(estimator string) (Counter, error) {
	switch estimator {
	case "", "simple":
		return &SimpleCounter{}, nil
	case "tiktoken":
		return NewTiktokenCounter("gpt-3.5-turbo")
	default:
		return nil, fmt.Errorf("unknown token estimator: %s", estimator)
	}
}

// SimpleCounter estimates one token per four bytes.
type SimpleCounter struct{}

func (c *SimpleCounter) Count(text string) (int, int, int) {
	return len(text), len(text) / 4, countLines(text)
}

// TiktokenCounter counts tokens with a model's BPE encoding.
type TiktokenCounter struct {
	encoding *tiktoken.Tiktoken
}

// NewTiktokenCounter loads the encoding for model.
func NewTiktokenCounter(model string) (*TiktokenCounter, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, fmt.Errorf("unsupported model for tiktoken: %s: %w", model, err)
	}
	return &TiktokenCounter{encoding: enc}, nil
}

func (c *TiktokenCounter) Count(text string) (int, int, int) {
	tokens := len(c.encoding.Encode(text, nil, nil))
	return len(text), tokens, countLines(text)
}

// countLines counts newline-separated lines; the empty string has one line.
func countLines(text string) int {
	return strings.Count(text, "\n") + 1
}
