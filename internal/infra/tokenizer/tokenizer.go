package tokenizer

import (
	"log/slog"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is used when none is configured.
const DefaultEncoding = "cl100k_base"

// Counter counts tokens with a tiktoken encoding, or estimates four bytes per
// token when the encoding cannot be loaded.
type Counter struct {
	enc *tiktoken.Tiktoken
}

// New loads the named encoding. Loading failures are logged and the counter
// falls back to estimation.
func New(encoding string, logger *slog.Logger) *Counter {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		logger.Warn("tiktoken encoding unavailable, estimating tokens", "encoding", encoding, "error", err)
		return &Counter{}
	}
	return &Counter{enc: enc}
}

// Count returns the token count of text.
func (c *Counter) Count(text string) int {
	if c == nil || c.enc == nil {
		return Estimate(text)
	}
	return len(c.enc.Encode(text, nil, nil))
}

// Estimate approximates tokens as one per four bytes, rounding up.
func Estimate(text string) int {
	return (len(text) + 3) / 4
}
