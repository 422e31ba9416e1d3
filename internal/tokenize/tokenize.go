// Package tokenize turns witness text into an ordered token sequence.
package tokenize

import (
	"errors"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"openphil/internal/domain"
)

// ErrEmptyText is returned when a witness has no tokens
var ErrEmptyText = errors.New("witness text has no tokens")

// DefaultStride is the gap left between consecutive position indices
const DefaultStride = 100

// Tokenizer splits text into word and punctuation tokens
type Tokenizer struct {
	Stride int
	NewID  func() string
}

// New creates a tokenizer with the given index stride
func New(stride int) *Tokenizer {
	if stride <= 0 {
		stride = DefaultStride
	}
	return &Tokenizer{
		Stride: stride,
		NewID:  uuid.NewString,
	}
}

// Tokenize normalizes text to NFC and splits it into tokens. Words are runs
// of letters, digits and combining marks; every other visible rune is a
// token on its own. Indices are Stride, 2*Stride, ... so later splits can
// slot new tokens in between.
func (tz *Tokenizer) Tokenize(text, witnessID string) ([]domain.Token, error) {
	words := Split(norm.NFC.String(text))
	if len(words) == 0 {
		return nil, ErrEmptyText
	}

	tokens := make([]domain.Token, len(words))
	for i, w := range words {
		tokens[i] = domain.Token{
			ID:        tz.NewID(),
			Index:     (i + 1) * tz.Stride,
			Text:      w,
			WitnessID: witnessID,
		}
	}
	return tokens, nil
}

// Split breaks already-normalized text into token strings
func Split(text string) []string {
	var (
		out  []string
		word strings.Builder
	)
	flush := func() {
		if word.Len() > 0 {
			out = append(out, word.String())
			word.Reset()
		}
	}

	for _, r := range text {
		switch {
		case isWordRune(r):
			word.WriteRune(r)
		case unicode.IsSpace(r) || !unicode.IsPrint(r):
			flush()
		default:
			flush()
			out = append(out, string(r))
		}
	}
	flush()

	return out
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}
