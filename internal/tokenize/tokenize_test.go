package tokenize

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"openphil/internal/domain"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"words", "arma virumque cano", []string{"arma", "virumque", "cano"}},
		{"punctuation", "Troiae qui, primus ab oris.", []string{"Troiae", "qui", ",", "primus", "ab", "oris", "."}},
		{"extra whitespace", "  in\tmedias \n res ", []string{"in", "medias", "res"}},
		{"greek", "μῆνιν ἄειδε θεὰ", []string{"μῆνιν", "ἄειδε", "θεὰ"}},
		{"digits", "liber 12", []string{"liber", "12"}},
		{"empty", " \n\t", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Split(tt.text)); diff != "" {
				t.Errorf("Split(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

func TestTokenizeAssignsStridedIndices(t *testing.T) {
	n := 0
	tz := New(10)
	tz.NewID = func() string {
		n++
		return fmt.Sprintf("t%d", n)
	}

	tokens, err := tz.Tokenize("a b, c", "w1")
	require.NoError(t, err)

	want := []domain.Token{
		{ID: "t1", Index: 10, Text: "a", WitnessID: "w1"},
		{ID: "t2", Index: 20, Text: "b", WitnessID: "w1"},
		{ID: "t3", Index: 30, Text: ",", WitnessID: "w1"},
		{ID: "t4", Index: 40, Text: "c", WitnessID: "w1"},
	}
	if diff := cmp.Diff(want, tokens); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeNormalizesToNFC(t *testing.T) {
	// "e" followed by a combining acute accent
	tokens, err := New(0).Tokenize("cafe\u0301", "w")
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, "caf\u00e9", tokens[0].Text)
	assert.Equal(t, DefaultStride, tokens[0].Index)

	_, err = uuid.Parse(tokens[0].ID)
	assert.NoError(t, err)
}

func TestTokenizeEmpty(t *testing.T) {
	_, err := New(1).Tokenize("   ", "w")
	assert.ErrorIs(t, err, ErrEmptyText)
}
