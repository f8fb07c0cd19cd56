package urlnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "plain URL unchanged",
			raw:      "https://example.com/articles/42",
			expected: "https://example.com/articles/42",
		},
		{
			name:     "query string dropped",
			raw:      "https://example.com/articles/42?utm_source=mail&page=2",
			expected: "https://example.com/articles/42",
		},
		{
			name:     "fragment dropped",
			raw:      "https://example.com/articles/42#section-3",
			expected: "https://example.com/articles/42",
		},
		{
			name:     "query and fragment dropped together",
			raw:      "https://example.com/articles/42?ref=home#top",
			expected: "https://example.com/articles/42",
		},
		{
			name:     "host lowercased",
			raw:      "https://Example.COM/Articles",
			expected: "https://example.com/Articles",
		},
		{
			name:     "port preserved",
			raw:      "http://localhost:3000/page?x=1",
			expected: "http://localhost:3000/page",
		},
		{
			name:     "root URL without path",
			raw:      "https://example.com",
			expected: "https://example.com",
		},
		{
			name:     "surrounding whitespace trimmed",
			raw:      "  https://example.com/a  ",
			expected: "https://example.com/a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

// URLs differing only by query or fragment must share one comment group.
func TestNormalize_Equivalence(t *testing.T) {
	variants := []string{
		"https://example.com/post/7",
		"https://example.com/post/7#comments",
		"https://example.com/post/7?utm_campaign=spring",
		"https://example.com/post/7?fbclid=abc123#share",
	}

	first, err := Normalize(variants[0])
	require.NoError(t, err)
	for _, v := range variants[1:] {
		got, err := Normalize(v)
		require.NoError(t, err)
		assert.Equal(t, first, got, "variant %q fragmented the comment group", v)
	}
}

func TestNormalize_Invalid(t *testing.T) {
	invalid := []string{
		"",
		"not a url",
		"/relative/path",
		"example.com/missing-scheme",
		"mailto:someone@example.com",
		"http://",
	}

	for _, raw := range invalid {
		_, err := Normalize(raw)
		assert.ErrorIs(t, err, ErrInvalidURL, "input %q", raw)
	}
}
