package parsers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCaption(t *testing.T) {
	payload, err := ParseCaption(`{"caption": "A golden dog at sunset", "hashtags": ["#dog", "#sunset", "#golden", "#art", "#photo"]}`)
	require.NoError(t, err)
	assert.Equal(t, "A golden dog at sunset", payload.Caption)
	assert.Len(t, payload.Hashtags, 5)
}

func TestParseCaptionCodeFence(t *testing.T) {
	raw := "```json\n{\"caption\": \"Fenced\", \"hashtags\": [\"#a\"]}\n```"
	payload, err := ParseCaption(raw)
	require.NoError(t, err)
	assert.Equal(t, "Fenced", payload.Caption)
	assert.Equal(t, []string{"#a"}, payload.Hashtags)
}

func TestParseCaptionBareFence(t *testing.T) {
	raw := "```\n{\"caption\": \"Bare\", \"hashtags\": []}\n```"
	payload, err := ParseCaption(raw)
	require.NoError(t, err)
	assert.Equal(t, "Bare", payload.Caption)
}

func TestParseCaptionMissingKeys(t *testing.T) {
	payload, err := ParseCaption(`{}`)
	require.NoError(t, err)
	assert.Equal(t, "", payload.Caption)
	assert.Empty(t, payload.Hashtags)
}

func TestParseCaptionMalformed(t *testing.T) {
	_, err := ParseCaption("Here is your caption: a nice dog!")
	require.Error(t, err)
}

func TestParseCaptionEmpty(t *testing.T) {
	_, err := ParseCaption("")
	require.Error(t, err)

	_, err = ParseCaption("``````")
	require.Error(t, err)
}

func TestParseCaptionTooLarge(t *testing.T) {
	_, err := ParseCaption(strings.Repeat("x", maxContentLen+1))
	require.Error(t, err)
}

func TestParseCaptionHashtagCap(t *testing.T) {
	var sb strings.Builder
	sb.WriteString(`{"caption": "c", "hashtags": [`)
	for i := 0; i < 40; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(`"#tag"`)
	}
	sb.WriteString(`]}`)

	payload, err := ParseCaption(sb.String())
	require.NoError(t, err)
	assert.Len(t, payload.Hashtags, maxHashtags)
}
