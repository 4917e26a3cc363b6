package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON(t *testing.T) {
	var out struct {
		Name string `json:"name"`
	}
	require.NoError(t, ParseJSON(`{"name":"Ember Oud"}`, &out))
	assert.Equal(t, "Ember Oud", out.Name)

	assert.Error(t, ParseJSON(`{"name":"x"} trailing`, &out))
	assert.Error(t, ParseJSON(`not json`, &out))
}

func TestParseJSONStrict(t *testing.T) {
	var out struct {
		Name string `json:"name"`
	}
	assert.NoError(t, ParseJSONStrict(`{"name":"x"}`, &out))
	assert.Error(t, ParseJSONStrict(`{"name":"x","extra":1}`, &out))
}

func TestStripMarkdownFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain json untouched", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  ```json\n{\"a\":1}\n```  ", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripMarkdownFences(tt.in))
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	assert.Equal(t, `{"a":1}`, ExtractJSONObject("Sure! Here you go: {\"a\":1} Bye."))
	assert.Equal(t, `{"a":1}`, ExtractJSONObject("```json\n{\"a\":1}\n```"))
	assert.Equal(t, "no braces here", ExtractJSONObject("no braces here"))
}

func TestQuoteJSONKeys(t *testing.T) {
	assert.Equal(t, `{"name": "x", "percent": 10}`, QuoteJSONKeys(`{name: "x", percent: 10}`))
	assert.Equal(t, `{"name": "x"}`, QuoteJSONKeys(`{"name": "x"}`))
}

func TestCanonicalPrompt(t *testing.T) {
	assert.Equal(t, "a b c", CanonicalPrompt("  a\n\tb   c \n"))
	assert.Equal(t, CanonicalPrompt("make  a\nbrief"), CanonicalPrompt("make a brief"))
}
