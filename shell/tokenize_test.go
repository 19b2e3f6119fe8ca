package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeBasic(t *testing.T) {
	tokens := Tokenize("qiime feature-table summarize")

	require.Len(t, tokens, 3)
	assert.Equal(t, Token{Text: "qiime", Start: 0, End: 5}, tokens[0])
	assert.Equal(t, Token{Text: "feature-table", Start: 6, End: 19}, tokens[1])
	assert.Equal(t, Token{Text: "summarize", Start: 20, End: 29}, tokens[2])
}

func TestTokenizeSingleQuotes(t *testing.T) {
	tokens := Tokenize("qiime 'hello world'")

	require.Len(t, tokens, 2)
	assert.Equal(t, Token{Text: "qiime", Start: 0, End: 5}, tokens[0])
	assert.Equal(t, Token{Text: "hello world", Start: 6, End: 19}, tokens[1])
}

func TestTokenizeDoubleQuotesWithEscapes(t *testing.T) {
	tokens := Tokenize(`qiime "a \"quoted\" arg"`)

	require.Len(t, tokens, 2)
	assert.Equal(t, `a "quoted" arg`, tokens[1].Text)
}

func TestTokenizeUnquotedEscape(t *testing.T) {
	tokens := Tokenize(`qiime my\ file.qza`)

	require.Len(t, tokens, 2)
	assert.Equal(t, "my file.qza", tokens[1].Text)
}

func TestTokenizeNoEscapesInSingleQuotes(t *testing.T) {
	tokens := Tokenize(`qiime 'a\nb'`)

	require.Len(t, tokens, 2)
	assert.Equal(t, `a\nb`, tokens[1].Text)
}

func TestTokenizeUnterminatedQuoteRunsToEnd(t *testing.T) {
	tokens := Tokenize("qiime 'unterminated arg")

	require.Len(t, tokens, 2)
	assert.Equal(t, "unterminated arg", tokens[1].Text)
	assert.Equal(t, 23, tokens[1].End)
}

func TestTokenizeEmptyQuotedPair(t *testing.T) {
	tokens := Tokenize("qiime '' x")

	require.Len(t, tokens, 3)
	assert.Equal(t, "", tokens[1].Text)
	assert.Equal(t, 6, tokens[1].Start)
	assert.Equal(t, 8, tokens[1].End)
}

func TestTokenizeWhitespaceOnly(t *testing.T) {
	assert.Empty(t, Tokenize("   \t  "))
	assert.Empty(t, Tokenize(""))
}

func TestTokenizeOptionWithValue(t *testing.T) {
	tokens := Tokenize("qiime tool --i-table=table.qza")

	require.Len(t, tokens, 3)
	assert.Equal(t, "--i-table=table.qza", tokens[2].Text)
}
