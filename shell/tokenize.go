package shell

import "strings"

// Token is one shell word cut from normalized text.
//
// Text has quoting and escapes resolved; Start and End span the raw
// characters consumed, so a quoted token's End can exceed Start+len(Text).
type Token struct {
	Text  string
	Start int
	End   int
}

type quoteState int

const (
	stateNormal quoteState = iota
	stateSingleQuote
	stateDoubleQuote
)

// Tokenize splits one command segment into quote-aware tokens.
//
// Outside quotes a backslash escapes the next character and whitespace ends
// the token. Single quotes are literal until the closing quote; double
// quotes allow backslash escapes. Unterminated quotes run to end of input.
func Tokenize(line string) []Token {
	return tokenizeAt(line, 0)
}

// tokenizeAt tokenizes line, offsetting every token span by base. Used by
// the command splitter so segment tokens carry whole-text offsets.
func tokenizeAt(line string, base int) []Token {
	var tokens []Token
	i, n := 0, len(line)

	for i < n {
		for i < n && isSpace(line[i]) {
			i++
		}
		if i >= n {
			break
		}

		start := i
		var text strings.Builder
		state := stateNormal

	scan:
		for i < n {
			c := line[i]
			switch state {
			case stateNormal:
				switch {
				case isSpace(c):
					break scan
				case c == '\\' && i+1 < n:
					text.WriteByte(line[i+1])
					i += 2
					continue
				case c == '\'':
					state = stateSingleQuote
				case c == '"':
					state = stateDoubleQuote
				default:
					text.WriteByte(c)
				}
				i++
			case stateSingleQuote:
				if c == '\'' {
					state = stateNormal
				} else {
					text.WriteByte(c)
				}
				i++
			case stateDoubleQuote:
				switch {
				case c == '\\' && i+1 < n:
					text.WriteByte(line[i+1])
					i += 2
					continue
				case c == '"':
					state = stateNormal
				default:
					text.WriteByte(c)
				}
				i++
			}
		}

		// An empty quoted pair still consumed input and still counts as
		// a token.
		if i > start {
			tokens = append(tokens, Token{
				Text:  text.String(),
				Start: base + start,
				End:   base + i,
			})
		}
	}

	return tokens
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
