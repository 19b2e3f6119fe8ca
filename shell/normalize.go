// Package shell parses shell script text far enough to locate CLI
// invocations: line-continuation normalization, quote-aware tokenization,
// and command splitting at top-level separators.
//
// The parser is deliberately lenient. It handles text that is being actively
// typed, so unterminated quotes run to the end of input and nothing here
// ever fails. Full shell grammar (subshells, expansions, here-docs) is out
// of scope.
package shell

import "fmt"

// OffsetMap maps positions in normalized text back to the original text.
//
// Entry i holds the original offset of normalized character i. The map has
// one extra trailing entry equal to len(original), so token end offsets
// (exclusive) map cleanly. Entries are non-decreasing.
type OffsetMap []int

// ToOriginal returns the original offset for a normalized position.
//
// Panics on out-of-range positions: an invalid lookup is a programmer error,
// not a degradable input condition.
func (m OffsetMap) ToOriginal(normalized int) int {
	if normalized < 0 || normalized >= len(m) {
		panic(fmt.Sprintf("shell: offset map lookup out of range: %d (len %d)", normalized, len(m)))
	}
	return m[normalized]
}

// ToNormalized returns the smallest normalized position whose original
// offset is >= the given original offset, or the last position if the
// offset lies beyond every mapped character.
func (m OffsetMap) ToNormalized(original int) int {
	for i, orig := range m {
		if orig >= original {
			return i
		}
	}
	return len(m) - 1
}

// Normalize removes backslash-newline line continuations so downstream
// logic sees a multi-physical-line invocation as one logical line.
//
// Returns the normalized text and an OffsetMap relating every kept
// character (plus a trailing boundary) to its original offset.
func Normalize(text string) (string, OffsetMap) {
	normalized := make([]byte, 0, len(text))
	offsetMap := make(OffsetMap, 0, len(text)+1)

	for i := 0; i < len(text); i++ {
		if text[i] == '\\' && i+1 < len(text) && text[i+1] == '\n' {
			i++ // drop both characters
			continue
		}
		normalized = append(normalized, text[i])
		offsetMap = append(offsetMap, i)
	}

	offsetMap = append(offsetMap, len(text))
	return string(normalized), offsetMap
}
