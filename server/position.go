package server

import (
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// LSP positions count lines and UTF-16 code units; the parser works in byte
// offsets over the whole document. These two functions convert between them.

func positionToOffset(text string, pos protocol.Position) int {
	offset := 0
	for line := int(pos.Line); line > 0; line-- {
		i := strings.IndexByte(text[offset:], '\n')
		if i < 0 {
			return len(text)
		}
		offset += i + 1
	}

	units := int(pos.Character)
	for i, r := range text[offset:] {
		if units <= 0 || r == '\n' {
			return offset + i
		}
		units -= utf16Len(r)
	}
	return len(text)
}

func offsetToPosition(text string, offset int) protocol.Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(text) {
		offset = len(text)
	}

	line := 0
	lineStart := 0
	for i := 0; i < offset; i++ {
		if text[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}

	character := 0
	for _, r := range text[lineStart:offset] {
		character += utf16Len(r)
	}

	return protocol.Position{
		Line:      protocol.UInteger(line),
		Character: protocol.UInteger(character),
	}
}

// utf16Len is the number of UTF-16 code units encoding r.
func utf16Len(r rune) int {
	if r > 0xFFFF {
		return 2
	}
	return 1
}
