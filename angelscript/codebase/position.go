package codebase

import (
	"bytes"
	"unicode/utf16"
	"unicode/utf8"
)

// lineIndex converts between the byte columns the lexer counts and the
// UTF-16 columns editors count. A nil index treats every byte as one unit.
type lineIndex struct {
	content []byte
	starts  []int
}

func newLineIndex(content []byte) *lineIndex {
	starts := []int{0}
	for i, b := range content {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{content: content, starts: starts}
}

// text returns line n (1-based) without its line break.
func (x *lineIndex) text(n int) []byte {
	if x == nil || n < 1 || n > len(x.starts) {
		return nil
	}
	start, end := x.starts[n-1], len(x.content)
	if n < len(x.starts) {
		end = x.starts[n] - 1
	}
	return bytes.TrimSuffix(x.content[start:end], []byte("\r"))
}

// utf16Column returns the 0-based UTF-16 column of the 1-based byte column
// on line. Columns past the end of the line count one unit per byte.
func (x *lineIndex) utf16Column(line, column int) int {
	if column < 1 {
		return 0
	}
	text := x.text(line)
	n := column - 1
	if n > len(text) {
		return utf16Len(text) + n - len(text)
	}
	return utf16Len(text[:n])
}

// byteColumn is the inverse of utf16Column. A unit inside a surrogate pair
// maps to the start of its rune.
func (x *lineIndex) byteColumn(line, units int) int {
	if units < 0 {
		return 1
	}
	text := x.text(line)
	offset := 0
	for offset < len(text) && units > 0 {
		r, size := utf8.DecodeRune(text[offset:])
		w := utf16.RuneLen(r)
		if w < 0 {
			w = 1
		}
		if units < w {
			break
		}
		units -= w
		offset += size
	}
	if offset == len(text) {
		offset += units
	}
	return offset + 1
}

func utf16Len(text []byte) int {
	n := 0
	for len(text) > 0 {
		r, size := utf8.DecodeRune(text)
		if w := utf16.RuneLen(r); w > 0 {
			n += w
		} else {
			n++
		}
		text = text[size:]
	}
	return n
}
