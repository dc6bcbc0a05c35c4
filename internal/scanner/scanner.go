// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package scanner provides the character-level primitives of the grammar:
// whitespace classes, identifiers and comment stripping.
package scanner

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Scanner walks a source string byte by byte. Identifiers and whitespace
// are ASCII-only, so byte offsets are always on rune boundaries where the
// parser looks at them.
type Scanner struct {
	src string
	pos int
}

// New creates a Scanner positioned at the start of src.
func New(src string) *Scanner {
	return &Scanner{src: src}
}

// Pos returns the current byte offset.
func (s *Scanner) Pos() int { return s.pos }

// Reset moves the scanner back to an offset previously returned by Pos.
func (s *Scanner) Reset(pos int) { s.pos = pos }

// Source returns the full input.
func (s *Scanner) Source() string { return s.src }

// Rest returns the unconsumed input.
func (s *Scanner) Rest() string { return s.src[s.pos:] }

// EOF returns true when all input has been consumed.
func (s *Scanner) EOF() bool { return s.pos >= len(s.src) }

// Peek returns the next byte without consuming it, or 0 at end of input.
func (s *Scanner) Peek() byte {
	if s.EOF() {
		return 0
	}
	return s.src[s.pos]
}

// Next consumes and returns the next rune.
func (s *Scanner) Next() rune {
	if s.EOF() {
		return utf8.RuneError
	}
	r, size := utf8.DecodeRuneInString(s.src[s.pos:])
	s.pos += size
	return r
}

// Accept consumes c if it is the next byte.
func (s *Scanner) Accept(c byte) bool {
	if s.Peek() == c && !s.EOF() {
		s.pos++
		return true
	}
	return false
}

// InlineSpace consumes spaces and tabs and returns how many were consumed.
// Newlines are significant and never inline whitespace.
func (s *Scanner) InlineSpace() int {
	return s.skip(IsInlineSpace)
}

// Multispace consumes spaces, tabs, carriage returns and newlines and
// returns how many were consumed.
func (s *Scanner) Multispace() int {
	return s.skip(IsMultispace)
}

func (s *Scanner) skip(class func(byte) bool) int {
	start := s.pos
	for !s.EOF() && class(s.src[s.pos]) {
		s.pos++
	}
	return s.pos - start
}

// Identifier consumes an identifier: one start character followed by any
// number of continuation characters. Nothing is consumed on failure.
func (s *Scanner) Identifier() (string, bool) {
	if s.EOF() || !IsIdentStart(s.src[s.pos]) {
		return "", false
	}
	start := s.pos
	s.pos++
	for !s.EOF() && IsIdentContinue(s.src[s.pos]) {
		s.pos++
	}
	return s.src[start:s.pos], true
}

// IsInlineSpace reports whether c is a space or tab.
func IsInlineSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

// IsMultispace reports whether c is a space, tab, CR or LF.
func IsMultispace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// IsIdentStart reports whether c can begin an identifier. '#' is allowed so
// that numeral words like #ta scan as identifiers.
func IsIdentStart(c byte) bool {
	return isASCIILetter(c) || c == '_' || c == '#'
}

// IsIdentContinue reports whether c can continue an identifier.
func IsIdentContinue(c byte) bool {
	return isASCIILetter(c) || (c >= '0' && c <= '9') || c == '_' || c == '-'
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// StripComments removes line comments from source. A '#' starts a comment
// only when it has whitespace (or the line start) on its left and whitespace
// (or the line end) on its right; anywhere else it is an identifier
// character. Every line is right-trimmed.
func StripComments(source string) string {
	lines := strings.Split(source, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	for i, line := range lines {
		lines[i] = stripLineComment(strings.TrimSuffix(line, "\r"))
	}
	return strings.Join(lines, "\n")
}

func stripLineComment(line string) string {
	for i := 0; i < len(line); i++ {
		if line[i] != '#' {
			continue
		}
		prevSpace := true
		if i > 0 {
			r, _ := utf8.DecodeLastRuneInString(line[:i])
			prevSpace = unicode.IsSpace(r)
		}
		nextSpace := true
		if i+1 < len(line) {
			r, _ := utf8.DecodeRuneInString(line[i+1:])
			nextSpace = unicode.IsSpace(r)
		}
		if prevSpace && nextSpace {
			return strings.TrimRightFunc(line[:i], unicode.IsSpace)
		}
	}
	return strings.TrimRightFunc(line, unicode.IsSpace)
}
