// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package token defines the reserved words of the language: numeral words,
// boolean words and special-form keywords.
package token

import "strconv"

// Special-form keywords. They are checked before any environment lookup
// and cannot be rebound.
const (
	If          = "nobu"      // Conditional
	Bind        = "gakas"     // Bind a name in the current frame
	DefFunction = "gakasdenu" // Define a named function
)

// Boolean words.
const (
	True  = "me"
	False = "ga"
)

// numerals maps 0..10 to their words. Index is the value.
var numerals = [...]string{"rv", "ru", "ra", "ro", "re", "ri", "rya", "ryu", "ryo", "rye", "#ta"}

// MaxNumeral is the largest integer with a word form.
const MaxNumeral = len(numerals) - 1

// IsSpecialForm returns true if name is one of the reserved operators.
func IsSpecialForm(name string) bool {
	switch name {
	case If, Bind, DefFunction:
		return true
	}
	return false
}

// SpecialForms returns the reserved operator names.
func SpecialForms() []string {
	return []string{If, Bind, DefFunction}
}

// Numeral returns the value of a numeral word.
func Numeral(word string) (int64, bool) {
	for i, w := range numerals {
		if w == word {
			return int64(i), true
		}
	}
	return 0, false
}

// Boolean returns the value of a boolean word.
func Boolean(word string) (bool, bool) {
	switch word {
	case True:
		return true, true
	case False:
		return false, true
	}
	return false, false
}

// FormatNumber renders n as its numeral word when it has one, decimal
// digits otherwise.
func FormatNumber(n int64) string {
	if n >= 0 && n <= int64(MaxNumeral) {
		return numerals[n]
	}
	return strconv.FormatInt(n, 10)
}

// FormatBool renders b as its boolean word.
func FormatBool(b bool) string {
	if b {
		return True
	}
	return False
}
