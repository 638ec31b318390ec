package ux

import (
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

// strict removes every tag; feedback text is plain but arrives from other
// clients unfiltered
var strict = bluemonday.StrictPolicy()

// PlainText reduces server-supplied text to something safe to print on a
// terminal: markup is stripped, entities are decoded and control characters
// other than newline and tab are dropped.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	cleaned := html.UnescapeString(strict.Sanitize(s))
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, cleaned)
}

// Truncate shortens s to n runes, marking the cut with an ellipsis
func Truncate(s string, n int) string {
	runes := []rune(s)
	if n <= 0 || len(runes) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(runes[:n-1]) + "…"
}

// OneLine joins the lines of s with spaces
func OneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
