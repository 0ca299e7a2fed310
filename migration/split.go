package migration

import (
	"strings"
	"unicode"
)

// SplitStatements splits a SQL script into its statements. Semicolons inside
// quoted strings, quoted identifiers, comments and dollar-quoted bodies don't
// terminate a statement. Statements that only contain whitespace or comments
// are dropped.
func SplitStatements(script string) []string {
	var (
		stmts   []string
		start   int
		hasCode bool
	)

	flush := func(end int) {
		if hasCode {
			stmts = append(stmts, strings.TrimSpace(script[start:end]))
		}
		hasCode = false
	}

	for i := 0; i < len(script); i++ {
		c := script[i]
		switch {
		case c == '-' && i+1 < len(script) && script[i+1] == '-':
			i = skipUntil(script, i+2, "\n")
		case c == '/' && i+1 < len(script) && script[i+1] == '*':
			i = skipUntil(script, i+2, "*/")
		case c == '\'' || c == '"':
			hasCode = true
			i = skipUntil(script, i+1, string(c))
		case c == '$':
			hasCode = true
			if tag, ok := dollarTag(script[i:]); ok {
				i = skipUntil(script, i+len(tag), tag)
			}
		case c == ';':
			flush(i)
			start = i + 1
		case !unicode.IsSpace(rune(c)):
			hasCode = true
		}
	}
	flush(len(script))

	return stmts
}

// skipUntil returns the index of the last byte of the first occurrence of
// term in s at or after from, or the last index of s if there is none.
func skipUntil(s string, from int, term string) int {
	if from >= len(s) {
		return len(s) - 1
	}
	idx := strings.Index(s[from:], term)
	if idx == -1 {
		return len(s) - 1
	}
	return from + idx + len(term) - 1
}

// dollarTag returns the opening tag of a PostgreSQL dollar-quoted string, such
// as "$$" or "$body$", if s starts with one.
func dollarTag(s string) (string, bool) {
	for j := 1; j < len(s); j++ {
		c := s[j]
		switch {
		case c == '$':
			return s[:j+1], true
		case c == '_' || unicode.IsLetter(rune(c)):
		case c >= '0' && c <= '9' && j > 1:
		default:
			return "", false
		}
	}
	return "", false
}
