package query

import (
	"errors"
	"strings"
	"unicode"
)

// ErrMultipleStatements keeps a call to one statement; the driver would
// otherwise run every statement in the text and report only the last.
var ErrMultipleStatements = errors.New("you can only execute one statement at a time")

// CheckSingleStatement fails when anything but whitespace or comments
// follows the semicolon that closes the first statement of q.
func CheckSingleStatement(q string) error {
	end := statementEnd(q)
	if end < 0 {
		return nil
	}
	if skipSpaceAndComments(q[end+1:]) != "" {
		return ErrMultipleStatements
	}
	return nil
}

// statementEnd returns the index of the semicolon closing the first
// statement of q, or -1 when q has none outside literals and comments.
// Inside CREATE TRIGGER only a semicolon right after END counts.
func statementEnd(q string) int {
	var (
		words     int
		first     string
		last      string
		inTrigger bool
	)
	for i := 0; i < len(q); {
		c := q[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			i = skipQuoted(q, i, c)
			last = ""
		case c == '[':
			j := strings.IndexByte(q[i:], ']')
			if j < 0 {
				return -1
			}
			i += j + 1
			last = ""
		case strings.HasPrefix(q[i:], "--"):
			j := strings.IndexByte(q[i:], '\n')
			if j < 0 {
				return -1
			}
			i += j + 1
		case strings.HasPrefix(q[i:], "/*"):
			j := strings.Index(q[i+2:], "*/")
			if j < 0 {
				return -1
			}
			i += j + 4
		case c == ';':
			if !inTrigger || last == "END" {
				return i
			}
			last = ""
			i++
		case isWordByte(c):
			j := i
			for j < len(q) && isWordByte(q[j]) {
				j++
			}
			word := strings.ToUpper(q[i:j])
			words++
			if words == 1 {
				first = word
			}
			if first == "CREATE" && word == "TRIGGER" && words <= 3 {
				inTrigger = true
			}
			last = word
			i = j
		default:
			if !unicode.IsSpace(rune(c)) {
				last = ""
			}
			i++
		}
	}
	return -1
}

// skipQuoted returns the index just past the literal opened at q[start].
// A doubled quote character is an escaped quote.
func skipQuoted(q string, start int, quote byte) int {
	for i := start + 1; i < len(q); i++ {
		if q[i] != quote {
			continue
		}
		if i+1 < len(q) && q[i+1] == quote {
			i++
			continue
		}
		return i + 1
	}
	return len(q)
}

func skipSpaceAndComments(s string) string {
	for {
		s = strings.TrimLeftFunc(s, unicode.IsSpace)
		switch {
		case strings.HasPrefix(s, "--"):
			j := strings.IndexByte(s, '\n')
			if j < 0 {
				return ""
			}
			s = s[j+1:]
		case strings.HasPrefix(s, "/*"):
			j := strings.Index(s[2:], "*/")
			if j < 0 {
				return ""
			}
			s = s[j+4:]
		default:
			return s
		}
	}
}

func isWordByte(c byte) bool {
	return c == '_' || c == '$' || c >= 0x80 ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}
