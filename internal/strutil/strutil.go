// Package strutil provides the identifier conversions used to name generated
// properties and types.
package strutil

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// -----------------------------------------------------------------------------
// Case Conversion
// -----------------------------------------------------------------------------

// ToCamelCase removes every underscore that is followed by a letter or digit
// and upper-cases that character. Other characters keep their case.
// Examples: user_id -> userId, measurements_2024_q1 -> measurements2024Q1
func ToCamelCase(s string) string {
	return joinWords(s, func(r rune) bool { return r == '_' })
}

// ToPascalCase is ToCamelCase with the first rune upper-cased. Dashes, spaces
// and dots separate words as well as underscores.
// Examples: user_stats -> UserStats, audit.log-entry -> AuditLogEntry
func ToPascalCase(s string) string {
	joined := joinWords(s, func(r rune) bool {
		return r == '_' || r == '-' || r == ' ' || r == '.'
	})
	if joined == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(joined)
	return string(unicode.ToUpper(first)) + joined[size:]
}

// joinWords drops each separator followed by a letter or digit and
// upper-cases that following rune. Other separators are kept.
func joinWords(s string, isSep func(rune) bool) string {
	if s == "" {
		return ""
	}

	runes := []rune(s)
	var result strings.Builder
	result.Grow(len(s))

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if isSep(r) && i+1 < len(runes) && isWordRune(runes[i+1]) {
			result.WriteRune(unicode.ToUpper(runes[i+1]))
			i++
			continue
		}
		result.WriteRune(r)
	}

	return result.String()
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// -----------------------------------------------------------------------------
// Singularization
// -----------------------------------------------------------------------------

// Singularize turns a plural table name into a singular type name using a
// small fixed rule set on the end of the string:
//
//	ies              -> y      (categories -> category)
//	sses             -> ss     (addresses -> address)
//	xes, ches, shes, zzes -> drop "es" (boxes -> box)
//	ss, us, is       -> kept   (status, analysis)
//	s                -> dropped
//
// It is a heuristic. Irregular plurals (people, children) are left alone and
// some singular words lose a trailing s (news -> new).
func Singularize(s string) string {
	lower := strings.ToLower(s)

	switch {
	case len(s) > 3 && strings.HasSuffix(lower, "ies"):
		y := "y"
		if strings.HasSuffix(s, "IES") {
			y = "Y"
		}
		return s[:len(s)-3] + y
	case strings.HasSuffix(lower, "sses"):
		return s[:len(s)-2]
	case hasAnySuffix(lower, "xes", "ches", "shes", "zzes"):
		return s[:len(s)-2]
	case hasAnySuffix(lower, "ss", "us", "is"):
		return s
	case len(s) > 1 && strings.HasSuffix(lower, "s"):
		return s[:len(s)-1]
	default:
		return s
	}
}

func hasAnySuffix(s string, suffixes ...string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}
