package typemap

import (
	"regexp"
)

var (
	enumPattern = regexp.MustCompile(`(?is)^\s*enum\s*\((.*)\)\s*$`)
	setPattern  = regexp.MustCompile(`(?is)^\s*set\s*\((.*)\)\s*$`)
)

// IsEnumType reports whether columnType has the shape enum(...).
func IsEnumType(columnType string) bool {
	return enumPattern.MatchString(columnType)
}

// IsSetType reports whether columnType has the shape set(...).
func IsSetType(columnType string) bool {
	return setPattern.MatchString(columnType)
}

// ParseEnumValues returns the literals of enum('a','b'). ok is false when the
// string is not an enum, the body is empty, or a quote is unterminated.
func ParseEnumValues(columnType string) ([]string, bool) {
	return parseValues(enumPattern, columnType)
}

// ParseSetValues returns the literals of set('a','b') under the same rules
// as ParseEnumValues.
func ParseSetValues(columnType string) ([]string, bool) {
	return parseValues(setPattern, columnType)
}

func parseValues(pattern *regexp.Regexp, columnType string) ([]string, bool) {
	m := pattern.FindStringSubmatch(columnType)
	if m == nil {
		return nil, false
	}
	values, ok := scanQuoted(m[1])
	if !ok || len(values) == 0 {
		return nil, false
	}
	return values, true
}

// scanQuoted extracts single-quoted literals. Inside a literal '' stands for
// one quote. Text outside quotes (commas, spaces) is ignored.
func scanQuoted(body string) ([]string, bool) {
	var (
		values  []string
		current []byte
		inQuote bool
	)

	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c == '\'' && !inQuote:
			inQuote = true
			current = current[:0]
		case c == '\'' && inQuote:
			if i+1 < len(body) && body[i+1] == '\'' {
				current = append(current, '\'')
				i++
				continue
			}
			values = append(values, string(current))
			inQuote = false
		case inQuote:
			current = append(current, c)
		}
	}

	if inQuote {
		return nil, false
	}
	return values, true
}
