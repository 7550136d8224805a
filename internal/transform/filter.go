package transform

import (
	"path"
	"strings"

	"github.com/koustreak/kyselygen/internal/schema"
)

// Filter selects tables by glob patterns over "schema.table".
//
// Patterns use path.Match syntax (*, ?, [...]). A pattern without a dot is
// also tried against the bare table name. With no include patterns every
// table is included. A table matching an exclude pattern is dropped even
// when an include pattern matches it too.
type Filter struct {
	Include []string
	Exclude []string
}

// Match reports whether the table passes the filter.
func (f Filter) Match(t schema.TableMetadata) bool {
	if matchAny(f.Exclude, t) {
		return false
	}
	if len(f.Include) == 0 {
		return true
	}
	return matchAny(f.Include, t)
}

// Apply returns the tables that pass the filter, in their original order.
func (f Filter) Apply(tables []schema.TableMetadata) []schema.TableMetadata {
	out := make([]schema.TableMetadata, 0, len(tables))
	for _, t := range tables {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

func matchAny(patterns []string, t schema.TableMetadata) bool {
	qualified := t.QualifiedName()
	for _, pattern := range patterns {
		if matchPattern(pattern, qualified) {
			return true
		}
		if !strings.Contains(pattern, ".") && matchPattern(pattern, t.Name) {
			return true
		}
	}
	return false
}

// matchPattern reports whether name fits the glob. A malformed glob such as
// "users[" can only match a table literally named that way.
func matchPattern(pattern, name string) bool {
	if ok, err := path.Match(pattern, name); err == nil {
		return ok
	}
	return pattern == name
}
