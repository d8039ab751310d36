package index

import (
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sharpfind/sf/internal/model"
)

// Columns returned by BuildQuery, in scan order.
const selectColumns = "item_path_display, size, date_modified"

// BuildQuery translates the pushdown-capable predicates of spec into a single
// provider query: root scope, size bounds, modification-time bounds,
// extension and include substrings. Exclude patterns and the hidden-directory
// set are never pushed down; the provider has no segment-aware exclusion.
//
// Literal values are embedded in the query text, escaped by QuoteLiteral.
func BuildQuery(spec model.FilterSpec) string {
	clauses := []string{ScopeClause(spec.Root)}

	if spec.MinSize != nil {
		clauses = append(clauses, "size >= "+strconv.FormatInt(*spec.MinSize, 10))
	}
	if spec.MaxSize != nil {
		clauses = append(clauses, "size <= "+strconv.FormatInt(*spec.MaxSize, 10))
	}
	if spec.NewerThan != nil {
		clauses = append(clauses, "date_modified >= "+strconv.FormatInt(UnixNanos(*spec.NewerThan), 10))
	}
	if spec.OlderThan != nil {
		clauses = append(clauses, "date_modified <= "+strconv.FormatInt(UnixNanos(*spec.OlderThan), 10))
	}
	if spec.Extension != "" {
		clauses = append(clauses, "LOWER(file_extension) = "+QuoteLiteral(strings.ToLower(spec.Extension)))
	}
	for _, p := range spec.Include {
		pattern := QuoteLiteral("%" + escapeLike(p) + "%")
		if spec.IgnoreCase {
			// Provider LOWER() may fold ASCII only; other patterns are left
			// to the filter engine.
			if isASCII(p) {
				clauses = append(clauses, "LOWER(item_path_display) LIKE LOWER("+pattern+`) ESCAPE '\'`)
			}
		} else {
			clauses = append(clauses, "item_path_display LIKE "+pattern+` ESCAPE '\'`)
		}
	}

	return "SELECT " + selectColumns + " FROM system_index WHERE " + strings.Join(clauses, " AND ")
}

// ScopeClause restricts rows to paths strictly below root.
func ScopeClause(root string) string {
	return "item_path_display LIKE " + QuoteLiteral(escapeLike(DisplayPath(root))+"/%") + ` ESCAPE '\'`
}

// DisplayPath converts an OS path to the provider's '/'-separated form,
// without a trailing separator.
func DisplayPath(path string) string {
	return strings.TrimSuffix(filepath.ToSlash(path), "/")
}

// QuoteLiteral wraps s in single quotes, doubling every embedded quote.
func QuoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern using '\' as the
// escape character.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var (
	minNanosTime = time.Unix(0, math.MinInt64)
	maxNanosTime = time.Unix(0, math.MaxInt64)
)

// UnixNanos is t as nanoseconds since the Unix epoch, clamped to the int64
// range so that bounds far in the past or future keep their ordering.
func UnixNanos(t time.Time) int64 {
	switch {
	case t.Before(minNanosTime):
		return math.MinInt64
	case t.After(maxNanosTime):
		return math.MaxInt64
	}
	return t.UnixNano()
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
