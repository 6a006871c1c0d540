package components

import (
	"strconv"
	"strings"

	"github.com/rebeliceyang/lazyplist/internal/editor"
	"github.com/rebeliceyang/lazyplist/internal/plist"
)

// SearchQuery represents a parsed search query
type SearchQuery struct {
	Pattern string // The search pattern (after removing prefix/type)
	Negate  bool   // True if query starts with !
	Kind    plist.Kind
	HasKind bool // True if a type prefix restricted the search
}

// typePrefixes is checked in order, so longer prefixes sharing a first
// letter come before the short form
var typePrefixes = []struct {
	prefix string
	kind   plist.Kind
}{
	{"string:", plist.KindString},
	{"integer:", plist.KindInteger},
	{"int:", plist.KindInteger},
	{"real:", plist.KindReal},
	{"bool:", plist.KindBoolean},
	{"data:", plist.KindData},
	{"date:", plist.KindDate},
	{"array:", plist.KindArray},
	{"dict:", plist.KindDictionary},
	{"s:", plist.KindString},
	{"i:", plist.KindInteger},
	{"r:", plist.KindReal},
	{"b:", plist.KindBoolean},
	{"d:", plist.KindData},
	{"a:", plist.KindArray},
}

// ParseSearchQuery parses a search query string into structured form
// Examples:
//   - "name" → {Pattern: "name"}
//   - "!name" → {Pattern: "name", Negate: true}
//   - "i:42" → {Pattern: "42", Kind: Integer}
//   - "!dict:" → {Negate: true, Kind: Dictionary}
func ParseSearchQuery(query string) SearchQuery {
	q := SearchQuery{}

	if strings.HasPrefix(query, "!") {
		q.Negate = true
		query = query[1:]
	}

	queryLower := strings.ToLower(query)
	for _, tp := range typePrefixes {
		if strings.HasPrefix(queryLower, tp.prefix) {
			q.Kind = tp.kind
			q.HasKind = true
			query = query[len(tp.prefix):]
			break
		}
	}

	q.Pattern = query
	return q
}

// FuzzyMatch performs fuzzy subsequence matching
// Returns whether the pattern matches and the positions of matched characters
// Matching is case-insensitive
func FuzzyMatch(pattern, target string) (bool, []int) {
	if pattern == "" {
		return true, []int{}
	}

	patternLower := strings.ToLower(pattern)
	targetLower := strings.ToLower(target)

	positions := make([]int, 0, len(pattern))
	patternIdx := 0

	for i := 0; i < len(targetLower) && patternIdx < len(patternLower); i++ {
		if targetLower[i] == patternLower[patternIdx] {
			positions = append(positions, i)
			patternIdx++
		}
	}

	if patternIdx == len(patternLower) {
		return true, positions
	}
	return false, nil
}

// ScalarText returns a leaf value the way the row editors display it.
// Containers have no scalar text.
func ScalarText(v *plist.Value) string {
	switch v.Kind() {
	case plist.KindString:
		return editor.String.Format(v)
	case plist.KindInteger:
		return editor.Integer.Format(v)
	case plist.KindData:
		return editor.Data.Format(v)
	case plist.KindDate:
		return editor.Date.Format(v)
	case plist.KindReal:
		r, _ := v.RealValue()
		return formatReal(r)
	case plist.KindBoolean:
		b, _ := v.BooleanValue()
		return strconv.FormatBool(b)
	default:
		return ""
	}
}

// FilterTree searches the whole document, collapsed branches included.
// A node matches when its key (or array index) or its scalar text fuzzy
// matches the pattern. The root itself is never a result. Paths are
// returned in display order.
func FilterTree(root *plist.Value, query SearchQuery) []plist.Path {
	var matches []plist.Path

	var traverse func(node *plist.Value, path plist.Path)
	traverse = func(node *plist.Value, path plist.Path) {
		if !path.IsRoot() {
			kindMatches := !query.HasKind || node.Kind() == query.Kind

			patternMatches := true
			if query.Pattern != "" {
				patternMatches, _ = FuzzyMatch(query.Pattern, path.Last())
				if !patternMatches && !node.Kind().IsContainer() {
					patternMatches, _ = FuzzyMatch(query.Pattern, ScalarText(node))
				}
			}

			include := kindMatches && patternMatches
			if query.Negate {
				include = !include
			}
			if include {
				matches = append(matches, path)
			}
		}

		keys, err := node.ChildKeys()
		if err != nil {
			return
		}
		for _, k := range keys {
			child, err := node.Child(k)
			if err != nil {
				continue
			}
			traverse(child, path.Child(k))
		}
	}

	traverse(root, plist.Path{})
	return matches
}
