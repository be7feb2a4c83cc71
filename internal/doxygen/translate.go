package doxygen

import (
	"regexp"
	"sort"
	"strings"
)

// translate maps Doxygen vocabulary to the DocFX equivalents. Anything
// without a translation passes through unchanged.
func translate(doxy string) string {
	switch doxy {
	case "C++":
		return "cpp"
	case "variable":
		return "field"
	}
	return doxy
}

var upperRunRe = regexp.MustCompile(`[A-Z]+`)

// camelToDashed converts CamelCase identifiers to dashed-lowercase path
// segments: each run of uppercase letters becomes a dash plus its lowercase
// form, a dash generated right before an underscore is collapsed, and
// leading/trailing dashes are trimmed.
func camelToDashed(name string) string {
	name = upperRunRe.ReplaceAllStringFunc(name, func(m string) string {
		return "-" + strings.ToLower(m)
	})
	name = strings.ReplaceAll(name, "_-", "_")
	return strings.Trim(name, "-")
}

var kindPrefixRe = regexp.MustCompile(`^(class|struct|namespace)`)

// idSortKey is the normalized-id sort key used for the deduplicated
// relationship sets: the structural-kind prefix is ignored when ordering.
func idSortKey(id string) string {
	return kindPrefixRe.ReplaceAllString(id, "")
}

// sortedIDSet deduplicates ids and sorts them by idSortKey, with the full id
// as tie-break to keep the result deterministic.
func sortedIDSet(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		ki, kj := idSortKey(out[i]), idSortKey(out[j])
		if ki != kj {
			return ki < kj
		}
		return out[i] < out[j]
	})
	return out
}
