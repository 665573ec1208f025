package normalize

import "strings"

// findColumn locates a field by probing an ordered list of candidate
// names. Earlier candidates win; exact matches are preferred over
// substring matches so abbreviated export-version variants still
// resolve. Returns -1 when no candidate matches.
func findColumn(headers []string, candidates []string) int {
	for _, cand := range candidates {
		for i, h := range headers {
			if strings.EqualFold(strings.TrimSpace(h), cand) {
				return i
			}
		}
	}
	for _, cand := range candidates {
		lc := strings.ToLower(cand)
		for i, h := range headers {
			if strings.Contains(strings.ToLower(strings.TrimSpace(h)), lc) {
				return i
			}
		}
	}
	return -1
}
