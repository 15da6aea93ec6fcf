package eligibility

import "strings"

// Matches is the loose skill comparison used for job requirements: true when
// either string contains the other, ignoring case. "Java" matches "JavaScript".
func Matches(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	return strings.Contains(lb, la) || strings.Contains(la, lb)
}

// normalizeSet trims entries, drops blanks and removes case-insensitive
// duplicates while keeping first-seen order.
func normalizeSet(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
