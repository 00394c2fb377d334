package slot

import "strings"

// NormalizeFeatures splits comma-joined entries such as `"Covered", "24/7"`
// into separate labels, strips quotes and blanks and drops duplicates while
// keeping first-seen order.
func NormalizeFeatures(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, entry := range raw {
		for _, part := range strings.Split(entry, ",") {
			label := strings.TrimSpace(strings.Trim(strings.TrimSpace(part), `"'`))
			if label == "" {
				continue
			}
			if _, dup := seen[label]; dup {
				continue
			}
			seen[label] = struct{}{}
			out = append(out, label)
		}
	}
	return out
}
