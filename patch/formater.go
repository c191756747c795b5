package patch

import (
	"sort"
	"strings"
)

func formatAllowedPaths(paths map[string]bool) string {
	if len(paths) == 0 {
		return "all (no restriction)"
	}
	keys := make([]string, 0, len(paths))
	for path := range paths {
		keys = append(keys, path)
	}
	sort.Strings(keys)
	var sb strings.Builder
	for _, path := range keys {
		sb.WriteString("- ")
		sb.WriteString(path)
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
