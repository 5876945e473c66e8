package util

import "strings"

// CleanStrings trims every value and drops empty and repeated ones, keeping the first occurrence
func CleanStrings(values []string) []string {
	present := make(map[string]bool)
	var list []string

	for _, value := range values {
		value = strings.TrimSpace(value)

		if value != "" && !present[value] {
			present[value] = true
			list = append(list, value)
		}
	}

	return list
}
