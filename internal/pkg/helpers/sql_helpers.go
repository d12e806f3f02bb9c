package helpers

import "strings"

// StringPtrOrNil returns nil for blank strings so optional text columns store NULL
func StringPtrOrNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func toLowerTrim(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
