package domain

import "strings"

// ExternalIDFromURL достает идентификатор объявления на сайте-источнике.
// URL имеет вид ".../Property/lahore_dha-12345678-1234-1.html": берется третий
// с конца сегмент по "-", если он числовой, иначе последний числовой сегмент.
func ExternalIDFromURL(url string) string {
	trimmed := strings.TrimSuffix(strings.TrimSpace(url), ".html")
	if trimmed == "" {
		return ""
	}

	parts := strings.Split(trimmed, "-")
	if len(parts) >= 3 && isDigits(parts[len(parts)-3]) {
		return parts[len(parts)-3]
	}
	for i := len(parts) - 1; i >= 0; i-- {
		if isDigits(parts[i]) {
			return parts[i]
		}
	}
	return ""
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
