// Пакет эвристик доверенных источников
package trust

import "strings"

// TrustedFragments фрагменты доменов маркетплейсов
var TrustedFragments = []string{"amazon.", "flipkart.", "meesho."}

// IsTrusted URL в нижнем регистре содержит один из доверенных фрагментов
func IsTrusted(url string) bool {
	lower := strings.ToLower(url)
	for _, f := range TrustedFragments {
		if strings.Contains(lower, f) {
			return true
		}
	}
	return false
}

// Platform площадка для записи истории
func Platform(url string) string {
	if url == "" {
		return "Unknown"
	}
	lower := strings.ToLower(url)
	switch {
	case strings.Contains(lower, "amazon"):
		return "Amazon"
	case strings.Contains(lower, "flipkart"):
		return "Flipkart"
	case strings.Contains(lower, "meesho"):
		return "Meesho"
	default:
		return "Other"
	}
}
