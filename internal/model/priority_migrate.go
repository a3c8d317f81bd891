package model

import "strings"

// Historical priority names that no longer exist as buckets. They all decode to Normal.
var legacyPriorityNames = []string{
	"when there's time",
	"when theres time",
	"when there’s time",
	"when-time",
	"whentime",
	"later",
}

func migrateLegacyPriority(key string) (Priority, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, name := range legacyPriorityNames {
		if key == name {
			return PriorityNormal, true
		}
	}
	return PriorityNormal, false
}

// IsLegacyPriorityName reports whether s is a deprecated priority name.
func IsLegacyPriorityName(s string) bool {
	_, ok := migrateLegacyPriority(s)
	return ok
}
