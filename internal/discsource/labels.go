package discsource

import (
	"regexp"
	"strings"
)

var (
	allDigitsPattern = regexp.MustCompile(`^\d+$`)
	shortCodePattern = regexp.MustCompile(`^[A-Z0-9_]{1,4}$`)
)

// IsUnusableLabel returns true if the label cannot be shown as a disc title.
// This includes generic labels, technical labels, and patterns that don't represent
// meaningful content titles.
func IsUnusableLabel(label string) bool {
	label = strings.TrimSpace(label)
	if label == "" {
		return true
	}

	upper := strings.ToUpper(label)

	patterns := []string{
		"LOGICAL_VOLUME_ID", "VOLUME_ID", "BLURAY", "BD_ROM",
		"UNTITLED", "UNKNOWN DISC", "VOLUME_", "VOLUME ID", "DISK_",
	}
	for _, pattern := range patterns {
		if strings.Contains(upper, pattern) {
			return true
		}
	}

	if allDigitsPattern.MatchString(label) {
		return true
	}
	if shortCodePattern.MatchString(upper) {
		return true
	}
	return false
}

// DisplayLabel picks the name to show for a disc: the embedded disc name,
// then a cleaned-up volume id, then fallback.
func DisplayLabel(discName, volumeID, fallback string) string {
	if name := strings.TrimSpace(discName); !IsUnusableLabel(name) {
		return name
	}
	if !IsUnusableLabel(volumeID) {
		return strings.TrimSpace(strings.ReplaceAll(volumeID, "_", " "))
	}
	return fallback
}
