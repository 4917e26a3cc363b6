package common

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateUUID returns a new random UUID string.
func GenerateUUID() string {
	return uuid.New().String()
}

// JoinNonEmpty joins the non-empty, trimmed elements of a slice.
func JoinNonEmpty(items []string, sep string) string {
	var parts []string
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, sep)
}
