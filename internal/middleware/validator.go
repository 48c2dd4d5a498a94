package middleware

import (
	"strconv"

	"github.com/bryanwahyu/symptom-assist/internal/domain/analysis"
)

// ValidateLimit parses a ?limit= value, defaulting to and capping at analysis.MaxRecent
func ValidateLimit(raw string) int {
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return analysis.MaxRecent
	}
	if limit > analysis.MaxRecent {
		return analysis.MaxRecent
	}
	return limit
}
