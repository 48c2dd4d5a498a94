package mysql

import domain "github.com/bryanwahyu/symptom-assist/internal/domain/analysis"

// limitOrDefault returns domain.MaxRecent when limit is not positive
func limitOrDefault(limit int) int {
    if limit <= 0 {
        return domain.MaxRecent
    }
    return limit
}
