package analysis

import "time"

// AnalysisID identifier type
type AnalysisID int64

// MaxRecent caps how many records a listing returns.
const MaxRecent = 20

// Analysis is one persisted diagnose exchange. It is written once and never updated.
type Analysis struct {
    ID         AnalysisID `json:"id"`
    CreatedAt  time.Time  `json:"created_at"`
    Symptoms   string     `json:"symptoms"`
    ResultMD   string     `json:"result_md"` // full model output, markdown
    Confidence Confidence `json:"confidence_json"`
}
