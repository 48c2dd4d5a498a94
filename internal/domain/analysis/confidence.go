package analysis

import (
    "database/sql/driver"
    "encoding/json"
    "errors"
    "fmt"
    "regexp"
)

var (
    // ErrNoConfidenceBlock means the text has no ```json block holding an object.
    ErrNoConfidenceBlock = errors.New("no json block in model output")
    // ErrMalformedConfidence means the block was found but did not decode.
    ErrMalformedConfidence = errors.New("malformed json block in model output")
)

// confidencePattern matches the first ```json fenced object, non-greedy.
var confidencePattern = regexp.MustCompile("(?s)```json\\s*(\\{.*?\\})\\s*```")

// Confidence is the structured block the model appends, kept as decoded.
// The expected shape is {"items": [{"name": string, "prob": number}]}.
type Confidence map[string]any

// ConfidenceItem is one ranked diagnosis from a Confidence block.
type ConfidenceItem struct {
    Name string  `json:"name"`
    Prob float64 `json:"prob"`
}

// ExtractConfidence finds and decodes the first json block in text. On error the
// returned Confidence is always nil.
func ExtractConfidence(text string) (Confidence, error) {
    m := confidencePattern.FindStringSubmatch(text)
    if m == nil {
        return nil, ErrNoConfidenceBlock
    }
    var c Confidence
    if err := json.Unmarshal([]byte(m[1]), &c); err != nil {
        return nil, fmt.Errorf("%w: %v", ErrMalformedConfidence, err)
    }
    return c, nil
}

// Items returns the well-formed entries of the "items" list. Entries without a
// string name or a numeric prob are skipped.
func (c Confidence) Items() []ConfidenceItem {
    raw, ok := c["items"].([]any)
    if !ok {
        return nil
    }
    out := make([]ConfidenceItem, 0, len(raw))
    for _, it := range raw {
        obj, ok := it.(map[string]any)
        if !ok {
            continue
        }
        name, ok := obj["name"].(string)
        if !ok {
            continue
        }
        prob, ok := obj["prob"].(float64)
        if !ok {
            continue
        }
        out = append(out, ConfidenceItem{Name: name, Prob: prob})
    }
    return out
}

// Value stores a nil Confidence as NULL and anything else as JSON text.
func (c Confidence) Value() (driver.Value, error) {
    if c == nil {
        return nil, nil
    }
    b, err := json.Marshal(map[string]any(c))
    if err != nil {
        return nil, err
    }
    return string(b), nil
}

// Scan accepts NULL, JSON text or JSON bytes.
func (c *Confidence) Scan(src any) error {
    var b []byte
    switch v := src.(type) {
    case nil:
        *c = nil
        return nil
    case []byte:
        b = v
    case string:
        b = []byte(v)
    default:
        return fmt.Errorf("confidence: unsupported scan type %T", src)
    }
    if len(b) == 0 {
        *c = nil
        return nil
    }
    var out Confidence
    if err := json.Unmarshal(b, &out); err != nil {
        return fmt.Errorf("confidence: %w", err)
    }
    *c = out
    return nil
}
