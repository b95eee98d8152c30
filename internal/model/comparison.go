package model

// Direction labels used in category comparisons.
const (
	DirectionHigher = "Higher than last audit"
	DirectionLower  = "Lower than last audit"
)

// ComparisonResult is the per-category delta between the two latest audits.
type ComparisonResult struct {
	Category  Category `json:"category"`
	Current   string   `json:"current"`
	Previous  *string  `json:"previous,omitempty"`
	Change    string   `json:"change"`
	Direction *string  `json:"direction,omitempty"`
}

// AuditChange is the per-check delta between the two latest audits.
type AuditChange struct {
	AuditID          string  `json:"auditId"`
	Title            string  `json:"title"`
	Current          float64 `json:"current"`
	Previous         float64 `json:"previous"`
	Delta            float64 `json:"delta"`
	DisplayValue     string  `json:"displayValue,omitempty"`
	DisplayValueDiff string  `json:"displayValueDiff,omitempty"`
}
