package model

import "time"

// AuditStatus is the lifecycle state of a stored audit.
type AuditStatus string

const (
	AuditRunning   AuditStatus = "running"
	AuditCompleted AuditStatus = "completed"
)

// AuditType records what triggered an audit run.
type AuditType string

const (
	AuditManual    AuditType = "manual"
	AuditScheduled AuditType = "scheduled"
)

// Valid reports whether t is one of the known audit types.
func (t AuditType) Valid() bool {
	return t == AuditManual || t == AuditScheduled
}

// AuditDetail is one normalized check.
type AuditDetail struct {
	// Score is in [0,1]; absent engine scores are stored as 0.
	Score float64 `json:"score"`

	// Description is the first sentence of the engine's description.
	Description string `json:"description"`

	// DisplayValue is only present for checks that measure a value (timings).
	DisplayValue *string `json:"displayValue,omitempty"`
}

// Audits is the fixed set of nine checks persisted for every run. The JSON keys
// match the stored document layout.
type Audits struct {
	IsOnHTTPS            AuditDetail `json:"is-on-https"`
	RedirectsHTTP        AuditDetail `json:"redirects-http"`
	Viewport             AuditDetail `json:"viewport"`
	FirstContentfulPaint AuditDetail `json:"first-contentful-paint"`
	FirstMeaningfulPaint AuditDetail `json:"first-meaningful-paint"`
	SpeedIndex           AuditDetail `json:"speedIndex"`
	ErrorsInConsole      AuditDetail `json:"errors-in-console"`
	Interactive          AuditDetail `json:"interactive"`
	BootupTime           AuditDetail `json:"bootup-time"`
}

// Field returns a pointer to the detail stored under key, or nil when key is
// not one of the fixed audit keys.
func (a *Audits) Field(key string) *AuditDetail {
	switch key {
	case "is-on-https":
		return &a.IsOnHTTPS
	case "redirects-http":
		return &a.RedirectsHTTP
	case "viewport":
		return &a.Viewport
	case "first-contentful-paint":
		return &a.FirstContentfulPaint
	case "first-meaningful-paint":
		return &a.FirstMeaningfulPaint
	case "speedIndex":
		return &a.SpeedIndex
	case "errors-in-console":
		return &a.ErrorsInConsole
	case "interactive":
		return &a.Interactive
	case "bootup-time":
		return &a.BootupTime
	}
	return nil
}

// AuditReport is the persisted, normalized result of one audit run.
type AuditReport struct {
	ID            string      `json:"id"`
	OwnerID       string      `json:"ownerId"`
	TargetID      string      `json:"projectId"`
	Categories    Categories  `json:"categories"`
	Audits        Audits      `json:"audits"`
	Score         float64     `json:"score"`
	CriticalCount int         `json:"criticalCount"`
	DurationMs    int64       `json:"durationMs"`
	Status        AuditStatus `json:"status"`
	Type          AuditType   `json:"type"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}
