package model

import "time"

// Target is an audited URL owned by a user. Score and CriticalCount mirror the
// most recent audit so listings don't have to join against audit history.
type Target struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"ownerId"`
	URL           string    `json:"url"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Keywords      []string  `json:"keywords"`
	Score         float64   `json:"score"`
	CriticalCount int       `json:"criticalCount"`
	MinorCount    int       `json:"minorCount"`
	AuditsCount   int       `json:"auditsCount"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// TargetOverview aggregates an owner's targets.
type TargetOverview struct {
	TotalTargets  int     `json:"totalProjects"`
	ActiveTargets int     `json:"activeProjects"`
	AverageScore  float64 `json:"averageScore"`
	TotalCritical int     `json:"totalCritical"`
	TotalAudits   int     `json:"totalAudits"`
}

// AuditOverview aggregates an owner's audit history.
type AuditOverview struct {
	TotalAudits       int               `json:"totalAudits"`
	AverageScore      float64           `json:"averageScore"`
	AverageDurationMs float64           `json:"averageDurationMs"`
	TotalCritical     int               `json:"totalCritical"`
	LastAuditAt       *time.Time        `json:"lastAuditAt,omitempty"`
	ByType            map[AuditType]int `json:"byType"`
}
