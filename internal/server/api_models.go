package server

import (
	"github.com/raysh454/seolens/internal/compare"
	"github.com/raysh454/seolens/internal/model"
	"github.com/raysh454/seolens/internal/pagination"
)

// Envelope wraps every JSON response. Errors carry only Message.
type Envelope struct {
	Message string           `json:"message" example:"Audits fetched successfully"`
	Data    any              `json:"data,omitempty"`
	Info    *pagination.Info `json:"info,omitempty"`
}

// CreateTargetRequest is the payload for creating a project.
type CreateTargetRequest struct {
	URL         string   `json:"url" example:"https://example.com"`
	Title       string   `json:"title" example:"Example"`
	Description string   `json:"description" example:"Marketing site"`
	Keywords    []string `json:"keywords" example:"seo,performance"`
}

// SetActiveRequest toggles whether a project is audited on schedule.
type SetActiveRequest struct {
	Active bool `json:"active" example:"false"`
}

// StartJobRequest optionally picks the audit type of a background job.
type StartJobRequest struct {
	Type string `json:"type" example:"manual"`
}

// PublishResponse carries the public URL of an uploaded report.
type PublishResponse struct {
	URL string `json:"url" example:"http://localhost:8080/artifacts/3f1c0a9d2b7e4c55/9a0b1c2d3e4f5a6b-report.pdf"`
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Message string `json:"message" example:"Project doesn't exist"`
}

// AuditComparisonResponse is the per-check comparison plus the checks whose
// score dropped.
type AuditComparisonResponse struct {
	*compare.AuditDelta
	Regressions []model.AuditChange `json:"regressions"`
}
