package model

// AuditDef describes one of the nine fixed checks.
type AuditDef struct {
	// EngineID is the identifier used by the auditing engine's raw output.
	EngineID string
	// Key is the field name in the stored document.
	Key string
	// Title is the human label used in rendered reports.
	Title string
	// HasDisplayValue marks checks that carry a measured value.
	HasDisplayValue bool
}

// AuditDefs is the fixed audit enumeration. Iteration order is significant:
// renderers and comparisons follow it.
var AuditDefs = []AuditDef{
	{EngineID: "is-on-https", Key: "is-on-https", Title: "Uses HTTPS"},
	{EngineID: "redirects-http", Key: "redirects-http", Title: "Redirects HTTP traffic to HTTPS"},
	{EngineID: "viewport", Key: "viewport", Title: "Has a viewport meta tag"},
	{EngineID: "first-contentful-paint", Key: "first-contentful-paint", Title: "First Contentful Paint", HasDisplayValue: true},
	{EngineID: "first-meaningful-paint", Key: "first-meaningful-paint", Title: "First Meaningful Paint"},
	{EngineID: "speed-index", Key: "speedIndex", Title: "Speed Index", HasDisplayValue: true},
	{EngineID: "errors-in-console", Key: "errors-in-console", Title: "No browser errors logged to the console"},
	{EngineID: "interactive", Key: "interactive", Title: "Time to Interactive", HasDisplayValue: true},
	{EngineID: "bootup-time", Key: "bootup-time", Title: "JavaScript execution time", HasDisplayValue: true},
}
