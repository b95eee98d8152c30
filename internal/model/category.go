package model

// Category names a scored category as it appears in stored documents.
type Category string

const (
	CategoryPerformance   Category = "performance"
	CategoryAccessibility Category = "accessibility"
	CategoryBestPractices Category = "bestPractices"
	CategorySEO           Category = "seo"
)

// CategoryDef maps a stored category to the engine's identifier and report copy.
type CategoryDef struct {
	Category    Category
	EngineID    string
	Title       string
	Description string
}

// CategoryDefs is the fixed category enumeration in output order.
var CategoryDefs = []CategoryDef{
	{
		Category:    CategoryPerformance,
		EngineID:    "performance",
		Title:       "Performance",
		Description: "How quickly the page loads and becomes usable.",
	},
	{
		Category:    CategoryAccessibility,
		EngineID:    "accessibility",
		Title:       "Accessibility",
		Description: "Whether the page can be used by people relying on assistive technology.",
	},
	{
		Category:    CategoryBestPractices,
		EngineID:    "best-practices",
		Title:       "Best Practices",
		Description: "General code health and modern web security practices.",
	},
	{
		Category:    CategorySEO,
		EngineID:    "seo",
		Title:       "SEO",
		Description: "Whether search engines can crawl and understand the page.",
	},
}

// Categories holds 0-1 category scores.
type Categories struct {
	Performance   float64 `json:"performance"`
	Accessibility float64 `json:"accessibility"`
	BestPractices float64 `json:"bestPractices"`
	SEO           float64 `json:"seo"`
}

// Get returns the score for c. ok is false for unknown categories.
func (c Categories) Get(cat Category) (score float64, ok bool) {
	switch cat {
	case CategoryPerformance:
		return c.Performance, true
	case CategoryAccessibility:
		return c.Accessibility, true
	case CategoryBestPractices:
		return c.BestPractices, true
	case CategorySEO:
		return c.SEO, true
	}
	return 0, false
}

// Set stores v under cat. Unknown categories are ignored.
func (c *Categories) Set(cat Category, v float64) {
	switch cat {
	case CategoryPerformance:
		c.Performance = v
	case CategoryAccessibility:
		c.Accessibility = v
	case CategoryBestPractices:
		c.BestPractices = v
	case CategorySEO:
		c.SEO = v
	}
}
