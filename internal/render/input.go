package render

import (
	"math"
	"time"

	"github.com/raysh454/seolens/internal/model"
)

// Entry is one audit as it appears in a report. A nil Score means the engine
// had no score for the check.
type Entry struct {
	ID           string
	Title        string
	Score        *float64
	DisplayValue string
	Description  string
}

// CategoryScore is one category block.
type CategoryScore struct {
	Title       string
	Description string
	Score       *float64
}

// Input is everything a report is built from.
type Input struct {
	URL         string
	GeneratedAt time.Time
	Categories  []CategoryScore
	Audits      []Entry
}

// FromReport builds an Input from a stored report in the fixed category and
// audit order.
func FromReport(url string, generatedAt time.Time, r *model.AuditReport) Input {
	in := Input{URL: url, GeneratedAt: generatedAt}
	for _, def := range model.CategoryDefs {
		v, _ := r.Categories.Get(def.Category)
		in.Categories = append(in.Categories, CategoryScore{
			Title:       def.Title,
			Description: def.Description,
			Score:       &v,
		})
	}
	audits := r.Audits
	for _, def := range model.AuditDefs {
		d := audits.Field(def.Key)
		score := d.Score
		e := Entry{
			ID:          def.Key,
			Title:       def.Title,
			Score:       &score,
			Description: d.Description,
		}
		if d.DisplayValue != nil {
			e.DisplayValue = *d.DisplayValue
		}
		in.Audits = append(in.Audits, e)
	}
	return in
}

// IsCritical reports whether an audit needs attention: no score, a zero score
// or a score below one half.
func IsCritical(e Entry) bool {
	return e.Score == nil || math.IsNaN(*e.Score) || *e.Score == 0 || *e.Score < 0.5
}

// Classify splits entries into critical and good, each keeping input order.
func Classify(entries []Entry) (critical, good []Entry) {
	for _, e := range entries {
		if IsCritical(e) {
			critical = append(critical, e)
		} else {
			good = append(good, e)
		}
	}
	return critical, good
}
