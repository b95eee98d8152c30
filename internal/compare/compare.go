// Package compare computes deltas between audit reports of the same target.
package compare

import (
	"fmt"
	"math"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/raysh454/seolens/internal/model"
)

// Categories compares the two newest reports. reports must be ordered newest
// first; anything past the second entry is ignored.
//
// With no reports the result is empty. With one report every category has
// change "+0%" and no previous value or direction.
func Categories(reports []model.AuditReport) []model.ComparisonResult {
	if len(reports) == 0 {
		return []model.ComparisonResult{}
	}

	latest := reports[0]
	out := make([]model.ComparisonResult, 0, len(model.CategoryDefs))

	if len(reports) == 1 {
		for _, def := range model.CategoryDefs {
			cur, _ := latest.Categories.Get(def.Category)
			out = append(out, model.ComparisonResult{
				Category: def.Category,
				Current:  outOf100(cur * 100),
				Change:   "+0%",
			})
		}
		return out
	}

	previous := reports[1]
	for _, def := range model.CategoryDefs {
		cur, _ := latest.Categories.Get(def.Category)
		prev, _ := previous.Categories.Get(def.Category)
		curPct, prevPct := cur*100, prev*100

		diff := math.Round((curPct-prevPct)*10) / 10
		if diff == 0 {
			diff = 0 // drop negative zero
		}
		direction := model.DirectionHigher
		if diff < 0 {
			direction = model.DirectionLower
		}
		prevStr := outOf100(prevPct)

		out = append(out, model.ComparisonResult{
			Category:  def.Category,
			Current:   outOf100(curPct),
			Previous:  &prevStr,
			Change:    fmt.Sprintf("%+.1f%%", diff),
			Direction: &direction,
		})
	}
	return out
}

func outOf100(pct float64) string {
	return fmt.Sprintf("%d/100", int(math.Round(pct)))
}

// AuditDelta is the check-level difference between two reports.
type AuditDelta struct {
	LatestID      string              `json:"latestId"`
	PreviousID    string              `json:"previousId,omitempty"`
	LatestScore   float64             `json:"latestScore"`
	PreviousScore float64             `json:"previousScore"`
	Delta         float64             `json:"delta"`
	Changes       []model.AuditChange `json:"changes"`
}

// Audits diffs every fixed check of latest against previous. A nil previous
// compares against an all-zero report. Changes follow the fixed audit order.
func Audits(latest, previous *model.AuditReport) *AuditDelta {
	if latest == nil {
		return &AuditDelta{Changes: []model.AuditChange{}}
	}
	d := &AuditDelta{
		LatestID:    latest.ID,
		LatestScore: latest.Score,
		Changes:     make([]model.AuditChange, 0, len(model.AuditDefs)),
	}
	var prevAudits model.Audits
	if previous != nil {
		d.PreviousID = previous.ID
		d.PreviousScore = previous.Score
		prevAudits = previous.Audits
	}
	d.Delta = round2(d.LatestScore - d.PreviousScore)

	cur := latest.Audits
	for _, def := range model.AuditDefs {
		c := cur.Field(def.Key)
		p := prevAudits.Field(def.Key)

		change := model.AuditChange{
			AuditID:  def.Key,
			Title:    def.Title,
			Current:  c.Score,
			Previous: p.Score,
			Delta:    round2(c.Score - p.Score),
		}
		if def.HasDisplayValue {
			cv, pv := deref(c.DisplayValue), deref(p.DisplayValue)
			change.DisplayValue = cv
			if cv != pv {
				change.DisplayValueDiff = DiffText(pv, cv)
			}
		}
		d.Changes = append(d.Changes, change)
	}
	return d
}

// Regressions returns the changes whose score dropped.
func (d *AuditDelta) Regressions() []model.AuditChange {
	out := []model.AuditChange{}
	for _, c := range d.Changes {
		if c.Delta < 0 {
			out = append(out, c)
		}
	}
	return out
}

// DiffText renders a character-level diff from before to after using
// [-removed-] and {+added+} markers.
func DiffText(before, after string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var b strings.Builder
	for _, df := range diffs {
		switch df.Type {
		case diffmatchpatch.DiffEqual:
			b.WriteString(df.Text)
		case diffmatchpatch.DiffDelete:
			b.WriteString("[-" + df.Text + "-]")
		case diffmatchpatch.DiffInsert:
			b.WriteString("{+" + df.Text + "+}")
		}
	}
	return b.String()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
