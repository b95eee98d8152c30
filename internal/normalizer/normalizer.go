// Package normalizer reduces raw engine output to the fixed, storable audit
// schema and computes the derived score and critical count.
package normalizer

import (
	"errors"
	"math"
	"strings"

	"github.com/raysh454/seolens/internal/engine"
	"github.com/raysh454/seolens/internal/model"
)

// CriticalThreshold is the score below which an audit counts as critical.
const CriticalThreshold = 0.5

var ErrNormalization = errors.New("normalization failed")

// NormalizationError reports which top-level sections were missing from the
// engine output. It matches ErrNormalization.
type NormalizationError struct {
	Missing []string
}

func (e *NormalizationError) Error() string {
	return "engine report has no " + strings.Join(e.Missing, " or ")
}

func (e *NormalizationError) Is(target error) bool {
	return target == ErrNormalization
}

// Fragment is the part of an audit report derived from engine output. Identity
// and timestamps are assigned when it is persisted.
type Fragment struct {
	Categories    model.Categories `json:"categories"`
	Audits        model.Audits     `json:"audits"`
	CriticalCount int              `json:"criticalCount"`
	Score         float64          `json:"score"`
}

// Normalize maps raw onto the fixed schema. It never mutates raw and returns
// equal fragments for equal input.
func Normalize(raw *engine.RawReport) (*Fragment, error) {
	if raw == nil {
		return nil, &NormalizationError{Missing: []string{"categories", "audits"}}
	}
	var missing []string
	if raw.Categories == nil {
		missing = append(missing, "categories")
	}
	if raw.Audits == nil {
		missing = append(missing, "audits")
	}
	if len(missing) > 0 {
		return nil, &NormalizationError{Missing: missing}
	}

	var f Fragment
	var sum float64
	for _, def := range model.AuditDefs {
		a, ok := raw.Audits[def.EngineID]
		if !ok && def.Key != def.EngineID {
			a, ok = raw.Audits[def.Key]
		}

		detail := model.AuditDetail{Description: FirstSentence(a.Description)}
		score, valid := validScore(a.Score)
		detail.Score = score
		if !ok || !valid || score < CriticalThreshold {
			f.CriticalCount++
		}
		if def.HasDisplayValue {
			dv := ""
			if a.DisplayValue != nil {
				dv = *a.DisplayValue
			}
			detail.DisplayValue = &dv
		}

		*f.Audits.Field(def.Key) = detail
		sum += detail.Score
	}
	f.Score = round2(sum / float64(len(model.AuditDefs)) * 100)

	for _, def := range model.CategoryDefs {
		if c, ok := raw.Categories[def.EngineID]; ok {
			if score, valid := validScore(c.Score); valid {
				f.Categories.Set(def.Category, score)
			}
		}
	}
	return &f, nil
}

// validScore treats a missing, NaN, infinite or out-of-range score as absent.
func validScore(p *float64) (float64, bool) {
	if p == nil || math.IsNaN(*p) || *p < 0 || *p > 1 {
		return 0, false
	}
	return *p, true
}

// FirstSentence returns s up to and including its first period. Text without a
// period is returned unchanged.
func FirstSentence(s string) string {
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return s[:i+1]
	}
	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
