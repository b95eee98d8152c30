package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// RawAudit is one engine check after field-by-field validation. A Score of nil
// means the engine reported null, omitted it, or sent something that was not a
// number in [0,1].
type RawAudit struct {
	ID           string
	Score        *float64
	Description  string
	DisplayValue *string
}

// RawCategory is one engine category score.
type RawCategory struct {
	ID    string
	Score *float64
}

// RawReport is the engine's output reduced to what the pipeline reads. A nil
// Audits or Categories map means the section was entirely absent, which differs
// from an empty section.
type RawReport struct {
	FinalURL     string
	RuntimeError string
	Audits       map[string]RawAudit
	Categories   map[string]RawCategory
}

type rawEnvelope struct {
	FinalURL          json.RawMessage `json:"finalUrl"`
	FinalDisplayedURL json.RawMessage `json:"finalDisplayedUrl"`
	RuntimeError      json.RawMessage `json:"runtimeError"`
	Audits            json.RawMessage `json:"audits"`
	Categories        json.RawMessage `json:"categories"`
}

// DecodeRawReport parses engine output. Only the top-level value must be a JSON
// object; anything malformed below it degrades to a missing value.
func DecodeRawReport(data []byte) (*RawReport, error) {
	var r RawReport
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *RawReport) UnmarshalJSON(data []byte) error {
	var env rawEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("decode raw report: %w", err)
	}

	r.FinalURL = stringOf(env.FinalURL)
	if r.FinalURL == "" {
		r.FinalURL = stringOf(env.FinalDisplayedURL)
	}
	if obj := objectOf(env.RuntimeError); obj != nil {
		r.RuntimeError = stringOf(obj["message"])
		if r.RuntimeError == "" {
			r.RuntimeError = stringOf(obj["code"])
		}
	}

	r.Audits = nil
	if section := objectOf(env.Audits); section != nil {
		r.Audits = make(map[string]RawAudit, len(section))
		for id, raw := range section {
			entry := objectOf(raw)
			if entry == nil {
				// present but unusable; keep the key so it's counted as scoreless
				r.Audits[id] = RawAudit{ID: id}
				continue
			}
			a := RawAudit{
				ID:          id,
				Score:       scoreOf(entry["score"]),
				Description: stringOf(entry["description"]),
			}
			if dv, ok := entry["displayValue"]; ok && isString(dv) {
				s := stringOf(dv)
				a.DisplayValue = &s
			}
			r.Audits[id] = a
		}
	}

	r.Categories = nil
	if section := objectOf(env.Categories); section != nil {
		r.Categories = make(map[string]RawCategory, len(section))
		for id, raw := range section {
			c := RawCategory{ID: id}
			if entry := objectOf(raw); entry != nil {
				c.Score = scoreOf(entry["score"])
			}
			r.Categories[id] = c
		}
	}
	return nil
}

// MarshalJSON writes the report back in the engine's layout.
func (r RawReport) MarshalJSON() ([]byte, error) {
	type audit struct {
		ID           string   `json:"id"`
		Score        *float64 `json:"score"`
		Description  string   `json:"description"`
		DisplayValue *string  `json:"displayValue,omitempty"`
	}
	type category struct {
		ID    string   `json:"id"`
		Score *float64 `json:"score"`
	}
	out := struct {
		FinalURL     string              `json:"finalUrl,omitempty"`
		RuntimeError map[string]string   `json:"runtimeError,omitempty"`
		Audits       map[string]audit    `json:"audits,omitempty"`
		Categories   map[string]category `json:"categories,omitempty"`
	}{FinalURL: r.FinalURL}
	if r.RuntimeError != "" {
		out.RuntimeError = map[string]string{"message": r.RuntimeError}
	}
	if r.Audits != nil {
		out.Audits = make(map[string]audit, len(r.Audits))
		for id, a := range r.Audits {
			out.Audits[id] = audit{ID: id, Score: a.Score, Description: a.Description, DisplayValue: a.DisplayValue}
		}
	}
	if r.Categories != nil {
		out.Categories = make(map[string]category, len(r.Categories))
		for id, c := range r.Categories {
			out.Categories[id] = category{ID: id, Score: c.Score}
		}
	}
	return json.Marshal(out)
}

func objectOf(raw json.RawMessage) map[string]json.RawMessage {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}

func isString(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '"'
}

func stringOf(raw json.RawMessage) string {
	if !isString(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func scoreOf(raw json.RawMessage) *float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil
	}
	if math.IsNaN(f) || f < 0 || f > 1 {
		return nil
	}
	return &f
}

// Float returns a pointer to v. Handy when building reports in code.
func Float(v float64) *float64 { return &v }
