package engine

import (
	"fmt"
	"math"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PageSignals is everything the native engine observed while loading a page.
// Timings are milliseconds from navigation start; zero means not observed.
type PageSignals struct {
	RequestedURL string
	FinalURL     string
	StatusCode   int

	// RedirectsToHTTPS is nil when the plain-HTTP variant could not be probed.
	RedirectsToHTTPS *bool

	ConsoleErrors int

	FirstContentfulPaint float64
	LargestPaint         float64
	DOMContentLoaded     float64
	LoadEvent            float64
	ScriptDuration       float64
}

var auditDescriptions = map[string]string{
	"is-on-https":            "All sites should be protected with HTTPS, even ones that don't handle sensitive data. This includes avoiding mixed content, where some resources are loaded over HTTP.",
	"redirects-http":         "Make sure that you redirect all HTTP traffic to HTTPS in order to enable secure web features for all your users.",
	"viewport":               "A viewport meta tag not only optimizes your app for mobile screen sizes, but also prevents a 300 millisecond delay to user input.",
	"first-contentful-paint": "First Contentful Paint marks the time at which the first text or image is painted.",
	"first-meaningful-paint": "First Meaningful Paint measures when the primary content of a page is visible.",
	"speed-index":            "Speed Index shows how quickly the contents of a page are visibly populated.",
	"errors-in-console":      "Errors logged to the console indicate unresolved problems. They can come from network request failures and other browser concerns.",
	"interactive":            "Time to Interactive is the amount of time it takes for the page to become fully interactive.",
	"bootup-time":            "Consider reducing the time spent parsing, compiling, and executing JS. You may find delivering smaller JS payloads helps with this.",
}

// BuildNativeReport derives a raw report from page signals and the rendered
// document. It is deterministic for equal inputs.
func BuildNativeReport(sig PageSignals, doc *goquery.Document) *RawReport {
	r := &RawReport{
		FinalURL:   sig.FinalURL,
		Audits:     make(map[string]RawAudit, len(auditDescriptions)),
		Categories: make(map[string]RawCategory, 4),
	}

	https := isHTTPS(sig.FinalURL)
	viewport := hasViewport(doc)

	r.put("is-on-https", boolScore(https), nil)
	if sig.RedirectsToHTTPS != nil {
		r.put("redirects-http", boolScore(*sig.RedirectsToHTTPS), nil)
	} else {
		r.put("redirects-http", nil, nil)
	}
	r.put("viewport", boolScore(viewport), nil)
	r.put("errors-in-console", boolScore(sig.ConsoleErrors == 0), nil)

	fcp := sig.FirstContentfulPaint
	fmp := sig.LargestPaint
	if fmp < fcp {
		fmp = fcp
	}
	load := sig.LoadEvent
	if load < fmp {
		load = fmp
	}
	speedIndex := (fcp + load) / 2
	tti := sig.DOMContentLoaded
	if tti < fcp {
		tti = fcp
	}

	perf := map[string]float64{}
	timed := []struct {
		id    string
		value float64
		curve Curve
		show  bool
	}{
		{"first-contentful-paint", fcp, CurveFirstContentfulPaint, true},
		{"first-meaningful-paint", fmp, CurveFirstMeaningfulPaint, false},
		{"speed-index", speedIndex, CurveSpeedIndex, true},
		{"interactive", tti, CurveInteractive, true},
		{"bootup-time", sig.ScriptDuration, CurveBootupTime, true},
	}
	for _, m := range timed {
		if fcp <= 0 || (m.value <= 0 && m.id != "bootup-time") {
			r.put(m.id, nil, nil)
			continue
		}
		score := m.curve.Score(m.value)
		perf[m.id] = score
		var display *string
		if m.show {
			s := formatSeconds(m.value)
			display = &s
		}
		r.put(m.id, &score, display)
	}

	r.Categories["performance"] = RawCategory{ID: "performance", Score: weighted(perf, map[string]float64{
		"first-contentful-paint": 0.25,
		"speed-index":            0.25,
		"first-meaningful-paint": 0.2,
		"interactive":            0.2,
		"bootup-time":            0.1,
	})}

	r.Categories["accessibility"] = RawCategory{ID: "accessibility", Score: ratio(
		hasLang(doc),
		hasTitle(doc),
		imagesHaveAlt(doc),
		inputsHaveLabels(doc),
		linksHaveNames(doc),
	)}

	r.Categories["best-practices"] = RawCategory{ID: "best-practices", Score: ratio(
		https,
		sig.ConsoleErrors == 0,
		hasCharset(doc),
		!usesDeprecatedTags(doc),
	)}

	r.Categories["seo"] = RawCategory{ID: "seo", Score: ratio(
		viewport,
		hasTitle(doc),
		hasMetaDescription(doc),
		sig.StatusCode == 0 || sig.StatusCode < 400,
		isIndexable(doc),
		linksAreDescriptive(doc),
		imagesHaveAlt(doc),
	)}

	return r
}

func (r *RawReport) put(id string, score *float64, display *string) {
	r.Audits[id] = RawAudit{
		ID:           id,
		Score:        score,
		Description:  auditDescriptions[id],
		DisplayValue: display,
	}
}

func boolScore(ok bool) *float64 {
	if ok {
		return Float(1)
	}
	return Float(0)
}

func ratio(checks ...bool) *float64 {
	passed := 0
	for _, ok := range checks {
		if ok {
			passed++
		}
	}
	v := float64(passed) / float64(len(checks))
	return Float(roundTo(v, 2))
}

func weighted(scores, weights map[string]float64) *float64 {
	var sum, total float64
	for id, w := range weights {
		s, ok := scores[id]
		if !ok {
			continue
		}
		sum += s * w
		total += w
	}
	if total == 0 {
		return nil
	}
	return Float(roundTo(sum/total, 2))
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func formatSeconds(ms float64) string {
	return fmt.Sprintf("%.1f s", ms/1000)
}

func isHTTPS(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && strings.EqualFold(u.Scheme, "https")
}

func hasViewport(doc *goquery.Document) bool {
	found := false
	doc.Find(`meta[name="viewport"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		content := strings.ToLower(s.AttrOr("content", ""))
		if strings.Contains(content, "width=") || strings.Contains(content, "initial-scale") {
			found = true
			return false
		}
		return true
	})
	return found
}

func hasLang(doc *goquery.Document) bool {
	return strings.TrimSpace(doc.Find("html").AttrOr("lang", "")) != ""
}

func hasTitle(doc *goquery.Document) bool {
	return strings.TrimSpace(doc.Find("head title").First().Text()) != ""
}

func hasMetaDescription(doc *goquery.Document) bool {
	return strings.TrimSpace(doc.Find(`meta[name="description"]`).AttrOr("content", "")) != ""
}

func hasCharset(doc *goquery.Document) bool {
	if doc.Find("meta[charset]").Length() > 0 {
		return true
	}
	return strings.Contains(strings.ToLower(doc.Find(`meta[http-equiv]`).AttrOr("content", "")), "charset=")
}

func usesDeprecatedTags(doc *goquery.Document) bool {
	return doc.Find("center, font, marquee, blink").Length() > 0
}

func imagesHaveAlt(doc *goquery.Document) bool {
	missing := doc.Find("img").FilterFunction(func(_ int, s *goquery.Selection) bool {
		_, ok := s.Attr("alt")
		return !ok
	})
	return missing.Length() == 0
}

func inputsHaveLabels(doc *goquery.Document) bool {
	labelled := map[string]bool{}
	doc.Find("label[for]").Each(func(_ int, s *goquery.Selection) {
		labelled[s.AttrOr("for", "")] = true
	})
	ok := true
	doc.Find("input, select, textarea").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		switch strings.ToLower(s.AttrOr("type", "")) {
		case "hidden", "submit", "button", "reset", "image":
			return true
		}
		if s.AttrOr("aria-label", "") != "" || s.AttrOr("aria-labelledby", "") != "" {
			return true
		}
		if id := s.AttrOr("id", ""); id != "" && labelled[id] {
			return true
		}
		if s.ParentsFiltered("label").Length() > 0 {
			return true
		}
		ok = false
		return false
	})
	return ok
}

func linksHaveNames(doc *goquery.Document) bool {
	ok := true
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.TrimSpace(s.Text()) != "" || s.AttrOr("aria-label", "") != "" || s.AttrOr("title", "") != "" {
			return true
		}
		if strings.TrimSpace(s.Find("img[alt]").AttrOr("alt", "")) != "" {
			return true
		}
		ok = false
		return false
	})
	return ok
}

var genericLinkText = map[string]bool{
	"click here": true,
	"click this": true,
	"here":       true,
	"more":       true,
	"read more":  true,
	"learn more": true,
	"go":         true,
	"start":      true,
	"right here": true,
}

func linksAreDescriptive(doc *goquery.Document) bool {
	ok := true
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if genericLinkText[strings.ToLower(strings.TrimSpace(s.Text()))] {
			ok = false
			return false
		}
		return true
	})
	return ok
}

func isIndexable(doc *goquery.Document) bool {
	blocked := false
	doc.Find(`meta[name="robots"], meta[name="googlebot"]`).Each(func(_ int, s *goquery.Selection) {
		if strings.Contains(strings.ToLower(s.AttrOr("content", "")), "noindex") {
			blocked = true
		}
	})
	return !blocked
}
