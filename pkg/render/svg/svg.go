// Package svg renders a serialized layout as an SVG document.
package svg

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/matzehuels/bubbleset/pkg/document"
)

// DefaultPalette colors sets in circle order, cycling when exhausted.
var DefaultPalette = []string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f",
	"#edc948", "#b07aa1", "#ff9da7", "#9c755f", "#bab0ac",
}

// Option configures [Render].
type Option func(*renderer)

type renderer struct {
	labels      bool
	regions     bool
	innerRadius bool
	duration    float64
	palette     []string
	pointRadius float64
}

// WithLabels draws set names at circle centers and record labels next to records.
func WithLabels() Option { return func(r *renderer) { r.labels = true } }

// WithRegions outlines every region boundary.
func WithRegions() Option { return func(r *renderer) { r.regions = true } }

// WithInnerRadius draws each region's inner circle, which is useful for debugging placement.
func WithInnerRadius() Option { return func(r *renderer) { r.innerRadius = true } }

// WithAnimation animates region boundaries through their frames over seconds.
// Regions without frames are drawn statically.
func WithAnimation(seconds float64) Option {
	return func(r *renderer) { r.duration = seconds }
}

// WithPalette overrides [DefaultPalette].
func WithPalette(colors ...string) Option {
	return func(r *renderer) {
		if len(colors) > 0 {
			r.palette = colors
		}
	}
}

// WithPointRadius sets the radius of records that have none of their own.
func WithPointRadius(radius float64) Option {
	return func(r *renderer) { r.pointRadius = radius }
}

// Render writes doc as an SVG document.
func Render(doc document.Layout, opts ...Option) []byte {
	r := renderer{palette: DefaultPalette, pointRadius: 3}
	for _, opt := range opts {
		opt(&r)
	}

	colors := make(map[string]string, len(doc.Circles))
	for i, c := range doc.Circles {
		colors[c.Set] = r.palette[i%len(r.palette)]
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		doc.Width, doc.Height, doc.Width, doc.Height)
	buf.WriteString(`  <rect width="100%" height="100%" fill="#ffffff"/>` + "\n")

	buf.WriteString(`  <g class="sets">` + "\n")
	for _, c := range doc.Circles {
		fmt.Fprintf(&buf, `    <circle id="set-%s" cx="%.2f" cy="%.2f" r="%.2f" fill="%s" fill-opacity="0.18" stroke="%s" stroke-width="2"/>`+"\n",
			attr(c.Set), c.X, c.Y, c.Radius, colors[c.Set], colors[c.Set])
	}
	buf.WriteString("  </g>\n")

	if r.regions || r.duration > 0 {
		r.renderRegions(&buf, doc)
	}
	if r.innerRadius {
		buf.WriteString(`  <g class="inner" fill="none" stroke="#999999" stroke-dasharray="3 3">` + "\n")
		for _, reg := range doc.Regions {
			fmt.Fprintf(&buf, `    <circle cx="%.2f" cy="%.2f" r="%.2f"/>`+"\n", reg.Center.X, reg.Center.Y, reg.InnerRadius)
		}
		buf.WriteString("  </g>\n")
	}

	r.renderRecords(&buf, doc, colors)

	if r.labels {
		buf.WriteString(`  <g class="labels" font-family="sans-serif" font-size="14" text-anchor="middle">` + "\n")
		for _, c := range doc.Circles {
			fmt.Fprintf(&buf, `    <text x="%.2f" y="%.2f" fill="%s">%s</text>`+"\n",
				c.X, c.Y-c.Radius-6, colors[c.Set], html.EscapeString(c.Set))
		}
		buf.WriteString("  </g>\n")
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r renderer) renderRegions(buf *bytes.Buffer, doc document.Layout) {
	buf.WriteString(`  <g class="regions" fill="none" stroke="#333333" stroke-width="1">` + "\n")
	for _, reg := range doc.Regions {
		if r.duration > 0 && len(reg.Frames) > 1 {
			fmt.Fprintf(buf, `    <path data-region="%s" d="%s">`+"\n", attr(reg.Key), reg.Frames[len(reg.Frames)-1])
			fmt.Fprintf(buf, `      <animate attributeName="d" dur="%gs" fill="freeze" values="%s"/>`+"\n",
				r.duration, strings.Join(reg.Frames, ";"))
			buf.WriteString("    </path>\n")
			continue
		}
		fmt.Fprintf(buf, `    <path data-region="%s" d="%s"/>`+"\n", attr(reg.Key), reg.Outline)
	}
	buf.WriteString("  </g>\n")
}

func (r renderer) renderRecords(buf *bytes.Buffer, doc document.Layout, colors map[string]string) {
	buf.WriteString(`  <g class="records">` + "\n")
	for _, rec := range doc.Records {
		if !rec.Placed {
			continue
		}
		radius := rec.Radius
		if radius <= 0 {
			radius = r.pointRadius
		}
		fill := "#333333"
		if len(rec.Sets) == 1 {
			fill = colors[rec.Sets[0]]
		}
		fmt.Fprintf(buf, `    <circle class="record" data-id="%s" data-region="%s" cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>`+"\n",
			attr(rec.ID), attr(rec.Key), rec.X, rec.Y, radius, fill)
		if r.labels && rec.Label != "" {
			fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" font-family="sans-serif" font-size="10">%s</text>`+"\n",
				rec.X+radius+2, rec.Y+3, html.EscapeString(rec.Label))
		}
	}
	buf.WriteString("  </g>\n")
}

func attr(s string) string { return html.EscapeString(s) }
