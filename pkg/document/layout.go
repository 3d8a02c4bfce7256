package document

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/matzehuels/bubbleset/pkg/core/geom"
	"github.com/matzehuels/bubbleset/pkg/core/venn"
	"github.com/matzehuels/bubbleset/pkg/layout"
)

// Layout is the serialized result of one layout computation.
type Layout struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	Width     float64   `json:"width" bson:"width"`
	Height    float64   `json:"height" bson:"height"`
	Strategy  string    `json:"strategy" bson:"strategy"`
	Circles   []Circle  `json:"circles" bson:"circles"`
	Regions   []Region  `json:"regions" bson:"regions"`
	Records   []Record  `json:"records" bson:"records"`
	Fallbacks int       `json:"fallbacks,omitempty" bson:"fallbacks,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Circle is one solved set.
type Circle struct {
	Set    string  `json:"set" bson:"set"`
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Radius float64 `json:"radius" bson:"radius"`
}

// Region is one exact membership combination with its geometry.
type Region struct {
	Key         string     `json:"key" bson:"key"`
	Sets        []string   `json:"sets" bson:"sets"`
	Count       int        `json:"count" bson:"count"`
	Size        float64    `json:"size" bson:"size"`
	Synthetic   bool       `json:"synthetic,omitempty" bson:"synthetic,omitempty"`
	Center      geom.Point `json:"center" bson:"center"`
	InnerRadius float64    `json:"inner_radius" bson:"inner_radius"`
	Outline     string     `json:"outline" bson:"outline"`
	Frames      []string   `json:"frames,omitempty" bson:"frames,omitempty"`
	Records     []string   `json:"records,omitempty" bson:"records,omitempty"`
}

// ExportOptions controls [Export].
type ExportOptions struct {
	// Frames samples each region's boundary transition at Frames+1 evenly
	// spaced points from 0 to 1. Zero disables sampling.
	Frames int
}

// Export converts the state of a computed layout into a document.
// Records are listed region by region, followed by records without
// memberships, which are kept unplaced.
// Sampling frames runs each region's transition to completion, which
// commits the current circles as the starting point of the next one.
func Export(l *layout.Layout, opts ExportOptions) Layout {
	w, h := l.Canvas()
	doc := Layout{
		Width:     w,
		Height:    h,
		Strategy:  l.Strategy(),
		Fallbacks: l.DistributeStats().Fallbacks,
	}

	l.Circles().Each(func(name string, c geom.Circle) {
		doc.Circles = append(doc.Circles, Circle{Set: name, X: c.X, Y: c.Y, Radius: c.Radius})
	})

	regions := l.Regions().All()
	for _, r := range regions {
		var members []geom.Circle
		for _, s := range r.Sets {
			if c, ok := l.Circles().Get(s); ok {
				members = append(members, c)
			}
		}
		dr := Region{
			Key:         r.Key,
			Sets:        r.Sets,
			Count:       r.Count,
			Size:        r.Size,
			Synthetic:   r.Synthetic,
			Center:      r.Center,
			InnerRadius: r.InnerRadius,
			Outline:     venn.Outline(members),
		}
		for _, rec := range r.Records {
			dr.Records = append(dr.Records, rec.ID)
			doc.Records = append(doc.Records, FromSets(rec))
		}
		doc.Regions = append(doc.Regions, dr)
	}
	for _, rec := range l.Unassigned() {
		doc.Records = append(doc.Records, FromSets(rec))
	}

	if opts.Frames > 0 {
		// Sample every region at one t before moving on so no region commits
		// shared sets while another still needs their previous geometry.
		for i := 0; i <= opts.Frames; i++ {
			t := float64(i) / float64(opts.Frames)
			for j, r := range regions {
				if fn, ok := l.Tween(r.Key); ok {
					doc.Regions[j].Frames = append(doc.Regions[j].Frames, fn(t))
				}
			}
		}
	}
	return doc
}

// CircleTable returns the document's circles as a table.
func (d Layout) CircleTable() *geom.Table {
	t := geom.NewTable()
	for _, c := range d.Circles {
		t.Set(c.Set, geom.Circle{X: c.X, Y: c.Y, Radius: c.Radius})
	}
	return t
}

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if l.Width <= 0 || l.Height <= 0 {
		return Layout{}, fmt.Errorf("layout must have a positive canvas, got %gx%g", l.Width, l.Height)
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
