// Package render turns serialized bubble-set layouts into images.
//
// The [svg] subpackage writes an SVG document: one translucent outline per
// set circle, region boundaries (optionally animated through their sampled
// transition frames) and one dot per record.
//
// [ToPDF] and [ToPNG] convert any SVG to other formats using the external
// rsvg-convert tool (from librsvg):
//
//	out := svg.Render(doc, svg.WithLabels())
//	pdf, err := render.ToPDF(ctx, out)
//	png, err := render.ToPNG(ctx, out, 2.0)  // 2x scale
//
// [svg]: github.com/matzehuels/bubbleset/pkg/render/svg
package render
