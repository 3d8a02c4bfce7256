package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/bubbleset/pkg/document"
	"github.com/matzehuels/bubbleset/pkg/render"
	"github.com/matzehuels/bubbleset/pkg/render/svg"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, doc document.Layout, opts Options) (map[string][]byte, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	var svgData []byte
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		if format != FormatJSON && svgData == nil {
			svgData = svg.Render(doc, svgOptions(opts)...)
		}

		switch format {
		case FormatSVG:
			data = svgData
		case FormatPNG:
			data, err = render.ToPNG(ctx, svgData, opts.Scale)
		case FormatPDF:
			data, err = render.ToPDF(ctx, svgData)
		case FormatJSON:
			data, err = document.MarshalLayout(doc)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func svgOptions(opts Options) []svg.Option {
	var out []svg.Option
	if opts.Labels {
		out = append(out, svg.WithLabels())
	}
	if opts.Regions {
		out = append(out, svg.WithRegions())
	}
	if opts.InnerRadius {
		out = append(out, svg.WithInnerRadius())
	}
	if opts.Animate > 0 {
		out = append(out, svg.WithAnimation(opts.Animate))
	}
	return out
}
