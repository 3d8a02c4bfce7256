package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/bubbleset/pkg/pipeline"
)

// layoutFlags binds the layout options shared by the layout, watch and
// serve commands.
type layoutFlags struct {
	opts       pipeline.Options
	strategyKV map[string]string
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.opts.Strategy, "strategy", "s", pipeline.DefaultStrategy, "placement strategy: pack, distribute, force")
	fs.Float64Var(&f.opts.Width, "width", pipeline.DefaultWidth, "canvas width")
	fs.Float64Var(&f.opts.Height, "height", pipeline.DefaultHeight, "canvas height")
	fs.Float64Var(&f.opts.Padding, "padding", pipeline.DefaultPadding, "canvas padding")
	fs.Float64Var(&f.opts.FallbackRadius, "fallback-radius", pipeline.DefaultFallbackRadius, "inner radius of regions that have no circles")
	fs.Uint64Var(&f.opts.Seed, "seed", pipeline.DefaultSeed, "random seed")
	fs.StringToStringVar(&f.strategyKV, "opt", nil, "strategy option key=value (repeatable), e.g. --opt padding=2")
}

// merge layers the flags the user set explicitly over base.
func (f *layoutFlags) merge(cmd *cobra.Command, base pipeline.Options) pipeline.Options {
	changed := cmd.Flags().Changed
	if changed("strategy") || base.Strategy == "" {
		base.Strategy = f.opts.Strategy
	}
	if changed("width") {
		base.Width = f.opts.Width
	}
	if changed("height") {
		base.Height = f.opts.Height
	}
	if changed("padding") {
		base.Padding = f.opts.Padding
	}
	if changed("fallback-radius") {
		base.FallbackRadius = f.opts.FallbackRadius
	}
	if changed("seed") {
		base.Seed = f.opts.Seed
	}
	if len(f.strategyKV) > 0 {
		merged := make(map[string]any, len(base.StrategyOptions)+len(f.strategyKV))
		for k, v := range base.StrategyOptions {
			merged[k] = v
		}
		for k, v := range f.strategyKV {
			merged[k] = v
		}
		base.StrategyOptions = merged
	}
	return base
}

// renderFlags binds the SVG options shared by the layout and render commands.
type renderFlags struct {
	formats     string
	labels      bool
	regions     bool
	innerRadius bool
	animate     float64
	scale       float64
}

func (f *renderFlags) register(cmd *cobra.Command, defaultFormats string) {
	fs := cmd.Flags()
	fs.StringVarP(&f.formats, "format", "f", defaultFormats, "output format(s): svg, json, pdf, png (comma-separated)")
	fs.BoolVar(&f.labels, "labels", false, "draw set and record labels")
	fs.BoolVar(&f.regions, "regions", false, "outline region boundaries")
	fs.BoolVar(&f.innerRadius, "inner", false, "draw region inner circles")
	fs.Float64Var(&f.animate, "animate", 0, "animate outline frames over this many seconds")
	fs.Float64Var(&f.scale, "scale", pipeline.DefaultScale, "PNG scale factor")
}

func (f *renderFlags) merge(cmd *cobra.Command, base pipeline.Options) pipeline.Options {
	changed := cmd.Flags().Changed
	if changed("format") || len(base.Formats) == 0 {
		base.Formats = pipeline.ParseFormats(f.formats)
	}
	if changed("labels") {
		base.Labels = f.labels
	}
	if changed("regions") {
		base.Regions = f.regions
	}
	if changed("inner") {
		base.InnerRadius = f.innerRadius
	}
	if changed("animate") {
		base.Animate = f.animate
	}
	if changed("scale") {
		base.Scale = f.scale
	}
	return base
}
