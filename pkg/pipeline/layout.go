package pipeline

import (
	"context"

	"github.com/matzehuels/bubbleset/pkg/core/place"
	"github.com/matzehuels/bubbleset/pkg/document"
	"github.com/matzehuels/bubbleset/pkg/layout"
)

// GenerateLayout computes a layout document from records. The force
// strategy runs to completion. It returns the strategy option keys that had
// no effect.
func GenerateLayout(ctx context.Context, records []document.Record, opts Options) (document.Layout, []string, error) {
	if err := opts.Validate(); err != nil {
		return document.Layout{}, nil, err
	}

	lopts, ignored := LayoutOptions(opts)
	l := layout.New(lopts...)
	if opts.Previous != nil {
		l.Seed(opts.Previous.CircleTable())
	}
	if err := l.Compute(ctx, document.ToSetsAll(records)); err != nil {
		return document.Layout{}, ignored, err
	}
	return document.Export(l, document.ExportOptions{Frames: opts.Frames}), ignored, nil
}

// LayoutOptions translates Options into layout options. The seed applies to
// every strategy; StrategyOptions only merge into the selected one.
func LayoutOptions(opts Options) ([]layout.Option, []string) {
	lopts := []layout.Option{
		layout.WithCanvas(opts.Width, opts.Height, opts.Padding),
		layout.WithStrategy(opts.Strategy),
		layout.WithFallbackRadius(opts.FallbackRadius),
		layout.WithRunForce(true),
		layout.WithLogger(opts.Logger),
	}

	var ignored []string
	switch opts.Strategy {
	case place.StrategyPack:
		cfg := place.DefaultPackConfig()
		cfg.Seed = opts.Seed
		cfg, ignored = place.ApplyPackOptions(cfg, opts.StrategyOptions)
		lopts = append(lopts, layout.WithPackConfig(cfg))
	case place.StrategyDistribute:
		cfg := place.DefaultDistributeConfig()
		cfg.Seed = opts.Seed
		cfg, ignored = place.ApplyDistributeOptions(cfg, opts.StrategyOptions)
		lopts = append(lopts, layout.WithDistributeConfig(cfg))
	case place.StrategyForce:
		cfg := place.DefaultForceConfig()
		cfg.Seed = opts.Seed
		cfg, ignored = place.ApplyForceOptions(cfg, opts.StrategyOptions)
		lopts = append(lopts, layout.WithForceConfig(cfg))
	}
	return lopts, ignored
}
