// Package pipeline runs the records → layout → artifacts pipeline shared by
// the CLI and the HTTP server.
//
// # Architecture
//
// The pipeline has two stages:
//
//  1. Layout: aggregate records into regions, solve set circles and place
//     every record with the configured strategy
//  2. Render: produce artifacts (SVG, PNG, PDF, JSON) from the layout document
//
// Both stages are cached by content hash through a [Runner].
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Strategy: "force",
//	    Formats:  []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, records, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Options can also be read from a TOML file with [LoadConfig].
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bubbleset/pkg/cache"
	"github.com/matzehuels/bubbleset/pkg/core/place"
	"github.com/matzehuels/bubbleset/pkg/document"
	bserrors "github.com/matzehuels/bubbleset/pkg/errors"
	"github.com/matzehuels/bubbleset/pkg/layout"
)

// Default values shared by the CLI, the config file and the API.
const (
	DefaultWidth          = layout.DefaultWidth
	DefaultHeight         = layout.DefaultHeight
	DefaultPadding        = layout.DefaultPadding
	DefaultFallbackRadius = layout.DefaultFallbackRadius
	DefaultStrategy       = layout.DefaultStrategy
	DefaultSeed           = uint64(1)
	DefaultScale          = 2.0

	// MaxFrames bounds the number of sampled outline frames per region.
	MaxFrames = 120
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// Options contains all configuration for a pipeline run.
// It decodes from JSON (API requests) and TOML (config files).
type Options struct {
	// Layout options
	Strategy        string         `toml:"strategy" json:"strategy,omitempty"`
	Width           float64        `toml:"width" json:"width,omitempty"`
	Height          float64        `toml:"height" json:"height,omitempty"`
	Padding         float64        `toml:"padding" json:"padding,omitempty"`
	FallbackRadius  float64        `toml:"fallback_radius" json:"fallback_radius,omitempty"`
	Seed            uint64         `toml:"seed" json:"seed,omitempty"`
	Frames          int            `toml:"frames" json:"frames,omitempty"`
	StrategyOptions map[string]any `toml:"strategy_options" json:"strategy_options,omitempty"`

	// Render options
	Formats     []string `toml:"formats" json:"formats,omitempty"`
	Labels      bool     `toml:"labels" json:"labels,omitempty"`
	Regions     bool     `toml:"regions" json:"regions,omitempty"`
	InnerRadius bool     `toml:"inner_radius" json:"inner_radius,omitempty"`
	Animate     float64  `toml:"animate" json:"animate,omitempty"` // seconds per outline cycle
	Scale       float64  `toml:"scale" json:"scale,omitempty"`     // PNG scale factor

	Refresh bool `toml:"-" json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Previous *document.Layout `toml:"-" json:"-"`
	Logger   *log.Logger      `toml:"-" json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Layout     document.Layout
	LayoutHash string
	Artifacts  map[string][]byte
	Ignored    []string // strategy option keys that had no effect
	Stats      Stats
	CacheInfo  CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	RecordCount int
	RegionCount int
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each stage.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool // all requested artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return bserrors.New(bserrors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list.
func ParseFormats(s string) []string {
	var out []string
	for f := range strings.SplitSeq(s, ",") {
		if f = strings.TrimSpace(strings.ToLower(f)); f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// SetDefaults fills in zero values. It is idempotent.
func (o *Options) SetDefaults() {
	if o.Strategy == "" {
		o.Strategy = DefaultStrategy
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Padding == 0 {
		o.Padding = DefaultPadding
	}
	if o.FallbackRadius == 0 {
		o.FallbackRadius = DefaultFallbackRadius
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// Validate applies defaults and checks every option.
func (o *Options) Validate() error {
	o.SetDefaults()
	if !place.ValidStrategy(o.Strategy) {
		return bserrors.New(bserrors.ErrCodeInvalidStrategy,
			"invalid strategy: %q (must be one of: %s)", o.Strategy, strings.Join(place.Strategies, ", "))
	}
	if o.Width < 0 || o.Height < 0 || o.Padding < 0 {
		return bserrors.New(bserrors.ErrCodeInvalidConfig, "canvas dimensions must not be negative")
	}
	if 2*o.Padding >= o.Width || 2*o.Padding >= o.Height {
		return bserrors.New(bserrors.ErrCodeInvalidConfig,
			"padding %g leaves no room on a %gx%g canvas", o.Padding, o.Width, o.Height)
	}
	if o.FallbackRadius < 0 {
		return bserrors.New(bserrors.ErrCodeInvalidConfig, "fallback radius must not be negative")
	}
	if o.Frames < 0 || o.Frames > MaxFrames {
		return bserrors.New(bserrors.ErrCodeInvalidConfig, "frames must be between 0 and %d", MaxFrames)
	}
	if o.Animate < 0 || o.Scale < 0 {
		return bserrors.New(bserrors.ErrCodeInvalidConfig, "animate and scale must not be negative")
	}
	return ValidateFormats(o.Formats)
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	k := cache.LayoutKeyOpts{
		Strategy:        o.Strategy,
		Width:           o.Width,
		Height:          o.Height,
		Padding:         o.Padding,
		FallbackRadius:  o.FallbackRadius,
		Seed:            o.Seed,
		Frames:          o.Frames,
		StrategyOptions: o.StrategyOptions,
	}
	if o.Previous != nil {
		if data, err := document.MarshalLayout(*o.Previous); err == nil {
			k.PreviousHash = cache.Hash(data)
		}
	}
	return k
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:      format,
		Labels:      o.Labels,
		Regions:     o.Regions,
		InnerRadius: o.InnerRadius,
		Animate:     o.Animate,
	}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	return k
}

func (o *Options) String() string {
	return fmt.Sprintf("%s %gx%g seed=%d", o.Strategy, o.Width, o.Height, o.Seed)
}
