package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/bubbleset/pkg/cache"
	"github.com/matzehuels/bubbleset/pkg/document"
	bserrors "github.com/matzehuels/bubbleset/pkg/errors"
	"github.com/matzehuels/bubbleset/pkg/observability"
)

func records() []document.Record {
	return []document.Record{
		{ID: "1", Label: "go", Sets: []string{"compiled"}},
		{ID: "2", Label: "python", Sets: []string{"scripting"}},
		{ID: "3", Label: "julia", Sets: []string{"compiled", "scripting"}},
		{ID: "4", Label: "rust", Sets: []string{"compiled"}},
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestParseFormats(t *testing.T) {
	got := ParseFormats(" svg, JSON,,svg ")
	if !slices.Equal(got, []string{"svg", "json"}) {
		t.Errorf("ParseFormats = %v", got)
	}
	if got := ParseFormats(""); got != nil {
		t.Errorf("ParseFormats(\"\") = %v, want nil", got)
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code bserrors.Code
	}{
		{"defaults", Options{}, ""},
		{"strategy", Options{Strategy: "spiral"}, bserrors.ErrCodeInvalidStrategy},
		{"padding", Options{Width: 20, Height: 20, Padding: 10}, bserrors.ErrCodeInvalidConfig},
		{"frames", Options{Frames: MaxFrames + 1}, bserrors.ErrCodeInvalidConfig},
		{"format", Options{Formats: []string{"gif"}}, bserrors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.code == "" {
				if err != nil {
					t.Fatalf("Validate() = %v", err)
				}
				return
			}
			if !bserrors.Is(err, tt.code) {
				t.Errorf("Validate() = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestSetDefaults(t *testing.T) {
	var o Options
	o.SetDefaults()
	if o.Strategy != DefaultStrategy || o.Width != DefaultWidth || o.Seed != DefaultSeed {
		t.Errorf("defaults not applied: %+v", o)
	}
	if !slices.Equal(o.Formats, []string{FormatSVG}) || o.Logger == nil {
		t.Errorf("render defaults not applied: %+v", o)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	data := `strategy = "force"
width = 800
seed = 7
formats = ["SVG", "json"]

[strategy_options]
padding = 2
pull = 0.5
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	opts, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if opts.Strategy != "force" || opts.Width != 800 || opts.Seed != 7 {
		t.Errorf("opts = %+v", opts)
	}
	if !slices.Equal(opts.Formats, []string{"svg", "json"}) {
		t.Errorf("formats = %v", opts.Formats)
	}
	if len(opts.StrategyOptions) != 2 {
		t.Errorf("strategy options = %v", opts.StrategyOptions)
	}
}

func TestLoadConfigUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("strategy = \"pack\"\nwidht = 10\n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadConfig(path)
	if !bserrors.Is(err, bserrors.ErrCodeInvalidConfig) {
		t.Errorf("LoadConfig = %v, want INVALID_CONFIG", err)
	}
}

func TestConfigPathXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := ConfigPath(); got != filepath.Join("/tmp/xdg", "bubbleset", "config.toml") {
		t.Errorf("ConfigPath = %q", got)
	}
}

func TestGenerateLayout(t *testing.T) {
	for _, strategy := range []string{"pack", "distribute", "force"} {
		t.Run(strategy, func(t *testing.T) {
			doc, _, err := GenerateLayout(context.Background(), records(), Options{Strategy: strategy})
			if err != nil {
				t.Fatal(err)
			}
			if doc.Strategy != strategy || doc.Width != DefaultWidth {
				t.Errorf("doc header = %s %gx%g", doc.Strategy, doc.Width, doc.Height)
			}
			if len(doc.Regions) != 3 || len(doc.Circles) != 2 || len(doc.Records) != 4 {
				t.Fatalf("got %d regions, %d circles, %d records", len(doc.Regions), len(doc.Circles), len(doc.Records))
			}
			for _, r := range doc.Records {
				if r.Key == "" {
					t.Errorf("record %s has no region key", r.ID)
				}
			}
		})
	}
}

func TestGenerateLayoutIgnoredOptions(t *testing.T) {
	opts := Options{
		Strategy:        "pack",
		StrategyOptions: map[string]any{"padding": 2, "pull": 0.5, "bogus": true},
	}
	_, ignored, err := GenerateLayout(context.Background(), records(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(ignored, []string{"bogus", "pull"}) {
		t.Errorf("ignored = %v, want [bogus pull]", ignored)
	}
}

func TestGenerateLayoutFrames(t *testing.T) {
	prev, _, err := GenerateLayout(context.Background(), records()[:2], Options{})
	if err != nil {
		t.Fatal(err)
	}
	doc, _, err := GenerateLayout(context.Background(), records(), Options{Frames: 4, Previous: &prev})
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range doc.Regions {
		if len(r.Frames) != 5 {
			t.Errorf("region %s has %d frames, want 5", r.Key, len(r.Frames))
		}
	}
}

func TestRenderFormats(t *testing.T) {
	doc, _, err := GenerateLayout(context.Background(), records(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	artifacts, err := Render(context.Background(), doc, Options{Formats: []string{"svg", "json"}, Labels: true})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(artifacts["svg"], []byte("<svg")) {
		t.Errorf("svg artifact does not start with <svg")
	}
	back, err := document.UnmarshalLayout(artifacts["json"])
	if err != nil {
		t.Fatal(err)
	}
	if len(back.Records) != len(doc.Records) {
		t.Errorf("json artifact has %d records, want %d", len(back.Records), len(doc.Records))
	}
}

func TestRunnerCachesLayout(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	defer r.Close()
	ctx := context.Background()

	first, err := r.Execute(ctx, records(), Options{Formats: []string{"json"}})
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.LayoutHit {
		t.Error("first run hit the layout cache")
	}
	if first.Stats.RecordCount != 4 || first.Stats.RegionCount != 3 || first.LayoutHash == "" {
		t.Errorf("stats = %+v hash=%q", first.Stats, first.LayoutHash)
	}

	second, err := r.Execute(ctx, records(), Options{Formats: []string{"json"}})
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.LayoutHit {
		t.Error("second run missed the layout cache")
	}

	refreshed, err := r.Execute(ctx, records(), Options{Formats: []string{"json"}, Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.CacheInfo.LayoutHit {
		t.Error("refresh hit the layout cache")
	}
}

func TestRunnerCachesArtifacts(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	ctx := context.Background()

	doc, err := r.GenerateLayout(ctx, records(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{Formats: []string{"svg"}}
	if _, hit, err := r.RenderWithCacheInfo(ctx, doc, opts); err != nil || hit {
		t.Fatalf("first render: hit=%v err=%v", hit, err)
	}
	if _, hit, err := r.RenderWithCacheInfo(ctx, doc, opts); err != nil || !hit {
		t.Fatalf("second render: hit=%v err=%v", hit, err)
	}
	opts.Labels = true
	if _, hit, _ := r.RenderWithCacheInfo(ctx, doc, opts); hit {
		t.Error("changed render options hit the cache")
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) OnLayoutStart(_ context.Context, strategy string, _ int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, "start:"+strategy)
}

func (h *recordingHooks) OnLayoutComplete(_ context.Context, strategy string, _ int, _ time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, "complete:"+strategy)
}

func TestRunnerHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	r := NewRunner(nil, nil, nil)
	if _, err := r.GenerateLayout(context.Background(), records(), Options{Strategy: "distribute"}); err != nil {
		t.Fatal(err)
	}
	want := []string{"start:distribute", "complete:distribute"}
	if !slices.Equal(hooks.events, want) {
		t.Errorf("events = %v, want %v", hooks.events, want)
	}
}

func TestRunnerInvalidOptions(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Execute(context.Background(), records(), Options{Strategy: "spiral"})
	if !bserrors.Is(err, bserrors.ErrCodeInvalidStrategy) {
		t.Errorf("Execute = %v, want INVALID_STRATEGY", err)
	}
}
