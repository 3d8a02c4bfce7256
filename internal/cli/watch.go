package cli

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bubbleset/pkg/core/force"
	"github.com/matzehuels/bubbleset/pkg/core/geom"
	"github.com/matzehuels/bubbleset/pkg/core/place"
	"github.com/matzehuels/bubbleset/pkg/document"
	"github.com/matzehuels/bubbleset/pkg/layout"
	"github.com/matzehuels/bubbleset/pkg/pipeline"
	"github.com/matzehuels/bubbleset/pkg/render/svg"
)

const (
	defaultFrameInterval = 33 * time.Millisecond
	circleSamples        = 96
)

// watchCommand creates the watch command, an animated terminal view of the
// force strategy.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		fps int
		lf  layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "watch [records.json|records.yaml]",
		Short: "Watch the force simulation settle in the terminal",
		Long: `Watch the force simulation settle in the terminal.

Records start at their region centers and are stepped once per frame until the
simulation cools down. Keys: space pauses, r reheats, q quits.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := lf.merge(cmd, base)
			opts.Strategy = place.StrategyForce
			interval := defaultFrameInterval
			if fps > 0 {
				interval = time.Second / time.Duration(fps)
			}
			return c.runWatch(cmd.Context(), args[0], opts, interval)
		},
	}

	cmd.Flags().IntVar(&fps, "fps", 30, "simulation steps per second")
	lf.register(cmd)
	_ = cmd.Flags().MarkHidden("strategy")

	return cmd
}

func (c *CLI) runWatch(ctx context.Context, input string, opts pipeline.Options, interval time.Duration) error {
	records, err := document.ImportRecords(input)
	if err != nil {
		return fmt.Errorf("load records: %w", err)
	}
	opts.Logger = c.Logger
	if err := opts.Validate(); err != nil {
		return err
	}

	lopts, ignored := pipeline.LayoutOptions(opts)
	if len(ignored) > 0 {
		printWarning("Ignored force options: %s", strings.Join(ignored, ", "))
	}
	l := layout.New(append(lopts, layout.WithRunForce(false))...)
	if err := l.Compute(ctx, document.ToSetsAll(records)); err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}
	if l.Simulation() == nil {
		printInfo("No records with set memberships")
		return nil
	}

	prog := newProgress(c.Logger)
	p := tea.NewProgram(newWatchModel(l, interval), tea.WithContext(ctx), tea.WithAltScreen())
	_, err = p.Run()
	sim := l.Simulation()
	sim.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Stepped %d records for %d ticks, %s", len(l.Regions().Records()), sim.Ticks(), sim.State()))
	return nil
}

type frameMsg time.Time

// watchModel is the bubbletea model that pumps the simulation one step per frame.
type watchModel struct {
	layout   *layout.Layout
	sim      *force.Simulation
	interval time.Duration
	cols     int
	rows     int
	paused   bool
	colors   map[string]lipgloss.Color
}

func newWatchModel(l *layout.Layout, interval time.Duration) watchModel {
	colors := make(map[string]lipgloss.Color)
	for i, name := range l.Circles().Names() {
		colors[name] = lipgloss.Color(svg.DefaultPalette[i%len(svg.DefaultPalette)])
	}
	return watchModel{
		layout:   l,
		sim:      l.Simulation(),
		interval: interval,
		cols:     80,
		rows:     24,
		colors:   colors,
	}
}

func (m watchModel) frame() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m watchModel) Init() tea.Cmd {
	return m.frame()
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.sim.Stop()
			m.sim.Step()
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "r":
			m.sim.Reheat(1)
		}
	case tea.WindowSizeMsg:
		m.cols = max(msg.Width, 20)
		m.rows = max(msg.Height-4, 5)
	case frameMsg:
		if !m.paused && m.sim.State() != force.Ended {
			m.sim.Step()
		}
		return m, m.frame()
	}
	return m, nil
}

func (m watchModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("bubbleset watch"))
	b.WriteString("  ")
	status := fmt.Sprintf("%s  alpha %.3f  tick %d", m.sim.State(), m.sim.Alpha(), m.sim.Ticks())
	if m.paused {
		status += "  paused"
	}
	b.WriteString(StyleDim.Render(status))
	b.WriteString("\n")

	b.WriteString(m.plot())

	b.WriteString(StyleDim.Render("space pause  r reheat  q quit"))
	return b.String()
}

type cell struct {
	r     rune
	color lipgloss.Color
}

// plot rasterizes set circles and records onto a character grid.
func (m watchModel) plot() string {
	grid := make([][]cell, m.rows)
	for i := range grid {
		grid[i] = make([]cell, m.cols)
	}
	w, h := m.layout.Canvas()
	put := func(x, y float64, r rune, color lipgloss.Color) {
		col := int(x / w * float64(m.cols))
		row := int(y / h * float64(m.rows))
		if col >= 0 && col < m.cols && row >= 0 && row < m.rows {
			grid[row][col] = cell{r: r, color: color}
		}
	}

	m.layout.Circles().Each(func(name string, c geom.Circle) {
		for i := range circleSamples {
			a := 2 * math.Pi * float64(i) / circleSamples
			put(c.X+c.Radius*math.Cos(a), c.Y+c.Radius*math.Sin(a), '·', m.colors[name])
		}
	})
	for _, rec := range m.layout.Regions().Records() {
		color := colorWhite
		if len(rec.Sets) == 1 {
			color = m.colors[rec.Sets[0]]
		}
		put(rec.X, rec.Y, '●', color)
	}

	var b strings.Builder
	for _, row := range grid {
		for _, c := range row {
			if c.r == 0 {
				b.WriteByte(' ')
				continue
			}
			b.WriteString(lipgloss.NewStyle().Foreground(c.color).Render(string(c.r)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
