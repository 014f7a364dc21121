package viz

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/subsim/internal/storage"
)

var ErrUnknownChannel = errors.New("viz: unknown channel")

// Channel pulls one plotted quantity out of a stored row.
type Channel struct {
	Name    string
	Caption string
	Value   func(storage.Row) float64
}

var channels = []Channel{
	{"depth", "depth (m, down)", func(r storage.Row) float64 { return r.Z }},
	{"x", "distance (m)", func(r storage.Row) float64 { return r.X }},
	{"speed", "speed (m/s)", func(r storage.Row) float64 { return math.Hypot(r.VX, r.VZ) }},
	{"vz", "vertical speed (m/s, down)", func(r storage.Row) float64 { return r.VZ }},
	{"angle", "pitch (rad)", func(r storage.Row) float64 { return r.Angle }},
	{"throttle", "throttle (N)", func(r storage.Row) float64 { return r.Throttle }},
}

func GetChannel(name string) (Channel, error) {
	for _, c := range channels {
		if c.Name == name {
			return c, nil
		}
	}
	return Channel{}, fmt.Errorf("%w: %s (have %s)", ErrUnknownChannel, name, strings.Join(ChannelNames(), ", "))
}

func ChannelNames() []string {
	names := make([]string, len(channels))
	for i, c := range channels {
		names[i] = c.Name
	}
	return names
}

// Extract returns one value per row.
func (c Channel) Extract(rows []storage.Row) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = c.Value(r)
	}
	return out
}

// PlotSeries draws one series. An empty series yields an empty string.
func PlotSeries(values []float64, caption string, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	return asciigraph.Plot(values,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// PlotRun draws one channel of a stored run.
func PlotRun(rows []storage.Row, channel string, width, height int) (string, error) {
	c, err := GetChannel(channel)
	if err != nil {
		return "", err
	}
	return PlotSeries(c.Extract(rows), c.Caption, width, height), nil
}

var seriesColors = []asciigraph.AnsiColor{
	asciigraph.Green, asciigraph.Cyan, asciigraph.Yellow, asciigraph.Magenta, asciigraph.Red, asciigraph.Blue,
}

// PlotCompare overlays the same channel from several runs, one legend entry
// per name.
func PlotCompare(names []string, runs [][]storage.Row, channel string, width, height int) (string, error) {
	if len(names) != len(runs) {
		return "", fmt.Errorf("viz: %d names for %d runs", len(names), len(runs))
	}
	c, err := GetChannel(channel)
	if err != nil {
		return "", err
	}

	data := make([][]float64, 0, len(runs))
	legends := make([]string, 0, len(runs))
	colors := make([]asciigraph.AnsiColor, 0, len(runs))
	for i, rows := range runs {
		if len(rows) == 0 {
			continue
		}
		data = append(data, c.Extract(rows))
		legends = append(legends, names[i])
		colors = append(colors, seriesColors[i%len(seriesColors)])
	}
	if len(data) == 0 {
		return "", nil
	}
	return asciigraph.PlotMany(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(c.Caption),
		asciigraph.SeriesColors(colors...),
		asciigraph.SeriesLegends(legends...),
	), nil
}

// MetricsTable renders metric values in name order.
func MetricsTable(title string, metrics map[string]float64, theme Theme) string {
	st := NewStyles(theme)
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	slices.Sort(names)

	width := 0
	for _, name := range names {
		width = max(width, len(name))
	}
	label := st.Label.Width(width + 2)

	var b strings.Builder
	b.WriteString(st.Title.Render(title) + "\n")
	for _, name := range names {
		b.WriteString(label.Render(name) + st.Value.Render(formatMetric(metrics[name])) + "\n")
	}
	return st.Panel.Render(strings.TrimSuffix(b.String(), "\n"))
}

func formatMetric(v float64) string {
	switch {
	case math.IsNaN(v):
		return "n/a"
	case v != 0 && (math.Abs(v) >= 1e6 || math.Abs(v) < 1e-3):
		return fmt.Sprintf("%.4e", v)
	default:
		return fmt.Sprintf("%.4f", v)
	}
}

// CompareTable lays several runs' metrics side by side, one column per run.
func CompareTable(names []string, metrics []map[string]float64, theme Theme) string {
	st := NewStyles(theme)
	keys := make(map[string]struct{})
	for _, m := range metrics {
		for k := range m {
			keys[k] = struct{}{}
		}
	}
	rows := make([]string, 0, len(keys))
	for k := range keys {
		rows = append(rows, k)
	}
	slices.Sort(rows)

	colWidth := 12
	for _, n := range names {
		colWidth = max(colWidth, len(n)+2)
	}
	labelWidth := 0
	for _, k := range rows {
		labelWidth = max(labelWidth, len(k)+2)
	}
	label := st.Label.Width(labelWidth)
	cell := lipgloss.NewStyle().Width(colWidth).Align(lipgloss.Right)

	var b strings.Builder
	b.WriteString(label.Render(""))
	for _, n := range names {
		b.WriteString(st.Value.Inherit(cell).Render(n))
	}
	b.WriteByte('\n')
	for _, k := range rows {
		b.WriteString(label.Render(k))
		for _, m := range metrics {
			v, ok := m[k]
			text := "-"
			if ok {
				text = formatMetric(v)
			}
			b.WriteString(cell.Render(text))
		}
		b.WriteByte('\n')
	}
	return st.Panel.Render(strings.TrimSuffix(b.String(), "\n"))
}
