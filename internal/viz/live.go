package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/subsim/internal/body"
	"github.com/san-kum/subsim/internal/control"
	"github.com/san-kum/subsim/internal/dynamo"
)

const (
	historyCapacity = 600
	frameRate       = 30
	trackWidth      = 48
	trackHeight     = 14
)

type TickMsg time.Time

// LiveOptions configures the actuators the keys drive and how fast the
// simulation runs against the wall clock.
type LiveOptions struct {
	Name string
	Dt   float64
	// StepsPerFrame is the number of ticks taken per redraw.
	StepsPerFrame int
	Tank          string
	Surface       string
	// Air is the tank's air fraction at start.
	Air          float64
	Throttle     float64
	ThrottleStep float64
	MaxThrottle  float64
	PlaneStep    float64
	AirStep      float64
	SurfaceDepth float64
	Theme        string
}

func DefaultLiveOptions() LiveOptions {
	return LiveOptions{
		Name:          "live",
		Dt:            0.02,
		StepsPerFrame: 2,
		ThrottleStep:  1000,
		MaxThrottle:   50000,
		PlaneStep:     0.05,
		AirStep:       0.02,
		Theme:         ThemeSonar.Name,
	}
}

// LiveModel steps a simulator under a manual controller and draws its
// telemetry.
type LiveModel struct {
	sim    *dynamo.Simulator
	manual *control.Manual
	opts   LiveOptions
	theme  Theme

	throttle float64
	plane    float64
	air      float64

	last    body.Snapshot
	xs, zs  []float64
	speeds  []float64
	running bool
	err     error
}

func NewLiveModel(sim *dynamo.Simulator, manual *control.Manual, opts LiveOptions) LiveModel {
	if opts.StepsPerFrame < 1 {
		opts.StepsPerFrame = 1
	}
	m := LiveModel{
		sim:      sim,
		manual:   manual,
		opts:     opts,
		theme:    GetTheme(opts.Theme),
		throttle: opts.Throttle,
		air:      opts.Air,
		last:     sim.Body().Snapshot(),
		xs:       make([]float64, 0, historyCapacity),
		zs:       make([]float64, 0, historyCapacity),
		speeds:   make([]float64, 0, historyCapacity),
		running:  true,
	}
	manual.SetThrottle(m.throttle)
	m.record()
	return m
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m LiveModel) Init() tea.Cmd {
	return tick()
}

func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "t":
			m.theme = NextTheme(m.theme.Name)
		case "w", "up":
			m.setThrottle(m.throttle + m.opts.ThrottleStep)
		case "s", "down":
			m.setThrottle(m.throttle - m.opts.ThrottleStep)
		case "a":
			m.setPlane(m.plane + m.opts.PlaneStep)
		case "d":
			m.setPlane(m.plane - m.opts.PlaneStep)
		case "f":
			m.setAir(m.air - m.opts.AirStep)
		case "v":
			m.setAir(m.air + m.opts.AirStep)
		}
	case TickMsg:
		if m.running && m.err == nil {
			m.advance()
		}
		return m, tick()
	}
	return m, nil
}

func (m *LiveModel) setThrottle(v float64) {
	if m.opts.MaxThrottle > 0 {
		v = math.Max(-m.opts.MaxThrottle, math.Min(m.opts.MaxThrottle, v))
	}
	m.throttle = v
	m.manual.SetThrottle(v)
}

func (m *LiveModel) setPlane(v float64) {
	if m.opts.Surface == "" {
		return
	}
	m.plane = v
	m.manual.SetDeflection(m.opts.Surface, v)
}

// setAir commands the tank; less air floods it.
func (m *LiveModel) setAir(v float64) {
	if m.opts.Tank == "" {
		return
	}
	m.air = math.Max(0, math.Min(1, v))
	m.manual.SetBallast(m.opts.Tank, m.air)
}

func (m *LiveModel) advance() {
	for i := 0; i < m.opts.StepsPerFrame; i++ {
		if _, _, err := m.sim.Step(m.opts.Dt); err != nil {
			m.err = err
			m.running = false
			break
		}
	}
	m.last = m.sim.Body().Snapshot()
	m.record()
}

func (m *LiveModel) record() {
	push := func(s []float64, v float64) []float64 {
		s = append(s, v)
		if len(s) > historyCapacity {
			s = s[1:]
		}
		return s
	}
	m.xs = push(m.xs, m.last.Pose.Position.X)
	m.zs = push(m.zs, m.last.Pose.Position.Z)
	m.speeds = push(m.speeds, m.last.Velocity.Magnitude())
}

// Surfaced reports whether the boat has reached the surface.
func (m LiveModel) Surfaced() bool {
	return m.last.Pose.Position.Z <= m.opts.SurfaceDepth
}

func (m LiveModel) Err() error { return m.err }

func (m LiveModel) View() string {
	st := NewStyles(m.theme)

	status := st.Running.Render("RUNNING")
	switch {
	case m.err != nil:
		status = st.Alert.Render("FAILED")
	case !m.running:
		status = st.Paused.Render("PAUSED")
	case m.Surfaced():
		status = st.Paused.Render("SURFACED")
	}

	track := st.Panel.Render(st.Graph.Render(TrackPlot(m.xs, m.zs, trackWidth, trackHeight)))

	var s strings.Builder
	s.WriteString(st.Title.Render(strings.ToUpper(m.opts.Name)) + "  " + status + "\n\n")
	row := func(label, value string) {
		s.WriteString(st.Label.Render(label) + st.Value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.1fs", m.last.Time))
	row("Depth", fmt.Sprintf("%.2fm", m.last.Pose.Position.Z))
	row("Distance", fmt.Sprintf("%.1fm", m.last.Pose.Position.X))
	row("Speed", fmt.Sprintf("%.2fm/s", m.last.Velocity.Magnitude()))
	row("Vertical", fmt.Sprintf("%+.2fm/s", m.last.Velocity.Z))
	row("Pitch", fmt.Sprintf("%+.3frad", m.last.Pose.Orientation.Y))
	s.WriteString("\n")

	frac := 0.0
	if m.opts.MaxThrottle > 0 {
		frac = math.Abs(m.throttle) / m.opts.MaxThrottle
	}
	row("Throttle", fmt.Sprintf("%s %.0fN", ProgressBar(frac, 12), m.throttle))
	if m.opts.Surface != "" {
		row("Planes", fmt.Sprintf("%+.2frad", m.plane))
	}
	if m.opts.Tank != "" {
		row("Air", fmt.Sprintf("%s %.0f%%", ProgressBar(m.air, 12), m.air*100))
	}
	s.WriteString("\n")
	s.WriteString(st.Label.Render("Depth") + Sparkline(m.zs, 30, true) + "\n")
	if m.err != nil {
		s.WriteString("\n" + st.Alert.Render(m.err.Error()) + "\n")
	}
	s.WriteString("\n" + st.Hint.Render(Separator(34)+"\nw/s throttle  a/d planes  f/v flood/vent\nspace pause  t theme  q quit"))

	stats := st.Panel.Render(s.String())
	top := lipgloss.JoinHorizontal(lipgloss.Top, track, stats)
	if len(m.speeds) < 2 {
		return top
	}
	graph := st.Graph.Render(PlotSeries(m.speeds, "speed (m/s)", trackWidth+30, 5))
	return lipgloss.JoinVertical(lipgloss.Left, top, graph)
}
