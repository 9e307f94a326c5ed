// Package tui renders a live spring scenario in the terminal. Bubble Tea
// ticks drain a frame queue that an animation looper schedules into, so the
// program only ticks while springs are moving.
package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/frame"
	"github.com/san-kum/springsim/internal/interp"
	"github.com/san-kum/springsim/internal/spring"
)

const (
	trackWidth = 60
	kickSpeed  = 5.0
	// Speeds at or above hotSpeed draw in the hot colour.
	hotSpeed = 10.0
)

type FrameMsg time.Time

type Model struct {
	name    string
	sys     *spring.System
	queue   *frame.Queue
	springs []*spring.Spring
	labels  []string

	low, high float64
	target    float64
	ticking   bool
	frames    int
	width     int

	theme  Theme
	track  lipgloss.Style
	marker lipgloss.Style
}

// NewModel builds the scenario's springs on an animation looper and sets
// them moving toward their configured end values.
func NewModel(cfg *config.Config) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	q := frame.NewQueue()
	m := &Model{
		name:  cfg.Name,
		sys:   spring.NewSystem(spring.NewAnimationLooper(q)),
		queue: q,
		width: trackWidth,
	}
	m.WithTheme(ThemeNeon)

	m.low, m.high = math.Inf(1), math.Inf(-1)
	for _, spec := range cfg.Springs {
		sc, err := spec.SpringConfig()
		if err != nil {
			return nil, fmt.Errorf("spring %s: %w", spec.Name, err)
		}
		s := m.sys.CreateSpringWithConfig(sc).
			SetRestSpeedThreshold(spec.RestSpeedThreshold).
			SetRestDisplacementThreshold(spec.RestDisplacementThreshold).
			SetOvershootClampingEnabled(spec.OvershootClamping)
		s.SetCurrentValue(spec.From)
		m.springs = append(m.springs, s)
		m.labels = append(m.labels, spec.Name)
		m.low = min(m.low, spec.From, spec.To)
		m.high = max(m.high, spec.From, spec.To)
		m.target = spec.To
	}
	if m.high-m.low < 1 {
		m.high = m.low + 1
	}

	for i, spec := range cfg.Springs {
		m.springs[i].SetVelocity(spec.Velocity)
		m.springs[i].SetEndValue(spec.To)
	}
	return m, nil
}

// WithClock replaces the wall clock the looper stamps frames with.
func (m *Model) WithClock(now func() time.Time) *Model {
	if l, ok := m.sys.Looper().(*spring.AnimationLooper); ok {
		l.WithClock(now)
	}
	return m
}

func (m *Model) WithTheme(t Theme) *Model {
	m.theme = t
	m.track = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Track))
	m.marker = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Target))
	return m
}

func (m *Model) System() *spring.System { return m.sys }

func (m *Model) Frames() int { return m.frames }

func (m *Model) Init() tea.Cmd {
	return m.schedule()
}

// schedule returns a tick when the looper has asked for a frame and none is
// already on its way.
func (m *Model) schedule() tea.Cmd {
	if m.ticking || m.queue.Len() == 0 {
		return nil
	}
	m.ticking = true
	return tea.Tick(frame.DefaultInterval, func(t time.Time) tea.Msg { return FrameMsg(t) })
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case FrameMsg:
		m.ticking = false
		m.frames += m.queue.Flush()
	case tea.WindowSizeMsg:
		m.width = max(10, min(trackWidth, msg.Width-labelStyle.GetWidth()-12))
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			m.retarget(m.target - (m.high-m.low)/4)
		case "right", "l":
			m.retarget(m.target + (m.high-m.low)/4)
		case "r":
			for _, s := range m.springs {
				s.SetVelocity(s.Velocity() + kickSpeed)
			}
		case "c":
			for _, s := range m.springs {
				s.SetOvershootClampingEnabled(!s.OvershootClampingEnabled())
			}
		}
	}
	return m, m.schedule()
}

func (m *Model) retarget(v float64) {
	m.target = max(m.low, min(m.high, v))
	for _, s := range m.springs {
		s.SetEndValue(m.target)
	}
}

func (m *Model) View() string {
	var sb strings.Builder

	status := statusRest.Render("at rest")
	if !m.sys.IsIdle() {
		status = statusRun.Render("moving")
	}
	sb.WriteString(headerStyle.Render(fmt.Sprintf("%s  %s", m.name, status)))
	sb.WriteString("\n\n")

	for i, s := range m.springs {
		sb.WriteString(labelStyle.Render(m.labels[i]))
		sb.WriteString(m.bar(s))
		sb.WriteString(" ")
		sb.WriteString(valueStyle.Render(fmt.Sprintf("%7.3f", s.CurrentValue())))
		if s.OvershootClampingEnabled() {
			sb.WriteString(m.track.Render(" clamp"))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(helpStyle.Render("←/→ move target • r kick • c clamp • q quit"))
	return sb.String()
}

func (m *Model) column(v float64) int {
	col := int(math.Round(interp.MapValueInRange(v, m.low, m.high, 0, float64(m.width-1))))
	return max(0, min(m.width-1, col))
}

func (m *Model) bar(s *spring.Spring) string {
	pos := m.column(s.CurrentValue())
	end := m.column(s.EndValue())

	color, err := interp.InterpolateColor(math.Min(math.Abs(s.Velocity()), hotSpeed), m.theme.Calm, m.theme.Hot,
		interp.ColorOptions{FromLow: 0, FromHigh: hotSpeed})
	if err != nil {
		color = m.theme.Calm
	}
	knob := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)

	var sb strings.Builder
	for col := 0; col < m.width; col++ {
		switch col {
		case pos:
			sb.WriteString(knob.Render("●"))
		case end:
			sb.WriteString(m.marker.Render("┃"))
		default:
			sb.WriteString(m.track.Render("─"))
		}
	}
	return sb.String()
}

// Run starts the program on the terminal and blocks until the user quits.
func Run(cfg *config.Config, theme Theme) error {
	m, err := NewModel(cfg)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m.WithTheme(theme), tea.WithAltScreen()).Run()
	return err
}
