// 终端渲染：路口信号与读数、车辆进度、到sink的安全路径
package view

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/airsafe-sim/entity"
	"github.com/tsinghua-fib-lab/airsafe-sim/entity/junction/trafficlight"
	"github.com/tsinghua-fib-lab/airsafe-sim/task"
)

// 最多显示的车辆数
const maxVehicleRows = 12

// Simulation 渲染所需的仿真查询接口
type Simulation interface {
	Snapshot() task.Snapshot
	FindSafePath(start, end string) ([]string, bool)
}

type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Route key.Binding
	Quit  key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Route, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Route, k.Quit}}
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "prev junction"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "next junction"),
	),
	Route: key.NewBinding(
		key.WithKeys("enter", "r"),
		key.WithHelp("enter", "safe route to sink"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

type tickMsg time.Time

// Model bubbletea模型
type Model struct {
	sim      Simulation
	interval time.Duration
	help     help.Model

	snapshot task.Snapshot
	selected int    // 选中的起点路口
	route    string // 最近一次路径查询结果
	routeErr bool
}

// New 创建渲染模型
// 参数：sim-仿真查询接口，interval-刷新间隔
func New(sim Simulation, interval time.Duration) Model {
	return Model{
		sim:      sim,
		interval: interval,
		help:     help.New(),
		snapshot: sim.Snapshot(),
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.snapshot = m.sim.Snapshot()
		return m, m.tick()
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	case tea.KeyMsg:
		n := len(m.snapshot.Junctions)
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Up):
			if n > 0 {
				m.selected = (m.selected + n - 1) % n
			}
		case key.Matches(msg, keys.Down):
			if n > 0 {
				m.selected = (m.selected + 1) % n
			}
		case key.Matches(msg, keys.Route):
			m.findRoute()
		}
	}
	return m, nil
}

// findRoute 查询选中路口到sink的安全路径
func (m *Model) findRoute() {
	if m.selected >= len(m.snapshot.Junctions) {
		return
	}
	start, end := m.snapshot.Junctions[m.selected].ID, m.snapshot.Sink
	if start == end {
		m.route, m.routeErr = "start and end junctions must be different", true
		return
	}
	path, ok := m.sim.FindSafePath(start, end)
	if !ok {
		m.route, m.routeErr = fmt.Sprintf("no safe path from %s to %s", start, end), true
		return
	}
	m.route, m.routeErr = strings.Join(path, " → "), false
}

func reading(v *float64, band trafficlight.Band) string {
	if v == nil {
		return mutedStyle.Render("-")
	}
	return bandText(band, strconv.FormatFloat(*v, 'f', 1, 64))
}

func (m Model) junctionsView() string {
	rows := []string{titleStyle.Render(fmt.Sprintf("%-4s %-12s %7s %7s %7s  %s", "", "signal", "AQI", "noise", "hum.", "alerts"))}
	for i, j := range m.snapshot.Junctions {
		r := j.Readings
		alerts := strings.Join(lo.Map(j.Alerts, func(a trafficlight.Alert, _ int) string {
			return fmt.Sprintf("%s %s", a.Type, a.Status)
		}), ", ")
		id := fmt.Sprintf("%-4s", j.ID)
		if i == m.selected {
			id = selectedStyle.Render(id)
		}
		rows = append(rows, fmt.Sprintf("%s %s %s %s %s  %s",
			id,
			lipgloss.NewStyle().Width(12).Render(signalBadge(j.Signal)),
			lipgloss.NewStyle().Width(7).Align(lipgloss.Right).Render(reading(r.AirQuality, trafficlight.AQIBand(r.AirQuality))),
			lipgloss.NewStyle().Width(7).Align(lipgloss.Right).Render(reading(r.NoiseLevel, trafficlight.NoiseBand(r.NoiseLevel))),
			lipgloss.NewStyle().Width(7).Align(lipgloss.Right).Render(reading(r.Humidity, trafficlight.HumidityBand(r.Humidity))),
			errorStyle.Render(alerts),
		))
	}
	return boxStyle.Render(strings.Join(rows, "\n"))
}

func (m Model) roadsView() string {
	rows := []string{titleStyle.Render("roads")}
	for _, r := range m.snapshot.Roads {
		color := signalColors[entity.SignalSafe]
		if !r.Clear {
			color = signalColors[entity.SignalUnsafe]
		}
		rows = append(rows, lipgloss.NewStyle().Foreground(color).Render(fmt.Sprintf("%s → %s", r.From, r.To)))
	}
	return boxStyle.Render(strings.Join(rows, "\n"))
}

func progressBar(p float64, width int) string {
	filled := int(p*float64(width) + 0.5)
	filled = lo.Clamp(filled, 0, width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func (m Model) vehiclesView() string {
	vehicles := m.snapshot.Vehicles
	rows := []string{titleStyle.Render(fmt.Sprintf("vehicles: %d", len(vehicles)))}
	for _, v := range lo.Subset(vehicles, 0, maxVehicleRows) {
		line := fmt.Sprintf("#%-4d %s→%s %s %3.0f%%", v.ID, v.From, v.To, progressBar(v.Position, 10), v.Position*100)
		if v.Status == entity.VehicleBlocked {
			line = mutedStyle.Render(line + " blocked")
		}
		rows = append(rows, line)
	}
	if len(vehicles) > maxVehicleRows {
		rows = append(rows, mutedStyle.Render(fmt.Sprintf("... %d more", len(vehicles)-maxVehicleRows)))
	}
	return boxStyle.Render(strings.Join(rows, "\n"))
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("step %d  %s  sink %s", m.snapshot.Step, m.snapshot.Time, m.snapshot.Sink)))
	b.WriteString("\n")
	if !m.snapshot.Loaded {
		b.WriteString(mutedStyle.Render("no readings loaded yet"))
		b.WriteString("\n")
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.junctionsView(), m.roadsView(), m.vehiclesView()))
	b.WriteString("\n")
	if m.route != "" {
		if m.routeErr {
			b.WriteString(errorStyle.Render(m.route))
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(signalColors[entity.SignalSafe]).Render("safe route: " + m.route))
		}
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(keys))
	return b.String()
}
