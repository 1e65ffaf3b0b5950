package view

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/tsinghua-fib-lab/airsafe-sim/entity"
	"github.com/tsinghua-fib-lab/airsafe-sim/entity/junction/trafficlight"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF"))

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#888888")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#5F5FAF"))

	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true)
)

var signalColors = map[entity.SignalState]lipgloss.Color{
	entity.SignalSafe:    lipgloss.Color("#00C000"),
	entity.SignalCaution: lipgloss.Color("#E0C000"),
	entity.SignalUnsafe:  lipgloss.Color("#E00000"),
}

// 与原页面一致的分级配色
var bandColors = map[trafficlight.Band]lipgloss.Color{
	trafficlight.BandUnknown:       lipgloss.Color("#888888"),
	trafficlight.BandGood:          lipgloss.Color("#00E400"),
	trafficlight.BandModerate:      lipgloss.Color("#FFFF00"),
	trafficlight.BandSensitive:     lipgloss.Color("#FF7E00"),
	trafficlight.BandUnhealthy:     lipgloss.Color("#FF0000"),
	trafficlight.BandVeryUnhealthy: lipgloss.Color("#8F3F97"),
	trafficlight.BandHazardous:     lipgloss.Color("#7E0023"),
}

func signalBadge(s entity.SignalState) string {
	return lipgloss.NewStyle().Bold(true).Foreground(signalColors[s]).Render("● " + s.String())
}

func bandText(b trafficlight.Band, text string) string {
	return lipgloss.NewStyle().Foreground(bandColors[b]).Render(text)
}
