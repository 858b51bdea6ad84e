package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Shimmer animation for the JUSTCOM logo.
type shimmerTickMsg time.Time

func shimmerTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return shimmerTickMsg(t)
	})
}

// renderShimmerLogo renders "J U S T C O M" as a wave of blue light moving
// left to right. Deep navy (#1e2a5a) -> bright blue (#60a5fa).
func renderShimmerLogo(frame int) string {
	const text = "JUSTCOM"
	n := len(text)
	t := float64(frame)

	var out strings.Builder
	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)

		phase := t*0.1 - x*3.0
		b := math.Sin(phase)*0.5 + 0.5
		b = math.Pow(b, 1.3)
		b = b*0.8 + math.Sin(t*0.035)*0.1 + 0.15
		b = math.Max(0.05, math.Min(1.0, b))

		r := clampByte(30 + b*(96-30))
		g := clampByte(42 + b*(165-42))
		bl := clampByte(90 + b*(250-90))

		s := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", r, g, bl)))
		out.WriteString(s.Render(string(text[i])))
		if i < n-1 {
			out.WriteString("  ")
		}
	}
	return out.String()
}

func clampByte(v float64) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return int(v)
}

var (
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#60a5fa"))

	positiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ade80"))

	negativeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f87171"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fbbf24"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f87171")).
			Bold(true)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#2a3350")).
			Padding(0, 1)

	cardLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	cardValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3b82f6"))

	inputPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#60a5fa")).
				Bold(true)

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#505868")).
				Italic(true)

	adminMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#93c5fd"))

	customerMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#e4e4ec"))
)

// Badge colors follow the web dashboard's status badges.
var (
	orderStatusColors = map[string]string{
		"pending":    "#facc15",
		"confirmed":  "#60a5fa",
		"processing": "#c084fc",
		"shipped":    "#818cf8",
		"delivered":  "#4ade80",
		"cancelled":  "#f87171",
		"refunded":   "#9ca3af",
	}
	conversationStatusColors = map[string]string{
		"open":        "#60a5fa",
		"in_progress": "#facc15",
		"waiting":     "#fb923c",
		"resolved":    "#4ade80",
		"closed":      "#9ca3af",
	}
	priorityColors = map[string]string{
		"low":    "#9ca3af",
		"medium": "#60a5fa",
		"high":   "#fb923c",
		"urgent": "#f87171",
	}
)

// badge renders status as "In Progress" in the color mapped for it, grey
// when unknown.
func badge(colors map[string]string, status string) string {
	color, ok := colors[strings.ToLower(status)]
	if !ok {
		color = "#9ca3af"
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(statusLabel(status))
}

func orderBadge(status string) string        { return badge(orderStatusColors, status) }
func conversationBadge(status string) string { return badge(conversationStatusColors, status) }
func priorityBadge(priority string) string   { return badge(priorityColors, priority) }

// statusLabel turns "in_progress" into "In Progress".
func statusLabel(status string) string {
	words := strings.Fields(strings.ReplaceAll(status, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// changeStyle colors a period-over-period change.
func changeStyle(pct float64) lipgloss.Style {
	if pct < 0 {
		return negativeStyle
	}
	return positiveStyle
}

func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}
