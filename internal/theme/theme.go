package theme

import "github.com/charmbracelet/lipgloss"

// DarkClass is the body class that selects the dark palette.
const DarkClass = "dark"

// Color pairs (dark value, light value). The pair is resolved explicitly
// from the body class rather than from the terminal background.
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// Styles is the full set of styles for one palette.
type Styles struct {
	Dark bool

	Header       lipgloss.Style
	StatusBar    lipgloss.Style
	Panel        lipgloss.Style
	ListItem     lipgloss.Style
	SelectedItem lipgloss.Style
	Help         lipgloss.Style
	Dimmed       lipgloss.Style
	Overdue      lipgloss.Style
	DueDate      lipgloss.Style
	Title        lipgloss.Style

	Timer        lipgloss.Style
	TimerRunning lipgloss.Style
	TimerExpired lipgloss.Style

	Toast         lipgloss.Style
	ToastEntering lipgloss.Style
	ToastLeaving  lipgloss.Style
}

// New builds the styles for the dark or light palette.
func New(dark bool) Styles {
	c := func(pair lipgloss.AdaptiveColor) lipgloss.Color {
		if dark {
			return lipgloss.Color(pair.Dark)
		}
		return lipgloss.Color(pair.Light)
	}

	toast := lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(c(ColorBlue)).
		Foreground(c(ColorWhite))

	return Styles{
		Dark: dark,

		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(c(ColorWhite)).
			Background(c(ColorBlue)).
			Padding(0, 1),

		StatusBar: lipgloss.NewStyle().
			Foreground(c(ColorWhite)).
			Background(c(ColorSubtle)).
			Padding(0, 1),

		Panel: lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c(ColorBorder)),

		ListItem: lipgloss.NewStyle().
			PaddingLeft(2),

		SelectedItem: lipgloss.NewStyle().
			PaddingLeft(1).
			Bold(true).
			Foreground(c(ColorBlue)).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(c(ColorBlue)),

		Help: lipgloss.NewStyle().
			Foreground(c(ColorGray)).
			Italic(true),

		Dimmed: lipgloss.NewStyle().
			Foreground(c(ColorGray)).
			Strikethrough(true),

		Overdue: lipgloss.NewStyle().
			Bold(true).
			Foreground(c(ColorRed)),

		DueDate: lipgloss.NewStyle().
			Foreground(c(ColorOrange)),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(c(ColorWhite)).
			MarginBottom(1),

		Timer: lipgloss.NewStyle().
			Bold(true).
			Foreground(c(ColorGray)).
			Padding(0, 1),

		TimerRunning: lipgloss.NewStyle().
			Bold(true).
			Foreground(c(ColorGreen)).
			Padding(0, 1),

		TimerExpired: lipgloss.NewStyle().
			Bold(true).
			Foreground(c(ColorRed)).
			Padding(0, 1),

		Toast: toast,

		ToastEntering: toast.
			Faint(true).
			BorderForeground(c(ColorSubtle)),

		ToastLeaving: toast.
			Faint(true).
			Foreground(c(ColorGray)).
			BorderForeground(c(ColorSubtle)),
	}
}

// StatusStyle returns a color-coded style for the given task status.
func (s Styles) StatusStyle(status string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch status {
	case "todo":
		return base.Foreground(s.pick(ColorBlue))
	case "in_progress":
		return base.Foreground(s.pick(ColorYellow))
	case "done":
		return base.Foreground(s.pick(ColorGreen))
	default:
		return base.Foreground(s.pick(ColorGray))
	}
}

// PriorityStyle returns a color-coded style for the given task priority.
func (s Styles) PriorityStyle(priority string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch priority {
	case "high":
		return base.Foreground(s.pick(ColorRed))
	case "medium":
		return base.Foreground(s.pick(ColorYellow))
	case "low":
		return base.Foreground(s.pick(ColorBlue))
	default:
		return base.Foreground(s.pick(ColorGray))
	}
}

// Accent returns a bold style in the magenta accent color.
func (s Styles) Accent() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(s.pick(ColorMagenta))
}

func (s Styles) pick(pair lipgloss.AdaptiveColor) lipgloss.Color {
	if s.Dark {
		return lipgloss.Color(pair.Dark)
	}
	return lipgloss.Color(pair.Light)
}
