package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Faint         lipgloss.Style
	Selected      lipgloss.Style
	Highlighted   lipgloss.Style
	Box           lipgloss.Style
	BorderedBox   lipgloss.Style
	RoundedBox    lipgloss.Style
	FocusedBox    lipgloss.Style
	Card          lipgloss.Style
	NavItem       lipgloss.Style
	NavActive     lipgloss.Style
	Button        lipgloss.Style
	ButtonActive  lipgloss.Style
	ButtonBusy    lipgloss.Style
	ProgressEmpty lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusWarning lipgloss.Style
	StatusError   lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusPending lipgloss.Style
	Badge         lipgloss.Style
	Primary       lipgloss.Color
	Secondary     lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
	Foreground    lipgloss.Color
	Background    lipgloss.Color
	Info          lipgloss.Color
	Error         lipgloss.Color
	Warning       lipgloss.Color
	Success       lipgloss.Color
}

type palette struct {
	primary, secondary, success, warning, errorColor, info lipgloss.Color
	background, foreground, subtle, border, muted, surface lipgloss.Color
}

func build(p palette) Theme {
	return Theme{
		Primary:    p.primary,
		Secondary:  p.secondary,
		Success:    p.success,
		Warning:    p.warning,
		Error:      p.errorColor,
		Info:       p.info,
		Background: p.background,
		Foreground: p.foreground,
		Border:     p.border,
		Muted:      p.muted,

		// Text styles
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.foreground).
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().
			Foreground(p.subtle),
		Normal: lipgloss.NewStyle().
			Foreground(p.foreground),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.foreground),
		Faint: lipgloss.NewStyle().
			Foreground(p.muted),
		Selected: lipgloss.NewStyle().
			Background(p.primary).
			Foreground(p.foreground).
			Bold(true),
		Highlighted: lipgloss.NewStyle().
			Background(p.border).
			Foreground(p.foreground),

		// Component styles
		Box: lipgloss.NewStyle().
			Padding(1, 2),
		BorderedBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(p.border).
			Padding(1, 2),
		RoundedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(0, 1),
		FocusedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.primary).
			Padding(0, 1),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(0, 2).
			MarginRight(1),
		NavItem: lipgloss.NewStyle().
			Foreground(p.subtle).
			Padding(0, 2),
		NavActive: lipgloss.NewStyle().
			Foreground(p.foreground).
			Background(p.primary).
			Bold(true).
			Padding(0, 2),
		Button: lipgloss.NewStyle().
			Foreground(p.foreground).
			Background(p.surface).
			Padding(0, 2),
		ButtonActive: lipgloss.NewStyle().
			Foreground(p.foreground).
			Background(p.primary).
			Bold(true).
			Padding(0, 2),
		ButtonBusy: lipgloss.NewStyle().
			Foreground(p.muted).
			Background(p.surface).
			Italic(true).
			Padding(0, 2),
		ProgressEmpty: lipgloss.NewStyle().
			Foreground(p.border),
		Badge: lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1),

		// Status styles
		StatusSuccess: lipgloss.NewStyle().
			Foreground(p.success).
			Bold(true),
		StatusWarning: lipgloss.NewStyle().
			Foreground(p.warning).
			Bold(true),
		StatusError: lipgloss.NewStyle().
			Foreground(p.errorColor).
			Bold(true),
		StatusInfo: lipgloss.NewStyle().
			Foreground(p.info).
			Bold(true),
		StatusPending: lipgloss.NewStyle().
			Foreground(p.muted).
			Italic(true),
	}
}

// Default is the default theme.
var Default = build(palette{
	primary:    lipgloss.Color("#7c3aed"),
	secondary:  lipgloss.Color("#a78bfa"),
	success:    lipgloss.Color("#10b981"),
	warning:    lipgloss.Color("#f59e0b"),
	errorColor: lipgloss.Color("#ef4444"),
	info:       lipgloss.Color("#3b82f6"),
	background: lipgloss.Color("#1a1a1a"),
	foreground: lipgloss.Color("#fafafa"),
	subtle:     lipgloss.Color("#a3a3a3"),
	border:     lipgloss.Color("#404040"),
	muted:      lipgloss.Color("#737373"),
	surface:    lipgloss.Color("#262626"),
})

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = build(palette{
	primary:    lipgloss.Color("#cba6f7"),
	secondary:  lipgloss.Color("#f5c2e7"),
	success:    lipgloss.Color("#a6e3a1"),
	warning:    lipgloss.Color("#f9e2af"),
	errorColor: lipgloss.Color("#f38ba8"),
	info:       lipgloss.Color("#89dceb"),
	background: lipgloss.Color("#1e1e2e"),
	foreground: lipgloss.Color("#cdd6f4"),
	subtle:     lipgloss.Color("#a6adc8"),
	border:     lipgloss.Color("#45475a"),
	muted:      lipgloss.Color("#6c7086"),
	surface:    lipgloss.Color("#313244"),
})

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin-mocha":
		return CatppuccinMocha
	default:
		return Default
	}
}

// Tone is the semantic color of a value.
type Tone int

// Tones from neutral to bad.
const (
	ToneNeutral Tone = iota
	ToneGood
	ToneWarn
	ToneBad
)

// Color returns the foreground color for tone.
func (t Theme) Color(tone Tone) lipgloss.Color {
	switch tone {
	case ToneGood:
		return t.Success
	case ToneWarn:
		return t.Warning
	case ToneBad:
		return t.Error
	default:
		return t.Muted
	}
}

// Text returns a bold text style in the color of tone.
func (t Theme) Text(tone Tone) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Color(tone)).Bold(tone != ToneNeutral)
}

// BadgeStyle returns a filled badge in the color of tone.
func (t Theme) BadgeStyle(tone Tone) lipgloss.Style {
	return t.Badge.Background(t.Color(tone)).Foreground(t.Background)
}
