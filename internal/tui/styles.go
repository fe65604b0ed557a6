package tui

import "github.com/charmbracelet/lipgloss"

// Semantic color palette.
var (
	colorPrimary     = lipgloss.Color("#00BFFF") // Cyan — primary accent
	colorAccent      = lipgloss.Color("#FFD700") // Gold — attention
	colorSuccess     = lipgloss.Color("#00E676") // Green — loaded
	colorDanger      = lipgloss.Color("#FF5252") // Red — errors
	colorMuted       = lipgloss.Color("#636363") // Gray — de-emphasized
	colorMutedLight  = lipgloss.Color("#8C8C8C") // Lighter gray — normal text
	colorWhite       = lipgloss.Color("#EEEEEE") // Off-white — primary text
	colorSurface     = lipgloss.Color("#1E1E2E") // Dark surface — status bar bg
	colorSurfaceDim  = lipgloss.Color("#181825") // Darkest surface — footer bg
	colorCurve       = lipgloss.Color("#5B8DEF") // Blue — curve dots
	colorCurveAcidic = lipgloss.Color("#FF5252") // Red — acidic region dots
	colorCurveNeutral = lipgloss.Color("#FFD700") // Gold — near-neutral dots
	colorCurveBasic  = lipgloss.Color("#00E676") // Green — basic region dots
)

// Status icons for the worker state.
const (
	iconLoaded  = "✓"
	iconFailed  = "✗"
	iconWaiting = "·"
	iconDead    = "⊘"
)

// Status bar styles — visually dominant with solid background.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(colorSurface).
			Foreground(colorWhite).
			Bold(true).
			Padding(0, 1)

	styleStatusLabel = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	styleStatusValue = lipgloss.NewStyle().
				Foreground(colorWhite)

	styleStatusDead = lipgloss.NewStyle().
			Foreground(colorDanger).
			Bold(true)
)

// Plot styles.
var (
	stylePlotBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)

	stylePlotTitle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	stylePlotAxis = lipgloss.NewStyle().
			Foreground(colorMuted)

	stylePlotDot = lipgloss.NewStyle().
			Foreground(colorCurve)

	stylePlaceholder = lipgloss.NewStyle().
				Foreground(colorMuted).
				Italic(true)
)

// Message styles.
var (
	styleError = lipgloss.NewStyle().
			Foreground(colorDanger).
			Bold(true)

	styleInfo = lipgloss.NewStyle().
			Foreground(colorMutedLight)

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorSuccess)
)

// Footer styles — top border, clear key/desc contrast.
var (
	styleFooter = lipgloss.NewStyle().
			Foreground(colorMuted).
			Background(colorSurfaceDim).
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(colorMuted)

	styleFooterKey = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleFooterSep = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleFooterDesc = lipgloss.NewStyle().
			Foreground(colorMutedLight)
)
