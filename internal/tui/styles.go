package tui

import "github.com/charmbracelet/lipgloss"

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("#6366F1") // Indigo
	colorSecondary = lipgloss.Color("#94A3B8") // Slate
	colorMuted     = lipgloss.Color("#475569") // Darker slate
	colorHighlight = lipgloss.Color("#FACC15") // Rating yellow
	colorError     = lipgloss.Color("#F87171")
	colorBack      = lipgloss.Color("#7E22CE") // Card back
)

// cardWidth is the outer width of one card, border included.
const cardWidth = 32

// HeaderStyle for the title line.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Padding(1, 1, 0, 1)

// SubtitleStyle for the line under the title.
var SubtitleStyle = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Padding(0, 1, 1, 1)

// InputStyle frames the prompt input.
var InputStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorMuted).
	Padding(0, 1)

// FocusedInputStyle frames the prompt input while it has focus.
var FocusedInputStyle = InputStyle.
	BorderForeground(colorPrimary)

// ErrorStyle for the request failure message.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(colorError).
	Bold(true).
	Padding(0, 1)

// HintStyle for the empty-state hint and other muted text.
var HintStyle = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Padding(1, 2)

// CardStyle frames an unfocused card.
var CardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorMuted).
	Width(cardWidth - 2).
	Padding(0, 1)

// FocusedCardStyle frames the card under the cursor.
var FocusedCardStyle = CardStyle.
	BorderForeground(colorPrimary)

// CardBackStyle frames a card showing its rationale.
var CardBackStyle = CardStyle.
	BorderForeground(colorBack)

// CardTitle style for the movie title.
var CardTitle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255"))

// RatingStyle for the star rating.
var RatingStyle = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// MutedText for secondary card lines.
var MutedText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// GenreTag style; the background is set per genre.
var GenreTag = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Padding(0, 1).
	MarginRight(1)

// DialogStyle frames the history dialog.
var DialogStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Padding(1, 2)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// StatusBarKey style for key hints in status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorPrimary).
	Bold(true)
