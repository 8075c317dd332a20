package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/nkoval/newsdeck/internal/config"
)

const AppName = "newsdeck"

// ASCII art logo lines for newsdeck - canonical definition
var LogoLines = []string{
	"█▄ █ ██▀ █   █ ▄▀▀ █▀▄ ██▀ ▄▀▀ █▄▀",
	"█ ▀█ █▄▄ ▀▄█▄▀ ▄██ █▄▀ █▄▄ ▀▄▄ █ █",
}

const CompactLogo = `newsdeck ›`

// Banner gradient colors
var BannerColors = []lipgloss.Color{
	lipgloss.Color("#FF6B6B"),
	lipgloss.Color("#FFA86B"),
	lipgloss.Color("#95E1D3"),
	lipgloss.Color("#4ECDC4"),
}

// Styles bundles every lipgloss style the TUI uses, derived from one
// palette so the whole surface flips together on a theme toggle.
type Styles struct {
	PrimaryColor   lipgloss.Color
	SecondaryColor lipgloss.Color
	AccentColor    lipgloss.Color
	TextColor      lipgloss.Color
	MutedColor     lipgloss.Color
	ErrorColor     lipgloss.Color
	SuccessColor   lipgloss.Color

	Logo         lipgloss.Style
	Title        lipgloss.Style
	Header       lipgloss.Style
	StatusBar    lipgloss.Style
	Bookmarked   lipgloss.Style
	SourceName   lipgloss.Style
	Help         lipgloss.Style
	Time         lipgloss.Style
	Muted        lipgloss.Style
	ErrorMessage lipgloss.Style
	Success      lipgloss.Style
	Separator    lipgloss.Style
	CategoryTab  lipgloss.Style
	ActiveTab    lipgloss.Style
}

func NewStyles(p config.Palette) Styles {
	primary := lipgloss.Color(p.Primary)
	secondary := lipgloss.Color(p.Secondary)
	accent := lipgloss.Color(p.Accent)
	surface := lipgloss.Color(p.Surface)
	text := lipgloss.Color(p.Text)
	muted := lipgloss.Color(p.Muted)
	errColor := lipgloss.Color(p.Error)
	success := lipgloss.Color(p.Success)

	return Styles{
		PrimaryColor:   primary,
		SecondaryColor: secondary,
		AccentColor:    accent,
		TextColor:      text,
		MutedColor:     muted,
		ErrorColor:     errColor,
		SuccessColor:   success,

		Logo: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true),
		Title: lipgloss.NewStyle().
			Foreground(text).
			Background(surface).
			Bold(true).
			Padding(0, 2),
		Header: lipgloss.NewStyle().
			Foreground(secondary).
			Bold(true),
		StatusBar: lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 1),
		Bookmarked: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true),
		SourceName: lipgloss.NewStyle().
			Foreground(secondary),
		Help: lipgloss.NewStyle().
			Foreground(muted).
			Italic(true),
		Time: lipgloss.NewStyle().
			Foreground(muted).
			Faint(true),
		Muted: lipgloss.NewStyle().
			Foreground(muted),
		ErrorMessage: lipgloss.NewStyle().
			Foreground(errColor).
			Bold(true),
		Success: lipgloss.NewStyle().
			Foreground(success),
		Separator: lipgloss.NewStyle().
			Foreground(muted),
		CategoryTab: lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().
			Foreground(text).
			Background(surface).
			Bold(true).
			Padding(0, 1),
	}
}

func GetWelcomeMessage(s Styles) string {
	return GetCompactBanner(s, "Fetching headlines…")
}

func GetCompactBanner(s Styles, message string) string {
	var coloredLines []string
	for _, line := range LogoLines {
		coloredLines = append(coloredLines, s.Logo.Render(line))
	}

	logo := lipgloss.JoinVertical(lipgloss.Center, coloredLines...)

	return lipgloss.JoinVertical(
		lipgloss.Center,
		logo,
		"",
		s.Help.Render(message),
	)
}

func ShowBanner(version string) {
	lines := make([]string, len(LogoLines)+1)
	copy(lines, LogoLines)
	lines[len(LogoLines)] = ""

	versionTag := version
	if versionTag != "" && versionTag != "dev" {
		if versionTag[0] != 'v' && versionTag[0] != 'V' {
			versionTag = "v" + versionTag
		}
		lines = append(lines, fmt.Sprintf("    Terminal News Dashboard %s", versionTag))
	} else {
		lines = append(lines, "    Terminal News Dashboard")
	}

	var coloredLines []string
	for i, line := range lines {
		if line == "" {
			coloredLines = append(coloredLines, line)
			continue
		}

		colorIdx := i % len(BannerColors)
		style := lipgloss.NewStyle().
			Foreground(BannerColors[colorIdx]).
			Bold(i < len(LogoLines))

		coloredLines = append(coloredLines, style.Render(line))
	}

	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(lipgloss.Color("#4ECDC4")).
		Padding(1, 3).
		MarginTop(1)

	banner := lipgloss.JoinVertical(lipgloss.Center, coloredLines...)
	output := borderStyle.Render(banner)

	fmt.Println(lipgloss.NewStyle().
		Width(70).
		Align(lipgloss.Center).
		Render(output))
}
