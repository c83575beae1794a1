package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/bowmanhq/bowman/pkg/aim"
)

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleHeader  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleReached    = lipgloss.NewStyle().Foreground(colorGreen)
	styleNotReached = lipgloss.NewStyle().Foreground(colorYellow)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+styleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+styleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+styleDim.Render(iconArrow)+" "+styleValue.Render(path))
}

func printKeyValue(w io.Writer, key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(w, keyStyle.Render(key)+" "+styleValue.Render(value))
}

// renderStatus colors an aim status.
func renderStatus(status string) string {
	if status == aim.StatusReached {
		return styleReached.Render(status)
	}
	return styleNotReached.Render(status)
}

// tagTable lays out tag counts as a bordered table.
func tagTable(tags []aim.TagCount) string {
	rows := make([][]string, len(tags))
	for i, tc := range tags {
		rows[i] = []string{tc.Name, strconv.Itoa(tc.Count)}
	}
	return newTable("Tag", "Aims").Rows(rows...).Render()
}

// aimTable lays out aims with their status and tags.
func aimTable(aims []aim.Aim) string {
	rows := make([][]string, len(aims))
	for i, a := range aims {
		rows[i] = []string{a.ID.ID, a.Title, a.Status, joinTags(a.Tags)}
	}
	return newTable("ID", "Title", "Status", "Tags").Rows(rows...).Render()
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleDim).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

// printAim prints one aim as key-value lines.
func printAim(w io.Writer, a *aim.Aim) {
	fmt.Fprintln(w, styleTitle.Render(a.Title))
	printKeyValue(w, "id", a.ID.ID)
	printKeyValue(w, "status", renderStatus(a.Status))
	if a.StatusNote != "" {
		printKeyValue(w, "note", a.StatusNote)
	}
	if len(a.Tags) > 0 {
		printKeyValue(w, "tags", joinTags(a.Tags))
	}
	printKeyValue(w, "effort", strconv.FormatFloat(a.Effort(), 'g', -1, 64))
	if a.Description != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, a.Description)
	}
}

func joinTags(tags []string) string {
	return strings.Join(tags, ", ")
}
