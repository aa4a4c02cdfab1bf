package ui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	runewidth "github.com/mattn/go-runewidth"
)

// displayWidth is the number of terminal cells s occupies, ignoring color
// codes.
func displayWidth(s string) int {
	return runewidth.StringWidth(ansi.Strip(s))
}

func padRight(s string, width int) string {
	if w := displayWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func columnWidths(headers []string, rows [][]string) []int {
	ncols := len(headers)
	for _, r := range rows {
		if len(r) > ncols {
			ncols = len(r)
		}
	}
	widths := make([]int, ncols)
	measure := func(cells []string) {
		for i, c := range cells {
			if w := displayWidth(c); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(headers)
	for _, r := range rows {
		measure(r)
	}
	return widths
}

// renderTable draws headers and rows inside box drawing borders. border
// decorates the border characters, e.g. to dim them.
func renderTable(headers []string, rows [][]string, border func(string) string) []string {
	widths := columnWidths(headers, rows)
	if len(widths) == 0 {
		return nil
	}

	rule := func(left, mid, right string) string {
		parts := make([]string, len(widths))
		for i, w := range widths {
			parts[i] = strings.Repeat("─", w+2)
		}
		return border(left + strings.Join(parts, mid) + right)
	}
	row := func(cells []string) string {
		parts := make([]string, len(widths))
		for i, w := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			parts[i] = " " + padRight(cell, w) + " "
		}
		bar := border("│")
		return bar + strings.Join(parts, bar) + bar
	}

	lines := []string{rule("┌", "┬", "┐")}
	if len(headers) > 0 {
		lines = append(lines, row(headers), rule("├", "┼", "┤"))
	}
	for _, r := range rows {
		lines = append(lines, row(r))
	}
	return append(lines, rule("└", "┴", "┘"))
}

func renderKeyValue(rows [][2]string) []string {
	labelWidth := 0
	for _, r := range rows {
		if w := displayWidth(r[0]); w > labelWidth {
			labelWidth = w
		}
	}
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, padRight(r[0], labelWidth)+"  "+r[1])
	}
	return lines
}

func renderSection(title string, width int) string {
	titled := " " + title + " "
	bars := width - displayWidth(titled)
	if bars < 6 {
		bars = 6
	}
	return strings.Repeat("=", bars/2) + titled + strings.Repeat("=", bars-bars/2)
}
