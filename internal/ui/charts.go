package ui

import (
	"fmt"
	"io"
	"strings"
)

// defaultBarWidth is the number of cells used by the longest bar
const defaultBarWidth = 30

// Bar is one labelled value in a bar chart
type Bar struct {
	Label string
	Value int
}

// StatCard is one headline number of the dashboard
type StatCard struct {
	Label string
	Value int
}

// RenderBarChart draws a horizontal bar chart. Bars are scaled against the
// largest value; a non-zero value always gets at least one cell.
func RenderBarChart(w io.Writer, title string, bars []Bar) error {
	if _, err := fmt.Fprintf(w, "%s\n", title); err != nil {
		return err
	}

	labelWidth, maxValue := 0, 0
	for _, b := range bars {
		labelWidth = max(labelWidth, len(b.Label))
		maxValue = max(maxValue, b.Value)
	}

	for _, b := range bars {
		cells := 0
		if maxValue > 0 {
			cells = b.Value * defaultBarWidth / maxValue
			if cells == 0 && b.Value > 0 {
				cells = 1
			}
		}
		if _, err := fmt.Fprintf(w, "  %-*s │%s %d\n", labelWidth, b.Label, strings.Repeat("█", cells), b.Value); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// RenderStatCards prints the headline numbers on a single line
func RenderStatCards(w io.Writer, cards []StatCard) error {
	parts := make([]string, 0, len(cards))
	for _, c := range cards {
		parts = append(parts, fmt.Sprintf("%s: %d", c.Label, c.Value))
	}
	_, err := fmt.Fprintf(w, "%s\n\n", strings.Join(parts, "   "))
	return err
}
