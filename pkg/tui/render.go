// Package tui renders comparison results for the terminal.
// Simple streaming output, no interactive widgets.
package tui

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/procdiff/procdiff/pkg/comparator"
)

// Colors (Swiss minimal)
var (
	accent  = lipgloss.Color("#FF0000")
	muted   = lipgloss.Color("#666666")
	success = lipgloss.Color("#00CC66")
	white   = lipgloss.Color("#FFFFFF")
)

// Styles
var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(white)
	accentStyle  = lipgloss.NewStyle().Foreground(accent).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(muted)
	successStyle = lipgloss.NewStyle().Foreground(success).Bold(true)
)

// RenderResult formats a comparison result as a terminal report, including
// a sparkline histogram of the null distribution with the observed
// statistic marked.
func RenderResult(name string, res *comparator.Result, alpha float64) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("▸ "+name) + "\n")
	sb.WriteString(mutedStyle.Render(fmt.Sprintf("  run %s, %d iterations, %s",
		res.RunID, res.Iterations, res.Elapsed.Round(1000000))) + "\n\n")

	sb.WriteString(fmt.Sprintf("  observed statistic  %s\n", titleStyle.Render(fmt.Sprintf("%.6f", res.Observed))))

	pv := fmt.Sprintf("%.6f", res.PValue)
	if res.PValue <= alpha {
		sb.WriteString(fmt.Sprintf("  p-value             %s  %s\n",
			accentStyle.Render(pv),
			accentStyle.Render(fmt.Sprintf("✗ reject H0 at α=%.2g", alpha))))
	} else {
		sb.WriteString(fmt.Sprintf("  p-value             %s  %s\n",
			successStyle.Render(pv),
			successStyle.Render(fmt.Sprintf("✓ cannot reject H0 at α=%.2g", alpha))))
	}

	if len(res.Null) > 0 {
		sb.WriteString("\n" + mutedStyle.Render("  null distribution") + "\n")
		sb.WriteString("  " + sparkline(res.Null, res.Observed) + "\n")
		sb.WriteString("  " + mutedStyle.Render(nullSummary(res.Null)) + "\n")
	}

	return sb.String()
}

var sparks = []rune("▁▂▃▄▅▆▇█")

// sparkline renders a 40-bucket histogram of the null distribution; the
// bucket containing the observed value is highlighted.
func sparkline(null []float64, observed float64) string {
	const buckets = 40

	lo, hi := null[0], null[0]
	for _, v := range null {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if observed < lo {
		lo = observed
	}
	if observed > hi {
		hi = observed
	}
	if hi == lo {
		hi = lo + 1
	}

	counts := make([]int, buckets)
	max := 0
	for _, v := range null {
		b := bucket(v, lo, hi, buckets)
		counts[b]++
		if counts[b] > max {
			max = counts[b]
		}
	}

	obs := bucket(observed, lo, hi, buckets)
	var sb strings.Builder
	for b, c := range counts {
		lvl := 0
		if c > 0 {
			lvl = 1 + int(float64(len(sparks)-2)*float64(c)/float64(max))
		}
		ch := string(sparks[lvl])
		if b == obs {
			ch = accentStyle.Render(ch)
		}
		sb.WriteString(ch)
	}
	return sb.String()
}

func bucket(v, lo, hi float64, buckets int) int {
	b := int(float64(buckets) * (v - lo) / (hi - lo))
	if b >= buckets {
		b = buckets - 1
	}
	if b < 0 {
		b = 0
	}
	return b
}

func nullSummary(null []float64) string {
	sorted := make([]float64, len(null))
	copy(sorted, null)
	sort.Float64s(sorted)

	mean := 0.0
	for _, v := range sorted {
		mean += v
	}
	mean /= float64(len(sorted))

	variance := 0.0
	for _, v := range sorted {
		variance += (v - mean) * (v - mean)
	}
	sd := math.Sqrt(variance / float64(len(sorted)))

	return fmt.Sprintf("min %.4f  median %.4f  mean %.4f  sd %.4f  max %.4f",
		sorted[0], sorted[len(sorted)/2], mean, sd, sorted[len(sorted)-1])
}
