package render

import (
	"fmt"
	"math"
	"strings"

	"watchq/internal/tracker"
)

// Summary lines list statuses in this fixed order.
var summaryOrder = []tracker.JobStatus{
	tracker.Completed,
	tracker.Removed,
	tracker.Idle,
	tracker.Running,
	tracker.Held,
	tracker.Suspended,
}

// SummaryWithTotals builds the "Total: N jobs; ..." line, omitting statuses
// with zero jobs. Status labels shrink from ten characters down to a
// two-character floor until the line fits the width.
func SummaryWithTotals(counts map[tracker.JobStatus]int, total int, width int) string {
	for strip := 10; ; strip-- {
		parts := make([]string, 0, len(summaryOrder))
		for _, s := range summaryOrder {
			if counts[s] == 0 {
				continue
			}
			parts = append(parts, fmt.Sprintf("%d %s", counts[s], shorten(s.Word(), strip)))
		}
		summary := fmt.Sprintf("Total: %d jobs; %s", total, strings.Join(parts, ", "))

		if width <= 0 || len(summary) <= width || strip <= 2 {
			return summary
		}
	}
}

// SummaryWithPercentages builds the percentages form. When too wide for the
// terminal it degrades to single-letter uppercase labels.
func SummaryWithPercentages(counts map[tracker.JobStatus]int, total int, width int) string {
	percentages := make([]int, len(summaryOrder))
	for i, s := range summaryOrder {
		if total > 0 {
			percentages[i] = int(math.Round(100 * float64(counts[s]) / float64(total)))
		}
	}

	summary := percentageLine(total, percentages, func(s tracker.JobStatus) string { return s.Word() })
	if width > 0 && len(summary) > width {
		summary = percentageLine(total, percentages, func(s tracker.JobStatus) string {
			return strings.ToUpper(s.Word()[:1])
		})
	}
	return summary
}

func percentageLine(total int, percentages []int, label func(tracker.JobStatus) string) string {
	parts := make([]string, len(summaryOrder))
	for i, s := range summaryOrder {
		parts[i] = fmt.Sprintf("%d%% %s", percentages[i], label(s))
	}
	return fmt.Sprintf("Total: %d jobs; %s", total, strings.Join(parts, ", "))
}

func shorten(word string, n int) string {
	if n < len(word) {
		return word[:n]
	}
	return word
}
