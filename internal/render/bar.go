package render

import (
	"strings"

	"watchq/internal/tracker"
)

// ProgressBar renders a segmented bar summing exactly to the target width.
// Fractions truncate to whole characters; the leftover columns from that
// truncation all go to the largest segment so the bar never comes up short.
func ProgressBar(counts map[tracker.JobStatus]int, total int, width int, color bool) string {
	if width > 79 {
		width = 79
	}
	width -= 2 // the wrapping brackets
	if width < 0 {
		// A terminal too narrow for the brackets still gets an empty pair.
		width = 0
	}

	lengths := make([]int, len(barOrder))
	used := 0
	for i, s := range barOrder {
		if total > 0 {
			lengths[i] = width * counts[s] / total
		}
		used += lengths[i]
	}
	lengths[argmax(lengths)] += width - used

	var b strings.Builder
	b.WriteByte('[')
	for i, s := range barOrder {
		seg := strings.Repeat(barGlyphs[s], lengths[i])
		if color && seg != "" {
			seg = barStyles[s].Render(seg)
		}
		b.WriteString(seg)
	}
	b.WriteByte(']')
	return b.String()
}

func argmax(v []int) int {
	best := 0
	for i, n := range v {
		if n > v[best] {
			best = i
		}
	}
	return best
}
