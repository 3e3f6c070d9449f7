package leave

import (
	"fmt"
	"time"
)

// FinancialYearLabels lists every label a balance row for the financial year
// containing now may have been stored under. Financial years run April to
// March. Labels for the year now falls in come first, followed by the labels
// of the neighbouring start year so rows written near the boundary still match.
func FinancialYearLabels(now time.Time) []string {
	current := financialYearStart(now)
	other := current - 1
	if now.Month() < time.April {
		other = current + 1
	}

	seen := make(map[string]struct{}, 18)
	labels := make([]string, 0, 18)
	for _, start := range []int{current, other} {
		for _, l := range financialYearFormats(start) {
			if _, ok := seen[l]; ok {
				continue
			}
			seen[l] = struct{}{}
			labels = append(labels, l)
		}
	}
	return labels
}

func financialYearStart(now time.Time) int {
	if now.Month() < time.April {
		return now.Year() - 1
	}
	return now.Year()
}

func financialYearFormats(start int) []string {
	end := start + 1
	plain := []string{
		fmt.Sprintf("%d", start),
		fmt.Sprintf("%d-%d", start, end),
		fmt.Sprintf("%d-%02d", start, end%100),
	}

	out := make([]string, 0, len(plain)*3)
	out = append(out, plain...)
	for _, p := range plain {
		out = append(out, "FY"+p)
	}
	for _, p := range plain {
		out = append(out, "FY "+p)
	}
	return out
}
