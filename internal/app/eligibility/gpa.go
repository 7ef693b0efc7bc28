package eligibility

import (
	"strconv"
	"strings"
)

// gpaBreakpoints maps minimum percentage thresholds to GPA labels, highest
// first. Percentages below the lowest threshold map to "1.0".
var gpaBreakpoints = []struct {
	min float64
	gpa string
}{
	{80, "4.0"},
	{75, "3.7"},
	{70, "3.3"},
	{65, "3.0"},
	{60, "2.7"},
	{55, "2.3"},
	{50, "2.0"},
	{45, "1.7"},
	{40, "1.3"},
}

// ConvertPercentageToGPA derives a GPA label from a percentage string.
// Inputs that do not parse or fall outside [0,100] yield ("", false).
func ConvertPercentageToGPA(marksPercentage string) (string, bool) {
	pct, err := strconv.ParseFloat(strings.TrimSpace(marksPercentage), 64)
	if err != nil {
		return "", false
	}
	if pct < 0 || pct > 100 {
		return "", false
	}
	for _, bp := range gpaBreakpoints {
		if pct >= bp.min {
			return bp.gpa, true
		}
	}
	return "1.0", true
}
