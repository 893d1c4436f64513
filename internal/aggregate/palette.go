package aggregate

import "github.com/tinytelemetry/secdash/internal/logparse"

// SeverityColors maps canonical severities to chart colors.
var SeverityColors = map[logparse.Severity]string{
	logparse.Critical: "#dc2626",
	logparse.Error:    "#ef4444",
	logparse.Warning:  "#f59e0b",
	logparse.Info:     "#3b82f6",
}

// EventColors is the positional fallback palette.
var EventColors = []string{"#9b87f5", "#7E69AB", "#6E59A5", "#F2FCE2", "#FEF7CD", "#FEC6A1"}

// HeatmapColors is the five-step intensity scale, lowest first.
var HeatmapColors = []string{"#EBEDF0", "#9BE9A8", "#40C463", "#30A14E", "#216E39"}

// WeekdayNames are indexed by time.Weekday (0=Sunday).
var WeekdayNames = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// SeverityColor returns the color for a folded severity key, falling back
// to the positional palette at index for anything non-canonical.
func SeverityColor(key string, index int) string {
	if c, ok := SeverityColors[logparse.Severity(key)]; ok {
		return c
	}
	return EventColor(index)
}

// EventColor returns the positional palette entry for index.
func EventColor(index int) string {
	if index < 0 {
		index = -index
	}
	return EventColors[index%len(EventColors)]
}

// HeatmapBucket maps value onto 0..len(HeatmapColors)-1 relative to max.
func HeatmapBucket(value, max int64) int {
	if max <= 0 || value <= 0 {
		return 0
	}
	n := int64(len(HeatmapColors))
	b := value * n / max
	if b > n-1 {
		b = n - 1
	}
	return int(b)
}

// HeatmapColor returns the intensity color for value relative to max.
func HeatmapColor(value, max int64) string {
	return HeatmapColors[HeatmapBucket(value, max)]
}
