package cli

import (
	"fmt"
	"time"
)

// FormatDuration renders d as "850ms", "4.2s", "3m5.0s" or "1h2m3s".
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		mins := int(d / time.Minute)
		secs := (d - time.Duration(mins)*time.Minute).Seconds()
		return fmt.Sprintf("%dm%.1fs", mins, secs)
	}
	return d.Truncate(time.Second).String()
}

// FormatBytes renders a byte count with a binary unit.
func FormatBytes(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)
	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/KB)
	}
	return fmt.Sprintf("%d B", bytes)
}
