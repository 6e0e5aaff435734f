package mrapps

import (
	"fmt"
	"strings"
	"time"
)

const timestampLayout = "02 Jan 2006 15:04:05"

// FormatTimestamp renders t in UTC as DD MON YYYY HH:MM:SS.
func FormatTimestamp(t time.Time) string {
	return strings.ToUpper(t.UTC().Format(timestampLayout))
}

// FormatElapsed renders secs as HH:MM:SS. Hours keep counting past 24.
func FormatElapsed(secs int64) string {
	sign := ""
	if secs < 0 {
		sign = "-"
		secs = -secs
	}
	return fmt.Sprintf("%s%02d:%02d:%02d", sign, secs/3600, secs/60%60, secs%60)
}
