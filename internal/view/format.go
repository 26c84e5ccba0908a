package view

import "fmt"

// FormatElapsed renders seconds as h:mm:ss. Negative values render as zero.
func FormatElapsed(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d:%02d", seconds/3600, seconds/60%60, seconds%60)
}
