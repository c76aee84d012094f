package logcat

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

var (
	redText    = ansi.Style{}.ForegroundColor(ansi.Red)
	greenText  = ansi.Style{}.ForegroundColor(ansi.Green)
	yellowText = ansi.Style{}.ForegroundColor(ansi.Yellow)
)

// Highlight recolors parts of two well-known diagnostic messages without
// changing their visible text: StrictMode violation durations, and (when gc
// is set) legacy dalvik GC statistics.
func (r *Registry) Highlight(message string, gc bool) string {
	message = replaceFirst(r.strictMode, message, func(g []string) string {
		return g[1] + redText.Styled(g[2]) + yellowText.Styled(g[3])
	})
	if gc {
		message = replaceFirst(r.gcStats, message, func(g []string) string {
			return g[1] + greenText.Styled(g[2]) + g[3] + yellowText.Styled(g[4])
		})
	}
	return message
}

// replaceFirst rewrites the leftmost match of re in s using its capture groups.
func replaceFirst(re *regexp.Regexp, s string, fn func(groups []string) string) string {
	loc := re.FindStringSubmatchIndex(s)
	if loc == nil {
		return s
	}
	groups := make([]string, len(loc)/2)
	for i := range groups {
		if loc[2*i] >= 0 {
			groups[i] = s[loc[2*i]:loc[2*i+1]]
		}
	}
	var b strings.Builder
	b.WriteString(s[:loc[0]])
	b.WriteString(fn(groups))
	b.WriteString(s[loc[1]:])
	return b.String()
}
