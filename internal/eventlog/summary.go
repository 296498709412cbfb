package eventlog

import (
	"fmt"
	"io"
)

// WriteSummary prints day groups as a compact table, newest day first.
func WriteSummary(w io.Writer, groups []DayGroup) {
	if len(groups) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}
	for i, g := range groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, g.Date.Format("2006-01-02 (Mon)"))
		for _, s := range g.Summaries {
			line := fmt.Sprintf("  %-8s %3d runs  %4d assets", s.Tool, s.Runs, s.Assets)
			if s.Failed > 0 {
				line += fmt.Sprintf("  %d failed", s.Failed)
			}
			fmt.Fprintln(w, line)
		}
	}
}
