package eventlog

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Entry is a single parsed run summary.
type Entry struct {
	Time   time.Time
	Tool   string
	Status string
	Assets int
	Error  string
}

// DaySummary holds run counts for one tool on one day.
type DaySummary struct {
	Tool   string
	Runs   int
	Failed int
	Assets int
}

// DayGroup holds all summaries for a single calendar day.
type DayGroup struct {
	Date      time.Time
	Summaries []DaySummary
}

// ParseEntries splits log content on blank lines and parses summary lines
// into entries. Asset detail lines (indented, "asset[") are skipped.
// Malformed lines are silently skipped.
func ParseEntries(content string) []Entry {
	var entries []Entry
	for _, block := range SplitBlocks(content) {
		for _, line := range strings.Split(block, "\n") {
			if strings.Contains(line, "asset[") {
				continue
			}

			ts, ok := ExtractTimestamp(line)
			if !ok {
				continue
			}
			tool := extractField(line, "tool")
			if tool == "" {
				continue
			}

			e := Entry{
				Time:   ts,
				Tool:   tool,
				Status: extractField(line, "status"),
			}
			e.Assets, _ = strconv.Atoi(extractField(line, "assets"))
			if idx := strings.Index(line, "error="); idx >= 0 {
				e.Error = extractQuoted(line[idx+len("error="):])
			}
			entries = append(entries, e)
		}
	}
	return entries
}

// SummarizeByDay filters entries to the last N calendar days (local time),
// groups by date + tool, and returns day groups sorted descending with
// summaries sorted by tool. Pass days=0 to include all entries.
func SummarizeByDay(entries []Entry, days int) []DayGroup {
	now := time.Now()
	var cutoff time.Time
	if days > 0 {
		cutoff = DayCutoff(days)
	}

	type key struct{ date, tool string }
	grouped := map[key]*DaySummary{}
	dates := map[string]time.Time{}

	for _, e := range entries {
		local := e.Time.In(now.Location())
		day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, now.Location())
		if days > 0 && day.Before(cutoff) {
			continue
		}

		ds := day.Format("2006-01-02")
		k := key{date: ds, tool: e.Tool}
		s, ok := grouped[k]
		if !ok {
			s = &DaySummary{Tool: e.Tool}
			grouped[k] = s
			dates[ds] = day
		}
		s.Runs++
		s.Assets += e.Assets
		if e.Status != StatusOK {
			s.Failed++
		}
	}

	dayMap := map[string]*DayGroup{}
	for k, s := range grouped {
		dg, ok := dayMap[k.date]
		if !ok {
			dg = &DayGroup{Date: dates[k.date]}
			dayMap[k.date] = dg
		}
		dg.Summaries = append(dg.Summaries, *s)
	}

	groups := make([]DayGroup, 0, len(dayMap))
	for _, dg := range dayMap {
		sort.Slice(dg.Summaries, func(i, j int) bool {
			return dg.Summaries[i].Tool < dg.Summaries[j].Tool
		})
		groups = append(groups, *dg)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Date.After(groups[j].Date)
	})
	return groups
}

// SplitBlocks splits log content on blank lines, trims whitespace from
// each block, and returns only non-empty blocks.
func SplitBlocks(content string) []string {
	raw := strings.Split(content, "\n\n")
	blocks := make([]string, 0, len(raw))
	for _, b := range raw {
		b = strings.TrimSpace(b)
		if b != "" {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

// FilterBlocksByDays keeps only blocks whose first timestamp falls within
// the last N days. Blocks without a parseable timestamp are dropped.
func FilterBlocksByDays(content string, days int) string {
	cutoff := DayCutoff(days)
	var kept []string
	for _, b := range SplitBlocks(content) {
		first := b
		if i := strings.IndexByte(b, '\n'); i >= 0 {
			first = b[:i]
		}
		ts, ok := ExtractTimestamp(first)
		if !ok || ts.Before(cutoff) {
			continue
		}
		kept = append(kept, b)
	}
	return strings.Join(kept, "\n\n")
}

// DayCutoff returns midnight N days ago (inclusive) in the local timezone.
// For days=1 it returns today at midnight, for days=7 it returns 6 days ago, etc.
func DayCutoff(days int) time.Time {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return today.AddDate(0, 0, -(days - 1))
}

// ExtractTimestamp parses the RFC3339 timestamp at the start of a log line
// (everything before the first "  " double-space separator). Returns the
// parsed time and true on success, or zero time and false on failure.
func ExtractTimestamp(line string) (time.Time, bool) {
	tsEnd := strings.Index(line, "  ")
	if tsEnd < 0 {
		return time.Time{}, false
	}
	ts, err := time.Parse(time.RFC3339, line[:tsEnd])
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// extractField returns the value after "key=" in a space-separated line.
// Returns "" if not found.
func extractField(line, key string) string {
	prefix := key + "="
	for _, field := range strings.Fields(line) {
		if strings.HasPrefix(field, prefix) {
			return field[len(prefix):]
		}
	}
	return ""
}

// extractQuoted extracts a Go %q-encoded string from the start of s.
// It finds the matching closing quote (respecting backslash escapes),
// then uses strconv.Unquote to decode the value. Returns "" on failure.
func extractQuoted(s string) string {
	if len(s) == 0 || s[0] != '"' {
		return ""
	}
	for i := 1; i < len(s); i++ {
		if s[i] == '\\' {
			i++
			continue
		}
		if s[i] == '"' {
			text, err := strconv.Unquote(s[:i+1])
			if err != nil {
				return ""
			}
			return text
		}
	}
	return ""
}
