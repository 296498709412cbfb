// Package history implements the "history" subcommand shared by mkicon and
// icoconv: it reads back the run log written when logging is enabled.
package history

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Mavwarf/appicon/internal/config"
	"github.com/Mavwarf/appicon/internal/eventlog"
)

// Usage is the help text for the history subcommand.
const Usage = `  history [count]        Show the last runs (default 10)
  history summary [days] Runs per tool and day (default 7, "all" for everything)
  history clean <days>   Drop runs older than the given number of days
  history clear          Delete the run log`

// Run executes the history subcommand against the store configured in cfg,
// located in dir. It returns the process exit code.
func Run(args []string, cfg config.Config, dir string, stdout, stderr io.Writer) int {
	store, err := eventlog.Open(cfg, dir)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer store.Close()

	if len(args) > 0 {
		switch args[0] {
		case "summary":
			return summary(store, args[1:], stdout, stderr)
		case "clean":
			return clean(store, args[1:], stdout, stderr)
		case "clear":
			if err := store.Clear(); err != nil {
				fmt.Fprintf(stderr, "Error: %v\n", err)
				return 1
			}
			fmt.Fprintf(stdout, "Cleared %s\n", store.Path())
			return 0
		}
	}

	count := 10
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			fmt.Fprintf(stderr, "Error: count must be a positive integer\n")
			return 1
		}
		count = n
	}

	content, err := store.ReadContent()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	blocks := eventlog.SplitBlocks(content)
	if len(blocks) == 0 {
		fmt.Fprintln(stdout, `No runs recorded. Enable logging with --log or "log": true in config.`)
		return 0
	}
	if len(blocks) > count {
		blocks = blocks[len(blocks)-count:]
	}
	fmt.Fprintln(stdout, strings.Join(blocks, "\n\n"))
	return 0
}

func summary(store eventlog.Store, args []string, stdout, stderr io.Writer) int {
	days := 7
	if len(args) > 0 {
		if args[0] == "all" {
			days = 0
		} else {
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				fmt.Fprintf(stderr, "Error: days must be a positive integer or \"all\"\n")
				return 1
			}
			days = n
		}
	}

	entries, err := store.Entries(days)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	eventlog.WriteSummary(stdout, eventlog.SummarizeByDay(entries, days))
	return 0
}

func clean(store eventlog.Store, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintf(stderr, "Error: history clean requires a number of days\n")
		return 1
	}
	days, err := strconv.Atoi(args[0])
	if err != nil || days <= 0 {
		fmt.Fprintf(stderr, "Error: days must be a positive integer\n")
		return 1
	}
	removed, err := store.Clean(days)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "Removed %d run(s) older than %d day(s).\n", removed, days)
	return 0
}
