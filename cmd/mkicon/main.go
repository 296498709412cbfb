// mkicon renders the application icon at every configured size plus the
// 1024 px master, writing app_icon_<size>.png and app_icon.png.
// Usage: go run ./cmd/mkicon [--out dir] [--config path] [--log]
package main

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"runtime"

	"github.com/Mavwarf/appicon/internal/config"
	"github.com/Mavwarf/appicon/internal/console"
	"github.com/Mavwarf/appicon/internal/eventlog"
	"github.com/Mavwarf/appicon/internal/history"
	"github.com/Mavwarf/appicon/internal/icon"
	"github.com/Mavwarf/appicon/internal/paths"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

const toolName = "mkicon"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	out := console.New(stdout)
	outDir := "."
	configPath := ""
	logFlag := false

	// Parse flags
	filtered := args[:0:0]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--out", "-o":
			if i+1 >= len(args) {
				fmt.Fprintf(stderr, "Error: --out requires a directory\n")
				return 1
			}
			outDir = args[i+1]
			i++
		case "--config", "-c":
			if i+1 >= len(args) {
				fmt.Fprintf(stderr, "Error: --config requires a file path\n")
				return 1
			}
			configPath = args[i+1]
			i++
		case "--log", "-L":
			logFlag = true
		default:
			filtered = append(filtered, args[i])
		}
	}

	if len(filtered) > 0 {
		switch filtered[0] {
		case "help", "-h", "--help":
			printUsage(out)
			return 0
		case "version", "-V", "--version":
			out.Line("%s %s (%s) %s/%s", toolName, version, buildDate, runtime.GOOS, runtime.GOARCH)
			return 0
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return 1
	}

	if len(filtered) > 0 {
		if filtered[0] == "history" {
			return history.Run(filtered[1:], cfg, paths.DataDir(), stdout, stderr)
		}
		fmt.Fprintf(stderr, "Error: unknown command %q\n", filtered[0])
		fmt.Fprintf(stderr, "Run 'mkicon help' for usage.\n")
		return 1
	}

	return generate(cfg, outDir, shouldLog(cfg, logFlag), out, stderr)
}

func generate(cfg config.Config, outDir string, logRun bool, out *console.Printer, stderr io.Writer) int {
	out.Line("Creating app icons...")

	assets, err := icon.GenerateSet(outDir, cfg.Options.Sizes, cfg.Options.MasterSize, palette(cfg), func(a icon.Asset) {
		if a.Master {
			out.Done("Created %s (master)", a.Name)
		} else {
			out.Done("Created %s", a.Name)
		}
	})

	if logRun {
		eventlog.Record(cfg, paths.DataDir(), newRun(assets, err))
	}
	if err != nil {
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return 1
	}

	out.Blank()
	out.Line("Icons created successfully!")
	out.Line("Place '%s' in assets/images/ folder", icon.MasterFileName)
	out.Line("Then run: icoconv")
	return 0
}

// shouldLog reports whether this run goes to the run log.
func shouldLog(cfg config.Config, flag bool) bool {
	return flag || cfg.Options.Log
}

func palette(cfg config.Config) icon.Palette {
	return icon.Palette{
		Top:    color.NRGBA(cfg.Palette.Top),
		Bottom: color.NRGBA(cfg.Palette.Bottom),
		Glyph:  color.NRGBA(cfg.Palette.Glyph),
	}
}

func newRun(assets []icon.Asset, err error) eventlog.Run {
	run := eventlog.Run{Tool: toolName, Status: eventlog.StatusOK}
	if err != nil {
		run.Status = eventlog.StatusError
		run.Error = err.Error()
	}
	for _, a := range assets {
		run.Assets = append(run.Assets, eventlog.Asset{
			Name:   a.Name,
			Width:  a.Size,
			Height: a.Size,
			Bytes:  a.Bytes,
			SHA256: a.SHA256,
		})
	}
	return run
}

func printUsage(out *console.Printer) {
	out.Line("%s %s - Generate the application icon set", toolName, version)
	out.Line(`
Usage:
  mkicon [options]
  mkicon history [...]

Options:
  --out, -o <dir>        Output directory (default: current directory)
  --config, -c <path>    Path to appicon-config.json
  --log, -L              Record this run in the run log

Commands:
%s
  version, -V            Show version and build date
  help, -h, --help       Show this help message

Output:
  app_icon_<size>.png    One file per configured size (16 ... 1024)
  app_icon.png           1024 px master, input for icoconv`, history.Usage)
}
