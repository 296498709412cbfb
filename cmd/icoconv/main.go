// icoconv converts the master PNG icon into the multi-resolution ICO file
// used by the Windows installer.
// Usage: go run ./cmd/icoconv [--src path] [--dst path] [--config path] [--log]
package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/Mavwarf/appicon/internal/config"
	"github.com/Mavwarf/appicon/internal/console"
	"github.com/Mavwarf/appicon/internal/convert"
	"github.com/Mavwarf/appicon/internal/eventlog"
	"github.com/Mavwarf/appicon/internal/history"
	"github.com/Mavwarf/appicon/internal/ico"
	"github.com/Mavwarf/appicon/internal/paths"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

const toolName = "icoconv"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	out := console.New(stdout)
	src := convert.SourcePath
	dst := convert.OutputPath
	configPath := ""
	inspectPath := ""
	logFlag := false

	// Parse flags
	filtered := args[:0:0]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--src", "-s", "--dst", "-d", "--config", "-c", "--inspect", "-i":
			if i+1 >= len(args) {
				fmt.Fprintf(stderr, "Error: %s requires a file path\n", args[i])
				return 1
			}
			switch args[i] {
			case "--src", "-s":
				src = args[i+1]
			case "--dst", "-d":
				dst = args[i+1]
			case "--config", "-c":
				configPath = args[i+1]
			default:
				inspectPath = args[i+1]
			}
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

	if inspectPath != "" {
		return inspect(inspectPath, out, stderr)
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
		fmt.Fprintf(stderr, "Run 'icoconv help' for usage.\n")
		return 1
	}

	return convertIcon(cfg, src, dst, logFlag || cfg.Options.Log, out, stderr)
}

func convertIcon(cfg config.Config, src, dst string, logRun bool, out *console.Printer, stderr io.Writer) int {
	out.Line("Converting PNG to ICO format for installer...")

	var created *convert.Step
	err := convert.Convert(src, dst, convert.SizesFromInts(cfg.Options.ICOSizes), func(s convert.Step) {
		switch s.Kind {
		case convert.StepLoaded:
			out.Done("Loaded %s", s.Path)
		case convert.StepCreated:
			created = &s
			out.Done("Created %s", s.Path)
			out.Blank()
			out.Line("ICO sizes included:")
			for _, sz := range s.Sizes {
				out.Item("%dx%d pixels", sz.X, sz.Y)
			}
		}
	})

	if logRun {
		eventlog.Record(cfg, paths.DataDir(), newRun(dst, created, err))
	}

	switch {
	case errors.Is(err, convert.ErrSourceMissing):
		fmt.Fprintf(stderr, "ERROR: %s not found!\n", src)
		fmt.Fprintf(stderr, "Please run mkicon first to generate the icon.\n")
		return 1
	case errors.Is(err, convert.ErrUnsupportedFormat):
		fmt.Fprintf(stderr, "ERROR: %s is not a supported image.\n", src)
		fmt.Fprintf(stderr, "Supported formats are PNG, JPEG and GIF. Regenerate it with mkicon.\n")
		return 1
	case err != nil:
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return 1
	}

	out.Blank()
	out.Done("Icon conversion complete!")
	out.Line("The ICO file is ready for use in the installer.")
	return 0
}

func newRun(dst string, created *convert.Step, err error) eventlog.Run {
	run := eventlog.Run{Tool: toolName, Status: eventlog.StatusOK}
	if err != nil {
		run.Status = eventlog.StatusError
		run.Error = err.Error()
	}
	if created != nil {
		// One asset per embedded image; the container size goes on the first.
		for i, sz := range created.Sizes {
			a := eventlog.Asset{Name: dst, Width: sz.X, Height: sz.Y}
			if i == 0 {
				a.Bytes = created.Bytes
			}
			run.Assets = append(run.Assets, a)
		}
	}
	return run
}

// inspect lists the directory entries of an existing ICO file.
func inspect(path string, out *console.Printer, stderr io.Writer) int {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return 1
	}
	entries, err := ico.ReadDir(bytes.NewReader(data))
	if err != nil {
		fmt.Fprintf(stderr, "ERROR: %s: %v\n", path, err)
		return 1
	}
	out.Line("%s: %d image(s), %d bytes", path, len(entries), len(data))
	for _, e := range entries {
		out.Item("%dx%d pixels, %d bpp, %d bytes at offset %d", e.Width, e.Height, e.BitCount, e.Size, e.Offset)
	}
	return 0
}

func printUsage(out *console.Printer) {
	out.Line("%s %s - Convert the master PNG icon to ICO", toolName, version)
	out.Line(`
Usage:
  icoconv [options]
  icoconv --inspect <file.ico>
  icoconv history [...]

Options:
  --src, -s <path>       Source image (default: %s)
  --dst, -d <path>       Output ICO file (default: %s)
  --config, -c <path>    Path to appicon-config.json
  --inspect, -i <path>   List the images inside an ICO file
  --log, -L              Record this run in the run log

Commands:
%s
  version, -V            Show version and build date
  help, -h, --help       Show this help message`, convert.SourcePath, convert.OutputPath, history.Usage)
}
