package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/Mavwarf/appicon/internal/paths"
)

// DefaultMasterSize is the resolution of the canonical app_icon.png.
const DefaultMasterSize = 1024

// Storage backends for the run log.
const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
)

// DefaultSizes lists the PNG sizes mkicon writes besides the master.
var DefaultSizes = []int{16, 32, 48, 64, 128, 256, 512, 1024}

// DefaultICOSizes lists the resolutions embedded in the installer icon.
var DefaultICOSizes = []int{16, 32, 48, 256}

// Brand colors used when the config does not override them.
var (
	DefaultTop    = Color{R: 33, G: 150, B: 243, A: 255}
	DefaultBottom = Color{R: 156, G: 39, B: 176, A: 255}
	DefaultGlyph  = Color{R: 255, G: 255, B: 255, A: 255}
)

// Color is a non-premultiplied color written in JSON as "#rrggbb" or
// "#rrggbbaa".
type Color color.NRGBA

// String formats c as "#rrggbbaa".
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Color) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseColor(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseColor parses "#rrggbb" or "#rrggbbaa". The leading '#' is optional;
// alpha defaults to 255.
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, fmt.Errorf("invalid color %q: want #rrggbb or #rrggbbaa", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	return Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// Palette holds the brand colors of the generated icon.
type Palette struct {
	Top    Color `json:"top"`
	Bottom Color `json:"bottom"`
	Glyph  Color `json:"glyph"`
}

// Options holds tool settings parsed from the "config" key.
type Options struct {
	Sizes      []int  `json:"sizes,omitempty"`
	MasterSize int    `json:"master_size,omitempty"`
	ICOSizes   []int  `json:"ico_sizes,omitempty"`
	Log        bool   `json:"log,omitempty"`
	Storage    string `json:"storage,omitempty"` // "file" | "sqlite"
}

// Config holds the top-level configuration: tool options and palette.
type Config struct {
	Options Options `json:"config"`
	Palette Palette `json:"palette"`
}

// Default returns the configuration used when no config file exists.
func Default() Config {
	var c Config
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	c.Options.Sizes = append([]int(nil), DefaultSizes...)
	c.Options.MasterSize = DefaultMasterSize
	c.Options.ICOSizes = append([]int(nil), DefaultICOSizes...)
	c.Options.Storage = StorageFile
	c.Palette = Palette{Top: DefaultTop, Bottom: DefaultBottom, Glyph: DefaultGlyph}
}

// UnmarshalJSON sets defaults then decodes the JSON structure.
// Go's json.Unmarshal merges into existing struct fields, so only
// values present in JSON override the defaults.
func (c *Config) UnmarshalJSON(data []byte) error {
	c.setDefaults()
	type Alias Config
	if err := json.Unmarshal(data, (*Alias)(c)); err != nil {
		return err
	}
	return c.Validate()
}

// Validate checks sizes and the storage backend.
func (c Config) Validate() error {
	if len(c.Options.Sizes) == 0 {
		return fmt.Errorf("sizes must not be empty")
	}
	for _, s := range c.Options.Sizes {
		if s <= 0 {
			return fmt.Errorf("invalid size %d: must be positive", s)
		}
	}
	if c.Options.MasterSize <= 0 {
		return fmt.Errorf("invalid master_size %d: must be positive", c.Options.MasterSize)
	}
	if len(c.Options.ICOSizes) == 0 {
		return fmt.Errorf("ico_sizes must not be empty")
	}
	for _, s := range c.Options.ICOSizes {
		if s <= 0 || s > 256 {
			return fmt.Errorf("invalid ico size %d: must be between 1 and 256", s)
		}
	}
	switch c.Options.Storage {
	case StorageFile, StorageSQLite:
	default:
		return fmt.Errorf("invalid storage %q: want %q or %q", c.Options.Storage, StorageFile, StorageSQLite)
	}
	return nil
}

// Load reads and parses a config file. It tries, in order:
//  1. explicitPath (if non-empty; a missing file is an error)
//  2. appicon-config.json next to the running binary
//  3. ~/.config/appicon/appicon-config.json
//
// When neither fallback exists the built-in defaults are returned.
func Load(explicitPath string) (Config, error) {
	if explicitPath != "" {
		return readConfig(explicitPath)
	}

	// Next to binary
	exe, err := os.Executable()
	if err == nil {
		p := filepath.Join(filepath.Dir(exe), paths.ConfigFileName)
		if _, err := os.Stat(p); err == nil {
			return readConfig(p)
		}
	}

	// User config directory
	home, err := os.UserHomeDir()
	if err == nil {
		var p string
		if runtime.GOOS == "windows" {
			p = filepath.Join(home, "AppData", "Roaming", paths.AppDirName, paths.ConfigFileName)
		} else {
			p = filepath.Join(home, ".config", paths.AppDirName, paths.ConfigFileName)
		}
		if _, err := os.Stat(p); err == nil {
			return readConfig(p)
		}
	}

	return Default(), nil
}

func readConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("config %s not found", path)
	}
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
