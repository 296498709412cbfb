package eventlog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Mavwarf/appicon/internal/paths"
)

// FileStore implements Store using a flat log file.
type FileStore struct {
	path string
}

// NewFileStore returns a FileStore that reads and writes the given log file.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// openLog opens (or creates) the log file for appending, creating the
// parent directory if needed.
func (f *FileStore) openLog() (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(f.path), paths.DirPerm); err != nil {
		return nil, err
	}
	return os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, paths.FilePerm)
}

// Log appends a summary line followed by one detail line per asset and a
// blank separator line.
func (f *FileStore) Log(run Run) error {
	file, err := f.openLog()
	if err != nil {
		return err
	}
	defer file.Close()

	ts := stamp(run)
	summary := fmt.Sprintf("%s  tool=%s  status=%s  assets=%d",
		ts, run.Tool, run.Status, len(run.Assets))
	if run.Error != "" {
		summary += fmt.Sprintf("  error=%q", run.Error)
	}
	fmt.Fprintln(file, summary)

	for i, a := range run.Assets {
		fmt.Fprintf(file, "%s    asset[%d] %s  size=%dx%d  bytes=%d  sha256=%s\n",
			ts, i+1, a.Name, a.Width, a.Height, a.Bytes, a.SHA256)
	}

	_, err = fmt.Fprintln(file)
	return err
}

func (f *FileStore) read() (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return string(data), nil
}

func (f *FileStore) Entries(days int) ([]Entry, error) {
	content, err := f.read()
	if err != nil {
		return nil, err
	}
	entries := ParseEntries(content)
	if days <= 0 {
		return entries, nil
	}

	cutoff := DayCutoff(days)
	var filtered []Entry
	for _, e := range entries {
		if !e.Time.In(cutoff.Location()).Before(cutoff) {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}

func (f *FileStore) ReadContent() (string, error) {
	return f.read()
}

func (f *FileStore) Clean(days int) (int, error) {
	content, err := f.read()
	if err != nil {
		return 0, err
	}
	content = strings.TrimRight(content, "\n\r ")
	if content == "" {
		return 0, nil
	}

	orig := len(SplitBlocks(content))
	filtered := FilterBlocksByDays(content, days)
	removed := orig - len(SplitBlocks(filtered))

	if filtered == "" {
		_ = os.Remove(f.path)
		return removed, nil
	}
	if err := os.WriteFile(f.path, []byte(filtered+"\n\n"), paths.FilePerm); err != nil {
		return 0, err
	}
	return removed, nil
}

func (f *FileStore) Clear() error {
	err := os.Remove(f.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) Close() error {
	return nil
}
