// Package archive keeps raw daily sensor responses as zip files laid out as
// <root>/<year>/<day>.zip, each holding a single <day>.json entry.
package archive

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
	"go.uber.org/zap"
)

// ErrNotArchived is returned when no archive exists for a day
var ErrNotArchived = errors.New("day not archived")

// Archive reads and writes zipped responses under a root directory
type Archive struct {
	root   string
	logger *zap.SugaredLogger
}

// New creates an archive rooted at root
func New(root string, logger *zap.SugaredLogger) *Archive {
	return &Archive{root: root, logger: logger}
}

// Root returns the archive root directory
func (a *Archive) Root() string {
	return a.root
}

// Path returns the zip location for day
func (a *Archive) Path(day string) (string, error) {
	if _, err := time.Parse(time.DateOnly, day); err != nil {
		return "", fmt.Errorf("invalid day %q: %w", day, err)
	}
	return filepath.Join(a.root, day[:4], day+".zip"), nil
}

// Exists reports whether day has been archived
func (a *Archive) Exists(day string) bool {
	p, err := a.Path(day)
	if err != nil {
		return false
	}
	_, err = os.Stat(p)
	return err == nil
}

// Write stores body as the archived response for day, replacing any
// previous archive.
func (a *Archive) Write(day string, body []byte) error {
	p, err := a.Path(day)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("creating archive directory: %w", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:     day + ".json",
		Method:   zip.Deflate,
		Modified: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("creating zip entry: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("writing zip entry: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finishing zip: %w", err)
	}

	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing %s: %w", p, err)
	}

	a.logger.Debugw("archived response", "day", day, "path", p, "bytes", len(body), "compressed", buf.Len())
	return nil
}

// Read returns the archived response body for day
func (a *Archive) Read(day string) ([]byte, error) {
	p, err := a.Path(day)
	if err != nil {
		return nil, err
	}

	zr, err := zip.OpenReader(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotArchived, day)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", p, err)
	}
	defer zr.Close()

	if len(zr.File) == 0 {
		return nil, fmt.Errorf("%s is empty", p)
	}

	entry := zr.File[0]
	for _, f := range zr.File {
		if f.Name == day+".json" {
			entry = f
			break
		}
	}

	rc, err := entry.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s in %s: %w", entry.Name, p, err)
	}
	defer rc.Close()

	return io.ReadAll(rc)
}

// Days lists every archived day in ascending order
func (a *Archive) Days() ([]string, error) {
	var days []string
	err := filepath.WalkDir(a.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".zip" {
			return nil
		}
		day := strings.TrimSuffix(d.Name(), ".zip")
		if _, perr := time.Parse(time.DateOnly, day); perr == nil && filepath.Base(filepath.Dir(path)) == day[:4] {
			days = append(days, day)
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing archive: %w", err)
	}
	slices.Sort(days)
	return days, nil
}
