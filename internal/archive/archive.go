// Package archive extracts uploaded alert exports and enumerates their day files.
package archive

import (
	"archive/zip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/alertdash/alertdash-server/internal/errors"
)

// markerName is written next to the extracted entries and identifies the extraction.
const markerName = ".extraction.json"

// DateLayout is the day file naming scheme (YYYY-MM-DD.json).
const DateLayout = "2006-01-02"

// Extraction describes the archive currently unpacked in the working directory.
type Extraction struct {
	ID          string    `json:"id"`
	ExtractedAt time.Time `json:"extracted_at"`
	Entries     int       `json:"entries"`
	Bytes       int64     `json:"bytes"`

	root      string
	alertsDir string
}

// Root returns the working directory the archive was extracted into.
func (e *Extraction) Root() string {
	return e.root
}

// DayFile is one JSON file inside the alerts directory.
type DayFile struct {
	Name string
	Path string
	// Date is set only when the file name parsed as a date.
	Date    time.Time
	HasDate bool
}

// DateString returns the file date as YYYY-MM-DD, or "" when the name is not a date.
func (d DayFile) DateString() string {
	if !d.HasDate {
		return ""
	}
	return d.Date.Format(DateLayout)
}

// Loader owns the fixed working directory. Every Extract replaces its contents.
type Loader struct {
	workDir   string
	alertsDir string
	logger    *slog.Logger
}

// NewLoader creates a Loader extracting into workDir and reading day files from
// the alertsDir subdirectory.
func NewLoader(workDir, alertsDir string, logger *slog.Logger) *Loader {
	return &Loader{workDir: workDir, alertsDir: alertsDir, logger: logger}
}

// WorkDir returns the extraction directory.
func (l *Loader) WorkDir() string {
	return l.workDir
}

// Extract unpacks the zip read from r into the working directory, discarding
// whatever a previous upload left there.
func (l *Loader) Extract(ctx context.Context, r io.ReaderAt, size int64) (*Extraction, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, apperrors.ErrInvalidArchive.WithCause(err)
	}

	if err := os.RemoveAll(l.workDir); err != nil {
		return nil, fmt.Errorf("clear work dir: %w", err)
	}
	if err := os.MkdirAll(l.workDir, 0o755); err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}

	root, err := filepath.Abs(l.workDir)
	if err != nil {
		return nil, fmt.Errorf("resolve work dir: %w", err)
	}

	ext := &Extraction{
		ID:          uuid.NewString(),
		ExtractedAt: time.Now().UTC(),
		root:        root,
		alertsDir:   l.alertsDir,
	}

	for _, f := range zr.File {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		written, err := extractEntry(root, f)
		if err != nil {
			return nil, err
		}
		ext.Entries++
		ext.Bytes += written
	}

	if err := writeMarker(root, ext); err != nil {
		return nil, err
	}

	l.logger.Info("archive extracted",
		"extraction_id", ext.ID,
		"entries", ext.Entries,
		"bytes", ext.Bytes,
		"work_dir", root)

	return ext, nil
}

// Current returns the extraction left by the last successful Extract.
func (l *Loader) Current() (*Extraction, error) {
	root, err := filepath.Abs(l.workDir)
	if err != nil {
		return nil, fmt.Errorf("resolve work dir: %w", err)
	}

	data, err := os.ReadFile(filepath.Join(root, markerName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.ErrNoExtraction
		}
		return nil, fmt.Errorf("read extraction marker: %w", err)
	}

	var ext Extraction
	if err := json.Unmarshal(data, &ext); err != nil {
		return nil, apperrors.ErrNoExtraction.WithCause(err)
	}
	ext.root = root
	ext.alertsDir = l.alertsDir
	return &ext, nil
}

// extractEntry writes one zip entry below root and returns the bytes written.
func extractEntry(root string, f *zip.File) (int64, error) {
	target := filepath.Join(root, filepath.FromSlash(f.Name))
	rel, err := filepath.Rel(root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return 0, apperrors.Wrapf(err, apperrors.CodeInvalidArchive, "entry %q escapes the archive root", f.Name)
	}
	if rel == markerName {
		return 0, nil
	}

	if f.FileInfo().IsDir() {
		return 0, os.MkdirAll(target, 0o755)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return 0, fmt.Errorf("create dir for %s: %w", f.Name, err)
	}

	rc, err := f.Open()
	if err != nil {
		return 0, apperrors.Wrapf(err, apperrors.CodeInvalidArchive, "open entry %s", f.Name)
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644) //#nosec G304 -- target is confined to root above
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", f.Name, err)
	}

	n, err := io.Copy(out, rc)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return n, apperrors.Wrapf(err, apperrors.CodeInvalidArchive, "extract %s", f.Name)
	}
	return n, nil
}

func writeMarker(root string, ext *Extraction) error {
	data, err := json.Marshal(ext)
	if err != nil {
		return fmt.Errorf("encode extraction marker: %w", err)
	}
	if err := os.WriteFile(filepath.Join(root, markerName), data, 0o644); err != nil {
		return fmt.Errorf("write extraction marker: %w", err)
	}
	return nil
}

// AlertsPath locates the alerts directory. The top-level directory is preferred;
// otherwise the shallowest directory with that name is used, which covers
// archives that wrap the export in an extra folder.
func (e *Extraction) AlertsPath() (string, error) {
	direct := filepath.Join(e.root, e.alertsDir)
	if info, err := os.Stat(direct); err == nil && info.IsDir() {
		return direct, nil
	}

	found := ""
	foundDepth := 0
	err := filepath.WalkDir(e.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == e.root || !d.IsDir() || d.Name() != e.alertsDir {
			return nil
		}
		depth := strings.Count(path, string(filepath.Separator))
		if found == "" || depth < foundDepth {
			found, foundDepth = path, depth
		}
		return filepath.SkipDir
	})
	if err != nil {
		return "", fmt.Errorf("search alerts dir: %w", err)
	}
	if found == "" {
		return "", apperrors.MissingAlertsDirf("no %q directory in archive", e.alertsDir)
	}
	return found, nil
}

// DayFiles lists the *.json files of the alerts directory sorted by name.
// With dateKeyed set, names whose stem is not a YYYY-MM-DD date are skipped and
// returned separately.
func (e *Extraction) DayFiles(dateKeyed bool) (files []DayFile, skipped []string, err error) {
	dir, err := e.AlertsPath()
	if err != nil {
		return nil, nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("read alerts dir: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}

		df := DayFile{Name: name, Path: filepath.Join(dir, name)}
		if date, ok := ParseDayName(name); ok {
			df.Date, df.HasDate = date, true
		} else if dateKeyed {
			skipped = append(skipped, name)
			continue
		}
		files = append(files, df)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	sort.Strings(skipped)
	return files, skipped, nil
}

// ParseDayName parses the part of name before the first dot as a YYYY-MM-DD date.
func ParseDayName(name string) (time.Time, bool) {
	stem, _, _ := strings.Cut(name, ".")
	date, err := time.Parse(DateLayout, stem)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}
