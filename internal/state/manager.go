package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const snapshotExt = ".json"

// snapshot filenames embed the save time so plain directory listings sort
// chronologically.
const snapshotTimeLayout = "20060102-150405"

// Manager owns a directory of layout snapshots.
type Manager struct {
	dir string
}

// NewManager creates the snapshot directory if needed and returns a
// manager for it.
func NewManager(dir string) (*Manager, error) {
	if dir == "" {
		return nil, errors.New("snapshot directory not set")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating snapshot directory: %w", err)
	}
	return &Manager{dir: dir}, nil
}

// Dir returns the snapshot directory.
func (m *Manager) Dir() string {
	return m.dir
}

// Save writes the document into the snapshot directory under a
// timestamped filename and returns the path.
func (m *Manager) Save(doc *Document) (string, error) {
	when := doc.SavedAt
	if when.IsZero() {
		when = time.Now()
	}
	name := "layout-" + when.Format(snapshotTimeLayout) + snapshotExt
	path := filepath.Join(m.dir, name)
	if err := doc.Save(path); err != nil {
		return "", err
	}
	return path, nil
}

// Summary describes one stored snapshot without loading its full
// contents into a model.
type Summary struct {
	Path      string
	Filename  string
	SavedAt   time.Time
	Rows      int
	Cols      int
	Placed    int
	Available int
}

// List returns summaries of every snapshot in the directory, newest
// first. Files that fail to parse are skipped.
func (m *Manager) List() ([]Summary, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, err
	}
	var out []Summary
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), snapshotExt) {
			continue
		}
		path := filepath.Join(m.dir, e.Name())
		doc, err := Load(path)
		if err != nil {
			continue
		}
		savedAt := doc.SavedAt
		if savedAt.IsZero() {
			if info, err := e.Info(); err == nil {
				savedAt = info.ModTime()
			}
		}
		out = append(out, Summary{
			Path:      path,
			Filename:  e.Name(),
			SavedAt:   savedAt,
			Rows:      doc.Rows,
			Cols:      doc.Cols,
			Placed:    len(doc.Placements),
			Available: len(doc.AvailableImages),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SavedAt.After(out[j].SavedAt)
	})
	return out, nil
}

// Latest returns the most recent snapshot, or an error when the
// directory holds none.
func (m *Manager) Latest() (Summary, error) {
	list, err := m.List()
	if err != nil {
		return Summary{}, err
	}
	if len(list) == 0 {
		return Summary{}, fmt.Errorf("no snapshots in %s", m.dir)
	}
	return list[0], nil
}

// Delete removes a snapshot by filename.
func (m *Manager) Delete(filename string) error {
	return os.Remove(filepath.Join(m.dir, filepath.Base(filename)))
}
