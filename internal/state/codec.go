// Package state serializes and restores puzzle layouts as JSON documents.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"puzzle-maker/internal/catalog"
	"puzzle-maker/internal/puzzle"
	"puzzle-maker/pkg/geometry"
)

// DocumentVersion is written into every saved layout.
const DocumentVersion = 1

// ErrMalformedDocument is returned when a layout document cannot be
// parsed into a consistent grid. The load is aborted entirely; a document
// is never partially applied.
var ErrMalformedDocument = errors.New("malformed layout document")

// PlacementRecord is one placed image in the persisted schema.
type PlacementRecord struct {
	AnchorRow     int    `json:"anchorRow"`
	AnchorCol     int    `json:"anchorCol"`
	Orientation   string `json:"orientation"`
	ImageIdentity string `json:"imageIdentity"`
}

// Document is the persisted layout: grid dimensions, placements, the
// catalog partition, and the spacing configuration. Field names are the
// stable interchange schema; changing them breaks previously saved
// layouts.
type Document struct {
	Version         int               `json:"version"`
	SavedAt         time.Time         `json:"savedAt,omitempty"`
	FolderPath      string            `json:"folderPath,omitempty"`
	Rows            int               `json:"rows"`
	Cols            int               `json:"cols"`
	Placements      []PlacementRecord `json:"placements"`
	AvailableImages []string          `json:"availableImages"`
	UsedImages      []string          `json:"usedImages"`
	Spacing         geometry.Spacing  `json:"spacing"`
}

// Snapshot captures the current model and catalog into a document.
func Snapshot(m *puzzle.Model, cat *catalog.Catalog, spacing geometry.Spacing) *Document {
	doc := &Document{
		Version:    DocumentVersion,
		SavedAt:    time.Now(),
		FolderPath: cat.Dir(),
		Rows:       m.Rows(),
		Cols:       m.Cols(),
		Spacing:    spacing,
	}
	for _, p := range m.Placements() {
		doc.Placements = append(doc.Placements, PlacementRecord{
			AnchorRow:     p.Row,
			AnchorCol:     p.Col,
			Orientation:   string(p.Image.Orientation),
			ImageIdentity: p.Image.Path,
		})
	}
	for _, img := range cat.Available() {
		doc.AvailableImages = append(doc.AvailableImages, img.Path)
	}
	for _, img := range cat.Used() {
		doc.UsedImages = append(doc.UsedImages, img.Path)
	}
	return doc
}

// Validate checks the document for internal consistency: dimensions,
// placement bounds, cell overlaps, duplicate image references, and the
// spacing configuration. Any violation makes the whole document
// malformed.
func (d *Document) Validate() error {
	if d.Rows < 1 || d.Cols < 1 {
		return fmt.Errorf("%w: grid dimensions %dx%d", ErrMalformedDocument, d.Rows, d.Cols)
	}
	if err := d.Spacing.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}

	available := make(map[string]bool)
	used := make(map[string]bool)
	for _, id := range d.AvailableImages {
		if id == "" || available[id] {
			return fmt.Errorf("%w: duplicate or empty image identity %q", ErrMalformedDocument, id)
		}
		available[id] = true
	}
	for _, id := range d.UsedImages {
		if id == "" || available[id] || used[id] {
			return fmt.Errorf("%w: duplicate or empty image identity %q", ErrMalformedDocument, id)
		}
		used[id] = true
	}

	occupied := make(map[[2]int]bool)
	placed := make(map[string]bool)
	for _, rec := range d.Placements {
		orient, err := catalog.ParseOrientation(rec.Orientation)
		if err != nil {
			return fmt.Errorf("%w: placement at (%d, %d): %v", ErrMalformedDocument, rec.AnchorRow, rec.AnchorCol, err)
		}
		if rec.ImageIdentity == "" {
			return fmt.Errorf("%w: placement at (%d, %d) has no image identity", ErrMalformedDocument, rec.AnchorRow, rec.AnchorCol)
		}
		// Every image belongs to exactly one contiguous placement, and a
		// placed image must sit in the used partition.
		if placed[rec.ImageIdentity] {
			return fmt.Errorf("%w: image %q appears in two placements", ErrMalformedDocument, rec.ImageIdentity)
		}
		placed[rec.ImageIdentity] = true
		if !used[rec.ImageIdentity] {
			return fmt.Errorf("%w: placed image %q is not listed in usedImages", ErrMalformedDocument, rec.ImageIdentity)
		}

		rows := 1
		if orient == catalog.Portrait {
			rows = geometry.PortraitSpan
		}
		if rec.AnchorRow < 0 || rec.AnchorCol < 0 ||
			rec.AnchorRow+rows > d.Rows || rec.AnchorCol >= d.Cols {
			return fmt.Errorf("%w: placement at (%d, %d) exceeds %dx%d grid", ErrMalformedDocument, rec.AnchorRow, rec.AnchorCol, d.Rows, d.Cols)
		}
		for i := 0; i < rows; i++ {
			cell := [2]int{rec.AnchorRow + i, rec.AnchorCol}
			if occupied[cell] {
				return fmt.Errorf("%w: placements overlap at (%d, %d)", ErrMalformedDocument, cell[0], cell[1])
			}
			occupied[cell] = true
		}
	}
	return nil
}

// ProbeFunc reads the pixel dimensions of an image identity. DiskProbe is
// the production implementation; tests substitute their own.
type ProbeFunc func(path string) (width, height int, err error)

// DiskProbe reads image dimensions from the filesystem.
var DiskProbe ProbeFunc = catalog.ProbeDimensions

// LoadReport describes per-image recoverable problems encountered while
// applying a document.
type LoadReport struct {
	// MissingImages lists identities whose files could not be read. Each
	// is skipped: its catalog entry and any placement are dropped.
	MissingImages []string
}

// Apply reconstructs a model and catalog from a validated document.
// Unreadable image files are recoverable per-image: they are skipped and
// reported. Structural inconsistencies abort with ErrMalformedDocument.
func Apply(d *Document, probe ProbeFunc) (*puzzle.Model, *catalog.Catalog, *LoadReport, error) {
	if err := d.Validate(); err != nil {
		return nil, nil, nil, err
	}
	if probe == nil {
		probe = DiskProbe
	}

	report := &LoadReport{}
	cat := catalog.New()
	cat.SetDir(d.FolderPath)

	restore := func(id string, orient catalog.Orientation) *catalog.ImageInfo {
		w, h, err := probe(id)
		if err != nil {
			report.MissingImages = append(report.MissingImages, id)
			return nil
		}
		if orient == "" {
			orient = catalog.Classify(w, h)
		}
		return cat.Restore(catalog.ImageInfo{Path: id, Orientation: orient, Width: w, Height: h})
	}

	for _, id := range d.AvailableImages {
		restore(id, "")
	}

	// Placed images take their recorded orientation: it determines the
	// cell span the document was validated against.
	recordByID := make(map[string]PlacementRecord)
	for _, rec := range d.Placements {
		recordByID[rec.ImageIdentity] = rec
	}
	for _, id := range d.UsedImages {
		orient := catalog.Orientation("")
		if rec, ok := recordByID[id]; ok {
			orient = catalog.Orientation(rec.Orientation)
		}
		if restore(id, orient) != nil {
			cat.MarkUsed(id)
		}
	}

	m, err := puzzle.New(d.Rows, d.Cols, cat)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	for _, rec := range d.Placements {
		img := cat.Lookup(rec.ImageIdentity)
		if img == nil {
			// Missing file, already reported; the placement is dropped.
			continue
		}
		if err := m.PlaceImage(img, rec.AnchorRow, rec.AnchorCol); err != nil {
			return nil, nil, nil, fmt.Errorf("%w: placement at (%d, %d): %v", ErrMalformedDocument, rec.AnchorRow, rec.AnchorCol, err)
		}
	}
	return m, cat, report, nil
}

// Save writes the document to a file as indented JSON.
func (d *Document) Save(path string) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Load reads and validates a layout document from a file. Parse failures
// and inconsistent contents report ErrMalformedDocument.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}
