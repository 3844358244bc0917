package catalog

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
)

// Catalog holds the discovered images partitioned into available and used,
// both in stable insertion order for deterministic listing.
type Catalog struct {
	dir       string
	available []*ImageInfo
	used      []*ImageInfo
	byPath    map[string]*ImageInfo
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{byPath: make(map[string]*ImageInfo)}
}

// Dir returns the folder the catalog was scanned from, if any.
func (c *Catalog) Dir() string {
	return c.dir
}

// SetDir records the folder the catalog's images came from, used when
// rebuilding a catalog from a saved layout rather than a scan.
func (c *Catalog) SetDir(dir string) {
	c.dir = dir
}

// Add registers an image descriptor supplied by a collaborator. The image
// starts out available. Re-adding an existing path is a no-op and returns
// the existing descriptor.
func (c *Catalog) Add(path string, width, height int) *ImageInfo {
	if img, ok := c.byPath[path]; ok {
		return img
	}
	img := &ImageInfo{
		Path:        path,
		Orientation: Classify(width, height),
		Width:       width,
		Height:      height,
	}
	c.byPath[path] = img
	c.available = append(c.available, img)
	return img
}

// Restore inserts a descriptor verbatim, keeping its recorded orientation
// instead of reclassifying. Used when reconstructing a catalog from a
// saved layout. No-op for an already known path.
func (c *Catalog) Restore(info ImageInfo) *ImageInfo {
	if img, ok := c.byPath[info.Path]; ok {
		return img
	}
	img := &info
	c.byPath[img.Path] = img
	c.available = append(c.available, img)
	return img
}

// Lookup returns the descriptor for a path, or nil if unknown.
func (c *Catalog) Lookup(path string) *ImageInfo {
	return c.byPath[path]
}

// Remove deletes an image from the catalog entirely. Returns false if the
// path is unknown.
func (c *Catalog) Remove(path string) bool {
	img, ok := c.byPath[path]
	if !ok {
		return false
	}
	delete(c.byPath, path)
	c.available = without(c.available, img)
	c.used = without(c.used, img)
	return true
}

// MarkUsed moves an image from available to used. Idempotent: marking an
// already-used image again changes nothing.
func (c *Catalog) MarkUsed(path string) {
	img, ok := c.byPath[path]
	if !ok {
		return
	}
	if contains(c.used, img) {
		return
	}
	c.available = without(c.available, img)
	c.used = append(c.used, img)
}

// MarkAvailable moves an image from used back to available. Idempotent.
func (c *Catalog) MarkAvailable(path string) {
	img, ok := c.byPath[path]
	if !ok {
		return
	}
	if contains(c.available, img) {
		return
	}
	c.used = without(c.used, img)
	c.available = append(c.available, img)
}

// Available returns the available images in insertion order.
func (c *Catalog) Available() []*ImageInfo {
	out := make([]*ImageInfo, len(c.available))
	copy(out, c.available)
	return out
}

// Used returns the used images in insertion order.
func (c *Catalog) Used() []*ImageInfo {
	out := make([]*ImageInfo, len(c.used))
	copy(out, c.used)
	return out
}

// Len returns the total number of tracked images.
func (c *Catalog) Len() int {
	return len(c.byPath)
}

// Clear drops every image and the scanned folder reference.
func (c *Catalog) Clear() {
	c.dir = ""
	c.available = nil
	c.used = nil
	c.byPath = make(map[string]*ImageInfo)
}

// ScanDirectory replaces the catalog contents with the supported images
// found directly in dir, sorted by file name. Images whose headers cannot
// be read are skipped with a log line, matching per-image recovery.
func (c *Catalog) ScanDirectory(dir string) (int, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read image directory: %w", err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("%s is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read image directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !IsSupportedFormat(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	c.Clear()
	c.dir = dir

	loaded := 0
	for _, name := range names {
		path := filepath.Join(dir, name)
		w, h, err := ProbeDimensions(path)
		if err != nil {
			log.Printf("Skipping %s: %v", path, err)
			continue
		}
		c.Add(path, w, h)
		loaded++
	}
	return loaded, nil
}

func contains(list []*ImageInfo, img *ImageInfo) bool {
	for _, x := range list {
		if x == img {
			return true
		}
	}
	return false
}

func without(list []*ImageInfo, img *ImageInfo) []*ImageInfo {
	for i, x := range list {
		if x == img {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
