package dataset

import (
	"fmt"
	"os"
	"path/filepath"
)

// Layout is the on-disk structure of a dataset: parallel images/ and labels/
// directories under one root.
type Layout struct {
	Root   string
	Images string
	Labels string
}

// NewLayout returns the layout under root without touching the filesystem.
func NewLayout(root string) Layout {
	return Layout{
		Root:   root,
		Images: filepath.Join(root, "images"),
		Labels: filepath.Join(root, "labels"),
	}
}

// PrepareLayout creates the output directories and checks they are writable.
func PrepareLayout(root string) (Layout, error) {
	if root == "" {
		return Layout{}, fmt.Errorf("dataset: empty output directory")
	}
	l := NewLayout(root)
	for _, dir := range []string{l.Images, l.Labels} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return Layout{}, fmt.Errorf("dataset: create %s: %w", dir, err)
		}
		if err := probeWritable(dir); err != nil {
			return Layout{}, fmt.Errorf("dataset: %s not writable: %w", dir, err)
		}
	}
	return l, nil
}

func probeWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return err
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		os.Remove(name)
		return err
	}
	return os.Remove(name)
}

// ImagePath returns the path of image i (1-based) with the given extension.
func (l Layout) ImagePath(i int, ext string) string {
	return filepath.Join(l.Images, fmt.Sprintf("img_%d.%s", i, ext))
}

// LabelPath returns the path of label i (1-based).
func (l Layout) LabelPath(i int) string {
	return filepath.Join(l.Labels, fmt.Sprintf("label_%d.txt", i))
}
