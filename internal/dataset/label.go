package dataset

import (
	"fmt"
	"os"

	"synthdet/internal/projection"
)

// Label is one detection record: a class and its normalized box.
type Label struct {
	ClassID int
	Box     projection.Box2D
}

// String formats the label as "<class> <cx> <cy> <w> <h>" with 6 decimals.
func (l Label) String() string {
	return fmt.Sprintf("%d %.6f %.6f %.6f %.6f",
		l.ClassID, l.Box.CenterX, l.Box.CenterY, l.Box.Width, l.Box.Height)
}

// WriteLabel writes l as a single newline-terminated line to path.
func WriteLabel(path string, l Label) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("dataset: create label: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("dataset: close label: %w", cerr)
		}
	}()

	if _, err := fmt.Fprintln(f, l.String()); err != nil {
		return fmt.Errorf("dataset: write label: %w", err)
	}
	return nil
}
