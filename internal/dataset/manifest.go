package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"
)

// Manifest describes one generation run.
type Manifest struct {
	RunID     string    `json:"run_id"`
	CreatedAt time.Time `json:"created_at"`
	ClassID   int       `json:"class_id"`
	ClassName string    `json:"class_name"`
	Images    []Result  `json:"images"`
	Summary   Summary   `json:"summary"`
}

// Summary aggregates sampling effort and box sizes over a run.
type Summary struct {
	Count          int     `json:"count"`
	TotalAttempts  int     `json:"total_attempts"`
	MeanAttempts   float64 `json:"mean_attempts"`
	StdDevAttempts float64 `json:"stddev_attempts"`
	MeanWidth      float64 `json:"mean_width"`
	MeanHeight     float64 `json:"mean_height"`
}

// NewManifest builds a manifest for results with a fresh run id.
func NewManifest(classID int, className string, results []Result) Manifest {
	return Manifest{
		RunID:     uuid.New().String(),
		CreatedAt: time.Now().UTC(),
		ClassID:   classID,
		ClassName: className,
		Images:    results,
		Summary:   Summarize(results),
	}
}

// Summarize computes run statistics. An empty run yields a zero summary.
func Summarize(results []Result) Summary {
	n := len(results)
	if n == 0 {
		return Summary{}
	}
	attempts := make([]float64, n)
	widths := make([]float64, n)
	heights := make([]float64, n)
	total := 0
	for i, r := range results {
		attempts[i] = float64(r.Attempts)
		widths[i] = r.Box.Width
		heights[i] = r.Box.Height
		total += r.Attempts
	}

	s := Summary{
		Count:         n,
		TotalAttempts: total,
		MeanAttempts:  stat.Mean(attempts, nil),
		MeanWidth:     stat.Mean(widths, nil),
		MeanHeight:    stat.Mean(heights, nil),
	}
	if n > 1 {
		s.StdDevAttempts = stat.StdDev(attempts, nil)
	}
	return s
}

// WriteManifest writes manifest.json to path. Image and label paths are
// stored relative to the dataset root.
func WriteManifest(path string, l Layout, m Manifest) error {
	rel := make([]Result, len(m.Images))
	for i, r := range m.Images {
		r.Image = relTo(l.Root, r.Image)
		r.Label = relTo(l.Root, r.Label)
		rel[i] = r
	}
	m.Images = rel

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("dataset: encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("dataset: write manifest: %w", err)
	}
	return nil
}

// Descriptor is the detector-training dataset file (dataset.yaml).
type Descriptor struct {
	Path  string         `yaml:"path"`
	Train string         `yaml:"train"`
	Val   string         `yaml:"val"`
	Names map[int]string `yaml:"names"`
}

// WriteDescriptor writes dataset.yaml for the layout with a single class.
func WriteDescriptor(path string, l Layout, classID int, className string) error {
	root, err := filepath.Abs(l.Root)
	if err != nil {
		root = l.Root
	}
	d := Descriptor{
		Path:  root,
		Train: relTo(l.Root, l.Images),
		Val:   relTo(l.Root, l.Images),
		Names: map[int]string{classID: className},
	}
	data, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("dataset: encode descriptor: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("dataset: write descriptor: %w", err)
	}
	return nil
}

func relTo(root, path string) string {
	r, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(r)
}
