package dataset

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"synthdet/internal/projection"
)

func sampleResults(l Layout) []Result {
	return []Result{
		{Index: 1, Image: l.ImagePath(1, "png"), Label: l.LabelPath(1), Attempts: 1,
			Box: projection.Box2D{CenterX: 0.5, CenterY: 0.5, Width: 0.2, Height: 0.4}},
		{Index: 2, Image: l.ImagePath(2, "png"), Label: l.LabelPath(2), Attempts: 3,
			Box: projection.Box2D{CenterX: 0.3, CenterY: 0.6, Width: 0.4, Height: 0.2}},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleResults(NewLayout("out")))

	assert.Equal(t, 2, s.Count)
	assert.Equal(t, 4, s.TotalAttempts)
	assert.InDelta(t, 2.0, s.MeanAttempts, 1e-12)
	// Sample standard deviation of {1, 3}.
	assert.InDelta(t, 1.4142135623730951, s.StdDevAttempts, 1e-12)
	assert.InDelta(t, 0.3, s.MeanWidth, 1e-12)
	assert.InDelta(t, 0.3, s.MeanHeight, 1e-12)

	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestWriteManifest_RelativePaths(t *testing.T) {
	l := NewLayout(t.TempDir())
	results := sampleResults(l)
	m := NewManifest(0, "chair", results)
	_, err := uuid.Parse(m.RunID)
	require.NoError(t, err)

	path := filepath.Join(l.Root, "manifest.json")
	require.NoError(t, WriteManifest(path, l, m))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got Manifest
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, m.RunID, got.RunID)
	assert.Equal(t, "chair", got.ClassName)
	require.Len(t, got.Images, 2)
	assert.Equal(t, "images/img_2.png", got.Images[1].Image)
	assert.Equal(t, "labels/label_2.txt", got.Images[1].Label)
	assert.Equal(t, 3, got.Images[1].Attempts)

	// The caller's slice keeps absolute paths.
	assert.Equal(t, l.ImagePath(2, "png"), results[1].Image)
}

func TestWriteDescriptor(t *testing.T) {
	l := NewLayout(t.TempDir())
	path := filepath.Join(l.Root, "dataset.yaml")
	require.NoError(t, WriteDescriptor(path, l, 0, "chair"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var d Descriptor
	require.NoError(t, yaml.Unmarshal(data, &d))

	assert.Equal(t, "images", d.Train)
	assert.Equal(t, "images", d.Val)
	assert.Equal(t, map[int]string{0: "chair"}, d.Names)
	assert.True(t, filepath.IsAbs(d.Path))
}
