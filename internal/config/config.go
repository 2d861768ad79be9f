package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// ErrInvalid marks configuration values that fail validation.
var ErrInvalid = errors.New("config: invalid")

// Config holds all configurable paths and render settings.
type Config struct {
	// Paths
	OutputDir   string `json:"output_dir" toml:"output_dir"`
	ModelPath   string `json:"model_path" toml:"model_path"`
	ModelYUp    bool   `json:"model_y_up" toml:"model_y_up"`
	TexturePath string `json:"texture_path" toml:"texture_path"`

	// Dataset
	NumImages    int     `json:"num_images" toml:"num_images"`
	HalfExtent   float64 `json:"half_extent" toml:"half_extent"`
	MaxAttempts  int     `json:"max_attempts" toml:"max_attempts"`
	ClassID      int     `json:"class_id" toml:"class_id"`
	ClassName    string  `json:"class_name" toml:"class_name"`
	TargetObject string  `json:"target_object" toml:"target_object"`

	// Render settings
	ResolutionX int    `json:"resolution_x" toml:"resolution_x"`
	ResolutionY int    `json:"resolution_y" toml:"resolution_y"`
	Supersample int    `json:"supersample" toml:"supersample"`
	ImageFormat string `json:"image_format" toml:"image_format"`

	Camera Camera `json:"camera" toml:"camera"`

	// Logging
	LogLevel string `json:"log_level" toml:"log_level"`
	LogJSON  bool   `json:"log_json" toml:"log_json"`
}

// Camera places the fixed orthographic camera. Rotation is Euler XYZ in radians.
type Camera struct {
	Position   *[3]float64 `json:"position" toml:"position"`
	Rotation   *[3]float64 `json:"rotation" toml:"rotation"`
	OrthoScale float64     `json:"ortho_scale" toml:"ortho_scale"`
}

// Default camera: 20 units from the origin, tilted 36.87° about X so it
// looks straight at the center of the floor.
var (
	DefaultCameraPosition = [3]float64{0, -12, 16}
	DefaultCameraRotation = [3]float64{0.6435011087932844, 0, 0}
)

// Load reads a JSON or TOML config file, chosen by extension (.toml is TOML,
// anything else JSON). Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, &cfg)
	} else {
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	OutputDir   string
	NumImages   int
	HalfExtent  float64
	MaxAttempts int
	Format      string
	LogLevel    string
}

// Resolve applies CLI overrides and fills any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.NumImages > 0 {
		c.NumImages = flags.NumImages
	}
	if flags.HalfExtent > 0 {
		c.HalfExtent = flags.HalfExtent
	}
	if flags.MaxAttempts > 0 {
		c.MaxAttempts = flags.MaxAttempts
	}
	if flags.Format != "" {
		c.ImageFormat = flags.Format
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}

	if c.OutputDir == "" {
		c.OutputDir = "dataset"
	}
	if c.NumImages == 0 {
		c.NumImages = 50
	}
	if c.HalfExtent == 0 {
		c.HalfExtent = 10
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = 1000
	}
	if c.ClassName == "" {
		c.ClassName = "chair"
	}
	if c.TargetObject == "" {
		c.TargetObject = "Chair"
	}
	if c.ResolutionX == 0 {
		c.ResolutionX = 1920
	}
	if c.ResolutionY == 0 {
		c.ResolutionY = 1080
	}
	if c.Supersample == 0 {
		c.Supersample = 2
	}
	if c.ImageFormat == "" {
		c.ImageFormat = "png"
	}
	if c.Camera.Position == nil {
		p := DefaultCameraPosition
		c.Camera.Position = &p
	}
	if c.Camera.Rotation == nil {
		r := DefaultCameraRotation
		c.Camera.Rotation = &r
	}
	if c.Camera.OrthoScale == 0 {
		c.Camera.OrthoScale = 2 * c.HalfExtent
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate reports every out-of-range value in one error wrapping ErrInvalid.
// Call after Resolve.
func (c *Config) Validate() error {
	var problems []string
	if c.NumImages < 1 {
		problems = append(problems, fmt.Sprintf("num_images must be positive, got %d", c.NumImages))
	}
	if c.HalfExtent <= 0 {
		problems = append(problems, fmt.Sprintf("half_extent must be positive, got %g", c.HalfExtent))
	}
	if c.MaxAttempts < 1 {
		problems = append(problems, fmt.Sprintf("max_attempts must be positive, got %d", c.MaxAttempts))
	}
	if c.ClassID < 0 {
		problems = append(problems, fmt.Sprintf("class_id must not be negative, got %d", c.ClassID))
	}
	if c.ResolutionX < 1 || c.ResolutionY < 1 {
		problems = append(problems, fmt.Sprintf("resolution must be positive, got %dx%d", c.ResolutionX, c.ResolutionY))
	}
	if c.Supersample < 1 || c.Supersample > 8 {
		problems = append(problems, fmt.Sprintf("supersample must be in [1,8], got %d", c.Supersample))
	}
	switch strings.ToLower(c.ImageFormat) {
	case "png", "webp":
	default:
		problems = append(problems, fmt.Sprintf("image_format must be png or webp, got %q", c.ImageFormat))
	}
	if c.Camera.OrthoScale <= 0 {
		problems = append(problems, fmt.Sprintf("camera.ortho_scale must be positive, got %g", c.Camera.OrthoScale))
	}
	if c.ModelPath != "" {
		if _, err := os.Stat(c.ModelPath); err != nil {
			problems = append(problems, fmt.Sprintf("model_path: %v", err))
		}
	}
	if c.TexturePath != "" {
		if _, err := os.Stat(c.TexturePath); err != nil {
			problems = append(problems, fmt.Sprintf("texture_path: %v", err))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}
