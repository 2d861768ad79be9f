package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"synthdet/internal/config"
	"synthdet/internal/dataset"
	"synthdet/internal/logging"
	"synthdet/internal/mathutil"
	"synthdet/internal/raster"
	"synthdet/internal/sampler"
	"synthdet/internal/scene"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config file (.json or .toml)")
	outputDir := flag.String("output", "", "Output directory (default: dataset)")
	numImages := flag.Int("n", 0, "Number of images to generate (default: 50)")
	halfExtent := flag.Float64("half-extent", 0, "Half size of the square sampling region (default: 10)")
	maxAttempts := flag.Int("max-attempts", 0, "Pose samples per image before giving up (default: 1000)")
	format := flag.String("format", "", "Image format: png or webp (default: png)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error (default: info)")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		OutputDir:   *outputDir,
		NumImages:   *numImages,
		HalfExtent:  *halfExtent,
		MaxAttempts: *maxAttempts,
		Format:      *format,
		LogLevel:    *logLevel,
	})

	log, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogJSON)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, log); err != nil {
		log.Error().Err(err).Msg("generation failed")
		os.Exit(1)
	}
}

func run(cfg config.Config, log zerolog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	imgFormat, err := raster.ParseFormat(cfg.ImageFormat)
	if err != nil {
		return err
	}

	layout, err := dataset.PrepareLayout(cfg.OutputDir)
	if err != nil {
		return err
	}

	sc, err := scene.Build(scene.Options{
		TargetName:     cfg.TargetObject,
		ModelPath:      cfg.ModelPath,
		ModelYUp:       cfg.ModelYUp,
		TexturePath:    cfg.TexturePath,
		HalfExtent:     cfg.HalfExtent,
		CameraPosition: mathutil.Vec3(*cfg.Camera.Position),
		CameraRotation: mathutil.Vec3(*cfg.Camera.Rotation),
		OrthoScale:     cfg.Camera.OrthoScale,
		ResolutionX:    cfg.ResolutionX,
		ResolutionY:    cfg.ResolutionY,
	})
	if err != nil {
		return err
	}

	log.Info().
		Str("output", layout.Root).
		Int("images", cfg.NumImages).
		Float64("half_extent", cfg.HalfExtent).
		Str("resolution", fmt.Sprintf("%dx%d", cfg.ResolutionX, cfg.ResolutionY)).
		Str("format", imgFormat.Ext()).
		Msg("synthetic dataset generation")

	gen := &dataset.Generator{
		Layout:      layout,
		Sampler:     sampler.NewUniform(cfg.HalfExtent, nil),
		Renderer:    raster.NewRenderer(cfg.ResolutionX, cfg.ResolutionY, cfg.Supersample, imgFormat),
		Log:         logging.Component(log, "generator"),
		ClassID:     cfg.ClassID,
		MaxAttempts: cfg.MaxAttempts,
		ImageExt:    imgFormat.Ext(),
	}

	start := time.Now()
	results, runErr := gen.Run(sc, cfg.TargetObject, cfg.NumImages)

	// The manifest lists whatever was accepted, even when the run failed.
	manifest := dataset.NewManifest(cfg.ClassID, cfg.ClassName, results)
	manifestPath := filepath.Join(layout.Root, "manifest.json")
	if err := dataset.WriteManifest(manifestPath, layout, manifest); err != nil {
		log.Warn().Err(err).Msg("manifest write failed")
	}
	if runErr != nil {
		return runErr
	}

	descPath := filepath.Join(layout.Root, "dataset.yaml")
	if err := dataset.WriteDescriptor(descPath, layout, cfg.ClassID, cfg.ClassName); err != nil {
		return err
	}

	log.Info().
		Str("run_id", manifest.RunID).
		Int("rendered", len(results)).
		Int("attempts", manifest.Summary.TotalAttempts).
		Float64("mean_attempts", manifest.Summary.MeanAttempts).
		Dur("elapsed", time.Since(start)).
		Msg("done")
	return nil
}
