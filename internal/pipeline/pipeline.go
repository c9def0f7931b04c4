package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"particlepack/internal/config"
	"particlepack/internal/datapack"
	"particlepack/internal/extract"
	"particlepack/internal/transform"
)

// Result describes the artefacts of one finished run.
type Result struct {
	Frames  int
	PackDir string
	ZipPath string
}

// Run executes the full pipeline for one video: extract frames, transform
// each one, emit the datapack, archive it. Every failure is fatal for the
// run; there is no partial success.
func Run(videoPath, namespace string, cfg config.Config, logger *log.Logger) (*Result, error) {
	if _, err := extract.LocateFFmpeg(cfg.FFmpegPath); err != nil {
		return nil, err
	}

	duration, err := extract.ProbeDuration(videoPath)
	if err != nil {
		return nil, err
	}
	expected := extract.EstimateFrames(duration, cfg.FrameRate)
	logger.Info("probed video",
		"path", videoPath,
		"duration_s", fmt.Sprintf("%.2f", duration),
		"expected_frames", expected)

	// Per-run work dir so concurrent runs never collide.
	workDir := filepath.Join(cfg.WorkRoot, namespace+"-"+uuid.NewString())
	defer os.RemoveAll(workDir)

	if err := extractWithProgress(videoPath, workDir, cfg, expected, logger); err != nil {
		return nil, err
	}

	framePaths, err := extract.ListFrames(workDir)
	if err != nil {
		return nil, err
	}
	if len(framePaths) == 0 {
		return nil, fmt.Errorf("no frames extracted from %s", videoPath)
	}
	logger.Info("extraction complete", "frames", len(framePaths))

	writer, err := datapack.NewWriter(cfg.OutputRoot, namespace, datapack.Params{
		Particle:       cfg.Particle,
		AnchorPos:      cfg.AnchorPos,
		Scale:          cfg.Scale,
		PointsPerBlock: cfg.PointsPerBlock,
		LifetimeTicks:  cfg.LifetimeTicks,
		Group:          cfg.Group,
		PackFormat:     cfg.PackFormat,
		FrameRate:      cfg.FrameRate,
		ImageMode:      cfg.EmitMode == config.EmitImage,
		ImageDir:       cfg.ImageDir,
	})
	if err != nil {
		return nil, err
	}
	if err := writer.Init(); err != nil {
		return nil, err
	}

	for i, path := range framePaths {
		img, err := transform.Load(path)
		if err != nil {
			return nil, err
		}
		frame := transform.Transform(i, img, cfg.MaxWidth, cfg.MaxHeight, cfg.MaxColors)
		if err := writer.WriteFrame(frame, len(framePaths)); err != nil {
			return nil, err
		}
	}

	if err := writer.WriteMain(len(framePaths)); err != nil {
		return nil, err
	}
	zipPath, err := writer.Archive()
	if err != nil {
		return nil, err
	}

	return &Result{
		Frames:  len(framePaths),
		PackDir: writer.Root(),
		ZipPath: zipPath,
	}, nil
}

// extractWithProgress runs ffmpeg in the background and periodically logs
// how many frames have landed in the work dir.
func extractWithProgress(videoPath, workDir string, cfg config.Config, expected int, logger *log.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- extract.ExtractFrames(videoPath, workDir, extract.Config{
			FrameRate:  cfg.FrameRate,
			MaxWidth:   cfg.MaxWidth,
			MaxHeight:  cfg.MaxHeight,
			FFmpegPath: cfg.FFmpegPath,
		})
	}()

	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("extract frames: %w", err)
			}
			return nil
		case <-ticker.C:
			count, err := extract.CountFrames(workDir)
			if err != nil {
				return fmt.Errorf("monitor frames: %w", err)
			}
			logger.Info("extracting", "frames", count, "expected", expected)
		}
	}
}
