package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// ErrFFmpegNotFound is returned before any frame is produced when no usable
// ffmpeg binary can be located.
var ErrFFmpegNotFound = errors.New("ffmpeg not found in PATH")

const framePattern = "frame_%06d.png"

// Config controls frame extraction.
type Config struct {
	FrameRate  float64 `json:"frame_rate"`
	MaxWidth   int     `json:"max_width"`
	MaxHeight  int     `json:"max_height"`
	FFmpegPath string  `json:"ffmpeg_path"`
}

// LocateFFmpeg resolves the ffmpeg binary: an explicit override wins,
// otherwise PATH is searched.
func LocateFFmpeg(override string) (string, error) {
	if override != "" {
		info, err := os.Stat(override)
		if err != nil || !info.Mode().IsRegular() || info.Mode().Perm()&0o111 == 0 {
			return "", fmt.Errorf("ffmpeg at %s: %w", override, ErrFFmpegNotFound)
		}
		return override, nil
	}
	path, err := exec.LookPath("ffmpeg")
	if err != nil {
		return "", ErrFFmpegNotFound
	}
	return path, nil
}

// ProbeDuration reads the container duration in seconds via ffprobe.
func ProbeDuration(inputPath string) (float64, error) {
	out, err := ffmpeg.Probe(inputPath)
	if err != nil {
		return 0, fmt.Errorf("probe %s: %w", inputPath, err)
	}
	var probe struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal([]byte(out), &probe); err != nil {
		return 0, fmt.Errorf("parse probe output: %w", err)
	}
	dur, err := strconv.ParseFloat(probe.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", probe.Format.Duration, err)
	}
	return dur, nil
}

// EstimateFrames returns the expected frame count for a duration at the
// configured sampling rate. Partial trailing intervals still produce a frame,
// so the estimate rounds up.
func EstimateFrames(durationSeconds, frameRate float64) int {
	if durationSeconds <= 0 || frameRate <= 0 {
		return 0
	}
	return int(math.Ceil(durationSeconds * frameRate))
}

// ExtractFrames splits the video into PNG stills under workDir, sampled at
// cfg.FrameRate and scaled to fit the cfg box with the aspect ratio
// preserved. Frames are named by increasing zero-padded index.
func ExtractFrames(inputPath, workDir string, cfg Config) error {
	ffmpegPath, err := LocateFFmpeg(cfg.FFmpegPath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return fmt.Errorf("create work dir: %w", err)
	}

	fpsStr := strconv.FormatFloat(cfg.FrameRate, 'f', -1, 64)
	scaleStr := fmt.Sprintf("%d:%d", cfg.MaxWidth, cfg.MaxHeight)
	outputPattern := filepath.Join(workDir, framePattern)

	err = ffmpeg.
		Input(inputPath).
		// Sample at cfg.FrameRate fps
		Filter("fps", ffmpeg.Args{fpsStr}).
		// Resize preserving aspect ratio, bounded by the box
		Filter("scale", ffmpeg.Args{scaleStr}, ffmpeg.KwArgs{"force_original_aspect_ratio": "decrease"}).
		// Keep the alpha channel through the PNG encoder
		Filter("format", ffmpeg.Args{"rgba"}).
		Output(outputPattern, ffmpeg.KwArgs{"vsync": "0"}).
		OverWriteOutput().
		SetFfmpegPath(ffmpegPath).
		Run()
	if err != nil {
		return fmt.Errorf("decode %s: %w", inputPath, err)
	}
	return nil
}

// ListFrames returns the extracted frame paths in index order.
func ListFrames(workDir string) ([]string, error) {
	entries, err := os.ReadDir(workDir)
	if err != nil {
		return nil, fmt.Errorf("read work dir: %w", err)
	}
	var frames []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, "frame_") && strings.HasSuffix(name, ".png") {
			frames = append(frames, filepath.Join(workDir, name))
		}
	}
	sort.Strings(frames)
	return frames, nil
}

// CountFrames reports how many frames are present so far. A missing directory
// counts as zero: extraction may not have created it yet.
func CountFrames(workDir string) (int, error) {
	entries, err := os.ReadDir(workDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	count := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, "frame_") && strings.HasSuffix(name, ".png") {
			count++
		}
	}
	return count, nil
}
