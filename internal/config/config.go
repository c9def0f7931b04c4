package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Emit modes for the generated functions.
const (
	// EmitPixels writes one particle command per opaque pixel.
	EmitPixels = "pixels"
	// EmitImage writes a single particleex image command per frame and
	// copies the frame PNGs into ImageDir.
	EmitImage = "image"
)

// Config holds all pipeline settings. Values are fixed for the duration of a
// run; there are no runtime toggles beyond the optional JSON overlay.
type Config struct {
	// FrameRate is the sampling rate in frames per second. 20 lines up
	// one frame per Minecraft game tick; other rates play back with the
	// schedule delay rounded to the nearest whole tick.
	FrameRate float64 `json:"frame_rate"`

	// MaxWidth and MaxHeight bound the transformed frame. The frame is
	// scaled proportionally so its longer dimension fits the box.
	MaxWidth  int `json:"max_width"`
	MaxHeight int `json:"max_height"`

	// MaxColors caps the palette size after quantization, 1..256.
	MaxColors int `json:"max_colors"`

	// Particle presentation parameters.
	Particle       string  `json:"particle"`
	AnchorPos      string  `json:"anchor_pos"`
	Scale          float64 `json:"scale"`
	PointsPerBlock float64 `json:"points_per_block"`
	LifetimeTicks  int     `json:"lifetime_ticks"`
	Group          string  `json:"group"`

	// EmitMode selects pixel commands (default) or image commands.
	EmitMode string `json:"emit_mode"`

	// ImageDir receives the quantized frame PNGs in image mode.
	ImageDir string `json:"image_dir"`

	// PackFormat is written to pack.mcmeta.
	PackFormat int `json:"pack_format"`

	// FFmpegPath overrides ffmpeg discovery via PATH.
	FFmpegPath string `json:"ffmpeg_path"`

	// WorkRoot is where per-run frame directories are created.
	WorkRoot string `json:"work_root"`

	// OutputRoot is where the datapack directory and zip are written.
	OutputRoot string `json:"output_root"`
}

// Default returns the built-in settings, mirroring the conventional
// ParticleEx playback parameters.
func Default() Config {
	return Config{
		FrameRate:      20,
		MaxWidth:       128,
		MaxHeight:      128,
		MaxColors:      32,
		Particle:       "minecraft:end_rod",
		AnchorPos:      "~ ~1 ~",
		Scale:          0.3,
		PointsPerBlock: 10.0,
		LifetimeTicks:  1,
		Group:          "null",
		EmitMode:       EmitPixels,
		PackFormat:     6,
		WorkRoot:       "frames",
		OutputRoot:     ".",
	}
}

// Load overlays the defaults with a JSON file. Only keys present in the file
// are applied.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	var overlay overlay
	if err := json.Unmarshal(data, &overlay); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	overlay.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.FrameRate <= 0 {
		return fmt.Errorf("frame_rate must be greater than zero, got %v", c.FrameRate)
	}
	if c.MaxWidth <= 0 || c.MaxHeight <= 0 {
		return fmt.Errorf("max_width and max_height must be greater than zero, got %dx%d", c.MaxWidth, c.MaxHeight)
	}
	if c.MaxColors < 1 || c.MaxColors > 256 {
		return fmt.Errorf("max_colors must be in 1..256, got %d", c.MaxColors)
	}
	if c.PointsPerBlock <= 0 {
		return fmt.Errorf("points_per_block must be greater than zero, got %v", c.PointsPerBlock)
	}
	if c.LifetimeTicks < 1 {
		return fmt.Errorf("lifetime_ticks must be at least 1, got %d", c.LifetimeTicks)
	}
	switch c.EmitMode {
	case EmitPixels, EmitImage:
	default:
		return fmt.Errorf("emit_mode must be %q or %q, got %q", EmitPixels, EmitImage, c.EmitMode)
	}
	if c.EmitMode == EmitImage && c.ImageDir == "" {
		return fmt.Errorf("image_dir is required when emit_mode is %q", EmitImage)
	}
	return nil
}

// overlay allows partial configuration files: only non-nil fields apply.
type overlay struct {
	FrameRate      *float64 `json:"frame_rate"`
	MaxWidth       *int     `json:"max_width"`
	MaxHeight      *int     `json:"max_height"`
	MaxColors      *int     `json:"max_colors"`
	Particle       *string  `json:"particle"`
	AnchorPos      *string  `json:"anchor_pos"`
	Scale          *float64 `json:"scale"`
	PointsPerBlock *float64 `json:"points_per_block"`
	LifetimeTicks  *int     `json:"lifetime_ticks"`
	Group          *string  `json:"group"`
	EmitMode       *string  `json:"emit_mode"`
	ImageDir       *string  `json:"image_dir"`
	PackFormat     *int     `json:"pack_format"`
	FFmpegPath     *string  `json:"ffmpeg_path"`
	WorkRoot       *string  `json:"work_root"`
	OutputRoot     *string  `json:"output_root"`
}

func (o overlay) apply(cfg *Config) {
	if o.FrameRate != nil {
		cfg.FrameRate = *o.FrameRate
	}
	if o.MaxWidth != nil {
		cfg.MaxWidth = *o.MaxWidth
	}
	if o.MaxHeight != nil {
		cfg.MaxHeight = *o.MaxHeight
	}
	if o.MaxColors != nil {
		cfg.MaxColors = *o.MaxColors
	}
	if o.Particle != nil {
		cfg.Particle = *o.Particle
	}
	if o.AnchorPos != nil {
		cfg.AnchorPos = *o.AnchorPos
	}
	if o.Scale != nil {
		cfg.Scale = *o.Scale
	}
	if o.PointsPerBlock != nil {
		cfg.PointsPerBlock = *o.PointsPerBlock
	}
	if o.LifetimeTicks != nil {
		cfg.LifetimeTicks = *o.LifetimeTicks
	}
	if o.Group != nil {
		cfg.Group = *o.Group
	}
	if o.EmitMode != nil {
		cfg.EmitMode = *o.EmitMode
	}
	if o.ImageDir != nil {
		cfg.ImageDir = *o.ImageDir
	}
	if o.PackFormat != nil {
		cfg.PackFormat = *o.PackFormat
	}
	if o.FFmpegPath != nil {
		cfg.FFmpegPath = *o.FFmpegPath
	}
	if o.WorkRoot != nil {
		cfg.WorkRoot = *o.WorkRoot
	}
	if o.OutputRoot != nil {
		cfg.OutputRoot = *o.OutputRoot
	}
}
