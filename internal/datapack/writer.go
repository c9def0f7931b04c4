package datapack

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/disintegration/imaging"

	"particlepack/internal/transform"
)

// gameTicksPerSecond is Minecraft's fixed simulation rate.
const gameTicksPerSecond = 20

// Params are the presentation settings baked into every emitted command.
type Params struct {
	Particle       string
	AnchorPos      string
	Scale          float64
	PointsPerBlock float64
	LifetimeTicks  int
	Group          string
	PackFormat     int

	// FrameRate is the sampling rate the frames were extracted at. The
	// schedule delay between frames is derived from it; rates that do not
	// divide 20 round to the nearest whole tick.
	FrameRate float64

	// ImageMode switches from per-pixel commands to a single particleex
	// image command per frame; ImageDir receives the quantized frame PNGs.
	ImageMode bool
	ImageDir  string
}

// frameDelayTicks converts the sampling rate into the schedule delay between
// successive frame functions, at least one tick.
func frameDelayTicks(frameRate float64) int {
	if frameRate <= 0 {
		return 1
	}
	delay := int(math.Round(gameTicksPerSecond / frameRate))
	if delay < 1 {
		delay = 1
	}
	return delay
}

// Writer emits one datapack: pack.mcmeta, the per-frame functions, and the
// top-level playback function.
type Writer struct {
	root      string
	namespace string
	params    Params
}

var namespaceRE = regexp.MustCompile(`^[a-z0-9_-]+$`)

// ValidNamespace reports whether name is usable as a datapack namespace.
func ValidNamespace(name string) bool {
	return namespaceRE.MatchString(name)
}

// NewWriter prepares a writer rooted at outputRoot/namespace.
func NewWriter(outputRoot, namespace string, params Params) (*Writer, error) {
	if !ValidNamespace(namespace) {
		return nil, fmt.Errorf("invalid datapack namespace %q: lowercase letters, digits, _ and - only", namespace)
	}
	return &Writer{
		root:      filepath.Join(outputRoot, namespace),
		namespace: namespace,
		params:    params,
	}, nil
}

// Root returns the datapack directory.
func (w *Writer) Root() string {
	return w.root
}

func (w *Writer) functionsDir() string {
	return filepath.Join(w.root, "data", w.namespace, "functions")
}

// packMeta is the pack.mcmeta document.
type packMeta struct {
	Pack packMetaInner `json:"pack"`
}

type packMetaInner struct {
	PackFormat  int    `json:"pack_format"`
	Description string `json:"description"`
}

// Init creates the datapack skeleton and writes pack.mcmeta. An existing
// datapack directory is replaced so stale frame functions never survive.
func (w *Writer) Init() error {
	if err := os.RemoveAll(w.root); err != nil {
		return fmt.Errorf("clear datapack dir: %w", err)
	}
	if err := os.MkdirAll(w.functionsDir(), 0o755); err != nil {
		return fmt.Errorf("create functions dir: %w", err)
	}

	meta := packMeta{
		Pack: packMetaInner{
			PackFormat:  w.params.PackFormat,
			Description: fmt.Sprintf("Video particle animation (%s)", w.namespace),
		},
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("encode pack.mcmeta: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(filepath.Join(w.root, "pack.mcmeta"), data, 0o644); err != nil {
		return fmt.Errorf("write pack.mcmeta: %w", err)
	}

	if w.params.ImageMode {
		if err := os.MkdirAll(w.params.ImageDir, 0o755); err != nil {
			return fmt.Errorf("create image dir: %w", err)
		}
	}
	return nil
}

func frameFunction(index int) string {
	return fmt.Sprintf("frame_%06d", index)
}

// WriteFrame emits the function file for one transformed frame. When a
// successor frame exists, the file ends with a schedule for it one frame
// interval later; schedule replaces any pending entry for the same function,
// so replaying a frame re-anchors the sequence at that tick.
func (w *Writer) WriteFrame(frame transform.Frame, totalFrames int) error {
	var sb strings.Builder

	if w.params.ImageMode {
		name := frameFunction(frame.Index) + ".png"
		if err := imaging.Save(frame.Image, filepath.Join(w.params.ImageDir, name)); err != nil {
			return fmt.Errorf("write frame image: %w", err)
		}
		sb.WriteString(imageCommand(name, w.params))
		sb.WriteByte('\n')
	} else {
		for _, cmd := range pixelCommands(frame.Image, w.params) {
			sb.WriteString(cmd)
			sb.WriteByte('\n')
		}
	}

	if frame.Index+1 < totalFrames {
		fmt.Fprintf(&sb, "schedule function %s:%s %dt\n",
			w.namespace, frameFunction(frame.Index+1), frameDelayTicks(w.params.FrameRate))
	}

	path := filepath.Join(w.functionsDir(), frameFunction(frame.Index)+".mcfunction")
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WriteMain emits the top-level playback entry point. Invoking it starts the
// schedule chain from frame zero; invoking it again restarts playback from
// the same tick position.
func (w *Writer) WriteMain(totalFrames int) error {
	var sb strings.Builder
	if totalFrames > 0 {
		fmt.Fprintf(&sb, "function %s:%s\n", w.namespace, frameFunction(0))
	}
	path := filepath.Join(w.functionsDir(), "main.mcfunction")
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("write main.mcfunction: %w", err)
	}
	return nil
}
