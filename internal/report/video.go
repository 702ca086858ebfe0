package report

import (
	"bytes"
	"fmt"
	"image/jpeg"

	"github.com/icza/mjpeg"

	"github.com/ugaemi/epidemic-sim/internal/epidemic"
)

const jpegQuality = 85

// VideoWriter records simulation frames into an MJPEG AVI file.
type VideoWriter struct {
	aw     mjpeg.AviWriter
	width  int
	height int
	buf    bytes.Buffer
	frames int
}

// NewVideoWriter creates path and prepares it for frames of the arena
// described by cfg, played back at fps.
func NewVideoWriter(path string, cfg epidemic.Config, fps int) (*VideoWriter, error) {
	// JPEG frames are encoded in 2x2 blocks; keep the size even.
	width := int(cfg.Width) &^ 1
	height := int(cfg.Height) &^ 1
	if fps < 1 {
		fps = 1
	}

	aw, err := mjpeg.New(path, int32(width), int32(height), int32(fps))
	if err != nil {
		return nil, fmt.Errorf("creating video %s: %w", path, err)
	}
	return &VideoWriter{aw: aw, width: width, height: height}, nil
}

// WriteFrame renders one snapshot and appends it to the video.
func (v *VideoWriter) WriteFrame(agents []epidemic.AgentView, stats epidemic.Stats) error {
	img := RenderFrame(agents, stats, v.width, v.height)

	v.buf.Reset()
	if err := jpeg.Encode(&v.buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return fmt.Errorf("encoding frame %d: %w", v.frames, err)
	}
	if err := v.aw.AddFrame(v.buf.Bytes()); err != nil {
		return fmt.Errorf("adding frame %d: %w", v.frames, err)
	}
	v.frames++
	return nil
}

// Frames returns the number of frames written so far.
func (v *VideoWriter) Frames() int {
	return v.frames
}

// Close finalizes the AVI index and closes the file.
func (v *VideoWriter) Close() error {
	return v.aw.Close()
}
