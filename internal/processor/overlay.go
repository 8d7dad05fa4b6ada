package processor

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/pkg/errors"
	"github.com/promoloop/video-pairer/pkg/types"
)

// LoadOverlay reads the overlay image header to learn its dimensions. The
// pixel data itself is only ever touched by the encoder.
func LoadOverlay(path string) (*types.OverlaySpec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening overlay %s", path)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding overlay %s", path)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, errors.Errorf("overlay %s has invalid dimensions %dx%d", path, cfg.Width, cfg.Height)
	}
	return &types.OverlaySpec{ImagePath: path, Width: cfg.Width, Height: cfg.Height}, nil
}

// FitWithin scales overlay dimensions down, preserving aspect ratio, so the
// overlay fits inside the clip frame. Overlays already inside the frame are
// returned unchanged; overlays are never upscaled. Results are rounded down
// to even values for codec compatibility.
func FitWithin(overlayW, overlayH, frameW, frameH int) (int, int) {
	if overlayW <= frameW && overlayH <= frameH {
		return overlayW, overlayH
	}

	widthRatio := float64(frameW) / float64(overlayW)
	heightRatio := float64(frameH) / float64(overlayH)
	scale := widthRatio
	if heightRatio < scale {
		scale = heightRatio
	}

	w := int(float64(overlayW) * scale)
	h := int(float64(overlayH) * scale)
	w -= w % 2
	h -= h % 2
	if w < 2 {
		w = 2
	}
	if h < 2 {
		h = 2
	}
	return w, h
}
