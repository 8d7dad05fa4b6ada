package media

import (
	"fmt"

	"github.com/promoloop/video-pairer/pkg/types"
	"github.com/rs/zerolog"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Validator confirms a local video file is decodable end to end. Probing
// alone is not enough: a partially downloaded file often carries an intact
// header while its interior frames are garbage, so the check also decodes
// one frame at the temporal midpoint.
type Validator struct {
	probe  func(path string) (*types.VideoAsset, error)
	decode func(path string, offset float64) error
	log    zerolog.Logger
}

func NewValidator(log zerolog.Logger) *Validator {
	return &Validator{
		probe:  Probe,
		decode: decodeFrameAt,
		log:    log.With().Str("component", "validator").Logger(),
	}
}

// Validate reports whether path holds a well-formed, decodable video. It
// never mutates the file; failures are logged with the offending property.
func (v *Validator) Validate(path string) bool {
	asset, err := v.Inspect(path)
	if err != nil {
		v.log.Warn().Err(err).Str("path", path).Msg("validation failed")
		return false
	}
	return asset.Decodable
}

// Inspect probes path and attempts the midpoint decode, returning the full
// asset snapshot with Decodable set accordingly.
func (v *Validator) Inspect(path string) (*types.VideoAsset, error) {
	asset, err := v.probe(path)
	if err != nil {
		return nil, err
	}

	switch {
	case asset.Duration <= 0:
		v.log.Warn().Str("path", path).Float64("duration", asset.Duration).Msg("invalid duration")
		return asset, nil
	case asset.FrameRate <= 0:
		v.log.Warn().Str("path", path).Float64("fps", asset.FrameRate).Msg("invalid frame rate")
		return asset, nil
	case asset.Width <= 0 || asset.Height <= 0:
		v.log.Warn().Str("path", path).
			Int("width", asset.Width).Int("height", asset.Height).Msg("invalid dimensions")
		return asset, nil
	}

	if err := v.decode(path, asset.Duration/2); err != nil {
		v.log.Warn().Err(err).Str("path", path).Msg("midpoint frame not decodable")
		return asset, nil
	}

	asset.Decodable = true
	v.log.Debug().Str("path", path).
		Float64("duration", asset.Duration).
		Int("width", asset.Width).Int("height", asset.Height).
		Msg("validation passed")
	return asset, nil
}

// decodeFrameAt decodes exactly one frame at the given offset, discarding
// the output through the null muxer.
func decodeFrameAt(path string, offset float64) error {
	return ffmpeg.Input(path, ffmpeg.KwArgs{"ss": fmt.Sprintf("%.3f", offset)}).
		Output("pipe:", ffmpeg.KwArgs{"frames:v": 1, "f": "null"}).
		Silent(true).
		Run()
}
