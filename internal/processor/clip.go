package processor

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/promoloop/video-pairer/internal/media"
	"github.com/promoloop/video-pairer/internal/pipeline"
	"github.com/promoloop/video-pairer/pkg/types"
	"github.com/rs/zerolog"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// clampMargin keeps the requested duration safely short of the last
// decodable frame boundary.
const clampMargin = 0.1

// minClipSeconds is the floor below which clamping never cuts.
const minClipSeconds = 1.0

// Processor clamps a source clip's duration, composites the optional
// overlay, and re-encodes to the fixed output profile. Every ffmpeg
// invocation is a fresh process, so no decoder state survives between
// items.
type Processor struct {
	stagingDir string
	maxSeconds float64
	overlay    *types.OverlaySpec
	encode     media.EncodeSettings
	log        zerolog.Logger
}

func New(stagingDir string, maxSeconds float64, overlay *types.OverlaySpec, encode media.EncodeSettings, log zerolog.Logger) *Processor {
	return &Processor{
		stagingDir: stagingDir,
		maxSeconds: maxSeconds,
		overlay:    overlay,
		encode:     encode,
		log:        log.With().Str("component", "processor").Logger(),
	}
}

// ClampDuration returns the duration a clip should be cut to. Durations at
// or under max pass through untouched; longer ones are clamped with a small
// margin before the final frame, never below the one-second floor.
func ClampDuration(actual, max float64) float64 {
	if actual <= max {
		return actual
	}
	safe := actual - clampMargin
	if safe > max {
		safe = max
	}
	if safe < minClipSeconds {
		safe = minClipSeconds
	}
	return safe
}

// Process produces the normalized, optionally overlaid version of one
// source item in the staging folder. Partial outputs and intermediate audio
// artifacts are removed on every exit path.
func (p *Processor) Process(item types.SourceItem) (clip *types.ProcessedClip, err error) {
	asset, err := media.Probe(item.LocalPath)
	if err != nil {
		return nil, &pipeline.AssetError{Path: item.LocalPath, Reason: err.Error()}
	}
	if asset.Duration <= 0 {
		return nil, &pipeline.AssetError{
			Path:   item.LocalPath,
			Reason: fmt.Sprintf("non-positive duration %.3f", asset.Duration),
		}
	}

	clamped := ClampDuration(asset.Duration, p.maxSeconds)
	base := sanitizeFilename(strings.TrimSuffix(filepath.Base(item.LocalPath), filepath.Ext(item.LocalPath)))
	outPath := filepath.Join(p.stagingDir, fmt.Sprintf("processed_%s.mp4", base))
	tempAudio := filepath.Join(p.stagingDir, fmt.Sprintf("%s.temp-audio.m4a", base))

	// The audio artifact is scratch either way; the output only survives a
	// fully successful encode.
	defer func() {
		if rmErr := os.Remove(tempAudio); rmErr != nil && !os.IsNotExist(rmErr) {
			p.log.Warn().Err(rmErr).Str("path", tempAudio).Msg("could not remove audio artifact")
		}
		if err != nil {
			_ = os.Remove(outPath)
		}
	}()

	p.log.Info().Int("ordinal", item.Ordinal).
		Float64("duration", asset.Duration).Float64("clamped", clamped).
		Bool("overlay", p.overlay != nil).
		Msg("processing clip")

	if err := p.writeAudioArtifact(item.LocalPath, tempAudio, clamped, asset.HasAudio); err != nil {
		return nil, &pipeline.EncodeError{Path: item.LocalPath, Err: err}
	}

	video := p.buildVideoStream(item.LocalPath, asset, clamped)
	audio := ffmpeg.Input(tempAudio)
	muxArgs := ffmpeg.KwArgs{
		"c:v":      p.encode.VideoCodec,
		"preset":   p.encode.Preset,
		"crf":      p.encode.CRF,
		"r":        p.encode.FrameRate,
		"pix_fmt":  p.encode.PixelFormat,
		"c:a":      "copy",
		"movflags": "+faststart",
		"threads":  media.OptimalThreadCount(),
	}
	if err := ffmpeg.Output([]*ffmpeg.Stream{video, audio}, outPath, muxArgs).
		OverWriteOutput().
		ErrorToStdOut().
		Run(); err != nil {
		return nil, p.classifyMuxError(outPath, err)
	}

	processed, err := media.Probe(outPath)
	if err != nil {
		return nil, &pipeline.EncodeError{Path: outPath, Err: err}
	}

	return &types.ProcessedClip{
		SourceOrdinal: item.Ordinal,
		Path:          outPath,
		Duration:      processed.Duration,
		Width:         processed.Width,
		Height:        processed.Height,
	}, nil
}

// classifyMuxError attributes a mux failure to the overlay graph when one is
// composited, otherwise to the encoder. The graph only runs as part of the
// mux, so this is the first point a composite failure can surface.
func (p *Processor) classifyMuxError(path string, err error) error {
	if p.overlay != nil {
		return &pipeline.CompositeError{Path: path, Err: err}
	}
	return &pipeline.EncodeError{Path: path, Err: err}
}

// buildVideoStream assembles the clamped video stream with the overlay
// composited centered over the full duration.
func (p *Processor) buildVideoStream(inputPath string, asset *types.VideoAsset, clamped float64) *ffmpeg.Stream {
	input := ffmpeg.Input(inputPath, ffmpeg.KwArgs{"t": fmt.Sprintf("%.3f", clamped)})
	video := input.Get("v")

	if p.overlay == nil {
		return video
	}

	fitW, fitH := FitWithin(p.overlay.Width, p.overlay.Height, asset.Width, asset.Height)
	overlay := ffmpeg.Input(p.overlay.ImagePath)
	if fitW != p.overlay.Width || fitH != p.overlay.Height {
		p.log.Debug().
			Int("from_w", p.overlay.Width).Int("from_h", p.overlay.Height).
			Int("to_w", fitW).Int("to_h", fitH).
			Msg("scaling overlay to fit frame")
		overlay = overlay.Filter("scale", ffmpeg.Args{fmt.Sprintf("%d:%d", fitW, fitH)})
	}

	return ffmpeg.Filter([]*ffmpeg.Stream{video, overlay}, "overlay", ffmpeg.Args{
		"x=(W-w)/2",
		"y=(H-h)/2",
	})
}

// writeAudioArtifact encodes the clamped audio track to a standalone m4a.
// Sources without audio get a generated silent track so every processed
// clip carries the same stream layout into pairing.
func (p *Processor) writeAudioArtifact(inputPath, tempAudio string, clamped float64, hasAudio bool) error {
	var audio *ffmpeg.Stream
	if hasAudio {
		audio = ffmpeg.Input(inputPath, ffmpeg.KwArgs{"t": fmt.Sprintf("%.3f", clamped)}).Get("a")
	} else {
		audio = ffmpeg.Input(
			fmt.Sprintf("anullsrc=channel_layout=stereo:sample_rate=%d", p.encode.AudioRate),
			ffmpeg.KwArgs{"f": "lavfi", "t": fmt.Sprintf("%.3f", clamped)},
		)
	}

	err := ffmpeg.Output([]*ffmpeg.Stream{audio}, tempAudio, p.encode.AudioArgs()).
		OverWriteOutput().
		Silent(true).
		Run()
	return errors.Wrap(err, "writing audio artifact")
}

var nonFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9-_.]`)
var repeatedUnderscores = regexp.MustCompile(`_+`)

func sanitizeFilename(filename string) string {
	sanitized := nonFilenameChars.ReplaceAllString(filename, "_")
	sanitized = repeatedUnderscores.ReplaceAllString(sanitized, "_")
	return strings.Trim(sanitized, "_")
}
