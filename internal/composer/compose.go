package composer

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/promoloop/video-pairer/internal/media"
	"github.com/promoloop/video-pairer/internal/pipeline"
	"github.com/promoloop/video-pairer/pkg/types"
	"github.com/rs/zerolog"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Composer splices each processed clip with the fixed payload clip. The
// payload's resolution is the pairing target; mismatched clips are scaled
// to fill and center-cropped so the output never shows empty borders.
type Composer struct {
	payloadPath string
	outputDir   string
	encode      media.EncodeSettings
	log         zerolog.Logger
}

// New probes the payload once to confirm it is usable and logs its
// properties. Pairing itself re-opens the payload fresh every time; decoder
// state is never shared across pairs.
func New(payloadPath, outputDir string, encode media.EncodeSettings, log zerolog.Logger) (*Composer, error) {
	asset, err := media.Probe(payloadPath)
	if err != nil {
		return nil, errors.Wrap(err, "probing payload video")
	}
	if asset.Duration <= 0 || asset.Width <= 0 || asset.Height <= 0 {
		return nil, errors.Errorf("payload video %s has invalid properties", payloadPath)
	}

	c := &Composer{
		payloadPath: payloadPath,
		outputDir:   outputDir,
		encode:      encode,
		log:         log.With().Str("component", "composer").Logger(),
	}
	c.log.Info().
		Int("width", asset.Width).Int("height", asset.Height).
		Float64("duration", asset.Duration).
		Msg("payload video ready")
	return c, nil
}

// ReconcilePlan computes the fill-and-crop transform that maps a source
// resolution onto the target. The scale factor is the larger of the two
// axis ratios, so the scaled frame always covers the target; the crop is
// centered. needed is false when the resolutions already match.
type ReconcilePlan struct {
	ScaleW, ScaleH int
	CropX, CropY   int
}

func Reconcile(srcW, srcH, targetW, targetH int) (ReconcilePlan, bool) {
	if srcW == targetW && srcH == targetH {
		return ReconcilePlan{}, false
	}

	scale := math.Max(float64(targetW)/float64(srcW), float64(targetH)/float64(srcH))
	// The tolerance keeps exact ratios from ceiling up an extra pixel.
	scaleW := int(math.Ceil(float64(srcW)*scale - 1e-9))
	scaleH := int(math.Ceil(float64(srcH)*scale - 1e-9))
	// Even dimensions keep yuv420p encoders happy, and must stay >= target
	// so the crop never exceeds the frame.
	if scaleW%2 != 0 {
		scaleW++
	}
	if scaleH%2 != 0 {
		scaleH++
	}
	if scaleW < targetW {
		scaleW = targetW
	}
	if scaleH < targetH {
		scaleH = targetH
	}

	return ReconcilePlan{
		ScaleW: scaleW,
		ScaleH: scaleH,
		CropX:  (scaleW - targetW) / 2,
		CropY:  (scaleH - targetH) / 2,
	}, true
}

// PairName returns the fixed zero-padded output name for an ordinal.
func PairName(ordinal int) string {
	return fmt.Sprintf("video_pair_%02d.mp4", ordinal)
}

// Compose concatenates one processed clip with the payload clip and encodes
// the pair. Both inputs are opened fresh. A failure drops only this pair;
// partial outputs are removed.
func (c *Composer) Compose(clip types.ProcessedClip, ordinal int) (pair *types.VideoPair, err error) {
	clipAsset, err := media.Probe(clip.Path)
	if err != nil {
		return nil, &pipeline.AssetError{Path: clip.Path, Reason: err.Error()}
	}
	payloadAsset, err := media.Probe(c.payloadPath)
	if err != nil {
		return nil, &pipeline.AssetError{Path: c.payloadPath, Reason: err.Error()}
	}
	if clipAsset.Duration <= 0 || payloadAsset.Duration <= 0 {
		return nil, &pipeline.AssetError{
			Path:   clip.Path,
			Reason: "non-positive duration in pair inputs",
		}
	}

	outPath := filepath.Join(c.outputDir, PairName(ordinal))
	defer func() {
		if err != nil {
			_ = os.Remove(outPath)
		}
	}()

	main := ffmpeg.Input(clip.Path)
	payload := ffmpeg.Input(c.payloadPath)

	clipVideo := main.Get("v")
	plan, needed := Reconcile(clipAsset.Width, clipAsset.Height, payloadAsset.Width, payloadAsset.Height)
	if needed {
		c.log.Info().Int("ordinal", ordinal).
			Str("from", fmt.Sprintf("%dx%d", clipAsset.Width, clipAsset.Height)).
			Str("to", fmt.Sprintf("%dx%d", payloadAsset.Width, payloadAsset.Height)).
			Msg("reconciling resolution with fill and crop")
		clipVideo = clipVideo.
			Filter("scale", ffmpeg.Args{fmt.Sprintf("%d:%d", plan.ScaleW, plan.ScaleH)}).
			Filter("crop", ffmpeg.Args{fmt.Sprintf("%d:%d:%d:%d",
				payloadAsset.Width, payloadAsset.Height, plan.CropX, plan.CropY)})
	}
	clipVideo = clipVideo.Filter("setsar", ffmpeg.Args{"1"})
	payloadVideo := payload.Get("v").Filter("setsar", ffmpeg.Args{"1"})

	// Processed clips always carry audio; a payload without any demotes the
	// pair to video-only concatenation.
	var concat *ffmpeg.Stream
	if payloadAsset.HasAudio {
		concat = ffmpeg.Filter(
			[]*ffmpeg.Stream{clipVideo, main.Get("a"), payloadVideo, payload.Get("a")},
			"concat", ffmpeg.Args{"n=2", "v=1", "a=1"})
	} else {
		c.log.Warn().Int("ordinal", ordinal).Msg("payload has no audio, pairing video only")
		concat = ffmpeg.Filter(
			[]*ffmpeg.Stream{clipVideo, payloadVideo},
			"concat", ffmpeg.Args{"n=2", "v=1", "a=0"})
	}

	if err := concat.Output(outPath, c.encode.OutputArgs()).
		OverWriteOutput().
		ErrorToStdOut().
		Run(); err != nil {
		return nil, &pipeline.EncodeError{Path: outPath, Err: err}
	}

	result, err := media.Probe(outPath)
	if err != nil {
		return nil, &pipeline.EncodeError{Path: outPath, Err: err}
	}

	c.log.Info().Int("ordinal", ordinal).Str("path", outPath).
		Float64("duration", result.Duration).Msg("pair created")
	return &types.VideoPair{Ordinal: ordinal, Path: outPath, Duration: result.Duration}, nil
}
