package media

import (
	"math"
	"runtime"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// EncodeSettings is the single fixed output profile every stage encodes
// with. One consistent codec, container and frame rate keeps downstream
// concatenation free of stream-parameter mismatches.
type EncodeSettings struct {
	VideoCodec    string
	AudioCodec    string
	FrameRate     int
	PixelFormat   string
	Preset        string
	CRF           int
	AudioBitrate  string
	AudioRate     int
	AudioChannels int
}

// DefaultEncode returns the mp4 profile used for processed clips and final
// pairs.
func DefaultEncode(fps int) EncodeSettings {
	return EncodeSettings{
		VideoCodec:    "libx264",
		AudioCodec:    "aac",
		FrameRate:     fps,
		PixelFormat:   "yuv420p",
		Preset:        "medium",
		CRF:           23,
		AudioBitrate:  "128k",
		AudioRate:     44100,
		AudioChannels: 2,
	}
}

// OutputArgs renders the profile as ffmpeg output options.
func (e EncodeSettings) OutputArgs() ffmpeg.KwArgs {
	return ffmpeg.KwArgs{
		"c:v":      e.VideoCodec,
		"c:a":      e.AudioCodec,
		"preset":   e.Preset,
		"crf":      e.CRF,
		"r":        e.FrameRate,
		"pix_fmt":  e.PixelFormat,
		"b:a":      e.AudioBitrate,
		"ar":       e.AudioRate,
		"ac":       e.AudioChannels,
		"movflags": "+faststart",
		"threads":  OptimalThreadCount(),
	}
}

// AudioArgs renders the audio-only options used for intermediate audio
// artifacts.
func (e EncodeSettings) AudioArgs() ffmpeg.KwArgs {
	return ffmpeg.KwArgs{
		"c:a": e.AudioCodec,
		"b:a": e.AudioBitrate,
		"ar":  e.AudioRate,
		"ac":  e.AudioChannels,
	}
}

// OptimalThreadCount uses 75% of available cores to prevent overload.
func OptimalThreadCount() int {
	cpuCount := runtime.NumCPU()
	return int(math.Max(1, float64(cpuCount)*0.75))
}
