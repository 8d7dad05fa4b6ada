package media

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/promoloop/video-pairer/pkg/types"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Probe inspects a media file with ffprobe and returns its asset snapshot.
// The file is never modified.
func Probe(path string) (*types.VideoAsset, error) {
	raw, err := ffmpeg.Probe(path)
	if err != nil {
		return nil, errors.Wrapf(err, "probing %s", path)
	}
	asset, err := parseProbe(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing probe of %s", path)
	}
	asset.Path = path
	return asset, nil
}

// parseProbe extracts duration, frame rate, dimensions and audio presence
// from raw ffprobe JSON. Duration falls back from the video stream to the
// container format to a frame-count estimate, in that order.
func parseProbe(raw string) (*types.VideoAsset, error) {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, errors.WithStack(err)
	}

	streams, ok := data["streams"].([]interface{})
	if !ok || len(streams) == 0 {
		return nil, errors.New("no streams found")
	}

	var videoStream map[string]interface{}
	hasAudio := false
	for _, stream := range streams {
		s, ok := stream.(map[string]interface{})
		if !ok {
			continue
		}
		switch s["codec_type"] {
		case "video":
			if videoStream == nil {
				videoStream = s
			}
		case "audio":
			hasAudio = true
		}
	}
	if videoStream == nil {
		return nil, errors.New("no video stream found")
	}

	frameRate := parseFrameRate(videoStream)

	var duration float64
	if durationStr, ok := videoStream["duration"].(string); ok {
		if d, err := strconv.ParseFloat(strings.TrimSpace(durationStr), 64); err == nil {
			duration = d
		}
	}
	if duration == 0 {
		if format, ok := data["format"].(map[string]interface{}); ok {
			if durationStr, ok := format["duration"].(string); ok {
				if d, err := strconv.ParseFloat(strings.TrimSpace(durationStr), 64); err == nil {
					duration = d
				}
			}
		}
	}
	if duration == 0 && frameRate > 0 {
		if nbFrames, ok := videoStream["nb_frames"].(string); ok {
			if frames, err := strconv.ParseFloat(nbFrames, 64); err == nil {
				duration = frames / frameRate
			}
		}
	}

	width, _ := videoStream["width"].(float64)
	height, _ := videoStream["height"].(float64)

	return &types.VideoAsset{
		Duration:  duration,
		FrameRate: frameRate,
		Width:     int(width),
		Height:    int(height),
		HasAudio:  hasAudio,
	}, nil
}

// parseFrameRate reads r_frame_rate (falling back to avg_frame_rate) as a
// "num/den" rational.
func parseFrameRate(videoStream map[string]interface{}) float64 {
	for _, key := range []string{"r_frame_rate", "avg_frame_rate"} {
		s, ok := videoStream[key].(string)
		if !ok {
			continue
		}
		if rate := parseRational(s); rate > 0 {
			return rate
		}
	}
	return 0
}

func parseRational(s string) float64 {
	nums := strings.Split(s, "/")
	if len(nums) != 2 {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return v
		}
		return 0
	}
	num, err1 := strconv.ParseFloat(nums[0], 64)
	den, err2 := strconv.ParseFloat(nums[1], 64)
	if err1 != nil || err2 != nil || den == 0 {
		return 0
	}
	return num / den
}
