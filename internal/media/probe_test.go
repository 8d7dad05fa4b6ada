package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wellFormedProbe = `{
	"streams": [
		{
			"codec_type": "video",
			"codec_name": "h264",
			"width": 1080,
			"height": 1920,
			"duration": "30.500000",
			"r_frame_rate": "30/1"
		},
		{
			"codec_type": "audio",
			"codec_name": "aac"
		}
	],
	"format": {"duration": "30.533000"}
}`

func TestParseProbeWellFormed(t *testing.T) {
	asset, err := parseProbe(wellFormedProbe)
	require.NoError(t, err)

	assert.InDelta(t, 30.5, asset.Duration, 0.001)
	assert.InDelta(t, 30.0, asset.FrameRate, 0.001)
	assert.Equal(t, 1080, asset.Width)
	assert.Equal(t, 1920, asset.Height)
	assert.True(t, asset.HasAudio)
	assert.False(t, asset.Decodable, "probe alone never marks an asset decodable")
}

func TestParseProbeFormatDurationFallback(t *testing.T) {
	raw := `{
		"streams": [
			{"codec_type": "video", "width": 640, "height": 480, "r_frame_rate": "25/1"}
		],
		"format": {"duration": "12.000000"}
	}`
	asset, err := parseProbe(raw)
	require.NoError(t, err)
	assert.InDelta(t, 12.0, asset.Duration, 0.001)
}

func TestParseProbeFrameCountFallback(t *testing.T) {
	raw := `{
		"streams": [
			{"codec_type": "video", "width": 640, "height": 480,
			 "r_frame_rate": "30/1", "nb_frames": "300"}
		],
		"format": {}
	}`
	asset, err := parseProbe(raw)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, asset.Duration, 0.001)
}

func TestParseProbeNoVideoStream(t *testing.T) {
	raw := `{"streams": [{"codec_type": "audio"}], "format": {}}`
	_, err := parseProbe(raw)
	assert.Error(t, err)
}

func TestParseProbeNoStreams(t *testing.T) {
	_, err := parseProbe(`{"format": {}}`)
	assert.Error(t, err)
}

func TestParseProbeNoAudio(t *testing.T) {
	raw := `{
		"streams": [
			{"codec_type": "video", "width": 640, "height": 480,
			 "duration": "5.0", "r_frame_rate": "24/1"}
		],
		"format": {}
	}`
	asset, err := parseProbe(raw)
	require.NoError(t, err)
	assert.False(t, asset.HasAudio)
}

func TestParseRational(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"30/1", 30},
		{"30000/1001", 29.97002997},
		{"0/0", 0},
		{"bogus", 0},
		{"24", 24},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, parseRational(tt.in), 0.001, "input %q", tt.in)
	}
}

func TestParseProbeAvgFrameRateFallback(t *testing.T) {
	raw := `{
		"streams": [
			{"codec_type": "video", "width": 640, "height": 480,
			 "duration": "5.0", "r_frame_rate": "0/0", "avg_frame_rate": "25/1"}
		],
		"format": {}
	}`
	asset, err := parseProbe(raw)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, asset.FrameRate, 0.001)
}
