package processor

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/promoloop/video-pairer/internal/media"
	"github.com/promoloop/video-pairer/internal/pipeline"
	"github.com/promoloop/video-pairer/pkg/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestClampDuration(t *testing.T) {
	tests := []struct {
		name   string
		actual float64
		max    float64
		want   float64
	}{
		{"under max passes through", 8.0, 20.0, 8.0},
		{"exactly max passes through", 20.0, 20.0, 20.0},
		{"over max clamps to max", 30.0, 20.0, 20.0},
		{"barely over max keeps margin", 20.05, 20.0, 19.95},
		{"never clamps below one second", 1.05, 1.0, 1.0},
		{"short clip under max untouched", 0.5, 20.0, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ClampDuration(tt.actual, tt.max), 0.0001)
		})
	}
}

func TestClampDurationNeverExceedsMax(t *testing.T) {
	for _, d := range []float64{20.01, 25, 60, 600} {
		got := ClampDuration(d, 20)
		assert.LessOrEqual(t, got, 20.0, "duration %.2f", d)
		assert.GreaterOrEqual(t, got, 1.0, "duration %.2f", d)
	}
}

func TestFitWithin(t *testing.T) {
	tests := []struct {
		name                     string
		ovW, ovH, frameW, frameH int
		wantW, wantH             int
	}{
		{"fits untouched", 200, 50, 1080, 1920, 200, 50},
		{"never upscaled", 100, 100, 1920, 1080, 100, 100},
		{"too wide scales by width", 2000, 500, 1000, 1000, 1000, 250},
		{"too tall scales by height", 500, 2000, 1000, 1000, 250, 1000},
		{"both exceed uses smaller ratio", 4000, 2000, 1000, 200, 400, 200},
		{"result forced even", 1002, 1002, 501, 501, 500, 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := FitWithin(tt.ovW, tt.ovH, tt.frameW, tt.frameH)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
			assert.LessOrEqual(t, w, tt.frameW)
			assert.LessOrEqual(t, h, tt.frameH)
			assert.Zero(t, w%2)
			assert.Zero(t, h%2)
		})
	}
}

func TestClassifyMuxError(t *testing.T) {
	cause := errors.New("filter graph failed")
	encode := media.DefaultEncode(30)

	overlaid := New(t.TempDir(), 20, &types.OverlaySpec{ImagePath: "logo.png", Width: 100, Height: 100}, encode, zerolog.Nop())
	var compositeErr *pipeline.CompositeError
	assert.ErrorAs(t, overlaid.classifyMuxError("clip.mp4", cause), &compositeErr)

	plain := New(t.TempDir(), 20, nil, encode, zerolog.Nop())
	var encodeErr *pipeline.EncodeError
	assert.ErrorAs(t, plain.classifyMuxError("clip.mp4", cause), &encodeErr)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"source_001", "source_001"},
		{"my video (1)", "my_video_1"},
		{"__weird___name__", "weird_name"},
		{"clip#@!.mp4", "clip_.mp4"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeFilename(tt.in), "input %q", tt.in)
	}
}
