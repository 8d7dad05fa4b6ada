package composer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReconcileMatchingResolutions(t *testing.T) {
	_, needed := Reconcile(1920, 1080, 1920, 1080)
	assert.False(t, needed)
}

func TestReconcilePortraitToLandscape(t *testing.T) {
	// 9:16 clip into a 1920x1080 payload frame: scale by width ratio,
	// crop the vertical overshoot centered.
	plan, needed := Reconcile(1080, 1920, 1920, 1080)
	assert.True(t, needed)

	assert.Equal(t, 1920, plan.ScaleW)
	assert.GreaterOrEqual(t, plan.ScaleH, 1080)
	assert.Equal(t, 0, plan.CropX)
	assert.Equal(t, (plan.ScaleH-1080)/2, plan.CropY)
}

func TestReconcileLandscapeToPortrait(t *testing.T) {
	plan, needed := Reconcile(1920, 1080, 1080, 1920)
	assert.True(t, needed)

	assert.GreaterOrEqual(t, plan.ScaleW, 1080)
	assert.Equal(t, 1920, plan.ScaleH)
	assert.Equal(t, (plan.ScaleW-1080)/2, plan.CropX)
	assert.Equal(t, 0, plan.CropY)
}

func TestReconcileCoversTarget(t *testing.T) {
	cases := []struct{ sw, sh, tw, th int }{
		{1080, 1920, 1920, 1080},
		{720, 1280, 1920, 1080},
		{640, 480, 1080, 1920},
		{3840, 2160, 1280, 720},
		{1918, 1080, 1920, 1080},
	}
	for _, c := range cases {
		plan, needed := Reconcile(c.sw, c.sh, c.tw, c.th)
		if !needed {
			continue
		}
		// The scaled frame must cover the target so the centered crop
		// stays inside it, and even dimensions must survive.
		assert.GreaterOrEqual(t, plan.ScaleW, c.tw, "case %+v", c)
		assert.GreaterOrEqual(t, plan.ScaleH, c.th, "case %+v", c)
		assert.Zero(t, plan.ScaleW%2, "case %+v", c)
		assert.Zero(t, plan.ScaleH%2, "case %+v", c)
		assert.GreaterOrEqual(t, plan.CropX, 0, "case %+v", c)
		assert.GreaterOrEqual(t, plan.CropY, 0, "case %+v", c)
		assert.LessOrEqual(t, plan.CropX+c.tw, plan.ScaleW, "case %+v", c)
		assert.LessOrEqual(t, plan.CropY+c.th, plan.ScaleH, "case %+v", c)
	}
}

func TestPairName(t *testing.T) {
	assert.Equal(t, "video_pair_01.mp4", PairName(1))
	assert.Equal(t, "video_pair_12.mp4", PairName(12))
}
