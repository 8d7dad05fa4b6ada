package pipeline

import (
	"context"

	"github.com/promoloop/video-pairer/pkg/types"
	"github.com/rs/zerolog"
)

// Source yields validated local video files for a profile.
type Source interface {
	Acquire(ctx context.Context, profileURL string, maxCount int) ([]types.SourceItem, error)
}

// ClipStage normalizes one source item.
type ClipStage interface {
	Process(item types.SourceItem) (*types.ProcessedClip, error)
}

// PairStage splices one processed clip with the payload.
type PairStage interface {
	Compose(clip types.ProcessedClip, ordinal int) (*types.VideoPair, error)
}

// Runner drives one batch through acquisition, processing and pairing.
// Items run strictly sequentially; a failure in any stage drops that item
// and the batch continues.
type Runner struct {
	source Source
	clips  ClipStage
	pairs  PairStage
	log    zerolog.Logger
}

func NewRunner(source Source, clips ClipStage, pairs PairStage, log zerolog.Logger) *Runner {
	return &Runner{
		source: source,
		clips:  clips,
		pairs:  pairs,
		log:    log.With().Str("component", "pipeline").Logger(),
	}
}

// Run executes the batch. It returns stats alongside any batch-fatal error;
// per-item failures only show up in the stats and the log.
func (r *Runner) Run(ctx context.Context, profileURL string, maxCount int) (*RunStats, error) {
	stats := &RunStats{}

	items, err := r.source.Acquire(ctx, profileURL, maxCount)
	if err != nil {
		return stats, err
	}
	if len(items) == 0 {
		return stats, NoDownloadsError(profileURL)
	}
	stats.Acquired = len(items)

	var processed []types.ProcessedClip
	for _, item := range items {
		clip, err := r.clips.Process(item)
		if err != nil {
			r.log.Warn().Err(err).Int("ordinal", item.Ordinal).Msg("item dropped during processing")
			stats.Failed++
			continue
		}
		processed = append(processed, *clip)
	}
	stats.Processed = len(processed)

	for i, clip := range processed {
		ordinal := i + 1
		pair, err := r.pairs.Compose(clip, ordinal)
		if err != nil {
			r.log.Warn().Err(err).Int("ordinal", ordinal).Msg("pair dropped")
			stats.Failed++
			continue
		}
		stats.Paired++
		r.log.Debug().Str("path", pair.Path).Msg("pair complete")
	}

	if stats.Paired == 0 {
		return stats, NoPairsError()
	}

	r.log.Info().Str("stats", stats.String()).Msg("batch finished")
	return stats, nil
}
