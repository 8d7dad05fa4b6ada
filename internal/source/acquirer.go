package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/promoloop/video-pairer/internal/config"
	"github.com/promoloop/video-pairer/internal/pipeline"
	"github.com/promoloop/video-pairer/pkg/types"
	"github.com/rs/zerolog"
)

// RemoteEntry is one discovered item of a profile's collection.
type RemoteEntry struct {
	ID    string
	Title string
	URL   string
}

// Lister enumerates a profile's entries, most recent first.
type Lister interface {
	List(ctx context.Context, profileURL string, limit int) ([]RemoteEntry, error)
}

// Downloader fetches one entry into destPattern and returns the local path.
type Downloader interface {
	Download(ctx context.Context, entry RemoteEntry, destPattern string) (string, error)
}

// FileValidator gates downloaded files before they enter the batch.
type FileValidator interface {
	Validate(path string) bool
}

// Acquirer turns a profile locator into validated local video files. A
// failure on any single entry is logged and skipped; only listing itself
// can fail the whole acquisition.
type Acquirer struct {
	lister     Lister
	downloader Downloader
	validator  FileValidator
	stagingDir string
	dedupe     bool
	log        zerolog.Logger
}

func NewAcquirer(lister Lister, downloader Downloader, validator FileValidator, stagingDir string, dedupe bool, log zerolog.Logger) *Acquirer {
	return &Acquirer{
		lister:     lister,
		downloader: downloader,
		validator:  validator,
		stagingDir: stagingDir,
		dedupe:     dedupe,
		log:        log.With().Str("component", "acquirer").Logger(),
	}
}

// Acquire downloads up to maxCount validated videos from profileURL. The
// result may be shorter than maxCount when entries fail to download or
// validate; callers must treat the shortfall as expected.
func (a *Acquirer) Acquire(ctx context.Context, profileURL string, maxCount int) ([]types.SourceItem, error) {
	if maxCount < config.MinSourceCount || maxCount > config.MaxSourceCount {
		return nil, errors.Errorf("count must be between %d and %d, got %d",
			config.MinSourceCount, config.MaxSourceCount, maxCount)
	}

	entries, err := a.lister.List(ctx, profileURL, maxCount)
	if err != nil {
		return nil, errors.Wrap(err, "listing profile")
	}
	if a.dedupe {
		entries = dedupeEntries(entries)
	}
	a.log.Info().Int("entries", len(entries)).Str("profile", profileURL).Msg("profile listed")

	var items []types.SourceItem
	for i, entry := range entries {
		ordinal := i + 1
		destPattern := filepath.Join(a.stagingDir, fmt.Sprintf("source_%03d.%%(ext)s", ordinal))

		a.log.Info().Int("ordinal", ordinal).Str("title", entry.Title).Msg("downloading")
		localPath, err := a.downloader.Download(ctx, entry, destPattern)
		if err != nil {
			fetchErr := &pipeline.FetchError{Ordinal: ordinal, URL: entry.URL, Err: err}
			a.log.Warn().Err(fetchErr).Msg("entry skipped")
			continue
		}

		if !a.validator.Validate(localPath) {
			a.log.Warn().Int("ordinal", ordinal).Str("path", localPath).
				Msg("downloaded file failed validation, discarding")
			if err := os.Remove(localPath); err != nil {
				a.log.Warn().Err(err).Str("path", localPath).Msg("could not remove invalid file")
			}
			continue
		}

		items = append(items, types.SourceItem{
			ID:        entry.ID,
			Title:     entry.Title,
			RemoteURL: entry.URL,
			LocalPath: localPath,
			Ordinal:   ordinal,
		})
		a.log.Info().Int("ordinal", ordinal).Str("path", localPath).Msg("downloaded")
	}

	a.log.Info().Int("requested", maxCount).Int("acquired", len(items)).Msg("acquisition finished")
	return items, nil
}

// dedupeEntries drops entries whose ID (or URL, when the extractor reports
// no ID) was already seen, preserving order.
func dedupeEntries(entries []RemoteEntry) []RemoteEntry {
	seen := make(map[string]bool, len(entries))
	out := entries[:0:0]
	for _, e := range entries {
		key := e.ID
		if key == "" {
			key = e.URL
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, e)
	}
	return out
}
