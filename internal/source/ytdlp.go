package source

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"github.com/pkg/errors"
)

// Install makes sure a yt-dlp binary is available, downloading one when the
// host has none. Best effort: a failure here only matters if the binary is
// truly absent, which the first listing call will surface.
func Install(ctx context.Context) error {
	_, err := ytdlp.Install(ctx, nil)
	return err
}

// YtdlpLister lists a profile's entries without downloading them.
type YtdlpLister struct {
	Timeout time.Duration
}

type flatEntry struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	WebpageURL string `json:"webpage_url"`
}

// List returns up to limit entries, most recent first. Null or URL-less
// entries in the extractor output are skipped.
func (l *YtdlpLister) List(ctx context.Context, profileURL string, limit int) ([]RemoteEntry, error) {
	cmd := ytdlp.New().
		FlatPlaylist().
		DumpJSON().
		PlaylistEnd(limit).
		IgnoreErrors().
		NoWarnings().
		SocketTimeout(l.Timeout.Seconds())

	res, err := cmd.Run(ctx, profileURL)
	if err != nil {
		return nil, errors.Wrap(err, "listing profile entries")
	}

	var entries []RemoteEntry
	for _, line := range strings.Split(res.Stdout, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var e flatEntry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			continue
		}
		url := e.WebpageURL
		if url == "" {
			url = e.URL
		}
		if url == "" {
			continue
		}
		entries = append(entries, RemoteEntry{ID: e.ID, Title: e.Title, URL: url})
		if len(entries) == limit {
			break
		}
	}
	return entries, nil
}

// YtdlpDownloader fetches one entry to a local file.
type YtdlpDownloader struct {
	Timeout time.Duration
}

// Download fetches entry into destPattern, a yt-dlp output template whose
// only placeholder is %(ext)s, and returns the resolved file path.
func (d *YtdlpDownloader) Download(ctx context.Context, entry RemoteEntry, destPattern string) (string, error) {
	cmd := ytdlp.New().
		Format("best[ext=mp4]").
		Output(destPattern).
		NoWarnings().
		Quiet().
		SocketTimeout(d.Timeout.Seconds())

	if _, err := cmd.Run(ctx, entry.URL); err != nil {
		return "", errors.Wrapf(err, "downloading %s", entry.URL)
	}

	matches, err := filepath.Glob(strings.Replace(destPattern, "%(ext)s", "*", 1))
	if err != nil {
		return "", errors.WithStack(err)
	}
	if len(matches) == 0 {
		return "", errors.Errorf("download produced no file for %s", entry.URL)
	}
	return matches[0], nil
}
