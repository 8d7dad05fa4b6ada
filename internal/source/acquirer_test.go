package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	entries []RemoteEntry
	err     error
}

func (f *fakeLister) List(_ context.Context, _ string, limit int) ([]RemoteEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.entries) > limit {
		return f.entries[:limit], nil
	}
	return f.entries, nil
}

type fakeDownloader struct {
	failURLs map[string]bool
	patterns []string
}

func (f *fakeDownloader) Download(_ context.Context, entry RemoteEntry, destPattern string) (string, error) {
	f.patterns = append(f.patterns, destPattern)
	if f.failURLs[entry.URL] {
		return "", errors.New("connection reset")
	}
	path := strings.Replace(destPattern, "%(ext)s", "mp4", 1)
	if err := os.WriteFile(path, []byte("video"), 0644); err != nil {
		return "", err
	}
	return path, nil
}

type listValidator struct {
	badPaths map[string]bool
}

func (v *listValidator) Validate(path string) bool {
	return !v.badPaths[filepath.Base(path)]
}

func entriesN(n int) []RemoteEntry {
	out := make([]RemoteEntry, n)
	for i := range out {
		out[i] = RemoteEntry{
			ID:    string(rune('a' + i)),
			Title: "clip",
			URL:   "https://example.test/v/" + string(rune('a'+i)),
		}
	}
	return out
}

func TestAcquireDownloadsAndValidates(t *testing.T) {
	staging := t.TempDir()
	a := NewAcquirer(
		&fakeLister{entries: entriesN(3)},
		&fakeDownloader{},
		&listValidator{},
		staging, false, zerolog.Nop(),
	)

	items, err := a.Acquire(context.Background(), "profile", 3)
	require.NoError(t, err)
	require.Len(t, items, 3)

	for i, item := range items {
		assert.Equal(t, i+1, item.Ordinal)
		assert.FileExists(t, item.LocalPath)
		assert.Contains(t, filepath.Base(item.LocalPath), "source_00")
	}
}

func TestAcquireOrdinalNamingIsZeroPadded(t *testing.T) {
	staging := t.TempDir()
	dl := &fakeDownloader{}
	a := NewAcquirer(&fakeLister{entries: entriesN(2)}, dl, &listValidator{}, staging, false, zerolog.Nop())

	_, err := a.Acquire(context.Background(), "profile", 2)
	require.NoError(t, err)
	require.Len(t, dl.patterns, 2)
	assert.Contains(t, dl.patterns[0], "source_001.%(ext)s")
	assert.Contains(t, dl.patterns[1], "source_002.%(ext)s")
}

func TestAcquireFetchFailureSkipsEntry(t *testing.T) {
	staging := t.TempDir()
	entries := entriesN(3)
	dl := &fakeDownloader{failURLs: map[string]bool{entries[1].URL: true}}
	a := NewAcquirer(&fakeLister{entries: entries}, dl, &listValidator{}, staging, false, zerolog.Nop())

	items, err := a.Acquire(context.Background(), "profile", 3)
	require.NoError(t, err, "a single fetch failure never aborts the batch")
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].Ordinal)
	assert.Equal(t, 3, items[1].Ordinal, "ordinal tracks the discovery position, not the result index")
}

func TestAcquireInvalidDownloadIsDeleted(t *testing.T) {
	staging := t.TempDir()
	a := NewAcquirer(
		&fakeLister{entries: entriesN(2)},
		&fakeDownloader{},
		&listValidator{badPaths: map[string]bool{"source_001.mp4": true}},
		staging, false, zerolog.Nop(),
	)

	items, err := a.Acquire(context.Background(), "profile", 2)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.NoFileExists(t, filepath.Join(staging, "source_001.mp4"))
	assert.FileExists(t, filepath.Join(staging, "source_002.mp4"))
}

func TestAcquireCountBounds(t *testing.T) {
	a := NewAcquirer(&fakeLister{}, &fakeDownloader{}, &listValidator{}, t.TempDir(), false, zerolog.Nop())

	for _, n := range []int{0, -1, 51} {
		_, err := a.Acquire(context.Background(), "profile", n)
		assert.Error(t, err, "count %d", n)
	}
}

func TestAcquireDedupe(t *testing.T) {
	staging := t.TempDir()
	entries := []RemoteEntry{
		{ID: "x", URL: "https://example.test/v/x"},
		{ID: "x", URL: "https://example.test/v/x-mirror"},
		{ID: "y", URL: "https://example.test/v/y"},
	}
	a := NewAcquirer(&fakeLister{entries: entries}, &fakeDownloader{}, &listValidator{}, staging, true, zerolog.Nop())

	items, err := a.Acquire(context.Background(), "profile", 3)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestAcquireListingErrorIsFatal(t *testing.T) {
	a := NewAcquirer(&fakeLister{err: errors.New("extractor broke")}, &fakeDownloader{}, &listValidator{}, t.TempDir(), false, zerolog.Nop())

	_, err := a.Acquire(context.Background(), "profile", 5)
	assert.ErrorContains(t, err, "extractor broke")
}
