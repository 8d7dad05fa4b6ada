package pipeline

import (
	"fmt"
	"strings"
)

// Per-item failure taxonomy. Each of these is caught at the item boundary,
// logged, and converted into "this item is dropped from the batch"; none of
// them aborts the run.

// FetchError marks one remote entry as unreachable or unfetchable.
type FetchError struct {
	Ordinal int
	URL     string
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed for entry %d (%s): %v", e.Ordinal, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// AssetError marks a file as undecodable or carrying non-positive
// duration, frame rate or dimensions.
type AssetError struct {
	Path   string
	Reason string
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("invalid asset %s: %s", e.Path, e.Reason)
}

// CompositeError marks an overlay load, resize or composite failure.
type CompositeError struct {
	Path string
	Err  error
}

func (e *CompositeError) Error() string {
	return fmt.Sprintf("compositing failed for %s: %v", e.Path, e.Err)
}

func (e *CompositeError) Unwrap() error { return e.Err }

// EncodeError marks a container or codec write failure.
type EncodeError struct {
	Path string
	Err  error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encoding failed for %s: %v", e.Path, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// BatchError is a run-level fatal condition, reported to the user together
// with remediation guidance.
type BatchError struct {
	Condition string
	Guidance  []string
}

func (e *BatchError) Error() string { return e.Condition }

// GuidanceText renders the remediation steps as a numbered list.
func (e *BatchError) GuidanceText() string {
	var sb strings.Builder
	for i, g := range e.Guidance {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, g)
	}
	return sb.String()
}

// NoPayloadError reports an empty input folder.
func NoPayloadError(inputDir string, extensions []string) *BatchError {
	return &BatchError{
		Condition: fmt.Sprintf("no payload video found in %s", inputDir),
		Guidance: []string{
			"Place exactly one video file in the input folder",
			fmt.Sprintf("Supported formats: %s", strings.Join(extensions, ", ")),
			"Rename the file if it is missing a proper extension",
			"Make sure the file is not corrupted or partially copied",
		},
	}
}

// CorruptPayloadError reports an unreadable payload video.
func CorruptPayloadError(path string) *BatchError {
	return &BatchError{
		Condition: fmt.Sprintf("payload video %s is corrupted or unreadable", path),
		Guidance: []string{
			"Re-download or re-copy the video file",
			"Convert the video to MP4 with a video converter",
			"Check that the file is completely downloaded, not partial",
			"Try a different video file",
			"Make sure the video is not DRM-protected",
		},
	}
}

// NoDownloadsError reports that no remote entry survived download and
// validation.
func NoDownloadsError(profileURL string) *BatchError {
	return &BatchError{
		Condition: fmt.Sprintf("no videos downloaded from %s", profileURL),
		Guidance: []string{
			"Check that the profile URL is correct and public",
			"The profile may have no videos, or all downloads failed",
			"Retry later; the platform may be rate-limiting downloads",
		},
	}
}

// NoPairsError reports that every pairing attempt failed.
func NoPairsError() *BatchError {
	return &BatchError{
		Condition: "no video pairs were created",
		Guidance: []string{
			"Check the log for per-item processing and pairing failures",
			"Verify the payload video decodes cleanly",
		},
	}
}
