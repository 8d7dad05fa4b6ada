package types

// SourceItem tracks one remote profile entry from discovery through download
// and validation. LocalPath is set once the entry has been fetched.
type SourceItem struct {
	ID        string
	Title     string
	RemoteURL string
	LocalPath string
	Ordinal   int
}

// VideoAsset is a read-only snapshot of a probed media file. It is derived,
// never mutated; re-probing yields a new value.
type VideoAsset struct {
	Path      string
	Duration  float64 // seconds
	FrameRate float64
	Width     int
	Height    int
	HasAudio  bool
	Decodable bool
}

// OverlaySpec describes the single optional overlay image for a run. The
// overlay is composited centered and is only ever scaled down to fit the
// clip frame.
type OverlaySpec struct {
	ImagePath string
	Width     int
	Height    int
}

// ProcessedClip is the output of clip processing, consumed exactly once by
// the pair composer.
type ProcessedClip struct {
	SourceOrdinal int
	Path          string
	Duration      float64
	Width         int
	Height        int
}

// VideoPair is a terminal output file: one processed clip followed by the
// payload clip.
type VideoPair struct {
	Ordinal  int
	Path     string
	Duration float64
}
