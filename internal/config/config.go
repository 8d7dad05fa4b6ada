package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Folder names under the workspace root. The pipeline owns temp entirely;
// input, overlay and output are the user-facing surfaces.
const (
	InputFolder   = "input"
	OverlayFolder = "overlay"
	TempFolder    = "temp"
	OutputFolder  = "output"
)

const (
	// MinSourceCount and MaxSourceCount bound how many profile entries one
	// run may request.
	MinSourceCount = 1
	MaxSourceCount = 50

	defaultMaxClipSeconds = 20.0
	defaultFetchTimeout   = 30 * time.Second
	defaultTargetFPS      = 30
)

// Environment variable names, optionally supplied through a .env file.
const (
	envWorkdir        = "VIDEO_PAIRER_WORKDIR"
	envMaxClipSeconds = "VIDEO_PAIRER_MAX_CLIP_SECONDS"
	envFetchTimeout   = "VIDEO_PAIRER_FETCH_TIMEOUT_SECONDS"
)

// Settings holds everything the pipeline needs to know about its
// environment: where the working folders live and the fixed processing
// parameters.
type Settings struct {
	Workdir        string
	MaxClipSeconds float64
	TargetFPS      int
	FetchTimeout   time.Duration
	Verbose        bool
}

// Load builds Settings from defaults overridden by the environment. A .env
// file next to the binary is honored when present; a missing one is not an
// error.
func Load() (*Settings, error) {
	_ = godotenv.Load()

	s := &Settings{
		Workdir:        ".",
		MaxClipSeconds: defaultMaxClipSeconds,
		TargetFPS:      defaultTargetFPS,
		FetchTimeout:   defaultFetchTimeout,
	}

	if v := os.Getenv(envWorkdir); v != "" {
		s.Workdir = v
	}
	if v := os.Getenv(envMaxClipSeconds); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid %s", envMaxClipSeconds)
		}
		s.MaxClipSeconds = f
	}
	if v := os.Getenv(envFetchTimeout); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid %s", envFetchTimeout)
		}
		s.FetchTimeout = time.Duration(secs) * time.Second
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate rejects settings the pipeline cannot run with.
func (s *Settings) Validate() error {
	if s.Workdir == "" {
		return errors.New("workdir must not be empty")
	}
	if s.MaxClipSeconds <= 0 {
		return errors.Errorf("max clip duration must be positive, got %.2f", s.MaxClipSeconds)
	}
	if s.TargetFPS <= 0 {
		return errors.Errorf("target fps must be positive, got %d", s.TargetFPS)
	}
	if s.FetchTimeout <= 0 {
		return errors.Errorf("fetch timeout must be positive, got %s", s.FetchTimeout)
	}
	return nil
}

// InputDir returns the folder holding the payload video.
func (s *Settings) InputDir() string { return filepath.Join(s.Workdir, InputFolder) }

// OverlayDir returns the folder holding the optional overlay image.
func (s *Settings) OverlayDir() string { return filepath.Join(s.Workdir, OverlayFolder) }

// TempDir returns the staging folder owned by the pipeline.
func (s *Settings) TempDir() string { return filepath.Join(s.Workdir, TempFolder) }

// OutputDir returns the folder receiving final pair files.
func (s *Settings) OutputDir() string { return filepath.Join(s.Workdir, OutputFolder) }

// EnsureDirs creates the working folders if they do not exist yet.
func (s *Settings) EnsureDirs() error {
	for _, dir := range []string{s.InputDir(), s.OverlayDir(), s.TempDir(), s.OutputDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, "creating %s", dir)
		}
	}
	return nil
}
