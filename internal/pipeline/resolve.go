package pipeline

import "github.com/rs/zerolog"

// MediaValidator gates the payload video before the batch starts.
type MediaValidator interface {
	Validate(path string) bool
}

// ResolvePayload locates and validates the single payload video in the
// input folder. Both an empty folder and a corrupt payload are batch-fatal.
func ResolvePayload(inputDir string, validator MediaValidator, log zerolog.Logger) (string, error) {
	path, err := FirstMatch(inputDir, VideoExtensions)
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", NoPayloadError(inputDir, VideoExtensions)
	}
	log.Info().Str("path", path).Msg("payload video found")

	if !validator.Validate(path) {
		return "", CorruptPayloadError(path)
	}
	return path, nil
}

// ResolveOverlay locates the optional overlay image. An empty overlay
// folder simply disables compositing.
func ResolveOverlay(overlayDir string, log zerolog.Logger) (string, error) {
	path, err := FirstMatch(overlayDir, ImageExtensions)
	if err != nil {
		return "", err
	}
	if path == "" {
		log.Info().Msg("no overlay image found, clips will not be overlaid")
		return "", nil
	}
	log.Info().Str("path", path).Msg("overlay image found")
	return path, nil
}
