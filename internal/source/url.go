package source

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// Profile URL shapes accepted for a creator's public collection. Checked in
// order; the first capture group is the username.
var profilePatterns = []*regexp.Regexp{
	regexp.MustCompile(`tiktok\.com/@([^/?#]+)`),
	regexp.MustCompile(`tiktok\.com/user/([^/?#]+)`),
	regexp.MustCompile(`vm\.tiktok\.com/([^/?#]+)`),
	regexp.MustCompile(`tiktok\.com/([^/@?#]+)/?$`),
}

// NormalizeProfileURL validates a raw profile locator and returns it with an
// https scheme. Anything that is not a recognizable profile URL is rejected
// before the pipeline runs.
func NormalizeProfileURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("profile URL must not be empty")
	}
	if !strings.Contains(raw, "tiktok.com") {
		return "", errors.Errorf("not a recognizable profile URL: %s", raw)
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}
	if _, err := ExtractUsername(raw); err != nil {
		return "", err
	}
	return raw, nil
}

// ExtractUsername pulls the creator username out of a profile URL.
func ExtractUsername(profileURL string) (string, error) {
	for _, pattern := range profilePatterns {
		if m := pattern.FindStringSubmatch(profileURL); m != nil {
			return m[1], nil
		}
	}
	return "", errors.Errorf("invalid profile URL format: %s", profileURL)
}
