package source

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const profileUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"

// ProfileChecker confirms a profile page resolves before any listing work
// starts, so a typoed or private profile fails fast with a clear message.
type ProfileChecker struct {
	client *http.Client
	log    zerolog.Logger
}

func NewProfileChecker(timeout time.Duration, log zerolog.Logger) *ProfileChecker {
	return &ProfileChecker{
		client: &http.Client{Timeout: timeout},
		log:    log.With().Str("component", "profile").Logger(),
	}
}

// Check fetches the profile page and returns its display title. A non-2xx
// status or an unparsable page is an error.
func (c *ProfileChecker) Check(ctx context.Context, profileURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, profileURL, nil)
	if err != nil {
		return "", errors.WithStack(err)
	}
	req.Header.Set("User-Agent", profileUserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "fetching profile page")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", errors.Errorf("profile page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "parsing profile page")
	}

	title := strings.TrimSpace(doc.Find(`meta[property="og:title"]`).AttrOr("content", ""))
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if title == "" {
		return "", errors.New("profile page has no title")
	}

	c.log.Debug().Str("title", title).Msg("profile resolved")
	return title, nil
}
