package normalize

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidURL reports a raw url that cannot anchor a posting identity.
var ErrInvalidURL = errors.New("url missing scheme or host")

// trackingParams are query parameters dropped during canonicalization, on
// top of the utm_ prefix family. They identify the visit, not the posting.
var trackingParams = map[string]bool{
	"gclid":    true,
	"fbclid":   true,
	"ref":      true,
	"referrer": true,
	"source":   true,
	"src":      true,
	"trk":      true,
	"tracking": true,
	"mc_cid":   true,
	"mc_eid":   true,
}

// CanonicalURL rewrites a posting URL into its canonical form: lower-cased
// scheme and host, default ports and fragments dropped, tracking query
// parameters removed and the surviving ones stably sorted. Two raw URLs
// that differ only in those respects canonicalize identically.
func CanonicalURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("unparseable url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if (u.Scheme == "http" && strings.HasSuffix(u.Host, ":80")) ||
		(u.Scheme == "https" && strings.HasSuffix(u.Host, ":443")) {
		u.Host = u.Hostname()
	}

	q := u.Query()
	for key := range q {
		if isTrackingParam(key) {
			q.Del(key)
		}
	}
	u.RawQuery = q.Encode()
	u.Fragment = ""
	if u.Path == "/" {
		u.Path = ""
	}

	return u.String(), nil
}

func isTrackingParam(key string) bool {
	key = strings.ToLower(key)
	if strings.HasPrefix(key, "utm_") {
		return true
	}
	return trackingParams[key]
}
