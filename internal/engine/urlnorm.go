package engine

import (
	"net/url"
	"strings"
)

// trackingParams are stripped before URLs are compared for duplicate
// detection. utm_* is handled by prefix.
var trackingParams = map[string]bool{
	"gclid":   true,
	"fbclid":  true,
	"igshid":  true,
	"ref":     true,
	"ref_src": true,
	"mc_cid":  true,
	"mc_eid":  true,
}

// NormalizeURL reduces a URL to its duplicate-detection identity:
// lowercase scheme and host, no www. prefix, no tracking params, no
// fragment, no trailing slash. Unparseable input falls back to a
// lowercased trim so the caller still gets a usable key.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return strings.ToLower(raw)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	u.Fragment = ""
	u.Path = strings.TrimSuffix(u.Path, "/")

	if u.RawQuery != "" {
		q := u.Query()
		for key := range q {
			lk := strings.ToLower(key)
			if strings.HasPrefix(lk, "utm_") || trackingParams[lk] {
				q.Del(key)
			}
		}
		u.RawQuery = q.Encode()
	}

	return u.String()
}

func normalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
